package store

import "github.com/shopspring/decimal"

// Built-in data written on the first ever read of an empty origin. Each
// call returns fresh values.

func usd(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func DefaultCategories() []Category {
	return []Category{
		{ID: "c1", Name: "Phổ biến"},
		{ID: "c2", Name: "Món chính"},
		{ID: "c3", Name: "Đồ ăn vặt"},
		{ID: "c4", Name: "Đồ uống"},
		{ID: "c5", Name: "Tráng miệng"},
	}
}

func DefaultProducts() []Product {
	return []Product{
		{
			ID:          "p1",
			Name:        "Trà Sữa Trân Châu Đường Đen",
			Description: "Trà sữa đậm vị kết hợp trân châu đường đen nấu chậm.",
			Price:       usd("2.50"),
			Category:    "Đồ uống",
			CategoryID:  "c4",
			Image:       "https://picsum.photos/300/300?random=1",
			IsAvailable: true,
			Toppings: []Topping{
				{ID: "t1", Name: "Trân châu đen", Price: usd("0.50")},
				{ID: "t2", Name: "Pudding trứng", Price: usd("0.70")},
			},
		},
		{
			ID:          "p2",
			Name:        "Cơm Gà Xối Mỡ",
			Description: "Đùi gà góc tư chiên giòn, cơm chiên dương châu.",
			Price:       usd("4.00"),
			Category:    "Món chính",
			CategoryID:  "c2",
			Image:       "https://picsum.photos/300/300?random=2",
			IsAvailable: true,
			Toppings: []Topping{
				{ID: "t3", Name: "Thêm Cơm", Price: usd("0.50")},
				{ID: "t4", Name: "Thêm Canh", Price: usd("0.20")},
			},
		},
		{
			ID:          "p3",
			Name:        "Bún Bò Huế",
			Description: "Hương vị chuẩn Huế, có chả cua và giò heo.",
			Price:       usd("4.50"),
			Category:    "Món chính",
			CategoryID:  "c2",
			Image:       "https://picsum.photos/300/300?random=3",
			IsAvailable: true,
			Toppings:    []Topping{},
		},
		{
			ID:          "p4",
			Name:        "Khoai Tây Chiên",
			Description: "Khoai tây chiên giòn rắc phô mai.",
			Price:       usd("2.00"),
			Category:    "Đồ ăn vặt",
			CategoryID:  "c3",
			Image:       "https://picsum.photos/300/300?random=4",
			IsAvailable: true,
			Toppings:    []Topping{},
		},
		{
			ID:          "p5",
			Name:        "Bánh Plan",
			Description: "Bánh plan cốt dừa béo ngậy.",
			Price:       usd("1.00"),
			Category:    "Tráng miệng",
			CategoryID:  "c5",
			Image:       "https://picsum.photos/300/300?random=5",
			IsAvailable: true,
			Toppings:    []Topping{},
		},
		{
			ID:          "p6",
			Name:        "Trà Đào Cam Sả",
			Description: "Thanh mát giải nhiệt mùa hè.",
			Price:       usd("2.50"),
			Category:    "Đồ uống",
			CategoryID:  "c4",
			Image:       "https://picsum.photos/300/300?random=6",
			IsAvailable: true,
			Toppings: []Topping{
				{ID: "t5", Name: "Thạch đào", Price: usd("0.50")},
				{ID: "t6", Name: "Trân châu trắng", Price: usd("0.50")},
			},
		},
	}
}

func DefaultConfig() SystemConfig {
	return SystemConfig{
		StoreName:               "FoodExpress",
		StoreAddress:            "123 Đường Ẩm Thực, Quận 1, TP.HCM",
		StorePhone:              "1900 1234",
		TelegramUsername:        "SupportFoodExpress",
		ExchangeRateKHR:         decimal.NewFromInt(4100),
		ExchangeRateVND:         decimal.NewFromInt(25000),
		BannerURL:               "https://images.unsplash.com/photo-1504674900247-0877df9cc836?auto=format&fit=crop&w=1200&q=80",
		NotificationText:        "Chào mừng quý khách đến với FoodExpress! Giảm giá 10% cho đơn hàng trên $20.",
		KitchenNotificationText: "Lưu ý: Kiểm tra kỹ ghi chú của khách hàng trước khi chế biến.",
		ContactLinks: []ContactLink{
			{ID: "cl1", Platform: "Facebook", Label: "Fanpage", Value: "https://facebook.com", IsActive: true},
			{ID: "cl2", Platform: "Zalo", Label: "Zalo OA", Value: "https://zalo.me", IsActive: true},
			{ID: "cl3", Platform: "Telegram", Label: "Channel", Value: "https://t.me/channel", IsActive: true},
			{ID: "cl4", Platform: "Hotline", Label: "Hotline", Value: "tel:19001234", IsActive: true},
		},
	}
}
