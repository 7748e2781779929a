package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"FoodExpress/internal/checkout"
	"FoodExpress/internal/pricing"
	"FoodExpress/internal/store"
	"FoodExpress/pkg/kit"
)

type menuItem struct {
	store.Product
	CategoryID string         `json:"categoryId"`
	Prices     pricing.Prices `json:"prices"`
}

// menu lists available products, optionally narrowed by category id or
// name (?category=) and a case-insensitive name search (?q=).
func (s *Server) menu(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	rates := pricing.RatesFrom(s.customer.Config())

	out := make([]menuItem, 0)
	for _, p := range s.customer.AvailableProducts() {
		c := s.customer.CategoryOf(p)
		if category != "" && category != c.ID && category != p.Category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		out = append(out, menuItem{Product: p, CategoryID: c.ID, Prices: pricing.Format(p.Price, rates)})
	}

	kit.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) categories(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.customer.Categories())
}

type publicConfig struct {
	StoreName        string              `json:"storeName"`
	StoreAddress     string              `json:"storeAddress"`
	StorePhone       string              `json:"storePhone"`
	BannerURL        string              `json:"bannerUrl"`
	NotificationText string              `json:"notificationText"`
	ContactLinks     []store.ContactLink `json:"contactLinks"`
	Rates            pricing.Rates       `json:"rates"`
}

// publicConfig leaves out staff-only fields.
func (s *Server) publicConfig(w http.ResponseWriter, _ *http.Request) {
	cfg := s.customer.Config()
	kit.WriteJSON(w, http.StatusOK, publicConfig{
		StoreName:        cfg.StoreName,
		StoreAddress:     cfg.StoreAddress,
		StorePhone:       cfg.StorePhone,
		BannerURL:        cfg.BannerURL,
		NotificationText: cfg.NotificationText,
		ContactLinks:     cfg.ActiveContactLinks(),
		Rates:            pricing.RatesFrom(cfg),
	})
}

type orderView struct {
	store.Order
	ShortID string         `json:"shortId"`
	Prices  pricing.Prices `json:"prices"`
}

func (s *Server) viewOrder(st *store.Store, o store.Order) orderView {
	return orderView{
		Order:   o,
		ShortID: o.ShortID(),
		Prices:  pricing.Format(o.TotalAmount, pricing.RatesFrom(st.Config())),
	}
}

func (s *Server) lookupOrder(w http.ResponseWriter, r *http.Request) {
	suffix := chi.URLParam(r, "suffix")

	o, ok := s.customer.FindOrderBySuffix(suffix)
	if !ok {
		notFound(w, r, "order", suffix)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.viewOrder(s.customer, o))
}

type cartView struct {
	*checkout.Cart
	Total  pricing.Prices `json:"total"`
	Length int            `json:"length"`
}

func (s *Server) viewCart(c *checkout.Cart) cartView {
	return cartView{
		Cart:   c,
		Total:  pricing.Format(c.Total(), pricing.RatesFrom(s.customer.Config())),
		Length: c.Len(),
	}
}

func (s *Server) createCart(w http.ResponseWriter, r *http.Request) {
	c, err := s.carts.Create(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, s.viewCart(c))
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	c, err := s.carts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.viewCart(c))
}

type addItemReq struct {
	ProductID  string   `json:"productId"`
	Quantity   int      `json:"quantity"`
	ToppingIDs []string `json:"toppingIds"`
	Note       string   `json:"note"`
}

func (s *Server) addCartItem(w http.ResponseWriter, r *http.Request) {
	req, err := kit.DecodeJSON[addItemReq](w, r)
	if err != nil {
		badJSON(w, r)
		return
	}

	p, ok := s.customer.Product(strings.TrimSpace(req.ProductID))
	if !ok {
		notFound(w, r, "product", req.ProductID)
		return
	}
	it, err := checkout.NewCartItem(p, req.Quantity, req.ToppingIDs, req.Note)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.carts.Update(r.Context(), chi.URLParam(r, "id"), func(c *checkout.Cart) error {
		c.Add(it)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.viewCart(c))
}

func (s *Server) removeCartItem(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineID")

	c, err := s.carts.Update(r.Context(), chi.URLParam(r, "id"), func(c *checkout.Cart) error {
		if !c.Remove(lineID) {
			return fmt.Errorf("%w: cart line %s", errNotFound, lineID)
		}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.viewCart(c))
}

func (s *Server) checkoutCart(w http.ResponseWriter, r *http.Request) {
	cust, err := kit.DecodeJSON[checkout.Customer](w, r)
	if err != nil {
		badJSON(w, r)
		return
	}

	res, err := s.checkout.CheckoutCart(r.Context(), chi.URLParam(r, "id"), cust)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, res)
}
