package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"FoodExpress/internal/pricing"
	"FoodExpress/internal/stats"
	"FoodExpress/internal/store"
	"FoodExpress/pkg/kit"
)

func (s *Server) listProducts(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.admin.Products())
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	p, err := kit.DecodeJSON[store.Product](w, r)
	if err != nil {
		badJSON(w, r)
		return
	}
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}

	if err := s.admin.AddProduct(r.Context(), p); err != nil {
		s.writeError(w, r, err)
		return
	}
	got, _ := s.admin.Product(p.ID)
	kit.WriteJSON(w, http.StatusCreated, got)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := kit.DecodeJSON[store.Product](w, r)
	if err != nil {
		badJSON(w, r)
		return
	}
	if _, ok := s.admin.Product(id); !ok {
		notFound(w, r, "product", id)
		return
	}
	p.ID = id

	if err := s.admin.UpdateProduct(r.Context(), p); err != nil {
		s.writeError(w, r, err)
		return
	}
	got, _ := s.admin.Product(id)
	kit.WriteJSON(w, http.StatusOK, got)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.admin.Product(id); !ok {
		notFound(w, r, "product", id)
		return
	}

	if err := s.admin.DeleteProduct(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type categoryReq struct {
	Name string `json:"name"`
}

type categoryView struct {
	store.Category
	Products int `json:"products"`
}

func (s *Server) listCategories(w http.ResponseWriter, _ *http.Request) {
	cats := s.admin.Categories()
	out := make([]categoryView, 0, len(cats)+1)
	for _, c := range cats {
		out = append(out, categoryView{Category: c, Products: len(s.admin.ProductsInCategory(c.ID))})
	}
	if n := len(s.admin.ProductsInCategory(store.UncategorizedID)); n > 0 {
		out = append(out, categoryView{Category: store.Uncategorized, Products: n})
	}
	kit.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	req, err := kit.DecodeJSON[categoryReq](w, r)
	if err != nil {
		badJSON(w, r)
		return
	}

	c, err := s.admin.AddCategory(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, c)
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req, err := kit.DecodeJSON[categoryReq](w, r)
	if err != nil {
		badJSON(w, r)
		return
	}
	if _, ok := s.admin.Category(id); !ok {
		notFound(w, r, "category", id)
		return
	}

	if err := s.admin.UpdateCategory(r.Context(), id, req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	got, _ := s.admin.Category(id)
	kit.WriteJSON(w, http.StatusOK, got)
}

// deleteCategory leaves products that reference the category in place;
// they show up as uncategorized.
func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.admin.Category(id); !ok {
		notFound(w, r, "category", id)
		return
	}

	if err := s.admin.DeleteCategory(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) adminConfig(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.admin.Config())
}

func (s *Server) updateConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := kit.DecodeJSON[store.SystemConfig](w, r)
	if err != nil {
		badJSON(w, r)
		return
	}

	if err := s.admin.UpdateConfig(r.Context(), cfg); err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.admin.Config())
}

// adminOrders searches ?q= in the id, customer name and contact value.
func (s *Server) adminOrders(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	orders := s.admin.Orders()
	out := make([]orderView, 0, len(orders))
	for _, o := range orders {
		if q != "" &&
			!strings.Contains(strings.ToLower(o.ID), q) &&
			!strings.Contains(strings.ToLower(o.CustomerName), q) &&
			!strings.Contains(strings.ToLower(o.ContactValue), q) {
			continue
		}
		out = append(out, s.viewOrder(s.admin, o))
	}
	kit.WriteJSON(w, http.StatusOK, out)
}

type editOrderReq struct {
	Items           []store.CartItem    `json:"items"`
	CustomerName    string              `json:"customerName"`
	ContactMethod   store.ContactMethod `json:"contactMethod"`
	ContactValue    string              `json:"contactValue"`
	DeliveryAddress string              `json:"deliveryAddress"`
}

// editOrder replaces line items and contact details. The total is always
// recomputed from the new items; status changes go through /status.
func (s *Server) editOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req, err := kit.DecodeJSON[editOrderReq](w, r)
	if err != nil {
		badJSON(w, r)
		return
	}
	if req.ContactMethod != "" && !req.ContactMethod.Valid() {
		kit.WriteError(w, r, http.StatusBadRequest, "unknown contact method", nil)
		return
	}

	o, ok := s.admin.Order(id)
	if !ok {
		notFound(w, r, "order", id)
		return
	}

	o.Items = req.Items
	o.TotalAmount = store.ItemsTotal(req.Items)
	o.CustomerName = strings.TrimSpace(req.CustomerName)
	if req.ContactMethod != "" {
		o.ContactMethod = req.ContactMethod
	}
	o.ContactValue = strings.TrimSpace(req.ContactValue)
	o.DeliveryAddress = strings.TrimSpace(req.DeliveryAddress)

	if err := s.admin.UpdateOrder(r.Context(), o); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOrder(w, r, s.admin, id)
}

type statusReq struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func (s *Server) setOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req, err := kit.DecodeJSON[statusReq](w, r)
	if err != nil {
		badJSON(w, r)
		return
	}
	next, ok := store.ParseStatus(req.Status)
	if !ok {
		kit.WriteError(w, r, http.StatusBadRequest, "unknown status", map[string]any{"status": req.Status})
		return
	}
	if _, ok := s.admin.Order(id); !ok {
		notFound(w, r, "order", id)
		return
	}

	if next == store.StatusCancelled {
		err = s.admin.CancelOrder(r.Context(), id, req.Reason)
	} else {
		err = s.admin.UpdateOrderStatus(r.Context(), id, next)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOrder(w, r, s.admin, id)
}

type statsResp struct {
	stats.Dashboard
	Revenue    pricing.Prices `json:"revenue"`
	Categories int            `json:"categories"`
}

func (s *Server) dashboard(w http.ResponseWriter, _ *http.Request) {
	d := stats.Compute(s.admin.Orders(), s.loc)
	kit.WriteJSON(w, http.StatusOK, statsResp{
		Dashboard:  d,
		Revenue:    pricing.Format(d.TotalRevenue, pricing.RatesFrom(s.admin.Config())),
		Categories: len(s.admin.Categories()),
	})
}
