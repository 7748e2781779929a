package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"FoodExpress/internal/receipt"
	"FoodExpress/internal/store"
	"FoodExpress/pkg/kit"
)

type kitchenResp struct {
	Notice string      `json:"notice,omitempty"`
	Orders []orderView `json:"orders"`
}

// kitchenOrders is the staff queue: pending first, then newest first,
// filtered by ?q= against the id or table marker.
func (s *Server) kitchenOrders(w http.ResponseWriter, r *http.Request) {
	queue := s.staff.KitchenQueue(r.URL.Query().Get("q"))

	resp := kitchenResp{
		Notice: s.staff.Config().KitchenNotificationText,
		Orders: make([]orderView, 0, len(queue)),
	}
	for _, o := range queue {
		resp.Orders = append(resp.Orders, s.viewOrder(s.staff, o))
	}
	kit.WriteJSON(w, http.StatusOK, resp)
}

// advanceOrder moves an order to the next status in the flow.
func (s *Server) advanceOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	o, ok := s.staff.Order(id)
	if !ok {
		notFound(w, r, "order", id)
		return
	}
	next, ok := store.Next(o.Status)
	if !ok {
		kit.WriteError(w, r, http.StatusConflict, "order has no next status", map[string]any{"status": o.Status})
		return
	}

	if err := s.staff.UpdateOrderStatus(r.Context(), id, next); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOrder(w, r, s.staff, id)
}

type cancelReq struct {
	Reason string `json:"reason"`
}

func (s *Server) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req, err := kit.DecodeJSON[cancelReq](w, r)
	if err != nil {
		badJSON(w, r)
		return
	}
	if _, ok := s.staff.Order(id); !ok {
		notFound(w, r, "order", id)
		return
	}

	if err := s.staff.CancelOrder(r.Context(), id, req.Reason); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOrder(w, r, s.staff, id)
}

// writeOrder answers with the order as st sees it after a mutation. The
// store reloads before the mutation returns, so the change is visible.
func (s *Server) writeOrder(w http.ResponseWriter, r *http.Request, st *store.Store, id string) {
	o, ok := st.Order(id)
	if !ok {
		notFound(w, r, "order", id)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.viewOrder(st, o))
}

// printReceipt renders a printable text receipt; ?width= overrides the column
// count.
func (s *Server) printReceipt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	o, ok := s.staff.Order(id)
	if !ok {
		notFound(w, r, "order", id)
		return
	}

	opts := receipt.Options{Location: s.loc}
	if v := r.URL.Query().Get("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			kit.WriteError(w, r, http.StatusBadRequest, "bad width", nil)
			return
		}
		opts.Width = n
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := receipt.Render(w, o, s.staff.Config(), opts); err != nil {
		s.log.Warn("write receipt", zap.String("order_id", id), zap.Error(err))
	}
}
