package api

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"FoodExpress/internal/checkout"
	"FoodExpress/internal/kv"
	"FoodExpress/internal/store"
	"FoodExpress/pkg/kit"
)

var errNotFound = errors.New("not found")

// Failures that mean the request itself is malformed or incomplete.
var badRequest = []error{
	checkout.ErrEmptyCart,
	checkout.ErrCustomerRequired,
	checkout.ErrContactRequired,
	checkout.ErrInvalidContactMethod,
	checkout.ErrInvalidQuantity,
	checkout.ErrUnknownTopping,
	checkout.ErrUnavailable,
	store.ErrInvalidOrder,
	store.ErrReasonRequired,
	store.ErrInvalidProduct,
	store.ErrInvalidCategory,
	store.ErrInvalidConfig,
}

// writeError maps domain errors onto HTTP status codes. Anything left is a
// persistence failure.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, e := range badRequest {
		if errors.Is(err, e) {
			kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
			return
		}
	}

	switch {
	case errors.Is(err, errNotFound), errors.Is(err, checkout.ErrCartNotFound):
		kit.WriteError(w, r, http.StatusNotFound, err.Error(), nil)
	case store.IsRejection(err):
		kit.WriteError(w, r, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, kv.ErrQuotaExceeded):
		s.log.Error("storage quota exceeded", zap.Error(err))
		kit.WriteError(w, r, http.StatusInsufficientStorage, "storage full", nil)
	case isTimeoutErr(err):
		kit.WriteError(w, r, http.StatusGatewayTimeout, "timeout", nil)
	default:
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func badJSON(w http.ResponseWriter, r *http.Request) {
	kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
}

func notFound(w http.ResponseWriter, r *http.Request, what, id string) {
	kit.WriteError(w, r, http.StatusNotFound, what+" not found", map[string]any{"id": id})
}

func isTimeoutErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
