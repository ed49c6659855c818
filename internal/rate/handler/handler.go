package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/maria-mashura/currency-tracker/internal/domain"
)

// LatestProvider is the read-side seam: implemented by rate.Service.
type LatestProvider interface {
	Latest(ctx context.Context) ([]domain.RateRecord, error)
}

type Handler struct {
	service LatestProvider
}

func NewRateHandler(service LatestProvider) *Handler {
	return &Handler{service: service}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorMsg,
	})
}
