package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02 15:04:05"

type rateView struct {
	Bank     string  `json:"bank"`
	Currency string  `json:"currency"`
	Buy      float64 `json:"buy"`
	Sell     float64 `json:"sell"`
	Date     string  `json:"date"`
}

type GetLatestResponse struct {
	Rates []rateView `json:"rates"`
}

// GetLatest godoc
// @Summary Latest collected exchange rates
// @Description Returns up to 100 most recent rate records, newest first
// @Tags rates
// @Produce json
// @Success 200 {object} GetLatestResponse
// @Failure 500 {object} errorResponse
// @Router /rates/latest [get]
func (h *Handler) GetLatest(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.Latest(r.Context())
	if err != nil {
		msg := "ups, couldn't get latest rates this time"
		logrus.WithError(err).WithField("handler", "GetLatest").Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	res := GetLatestResponse{Rates: make([]rateView, 0, len(records))}
	for _, rec := range records {
		res.Rates = append(res.Rates, rateView{
			Bank:     rec.Bank,
			Currency: rec.Currency,
			Buy:      rec.Buy,
			Sell:     rec.Sell,
			Date:     rec.CollectedAt.Format(dateLayout),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(res)
}
