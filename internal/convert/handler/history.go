package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type RateHistoryEntry struct {
	RateToBase float64   `json:"rateToBase" example:"0.92"`
	RecordedAt time.Time `json:"recordedAt" example:"2025-01-02T15:04:05Z"`
}

// GetRateHistory godoc
// @Summary Rate history for a currency
// @Description Chronological list of recorded rates-to-base for a currency code
// @Tags Conversion
// @Produce json
// @Param code path string true "Currency code"
// @Success 200 {array} RateHistoryEntry
// @Failure 500 {object} errorResponse
// @Router /history/{code} [get]
func (h *Handler) GetRateHistory(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))

	entries, err := h.service.ListRateHistory(r.Context(), code)
	if err != nil {
		msg := "failed to load rate history"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetRateHistory", "code": code}).Error(msg)
		writeServerError(w, msg, err.Error())
		return
	}

	out := make([]RateHistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, RateHistoryEntry{RateToBase: e.RateToBase, RecordedAt: e.RecordedAt})
	}
	writeOK(w, out)
}
