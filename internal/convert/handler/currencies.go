package handler

import (
	"net/http"

	"currconv/internal/convert"
)

// GetCurrencies godoc
// @Summary List supported currencies
// @Description Retrieve the code and display name of every supported currency
// @Tags Conversion
// @Produce json
// @Success 200 {array} domain.Currency
// @Router /currencies [get]
func (h *Handler) GetCurrencies(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, convert.SupportedCurrencies)
}
