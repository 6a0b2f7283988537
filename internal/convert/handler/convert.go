package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

type ConvertRequest struct {
	Amount json.Number `json:"amount" swaggertype:"number" example:"100"`
	From   string      `json:"from" example:"USD"`
	To     string      `json:"to" example:"EUR"`
}

type ConvertResponse struct {
	Success bool    `json:"success" example:"true"`
	Result  float64 `json:"result" example:"92.00"`
	Rate    float64 `json:"rate" example:"0.92"`
	Message string  `json:"message" example:"100.00 USD = 92.00 EUR"`
}

// Convert godoc
// @Summary Convert an amount between two currencies
// @Description Validates the request, resolves the exchange rate and returns the rounded result
// @Tags Conversion
// @Accept json
// @Produce json
// @Param request body ConvertRequest true "Conversion request"
// @Success 200 {object} ConvertResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /convert [post]
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 512)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req ConvertRequest
	if err := dec.Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	from := strings.ToUpper(strings.TrimSpace(req.From))
	to := strings.ToUpper(strings.TrimSpace(req.To))

	amount, err := h.validator.ValidateConversion(req.Amount.String(), from, to)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	res, err := h.service.Convert(r.Context(), amount, from, to)
	if err != nil {
		// Unreachable while at least one resolver tier holds data; kept so an
		// exhausted chain still answers with a well-formed envelope.
		msg := "failed to convert currency"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "Convert", "from": from, "to": to}).Error(msg)
		writeServerError(w, msg, err.Error())
		return
	}

	writeOK(w, ConvertResponse{
		Success: true,
		Result:  res.Result,
		Rate:    res.Rate,
		Message: fmt.Sprintf("%.2f %s = %.2f %s", amount, from, res.Result, to),
	})
}
