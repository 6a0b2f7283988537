package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"currconv/internal/convert"
	"currconv/internal/domain"
)

type ConversionValidator interface {
	ValidateConversion(amount, from, to string) (float64, error)
}

type ConversionService interface {
	Convert(ctx context.Context, amount float64, from, to string) (convert.Result, error)
	ListRateHistory(ctx context.Context, code string) ([]domain.RateEntry, error)
}

type Handler struct {
	validator ConversionValidator
	service   ConversionService
}

func NewConversionHandler(validator ConversionValidator, service ConversionService) *Handler {
	return &Handler{validator: validator, service: service}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func writeBadRequest(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Success: false,
		Message: message,
	})
}

func writeServerError(w http.ResponseWriter, message, errorMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Success: false,
		Message: message,
		Error:   errorMsg,
	})
}

func writeOK(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(body)
}
