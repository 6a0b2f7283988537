package convert

import (
	"errors"
	"math"
	"strconv"
)

var (
	ErrMissingFields     = errors.New("missing required fields")
	ErrAmountNotPositive = errors.New("amount must be a positive number")
	ErrSameCurrency      = errors.New("cannot convert currency to itself")
)

// RequestValidator checks a conversion request before any rate resolution
// happens. Checks run in a fixed order and the first failure wins.
type RequestValidator struct{}

// ValidateConversion parses the raw amount and validates the pair. The amount
// arrives as a string so that "field absent" and "field not a number" stay
// distinguishable.
func (v *RequestValidator) ValidateConversion(amount, from, to string) (float64, error) {
	if amount == "" || from == "" || to == "" {
		return 0, ErrMissingFields
	}

	parsed, err := strconv.ParseFloat(amount, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) || parsed <= 0 {
		return 0, ErrAmountNotPositive
	}

	if from == to {
		return 0, ErrSameCurrency
	}

	return parsed, nil
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{}
}
