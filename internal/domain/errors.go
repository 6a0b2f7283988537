package domain

import "errors"

var (
	ErrRateNotFound    = errors.New("rate not found")
	ErrRateUnavailable = errors.New("rate unavailable")
)
