package domain

import (
	"time"

	"github.com/google/uuid"
)

// ConversionRecord is an append-only audit entry written once per successful
// conversion. Nothing in the conversion path ever reads it back.
type ConversionRecord struct {
	ID              uuid.UUID
	Amount          float64
	FromCode        string
	ToCode          string
	ConvertedAmount float64
	ExchangeRate    float64
	RecordedAt      time.Time
}
