package domain

import (
	"time"
)

type Currency struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// RateEntry is one row of the persisted rate table: how many units of the
// currency one base unit (USD) buys at the moment it was recorded.
type RateEntry struct {
	Code       string
	RateToBase float64
	RecordedAt time.Time
}
