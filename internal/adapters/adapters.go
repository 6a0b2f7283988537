package adapters

import (
	"context"
	"currconv/internal/domain"
)

type RateProvider interface {
	GetExchangeRates(ctx context.Context, base string) (map[string]float64, error)
}

type RateRepository interface {
	GetRateToBase(ctx context.Context, code string) (float64, error)
	SaveRates(ctx context.Context, entries []domain.RateEntry) error
	ListRateHistory(ctx context.Context, code string) ([]domain.RateEntry, error)
}

type ConversionHistoryRepository interface {
	InsertConversion(ctx context.Context, rec domain.ConversionRecord) error
}
