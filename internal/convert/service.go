package convert

import (
	"context"
	"fmt"
	"time"

	"currconv/internal/adapters"
	"currconv/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const defaultHistoryWriteTimeout = 5 * time.Second

// Result is the outcome of a conversion: the converted amount rounded to two
// decimals and the rate it was computed with.
type Result struct {
	Result float64
	Rate   float64
}

// Service runs the conversion pipeline: resolve rate, compute, record history,
// answer. The history write is fire-and-forget; its failure never reaches the
// caller.
type Service struct {
	resolver     RateResolver
	history      adapters.ConversionHistoryRepository
	rateRepo     adapters.RateRepository
	writeTimeout time.Duration
}

func (s *Service) Convert(ctx context.Context, amount float64, from, to string) (Result, error) {
	rate, err := s.resolver.Resolve(ctx, from, to)
	if err != nil {
		return Result{}, fmt.Errorf("failed to resolve rate for %q/%q: %w", from, to, err)
	}

	converted := roundCurrency(amount * rate)
	s.recordConversion(amount, from, to, converted, rate)

	return Result{Result: converted, Rate: rate}, nil
}

// ListRateHistory exposes the persisted per-code rate history, oldest first.
func (s *Service) ListRateHistory(ctx context.Context, code string) ([]domain.RateEntry, error) {
	return s.rateRepo.ListRateHistory(ctx, code)
}

// recordConversion persists the audit entry on a detached goroutine. The
// response path never waits for it: a crash or store outage loses at most this
// one row, never the response (see the handler contract). The goroutine gets
// its own timeout context because the request context dies with the response.
func (s *Service) recordConversion(amount float64, from, to string, converted, rate float64) {
	rec := domain.ConversionRecord{
		ID:              uuid.New(),
		Amount:          amount,
		FromCode:        from,
		ToCode:          to,
		ConvertedAmount: converted,
		ExchangeRate:    rate,
		RecordedAt:      time.Now().UTC(),
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logrus.WithField("panic", r).Error("conversion history write panicked")
			}
		}()

		writeCtx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
		defer cancel()

		if err := s.history.InsertConversion(writeCtx, rec); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{"from": from, "to": to}).
				Error("failed to record conversion history")
		}
	}()
}

// roundCurrency rounds to 2 decimal places, half away from zero. For the
// positive amounts this service accepts that is plain half-up currency
// rounding: 85.865 becomes 85.87.
func roundCurrency(v float64) float64 {
	rounded, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return rounded
}

func NewService(resolver RateResolver, history adapters.ConversionHistoryRepository, rateRepo adapters.RateRepository) *Service {
	return &Service{
		resolver:     resolver,
		history:      history,
		rateRepo:     rateRepo,
		writeTimeout: defaultHistoryWriteTimeout,
	}
}
