package convert

import (
	"context"
	"errors"
	"time"

	"currconv/internal/adapters"
	"currconv/internal/domain"

	"github.com/sirupsen/logrus"
)

const defaultProviderTimeout = 5 * time.Second

// RateResolver produces an exchange rate for a currency pair. Implementations
// must absorb upstream failures and only report an error when no tier at all
// can supply a usable rate.
type RateResolver interface {
	Resolve(ctx context.Context, from, to string) (float64, error)
}

// rateTier is one strategy in the fallback chain. A tier that cannot serve the
// pair (upstream down, codes unknown) reports ok=false and never an error:
// tier failures silently advance the chain.
type rateTier interface {
	name() string
	try(ctx context.Context, from, to string) (rate float64, ok bool)
}

// Resolver walks an ordered chain of tiers and returns the first usable rate.
// Same-currency pairs short-circuit to 1 before any tier runs, so callers may
// reuse the resolver without paying for network or store access.
type Resolver struct {
	tiers []rateTier
}

func (r *Resolver) Resolve(ctx context.Context, from, to string) (float64, error) {
	if from == to {
		return 1, nil
	}

	for _, tier := range r.tiers {
		if rate, ok := tier.try(ctx, from, to); ok {
			return rate, nil
		}
		logrus.WithFields(logrus.Fields{"tier": tier.name(), "from": from, "to": to}).
			Warn("rate tier failed, falling through")
	}

	return 0, domain.ErrRateUnavailable
}

// NewResolver builds the fallback chain: live provider, static table,
// persisted table.
func NewResolver(provider adapters.RateProvider, repo adapters.RateRepository, providerTimeout time.Duration) *Resolver {
	if providerTimeout <= 0 {
		providerTimeout = defaultProviderTimeout
	}
	return &Resolver{
		tiers: []rateTier{
			&providerTier{provider: provider, timeout: providerTimeout},
			&staticTier{rates: baseUnitRates},
			&storeTier{repo: repo},
		},
	}
}

// providerTier asks the live provider for the table anchored at "from"; the
// returned value is already in from->to orientation. The call is bounded by
// its own timeout so a slow provider costs at most one timeout per request.
type providerTier struct {
	provider adapters.RateProvider
	timeout  time.Duration
}

func (t *providerTier) name() string { return "provider" }

func (t *providerTier) try(ctx context.Context, from, to string) (float64, bool) {
	reqCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	rates, err := t.provider.GetExchangeRates(reqCtx, from)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"from": from, "to": to}).
			Warn("live provider call failed")
		return 0, false
	}

	rate, ok := rates[to]
	return rate, ok
}

// staticTier computes the cross rate from the built-in per-base-unit table:
// dividing "units of to per USD" by "units of from per USD" yields
// "units of to per 1 from".
type staticTier struct {
	rates map[string]float64
}

func (t *staticTier) name() string { return "static" }

func (t *staticTier) try(_ context.Context, from, to string) (float64, bool) {
	fromRate, fromOK := t.rates[from]
	toRate, toOK := t.rates[to]
	if !fromOK || !toOK {
		return 0, false
	}
	return toRate / fromRate, true
}

// storeTier is the last resort: it reads per-base-unit rates from the
// persisted table. A code with no row defaults to 1 rather than failing; only
// a store error makes the tier itself fail.
type storeTier struct {
	repo adapters.RateRepository
}

func (t *storeTier) name() string { return "store" }

func (t *storeTier) try(ctx context.Context, from, to string) (float64, bool) {
	fromRate, ok := t.lookup(ctx, from)
	if !ok {
		return 0, false
	}
	toRate, ok := t.lookup(ctx, to)
	if !ok {
		return 0, false
	}
	return toRate / fromRate, true
}

func (t *storeTier) lookup(ctx context.Context, code string) (float64, bool) {
	rate, err := t.repo.GetRateToBase(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrRateNotFound) {
			// Unlisted currencies convert at parity with the base unit.
			return 1, true
		}
		logrus.WithError(err).WithField("code", code).Warn("rate store lookup failed")
		return 0, false
	}
	return rate, true
}
