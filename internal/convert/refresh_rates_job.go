package convert

import (
	"context"
	"fmt"
	"time"

	"currconv/internal/adapters"
	"currconv/internal/domain"

	"github.com/sirupsen/logrus"
)

// RefreshStoredRates fetches the provider's USD-anchored table and appends a
// fresh row per supported code to the persisted rate store. It keeps the
// last-resort resolver tier stocked with recent data instead of leaving it to
// the parity default.
func RefreshStoredRates(ctx context.Context, execID string, provider adapters.RateProvider, repo adapters.RateRepository, timeout time.Duration) error {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rates, err := provider.GetExchangeRates(reqCtx, BaseCurrency)
	if err != nil {
		return fmt.Errorf("failed to fetch provider rates: %w", err)
	}

	now := time.Now().UTC()
	entries := make([]domain.RateEntry, 0, len(SupportedCurrencies))
	for _, code := range SupportedCodes() {
		value, ok := rates[code]
		if code == BaseCurrency {
			// The provider may omit the base from its own table.
			value, ok = 1, true
		}
		if !ok {
			logrus.Warnf("Provider table has no entry for '%s', skipping; execID: %s", code, execID)
			continue
		}
		entries = append(entries, domain.RateEntry{Code: code, RateToBase: value, RecordedAt: now})
	}

	if len(entries) == 0 {
		logrus.Warnf("Provider table matched no supported codes; execID: %s", execID)
		return nil
	}

	if err = repo.SaveRates(ctx, entries); err != nil {
		return fmt.Errorf("failed to save refreshed rates: %w", err)
	}

	logrus.Infof("%d stored rates refreshed; execID: %s", len(entries), execID)
	return nil
}
