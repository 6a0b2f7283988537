package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"currconv/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RateRepository struct {
	pool *pgxpool.Pool
}

// GetRateToBase returns the most recently recorded rate-to-base for a code.
func (r *RateRepository) GetRateToBase(ctx context.Context, code string) (float64, error) {
	const q = `
        select rate_to_base
        from currency_rates
        where code = $1
        order by recorded_at desc
        limit 1;
    `

	var rate float64
	if err := r.pool.QueryRow(ctx, q, code).Scan(&rate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrRateNotFound
		}
		return 0, fmt.Errorf("failed to select rate for code %q: %w", code, err)
	}

	return rate, nil
}

// SaveRates appends a batch of rate entries in a single transaction. The table
// is append-only; readers always pick the newest row per code.
func (r *RateRepository) SaveRates(ctx context.Context, entries []domain.RateEntry) error {
	if len(entries) == 0 {
		return nil
	}

	type row struct {
		Code       string    `json:"code"`
		RateToBase float64   `json:"rate_to_base"`
		RecordedAt time.Time `json:"recorded_at"`
	}
	rows := make([]row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, row{Code: e.Code, RateToBase: e.RateToBase, RecordedAt: e.RecordedAt})
	}

	payloadJSON, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal rate entries: %w", err)
	}

	const q = `
        insert into currency_rates(code, rate_to_base, recorded_at)
        select r.code, r.rate_to_base, r.recorded_at
        from json_to_recordset($1::json) as r(code text, rate_to_base numeric, recorded_at timestamptz);
    `

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, q, json.RawMessage(payloadJSON)); err != nil {
		return fmt.Errorf("failed to insert rate entries: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListRateHistory returns all recorded rates for a code in chronological order.
// An unknown code yields an empty slice, not an error.
func (r *RateRepository) ListRateHistory(ctx context.Context, code string) ([]domain.RateEntry, error) {
	const q = `
        select code, rate_to_base, recorded_at
        from currency_rates
        where code = $1
        order by recorded_at;
    `

	rows, err := r.pool.Query(ctx, q, code)
	if err != nil {
		return nil, fmt.Errorf("failed to query rate history for code %q: %w", code, err)
	}
	defer rows.Close()

	entries := make([]domain.RateEntry, 0, 16)
	for rows.Next() {
		var e domain.RateEntry
		if err = rows.Scan(&e.Code, &e.RateToBase, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rate entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rate history: %w", err)
	}
	return entries, nil
}

func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}
