package postgres

import (
	"context"
	"fmt"

	"currconv/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ConversionHistoryRepository struct {
	pool *pgxpool.Pool
}

func (r *ConversionHistoryRepository) InsertConversion(ctx context.Context, rec domain.ConversionRecord) error {
	const q = `
        insert into conversion_history(id, amount, from_code, to_code, converted_amount, exchange_rate, recorded_at)
        values ($1, $2, $3, $4, $5, $6, $7);
    `

	_, err := r.pool.Exec(ctx, q,
		rec.ID,
		rec.Amount,
		rec.FromCode,
		rec.ToCode,
		rec.ConvertedAmount,
		rec.ExchangeRate,
		rec.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert conversion %q/%q: %w", rec.FromCode, rec.ToCode, err)
	}
	return nil
}

func NewConversionHistoryRepository(pool *pgxpool.Pool) *ConversionHistoryRepository {
	return &ConversionHistoryRepository{pool: pool}
}
