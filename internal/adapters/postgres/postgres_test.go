package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"currconv/internal/adapters/postgres"
	"currconv/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	tcpg "github.com/testcontainers/testcontainers-go/modules/postgres"
)

const migrationsDir = "../../platform/db/migrations"

var (
	pgSetupOnce sync.Once

	pgContainer *tcpg.PostgresContainer
	pgConnStr   string
)

func TestMain(m *testing.M) {
	code := m.Run()
	if pgContainer != nil {
		_ = pgContainer.Terminate(context.Background())
	}
	os.Exit(code)
}

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pgSetupOnce.Do(func() {
		startPostgres(t)
	})

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, pgConnStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	require.NoError(t, resetDatabase(ctx, pool))

	return pool
}

func startPostgres(t *testing.T) {
	ctx := context.Background()
	pg, err := tcpg.Run(ctx,
		"postgres:16-alpine",
		tcpg.WithDatabase("postgres"),
		tcpg.WithUsername("postgres"),
		tcpg.WithPassword("postgres"),
	)
	require.NoError(t, err)

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := goose.OpenDBWithDriver("pgx", dsn)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.Eventually(t, func() bool {
		pingCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return db.PingContext(pingCtx) == nil
	}, 15*time.Second, 500*time.Millisecond)

	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.UpContext(ctx, db, migrationsDir))

	pgContainer = pg
	pgConnStr = dsn
}

func resetDatabase(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `truncate table conversion_history, currency_rates restart identity cascade`); err != nil {
		return err
	}
	return nil
}

// ---------- RateRepository tests ----------

func TestRateRepository_GetRateToBase_NotFound(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)

	ctx := context.Background()
	_, err := repo.GetRateToBase(ctx, "EUR")
	require.ErrorIs(t, err, domain.ErrRateNotFound)
}

func TestRateRepository_GetRateToBase_ReturnsLatest(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
        insert into currency_rates(code, rate_to_base, recorded_at) values
        ('EUR', 0.95, now() - interval '2 hours'),
        ('EUR', 0.92, now() - interval '1 hour'),
        ('GBP', 0.79, now())
    `)
	require.NoError(t, err)

	rate, err := repo.GetRateToBase(ctx, "EUR")
	require.NoError(t, err)
	require.InDelta(t, 0.92, rate, 1e-9)
}

func TestRateRepository_GetRateToBase_DBError(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)

	// Use a canceled context to force an error path distinct from ErrRateNotFound.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := repo.GetRateToBase(ctx, "EUR")
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrRateNotFound)
}

func TestRateRepository_SaveRates_Empty_NoOp(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)

	require.NoError(t, repo.SaveRates(context.Background(), nil))

	var count int
	require.NoError(t, pool.QueryRow(context.Background(), `select count(*) from currency_rates`).Scan(&count))
	require.Zero(t, count)
}

func TestRateRepository_SaveRates_AppendsBatch(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)
	ctx := context.Background()

	recordedAt := time.Now().UTC().Truncate(time.Microsecond)
	entries := []domain.RateEntry{
		{Code: "EUR", RateToBase: 0.92, RecordedAt: recordedAt},
		{Code: "JPY", RateToBase: 150.0, RecordedAt: recordedAt},
	}
	require.NoError(t, repo.SaveRates(ctx, entries))

	// Appending again must not overwrite, only add rows.
	require.NoError(t, repo.SaveRates(ctx, []domain.RateEntry{
		{Code: "EUR", RateToBase: 0.93, RecordedAt: recordedAt.Add(time.Hour)},
	}))

	var count int
	require.NoError(t, pool.QueryRow(ctx, `select count(*) from currency_rates where code='EUR'`).Scan(&count))
	require.Equal(t, 2, count)

	rate, err := repo.GetRateToBase(ctx, "EUR")
	require.NoError(t, err)
	require.InDelta(t, 0.93, rate, 1e-9)
}

func TestRateRepository_ListRateHistory_ChronologicalOrder(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
        insert into currency_rates(code, rate_to_base, recorded_at) values
        ('EUR', 0.93, now() - interval '1 hour'),
        ('EUR', 0.95, now() - interval '3 hours'),
        ('EUR', 0.92, now()),
        ('GBP', 0.79, now())
    `)
	require.NoError(t, err)

	entries, err := repo.ListRateHistory(ctx, "EUR")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.InDelta(t, 0.95, entries[0].RateToBase, 1e-9)
	require.InDelta(t, 0.93, entries[1].RateToBase, 1e-9)
	require.InDelta(t, 0.92, entries[2].RateToBase, 1e-9)
	require.True(t, entries[0].RecordedAt.Before(entries[1].RecordedAt))
}

func TestRateRepository_ListRateHistory_UnknownCode_Empty(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)

	entries, err := repo.ListRateHistory(context.Background(), "ZZZ")
	require.NoError(t, err)
	require.Empty(t, entries)
}

// ---------- ConversionHistoryRepository tests ----------

func TestConversionHistoryRepository_InsertConversion(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewConversionHistoryRepository(pool)
	ctx := context.Background()

	rec := domain.ConversionRecord{
		ID:              uuid.New(),
		Amount:          100,
		FromCode:        "USD",
		ToCode:          "EUR",
		ConvertedAmount: 92.00,
		ExchangeRate:    0.92,
		RecordedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, repo.InsertConversion(ctx, rec))

	var (
		amount, converted, rate float64
		from, to                string
	)
	err := pool.QueryRow(ctx, `
        select amount, from_code, to_code, converted_amount, exchange_rate
        from conversion_history where id = $1
    `, rec.ID).Scan(&amount, &from, &to, &converted, &rate)
	require.NoError(t, err)
	require.InDelta(t, 100.0, amount, 1e-9)
	require.Equal(t, "USD", from)
	require.Equal(t, "EUR", to)
	require.InDelta(t, 92.00, converted, 1e-9)
	require.InDelta(t, 0.92, rate, 1e-9)
}

func TestConversionHistoryRepository_InsertConversion_DBError(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewConversionHistoryRepository(pool)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := repo.InsertConversion(ctx, domain.ConversionRecord{ID: uuid.New(), FromCode: "USD", ToCode: "EUR"})
	require.Error(t, err)
}
