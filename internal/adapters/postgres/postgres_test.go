package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	tcpg "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/maria-mashura/currency-tracker/internal/adapters/postgres"
	"github.com/maria-mashura/currency-tracker/internal/domain"
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

	_, err = pool.Exec(ctx, `truncate table exchange_rates`)
	require.NoError(t, err)

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

func sampleBatch(collectedAt time.Time) []domain.RateRecord {
	return []domain.RateRecord{
		{Bank: "PrivatBank", Currency: "USD", Buy: 41.2, Sell: 41.5, CollectedAt: collectedAt},
		{Bank: "PrivatBank", Currency: "EUR", Buy: 48.0, Sell: 48.7, CollectedAt: collectedAt},
		{Bank: "Monobank", Currency: "USD", Buy: 41.05, Sell: 41.85, CollectedAt: collectedAt},
	}
}

func TestLedger_AppendBatchThenLatest(t *testing.T) {
	pool := setupPostgres(t)
	ledger := postgres.NewLedger(pool)
	ctx := context.Background()

	collectedAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, ledger.AppendBatch(ctx, sampleBatch(collectedAt)))

	records, err := ledger.Latest(ctx, 100)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, r := range records {
		require.True(t, r.CollectedAt.Equal(collectedAt))
	}
}

func TestLedger_LatestNewestFirst(t *testing.T) {
	pool := setupPostgres(t)
	ledger := postgres.NewLedger(pool)
	ctx := context.Background()

	older := time.Now().UTC().Truncate(time.Second).Add(-24 * time.Hour)
	newer := older.Add(24 * time.Hour)

	require.NoError(t, ledger.AppendBatch(ctx, []domain.RateRecord{
		{Bank: "OldBank", Currency: "USD", Buy: 40.0, Sell: 40.5, CollectedAt: older},
	}))
	require.NoError(t, ledger.AppendBatch(ctx, []domain.RateRecord{
		{Bank: "NewBank", Currency: "USD", Buy: 41.2, Sell: 41.5, CollectedAt: newer},
	}))

	records, err := ledger.Latest(ctx, 100)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "NewBank", records[0].Bank)
	require.Equal(t, "OldBank", records[1].Bank)
}

func TestLedger_LatestRespectsLimit(t *testing.T) {
	pool := setupPostgres(t)
	ledger := postgres.NewLedger(pool)
	ctx := context.Background()

	require.NoError(t, ledger.AppendBatch(ctx, sampleBatch(time.Now().UTC().Truncate(time.Second))))

	records, err := ledger.Latest(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestLedger_LatestOnEmptyTable(t *testing.T) {
	pool := setupPostgres(t)
	ledger := postgres.NewLedger(pool)

	records, err := ledger.Latest(context.Background(), 100)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestLedger_AppendEmptyBatchIsNoOp(t *testing.T) {
	pool := setupPostgres(t)
	ledger := postgres.NewLedger(pool)
	ctx := context.Background()

	require.NoError(t, ledger.AppendBatch(ctx, nil))

	var count int
	require.NoError(t, pool.QueryRow(ctx, `select count(*) from exchange_rates`).Scan(&count))
	require.Zero(t, count)
}

func TestLedger_FailedAppendLeavesNoRows(t *testing.T) {
	pool := setupPostgres(t)
	ledger := postgres.NewLedger(pool)

	// a canceled context aborts the transaction before commit
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ledger.AppendBatch(ctx, sampleBatch(time.Now().UTC().Truncate(time.Second)))
	require.Error(t, err)

	var count int
	require.NoError(t, pool.QueryRow(context.Background(), `select count(*) from exchange_rates`).Scan(&count))
	require.Zero(t, count, "no partial batch may be visible after a failed append")
}
