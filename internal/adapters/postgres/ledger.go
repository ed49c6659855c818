package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maria-mashura/currency-tracker/internal/domain"
)

// Ledger persists rate records in the append-only exchange_rates table.
type Ledger struct {
	pool *pgxpool.Pool
}

func NewLedger(pool *pgxpool.Pool) *Ledger {
	return &Ledger{pool: pool}
}

// AppendBatch inserts all records of one cycle in a single transaction, so
// readers observe either the whole batch or none of it.
func (l *Ledger) AppendBatch(ctx context.Context, records []domain.RateRecord) error {
	if len(records) == 0 {
		return nil
	}

	payloadJSON, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal rate records: %w", err)
	}

	const q = `
		insert into exchange_rates(bank, currency, buy, sell, collected_at)
		select r.bank, r.currency, r.buy, r.sell, r.collected_at
		from json_to_recordset($1::json)
		  as r(bank text, currency text, buy double precision, sell double precision, collected_at timestamptz);
	`

	tx, err := l.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, q, json.RawMessage(payloadJSON)); err != nil {
		return fmt.Errorf("failed to insert rate batch: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rate batch: %w", err)
	}
	return nil
}

// Latest returns up to limit records, newest first.
func (l *Ledger) Latest(ctx context.Context, limit int) ([]domain.RateRecord, error) {
	const q = `
		select bank, currency, buy, sell, collected_at
		from exchange_rates
		order by collected_at desc
		limit $1;
	`

	rows, err := l.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest rates: %w", err)
	}
	defer rows.Close()

	records := make([]domain.RateRecord, 0, limit)
	for rows.Next() {
		var r domain.RateRecord
		if err = rows.Scan(&r.Bank, &r.Currency, &r.Buy, &r.Sell, &r.CollectedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rate record: %w", err)
		}
		records = append(records, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating latest rates: %w", err)
	}
	return records, nil
}
