package adapters

import (
	"context"

	"github.com/maria-mashura/currency-tracker/internal/domain"
)

// PayloadFetcher performs the network/browser call for one source and
// returns the raw payload bytes. It never parses.
type PayloadFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// RateLedger is the durable append-only store of rate records.
type RateLedger interface {
	// AppendBatch appends all records in one atomic operation: a reader
	// sees either the whole batch or none of it.
	AppendBatch(ctx context.Context, records []domain.RateRecord) error
	Latest(ctx context.Context, limit int) ([]domain.RateRecord, error)
}

// LatestCache caches the latest-rates read and is invalidated after each
// committed batch.
type LatestCache interface {
	Get() ([]domain.RateRecord, bool)
	Set(records []domain.RateRecord)
	Invalidate()
}
