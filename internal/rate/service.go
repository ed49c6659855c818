package rate

import (
	"context"

	"github.com/maria-mashura/currency-tracker/internal/adapters"
	"github.com/maria-mashura/currency-tracker/internal/domain"
)

// LatestLimit bounds the latest-rates read.
const LatestLimit = 100

// Service is the read side over the ledger, cached between cycles.
type Service struct {
	ledger adapters.RateLedger
	cache  adapters.LatestCache
}

func NewService(ledger adapters.RateLedger, cache adapters.LatestCache) *Service {
	return &Service{ledger: ledger, cache: cache}
}

func (s *Service) Latest(ctx context.Context) ([]domain.RateRecord, error) {
	if records, ok := s.cache.Get(); ok {
		return records, nil
	}
	records, err := s.ledger.Latest(ctx, LatestLimit)
	if err != nil {
		return nil, err
	}
	s.cache.Set(records)
	return records, nil
}
