package rate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/maria-mashura/currency-tracker/internal/adapters"
	"github.com/maria-mashura/currency-tracker/internal/domain"
)

// SourceCollector is the adapter seam the collector drives: one source's
// full fetch-and-parse sequence.
type SourceCollector interface {
	Name() string
	Collect(ctx context.Context) ([]domain.CandidateRate, error)
}

// Collector runs one collection cycle: all sources in parallel, failures
// isolated per source, accepted records committed as a single batch.
type Collector struct {
	sources    []SourceCollector
	normalizer *Normalizer
	ledger     adapters.RateLedger
	cache      adapters.LatestCache
	// budget is the hard upper bound for one source's fetch+parse; the
	// fetchers apply their own tighter network/render timeouts below it.
	budget time.Duration

	mu sync.Mutex
}

func NewCollector(sources []SourceCollector, normalizer *Normalizer, ledger adapters.RateLedger, cache adapters.LatestCache, adapterBudget time.Duration) *Collector {
	if adapterBudget <= 0 {
		adapterBudget = time.Minute
	}
	return &Collector{
		sources:    sources,
		normalizer: normalizer,
		ledger:     ledger,
		cache:      cache,
		budget:     adapterBudget,
	}
}

// RunCycle executes one cycle. Cycles never overlap: a trigger while a
// cycle is running is dropped with domain.ErrCycleInProgress. The cycle is
// stateless between runs.
func (c *Collector) RunCycle(ctx context.Context) (domain.CycleResult, error) {
	if !c.mu.TryLock() {
		logrus.Warn("Collection trigger dropped: a cycle is already running")
		return domain.CycleResult{}, domain.ErrCycleInProgress
	}
	defer c.mu.Unlock()

	execID := uuid.NewString()
	cycleStart := time.Now().UTC().Truncate(time.Second)
	logrus.Infof("Collection cycle %s started", execID)

	candidates := c.collectAll(ctx)

	result := domain.CycleResult{
		ExecID:    execID,
		StartedAt: cycleStart,
		PerSource: make(map[string]int, len(c.sources)),
	}

	// Merge in source-declaration order, then intra-source order.
	batch := make([]domain.RateRecord, 0, 32)
	for i, src := range c.sources {
		accepted := 0
		for _, cand := range candidates[i] {
			rec, err := c.normalizer.Normalize(cand, cycleStart)
			if err != nil {
				result.Rejected++
				logrus.WithFields(logrus.Fields{
					"source": src.Name(),
					"bank":   cand.Bank,
					"cause":  err,
				}).Warn("Candidate rate rejected")
				continue
			}
			batch = append(batch, rec)
			accepted++
		}
		result.PerSource[src.Name()] = accepted
	}

	if len(batch) == 0 {
		result.Outcome = domain.OutcomeEmpty
		logrus.Infof("Collection cycle %s produced no records, nothing to commit", execID)
		return result, nil
	}

	// A shutdown mid-cycle lets sources finish but never commits a batch.
	if err := ctx.Err(); err != nil {
		result.Outcome = domain.OutcomeEmpty
		logrus.Infof("Collection cycle %s interrupted before commit, batch discarded", execID)
		return result, err
	}

	if err := c.ledger.AppendBatch(ctx, batch); err != nil {
		logrus.WithError(err).Errorf("Collection cycle %s failed to commit %d records", execID, len(batch))
		return result, fmt.Errorf("ledger append failed: %w", err)
	}
	c.cache.Invalidate()

	result.Outcome = domain.OutcomeCommitted
	result.Committed = len(batch)
	logrus.Infof("Collection cycle %s committed %d records (%d rejected)", execID, result.Committed, result.Rejected)
	return result, nil
}

// collectAll runs every source concurrently and returns their candidates
// indexed by declaration order. A source failure contributes an empty slot.
func (c *Collector) collectAll(ctx context.Context) [][]domain.CandidateRate {
	candidates := make([][]domain.CandidateRate, len(c.sources))

	// Sources already in flight finish up to their own budgets even if the
	// trigger context is canceled; abandoning a browser session mid-render
	// leaks it.
	detached := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for i, src := range c.sources {
		wg.Add(1)
		go func(i int, src SourceCollector) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logrus.WithFields(logrus.Fields{"source": src.Name(), "cause": r}).Error("Source adapter panicked")
				}
			}()

			srcCtx, cancel := context.WithTimeout(detached, c.budget)
			defer cancel()

			cands, err := src.Collect(srcCtx)
			if err != nil {
				logrus.WithFields(logrus.Fields{"source": src.Name(), "cause": err}).Warn("Source collection failed")
				return
			}
			candidates[i] = cands
			logrus.Infof("Source %s: %d candidates fetched", src.Name(), len(cands))
		}(i, src)
	}
	wg.Wait()

	return candidates
}
