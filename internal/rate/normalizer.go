package rate

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/maria-mashura/currency-tracker/internal/domain"
)

var (
	ErrBankEmpty           = errors.New("bank name is empty")
	ErrCurrencyUnsupported = errors.New("currency not supported")
	ErrRateNotNumeric      = errors.New("rate is not numeric")
	ErrRateNegative        = errors.New("rate is negative")
	ErrRateAbsent          = errors.New("rate is absent")
)

// invisibleReplacer drops the invisible characters banks like to embed in
// their display names (narrow no-break space in particular).
var invisibleReplacer = strings.NewReplacer(
	" ", "", // narrow no-break space
	" ", " ", // no-break space
	"​", "", // zero-width space
	"\uFEFF", "", // BOM
)

// Normalizer turns untrusted candidate rates into canonical records. A
// candidate failing any check is rejected, never stored with defaults.
type Normalizer struct {
	allowed map[string]struct{}
}

// NewNormalizer allows USD and EUR plus any explicitly enabled extra codes.
func NewNormalizer(extraCurrencies []string) *Normalizer {
	allowed := map[string]struct{}{"USD": {}, "EUR": {}}
	for _, c := range extraCurrencies {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			allowed[c] = struct{}{}
		}
	}
	return &Normalizer{allowed: allowed}
}

// Normalize validates and canonicalizes one candidate. collectedAt is the
// cycle start time, so every record of a batch carries the same stamp.
func (n *Normalizer) Normalize(c domain.CandidateRate, collectedAt time.Time) (domain.RateRecord, error) {
	bank := strings.TrimSpace(invisibleReplacer.Replace(c.Bank))
	if bank == "" {
		return domain.RateRecord{}, ErrBankEmpty
	}

	currency := strings.ToUpper(strings.TrimSpace(c.CurrencyRaw))
	if _, ok := n.allowed[currency]; !ok {
		return domain.RateRecord{}, ErrCurrencyUnsupported
	}

	buy, err := coerceRate(c.BuyRaw)
	if err != nil {
		return domain.RateRecord{}, err
	}
	sell, err := coerceRate(c.SellRaw)
	if err != nil {
		return domain.RateRecord{}, err
	}

	return domain.RateRecord{
		Bank:        bank,
		Currency:    currency,
		Buy:         buy,
		Sell:        sell,
		CollectedAt: collectedAt.UTC().Truncate(time.Second),
	}, nil
}

// coerceRate parses a raw rate accepting comma as the decimal separator.
// An absent value is a rejection: storing zero-valued rates would poison
// the latest-rates view.
func coerceRate(raw string) (float64, error) {
	s := strings.TrimSpace(invisibleReplacer.Replace(raw))
	if s == "" {
		return 0, ErrRateAbsent
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrRateNotNumeric
	}
	if v < 0 {
		return 0, ErrRateNegative
	}
	return v, nil
}
