package domain

import (
	"time"
)

// CandidateRate is what a source adapter extracts from a raw payload.
// Nothing is validated yet: any field may be empty or garbage.
type CandidateRate struct {
	Bank        string
	CurrencyRaw string
	BuyRaw      string
	SellRaw     string
}

// RateRecord is a validated, canonical rate eligible for persistence.
type RateRecord struct {
	Bank        string    `json:"bank"`
	Currency    string    `json:"currency"`
	Buy         float64   `json:"buy"`
	Sell        float64   `json:"sell"`
	CollectedAt time.Time `json:"collected_at"`
}
