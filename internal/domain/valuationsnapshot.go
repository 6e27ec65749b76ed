package domain

import "time"

// ValuationSnapshot stored valuation of one account.
// String fields keep the exact decimal representation.
type ValuationSnapshot struct {
	Timestamp time.Time `json:"ts"`
	Account   string    `json:"account"`
	Cards     string    `json:"cards"`
	SPS       string    `json:"sps"`
	DEC       string    `json:"dec"`
	Total     string    `json:"total"`
	SPSPrice  string    `json:"sps_price,omitempty"`
	DECPrice  string    `json:"dec_price,omitempty"`

	// CardsFound is false when the collection value was never read.
	CardsFound bool `json:"cards_found"`
}

// NewValuationSnapshot creates a snapshot of a record valued at the given prices.
func NewValuationSnapshot(timestamp time.Time, record AccountRecord, prices TokenPrices) ValuationSnapshot {
	return ValuationSnapshot{
		Timestamp:  timestamp,
		Account:    record.Account,
		Cards:      record.Cards.String(),
		SPS:        record.SPS.String(),
		DEC:        record.DEC.String(),
		Total:      record.Total().String(),
		SPSPrice:   prices.SPS.String(),
		DECPrice:   prices.DEC.String(),
		CardsFound: record.CardsFound,
	}
}

// ValuationSnapshotRecord bundles a snapshot with the log index it originated from.
type ValuationSnapshotRecord struct {
	Index    uint64
	Snapshot ValuationSnapshot
}
