// Package aggregator merges per-account results coming from independent sources.
package aggregator

import "github.com/vadiminshakov/splvaluer/internal/domain"

// Combine merges balance and card records into one record per account.
// Balance records are inserted first, so accounts keep the order of the
// balance list; card-only accounts are appended in the order they appear.
func Combine(balances []domain.BalanceRecord, cards []domain.CardsRecord) []domain.AccountRecord {
	index := make(map[domain.Account]int, len(balances))
	merged := make([]domain.AccountRecord, 0, len(balances))

	for _, b := range balances {
		i, ok := index[b.Account]
		if !ok {
			i = len(merged)
			index[b.Account] = i
			merged = append(merged, domain.AccountRecord{Account: b.Account})
		}
		merged[i].SPS = b.SPS
		merged[i].DEC = b.DEC
	}

	for _, c := range cards {
		i, ok := index[c.Account]
		if !ok {
			i = len(merged)
			index[c.Account] = i
			merged = append(merged, domain.AccountRecord{Account: c.Account})
		}
		merged[i].Cards = c.Cards
		merged[i].CardsFound = c.Found
	}

	return merged
}
