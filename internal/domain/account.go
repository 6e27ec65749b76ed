package domain

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Account player identity, used as the aggregation key.
type Account = string

// ValidateAccounts checks that the list is usable for a run.
func ValidateAccounts(accounts []Account) error {
	if len(accounts) == 0 {
		return errors.New("no accounts to value")
	}
	for i, a := range accounts {
		if strings.TrimSpace(a) == "" {
			return errors.Errorf("account #%d is empty", i+1)
		}
	}
	return nil
}

// BalanceRecord USD value of the token balances of one account.
type BalanceRecord struct {
	Account Account
	SPS     decimal.Decimal
	DEC     decimal.Decimal
}

// CardsRecord scraped collection value of one account.
type CardsRecord struct {
	Account Account
	Cards   decimal.Decimal
	// Found is false when the page never showed a value; Cards is zero then.
	Found bool
}

// AccountRecord merged valuation of one account.
type AccountRecord struct {
	Account    Account
	Cards      decimal.Decimal
	SPS        decimal.Decimal
	DEC        decimal.Decimal
	CardsFound bool
}

// Total returns cards + SPS + DEC.
func (r AccountRecord) Total() decimal.Decimal {
	return r.Cards.Add(r.SPS).Add(r.DEC)
}
