package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type CardKind string

const (
	KindCredit CardKind = "credit"
	KindDebit  CardKind = "debit"
)

// ParseCardKind matches credit/debit case-insensitively.
func ParseCardKind(s string) (CardKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(KindCredit):
		return KindCredit, true
	case string(KindDebit):
		return KindDebit, true
	}
	return "", false
}

type AccountKey struct {
	Bank          string
	AccountNumber string
}

type Account struct {
	Bank          string          `json:"bank" yaml:"bank"`
	AccountNumber string          `json:"account_number" yaml:"account_number"`
	Kind          CardKind        `json:"kind" yaml:"kind"`
	CreditLimit   decimal.Decimal `json:"credit_limit" yaml:"credit_limit"`
	CreditUsed    decimal.Decimal `json:"credit_used" yaml:"credit_used"`
	Balance       decimal.Decimal `json:"balance" yaml:"balance"`
	UpdatedAt     time.Time       `json:"updated_at" yaml:"-"`
}

func (a Account) Key() AccountKey {
	return AccountKey{Bank: a.Bank, AccountNumber: a.AccountNumber}
}

// Funds returns the field the conditional update is keyed on for kind:
// credit used for credit accounts, balance for debit accounts.
func (a Account) Funds(kind CardKind) decimal.Decimal {
	if kind == KindCredit {
		return a.CreditUsed
	}
	return a.Balance
}

// Available is limit-used for credit and balance for debit. An account whose
// kind does not match the card has no funds for it.
func (a Account) Available(kind CardKind) decimal.Decimal {
	if a.Kind != kind {
		return decimal.Zero
	}
	if kind == KindCredit {
		return a.CreditLimit.Sub(a.CreditUsed)
	}
	return a.Balance
}

// Debit returns the funds field value after spending amount.
func (a Account) Debit(kind CardKind, amount decimal.Decimal) decimal.Decimal {
	if kind == KindCredit {
		return a.CreditUsed.Add(amount)
	}
	return a.Balance.Sub(amount)
}

// Last4 returns the trailing four characters of an account number.
func Last4(accountNumber string) string {
	if len(accountNumber) <= 4 {
		return accountNumber
	}
	return accountNumber[len(accountNumber)-4:]
}
