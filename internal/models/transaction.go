package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord is one adjudicated authorization attempt. Append-only.
type TransactionRecord struct {
	TransactionID string          `json:"transaction_id"`
	MerchantName  string          `json:"merchant_name"`
	MerchantID    string          `json:"merchant_id,omitempty"`
	Last4         string          `json:"last4"`
	Amount        decimal.Decimal `json:"amount"`
	Timestamp     time.Time       `json:"timestamp"`
	Status        string          `json:"status"`
	Outcome       Outcome         `json:"outcome"`
	CardType      string          `json:"card_type"`
	Bank          string          `json:"bank"`
	CreatedAt     time.Time       `json:"created_at"`
}
