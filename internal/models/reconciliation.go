package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReconciliationReason string

const (
	// funds committed, transaction record could not be written
	ReasonRecordFailed ReconciliationReason = "record_failed_after_commit"
	// commit errored, then conflicted: the first write may have landed
	ReasonAmbiguousCommit ReconciliationReason = "ambiguous_commit"
)

type ReconciliationEntry struct {
	ID            string               `json:"id"`
	TransactionID string               `json:"transaction_id"`
	Bank          string               `json:"bank"`
	Last4         string               `json:"last4"`
	Amount        decimal.Decimal      `json:"amount"`
	Reason        ReconciliationReason `json:"reason"`
	Details       map[string]any       `json:"details,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}
