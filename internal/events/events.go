// Package events publishes authorization outcomes for downstream consumers.
package events

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/baharkarakas/payment-authorizer/internal/models"
)

const (
	SubjectRecorded  = "authorizations.recorded"
	SubjectReconcile = "authorizations.reconcile"
)

type Bus interface {
	Publish(topic string, data []byte) error
}

// NoopBus drops everything; used when no broker is configured.
type NoopBus struct{}

func (NoopBus) Publish(string, []byte) error { return nil }

type Submitter interface {
	Submit(f func()) bool
}

type RecordedEvent struct {
	TransactionID string          `json:"transaction_id"`
	MerchantName  string          `json:"merchant_name"`
	MerchantID    string          `json:"merchant_id,omitempty"`
	Last4         string          `json:"last4"`
	Bank          string          `json:"bank"`
	CardType      string          `json:"card_type"`
	Amount        decimal.Decimal `json:"amount"`
	Outcome       models.Outcome  `json:"outcome"`
	Status        string          `json:"status"`
	Timestamp     time.Time       `json:"timestamp"`
	CreatedAt     time.Time       `json:"created_at"`
}

type ReconcileEvent struct {
	models.ReconciliationEntry
}

// Publisher serializes events and hands them to the worker pool so the
// broker never sits on the authorization path.
type Publisher struct {
	bus Bus
	wp  Submitter
}

func NewPublisher(bus Bus, wp Submitter) *Publisher {
	if bus == nil {
		bus = NoopBus{}
	}
	return &Publisher{bus: bus, wp: wp}
}

func (p *Publisher) Recorded(rec models.TransactionRecord) {
	p.publish(SubjectRecorded, RecordedEvent{
		TransactionID: rec.TransactionID,
		MerchantName:  rec.MerchantName,
		MerchantID:    rec.MerchantID,
		Last4:         rec.Last4,
		Bank:          rec.Bank,
		CardType:      rec.CardType,
		Amount:        rec.Amount,
		Outcome:       rec.Outcome,
		Status:        rec.Status,
		Timestamp:     rec.Timestamp,
		CreatedAt:     rec.CreatedAt,
	})
}

func (p *Publisher) Reconcile(e models.ReconciliationEntry) {
	p.publish(SubjectReconcile, ReconcileEvent{e})
}

func (p *Publisher) publish(subject string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("event marshal", "subject", subject, "err", err)
		return
	}
	ok := p.wp.Submit(func() {
		if err := p.bus.Publish(subject, data); err != nil {
			slog.Warn("event publish", "subject", subject, "err", err)
		}
	})
	if !ok {
		slog.Warn("event dropped, worker queue unavailable", "subject", subject)
	}
}
