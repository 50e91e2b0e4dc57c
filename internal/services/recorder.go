package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/baharkarakas/payment-authorizer/internal/events"
	"github.com/baharkarakas/payment-authorizer/internal/logger"
	"github.com/baharkarakas/payment-authorizer/internal/metrics"
	"github.com/baharkarakas/payment-authorizer/internal/models"
	repo "github.com/baharkarakas/payment-authorizer/internal/repository"
)

var ErrRecording = errors.New("error recording transaction")

// Recorder writes one TransactionRecord per adjudicated request.
type Recorder struct {
	txns    repo.Transactions
	recon   repo.Reconciliation
	pub     *events.Publisher
	backoff time.Duration
	now     func() time.Time
}

func NewRecorder(t repo.Transactions, rc repo.Reconciliation, pub *events.Publisher, backoff time.Duration) *Recorder {
	return &Recorder{txns: t, recon: rc, pub: pub, backoff: backoff, now: time.Now}
}

// TransactionID is the hex SHA-256 of the request's identifying fields,
// each length-prefixed so no two field lists share an encoding.
func TransactionID(req models.AuthorizationRequest) string {
	h := sha256.New()
	for _, f := range []string{
		req.MerchantName,
		req.MerchantToken,
		req.Bank,
		req.AccountNumber,
		req.CardType,
		req.Amount.String(),
		req.RawTimestamp,
	} {
		writeField(h, f)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeField(h hash.Hash, f string) {
	_, _ = fmt.Fprintf(h, "%d:%s|", len(f), f)
}

// Record appends the outcome, retrying once on a transient store error.
// A duplicate ID is not retried. Any failure is wrapped in ErrRecording.
func (r *Recorder) Record(ctx context.Context, req models.AuthorizationRequest, merchantID string, outcome models.Outcome) (models.TransactionRecord, error) {
	rec := models.TransactionRecord{
		TransactionID: TransactionID(req),
		MerchantName:  req.MerchantName,
		MerchantID:    merchantID,
		Last4:         models.Last4(req.AccountNumber),
		Amount:        req.Amount,
		Timestamp:     req.Timestamp,
		Status:        outcome.StatusText(),
		Outcome:       outcome,
		CardType:      req.CardType,
		Bank:          req.Bank,
		CreatedAt:     r.now().UTC(),
	}

	b := retry.WithMaxRetries(1, retry.NewConstant(r.backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		err := r.txns.Append(ctx, rec)
		if err == nil || errors.Is(err, repo.ErrDuplicate) {
			return err
		}
		logger.From(ctx).Warn("transaction append failed, retrying", "transaction_id", rec.TransactionID, "err", err)
		return retry.RetryableError(err)
	})
	if err != nil {
		metrics.RecordingFailures.Inc()
		return rec, fmt.Errorf("%w: %w", ErrRecording, err)
	}

	r.pub.Recorded(rec)
	return rec, nil
}

// Reconcile flags a funds adjustment whose outcome is not (or not surely)
// in the transaction log. Always logged at error; the entry write is best
// effort.
func (r *Recorder) Reconcile(ctx context.Context, req models.AuthorizationRequest, reason models.ReconciliationReason, cause error) {
	e := models.ReconciliationEntry{
		TransactionID: TransactionID(req),
		Bank:          req.Bank,
		Last4:         models.Last4(req.AccountNumber),
		Amount:        req.Amount,
		Reason:        reason,
		CreatedAt:     r.now().UTC(),
	}
	if cause != nil {
		e.Details = map[string]any{"error": cause.Error()}
	}

	log := logger.From(ctx)
	log.Error("reconciliation required",
		"transaction_id", e.TransactionID,
		"reason", reason,
		"bank", e.Bank,
		"last4", e.Last4,
		"amount", e.Amount.String(),
		"err", cause,
	)
	metrics.ReconciliationEntries.WithLabelValues(string(reason)).Inc()

	if err := r.recon.Create(ctx, e); err != nil {
		log.Error("reconciliation entry not written", "transaction_id", e.TransactionID, "err", err)
	}
	r.pub.Reconcile(e)
}
