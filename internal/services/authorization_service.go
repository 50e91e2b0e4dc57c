package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"

	"github.com/baharkarakas/payment-authorizer/internal/gate"
	"github.com/baharkarakas/payment-authorizer/internal/logger"
	"github.com/baharkarakas/payment-authorizer/internal/metrics"
	"github.com/baharkarakas/payment-authorizer/internal/models"
	repo "github.com/baharkarakas/payment-authorizer/internal/repository"
)

const DefaultMaxAttempts = 5

var (
	errDeclined = errors.New("insufficient funds")
	// the first write errored and the retry did not land cleanly, so the
	// first one may have been applied
	errCommitUncertain = errors.New("funds update outcome unknown")
)

// Decision is what the transport needs to answer the caller.
type Decision struct {
	Outcome       models.Outcome
	TransactionID string
	// Replayed is set when an identical request was already recorded and
	// its stored outcome is returned.
	Replayed bool
	// Err carries validate.Errs for InvalidRequest.
	Err error
}

type AuthorizationService struct {
	merchants   repo.Merchants
	accounts    repo.Accounts
	txns        repo.Transactions
	recorder    *Recorder
	gate        gate.Gate
	maxAttempts int
	backoff     time.Duration
}

type AuthorizationOptions struct {
	MaxAttempts int
	Backoff     time.Duration
}

func NewAuthorizationService(m repo.Merchants, a repo.Accounts, t repo.Transactions, rec *Recorder, g gate.Gate, opts AuthorizationOptions) *AuthorizationService {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if g == nil {
		g = gate.Always
	}
	return &AuthorizationService{
		merchants:   m,
		accounts:    a,
		txns:        t,
		recorder:    rec,
		gate:        g,
		maxAttempts: opts.MaxAttempts,
		backoff:     opts.Backoff,
	}
}

func (s *AuthorizationService) Authorize(ctx context.Context, in models.AuthorizationInput) Decision {
	start := time.Now()
	d := s.authorize(ctx, in)
	metrics.AuthorizationDuration.Observe(time.Since(start).Seconds())
	metrics.AuthorizationsTotal.WithLabelValues(string(d.Outcome)).Inc()
	return d
}

func (s *AuthorizationService) authorize(ctx context.Context, in models.AuthorizationInput) Decision {
	log := logger.From(ctx)

	// 1) parse, before anything external
	req, err := models.ParseAuthorizationRequest(in)
	if err != nil {
		return Decision{Outcome: models.OutcomeInvalidRequest, Err: err}
	}

	// 2) bank
	if !s.gate.Available(ctx) {
		return Decision{Outcome: models.OutcomeBankUnavailable}
	}

	txID := TransactionID(req)
	log = log.With("transaction_id", txID)
	ctx = logger.WithContext(ctx, log)

	if prev, err := s.txns.GetByID(ctx, txID); err == nil {
		log.Info("replayed authorization", "outcome", prev.Outcome)
		return Decision{Outcome: prev.Outcome, TransactionID: txID, Replayed: true}
	} else if !errors.Is(err, repo.ErrNotFound) {
		log.Warn("replay lookup failed", "err", err)
	}

	merchantID, outcome, commitErr := s.decide(ctx, req)

	// The adjustment, if any, stands even if the caller goes away, so the
	// outcome is always written.
	recCtx := context.WithoutCancel(ctx)
	if errors.Is(commitErr, errCommitUncertain) {
		s.recorder.Reconcile(recCtx, req, models.ReasonAmbiguousCommit, commitErr)
	}

	if _, err := s.recorder.Record(recCtx, req, merchantID, outcome); err != nil {
		log.Error("transaction not recorded", "outcome", outcome, "err", err)
		if outcome == models.OutcomeApproved {
			s.recorder.Reconcile(recCtx, req, models.ReasonRecordFailed, err)
		}
		return Decision{Outcome: models.OutcomeRecordingFailed, TransactionID: txID}
	}
	return Decision{Outcome: outcome, TransactionID: txID}
}

// decide runs steps 3 to 8. The returned error is only set for the
// RecordingFailed outcome.
func (s *AuthorizationService) decide(ctx context.Context, req models.AuthorizationRequest) (string, models.Outcome, error) {
	log := logger.From(ctx)

	// 3) merchant
	ms, err := s.merchants.FindMerchants(ctx, req.MerchantName, req.MerchantToken)
	if err != nil {
		log.Error("merchant lookup", "err", err)
		return "", models.OutcomeRecordingFailed, err
	}
	switch {
	case len(ms) == 0:
		return "", models.OutcomeMerchantUnauthorized, nil
	case len(ms) > 1:
		log.Error("merchant directory integrity fault: duplicate name/token", "merchant_name", req.MerchantName, "matches", len(ms))
		return "", models.OutcomeMerchantUnauthorized, nil
	}
	merchantID := ms[0].ID

	// 4) card type
	kind, ok := models.ParseCardKind(req.CardType)
	if !ok {
		return merchantID, models.OutcomeInvalidCardType, nil
	}

	// 5-8) account, funds, conditional update
	err = s.adjustFunds(ctx, req, kind)
	switch {
	case err == nil:
		return merchantID, models.OutcomeApproved, nil
	case errors.Is(err, errDeclined):
		return merchantID, models.OutcomeDeclined, nil
	case errors.Is(err, repo.ErrNotFound):
		return merchantID, models.OutcomeAccountNotFound, nil
	case errors.Is(err, repo.ErrConflict):
		log.Error("funds update gave up after conflicts", "attempts", s.maxAttempts)
		return merchantID, models.OutcomeRecordingFailed, err
	default:
		log.Error("funds update", "err", err)
		return merchantID, models.OutcomeRecordingFailed, err
	}
}

// adjustFunds reads the account and applies the debit with a conditional
// update keyed on the value it read. A conflict means another authorization
// got there first: re-read and try again, up to maxAttempts reads.
func (s *AuthorizationService) adjustFunds(ctx context.Context, req models.AuthorizationRequest, kind models.CardKind) error {
	key := req.AccountKey()
	b := retry.WithMaxRetries(uint64(s.maxAttempts-1), retry.NewConstant(s.backoff))

	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		acc, err := s.accounts.GetAccount(ctx, key)
		if err != nil {
			return err
		}
		// a kind mismatch leaves Available at zero
		if req.Amount.GreaterThan(acc.Available(kind)) {
			return errDeclined
		}

		err = s.commit(ctx, key, kind, acc.Funds(kind), acc.Debit(kind, req.Amount))
		if errors.Is(err, repo.ErrConflict) {
			metrics.FundsUpdateConflicts.Inc()
			return retry.RetryableError(err)
		}
		return err
	})
}

// commit applies one conditional update, retrying once if the store
// errored. After an error the write may or may not have landed, so a
// second failure of any kind (including a conflict caused by our own first
// write) is reported as errCommitUncertain rather than looped on.
func (s *AuthorizationService) commit(ctx context.Context, key models.AccountKey, kind models.CardKind, expected, next decimal.Decimal) error {
	err := s.accounts.ConditionalUpdateFunds(ctx, key, kind, expected, next)
	if err == nil || errors.Is(err, repo.ErrConflict) || errors.Is(err, repo.ErrNotFound) {
		return err
	}

	logger.From(ctx).Warn("funds update failed, retrying once", "err", err)
	if err2 := s.accounts.ConditionalUpdateFunds(ctx, key, kind, expected, next); err2 != nil {
		return fmt.Errorf("%w: first: %v, retry: %v", errCommitUncertain, err, err2)
	}
	return nil
}
