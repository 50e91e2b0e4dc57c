package services

import (
	"context"

	"github.com/baharkarakas/payment-authorizer/internal/models"
	repo "github.com/baharkarakas/payment-authorizer/internal/repository"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// QueryService backs the operator endpoints. Read-only.
type QueryService struct {
	txns     repo.Transactions
	recon    repo.Reconciliation
	accounts repo.Accounts
}

func NewQueryService(t repo.Transactions, rc repo.Reconciliation, a repo.Accounts) *QueryService {
	return &QueryService{txns: t, recon: rc, accounts: a}
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *QueryService) GetTransaction(ctx context.Context, id string) (models.TransactionRecord, error) {
	return s.txns.GetByID(ctx, id)
}

func (s *QueryService) ListTransactions(ctx context.Context, merchantName string, limit, offset int) ([]models.TransactionRecord, error) {
	limit, offset = clampPage(limit, offset)
	return s.txns.ListByMerchant(ctx, merchantName, limit, offset)
}

func (s *QueryService) ListReconciliation(ctx context.Context, limit, offset int) ([]models.ReconciliationEntry, error) {
	limit, offset = clampPage(limit, offset)
	return s.recon.List(ctx, limit, offset)
}

func (s *QueryService) GetAccount(ctx context.Context, bank, number string) (models.Account, error) {
	return s.accounts.GetAccount(ctx, models.AccountKey{Bank: bank, AccountNumber: number})
}
