package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/baharkarakas/payment-authorizer/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrDuplicate = errors.New("duplicate")
)

// Accounts is the account store. ConditionalUpdateFunds writes next into the
// kind's funds field only if it still holds expected; it returns ErrConflict
// when it does not and ErrNotFound when the account is gone.
type Accounts interface {
	GetAccount(ctx context.Context, key models.AccountKey) (models.Account, error)
	ConditionalUpdateFunds(ctx context.Context, key models.AccountKey, kind models.CardKind, expected, next decimal.Decimal) error
}

// Merchants returns every record matching name and token exactly. Callers
// decide what more than one match means.
type Merchants interface {
	FindMerchants(ctx context.Context, name, token string) ([]models.Merchant, error)
}

type Transactions interface {
	// Append fails with ErrDuplicate if the ID is taken.
	Append(ctx context.Context, rec models.TransactionRecord) error
	GetByID(ctx context.Context, id string) (models.TransactionRecord, error)
	ListByMerchant(ctx context.Context, merchantName string, limit, offset int) ([]models.TransactionRecord, error)
}

type Reconciliation interface {
	Create(ctx context.Context, e models.ReconciliationEntry) error
	List(ctx context.Context, limit, offset int) ([]models.ReconciliationEntry, error)
}

// Seeder loads reference data; used by authctl and the memory backend.
type Seeder interface {
	PutMerchant(ctx context.Context, m models.Merchant) error
	PutAccount(ctx context.Context, a models.Account) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}
