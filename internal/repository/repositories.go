package repository

import (
	"context"

	"github.com/baharkarakas/payment-authorizer/internal/models"
)

// Repositories is the set of stores a backend provides.
type Repositories struct {
	Accounts       Accounts
	Merchants      Merchants
	Transactions   Transactions
	Reconciliation Reconciliation
	Seeder         Seeder
}

// SplitSeeder routes merchants and accounts to different backends, e.g.
// merchants in postgres and accounts in redis.
type SplitSeeder struct {
	Merchants interface {
		PutMerchant(ctx context.Context, m models.Merchant) error
	}
	Accounts interface {
		PutAccount(ctx context.Context, a models.Account) error
	}
}

func (s SplitSeeder) PutMerchant(ctx context.Context, m models.Merchant) error {
	return s.Merchants.PutMerchant(ctx, m)
}

func (s SplitSeeder) PutAccount(ctx context.Context, a models.Account) error {
	return s.Accounts.PutAccount(ctx, a)
}
