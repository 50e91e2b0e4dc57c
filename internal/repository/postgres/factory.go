package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	repo "github.com/baharkarakas/payment-authorizer/internal/repository"
)

func NewRepositories(pool *pgxpool.Pool) repo.Repositories {
	return repo.Repositories{
		Accounts:       &accountsRepo{pool},
		Merchants:      &merchantsRepo{pool},
		Transactions:   &transactionsRepo{pool},
		Reconciliation: &reconciliationRepo{pool},
		Seeder:         &seeder{pool},
	}
}

// Pinger adapts the pool for readiness checks.
type Pinger struct{ Pool *pgxpool.Pool }

func (p Pinger) Ping(ctx context.Context) error { return p.Pool.Ping(ctx) }
