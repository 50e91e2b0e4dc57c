package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/payment-authorizer/internal/models"
)

type seeder struct{ pool *pgxpool.Pool }

func (s *seeder) PutMerchant(ctx context.Context, m models.Merchant) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO merchants(id, name, token) VALUES($1,$2,$3)
		 ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, token=EXCLUDED.token`,
		m.ID, m.Name, m.Token,
	)
	return err
}

func (s *seeder) PutAccount(ctx context.Context, a models.Account) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO accounts(bank, account_number, kind, credit_limit, credit_used, balance)
		 VALUES($1,$2,$3,$4::numeric,$5::numeric,$6::numeric)
		 ON CONFLICT (bank, account_number) DO UPDATE
		 SET kind=EXCLUDED.kind, credit_limit=EXCLUDED.credit_limit,
		     credit_used=EXCLUDED.credit_used, balance=EXCLUDED.balance, updated_at=now()`,
		a.Bank, a.AccountNumber, a.Kind, a.CreditLimit.String(), a.CreditUsed.String(), a.Balance.String(),
	)
	return err
}
