package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/baharkarakas/payment-authorizer/internal/models"
	repo "github.com/baharkarakas/payment-authorizer/internal/repository"
)

type accountsRepo struct{ pool *pgxpool.Pool }

// numerics travel as text so decimal keeps full precision
const accountCols = `bank, account_number, kind, credit_limit::text, credit_used::text, balance::text, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (models.Account, error) {
	var (
		a                models.Account
		limit, used, bal string
	)
	if err := row.Scan(&a.Bank, &a.AccountNumber, &a.Kind, &limit, &used, &bal, &a.UpdatedAt); err != nil {
		return models.Account{}, err
	}
	var err error
	if a.CreditLimit, err = decimal.NewFromString(limit); err != nil {
		return models.Account{}, err
	}
	if a.CreditUsed, err = decimal.NewFromString(used); err != nil {
		return models.Account{}, err
	}
	if a.Balance, err = decimal.NewFromString(bal); err != nil {
		return models.Account{}, err
	}
	return a, nil
}

func (r *accountsRepo) GetAccount(ctx context.Context, key models.AccountKey) (models.Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountCols+` FROM accounts WHERE bank=$1 AND account_number=$2`,
		key.Bank, key.AccountNumber,
	))
	if err != nil {
		return models.Account{}, notFound(err, "account %s/%s", key.Bank, models.Last4(key.AccountNumber))
	}
	return a, nil
}

// ConditionalUpdateFunds is a single-statement compare-and-set; zero rows
// affected means either the value moved or the row is gone.
func (r *accountsRepo) ConditionalUpdateFunds(ctx context.Context, key models.AccountKey, kind models.CardKind, expected, next decimal.Decimal) error {
	col := "balance"
	if kind == models.KindCredit {
		col = "credit_used"
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE accounts
		    SET `+col+` = $4::numeric, updated_at = now()
		  WHERE bank = $1 AND account_number = $2 AND `+col+` = $3::numeric`,
		key.Bank, key.AccountNumber, expected.String(), next.String(),
	)
	if err != nil {
		return fmt.Errorf("update funds: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE bank=$1 AND account_number=$2)`,
		key.Bank, key.AccountNumber,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check account: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: account %s/%s", repo.ErrNotFound, key.Bank, models.Last4(key.AccountNumber))
	}
	return fmt.Errorf("%w: account %s/%s", repo.ErrConflict, key.Bank, models.Last4(key.AccountNumber))
}
