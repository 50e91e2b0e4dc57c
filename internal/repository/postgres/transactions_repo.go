package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/baharkarakas/payment-authorizer/internal/models"
	repo "github.com/baharkarakas/payment-authorizer/internal/repository"
)

type transactionsRepo struct{ pool *pgxpool.Pool }

const txnCols = `transaction_id, merchant_name, merchant_id, last4, amount::text, ts, status, outcome, card_type, bank, created_at`

func scanTxn(row interface{ Scan(...any) error }) (models.TransactionRecord, error) {
	var (
		t      models.TransactionRecord
		amount string
	)
	if err := row.Scan(&t.TransactionID, &t.MerchantName, &t.MerchantID, &t.Last4, &amount,
		&t.Timestamp, &t.Status, &t.Outcome, &t.CardType, &t.Bank, &t.CreatedAt); err != nil {
		return models.TransactionRecord{}, err
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return models.TransactionRecord{}, err
	}
	t.Amount = d
	return t, nil
}

// Append never overwrites: a taken ID is ErrDuplicate.
func (r *transactionsRepo) Append(ctx context.Context, t models.TransactionRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO transactions (
		   transaction_id, merchant_name, merchant_id, last4, amount, ts, status, outcome, card_type, bank
		 ) VALUES ($1,$2,$3,$4,$5::numeric,$6,$7,$8,$9,$10)`,
		t.TransactionID, t.MerchantName, t.MerchantID, t.Last4, t.Amount.String(),
		t.Timestamp, t.Status, t.Outcome, t.CardType, t.Bank,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: transaction %s", repo.ErrDuplicate, t.TransactionID)
	}
	return err
}

func (r *transactionsRepo) GetByID(ctx context.Context, id string) (models.TransactionRecord, error) {
	t, err := scanTxn(r.pool.QueryRow(ctx,
		`SELECT `+txnCols+` FROM transactions WHERE transaction_id=$1`, id,
	))
	if err != nil {
		return models.TransactionRecord{}, notFound(err, "transaction %s", id)
	}
	return t, nil
}

func (r *transactionsRepo) ListByMerchant(ctx context.Context, merchantName string, limit, offset int) ([]models.TransactionRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+txnCols+`
		   FROM transactions
		  WHERE $1 = '' OR merchant_name = $1
		  ORDER BY created_at DESC
		  LIMIT $2 OFFSET $3`,
		merchantName, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TransactionRecord
	for rows.Next() {
		t, err := scanTxn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
