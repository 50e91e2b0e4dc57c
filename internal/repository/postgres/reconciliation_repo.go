package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/baharkarakas/payment-authorizer/internal/models"
)

type reconciliationRepo struct{ pool *pgxpool.Pool }

func (r *reconciliationRepo) Create(ctx context.Context, e models.ReconciliationEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO reconciliation_entries(id, transaction_id, bank, last4, amount, reason, details)
		 VALUES($1,$2,$3,$4,$5::numeric,$6,$7)`,
		e.ID, e.TransactionID, e.Bank, e.Last4, e.Amount.String(), e.Reason, e.Details,
	)
	return err
}

func (r *reconciliationRepo) List(ctx context.Context, limit, offset int) ([]models.ReconciliationEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, transaction_id, bank, last4, amount::text, reason, details, created_at
		   FROM reconciliation_entries
		  ORDER BY created_at DESC
		  LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ReconciliationEntry
	for rows.Next() {
		var (
			e      models.ReconciliationEntry
			amount string
		)
		if err := rows.Scan(&e.ID, &e.TransactionID, &e.Bank, &e.Last4, &amount, &e.Reason, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
