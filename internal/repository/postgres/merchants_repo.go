package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/payment-authorizer/internal/models"
)

type merchantsRepo struct{ pool *pgxpool.Pool }

func (r *merchantsRepo) FindMerchants(ctx context.Context, name, token string) ([]models.Merchant, error) {
	// LIMIT 2 is enough to tell "one" from "more than one"
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, token FROM merchants WHERE name=$1 AND token=$2 LIMIT 2`,
		name, token,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Merchant
	for rows.Next() {
		var m models.Merchant
		if err := rows.Scan(&m.ID, &m.Name, &m.Token); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
