package redisstore

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/baharkarakas/payment-authorizer/internal/models"
	"github.com/baharkarakas/payment-authorizer/internal/repository"
)

//go:embed cas.lua
var casLuaScript string

var casScript = redis.NewScript(casLuaScript)

var _ repository.Accounts = (*AccountStore)(nil)

// AccountStore keeps each account in a hash. Amounts are stored as
// canonical decimal strings so the CAS script can compare them bytewise.
type AccountStore struct {
	rdb *redis.Client
}

func NewAccountStore(rdb *redis.Client) *AccountStore {
	return &AccountStore{rdb: rdb}
}

func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

func accountKey(key models.AccountKey) string {
	return fmt.Sprintf("account:%s:%s", key.Bank, key.AccountNumber)
}

func fundsField(kind models.CardKind) string {
	if kind == models.KindCredit {
		return "credit_used"
	}
	return "balance"
}

func (s *AccountStore) PutAccount(ctx context.Context, a models.Account) error {
	return s.rdb.HSet(ctx, accountKey(a.Key()),
		"kind", string(a.Kind),
		"credit_limit", a.CreditLimit.String(),
		"credit_used", a.CreditUsed.String(),
		"balance", a.Balance.String(),
		"updated_at", time.Now().UTC().Format(time.RFC3339Nano),
	).Err()
}

func (s *AccountStore) GetAccount(ctx context.Context, key models.AccountKey) (models.Account, error) {
	h, err := s.rdb.HGetAll(ctx, accountKey(key)).Result()
	if err != nil {
		return models.Account{}, fmt.Errorf("redis hgetall: %w", err)
	}
	if len(h) == 0 {
		return models.Account{}, fmt.Errorf("%w: account %s/%s", repository.ErrNotFound, key.Bank, models.Last4(key.AccountNumber))
	}

	a := models.Account{Bank: key.Bank, AccountNumber: key.AccountNumber, Kind: models.CardKind(h["kind"])}
	for field, dst := range map[string]*decimal.Decimal{
		"credit_limit": &a.CreditLimit,
		"credit_used":  &a.CreditUsed,
		"balance":      &a.Balance,
	} {
		v := h[field]
		if v == "" {
			continue
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return models.Account{}, fmt.Errorf("account %s/%s field %s: %w", key.Bank, models.Last4(key.AccountNumber), field, err)
		}
		*dst = d
	}
	if ts, err := time.Parse(time.RFC3339Nano, h["updated_at"]); err == nil {
		a.UpdatedAt = ts
	}
	return a, nil
}

func (s *AccountStore) ConditionalUpdateFunds(ctx context.Context, key models.AccountKey, kind models.CardKind, expected, next decimal.Decimal) error {
	res, err := casScript.Run(ctx, s.rdb, []string{accountKey(key)},
		fundsField(kind), expected.String(), next.String(), time.Now().UTC().Format(time.RFC3339Nano),
	).Int64()
	if err != nil {
		return fmt.Errorf("error executing Lua script: %w", err)
	}

	switch res {
	case 1:
		return nil
	case 0:
		return fmt.Errorf("%w: account %s/%s", repository.ErrConflict, key.Bank, models.Last4(key.AccountNumber))
	case -1:
		return fmt.Errorf("%w: account %s/%s", repository.ErrNotFound, key.Bank, models.Last4(key.AccountNumber))
	default:
		return fmt.Errorf("unknown status from Lua: %d", res)
	}
}

func (s *AccountStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
