package redisstore

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/payment-authorizer/internal/models"
	"github.com/baharkarakas/payment-authorizer/internal/repository"
)

func newStore(t *testing.T) (*AccountStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewAccountStore(rdb), mr
}

func TestAccountStore_GetAndCAS(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	acc := models.Account{
		Bank:          "First Bank",
		AccountNumber: "5500000000000004",
		Kind:          models.KindDebit,
		Balance:       decimal.RequireFromString("50.00"),
	}
	require.NoError(t, s.PutAccount(ctx, acc))

	got, err := s.GetAccount(ctx, acc.Key())
	require.NoError(t, err)
	require.Equal(t, models.KindDebit, got.Kind)
	require.True(t, got.Balance.Equal(decimal.NewFromInt(50)))

	// expected value written with different scale still matches
	err = s.ConditionalUpdateFunds(ctx, acc.Key(), models.KindDebit, decimal.RequireFromString("50.0"), decimal.Zero)
	require.NoError(t, err)

	got, err = s.GetAccount(ctx, acc.Key())
	require.NoError(t, err)
	require.True(t, got.Balance.IsZero())

	err = s.ConditionalUpdateFunds(ctx, acc.Key(), models.KindDebit, decimal.NewFromInt(50), decimal.Zero)
	require.True(t, errors.Is(err, repository.ErrConflict))
}

func TestAccountStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	key := models.AccountKey{Bank: "b", AccountNumber: "0000"}

	_, err := s.GetAccount(ctx, key)
	require.True(t, errors.Is(err, repository.ErrNotFound))

	err = s.ConditionalUpdateFunds(ctx, key, models.KindCredit, decimal.Zero, decimal.NewFromInt(1))
	require.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestAccountStore_CreditFieldUntouchedByDebitCAS(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t)

	acc := models.Account{
		Bank:          "First Bank",
		AccountNumber: "4111111111111111",
		Kind:          models.KindCredit,
		CreditLimit:   decimal.NewFromInt(500),
		CreditUsed:    decimal.NewFromInt(100),
	}
	require.NoError(t, s.PutAccount(ctx, acc))
	require.NoError(t, s.ConditionalUpdateFunds(ctx, acc.Key(), models.KindCredit, decimal.NewFromInt(100), decimal.NewFromInt(400)))

	require.Equal(t, "400", mr.HGet("account:First Bank:4111111111111111", "credit_used"))
	require.Equal(t, "500", mr.HGet("account:First Bank:4111111111111111", "credit_limit"))
}

func TestAccountStore_Ping(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.Ping(context.Background()))
}
