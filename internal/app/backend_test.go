package app

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/payment-authorizer/internal/config"
	"github.com/baharkarakas/payment-authorizer/internal/models"
	"github.com/baharkarakas/payment-authorizer/internal/repository"
)

func TestOpenBackend_Memory(t *testing.T) {
	b, err := OpenBackend(context.Background(), config.Config{StoreBackend: config.BackendMemory, AccountBackend: config.BackendMemory})
	require.NoError(t, err)
	defer b.Close()
	require.NotNil(t, b.Repos.Accounts)
	require.Empty(t, b.Pingers)
}

func TestOpenBackend_RedisAccounts(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	b, err := OpenBackend(ctx, config.Config{
		StoreBackend:   config.BackendMemory,
		AccountBackend: config.BackendRedis,
		RedisAddr:      mr.Addr(),
	})
	require.NoError(t, err)
	defer b.Close()
	require.Contains(t, b.Pingers, "redis")

	seed := repository.Seed{
		Merchants: []models.Merchant{{ID: "m-1", Name: "Shop", Token: "t"}},
		Accounts: []models.Account{{
			Bank: "B", AccountNumber: "4111111111111111", Kind: models.KindDebit, Balance: decimal.NewFromInt(20),
		}},
	}
	require.NoError(t, seed.Apply(ctx, b.Repos.Seeder))

	acc, err := b.Repos.Accounts.GetAccount(ctx, models.AccountKey{Bank: "B", AccountNumber: "4111111111111111"})
	require.NoError(t, err)
	require.Equal(t, "20", acc.Balance.String())
	require.True(t, mr.Exists("account:B:4111111111111111"))

	ms, err := b.Repos.Merchants.FindMerchants(ctx, "Shop", "t")
	require.NoError(t, err)
	require.Len(t, ms, 1)
}

func TestOpenBackend_Unknown(t *testing.T) {
	_, err := OpenBackend(context.Background(), config.Config{StoreBackend: "mongo"})
	require.Error(t, err)

	_, err = OpenBackend(context.Background(), config.Config{StoreBackend: config.BackendMemory, AccountBackend: "etcd"})
	require.Error(t, err)
}
