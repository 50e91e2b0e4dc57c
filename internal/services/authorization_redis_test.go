package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/payment-authorizer/internal/events"
	"github.com/baharkarakas/payment-authorizer/internal/gate"
	"github.com/baharkarakas/payment-authorizer/internal/models"
	"github.com/baharkarakas/payment-authorizer/internal/repository/memory"
	"github.com/baharkarakas/payment-authorizer/internal/repository/redisstore"
)

func TestAuthorize_RedisConcurrentOnlyOneFunded(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), PoolSize: 16})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	accounts := redisstore.NewAccountStore(rdb)
	merchants := memory.NewMerchantRepository()
	require.NoError(t, merchants.PutMerchant(ctx, models.Merchant{ID: "m-1", Name: "Corner Shop", Token: "tok-123"}))
	key := models.AccountKey{Bank: bank, AccountNumber: debitCard}

	const workers = 8
	for round := 0; round < 10; round++ {
		require.NoError(t, accounts.PutAccount(ctx, models.Account{
			Bank: bank, AccountNumber: debitCard, Kind: models.KindDebit, Balance: decimal.NewFromInt(50),
		}))
		txns := memory.NewTransactionRepository()
		rec := NewRecorder(txns, memory.NewReconciliationRepository(), events.NewPublisher(events.NoopBus{}, inlinePool{}), 0)
		svc := NewAuthorizationService(merchants, accounts, txns, rec, gate.Always, AuthorizationOptions{MaxAttempts: workers + 1})

		var wg sync.WaitGroup
		outcomes := make([]models.Outcome, workers)
		for j := range outcomes {
			wg.Add(1)
			go func(j int) {
				defer wg.Done()
				ts := fmt.Sprintf("2024-03-01T10:%02d:%02dZ", round, j)
				outcomes[j] = svc.Authorize(ctx, input(debitCard, "debit", `30`, ts)).Outcome
			}(j)
		}
		wg.Wait()

		approved := 0
		for _, o := range outcomes {
			switch o {
			case models.OutcomeApproved:
				approved++
			case models.OutcomeDeclined:
			default:
				t.Fatalf("round %d: unexpected outcome %s", round, o)
			}
		}
		require.Equal(t, 1, approved, "round %d: %v", round, outcomes)

		acc, err := accounts.GetAccount(ctx, key)
		require.NoError(t, err)
		require.Equal(t, "20", acc.Balance.String())
	}
}
