package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/baharkarakas/payment-authorizer/internal/models"
	"github.com/baharkarakas/payment-authorizer/internal/repository"
)

type AccountRepository struct {
	mu       sync.Mutex
	accounts map[models.AccountKey]models.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[models.AccountKey]models.Account)}
}

func (r *AccountRepository) PutAccount(ctx context.Context, a models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a.UpdatedAt = time.Now()
	r.accounts[a.Key()] = a
	return nil
}

func (r *AccountRepository) GetAccount(ctx context.Context, key models.AccountKey) (models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[key]
	if !ok {
		return models.Account{}, fmt.Errorf("%w: account %s/%s", repository.ErrNotFound, key.Bank, models.Last4(key.AccountNumber))
	}
	return a, nil
}

func (r *AccountRepository) ConditionalUpdateFunds(ctx context.Context, key models.AccountKey, kind models.CardKind, expected, next decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[key]
	if !ok {
		return fmt.Errorf("%w: account %s/%s", repository.ErrNotFound, key.Bank, models.Last4(key.AccountNumber))
	}
	if !a.Funds(kind).Equal(expected) {
		return fmt.Errorf("%w: account %s/%s", repository.ErrConflict, key.Bank, models.Last4(key.AccountNumber))
	}
	if kind == models.KindCredit {
		a.CreditUsed = next
	} else {
		a.Balance = next
	}
	a.UpdatedAt = time.Now()
	r.accounts[key] = a
	return nil
}
