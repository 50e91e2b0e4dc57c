package memory

import (
	"github.com/baharkarakas/payment-authorizer/internal/repository"
)

var (
	_ repository.Accounts       = (*AccountRepository)(nil)
	_ repository.Merchants      = (*MerchantRepository)(nil)
	_ repository.Transactions   = (*TransactionRepository)(nil)
	_ repository.Reconciliation = (*ReconciliationRepository)(nil)
)

// Store bundles the in-memory repositories and seeds the two reference ones.
type Store struct {
	*AccountRepository
	*MerchantRepository
}

func NewRepositories() repository.Repositories {
	accounts := NewAccountRepository()
	merchants := NewMerchantRepository()
	return repository.Repositories{
		Accounts:       accounts,
		Merchants:      merchants,
		Transactions:   NewTransactionRepository(),
		Reconciliation: NewReconciliationRepository(),
		Seeder:         Store{accounts, merchants},
	}
}
