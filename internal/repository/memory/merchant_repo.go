package memory

import (
	"context"
	"sync"

	"github.com/baharkarakas/payment-authorizer/internal/models"
)

type MerchantRepository struct {
	mu        sync.RWMutex
	merchants []models.Merchant
}

func NewMerchantRepository() *MerchantRepository {
	return &MerchantRepository{}
}

// PutMerchant appends; the directory may legitimately hold duplicates.
func (r *MerchantRepository) PutMerchant(ctx context.Context, m models.Merchant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.merchants = append(r.merchants, m)
	return nil
}

func (r *MerchantRepository) FindMerchants(ctx context.Context, name, token string) ([]models.Merchant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Merchant
	for _, m := range r.merchants {
		if m.Name == name && m.Token == token {
			out = append(out, m)
		}
	}
	return out, nil
}
