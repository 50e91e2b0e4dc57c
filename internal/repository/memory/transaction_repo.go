package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/baharkarakas/payment-authorizer/internal/models"
	"github.com/baharkarakas/payment-authorizer/internal/repository"
)

type TransactionRepository struct {
	mu    sync.RWMutex
	byID  map[string]models.TransactionRecord
	order []string
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{byID: make(map[string]models.TransactionRecord)}
}

func (r *TransactionRepository) Append(ctx context.Context, rec models.TransactionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[rec.TransactionID]; exists {
		return fmt.Errorf("%w: transaction %s", repository.ErrDuplicate, rec.TransactionID)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	r.byID[rec.TransactionID] = rec
	r.order = append(r.order, rec.TransactionID)
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (models.TransactionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return models.TransactionRecord{}, fmt.Errorf("%w: transaction %s", repository.ErrNotFound, id)
	}
	return rec, nil
}

// ListByMerchant returns newest first.
func (r *TransactionRepository) ListByMerchant(ctx context.Context, merchantName string, limit, offset int) ([]models.TransactionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []models.TransactionRecord
	for _, id := range r.order {
		rec := r.byID[id]
		if merchantName == "" || rec.MerchantName == merchantName {
			all = append(all, rec)
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, limit, offset), nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}
