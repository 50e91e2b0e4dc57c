package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/baharkarakas/payment-authorizer/internal/models"
)

type ReconciliationRepository struct {
	mu      sync.RWMutex
	entries []models.ReconciliationEntry
}

func NewReconciliationRepository() *ReconciliationRepository {
	return &ReconciliationRepository{}
}

func (r *ReconciliationRepository) Create(ctx context.Context, e models.ReconciliationEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	r.entries = append(r.entries, e)
	return nil
}

// List returns newest first.
func (r *ReconciliationRepository) List(ctx context.Context, limit, offset int) ([]models.ReconciliationEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.ReconciliationEntry, len(r.entries))
	for i, e := range r.entries {
		out[len(r.entries)-1-i] = e
	}
	return page(out, limit, offset), nil
}
