package service

import (
	"context"
	"fmt"

	"backend/internal/analytics"
	"backend/internal/repository"
)

// snapshotLoader fetches the in-memory entity snapshot the analytics engine
// computes over. The engine itself never touches storage; everything it
// sees goes through here.
type snapshotLoader struct {
	itemRepo     repository.ItemRepository
	saleRepo     repository.SaleRepository
	purchaseRepo repository.PurchaseRepository
}

func (l snapshotLoader) Load(ctx context.Context) (*analytics.Snapshot, error) {
	items, err := l.itemRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	sales, err := l.saleRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	purchases, err := l.purchaseRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}
	return &analytics.Snapshot{Items: items, Sales: sales, Purchases: purchases}, nil
}
