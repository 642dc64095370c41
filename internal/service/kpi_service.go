package service

import (
	"context"
	"time"

	"backend/internal/analytics"
	"backend/internal/model"
	"backend/internal/repository"
)

// KPIService produces the six fixed dashboard metrics. Values are computed
// fresh from a snapshot on every call; nothing is cached or persisted.
type KPIService interface {
	GetDashboardKPIs(ctx context.Context) ([]model.DashboardKPI, error)
}

type kpiService struct {
	snapshots snapshotLoader
}

func NewKPIService(
	itemRepo repository.ItemRepository,
	saleRepo repository.SaleRepository,
	purchaseRepo repository.PurchaseRepository,
) KPIService {
	return &kpiService{
		snapshots: snapshotLoader{itemRepo: itemRepo, saleRepo: saleRepo, purchaseRepo: purchaseRepo},
	}
}

func (s *kpiService) GetDashboardKPIs(ctx context.Context) ([]model.DashboardKPI, error) {
	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.CalculateKPIs(snap, time.Now()), nil
}
