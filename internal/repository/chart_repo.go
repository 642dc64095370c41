package repository

import (
	"context"
	"fmt"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChartRepository interface {
	Create(ctx context.Context, chart *model.ChartDefinition) error
	Update(ctx context.Context, chart *model.ChartDefinition) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ChartDefinition, error)
	ListAll(ctx context.Context) ([]model.ChartDefinition, error)
	Count(ctx context.Context) (int64, error)
	UpdateOrder(ctx context.Context, orderedIDs []uuid.UUID) error
}

type chartRepository struct {
	db *gorm.DB
}

func NewChartRepository(db *gorm.DB) ChartRepository {
	return &chartRepository{db: db}
}

func (r *chartRepository) Create(ctx context.Context, chart *model.ChartDefinition) error {
	return GetDB(ctx, r.db).Create(chart).Error
}

func (r *chartRepository) Update(ctx context.Context, chart *model.ChartDefinition) error {
	return GetDB(ctx, r.db).Save(chart).Error
}

func (r *chartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.ChartDefinition{}).Error
}

func (r *chartRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ChartDefinition, error) {
	var chart model.ChartDefinition
	if err := GetDB(ctx, r.db).First(&chart, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &chart, nil
}

// ListAll returns every chart definition ordered by its dashboard position.
func (r *chartRepository) ListAll(ctx context.Context) ([]model.ChartDefinition, error) {
	var charts []model.ChartDefinition
	if err := GetDB(ctx, r.db).Order("sort_order asc, created_at asc").Find(&charts).Error; err != nil {
		return nil, err
	}
	return charts, nil
}

func (r *chartRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&model.ChartDefinition{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// UpdateOrder persists a new dashboard ordering: each chart's sort_order
// becomes its position in orderedIDs. Runs inside a single transaction.
func (r *chartRepository) UpdateOrder(ctx context.Context, orderedIDs []uuid.UUID) error {
	return GetDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		for position, id := range orderedIDs {
			result := tx.Model(&model.ChartDefinition{}).Where("id = ?", id).Update("sort_order", position)
			if result.Error != nil {
				return fmt.Errorf("failed to update chart order: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("chart not found: %s", id)
			}
		}
		return nil
	})
}
