package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, page, limit int, platform string) ([]model.Sale, int64, error)
	ListAll(ctx context.Context) ([]model.Sale, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]model.Sale, error)
}

type saleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *model.Sale) error {
	return GetDB(ctx, r.db).Create(sale).Error
}

func (r *saleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Sale{}).Error
}

func (r *saleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := GetDB(ctx, r.db).First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) List(ctx context.Context, page, limit int, platform string) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Sale{})
	if platform != "" {
		db = db.Where("platform = ?", platform)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("date_sold desc").Offset(offset).Limit(limit).Find(&sales).Error; err != nil {
		return nil, 0, err
	}

	return sales, total, nil
}

func (r *saleRepository) ListAll(ctx context.Context) ([]model.Sale, error) {
	var sales []model.Sale
	if err := GetDB(ctx, r.db).Order("date_sold desc").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *saleRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	if err := GetDB(ctx, r.db).Where("item_id = ?", itemID).Order("date_sold desc").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}
