package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseRepository interface {
	Create(ctx context.Context, purchase *model.Purchase) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	List(ctx context.Context, page, limit int, supplier string) ([]model.Purchase, int64, error)
	ListAll(ctx context.Context) ([]model.Purchase, error)
}

type purchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *model.Purchase) error {
	return GetDB(ctx, r.db).Create(purchase).Error
}

func (r *purchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Purchase{}).Error
}

func (r *purchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	var purchase model.Purchase
	if err := GetDB(ctx, r.db).First(&purchase, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepository) List(ctx context.Context, page, limit int, supplier string) ([]model.Purchase, int64, error) {
	var purchases []model.Purchase
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Purchase{})
	if supplier != "" {
		db = db.Where("supplier ILIKE ?", "%"+supplier+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("date_purchased desc").Offset(offset).Limit(limit).Find(&purchases).Error; err != nil {
		return nil, 0, err
	}

	return purchases, total, nil
}

func (r *purchaseRepository) ListAll(ctx context.Context) ([]model.Purchase, error) {
	var purchases []model.Purchase
	if err := GetDB(ctx, r.db).Order("date_purchased desc").Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}
