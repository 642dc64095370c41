package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	List(ctx context.Context, page, limit int, search, status string) ([]model.Item, int64, error)
	ListAll(ctx context.Context, statuses ...string) ([]model.Item, error)
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *model.Item) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *itemRepository) Update(ctx context.Context, item *model.Item) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Item{}).Error
}

func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) List(ctx context.Context, page, limit int, search, status string) ([]model.Item, int64, error) {
	var items []model.Item
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Item{})
	if search != "" {
		db = db.Where("title ILIKE ? OR sku ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("date_added desc").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// ListAll returns every item, optionally restricted to the given statuses.
// Used to build analytics snapshots.
func (r *itemRepository) ListAll(ctx context.Context, statuses ...string) ([]model.Item, error) {
	var items []model.Item
	db := GetDB(ctx, r.db).Order("date_added desc")
	if len(statuses) > 0 {
		db = db.Where("status IN ?", statuses)
	}
	if err := db.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
