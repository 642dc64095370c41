package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs
type ItemRequest struct {
	Title         string  `json:"title" binding:"required"`
	SKU           string  `json:"sku"`
	Category      string  `json:"category"`
	Condition     string  `json:"condition"`
	Notes         string  `json:"notes"`
	PurchasePrice string  `json:"purchase_price" binding:"required"`
	Quantity      int     `json:"quantity" binding:"min=0"`
	DateAdded     *string `json:"date_added"` // RFC 3339; defaults to now
	Status        string  `json:"status"`
}

type ItemResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	SKU           string    `json:"sku"`
	Category      string    `json:"category"`
	Condition     string    `json:"condition"`
	Notes         string    `json:"notes,omitempty"`
	PurchasePrice string    `json:"purchase_price"`
	Quantity      int       `json:"quantity"`
	DateAdded     time.Time `json:"date_added"`
	Status        string    `json:"status"`
}

// RecordEvent is the websocket payload pushed to dashboards whenever a
// record mutates, so open charts can refresh.
type RecordEvent struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

var ErrItemNotFound = errors.New("item not found")

type ItemService interface {
	GetItems(ctx context.Context, page, limit int, search, status string) ([]ItemResponse, int64, error)
	GetItem(ctx context.Context, id string) (*ItemResponse, error)
	CreateItem(ctx context.Context, userID string, req ItemRequest) (*ItemResponse, error)
	UpdateItem(ctx context.Context, userID string, id string, req ItemRequest) (*ItemResponse, error)
	DeleteItem(ctx context.Context, userID string, id string) error
}

type itemService struct {
	itemRepo  repository.ItemRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	hub       *ws.Hub
}

func NewItemService(
	itemRepo repository.ItemRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) ItemService {
	return &itemService{
		itemRepo:  itemRepo,
		auditRepo: auditRepo,
		txManager: txManager,
		hub:       hub,
	}
}

func (s *itemService) GetItems(ctx context.Context, page, limit int, search, status string) ([]ItemResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if status != "" && !model.IsValidItemStatus(status) {
		return nil, 0, fmt.Errorf("invalid status: %s", status)
	}

	items, total, err := s.itemRepo.List(ctx, page, limit, search, status)
	if err != nil {
		return nil, 0, err
	}

	res := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		res = append(res, itemToResponse(&item))
	}
	return res, total, nil
}

func (s *itemService) GetItem(ctx context.Context, id string) (*ItemResponse, error) {
	item, err := s.findItem(ctx, id)
	if err != nil {
		return nil, err
	}
	res := itemToResponse(item)
	return &res, nil
}

func (s *itemService) CreateItem(ctx context.Context, userID string, req ItemRequest) (*ItemResponse, error) {
	item, err := itemFromRequest(req)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.itemRepo.Create(txCtx, item); err != nil {
			return fmt.Errorf("failed to create item: %w", err)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionCreateItem,
			EntityID:   item.ID.String(),
			EntityName: item.Title,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast("item.created", item.ID.String(), item.Title)
	res := itemToResponse(item)
	return &res, nil
}

func (s *itemService) UpdateItem(ctx context.Context, userID string, id string, req ItemRequest) (*ItemResponse, error) {
	item, err := s.findItem(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := itemFromRequest(req)
	if err != nil {
		return nil, err
	}
	updated.ID = item.ID
	updated.CreatedAt = item.CreatedAt
	if req.DateAdded == nil {
		updated.DateAdded = item.DateAdded
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.itemRepo.Update(txCtx, updated); err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionUpdateItem,
			EntityID:   updated.ID.String(),
			EntityName: updated.Title,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast("item.updated", updated.ID.String(), updated.Title)
	res := itemToResponse(updated)
	return &res, nil
}

func (s *itemService) DeleteItem(ctx context.Context, userID string, id string) error {
	item, err := s.findItem(ctx, id)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.itemRepo.Delete(txCtx, item.ID); err != nil {
			return fmt.Errorf("failed to delete item: %w", err)
		}

		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionDeleteItem,
			EntityID:   item.ID.String(),
			EntityName: item.Title,
			Details:    `{"deleted": true}`,
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.broadcast("item.deleted", item.ID.String(), item.Title)
	return nil
}

func (s *itemService) findItem(ctx context.Context, id string) (*model.Item, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid item id: %w", err)
	}
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return item, nil
}

func (s *itemService) broadcast(event, id, title string) {
	if s.hub == nil {
		return
	}
	payload, _ := json.Marshal(RecordEvent{
		Event: event,
		Data:  map[string]interface{}{"id": id, "title": title},
	})
	s.hub.Broadcast <- payload
}

func itemFromRequest(req ItemRequest) (*model.Item, error) {
	price, err := decimal.NewFromString(req.PurchasePrice)
	if err != nil {
		return nil, fmt.Errorf("invalid purchase price: %w", err)
	}
	if price.IsNegative() {
		return nil, errors.New("purchase price must not be negative")
	}

	status := req.Status
	if status == "" {
		status = model.ItemStatusInStock
	}
	if !model.IsValidItemStatus(status) {
		return nil, fmt.Errorf("invalid status: %s", status)
	}

	dateAdded := time.Now().UTC()
	if req.DateAdded != nil {
		parsed, err := time.Parse(time.RFC3339, *req.DateAdded)
		if err != nil {
			return nil, fmt.Errorf("invalid date_added: %w", err)
		}
		dateAdded = parsed
	}

	condition := req.Condition
	if condition == "" {
		condition = "New"
	}

	return &model.Item{
		Title:         req.Title,
		SKU:           req.SKU,
		Category:      req.Category,
		Condition:     condition,
		Notes:         req.Notes,
		PurchasePrice: price,
		Quantity:      req.Quantity,
		DateAdded:     dateAdded,
		Status:        status,
	}, nil
}

func itemToResponse(item *model.Item) ItemResponse {
	return ItemResponse{
		ID:            item.ID.String(),
		Title:         item.Title,
		SKU:           item.SKU,
		Category:      item.Category,
		Condition:     item.Condition,
		Notes:         item.Notes,
		PurchasePrice: item.PurchasePrice.StringFixed(2),
		Quantity:      item.Quantity,
		DateAdded:     item.DateAdded,
		Status:        item.Status,
	}
}

// parseUserID tolerates a blank or malformed user id so that automated
// jobs can still write audit entries.
func parseUserID(userID string) *uuid.UUID {
	if parsed, err := uuid.Parse(userID); err == nil {
		return &parsed
	}
	return nil
}
