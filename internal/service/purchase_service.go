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
type PurchaseRequest struct {
	Supplier      string  `json:"supplier" binding:"required"`
	BatchName     string  `json:"batch_name"`
	Cost          string  `json:"cost" binding:"required"`
	DatePurchased *string `json:"date_purchased"` // RFC 3339; defaults to now
}

type PurchaseResponse struct {
	ID            string    `json:"id"`
	Supplier      string    `json:"supplier"`
	BatchName     string    `json:"batch_name,omitempty"`
	Cost          string    `json:"cost"`
	DatePurchased time.Time `json:"date_purchased"`
}

var ErrPurchaseNotFound = errors.New("purchase not found")

type PurchaseService interface {
	GetPurchases(ctx context.Context, page, limit int, supplier string) ([]PurchaseResponse, int64, error)
	CreatePurchase(ctx context.Context, userID string, req PurchaseRequest) (*PurchaseResponse, error)
	DeletePurchase(ctx context.Context, userID string, id string) error
}

type purchaseService struct {
	purchaseRepo repository.PurchaseRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
}

func NewPurchaseService(
	purchaseRepo repository.PurchaseRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) PurchaseService {
	return &purchaseService{
		purchaseRepo: purchaseRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		hub:          hub,
	}
}

func (s *purchaseService) GetPurchases(ctx context.Context, page, limit int, supplier string) ([]PurchaseResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	purchases, total, err := s.purchaseRepo.List(ctx, page, limit, supplier)
	if err != nil {
		return nil, 0, err
	}

	res := make([]PurchaseResponse, 0, len(purchases))
	for _, purchase := range purchases {
		res = append(res, purchaseToResponse(&purchase))
	}
	return res, total, nil
}

func (s *purchaseService) CreatePurchase(ctx context.Context, userID string, req PurchaseRequest) (*PurchaseResponse, error) {
	cost, err := decimal.NewFromString(req.Cost)
	if err != nil {
		return nil, fmt.Errorf("invalid cost: %w", err)
	}
	if cost.IsNegative() {
		return nil, errors.New("cost must not be negative")
	}

	datePurchased := time.Now().UTC()
	if req.DatePurchased != nil {
		parsed, err := time.Parse(time.RFC3339, *req.DatePurchased)
		if err != nil {
			return nil, fmt.Errorf("invalid date_purchased: %w", err)
		}
		datePurchased = parsed
	}

	purchase := &model.Purchase{
		Supplier:      req.Supplier,
		BatchName:     req.BatchName,
		Cost:          cost,
		DatePurchased: datePurchased,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.purchaseRepo.Create(txCtx, purchase); err != nil {
			return fmt.Errorf("failed to create purchase: %w", err)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionCreatePurchase,
			EntityID:   purchase.ID.String(),
			EntityName: purchase.Supplier,
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

	s.broadcast("purchase.created", purchase.ID.String())
	res := purchaseToResponse(purchase)
	return &res, nil
}

func (s *purchaseService) DeletePurchase(ctx context.Context, userID string, id string) error {
	purchaseID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid purchase id: %w", err)
	}

	purchase, err := s.purchaseRepo.FindByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPurchaseNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.purchaseRepo.Delete(txCtx, purchaseID); err != nil {
			return fmt.Errorf("failed to delete purchase: %w", err)
		}

		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionDeletePurchase,
			EntityID:   purchase.ID.String(),
			EntityName: purchase.Supplier,
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

	s.broadcast("purchase.deleted", purchase.ID.String())
	return nil
}

func (s *purchaseService) broadcast(event, id string) {
	if s.hub == nil {
		return
	}
	payload, _ := json.Marshal(RecordEvent{
		Event: event,
		Data:  map[string]interface{}{"id": id},
	})
	s.hub.Broadcast <- payload
}

func purchaseToResponse(purchase *model.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:            purchase.ID.String(),
		Supplier:      purchase.Supplier,
		BatchName:     purchase.BatchName,
		Cost:          purchase.Cost.StringFixed(2),
		DatePurchased: purchase.DatePurchased,
	}
}
