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
type SaleRequest struct {
	ItemID    string  `json:"item_id" binding:"required"`
	SoldPrice string  `json:"sold_price" binding:"required"`
	Platform  string  `json:"platform" binding:"required"`
	Fees      string  `json:"fees"`
	DateSold  *string `json:"date_sold"` // RFC 3339; defaults to now
	Buyer     string  `json:"buyer"`
}

type SaleResponse struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	SoldPrice string    `json:"sold_price"`
	Platform  string    `json:"platform"`
	Fees      string    `json:"fees"`
	DateSold  time.Time `json:"date_sold"`
	Buyer     string    `json:"buyer,omitempty"`
}

var ErrSaleNotFound = errors.New("sale not found")

type SaleService interface {
	GetSales(ctx context.Context, page, limit int, platform string) ([]SaleResponse, int64, error)
	GetSalesForItem(ctx context.Context, itemID string) ([]SaleResponse, error)
	CreateSale(ctx context.Context, userID string, req SaleRequest) (*SaleResponse, error)
	DeleteSale(ctx context.Context, userID string, id string) error
}

type saleService struct {
	saleRepo  repository.SaleRepository
	itemRepo  repository.ItemRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	hub       *ws.Hub
}

func NewSaleService(
	saleRepo repository.SaleRepository,
	itemRepo repository.ItemRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) SaleService {
	return &saleService{
		saleRepo:  saleRepo,
		itemRepo:  itemRepo,
		auditRepo: auditRepo,
		txManager: txManager,
		hub:       hub,
	}
}

func (s *saleService) GetSales(ctx context.Context, page, limit int, platform string) ([]SaleResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	sales, total, err := s.saleRepo.List(ctx, page, limit, platform)
	if err != nil {
		return nil, 0, err
	}

	res := make([]SaleResponse, 0, len(sales))
	for _, sale := range sales {
		res = append(res, saleToResponse(&sale))
	}
	return res, total, nil
}

// GetSalesForItem returns the sale history of one item, newest first.
func (s *saleService) GetSalesForItem(ctx context.Context, itemID string) ([]SaleResponse, error) {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, fmt.Errorf("invalid item id: %w", err)
	}

	sales, err := s.saleRepo.ListByItem(ctx, id)
	if err != nil {
		return nil, err
	}

	res := make([]SaleResponse, 0, len(sales))
	for i := range sales {
		res = append(res, saleToResponse(&sales[i]))
	}
	return res, nil
}

// CreateSale records a sale and marks the referenced item SOLD when its
// remaining quantity hits zero. Quantity decrements by one per sale.
func (s *saleService) CreateSale(ctx context.Context, userID string, req SaleRequest) (*SaleResponse, error) {
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("invalid item id: %w", err)
	}

	soldPrice, err := decimal.NewFromString(req.SoldPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid sold price: %w", err)
	}

	fees := decimal.Zero
	if req.Fees != "" {
		fees, err = decimal.NewFromString(req.Fees)
		if err != nil {
			return nil, fmt.Errorf("invalid fees: %w", err)
		}
	}

	dateSold := time.Now().UTC()
	if req.DateSold != nil {
		parsed, err := time.Parse(time.RFC3339, *req.DateSold)
		if err != nil {
			return nil, fmt.Errorf("invalid date_sold: %w", err)
		}
		dateSold = parsed
	}

	sale := &model.Sale{
		ItemID:    itemID,
		SoldPrice: soldPrice,
		Platform:  req.Platform,
		Fees:      fees,
		DateSold:  dateSold,
		Buyer:     req.Buyer,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item, err := s.itemRepo.FindByID(txCtx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := s.saleRepo.Create(txCtx, sale); err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}

		if item.Quantity > 0 {
			item.Quantity--
		}
		if item.Quantity == 0 {
			item.Status = model.ItemStatusSold
		}
		if err := s.itemRepo.Update(txCtx, item); err != nil {
			return fmt.Errorf("failed to update item stock: %w", err)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionCreateSale,
			EntityID:   sale.ID.String(),
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

	s.broadcast("sale.created", sale.ID.String())
	res := saleToResponse(sale)
	return &res, nil
}

func (s *saleService) DeleteSale(ctx context.Context, userID string, id string) error {
	saleID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid sale id: %w", err)
	}

	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSaleNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.saleRepo.Delete(txCtx, saleID); err != nil {
			return fmt.Errorf("failed to delete sale: %w", err)
		}

		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionDeleteSale,
			EntityID:   sale.ID.String(),
			EntityName: sale.Platform,
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

	s.broadcast("sale.deleted", sale.ID.String())
	return nil
}

func (s *saleService) broadcast(event, id string) {
	if s.hub == nil {
		return
	}
	payload, _ := json.Marshal(RecordEvent{
		Event: event,
		Data:  map[string]interface{}{"id": id},
	})
	s.hub.Broadcast <- payload
}

func saleToResponse(sale *model.Sale) SaleResponse {
	return SaleResponse{
		ID:        sale.ID.String(),
		ItemID:    sale.ItemID.String(),
		SoldPrice: sale.SoldPrice.StringFixed(2),
		Platform:  sale.Platform,
		Fees:      sale.Fees.StringFixed(2),
		DateSold:  sale.DateSold,
		Buyer:     sale.Buyer,
	}
}
