package handler

import (
	"errors"
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	purchaseService service.PurchaseService
}

func NewPurchaseHandler(purchaseService service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

func (h *PurchaseHandler) RegisterRoutes(router *gin.RouterGroup) {
	purchases := router.Group("/api/purchases")
	purchases.Use(middleware.RequireAuth())
	{
		purchases.GET("", h.GetPurchases)
		purchases.POST("", h.CreatePurchase)
		purchases.DELETE("/:id", h.DeletePurchase)
	}
}

// GetPurchases handles retrieving paginated purchase records
// @Summary      Get purchases
// @Description  Retrieves a paginated list of sourcing purchases, filterable by supplier
// @Tags         purchases
// @Security     BearerAuth
// @Produce      json
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Number of items per page (default 20)"
// @Param        supplier  query     string  false  "Filter by supplier name"
// @Success      200       {object}  response.Response{data=object}
// @Failure      500       {object}  response.Response
// @Router       /api/purchases [get]
func (h *PurchaseHandler) GetPurchases(c *gin.Context) {
	params := pagination.Parse(c)
	supplier := c.Query("supplier")

	purchases, total, err := h.purchaseService.GetPurchases(c.Request.Context(), params.Page, params.Limit, supplier)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve purchases: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"purchases": purchases,
		"total":     total,
		"page":      params.Page,
		"limit":     params.Limit,
	}))
}

// CreatePurchase records a sourcing purchase
// @Summary      Create purchase
// @Description  Records a new supplier purchase batch
// @Tags         purchases
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.PurchaseRequest  true  "Create Purchase Payload"
// @Success      201      {object}  response.Response{data=service.PurchaseResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/purchases [post]
func (h *PurchaseHandler) CreatePurchase(c *gin.Context) {
	var req service.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	purchase, err := h.purchaseService.CreatePurchase(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, purchase))
}

// DeletePurchase removes a purchase record
// @Summary      Delete purchase
// @Description  Deletes a purchase record by ID
// @Tags         purchases
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Purchase ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/purchases/{id} [delete]
func (h *PurchaseHandler) DeletePurchase(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.purchaseService.DeletePurchase(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrPurchaseNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Purchase deleted successfully"))
}
