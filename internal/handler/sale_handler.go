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

type SaleHandler struct {
	saleService service.SaleService
}

func NewSaleHandler(saleService service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

func (h *SaleHandler) RegisterRoutes(router *gin.RouterGroup) {
	sales := router.Group("/api/sales")
	sales.Use(middleware.RequireAuth())
	{
		sales.GET("", h.GetSales)
		sales.POST("", h.CreateSale)
		sales.DELETE("/:id", h.DeleteSale)
	}

	router.GET("/api/items/:id/sales", middleware.RequireAuth(), h.GetItemSales)
}

// GetItemSales lists the sale history of one item
// @Summary      Get item sales
// @Description  Retrieves all sales recorded against a single inventory item, newest first
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response{data=object}
// @Failure      400  {object}  response.Response
// @Router       /api/items/{id}/sales [get]
func (h *SaleHandler) GetItemSales(c *gin.Context) {
	sales, err := h.saleService.GetSalesForItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"sales": sales,
		"total": len(sales),
	}))
}

// GetSales handles retrieving paginated sales records
// @Summary      Get sales
// @Description  Retrieves a paginated list of sales, filterable by platform
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Number of items per page (default 20)"
// @Param        platform  query     string  false  "Filter by sales platform"
// @Success      200       {object}  response.Response{data=object}
// @Failure      500       {object}  response.Response
// @Router       /api/sales [get]
func (h *SaleHandler) GetSales(c *gin.Context) {
	params := pagination.Parse(c)
	platform := c.Query("platform")

	sales, total, err := h.saleService.GetSales(c.Request.Context(), params.Page, params.Limit, platform)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve sales: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"sales": sales,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// CreateSale records a new sale
// @Summary      Create sale
// @Description  Records a sale against an inventory item and decrements its stock inside a transaction
// @Tags         sales
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SaleRequest  true  "Create Sale Payload"
// @Success      201      {object}  response.Response{data=service.SaleResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/sales [post]
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req service.SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	sale, err := h.saleService.CreateSale(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, sale))
}

// DeleteSale removes a sale record
// @Summary      Delete sale
// @Description  Deletes a sale record by ID
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Sale ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) DeleteSale(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.saleService.DeleteSale(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrSaleNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Sale deleted successfully"))
}
