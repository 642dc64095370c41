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

type ItemHandler struct {
	itemService service.ItemService
}

func NewItemHandler(itemService service.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

func (h *ItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/api/items")
	items.Use(middleware.RequireAuth())
	{
		items.GET("", h.GetItems)
		items.GET("/:id", h.GetItem)
		items.POST("", h.CreateItem)
		items.PUT("/:id", h.UpdateItem)
		items.DELETE("/:id", h.DeleteItem)
	}
}

// GetItems handles retrieving paginated inventory items
// @Summary      Get items
// @Description  Retrieves a paginated list of inventory items, filterable by search term and status
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        search  query     string  false  "Search by title or SKU"
// @Param        status  query     string  false  "Filter by item status"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/items [get]
func (h *ItemHandler) GetItems(c *gin.Context) {
	params := pagination.Parse(c)
	search := c.Query("search")
	status := c.Query("status")

	items, total, err := h.itemService.GetItems(c.Request.Context(), params.Page, params.Limit, search, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve items: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"items": items,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// GetItem retrieves a single item by ID
// @Summary      Get item
// @Description  Retrieves a single inventory item by ID
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response{data=service.ItemResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetItem(c *gin.Context) {
	item, err := h.itemService.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// CreateItem creates a new inventory item
// @Summary      Create item
// @Description  Creates a new inventory item record
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ItemRequest  true  "Create Item Payload"
// @Success      201      {object}  response.Response{data=service.ItemResponse}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req service.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	item, err := h.itemService.CreateItem(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateItem updates an existing item
// @Summary      Update item
// @Description  Updates an existing inventory item by ID
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Item ID"
// @Param        payload  body      service.ItemRequest  true  "Update Item Payload"
// @Success      200      {object}  response.Response{data=service.ItemResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/items/{id} [put]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	var req service.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	item, err := h.itemService.UpdateItem(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteItem removes an item softly
// @Summary      Delete item
// @Description  Soft deletes an inventory item by ID
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.itemService.DeleteItem(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Item deleted successfully"))
}
