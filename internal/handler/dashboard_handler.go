package handler

import (
	"net/http"
	"strconv"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	kpiService       service.KPIService
	analyticsService service.AnalyticsService
}

func NewDashboardHandler(kpiService service.KPIService, analyticsService service.AnalyticsService) *DashboardHandler {
	return &DashboardHandler{kpiService: kpiService, analyticsService: analyticsService}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/api/dashboard")
	dashboard.Use(middleware.RequireAuth())
	{
		dashboard.GET("/kpis", h.GetKPIs)
		dashboard.GET("/summary", h.GetSummary)
		dashboard.GET("/activity", h.GetRecentActivity)
		dashboard.GET("/alerts", h.GetLowStockAlerts)
		dashboard.GET("/sales-chart", h.GetWeeklySalesChart)
		dashboard.GET("/recent-items", h.GetRecentItems)
	}
}

// GetKPIs returns the six dashboard metrics
// @Summary      Get dashboard KPIs
// @Description  Computes the six fixed dashboard metrics over the current record snapshot
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/dashboard/kpis [get]
func (h *DashboardHandler) GetKPIs(c *gin.Context) {
	kpis, err := h.kpiService.GetDashboardKPIs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to compute KPIs: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"kpis": kpis,
	}))
}

// GetSummary returns the all-time totals block
// @Summary      Get dashboard summary
// @Description  Returns all-time inventory value, revenue, net profit and record counts
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.DashboardSummary}
// @Failure      500  {object}  response.Response
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.analyticsService.GetSummary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to compute summary: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// GetRecentActivity returns the merged recent items/sales feed
// @Summary      Get recent activity
// @Description  Returns the latest item additions and sales merged into one feed, newest first
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/dashboard/activity [get]
func (h *DashboardHandler) GetRecentActivity(c *gin.Context) {
	entries, err := h.analyticsService.GetRecentActivity(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to load activity: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"activity": entries,
	}))
}

// GetLowStockAlerts returns in-stock items running low
// @Summary      Get low stock alerts
// @Description  Returns in-stock items whose quantity is below the restock threshold
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/dashboard/alerts [get]
func (h *DashboardHandler) GetLowStockAlerts(c *gin.Context) {
	items, err := h.analyticsService.GetLowStockItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to load alerts: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"low_stock": items,
	}))
}

// GetWeeklySalesChart returns daily revenue for the trailing week
// @Summary      Get weekly sales chart
// @Description  Returns daily sales revenue for the last seven days, zero-filled
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/dashboard/sales-chart [get]
func (h *DashboardHandler) GetWeeklySalesChart(c *gin.Context) {
	points, err := h.analyticsService.GetWeeklySalesChart(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to compute sales chart: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"points": points,
	}))
}

// GetRecentItems returns the most recently added items
// @Summary      Get recent items
// @Description  Returns the most recently added inventory items
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Param        limit  query     int  false  "Number of items (default 5, max 50)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/dashboard/recent-items [get]
func (h *DashboardHandler) GetRecentItems(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	items, err := h.analyticsService.GetRecentItems(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to load recent items: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"items": items,
	}))
}
