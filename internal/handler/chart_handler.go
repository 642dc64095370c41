package handler

import (
	"errors"
	"net/http"

	"backend/internal/analytics"
	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ChartHandler struct {
	chartService service.ChartService
}

func NewChartHandler(chartService service.ChartService) *ChartHandler {
	return &ChartHandler{chartService: chartService}
}

func (h *ChartHandler) RegisterRoutes(router *gin.RouterGroup) {
	charts := router.Group("/api/charts")
	charts.Use(middleware.RequireAuth())
	{
		charts.GET("", h.GetCharts)
		charts.POST("", h.CreateChart)
		charts.PUT("/order", h.ReorderCharts)
		charts.GET("/:id", h.GetChart)
		charts.PUT("/:id", h.UpdateChart)
		charts.DELETE("/:id", h.DeleteChart)
		charts.POST("/:id/duplicate", h.DuplicateChart)
		charts.GET("/:id/data", h.GetChartData)
	}
}

// GetCharts lists all chart definitions
// @Summary      Get charts
// @Description  Retrieves all chart definitions ordered by dashboard position
// @Tags         charts
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/charts [get]
func (h *ChartHandler) GetCharts(c *gin.Context) {
	charts, err := h.chartService.ListCharts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve charts: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"charts": charts,
		"total":  len(charts),
	}))
}

// GetChart retrieves a single chart definition
// @Summary      Get chart
// @Description  Retrieves a chart definition by ID
// @Tags         charts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Chart ID"
// @Success      200  {object}  response.Response{data=model.ChartDefinition}
// @Failure      404  {object}  response.Response
// @Router       /api/charts/{id} [get]
func (h *ChartHandler) GetChart(c *gin.Context) {
	chart, err := h.chartService.GetChart(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrChartNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, chart))
}

// CreateChart creates a new chart definition
// @Summary      Create chart
// @Description  Creates a custom chart definition appended at the end of the dashboard
// @Tags         charts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ChartRequest  true  "Create Chart Payload"
// @Success      201      {object}  response.Response{data=model.ChartDefinition}
// @Failure      400      {object}  response.Response
// @Router       /api/charts [post]
func (h *ChartHandler) CreateChart(c *gin.Context) {
	var req service.ChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	chart, err := h.chartService.CreateChart(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, chart))
}

// UpdateChart updates an existing chart definition
// @Summary      Update chart
// @Description  Replaces a chart definition's configuration, keeping its dashboard position
// @Tags         charts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Chart ID"
// @Param        payload  body      service.ChartRequest  true  "Update Chart Payload"
// @Success      200      {object}  response.Response{data=model.ChartDefinition}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/charts/{id} [put]
func (h *ChartHandler) UpdateChart(c *gin.Context) {
	var req service.ChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	chart, err := h.chartService.UpdateChart(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		if errors.Is(err, service.ErrChartNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, chart))
}

// DeleteChart removes a chart definition
// @Summary      Delete chart
// @Description  Deletes a chart definition by ID
// @Tags         charts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Chart ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/charts/{id} [delete]
func (h *ChartHandler) DeleteChart(c *gin.Context) {
	if err := h.chartService.DeleteChart(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrChartNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Chart deleted successfully"))
}

// DuplicateChart clones an existing chart definition
// @Summary      Duplicate chart
// @Description  Creates a copy of a chart with "(Copy)" appended to its title, placed at the end of the dashboard
// @Tags         charts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Chart ID"
// @Success      201  {object}  response.Response{data=model.ChartDefinition}
// @Failure      404  {object}  response.Response
// @Router       /api/charts/{id}/duplicate [post]
func (h *ChartHandler) DuplicateChart(c *gin.Context) {
	chart, err := h.chartService.DuplicateChart(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrChartNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, chart))
}

// ReorderCharts persists a new dashboard ordering
// @Summary      Reorder charts
// @Description  Sets each chart's dashboard position to its index in the submitted ID list
// @Tags         charts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ReorderChartsRequest  true  "Ordered chart IDs"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /api/charts/order [put]
func (h *ChartHandler) ReorderCharts(c *gin.Context) {
	var req service.ReorderChartsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.chartService.ReorderCharts(c.Request.Context(), req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Chart order updated"))
}

// GetChartData evaluates a chart over the current data
// @Summary      Get chart data
// @Description  Evaluates a chart definition over the live record snapshot, optionally restricted to a relative time range
// @Tags         charts
// @Security     BearerAuth
// @Produce      json
// @Param        id     path      string  true   "Chart ID"
// @Param        range  query     string  false  "Time range preset (today, last_7_days, last_30_days, this_month, last_month, this_year, all_time)"
// @Success      200    {object}  response.Response{data=service.ChartDataResponse}
// @Failure      404    {object}  response.Response
// @Failure      422    {object}  response.Response
// @Router       /api/charts/{id}/data [get]
func (h *ChartHandler) GetChartData(c *gin.Context) {
	data, err := h.chartService.GetChartData(c.Request.Context(), c.Param("id"), c.Query("range"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChartNotFound):
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		case analytics.IsInvalidChartDefinition(err):
			c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, err.Error()))
		default:
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, data))
}
