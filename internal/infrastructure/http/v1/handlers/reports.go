package handlers

import (
	"github.com/gin-gonic/gin"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/types"
	"stockledger/internal/domain/pipeline"
	"stockledger/internal/domain/profit"
	"stockledger/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles HTTP requests for derived reports.
// Report reads recompute from the raw collections on every request,
// so responses always reflect the latest records.
type ReportsHandler struct {
	*BaseHandler
	pipeline *pipeline.Service
	profit   *profit.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, pl *pipeline.Service, pr *profit.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		pipeline:    pl,
		profit:      pr,
	}
}

// month resolves the optional ?month=YYYY-M query parameter,
// defaulting to the current calendar month.
func (h *ReportsHandler) month(c *gin.Context) (types.Month, bool) {
	raw := c.Query("month")
	if raw == "" {
		return types.CurrentMonth(), true
	}
	m, err := types.ParseMonthKey(raw)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid month, expected YYYY-M").WithDetail("month", raw))
		return types.Month{}, false
	}
	return m, true
}

// Refresh handles POST /reports/refresh
func (h *ReportsHandler) Refresh(c *gin.Context) {
	m, ok := h.month(c)
	if !ok {
		return
	}

	res, err := h.pipeline.Run(c.Request.Context(), m)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.RefreshResponse{
		Purchase: dto.PurchaseReportFromRun(res),
		Profit:   res.Profit,
	})
}

// GetPurchaseReport handles GET /reports/purchase
func (h *ReportsHandler) GetPurchaseReport(c *gin.Context) {
	m, ok := h.month(c)
	if !ok {
		return
	}

	res, err := h.pipeline.Run(c.Request.Context(), m)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.PurchaseReportFromRun(res))
}

// GetMonthlyProfit handles GET /reports/monthly-profit
func (h *ReportsHandler) GetMonthlyProfit(c *gin.Context) {
	m, ok := h.month(c)
	if !ok {
		return
	}

	res, err := h.pipeline.Run(c.Request.Context(), m)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, res.Profit)
}

// GetProfitHistory handles GET /reports/monthly-profit/history
func (h *ReportsHandler) GetProfitHistory(c *gin.Context) {
	snapshots, err := h.profit.History(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.HistoryResponse{Snapshots: snapshots})
}

// RegisterRoutes registers report routes.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/refresh", h.Refresh)
	rg.GET("/purchase", h.GetPurchaseReport)
	rg.GET("/monthly-profit", h.GetMonthlyProfit)
	rg.GET("/monthly-profit/history", h.GetProfitHistory)
}
