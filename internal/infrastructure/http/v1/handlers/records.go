package handlers

import (
	"github.com/gin-gonic/gin"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/domain/records"
	"stockledger/internal/infrastructure/http/v1/dto"
)

// RecordsHandler handles HTTP requests for raw bookkeeping records.
type RecordsHandler struct {
	*BaseHandler
	service *records.Service
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(base *BaseHandler, service *records.Service) *RecordsHandler {
	return &RecordsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// CreateExpense handles POST /expenses
func (h *RecordsHandler) CreateExpense(c *gin.Context) {
	var req dto.AmountEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	exp, err := h.service.AddExpense(c.Request.Context(), req.Date, req.Amount)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, exp.ID.String())
}

// ListExpenses handles GET /expenses
func (h *RecordsHandler) ListExpenses(c *gin.Context) {
	items, err := h.service.ListExpenses(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.List(c, items, len(items))
}

// CreateIncome handles POST /income
func (h *RecordsHandler) CreateIncome(c *gin.Context) {
	var req dto.AmountEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inc, err := h.service.AddIncome(c.Request.Context(), req.Date, req.Amount)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, inc.ID.String())
}

// ListIncome handles GET /income
func (h *RecordsHandler) ListIncome(c *gin.Context) {
	items, err := h.service.ListIncome(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.List(c, items, len(items))
}

// CreateStockReceipt handles POST /stock-receipts
func (h *RecordsHandler) CreateStockReceipt(c *gin.Context) {
	var req dto.AddStockReceiptRequest
	if !h.BindJSON(c, &req) {
		return
	}

	receipt, err := h.service.AddStockReceipt(c.Request.Context(), records.StockReceipt{
		Date:           req.Date,
		ProductCode:    req.ProductCode,
		ProductDetails: req.ProductDetails,
		Quantity:       req.Quantity,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, receipt.ID.String())
}

// ListStockReceipts handles GET /stock-receipts
func (h *RecordsHandler) ListStockReceipts(c *gin.Context) {
	items, err := h.service.ListStockReceipts(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.List(c, items, len(items))
}

// SetUnitCost handles PUT /stock-receipts/:id/unit-cost
func (h *RecordsHandler) SetUnitCost(c *gin.Context) {
	receiptID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid receipt id"))
		return
	}

	var req dto.SetUnitCostRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetUnitCost(c.Request.Context(), receiptID, req.UnitCost); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "unit cost saved")
}

// CreateSale handles POST /sales
func (h *RecordsHandler) CreateSale(c *gin.Context) {
	var req dto.SaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sale, err := h.service.AddSale(c.Request.Context(), req.ToSale())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, sale.ID.String())
}

// UpdateSale handles PUT /sales/:id
func (h *RecordsHandler) UpdateSale(c *gin.Context) {
	saleID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid sale id"))
		return
	}

	var req dto.SaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sale := req.ToSale()
	sale.ID = saleID

	updated, err := h.service.UpdateSale(c.Request.Context(), sale)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, updated)
}

// ListSales handles GET /sales
func (h *RecordsHandler) ListSales(c *gin.Context) {
	items, err := h.service.ListSales(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.List(c, items, len(items))
}

// RegisterRoutes registers record routes.
func (h *RecordsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/expenses", h.CreateExpense)
	rg.GET("/expenses", h.ListExpenses)
	rg.POST("/income", h.CreateIncome)
	rg.GET("/income", h.ListIncome)
	rg.POST("/stock-receipts", h.CreateStockReceipt)
	rg.GET("/stock-receipts", h.ListStockReceipts)
	rg.PUT("/stock-receipts/:id/unit-cost", h.SetUnitCost)
	rg.POST("/sales", h.CreateSale)
	rg.GET("/sales", h.ListSales)
	rg.PUT("/sales/:id", h.UpdateSale)
}
