package dto

import (
	"stockledger/internal/core/types"
	"stockledger/internal/domain/records"
)

// AmountEntryRequest creates an expense or income record.
// Amount bounds are validated in the domain layer.
type AmountEntryRequest struct {
	Date   string      `json:"date" binding:"required"`
	Amount types.Money `json:"amount"`
}

// AddStockReceiptRequest creates a stock-in entry.
type AddStockReceiptRequest struct {
	Date           string `json:"date" binding:"required"`
	ProductCode    string `json:"productCode" binding:"required"`
	ProductDetails string `json:"productDetails"`
	Quantity       int    `json:"quantity" binding:"required,gt=0"`
}

// SetUnitCostRequest sets the unit cost override for a receipt.
type SetUnitCostRequest struct {
	UnitCost types.Money `json:"unitCost"`
}

// SaleLineRequest is one product line on a sale request.
type SaleLineRequest struct {
	ProductCode string `json:"productCode" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
}

// SaleRequest creates or updates a sale order.
type SaleRequest struct {
	Date         string            `json:"date" binding:"required"`
	Status       string            `json:"status" binding:"required"`
	CustomerName string            `json:"customerName"`
	Phone        string            `json:"phone"`
	Address      string            `json:"address"`
	Products     []SaleLineRequest `json:"products" binding:"required,min=1,dive"`
}

// ToSale converts the request into a domain sale.
func (r *SaleRequest) ToSale() records.Sale {
	lines := make([]records.SaleLine, 0, len(r.Products))
	for _, p := range r.Products {
		lines = append(lines, records.SaleLine{
			ProductCode: p.ProductCode,
			Quantity:    p.Quantity,
		})
	}
	return records.Sale{
		Date:         r.Date,
		Status:       records.SaleStatus(r.Status),
		CustomerName: r.CustomerName,
		Phone:        r.Phone,
		Address:      r.Address,
		Products:     lines,
	}
}
