// Package records provides the five raw record collections written by
// external collaborators: expenses, income, stock receipts, unit cost
// overrides, and sales. The aggregation pipeline reads them with full
// scans and never edits them.
package records

import (
	"strings"
	"time"

	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
)

// Expense is a raw expense record.
type Expense struct {
	ID        id.ID       `db:"id" json:"id"`
	Date      string      `db:"date" json:"date"`
	Amount    types.Money `db:"amount" json:"amount"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
}

// Income is a raw income record.
type Income struct {
	ID        id.ID       `db:"id" json:"id"`
	Date      string      `db:"date" json:"date"`
	Amount    types.Money `db:"amount" json:"amount"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
}

// StockReceipt is a raw stock-in entry. One receipt may later be
// cost-annotated through a UnitCost keyed by the receipt id.
type StockReceipt struct {
	ID             id.ID     `db:"id" json:"id"`
	Date           string    `db:"date" json:"date"`
	ProductCode    string    `db:"product_code" json:"productCode"`
	ProductDetails string    `db:"product_details" json:"productDetails"`
	Quantity       int       `db:"quantity" json:"quantity"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// UnitCost is a manually entered unit cost for one stock receipt.
//
// The collection is sparse and keyed by receipt id, not product code:
// two receipts of the same product with different entered costs both
// feed the weighted average. A receipt without a UnitCost contributes
// zero cost everywhere.
type UnitCost struct {
	ReceiptID id.ID       `db:"receipt_id" json:"receiptId"`
	UnitCost  types.Money `db:"unit_cost" json:"unitCost"`
	UpdatedAt time.Time   `db:"updated_at" json:"updatedAt"`
}

// SaleStatus is the fulfillment status of a sale order.
type SaleStatus string

const (
	StatusProcessing SaleStatus = "Processing"
	StatusSent       SaleStatus = "Sent"
	StatusDelivered  SaleStatus = "Delivered"
	StatusReturned   SaleStatus = "Returned"
)

// Valid reports whether the status is one of the known values.
func (s SaleStatus) Valid() bool {
	switch s {
	case StatusProcessing, StatusSent, StatusDelivered, StatusReturned:
		return true
	}
	return false
}

// IsDelivered matches case-insensitively; stored statuses come from
// externally written documents.
func (s SaleStatus) IsDelivered() bool {
	return strings.EqualFold(string(s), string(StatusDelivered))
}

// SaleLine is one product line on a sale order.
type SaleLine struct {
	ProductCode string `json:"productCode"`
	Quantity    int    `json:"quantity"`
}

// Sale is a raw sale order.
type Sale struct {
	ID           id.ID      `db:"id" json:"id"`
	Date         string     `db:"date" json:"date"`
	Status       SaleStatus `db:"status" json:"status"`
	CustomerName string     `db:"customer_name" json:"customerName"`
	Phone        string     `db:"phone" json:"phone,omitempty"`
	Address      string     `db:"address" json:"address,omitempty"`
	Products     []SaleLine `db:"products" json:"products"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}
