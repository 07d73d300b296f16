package dto

import (
	"stockledger/internal/domain/pipeline"
	"stockledger/internal/domain/pricing"
	"stockledger/internal/domain/profit"
)

// PurchaseReportResponse is the purchase screen payload: the average
// cost table plus per-receipt purchase rows and the grand total.
type PurchaseReportResponse struct {
	AverageCosts      []pricing.AverageCost  `json:"averageCosts"`
	Lines             []pricing.PurchaseLine `json:"purchaseDetails"`
	TotalPurchaseCost string                 `json:"totalPurchaseCost"`
}

// PurchaseReportFromRun builds the purchase report from a pipeline run.
func PurchaseReportFromRun(res *pipeline.RunResult) PurchaseReportResponse {
	return PurchaseReportResponse{
		AverageCosts:      res.AverageCosts,
		Lines:             res.Purchase.Lines,
		TotalPurchaseCost: res.Purchase.TotalCost.StringFixed(2),
	}
}

// RefreshResponse is the full output of one pipeline run.
type RefreshResponse struct {
	Purchase PurchaseReportResponse `json:"purchase"`
	Profit   profit.Result          `json:"monthlyProfit"`
}

// HistoryResponse lists monthly profit snapshots, newest first.
type HistoryResponse struct {
	Snapshots []profit.Snapshot `json:"snapshots"`
}
