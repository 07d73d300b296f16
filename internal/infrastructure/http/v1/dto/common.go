// Package dto provides Data Transfer Objects for API requests/responses.
package dto

// IDResponse returns the id of a created document.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse confirms an operation without a payload.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ListResponse wraps full-scan list results.
type ListResponse struct {
	Items      any `json:"items"`
	TotalCount int `json:"totalCount"`
}
