package dto

import (
	"github.com/raas/backend/internal/domain/billing"
)

// GenerateInvoicesRequest asks for the invoices of one distributor and period
type GenerateInvoicesRequest struct {
	DistributorID string   `json:"distributor_id" binding:"required,uuid"`
	Period        string   `json:"period" binding:"required"`
	CemigRate     *float64 `json:"cemig_rate,omitempty" binding:"omitempty,gt=0"`
	Discount      *float64 `json:"discount,omitempty" binding:"omitempty,gte=0,lt=1"`
}

// RecalculateInvoiceRequest reprices a previously generated invoice
type RecalculateInvoiceRequest struct {
	Invoice    billing.InvoiceData `json:"invoice"`
	CemigRate  *float64            `json:"cemig_rate,omitempty" binding:"omitempty,gt=0"`
	Discount   *float64            `json:"discount,omitempty" binding:"omitempty,gte=0,lt=1"`
	BilledRate *float64            `json:"billed_rate,omitempty" binding:"omitempty,gte=0"`
}

// Override returns the rate change carried by the request
func (r RecalculateInvoiceRequest) Override() billing.RateOverride {
	return billing.RateOverride{
		CemigRate:  r.CemigRate,
		Discount:   r.Discount,
		BilledRate: r.BilledRate,
	}
}

// GenerateInvoicesResponse lists the generated invoices and the installations skipped
type GenerateInvoicesResponse struct {
	Invoices []billing.InvoiceData    `json:"invoices"`
	Skipped  []billing.SkippedInvoice `json:"skipped,omitempty"`
	Count    int                      `json:"count"`
}

// ToGenerateInvoicesResponse converts an engine result
func ToGenerateInvoicesResponse(r *billing.GenerationResult) GenerateInvoicesResponse {
	invoices := r.Invoices
	if invoices == nil {
		invoices = []billing.InvoiceData{}
	}
	return GenerateInvoicesResponse{
		Invoices: invoices,
		Skipped:  r.Skipped,
		Count:    len(invoices),
	}
}
