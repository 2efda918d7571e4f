package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appbilling "github.com/raas/backend/internal/application/billing"
	"github.com/raas/backend/internal/domain/billing"
	"github.com/raas/backend/internal/interfaces/http/dto"
)

// InvoiceService is the billing surface used by InvoiceHandler
type InvoiceService interface {
	Generate(ctx context.Context, req appbilling.GenerateRequest) (*billing.GenerationResult, error)
	Recalculate(ctx context.Context, inv billing.InvoiceData, override billing.RateOverride) (billing.InvoiceData, error)
}

// InvoiceHandler exposes invoice generation and repricing
type InvoiceHandler struct {
	BaseHandler
	invoices InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoices InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// Generate builds the invoices of a distributor for one period
func (h *InvoiceHandler) Generate(c *gin.Context) {
	var req dto.GenerateInvoicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.invoices.Generate(c.Request.Context(), appbilling.GenerateRequest{
		DistributorID: uuid.MustParse(req.DistributorID),
		Period:        req.Period,
		CemigRate:     req.CemigRate,
		Discount:      req.Discount,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToGenerateInvoicesResponse(result))
}

// Recalculate reprices an invoice the client already holds
func (h *InvoiceHandler) Recalculate(c *gin.Context) {
	var req dto.RecalculateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	inv, err := h.invoices.Recalculate(c.Request.Context(), req.Invoice, req.Override())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}
