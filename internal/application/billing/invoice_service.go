package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/raas/backend/internal/domain/billing"
	"github.com/raas/backend/internal/domain/energy"
	"github.com/raas/backend/internal/domain/shared"
	"github.com/raas/backend/internal/infrastructure/logger"
	"github.com/raas/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrInvalidRates is returned for a tariff or discount outside its range
var ErrInvalidRates = shared.NewDomainError("INVALID_RATES", "Tarifa deve ser positiva e desconto entre 0 e 1")

// GenerateRequest asks for the invoices of one distributor and period
type GenerateRequest struct {
	DistributorID uuid.UUID
	Period        string
	CemigRate     *float64
	Discount      *float64
}

// InvoiceService loads persisted readings and runs the invoice engine
type InvoiceService struct {
	installations energy.InstallationRepository
	bills         energy.BillRecordRepository
	generator     *billing.Generator
	metrics       *telemetry.BusinessMetrics
	logger        *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	installations energy.InstallationRepository,
	bills energy.BillRecordRepository,
	generator *billing.Generator,
	metrics *telemetry.BusinessMetrics,
	l *zap.Logger,
) *InvoiceService {
	if l == nil {
		l = zap.NewNop()
	}
	if generator == nil {
		generator = billing.NewGenerator(billing.DefaultGeneratorConfig(), l)
	}
	return &InvoiceService{
		installations: installations,
		bills:         bills,
		generator:     generator,
		metrics:       metrics,
		logger:        l,
	}
}

// Generate builds the invoices of every consumer installation of the
// distributor for the requested period. Readings of the preceding periods
// are loaded as well so the invoice history reflects real data.
func (s *InvoiceService) Generate(ctx context.Context, req GenerateRequest) (*billing.GenerationResult, error) {
	if req.DistributorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DISTRIBUTOR", "Distribuidora é obrigatória")
	}
	period, err := energy.ParsePeriod(req.Period)
	if err != nil {
		return nil, err
	}
	if err := validateRates(req.CemigRate, req.Discount, nil); err != nil {
		return nil, err
	}

	log := logger.For(ctx, s.logger).With(
		zap.String("distributor_id", req.DistributorID.String()),
		zap.String("period", period.String()))

	installations, err := s.installations.FindByDistributor(ctx, req.DistributorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load installations: %w", err)
	}
	if len(installations) == 0 {
		log.Info("No installations for distributor")
		return &billing.GenerationResult{}, nil
	}

	byID := make(map[uuid.UUID]*energy.Installation, len(installations))
	ids := make([]uuid.UUID, 0, len(installations))
	for _, inst := range installations {
		byID[inst.ID] = inst
		ids = append(ids, inst.ID)
	}

	periods := make([]string, 0, s.generator.Config().HistoryPeriods+1)
	for _, p := range period.Preceding(s.generator.Config().HistoryPeriods) {
		periods = append(periods, p.String())
	}
	periods = append(periods, period.String())

	bills, err := s.bills.FindByInstallationsAndPeriods(ctx, ids, periods)
	if err != nil {
		return nil, fmt.Errorf("failed to load bill records: %w", err)
	}

	records := make([]billing.EnergyRecord, 0, len(bills))
	for _, rec := range bills {
		inst, ok := byID[rec.InstallationID]
		if !ok {
			continue
		}
		records = append(records, billing.FromBillRecord(rec, inst))
	}

	result := s.generator.Generate(records, installations, billing.GenerateOptions{
		CemigRate: req.CemigRate,
		Discount:  req.Discount,
		Periods:   []string{period.String()},
	})
	s.metrics.RecordInvoicesGenerated(ctx, len(result.Invoices))

	log.Info("Invoice generation finished",
		zap.Int("installations", len(installations)),
		zap.Int("records", len(records)),
		zap.Int("invoices", len(result.Invoices)),
		zap.Int("skipped", len(result.Skipped)))
	return result, nil
}

// Recalculate reprices an invoice with new rates
func (s *InvoiceService) Recalculate(ctx context.Context, inv billing.InvoiceData, override billing.RateOverride) (billing.InvoiceData, error) {
	if err := validateRates(override.CemigRate, override.Discount, override.BilledRate); err != nil {
		return billing.InvoiceData{}, err
	}
	out := billing.Recalculate(inv, override)
	logger.For(ctx, s.logger).Debug("Invoice recalculated",
		zap.String("invoice_id", inv.ID.String()),
		zap.Float64("billed_rate", out.Rates.BilledRate),
		zap.Float64("final_amount", out.Calculation.FinalAmount))
	return out, nil
}

func validateRates(cemigRate, discount, billedRate *float64) error {
	if cemigRate != nil && *cemigRate <= 0 {
		return ErrInvalidRates
	}
	if discount != nil && (*discount < 0 || *discount >= 1) {
		return ErrInvalidRates
	}
	if billedRate != nil && *billedRate < 0 {
		return ErrInvalidRates
	}
	return nil
}
