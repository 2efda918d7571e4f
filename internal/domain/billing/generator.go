package billing

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/raas/backend/internal/domain/energy"
	"go.uber.org/zap"
)

// GeneratorConfig holds engine defaults
type GeneratorConfig struct {
	CemigRate      float64
	Discount       float64
	DueDays        int
	HistoryPeriods int
}

// DefaultGeneratorConfig returns the engine defaults
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		CemigRate:      DefaultCemigRate,
		Discount:       DefaultDiscount,
		DueDays:        DefaultDueDays,
		HistoryPeriods: DefaultHistoryPeriods,
	}
}

// GenerateOptions tunes a single Generate call
type GenerateOptions struct {
	// CemigRate and Discount override the configured defaults when set
	CemigRate *float64
	Discount  *float64

	// Periods restricts which periods are invoiced. Records of other periods
	// still feed the history. Empty means every period present.
	Periods []string
}

// SkippedInvoice explains why an installation was left out of a period
type SkippedInvoice struct {
	InstallationNumber string `json:"installation_number"`
	Period             string `json:"period"`
	Reason             string `json:"reason"`
}

// GenerationResult is the output of one Generate call
type GenerationResult struct {
	Invoices []InvoiceData
	Skipped  []SkippedInvoice
}

// Generator builds invoices from readings
type Generator struct {
	config GeneratorConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewGenerator creates a new invoice generator
func NewGenerator(config GeneratorConfig, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := DefaultGeneratorConfig()
	if config.CemigRate <= 0 {
		config.CemigRate = defaults.CemigRate
	}
	if config.Discount < 0 || config.Discount >= 1 {
		config.Discount = defaults.Discount
	}
	if config.DueDays <= 0 {
		config.DueDays = defaults.DueDays
	}
	if config.HistoryPeriods < 0 {
		config.HistoryPeriods = defaults.HistoryPeriods
	}
	return &Generator{config: config, logger: logger, now: time.Now}
}

// Config returns the effective configuration
func (g *Generator) Config() GeneratorConfig {
	return g.config
}

type periodKey struct {
	installation string
	period       string
}

// Generate builds one invoice per consumer installation per period.
// Generators and readings for unknown installations are never invoiced.
func (g *Generator) Generate(records []EnergyRecord, installations []*energy.Installation, opts GenerateOptions) *GenerationResult {
	rates := g.rates(opts)

	byNumber := make(map[string]*energy.Installation, len(installations))
	for _, inst := range installations {
		if inst != nil {
			byNumber[inst.Number] = inst
		}
	}

	grouped := make(map[periodKey][]EnergyRecord)
	periodNumbers := make(map[string][]string)
	for _, rec := range records {
		period := canonicalPeriod(rec.Period)
		key := periodKey{installation: rec.InstallationNumber, period: period}
		if _, seen := grouped[key]; !seen {
			periodNumbers[period] = append(periodNumbers[period], rec.InstallationNumber)
		}
		grouped[key] = append(grouped[key], rec)
	}

	wanted := make(map[string]bool, len(opts.Periods))
	for _, p := range opts.Periods {
		wanted[canonicalPeriod(p)] = true
	}

	result := &GenerationResult{}
	for period, numbers := range periodNumbers {
		if len(wanted) > 0 && !wanted[period] {
			continue
		}
		parsed, err := energy.ParsePeriod(period)
		if err != nil {
			g.logger.Warn("Skipping invoices for invalid period", zap.String("period", period))
			for _, number := range numbers {
				result.Skipped = append(result.Skipped, SkippedInvoice{InstallationNumber: number, Period: period, Reason: "período inválido"})
			}
			continue
		}

		for _, number := range numbers {
			inst, ok := byNumber[number]
			if !ok {
				g.logger.Debug("Skipping reading for unknown installation",
					zap.String("installation", number), zap.String("period", period))
				result.Skipped = append(result.Skipped, SkippedInvoice{InstallationNumber: number, Period: period, Reason: "instalação desconhecida"})
				continue
			}
			if !inst.IsConsumer() {
				continue
			}
			inv := g.buildInvoice(inst, parsed, grouped[periodKey{installation: number, period: period}], rates)
			inv.History = g.history(grouped, number, parsed)
			result.Invoices = append(result.Invoices, inv)
		}
	}

	sort.Slice(result.Invoices, func(i, j int) bool {
		a, b := result.Invoices[i], result.Invoices[j]
		if a.Period != b.Period {
			pa, _ := energy.ParsePeriod(a.Period)
			pb, _ := energy.ParsePeriod(b.Period)
			return pa.Before(pb)
		}
		return a.InstallationNumber < b.InstallationNumber
	})

	g.logger.Info("Invoices generated",
		zap.Int("invoices", len(result.Invoices)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Float64("cemig_rate", rates.CemigRate),
		zap.Float64("discount", rates.Discount))
	return result
}

func (g *Generator) rates(opts GenerateOptions) Rates {
	cemig, discount := g.config.CemigRate, g.config.Discount
	if opts.CemigRate != nil {
		cemig = *opts.CemigRate
	}
	if opts.Discount != nil {
		discount = *opts.Discount
	}
	return NewRates(cemig, discount)
}

func (g *Generator) buildInvoice(inst *energy.Installation, period energy.Period, recs []EnergyRecord, rates Rates) InvoiceData {
	var calc Calculation
	lines := make([]TechnicalInfo, 0, len(recs))
	for _, rec := range recs {
		calc.TotalConsumption = sum(calc.TotalConsumption, rec.Consumption)
		calc.TotalCompensation = sum(calc.TotalCompensation, rec.Compensation)
		calc.TotalReceived = sum(calc.TotalReceived, rec.Received)
		lines = append(lines, TechnicalInfo{
			InstallationNumber: rec.InstallationNumber,
			Period:             rec.Period,
			Modality:           rec.Modality,
			TariffPost:         rec.TariffPost,
			Consumption:        rec.Consumption,
			Compensation:       rec.Compensation,
			Received:           rec.Received,
			CurrentBalance:     rec.CurrentBalance,
			Amount:             lineAmount(rec.Consumption, rates.BilledRate),
		})
	}

	customer := Customer{ID: inst.OwnerID}
	if inst.Owner != nil {
		customer.Name = inst.Owner.Name
		customer.Document = inst.Owner.Document
	}

	return InvoiceData{
		ID:                 uuid.New(),
		Period:             period.String(),
		PeriodStart:        period.Start(),
		PeriodEnd:          period.End(),
		DueDate:            period.End().AddDate(0, 0, g.config.DueDays),
		InstallationID:     inst.ID,
		InstallationNumber: inst.Number,
		DistributorName:    inst.DistributorName(),
		Customer:           customer,
		Rates:              rates,
		TechnicalInfo:      lines,
		Calculation:        calculate(calc, rates),
		Status:             InvoiceStatusPending,
		GeneratedAt:        g.now(),
	}
}

// history returns the preceding periods of one installation, oldest first,
// zero-filled where no reading exists.
func (g *Generator) history(grouped map[periodKey][]EnergyRecord, number string, period energy.Period) []HistoryEntry {
	prior := period.Preceding(g.config.HistoryPeriods)
	out := make([]HistoryEntry, 0, len(prior))
	for _, p := range prior {
		entry := HistoryEntry{Period: p.String()}
		for _, rec := range grouped[periodKey{installation: number, period: p.String()}] {
			entry.Consumption = sum(entry.Consumption, rec.Consumption)
			entry.Compensation = sum(entry.Compensation, rec.Compensation)
			entry.Generation = sum(entry.Generation, rec.Generation)
		}
		out = append(out, entry)
	}
	return out
}

func canonicalPeriod(s string) string {
	if p, err := energy.ParsePeriod(s); err == nil {
		return p.String()
	}
	return s
}
