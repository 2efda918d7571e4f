package billing

import (
	"github.com/shopspring/decimal"
)

// Defaults used when the caller does not provide rates
const (
	DefaultCemigRate      = 0.96
	DefaultDiscount       = 0.20
	DefaultDueDays        = 15
	DefaultHistoryPeriods = 6
)

// CO2Factor is the kg of CO2 avoided per compensated kWh
const CO2Factor = 0.09

// Rates is the tariff triple applied to an invoice
type Rates struct {
	CemigRate  float64 `json:"cemig_rate"`
	Discount   float64 `json:"discount"`
	BilledRate float64 `json:"billed_rate"`
}

// RateOverride is a partial rate change; nil fields keep the current value
type RateOverride struct {
	CemigRate  *float64 `json:"cemig_rate,omitempty"`
	Discount   *float64 `json:"discount,omitempty"`
	BilledRate *float64 `json:"billed_rate,omitempty"`
}

// BilledRate returns cemigRate * (1 - discount)
func BilledRate(cemigRate, discount float64) float64 {
	d := decimal.NewFromFloat(cemigRate).Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(discount)))
	return d.InexactFloat64()
}

// NewRates builds a rate triple with the billed rate derived
func NewRates(cemigRate, discount float64) Rates {
	return Rates{
		CemigRate:  cemigRate,
		Discount:   discount,
		BilledRate: BilledRate(cemigRate, discount),
	}
}

// calculate fills the monetary amounts of c from its totals
func calculate(c Calculation, r Rates) Calculation {
	consumption := decimal.NewFromFloat(c.TotalConsumption)
	compensation := decimal.NewFromFloat(c.TotalCompensation)
	cemig := decimal.NewFromFloat(r.CemigRate)
	billed := decimal.NewFromFloat(r.BilledRate)

	original := consumption.Mul(cemig)
	final := consumption.Sub(compensation).Mul(billed)

	c.OriginalAmount = original.InexactFloat64()
	c.CompensatedAmount = compensation.Mul(cemig).InexactFloat64()
	c.FinalAmount = final.InexactFloat64()
	c.SavedAmount = original.Sub(final).InexactFloat64()
	c.CO2Avoided = compensation.Mul(decimal.NewFromFloat(CO2Factor)).InexactFloat64()
	return c
}

func lineAmount(consumption, billedRate float64) float64 {
	return decimal.NewFromFloat(consumption).Mul(decimal.NewFromFloat(billedRate)).InexactFloat64()
}

func sum(a, b float64) float64 {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).InexactFloat64()
}
