package billing

// Recalculate returns a copy of inv priced with the override applied.
// Totals are taken from the stored calculation, not re-summed, and every
// technical line amount is rewritten with the new billed rate.
func Recalculate(inv InvoiceData, override RateOverride) InvoiceData {
	out := inv.clone()

	rates := inv.Rates
	if override.CemigRate != nil {
		rates.CemigRate = *override.CemigRate
	}
	if override.Discount != nil {
		rates.Discount = *override.Discount
	}
	if override.BilledRate != nil {
		rates.BilledRate = *override.BilledRate
	} else {
		rates.BilledRate = BilledRate(rates.CemigRate, rates.Discount)
	}

	out.Rates = rates
	out.Calculation = calculate(inv.Calculation, rates)
	for i := range out.TechnicalInfo {
		out.TechnicalInfo[i].Amount = lineAmount(out.TechnicalInfo[i].Consumption, rates.BilledRate)
	}
	return out
}
