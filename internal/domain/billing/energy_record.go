package billing

import (
	"github.com/raas/backend/internal/domain/energy"
)

// EnergyRecord is the engine's view of one reading
type EnergyRecord struct {
	InstallationNumber string
	InstallationType   energy.InstallationType
	Period             string
	Modality           string
	TariffPost         string
	Quota              float64
	Consumption        float64
	Generation         float64
	Compensation       float64
	Received           float64
	CurrentBalance     float64
}

// FromBillRecord projects a persisted reading, treating missing values as zero
func FromBillRecord(rec *energy.BillRecord, inst *energy.Installation) EnergyRecord {
	return EnergyRecord{
		InstallationNumber: inst.Number,
		InstallationType:   inst.Type,
		Period:             rec.Period,
		Modality:           rec.Modality,
		TariffPost:         rec.TariffPost,
		Quota:              value(rec.Quota),
		Consumption:        value(rec.Consumption),
		Generation:         value(rec.Generation),
		Compensation:       value(rec.Compensation),
		Received:           value(rec.Received),
		CurrentBalance:     value(rec.CurrentBalance),
	}
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
