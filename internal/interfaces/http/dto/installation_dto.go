package dto

import (
	"time"

	"github.com/raas/backend/internal/domain/energy"
)

// HistoryRequest bounds the installation history listing
type HistoryRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=120"`
}

// EnergyRecordResponse is one period of the permanent installation history.
// Readings absent from the source spreadsheet are null.
type EnergyRecordResponse struct {
	InstallationNumber    string    `json:"installation_number"`
	InstallationType      string    `json:"installation_type"`
	DistributorName       string    `json:"distributor_name,omitempty"`
	OwnerName             string    `json:"owner_name,omitempty"`
	Period                string    `json:"period"`
	Modality              string    `json:"modality,omitempty"`
	TariffPost            string    `json:"tariff_post,omitempty"`
	Quota                 *float64  `json:"quota"`
	PreviousBalance       *float64  `json:"previous_balance"`
	ExpiredBalance        *float64  `json:"expired_balance"`
	CurrentBalance        *float64  `json:"current_balance"`
	Consumption           *float64  `json:"consumption"`
	Generation            *float64  `json:"generation"`
	Compensation          *float64  `json:"compensation"`
	Transferred           *float64  `json:"transferred"`
	Received              *float64  `json:"received"`
	ExpiringBalanceAmount *float64  `json:"expiring_balance_amount"`
	ExpiringBalancePeriod string    `json:"expiring_balance_period,omitempty"`
	RecordSource          string    `json:"record_source"`
	CreatedAt             time.Time `json:"created_at"`
}

// ToEnergyRecordResponses converts permanent records, keeping their order
func ToEnergyRecordResponses(records []*energy.PermanentEnergyRecord) []EnergyRecordResponse {
	out := make([]EnergyRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, EnergyRecordResponse{
			InstallationNumber:    r.InstallationNumber,
			InstallationType:      string(r.InstallationType),
			DistributorName:       r.DistributorName,
			OwnerName:             r.OwnerName,
			Period:                r.Period,
			Modality:              r.Modality,
			TariffPost:            r.TariffPost,
			Quota:                 r.Quota,
			PreviousBalance:       r.PreviousBalance,
			ExpiredBalance:        r.ExpiredBalance,
			CurrentBalance:        r.CurrentBalance,
			Consumption:           r.Consumption,
			Generation:            r.Generation,
			Compensation:          r.Compensation,
			Transferred:           r.Transferred,
			Received:              r.Received,
			ExpiringBalanceAmount: r.ExpiringBalanceAmount,
			ExpiringBalancePeriod: r.ExpiringBalancePeriod,
			RecordSource:          r.RecordSource,
			CreatedAt:             r.CreatedAt,
		})
	}
	return out
}
