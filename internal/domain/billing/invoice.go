package billing

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceStatus is the status of a generated invoice
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
)

// TechnicalInfo is one invoice line, built from a single underlying reading
type TechnicalInfo struct {
	InstallationNumber string  `json:"installation_number"`
	Period             string  `json:"period"`
	Modality           string  `json:"modality,omitempty"`
	TariffPost         string  `json:"tariff_post,omitempty"`
	Consumption        float64 `json:"consumption"`
	Compensation       float64 `json:"compensation"`
	Received           float64 `json:"received"`
	CurrentBalance     float64 `json:"current_balance"`
	Amount             float64 `json:"amount"`
}

// HistoryEntry summarizes one preceding period of the same installation
type HistoryEntry struct {
	Period       string  `json:"period"`
	Consumption  float64 `json:"consumption"`
	Compensation float64 `json:"compensation"`
	Generation   float64 `json:"generation"`
}

// Calculation holds the invoice totals and monetary amounts
type Calculation struct {
	TotalConsumption  float64 `json:"total_consumption"`
	TotalCompensation float64 `json:"total_compensation"`
	TotalReceived     float64 `json:"total_received"`
	OriginalAmount    float64 `json:"original_amount"`
	CompensatedAmount float64 `json:"compensated_amount"`
	FinalAmount       float64 `json:"final_amount"`
	SavedAmount       float64 `json:"saved_amount"`
	CO2Avoided        float64 `json:"co2_avoided"`
}

// Customer identifies who an invoice is addressed to
type Customer struct {
	ID       *uuid.UUID `json:"id,omitempty"`
	Name     string     `json:"name"`
	Document string     `json:"document,omitempty"`
}

// InvoiceData is a derived invoice for one consumer installation and period
type InvoiceData struct {
	ID                 uuid.UUID       `json:"id"`
	Period             string          `json:"period"`
	PeriodStart        time.Time       `json:"period_start"`
	PeriodEnd          time.Time       `json:"period_end"`
	DueDate            time.Time       `json:"due_date"`
	InstallationID     uuid.UUID       `json:"installation_id"`
	InstallationNumber string          `json:"installation_number"`
	DistributorName    string          `json:"distributor_name,omitempty"`
	Customer           Customer        `json:"customer"`
	Rates              Rates           `json:"rates"`
	TechnicalInfo      []TechnicalInfo `json:"technical_info"`
	History            []HistoryEntry  `json:"history"`
	Calculation        Calculation     `json:"calculation"`
	Status             InvoiceStatus   `json:"status"`
	GeneratedAt        time.Time       `json:"generated_at"`
}

// clone returns a copy that shares no slices with inv
func (inv InvoiceData) clone() InvoiceData {
	out := inv
	out.TechnicalInfo = append([]TechnicalInfo(nil), inv.TechnicalInfo...)
	out.History = append([]HistoryEntry(nil), inv.History...)
	if inv.Customer.ID != nil {
		id := *inv.Customer.ID
		out.Customer.ID = &id
	}
	return out
}
