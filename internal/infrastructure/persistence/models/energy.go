package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/raas/backend/internal/domain/energy"
)

// ReadingColumns are the numeric statement columns shared by both record tables
type ReadingColumns struct {
	Quota                 *float64 `gorm:"type:numeric(18,4)"`
	PreviousBalance       *float64 `gorm:"type:numeric(18,4)"`
	ExpiredBalance        *float64 `gorm:"type:numeric(18,4)"`
	CurrentBalance        *float64 `gorm:"type:numeric(18,4)"`
	Consumption           *float64 `gorm:"type:numeric(18,4)"`
	Generation            *float64 `gorm:"type:numeric(18,4)"`
	Compensation          *float64 `gorm:"type:numeric(18,4)"`
	Transferred           *float64 `gorm:"type:numeric(18,4)"`
	Received              *float64 `gorm:"type:numeric(18,4)"`
	ExpiringBalanceAmount *float64 `gorm:"type:numeric(18,4)"`
}

func readingColumnsFromDomain(r energy.Readings) ReadingColumns {
	return ReadingColumns{
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
	}
}

func (c ReadingColumns) toDomain() energy.Readings {
	return energy.Readings{
		Quota:                 c.Quota,
		PreviousBalance:       c.PreviousBalance,
		ExpiredBalance:        c.ExpiredBalance,
		CurrentBalance:        c.CurrentBalance,
		Consumption:           c.Consumption,
		Generation:            c.Generation,
		Compensation:          c.Compensation,
		Transferred:           c.Transferred,
		Received:              c.Received,
		ExpiringBalanceAmount: c.ExpiringBalanceAmount,
	}
}

// BillRecordModel is the persistence model for a monthly reading
type BillRecordModel struct {
	ID                    uuid.UUID      `gorm:"type:uuid;primary_key"`
	InstallationID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_bill_records_installation_period,priority:1"`
	Period                string         `gorm:"type:varchar(7);not null;uniqueIndex:idx_bill_records_installation_period,priority:2"`
	Modality              string         `gorm:"type:varchar(100)"`
	TariffPost            string         `gorm:"type:varchar(100)"`
	ReadingColumns        ReadingColumns `gorm:"embedded"`
	ExpiringBalancePeriod string         `gorm:"type:varchar(20)"`
	Source                string         `gorm:"type:varchar(50);not null"`
	UploadBatchID         *uuid.UUID     `gorm:"type:uuid;index"`
	CreatedAt             time.Time      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BillRecordModel) TableName() string {
	return "bill_records"
}

// ToDomain converts the persistence model to a domain BillRecord
func (m *BillRecordModel) ToDomain() *energy.BillRecord {
	return &energy.BillRecord{
		ID:                    m.ID,
		InstallationID:        m.InstallationID,
		Period:                m.Period,
		Modality:              m.Modality,
		TariffPost:            m.TariffPost,
		Readings:              m.ReadingColumns.toDomain(),
		ExpiringBalancePeriod: m.ExpiringBalancePeriod,
		Source:                m.Source,
		UploadBatchID:         m.UploadBatchID,
		CreatedAt:             m.CreatedAt,
	}
}

// BillRecordModelFromDomain creates a new persistence model from a domain BillRecord
func BillRecordModelFromDomain(r *energy.BillRecord) *BillRecordModel {
	return &BillRecordModel{
		ID:                    r.ID,
		InstallationID:        r.InstallationID,
		Period:                r.Period,
		Modality:              r.Modality,
		TariffPost:            r.TariffPost,
		ReadingColumns:        readingColumnsFromDomain(r.Readings),
		ExpiringBalancePeriod: r.ExpiringBalancePeriod,
		Source:                r.Source,
		UploadBatchID:         r.UploadBatchID,
		CreatedAt:             r.CreatedAt,
	}
}

// PermanentRecordModel is the persistence model for the append-only energy history
type PermanentRecordModel struct {
	ID                    uuid.UUID               `gorm:"type:uuid;primary_key"`
	InstallationID        uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_permanent_records_installation_period,priority:1"`
	InstallationNumber    string                  `gorm:"type:varchar(50);not null;index"`
	InstallationType      energy.InstallationType `gorm:"type:varchar(20)"`
	DistributorID         uuid.UUID               `gorm:"type:uuid;not null;index"`
	DistributorName       string                  `gorm:"type:varchar(200)"`
	OwnerName             string                  `gorm:"type:varchar(200)"`
	OwnerDocument         string                  `gorm:"type:varchar(20)"`
	Period                string                  `gorm:"type:varchar(7);not null;uniqueIndex:idx_permanent_records_installation_period,priority:2"`
	Modality              string                  `gorm:"type:varchar(100)"`
	TariffPost            string                  `gorm:"type:varchar(100)"`
	ReadingColumns        ReadingColumns          `gorm:"embedded"`
	ExpiringBalancePeriod string                  `gorm:"type:varchar(20)"`
	RecordSource          string                  `gorm:"type:varchar(60);not null"`
	CreatedAt             time.Time               `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PermanentRecordModel) TableName() string {
	return "permanent_energy_records"
}

// ToDomain converts the persistence model to a domain PermanentEnergyRecord
func (m *PermanentRecordModel) ToDomain() *energy.PermanentEnergyRecord {
	return &energy.PermanentEnergyRecord{
		ID:                    m.ID,
		InstallationID:        m.InstallationID,
		InstallationNumber:    m.InstallationNumber,
		InstallationType:      m.InstallationType,
		DistributorID:         m.DistributorID,
		DistributorName:       m.DistributorName,
		OwnerName:             m.OwnerName,
		OwnerDocument:         m.OwnerDocument,
		Period:                m.Period,
		Modality:              m.Modality,
		TariffPost:            m.TariffPost,
		Readings:              m.ReadingColumns.toDomain(),
		ExpiringBalancePeriod: m.ExpiringBalancePeriod,
		RecordSource:          m.RecordSource,
		CreatedAt:             m.CreatedAt,
	}
}

// PermanentRecordModelFromDomain creates a new persistence model from a domain PermanentEnergyRecord
func PermanentRecordModelFromDomain(r *energy.PermanentEnergyRecord) *PermanentRecordModel {
	return &PermanentRecordModel{
		ID:                    r.ID,
		InstallationID:        r.InstallationID,
		InstallationNumber:    r.InstallationNumber,
		InstallationType:      r.InstallationType,
		DistributorID:         r.DistributorID,
		DistributorName:       r.DistributorName,
		OwnerName:             r.OwnerName,
		OwnerDocument:         r.OwnerDocument,
		Period:                r.Period,
		Modality:              r.Modality,
		TariffPost:            r.TariffPost,
		ReadingColumns:        readingColumnsFromDomain(r.Readings),
		ExpiringBalancePeriod: r.ExpiringBalancePeriod,
		RecordSource:          r.RecordSource,
		CreatedAt:             r.CreatedAt,
	}
}
