package energy

import (
	"time"

	"github.com/google/uuid"
)

// Readings holds the numeric columns of one monthly statement line.
// Every value is optional; nil means the cell was blank or unparsable.
type Readings struct {
	Quota                 *float64
	PreviousBalance       *float64
	ExpiredBalance        *float64
	CurrentBalance        *float64
	Consumption           *float64
	Generation            *float64
	Compensation          *float64
	Transferred           *float64
	Received              *float64
	ExpiringBalanceAmount *float64
}

// BillRecord is a normalized reading of one installation for one period.
// (InstallationID, Period) is unique.
type BillRecord struct {
	ID             uuid.UUID
	InstallationID uuid.UUID
	Period         string
	Modality       string
	TariffPost     string
	Readings
	ExpiringBalancePeriod string
	Source                string
	UploadBatchID         *uuid.UUID
	CreatedAt             time.Time
}

// NewBillRecord creates a bill record for a processed upload row
func NewBillRecord(installationID uuid.UUID, period string, readings Readings, batchID uuid.UUID, source string) *BillRecord {
	return &BillRecord{
		ID:             uuid.New(),
		InstallationID: installationID,
		Period:         period,
		Readings:       readings,
		Source:         source,
		UploadBatchID:  &batchID,
		CreatedAt:      time.Now(),
	}
}

// PermanentEnergyRecord is the append-only historical copy of a reading,
// denormalized with installation, distributor and owner facts at ingestion time.
type PermanentEnergyRecord struct {
	ID                    uuid.UUID
	InstallationID        uuid.UUID
	InstallationNumber    string
	InstallationType      InstallationType
	DistributorID         uuid.UUID
	DistributorName       string
	OwnerName             string
	OwnerDocument         string
	Period                string
	Modality              string
	TariffPost            string
	Readings
	ExpiringBalancePeriod string
	RecordSource          string
	CreatedAt             time.Time
}

// RecordSourceForBatch returns the provenance tag for records mirrored from a batch
func RecordSourceForBatch(batchID uuid.UUID) string {
	return "upload_" + batchID.String()
}

// NewPermanentRecord mirrors a bill record using the installation's details
func NewPermanentRecord(rec *BillRecord, inst *Installation, batchID uuid.UUID) *PermanentEnergyRecord {
	return &PermanentEnergyRecord{
		ID:                    uuid.New(),
		InstallationID:        rec.InstallationID,
		InstallationNumber:    inst.Number,
		InstallationType:      inst.Type,
		DistributorID:         inst.DistributorID,
		DistributorName:       inst.DistributorName(),
		OwnerName:             inst.OwnerName(),
		OwnerDocument:         inst.OwnerDocument(),
		Period:                rec.Period,
		Modality:              rec.Modality,
		TariffPost:            rec.TariffPost,
		Readings:              rec.Readings,
		ExpiringBalancePeriod: rec.ExpiringBalancePeriod,
		RecordSource:          RecordSourceForBatch(batchID),
		CreatedAt:             time.Now(),
	}
}
