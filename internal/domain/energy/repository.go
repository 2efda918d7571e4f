package energy

import (
	"context"

	"github.com/google/uuid"
)

// DistributorRepository loads distributors
type DistributorRepository interface {
	// FindByID returns shared.ErrNotFound when the distributor does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*Distributor, error)
}

// InstallationRepository resolves installations for ingestion and billing
type InstallationRepository interface {
	// FindIDsByNumbers maps the given installation numbers of one distributor to ids.
	// Numbers without a registered installation are absent from the result.
	FindIDsByNumbers(ctx context.Context, distributorID uuid.UUID, numbers []string) (map[string]uuid.UUID, error)

	// FindByIDsWithDetails loads installations with distributor and owner in one query
	FindByIDsWithDetails(ctx context.Context, ids []uuid.UUID) ([]*Installation, error)

	// FindByDistributor lists all installations of a distributor with details
	FindByDistributor(ctx context.Context, distributorID uuid.UUID) ([]*Installation, error)

	// FindByNumber returns shared.ErrNotFound when no installation has that number
	FindByNumber(ctx context.Context, number string) (*Installation, error)
}

// BillRecordRepository persists normalized readings
type BillRecordRepository interface {
	// CreateSkipDuplicates inserts records, silently skipping any that collide
	// on (installation, period). Returns the number actually inserted.
	CreateSkipDuplicates(ctx context.Context, records []*BillRecord) (int64, error)

	// FindByInstallationsAndPeriods loads records for the given installations and periods
	FindByInstallationsAndPeriods(ctx context.Context, installationIDs []uuid.UUID, periods []string) ([]*BillRecord, error)

	// CountByBatch counts records written by an upload batch
	CountByBatch(ctx context.Context, batchID uuid.UUID) (int64, error)
}

// PermanentRecordRepository persists the append-only history
type PermanentRecordRepository interface {
	// CreateSkipDuplicates inserts records, skipping (installation, period) collisions
	CreateSkipDuplicates(ctx context.Context, records []*PermanentEnergyRecord) (int64, error)

	// FindByInstallationNumber returns the history of one installation, newest first
	FindByInstallationNumber(ctx context.Context, number string, limit int) ([]*PermanentEnergyRecord, error)
}
