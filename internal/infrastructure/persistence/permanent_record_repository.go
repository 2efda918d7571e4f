package persistence

import (
	"context"

	"github.com/raas/backend/internal/domain/energy"
	"github.com/raas/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPermanentRecordRepository implements energy.PermanentRecordRepository using GORM
type GormPermanentRecordRepository struct {
	db        *gorm.DB
	batchSize int
}

// NewGormPermanentRecordRepository creates a new GormPermanentRecordRepository
func NewGormPermanentRecordRepository(db *gorm.DB, batchSize int) *GormPermanentRecordRepository {
	if batchSize <= 0 {
		batchSize = DefaultInsertBatchSize
	}
	return &GormPermanentRecordRepository{db: db, batchSize: batchSize}
}

// CreateSkipDuplicates appends history records, skipping (installation, period) collisions
func (r *GormPermanentRecordRepository) CreateSkipDuplicates(ctx context.Context, records []*energy.PermanentEnergyRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	recordModels := make([]*models.PermanentRecordModel, len(records))
	for i, rec := range records {
		recordModels[i] = models.PermanentRecordModelFromDomain(rec)
	}

	result := r.db.WithContext(ctx).
		Clauses(skipInstallationPeriodConflicts).
		CreateInBatches(recordModels, r.batchSize)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// FindByInstallationNumber returns the history of one installation, newest period first.
// Periods are stored as MM/YYYY, so ordering is done on the year and month parts.
func (r *GormPermanentRecordRepository) FindByInstallationNumber(
	ctx context.Context,
	number string,
	limit int,
) ([]*energy.PermanentEnergyRecord, error) {
	query := r.db.WithContext(ctx).
		Where("installation_number = ?", number).
		Order("SUBSTR(period, 4, 4) DESC").
		Order("SUBSTR(period, 1, 2) DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var recordModels []models.PermanentRecordModel
	if err := query.Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]*energy.PermanentEnergyRecord, len(recordModels))
	for i := range recordModels {
		records[i] = recordModels[i].ToDomain()
	}
	return records, nil
}

// Ensure GormPermanentRecordRepository implements energy.PermanentRecordRepository
var _ energy.PermanentRecordRepository = (*GormPermanentRecordRepository)(nil)
