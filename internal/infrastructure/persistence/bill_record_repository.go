package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/raas/backend/internal/domain/energy"
	"github.com/raas/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultInsertBatchSize is the number of rows per INSERT statement
const DefaultInsertBatchSize = 100

// skipInstallationPeriodConflicts turns a collision on (installation_id, period) into a no-op
var skipInstallationPeriodConflicts = clause.OnConflict{
	Columns:   []clause.Column{{Name: "installation_id"}, {Name: "period"}},
	DoNothing: true,
}

// GormBillRecordRepository implements energy.BillRecordRepository using GORM
type GormBillRecordRepository struct {
	db        *gorm.DB
	batchSize int
}

// NewGormBillRecordRepository creates a new GormBillRecordRepository.
// A non-positive batchSize falls back to DefaultInsertBatchSize.
func NewGormBillRecordRepository(db *gorm.DB, batchSize int) *GormBillRecordRepository {
	if batchSize <= 0 {
		batchSize = DefaultInsertBatchSize
	}
	return &GormBillRecordRepository{db: db, batchSize: batchSize}
}

// CreateSkipDuplicates inserts records in batches and returns how many were actually written
func (r *GormBillRecordRepository) CreateSkipDuplicates(ctx context.Context, records []*energy.BillRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	recordModels := make([]*models.BillRecordModel, len(records))
	for i, rec := range records {
		recordModels[i] = models.BillRecordModelFromDomain(rec)
	}

	result := r.db.WithContext(ctx).
		Clauses(skipInstallationPeriodConflicts).
		CreateInBatches(recordModels, r.batchSize)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// FindByInstallationsAndPeriods loads records for the given installations and periods
func (r *GormBillRecordRepository) FindByInstallationsAndPeriods(
	ctx context.Context,
	installationIDs []uuid.UUID,
	periods []string,
) ([]*energy.BillRecord, error) {
	if len(installationIDs) == 0 || len(periods) == 0 {
		return []*energy.BillRecord{}, nil
	}

	var recordModels []models.BillRecordModel
	if err := r.db.WithContext(ctx).
		Where("installation_id IN ? AND period IN ?", installationIDs, periods).
		Order("period ASC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]*energy.BillRecord, len(recordModels))
	for i := range recordModels {
		records[i] = recordModels[i].ToDomain()
	}
	return records, nil
}

// CountByBatch counts records written by an upload batch
func (r *GormBillRecordRepository) CountByBatch(ctx context.Context, batchID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BillRecordModel{}).
		Where("upload_batch_id = ?", batchID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormBillRecordRepository implements energy.BillRecordRepository
var _ energy.BillRecordRepository = (*GormBillRecordRepository)(nil)
