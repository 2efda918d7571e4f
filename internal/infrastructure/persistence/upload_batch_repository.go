package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/raas/backend/internal/domain/bulk"
	"github.com/raas/backend/internal/domain/shared"
	"github.com/raas/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUploadBatchRepository implements bulk.UploadBatchRepository using GORM
type GormUploadBatchRepository struct {
	db *gorm.DB
}

// NewGormUploadBatchRepository creates a new GormUploadBatchRepository
func NewGormUploadBatchRepository(db *gorm.DB) *GormUploadBatchRepository {
	return &GormUploadBatchRepository{db: db}
}

// FindByID finds an upload batch by ID
func (r *GormUploadBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*bulk.UploadBatch, error) {
	var model models.UploadBatchModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns upload batches with pagination and filtering, most recent first
// unless the filter asks for another order
func (r *GormUploadBatchRepository) FindAll(
	ctx context.Context,
	filter bulk.UploadBatchFilter,
	page, pageSize int,
) (*bulk.UploadBatchListResult, error) {
	page, pageSize = shared.NormalizePage(page, pageSize)

	query := r.applyFilters(r.db.WithContext(ctx).Model(&models.UploadBatchModel{}), filter)

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, err
	}

	sortBy := ValidateSortField(filter.SortBy, UploadBatchSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.SortOrder)

	var batchModels []models.UploadBatchModel
	if err := query.
		Order(sortBy + " " + sortOrder).
		Order("id " + sortOrder).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&batchModels).Error; err != nil {
		return nil, err
	}

	batches := make([]*bulk.UploadBatch, len(batchModels))
	for i := range batchModels {
		batches[i] = batchModels[i].ToDomain()
	}

	return &bulk.UploadBatchListResult{
		Items:      batches,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// Save saves an upload batch (create or update)
func (r *GormUploadBatchRepository) Save(ctx context.Context, batch *bulk.UploadBatch) error {
	model := models.UploadBatchModelFromDomain(batch)
	return r.db.WithContext(ctx).Save(model).Error
}

// applyFilters applies filter conditions to the query
func (r *GormUploadBatchRepository) applyFilters(query *gorm.DB, filter bulk.UploadBatchFilter) *gorm.DB {
	if filter.DistributorID != nil {
		query = query.Where("distributor_id = ?", *filter.DistributorID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.UploadedBy != nil {
		query = query.Where("uploaded_by = ?", *filter.UploadedBy)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}
	return query
}

// Ensure GormUploadBatchRepository implements bulk.UploadBatchRepository
var _ bulk.UploadBatchRepository = (*GormUploadBatchRepository)(nil)
