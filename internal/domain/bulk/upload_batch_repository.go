package bulk

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UploadBatchFilter defines the filters for querying upload batches
type UploadBatchFilter struct {
	DistributorID *uuid.UUID   // Filter by distributor
	Status        *BatchStatus // Filter by status
	UploadedBy    *uuid.UUID   // Filter by uploader
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	SortBy        string // column name; unknown columns fall back to created_at
	SortOrder     string // asc or desc, default desc
}

// UploadBatchListResult represents a paginated list of upload batches
type UploadBatchListResult struct {
	Items      []*UploadBatch
	TotalCount int64
	Page       int
	PageSize   int
}

// UploadBatchRepository defines the interface for upload batch persistence
type UploadBatchRepository interface {
	// FindByID finds a batch by ID, returning shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*UploadBatch, error)

	// FindAll returns batches with pagination and filtering, newest first
	FindAll(ctx context.Context, filter UploadBatchFilter, page, pageSize int) (*UploadBatchListResult, error)

	// Save saves a batch (create or update)
	Save(ctx context.Context, batch *UploadBatch) error
}
