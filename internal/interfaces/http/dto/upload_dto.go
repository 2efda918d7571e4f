package dto

import (
	"time"

	"github.com/raas/backend/internal/domain/bulk"
)

// UploadBatchResponse is the batch descriptor returned by the upload endpoints
type UploadBatchResponse struct {
	ID             string             `json:"id"`
	FileName       string             `json:"file_name"`
	FileSize       int64              `json:"file_size"`
	DistributorID  string             `json:"distributor_id"`
	Status         string             `json:"status"`
	TotalCount     int                `json:"total_count"`
	ProcessedCount int                `json:"processed_count"`
	ErrorCount     int                `json:"error_count"`
	NotFoundCount  int                `json:"not_found_count"`
	DuplicateCount int                `json:"duplicate_count"`
	ProcessingType string             `json:"processing_type"`
	UploadedBy     string             `json:"uploaded_by,omitempty"`
	ErrorDetails   *bulk.ErrorDetails `json:"error_details,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty"`
}

// UploadResponse wraps the batch with the outcome of the request
type UploadResponse struct {
	Batch      UploadBatchResponse `json:"batch"`
	Outcome    string              `json:"outcome"`
	Warnings   []string            `json:"warnings,omitempty"`
	ArchiveKey string              `json:"archive_key,omitempty"`
}

// UploadForm is the multipart form of an upload; the file part is read separately
type UploadForm struct {
	DistributorID string `form:"distributor_id" binding:"required,uuid"`
}

// ListUploadBatchesRequest holds the filters of the batch listing
type ListUploadBatchesRequest struct {
	ListRequest
	DistributorID string `form:"distributor_id" binding:"omitempty,uuid"`
	Status        string `form:"status" binding:"omitempty,oneof=processing success failed"`
	SortBy        string `form:"sort_by" binding:"omitempty,oneof=created_at completed_at file_name status total_count processed_count error_count not_found_count"`
	SortOrder     string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// ToUploadBatchResponse converts a domain batch to its API form
func ToUploadBatchResponse(b *bulk.UploadBatch) UploadBatchResponse {
	resp := UploadBatchResponse{
		ID:             b.ID.String(),
		FileName:       b.FileName,
		FileSize:       b.FileSize,
		DistributorID:  b.DistributorID.String(),
		Status:         string(b.Status),
		TotalCount:     b.TotalCount,
		ProcessedCount: b.ProcessedCount,
		ErrorCount:     b.ErrorCount,
		NotFoundCount:  b.NotFoundCount,
		DuplicateCount: b.DuplicateCount,
		ProcessingType: b.ProcessingType,
		ErrorDetails:   b.ErrorDetails,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
		CompletedAt:    b.CompletedAt,
	}
	if b.UploadedBy != nil {
		resp.UploadedBy = b.UploadedBy.String()
	}
	return resp
}

// ToUploadBatchResponses converts a list of batches
func ToUploadBatchResponses(batches []*bulk.UploadBatch) []UploadBatchResponse {
	out := make([]UploadBatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, ToUploadBatchResponse(b))
	}
	return out
}
