package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/raas/backend/internal/domain/bulk"
)

// UploadBatchModel is the persistence model for the UploadBatch domain entity.
type UploadBatchModel struct {
	BaseModel
	FileName       string           `gorm:"type:varchar(255);not null"`
	FileSize       int64            `gorm:"not null;default:0"`
	DistributorID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	Status         bulk.BatchStatus `gorm:"type:varchar(20);not null;default:'processing';index"`
	TotalCount     int              `gorm:"not null;default:0"`
	ProcessedCount int              `gorm:"not null;default:0"`
	ErrorCount     int              `gorm:"not null;default:0"`
	NotFoundCount  int              `gorm:"not null;default:0"`
	DuplicateCount int              `gorm:"not null;default:0"`
	ProcessingType string           `gorm:"type:varchar(50)"`
	UploadedBy     *uuid.UUID       `gorm:"type:uuid;index"`
	ErrorDetails   string           `gorm:"type:jsonb"`
	CompletedAt    *time.Time
}

// TableName returns the table name for GORM
func (UploadBatchModel) TableName() string {
	return "upload_batches"
}

// ToDomain converts the persistence model to a domain UploadBatch entity.
func (m *UploadBatchModel) ToDomain() *bulk.UploadBatch {
	batch := &bulk.UploadBatch{
		BaseEntity:     m.BaseModel.ToDomain(),
		FileName:       m.FileName,
		FileSize:       m.FileSize,
		DistributorID:  m.DistributorID,
		Status:         m.Status,
		TotalCount:     m.TotalCount,
		ProcessedCount: m.ProcessedCount,
		ErrorCount:     m.ErrorCount,
		NotFoundCount:  m.NotFoundCount,
		DuplicateCount: m.DuplicateCount,
		ProcessingType: m.ProcessingType,
		UploadedBy:     m.UploadedBy,
		CompletedAt:    m.CompletedAt,
	}

	if m.ErrorDetails != "" {
		_ = batch.SetErrorDetailsFromJSON(m.ErrorDetails)
	}

	return batch
}

// FromDomain populates the persistence model from a domain UploadBatch entity.
func (m *UploadBatchModel) FromDomain(b *bulk.UploadBatch) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.FileName = b.FileName
	m.FileSize = b.FileSize
	m.DistributorID = b.DistributorID
	m.Status = b.Status
	m.TotalCount = b.TotalCount
	m.ProcessedCount = b.ProcessedCount
	m.ErrorCount = b.ErrorCount
	m.NotFoundCount = b.NotFoundCount
	m.DuplicateCount = b.DuplicateCount
	m.ProcessingType = b.ProcessingType
	m.UploadedBy = b.UploadedBy
	m.CompletedAt = b.CompletedAt

	// Serialize error details to JSON; an unmarshalable payload is stored as null
	if detailsJSON, err := b.ErrorDetailsJSON(); err == nil && detailsJSON != "" {
		m.ErrorDetails = detailsJSON
	} else {
		m.ErrorDetails = "null"
	}
}

// UploadBatchModelFromDomain creates a new persistence model from a domain UploadBatch entity.
func UploadBatchModelFromDomain(b *bulk.UploadBatch) *UploadBatchModel {
	m := &UploadBatchModel{}
	m.FromDomain(b)
	return m
}
