package bulk

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/raas/backend/internal/domain/shared"
)

// BatchStatus represents the status of an upload batch
type BatchStatus string

const (
	BatchStatusProcessing BatchStatus = "processing"
	BatchStatusSuccess    BatchStatus = "success"
	BatchStatusFailed     BatchStatus = "failed"
)

// IsValid checks if the status is valid
func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchStatusProcessing, BatchStatusSuccess, BatchStatusFailed:
		return true
	}
	return false
}

// IsTerminal returns true if this is a terminal state
func (s BatchStatus) IsTerminal() bool {
	return s == BatchStatusSuccess || s == BatchStatusFailed
}

// ErrorType classifies why a batch (or request) failed
type ErrorType string

const (
	ErrorTypeMissingInstallation ErrorType = "missing_installation"
	ErrorTypeInvalidFormat       ErrorType = "invalid_format"
	ErrorTypeOther               ErrorType = "other"
)

// RowErrorDetail represents a problem with one spreadsheet row
type RowErrorDetail struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// ErrorDetails is the structured payload stored with a batch
type ErrorDetails struct {
	Type                 ErrorType        `json:"type"`
	Message              string           `json:"message,omitempty"`
	MissingInstallations []string         `json:"missing_installations,omitempty"`
	TotalMissing         int              `json:"total_missing,omitempty"`
	Rows                 []RowErrorDetail `json:"rows,omitempty"`
	Warnings             []string         `json:"warnings,omitempty"`
}

// Counts are the final counters written when a batch completes
type Counts struct {
	Total     int
	Processed int
	Errors    int
	NotFound  int
	Duplicate int
}

// UploadBatch is the ledger entry of one spreadsheet upload
type UploadBatch struct {
	shared.BaseEntity
	FileName       string        `json:"file_name"`
	FileSize       int64         `json:"file_size"`
	DistributorID  uuid.UUID     `json:"distributor_id"`
	Status         BatchStatus   `json:"status"`
	TotalCount     int           `json:"total_count"`
	ProcessedCount int           `json:"processed_count"`
	ErrorCount     int           `json:"error_count"`
	NotFoundCount  int           `json:"not_found_count"`
	DuplicateCount int           `json:"duplicate_count"`
	ProcessingType string        `json:"processing_type"`
	UploadedBy     *uuid.UUID    `json:"uploaded_by,omitempty"`
	ErrorDetails   *ErrorDetails `json:"error_details,omitempty"`
	CompletedAt    *time.Time    `json:"completed_at,omitempty"`
}

// NewUploadBatch creates a batch in processing state
func NewUploadBatch(
	fileName string,
	fileSize int64,
	distributorID uuid.UUID,
	processingType string,
	uploadedBy *uuid.UUID,
) (*UploadBatch, error) {
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "Nome do arquivo não pode ser vazio")
	}
	if fileSize < 0 {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "Tamanho do arquivo não pode ser negativo")
	}
	if distributorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DISTRIBUTOR", "Distribuidora é obrigatória")
	}

	return &UploadBatch{
		BaseEntity:     shared.NewBaseEntity(),
		FileName:       fileName,
		FileSize:       fileSize,
		DistributorID:  distributorID,
		Status:         BatchStatusProcessing,
		ProcessingType: processingType,
		UploadedBy:     uploadedBy,
	}, nil
}

// SetTotal records how many data rows the file contained
func (b *UploadBatch) SetTotal(total int) {
	b.TotalCount = total
	b.Touch()
}

// Complete closes the batch with its final counters. A batch that processed
// no row at all ends as failed.
func (b *UploadBatch) Complete(counts Counts, details *ErrorDetails) error {
	if b.Status != BatchStatusProcessing {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Não é possível concluir um lote no estado: %s", b.Status))
	}

	status := BatchStatusSuccess
	if counts.Processed == 0 {
		status = BatchStatusFailed
	}

	b.applyCounts(counts)
	b.ErrorDetails = details
	b.finish(status)
	return nil
}

// Fail closes the batch as failed
func (b *UploadBatch) Fail(counts Counts, details *ErrorDetails) error {
	if b.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Não é possível falhar um lote já finalizado: %s", b.Status))
	}

	b.applyCounts(counts)
	b.ErrorDetails = details
	b.finish(BatchStatusFailed)
	return nil
}

func (b *UploadBatch) applyCounts(c Counts) {
	b.TotalCount = c.Total
	b.ProcessedCount = c.Processed
	b.ErrorCount = c.Errors
	b.NotFoundCount = c.NotFound
	b.DuplicateCount = c.Duplicate
}

func (b *UploadBatch) finish(status BatchStatus) {
	now := time.Now()
	b.Status = status
	b.CompletedAt = &now
	b.UpdatedAt = now
}

// IsSuccess returns true if the batch completed successfully
func (b *UploadBatch) IsSuccess() bool {
	return b.Status == BatchStatusSuccess
}

// IsFailed returns true if the batch failed
func (b *UploadBatch) IsFailed() bool {
	return b.Status == BatchStatusFailed
}

// ErrorDetailsJSON returns the error details as a JSON string
func (b *UploadBatch) ErrorDetailsJSON() (string, error) {
	if b.ErrorDetails == nil {
		return "", nil
	}
	data, err := json.Marshal(b.ErrorDetails)
	if err != nil {
		return "", fmt.Errorf("failed to marshal error details: %w", err)
	}
	return string(data), nil
}

// SetErrorDetailsFromJSON parses error details from a JSON string
func (b *UploadBatch) SetErrorDetailsFromJSON(jsonStr string) error {
	if jsonStr == "" || jsonStr == "null" {
		b.ErrorDetails = nil
		return nil
	}
	var details ErrorDetails
	if err := json.Unmarshal([]byte(jsonStr), &details); err != nil {
		return fmt.Errorf("failed to unmarshal error details: %w", err)
	}
	b.ErrorDetails = &details
	return nil
}

// Duration returns how long the batch took, or has taken so far
func (b *UploadBatch) Duration() time.Duration {
	end := time.Now()
	if b.CompletedAt != nil {
		end = *b.CompletedAt
	}
	return end.Sub(b.CreatedAt)
}
