package bulk

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/raas/backend/internal/domain/shared/strategy"
)

// Outcome tells a clean run apart from one that finished with warnings
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeDegraded Outcome = "degraded"
)

// ProcessInput is everything a strategy needs to process one upload
type ProcessInput struct {
	File          io.Reader
	FileName      string
	FileSize      int64
	DistributorID uuid.UUID
	UploadedBy    *uuid.UUID
}

// BatchResult is returned by a strategy that reached a terminal batch state
// for a non-fatal run.
type BatchResult struct {
	Batch    *UploadBatch
	Outcome  Outcome
	Warnings []string
}

// AddWarning records a non-fatal problem and degrades the outcome
func (r *BatchResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
	r.Outcome = OutcomeDegraded
}

// ProcessingStrategy ingests one distributor's spreadsheet format.
// A non-nil error is fatal for the upload; warnings travel on the result.
type ProcessingStrategy interface {
	strategy.Strategy
	Process(ctx context.Context, input ProcessInput) (*BatchResult, error)
}
