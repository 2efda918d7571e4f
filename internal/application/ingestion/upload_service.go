package ingestion

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/raas/backend/internal/domain/bulk"
	"github.com/raas/backend/internal/domain/shared"
	sheetimport "github.com/raas/backend/internal/infrastructure/import"
	"github.com/raas/backend/internal/infrastructure/logger"
	"github.com/raas/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultAdminRoles are the roles allowed to upload spreadsheets
var DefaultAdminRoles = []string{"SUPER_ADMIN", "ADMIN", "ADMIN_STAFF"}

// StrategyResolver returns the processing strategy for a distributor
type StrategyResolver interface {
	ForDistributor(ctx context.Context, distributorID uuid.UUID) (bulk.ProcessingStrategy, error)
}

// Archiver keeps a copy of the raw uploaded file
type Archiver interface {
	ArchiveUpload(ctx context.Context, distributorID, batchID uuid.UUID, fileName string, data []byte) (string, error)
}

// ServiceConfig holds upload limits and access rules
type ServiceConfig struct {
	MaxFileSize int64
	AdminRoles  []string
	GuardTTL    time.Duration
}

// DefaultServiceConfig returns the default upload settings
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxFileSize: 10 << 20,
		AdminRoles:  DefaultAdminRoles,
		GuardTTL:    shared.DefaultIdempotencyConfig().TTL,
	}
}

// UploadRequest is one spreadsheet submitted by an authenticated caller
type UploadRequest struct {
	File          io.Reader
	FileName      string
	FileSize      int64
	DistributorID uuid.UUID
	UploadedBy    *uuid.UUID
	Role          string
}

// UploadResult describes a finished upload
type UploadResult struct {
	Batch      *bulk.UploadBatch
	Outcome    bulk.Outcome
	Warnings   []string
	ArchiveKey string
}

// UploadService coordinates spreadsheet uploads
type UploadService struct {
	strategies StrategyResolver
	batches    bulk.UploadBatchRepository
	guard      shared.IdempotencyStore
	archive    Archiver
	metrics    *telemetry.BusinessMetrics
	config     ServiceConfig
	logger     *zap.Logger
}

// ServiceOption configures an UploadService
type ServiceOption func(*UploadService)

// WithGuard sets the in-flight upload guard
func WithGuard(store shared.IdempotencyStore) ServiceOption {
	return func(s *UploadService) {
		s.guard = store
	}
}

// WithArchive sets where raw files are archived
func WithArchive(a Archiver) ServiceOption {
	return func(s *UploadService) {
		s.archive = a
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(m *telemetry.BusinessMetrics) ServiceOption {
	return func(s *UploadService) {
		s.metrics = m
	}
}

// WithLogger sets the service logger
func WithLogger(l *zap.Logger) ServiceOption {
	return func(s *UploadService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewUploadService creates a new UploadService
func NewUploadService(
	strategies StrategyResolver,
	batches bulk.UploadBatchRepository,
	config ServiceConfig,
	opts ...ServiceOption,
) *UploadService {
	defaults := DefaultServiceConfig()
	if config.MaxFileSize <= 0 {
		config.MaxFileSize = defaults.MaxFileSize
	}
	if len(config.AdminRoles) == 0 {
		config.AdminRoles = defaults.AdminRoles
	}
	if config.GuardTTL <= 0 {
		config.GuardTTL = defaults.GuardTTL
	}
	s := &UploadService{
		strategies: strategies,
		batches:    batches,
		config:     config,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CanUpload reports whether role is one of the administrative roles
func (s *UploadService) CanUpload(role string) bool {
	for _, r := range s.config.AdminRoles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// Upload validates the caller and the file, then hands it to the
// distributor's processing strategy.
func (s *UploadService) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	log := logger.For(ctx, s.logger)

	if !s.CanUpload(req.Role) {
		log.Warn("Upload denied", zap.String("role", req.Role))
		return nil, shared.ErrForbidden
	}
	if req.DistributorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DISTRIBUTOR", "Distribuidora é obrigatória")
	}
	if req.File == nil {
		return nil, newFormatError(sheetimport.ErrEmptyOrInvalidFormat)
	}
	if req.FileSize > s.config.MaxFileSize {
		return nil, newFormatError(sheetimport.ErrFileTooLarge)
	}

	data, err := io.ReadAll(io.LimitReader(req.File, s.config.MaxFileSize+1))
	if err != nil {
		return nil, newOtherError("Falha ao ler o arquivo", err)
	}
	if int64(len(data)) > s.config.MaxFileSize {
		return nil, newFormatError(sheetimport.ErrFileTooLarge)
	}
	if len(data) == 0 {
		return nil, newFormatError(sheetimport.ErrEmptyOrInvalidFormat)
	}

	strat, err := s.strategies.ForDistributor(ctx, req.DistributorID)
	if err != nil {
		return nil, err
	}

	release, err := s.acquire(ctx, guardKey(req.DistributorID, data))
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	result, err := strat.Process(ctx, bulk.ProcessInput{
		File:          bytes.NewReader(data),
		FileName:      req.FileName,
		FileSize:      int64(len(data)),
		DistributorID: req.DistributorID,
		UploadedBy:    req.UploadedBy,
	})
	if err != nil {
		s.metrics.RecordBatch(ctx, failureStatus(err), strat.Name(), time.Since(start))
		return nil, err
	}

	out := &UploadResult{
		Batch:    result.Batch,
		Outcome:  result.Outcome,
		Warnings: result.Warnings,
	}
	s.archiveFile(ctx, req, result, data, out)

	batch := result.Batch
	s.metrics.RecordBatch(ctx, string(batch.Status), strat.Name(), time.Since(start))
	s.metrics.RecordRows(ctx, batch.ProcessedCount, batch.ErrorCount, batch.NotFoundCount, batch.DuplicateCount)
	return out, nil
}

// acquire marks the upload as in flight. A guard outage is logged and
// does not block the upload.
func (s *UploadService) acquire(ctx context.Context, key string) (func(), error) {
	noop := func() {}
	if s.guard == nil {
		return noop, nil
	}

	log := logger.For(ctx, s.logger)
	marked, err := s.guard.MarkProcessed(ctx, key, s.config.GuardTTL)
	if err != nil {
		log.Warn("Upload guard unavailable", zap.Error(err))
		return noop, nil
	}
	if !marked {
		log.Info("Identical upload already in progress", zap.String("key", key))
		return nil, shared.ErrInFlight
	}

	return func() {
		if err := s.guard.Release(context.WithoutCancel(ctx), key); err != nil {
			log.Warn("Failed to release upload guard", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func (s *UploadService) archiveFile(ctx context.Context, req UploadRequest, result *bulk.BatchResult, data []byte, out *UploadResult) {
	if s.archive == nil {
		return
	}
	key, err := s.archive.ArchiveUpload(ctx, req.DistributorID, result.Batch.ID, req.FileName, data)
	if err != nil {
		logger.For(ctx, s.logger).Error("Failed to archive upload",
			zap.String("upload_batch_id", result.Batch.ID.String()), zap.Error(err))
		result.AddWarning("Falha ao arquivar o arquivo original")
		out.Outcome = result.Outcome
		out.Warnings = result.Warnings
		return
	}
	out.ArchiveKey = key
}

// GetBatch returns one upload batch
func (s *UploadService) GetBatch(ctx context.Context, id uuid.UUID) (*bulk.UploadBatch, error) {
	return s.batches.FindByID(ctx, id)
}

// ListBatches returns upload batches, newest first
func (s *UploadService) ListBatches(ctx context.Context, filter bulk.UploadBatchFilter, page, pageSize int) (*bulk.UploadBatchListResult, error) {
	return s.batches.FindAll(ctx, filter, page, pageSize)
}

// guardKey identifies an upload by distributor and file content
func guardKey(distributorID uuid.UUID, data []byte) string {
	sum := sha256.Sum256(data)
	return distributorID.String() + ":" + hex.EncodeToString(sum[:])
}

func failureStatus(err error) string {
	var ie *IngestionError
	if errors.As(err, &ie) && ie.Type == bulk.ErrorTypeMissingInstallation {
		return string(bulk.BatchStatusFailed)
	}
	return "error"
}
