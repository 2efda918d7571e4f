package ingestion

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/raas/backend/internal/domain/bulk"
	"github.com/raas/backend/internal/domain/energy"
	"github.com/raas/backend/internal/domain/shared/strategy"
	sheetimport "github.com/raas/backend/internal/infrastructure/import"
	"github.com/raas/backend/internal/infrastructure/logger"
	"github.com/raas/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// DefaultStrategyName is the registry name of the CEMIG statement layout
	DefaultStrategyName = "cemig"

	// RecordSourceUpload tags bill records created from a spreadsheet upload
	RecordSourceUpload = "upload"
)

// Column labels used in row error details
const (
	columnInstallation = "Instalação"
	columnPeriod       = "Período"
)

// Repositories groups the stores a strategy writes to
type Repositories struct {
	Installations energy.InstallationRepository
	Batches       bulk.UploadBatchRepository
	Bills         energy.BillRecordRepository
	Permanent     energy.PermanentRecordRepository
}

// StrategyOption configures a DefaultStrategy
type StrategyOption func(*DefaultStrategy)

// WithStrategyLogger sets the strategy logger
func WithStrategyLogger(l *zap.Logger) StrategyOption {
	return func(s *DefaultStrategy) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStrategyMetrics sets the metrics recorder
func WithStrategyMetrics(m *telemetry.BusinessMetrics) StrategyOption {
	return func(s *DefaultStrategy) {
		s.metrics = m
	}
}

// WithStrategyName registers the same layout under another name
func WithStrategyName(name, description string) StrategyOption {
	return func(s *DefaultStrategy) {
		s.BaseStrategy = strategy.NewBaseStrategy(name, strategy.StrategyTypeIngestion, description)
	}
}

// DefaultStrategy ingests the CEMIG monthly compensation statement.
// Processing is sequential: read, validate every installation, write bill
// records, mirror them into the permanent history, close the batch.
type DefaultStrategy struct {
	strategy.BaseStrategy
	reader  *sheetimport.Reader
	repos   Repositories
	metrics *telemetry.BusinessMetrics
	logger  *zap.Logger
}

// NewDefaultStrategy creates the default processing strategy
func NewDefaultStrategy(repos Repositories, reader *sheetimport.Reader, opts ...StrategyOption) *DefaultStrategy {
	if reader == nil {
		reader = sheetimport.NewReader()
	}
	s := &DefaultStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			DefaultStrategyName,
			strategy.StrategyTypeIngestion,
			"Demonstrativo mensal de compensação CEMIG",
		),
		reader: reader,
		repos:  repos,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process ingests one spreadsheet. A returned error is fatal; a degraded
// outcome carries its warnings on the result.
func (s *DefaultStrategy) Process(ctx context.Context, in bulk.ProcessInput) (*bulk.BatchResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "ingestion", "process",
		telemetry.AttrStrategy.String(s.Name()),
		telemetry.AttrDistributorID.String(in.DistributorID.String()),
	)
	defer span.End()

	result, err := s.process(ctx, in)
	telemetry.RecordError(span, err)
	if result != nil {
		span.SetAttributes(
			attribute.String("upload_batch_id", result.Batch.ID.String()),
			telemetry.AttrStatus.String(string(result.Batch.Status)),
		)
	}
	return result, err
}

func (s *DefaultStrategy) process(ctx context.Context, in bulk.ProcessInput) (*bulk.BatchResult, error) {
	_, readSpan := telemetry.StartSpan(ctx, "ingestion", "read")
	sheet, err := s.reader.Read(in.File)
	telemetry.RecordError(readSpan, err)
	readSpan.End()
	if err != nil {
		logger.For(ctx, s.logger).Warn("Unreadable upload",
			zap.String("file_name", in.FileName), zap.Error(err))
		return nil, newFormatError(err)
	}

	batch, err := bulk.NewUploadBatch(in.FileName, in.FileSize, in.DistributorID, s.Name(), in.UploadedBy)
	if err != nil {
		return nil, &IngestionError{Type: bulk.ErrorTypeOther, Message: err.Error(), Err: err}
	}
	batch.SetTotal(len(sheet.Rows))

	ctx = logger.WithBatchID(ctx, batch.ID.String())
	log := logger.For(ctx, s.logger)
	log.Info("Processing upload",
		zap.String("file_name", in.FileName),
		zap.String("distributor_id", in.DistributorID.String()),
		zap.Int("rows", len(sheet.Rows)))

	ids, err := s.validate(ctx, batch, sheet.Rows)
	if err != nil {
		return nil, err
	}

	rowErrs := sheetimport.NewErrorCollection(sheetimport.DefaultMaxErrors)
	records, repeated := buildRecords(sheet.Rows, ids, batch.ID, rowErrs)

	writeCtx, writeSpan := telemetry.StartSpan(ctx, "ingestion", "write_bills",
		attribute.Int("records", len(records)))
	inserted, err := s.repos.Bills.CreateSkipDuplicates(writeCtx, records)
	telemetry.RecordError(writeSpan, err)
	writeSpan.SetAttributes(attribute.Int64("inserted", inserted))
	writeSpan.End()
	if err != nil {
		log.Error("Bill record insert failed", zap.Int("records", len(records)), zap.Error(err))
		failure := newOtherError("Falha ao gravar os registros de faturamento", err)
		failure.BatchID = &batch.ID
		return nil, failure
	}

	result := &bulk.BatchResult{Batch: batch, Outcome: bulk.OutcomeSuccess}
	s.mirror(ctx, batch.ID, records, result)

	counts := bulk.Counts{
		Total:     len(sheet.Rows),
		Processed: len(records),
		Errors:    rowErrs.TotalCount(),
		Duplicate: repeated + len(records) - int(inserted),
	}
	if err := batch.Complete(counts, completionDetails(rowErrs, result.Warnings)); err != nil {
		return nil, newOtherError("Falha ao concluir o lote", err)
	}
	if err := s.repos.Batches.Save(ctx, batch); err != nil {
		log.Error("Failed to save completed batch", zap.Error(err))
		failure := newOtherError("Falha ao atualizar o lote", err)
		failure.BatchID = &batch.ID
		return nil, failure
	}

	log.Info("Upload batch completed",
		zap.String("status", string(batch.Status)),
		zap.Int("processed", batch.ProcessedCount),
		zap.Int("errors", batch.ErrorCount),
		zap.Int("duplicates", batch.DuplicateCount),
		zap.Int("warnings", len(result.Warnings)))
	return result, nil
}

// validate resolves every installation number in the sheet. Any unknown
// number rejects the whole file and records the batch as failed; otherwise
// the batch is saved in processing state.
func (s *DefaultStrategy) validate(ctx context.Context, batch *bulk.UploadBatch, rows []*sheetimport.Row) (ids map[string]uuid.UUID, err error) {
	ctx, span := telemetry.StartSpan(ctx, "ingestion", "validate", attribute.Int("rows", len(rows)))
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()
	log := logger.For(ctx, s.logger)

	numbers := make([]string, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		number := row.Field(sheetimport.FieldInstallation)
		if number == "" {
			log.Debug("Row without installation number", zap.Int("row", row.LineNumber))
			continue
		}
		if !seen[number] {
			seen[number] = true
			numbers = append(numbers, number)
		}
	}

	ids = map[string]uuid.UUID{}
	if len(numbers) > 0 {
		found, err := s.repos.Installations.FindIDsByNumbers(ctx, batch.DistributorID, numbers)
		if err != nil {
			log.Error("Installation lookup failed", zap.Int("numbers", len(numbers)), zap.Error(err))
			return nil, newOtherError("Falha ao consultar as instalações", err)
		}
		ids = found
	}

	var missing []string
	for _, number := range numbers {
		if _, ok := ids[number]; !ok {
			missing = append(missing, number)
		}
	}

	if len(missing) > 0 {
		failure := newMissingInstallationsError(missing, batch.ID)
		details := &bulk.ErrorDetails{
			Type:                 bulk.ErrorTypeMissingInstallation,
			Message:              failure.Message,
			MissingInstallations: failure.Installations,
			TotalMissing:         len(missing),
		}
		counts := bulk.Counts{Total: batch.TotalCount, Errors: len(missing), NotFound: len(missing)}
		if err := batch.Fail(counts, details); err != nil {
			return nil, newOtherError("Falha ao registrar o lote", err)
		}
		if err := s.repos.Batches.Save(ctx, batch); err != nil {
			log.Error("Failed to save rejected batch", zap.Error(err))
			return nil, newOtherError("Falha ao registrar o lote", err)
		}
		log.Warn("Upload rejected, installations not registered",
			zap.Int("missing", len(missing)),
			zap.Strings("sample", capStrings(missing, maxListedMissing)))
		return nil, failure
	}

	if err := s.repos.Batches.Save(ctx, batch); err != nil {
		log.Error("Failed to save batch", zap.Error(err))
		return nil, newOtherError("Falha ao registrar o lote", err)
	}
	return ids, nil
}

// buildRecords turns valid rows into bill records. Rows without installation
// or with an unusable period become row errors. A repeated
// (installation, period) inside the file keeps the first row and is counted
// in repeated.
func buildRecords(rows []*sheetimport.Row, ids map[string]uuid.UUID, batchID uuid.UUID, rowErrs *sheetimport.ErrorCollection) (records []*energy.BillRecord, repeated int) {
	records = make([]*energy.BillRecord, 0, len(rows))
	seen := make(map[string]bool, len(rows))

	for _, row := range rows {
		number := row.Field(sheetimport.FieldInstallation)
		if number == "" {
			rowErrs.AddRequiredError(row.LineNumber, columnInstallation)
			continue
		}
		id, ok := ids[number]
		if !ok {
			rowErrs.AddReferenceError(row.LineNumber, columnInstallation, number, "instalação")
			continue
		}

		raw := sheetimport.CellPeriod(row.Field(sheetimport.FieldPeriod))
		if raw == "" {
			rowErrs.AddRequiredError(row.LineNumber, columnPeriod)
			continue
		}
		period, err := energy.ParsePeriod(raw)
		if err != nil {
			rowErrs.AddFormatError(row.LineNumber, columnPeriod, "MM/AAAA", raw)
			continue
		}

		key := id.String() + "|" + period.String()
		if seen[key] {
			repeated++
			continue
		}
		seen[key] = true

		rec := energy.NewBillRecord(id, period.String(), readings(row), batchID, RecordSourceUpload)
		rec.Modality = row.Field(sheetimport.FieldModality)
		rec.TariffPost = row.Field(sheetimport.FieldTariffPost)
		rec.ExpiringBalancePeriod = sheetimport.CellPeriod(row.Field(sheetimport.FieldExpiringPeriod))
		records = append(records, rec)
	}
	return records, repeated
}

func readings(row *sheetimport.Row) energy.Readings {
	return energy.Readings{
		Quota:                 row.Number(sheetimport.FieldQuota),
		PreviousBalance:       row.Number(sheetimport.FieldPreviousBalance),
		ExpiredBalance:        row.Number(sheetimport.FieldExpiredBalance),
		CurrentBalance:        row.Number(sheetimport.FieldCurrentBalance),
		Consumption:           row.Number(sheetimport.FieldConsumption),
		Generation:            row.Number(sheetimport.FieldGeneration),
		Compensation:          row.Number(sheetimport.FieldCompensation),
		Transferred:           row.Number(sheetimport.FieldTransferred),
		Received:              row.Number(sheetimport.FieldReceived),
		ExpiringBalanceAmount: row.Number(sheetimport.FieldExpiringAmount),
	}
}

// mirror copies the written records into the permanent history. Failures
// never fail the batch; they degrade the result.
func (s *DefaultStrategy) mirror(ctx context.Context, batchID uuid.UUID, records []*energy.BillRecord, result *bulk.BatchResult) {
	if len(records) == 0 {
		return
	}
	ctx, span := telemetry.StartSpan(ctx, "ingestion", "mirror", attribute.Int("records", len(records)))
	defer span.End()
	log := logger.For(ctx, s.logger)

	ids := make([]uuid.UUID, 0, len(records))
	seen := make(map[uuid.UUID]bool, len(records))
	for _, rec := range records {
		if !seen[rec.InstallationID] {
			seen[rec.InstallationID] = true
			ids = append(ids, rec.InstallationID)
		}
	}

	installations, err := s.repos.Installations.FindByIDsWithDetails(ctx, ids)
	if err != nil {
		s.mirrorFailed(ctx, result, err)
		return
	}
	byID := make(map[uuid.UUID]*energy.Installation, len(installations))
	for _, inst := range installations {
		byID[inst.ID] = inst
	}

	permanent := make([]*energy.PermanentEnergyRecord, 0, len(records))
	for _, rec := range records {
		inst, ok := byID[rec.InstallationID]
		if !ok {
			log.Warn("Installation vanished before mirroring", zap.String("installation_id", rec.InstallationID.String()))
			continue
		}
		permanent = append(permanent, energy.NewPermanentRecord(rec, inst, batchID))
	}

	inserted, err := s.repos.Permanent.CreateSkipDuplicates(ctx, permanent)
	if err != nil {
		s.mirrorFailed(ctx, result, err)
		return
	}
	log.Info("Permanent records mirrored", zap.Int("records", len(permanent)), zap.Int64("inserted", inserted))
}

func (s *DefaultStrategy) mirrorFailed(ctx context.Context, result *bulk.BatchResult, err error) {
	telemetry.RecordError(trace.SpanFromContext(ctx), err)
	logger.For(ctx, s.logger).Error("Permanent record mirror failed", zap.Error(err))
	s.metrics.RecordMirrorFailure(ctx)
	result.AddWarning("Falha ao espelhar os registros no histórico permanente")
}

// completionDetails builds the payload stored on a completed batch, or nil
// when there is nothing to report.
func completionDetails(rowErrs *sheetimport.ErrorCollection, warnings []string) *bulk.ErrorDetails {
	if !rowErrs.HasErrors() && len(warnings) == 0 {
		return nil
	}
	details := &bulk.ErrorDetails{
		Type:     bulk.ErrorTypeOther,
		Warnings: append([]string(nil), warnings...),
	}
	if rowErrs.HasErrors() {
		details.Type = bulk.ErrorTypeInvalidFormat
		details.Message = fmt.Sprintf("%d linha(s) ignorada(s)", rowErrs.TotalCount())
		for _, e := range rowErrs.Errors() {
			details.Rows = append(details.Rows, bulk.RowErrorDetail{
				Row:     e.Row,
				Column:  e.Column,
				Code:    e.Code,
				Message: e.Message,
				Value:   e.Value,
			})
		}
	}
	return details
}
