package ingestion

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/raas/backend/internal/domain/bulk"
	"github.com/raas/backend/internal/domain/shared"
	"github.com/raas/backend/internal/domain/shared/strategy"
	"github.com/raas/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

// MockStrategy is a mock implementation of bulk.ProcessingStrategy
type MockStrategy struct {
	strategy.BaseStrategy
	mock.Mock
}

func newMockStrategy() *MockStrategy {
	return &MockStrategy{BaseStrategy: strategy.NewBaseStrategy("cemig", strategy.StrategyTypeIngestion, "test")}
}

func (m *MockStrategy) Process(ctx context.Context, in bulk.ProcessInput) (*bulk.BatchResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bulk.BatchResult), args.Error(1)
}

// MockStrategyResolver is a mock implementation of StrategyResolver
type MockStrategyResolver struct {
	mock.Mock
}

func (m *MockStrategyResolver) ForDistributor(ctx context.Context, distributorID uuid.UUID) (bulk.ProcessingStrategy, error) {
	args := m.Called(ctx, distributorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(bulk.ProcessingStrategy), args.Error(1)
}

type serviceFixture struct {
	resolver *MockStrategyResolver
	strategy *MockStrategy
	batches  *MockUploadBatchRepository
	guard    *MockIdempotencyStore
	archive  *MockArchiver
	service  *UploadService

	distributorID uuid.UUID
}

func newServiceFixture(t *testing.T, config ServiceConfig) *serviceFixture {
	t.Helper()
	metrics, err := telemetry.NewBusinessMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	f := &serviceFixture{
		resolver:      new(MockStrategyResolver),
		strategy:      newMockStrategy(),
		batches:       new(MockUploadBatchRepository),
		guard:         new(MockIdempotencyStore),
		archive:       new(MockArchiver),
		distributorID: uuid.New(),
	}
	f.service = NewUploadService(f.resolver, f.batches, config,
		WithGuard(f.guard),
		WithArchive(f.archive),
		WithMetrics(metrics),
	)
	return f
}

func (f *serviceFixture) request(data []byte, role string) UploadRequest {
	return UploadRequest{
		File:          bytes.NewReader(data),
		FileName:      "janeiro.xlsx",
		FileSize:      int64(len(data)),
		DistributorID: f.distributorID,
		Role:          role,
	}
}

func completedResult(t *testing.T, distributorID uuid.UUID) *bulk.BatchResult {
	t.Helper()
	batch, err := bulk.NewUploadBatch("janeiro.xlsx", 10, distributorID, "cemig", nil)
	require.NoError(t, err)
	require.NoError(t, batch.Complete(bulk.Counts{Total: 2, Processed: 2}, nil))
	return &bulk.BatchResult{Batch: batch, Outcome: bulk.OutcomeSuccess}
}

func TestUploadService_Upload_Success(t *testing.T) {
	f := newServiceFixture(t, DefaultServiceConfig())
	ctx := context.Background()
	data := []byte("spreadsheet bytes")
	key := guardKey(f.distributorID, data)
	result := completedResult(t, f.distributorID)

	f.resolver.On("ForDistributor", ctx, f.distributorID).Return(f.strategy, nil)
	f.guard.On("MarkProcessed", ctx, key, DefaultServiceConfig().GuardTTL).Return(true, nil)
	f.guard.On("Release", mock.Anything, key).Return(nil)
	f.strategy.On("Process", ctx, mock.MatchedBy(func(in bulk.ProcessInput) bool {
		r, ok := in.File.(*bytes.Reader)
		return ok && r.Size() == int64(len(data)) && in.DistributorID == f.distributorID && in.FileSize == int64(len(data))
	})).Return(result, nil)
	f.archive.On("ArchiveUpload", ctx, f.distributorID, result.Batch.ID, "janeiro.xlsx", data).
		Return("uploads/key.xlsx", nil)

	out, err := f.service.Upload(ctx, f.request(data, "ADMIN"))
	require.NoError(t, err)

	assert.Equal(t, result.Batch, out.Batch)
	assert.Equal(t, bulk.OutcomeSuccess, out.Outcome)
	assert.Equal(t, "uploads/key.xlsx", out.ArchiveKey)
	assert.Empty(t, out.Warnings)
	f.guard.AssertCalled(t, "Release", mock.Anything, key)
	f.archive.AssertExpectations(t)
}

func TestUploadService_Upload_RejectsNonAdminBeforeReading(t *testing.T) {
	f := newServiceFixture(t, DefaultServiceConfig())

	for _, role := range []string{"", "CUSTOMER", "PARTNER"} {
		reader := &countingReader{r: bytes.NewReader([]byte("data"))}
		_, err := f.service.Upload(context.Background(), UploadRequest{
			File: reader, FileName: "a.xlsx", DistributorID: f.distributorID, Role: role,
		})
		assert.ErrorIs(t, err, shared.ErrForbidden, role)
		assert.Zero(t, reader.n, role)
	}
	f.resolver.AssertNotCalled(t, "ForDistributor", mock.Anything, mock.Anything)
}

func TestUploadService_CanUpload_IgnoresCase(t *testing.T) {
	f := newServiceFixture(t, ServiceConfig{})
	assert.True(t, f.service.CanUpload("super_admin"))
	assert.True(t, f.service.CanUpload("ADMIN_STAFF"))
	assert.False(t, f.service.CanUpload("STAFF"))

	custom := newServiceFixture(t, ServiceConfig{AdminRoles: []string{"OPERATOR"}})
	assert.True(t, custom.service.CanUpload("operator"))
	assert.False(t, custom.service.CanUpload("ADMIN"))
}

func TestUploadService_Upload_FileTooLarge(t *testing.T) {
	f := newServiceFixture(t, ServiceConfig{MaxFileSize: 8})

	_, err := f.service.Upload(context.Background(), f.request([]byte("0123456789"), "ADMIN"))
	var ie *IngestionError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, bulk.ErrorTypeInvalidFormat, ie.Type)
	assert.Equal(t, "Arquivo excede o tamanho máximo permitido", ie.Message)

	// declared size lies, the body is still capped
	req := f.request([]byte("0123456789"), "ADMIN")
	req.FileSize = 1
	_, err = f.service.Upload(context.Background(), req)
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, bulk.ErrorTypeInvalidFormat, ie.Type)

	f.resolver.AssertNotCalled(t, "ForDistributor", mock.Anything, mock.Anything)
}

func TestUploadService_Upload_EmptyFile(t *testing.T) {
	f := newServiceFixture(t, DefaultServiceConfig())

	_, err := f.service.Upload(context.Background(), f.request(nil, "ADMIN"))
	var ie *IngestionError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, bulk.ErrorTypeInvalidFormat, ie.Type)
}

func TestUploadService_Upload_MissingDistributor(t *testing.T) {
	f := newServiceFixture(t, DefaultServiceConfig())
	req := f.request([]byte("data"), "ADMIN")
	req.DistributorID = uuid.Nil

	_, err := f.service.Upload(context.Background(), req)
	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "INVALID_DISTRIBUTOR", de.Code)
}

func TestUploadService_Upload_UnknownDistributor(t *testing.T) {
	f := newServiceFixture(t, DefaultServiceConfig())
	f.resolver.On("ForDistributor", mock.Anything, f.distributorID).Return(nil, ErrDistributorNotFound)

	_, err := f.service.Upload(context.Background(), f.request([]byte("data"), "ADMIN"))
	assert.ErrorIs(t, err, ErrDistributorNotFound)
	f.guard.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadService_Upload_InFlightDuplicate(t *testing.T) {
	f := newServiceFixture(t, DefaultServiceConfig())
	f.resolver.On("ForDistributor", mock.Anything, f.distributorID).Return(f.strategy, nil)
	f.guard.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

	_, err := f.service.Upload(context.Background(), f.request([]byte("data"), "ADMIN"))
	assert.ErrorIs(t, err, shared.ErrInFlight)
	f.strategy.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
	f.guard.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestUploadService_Upload_GuardOutageDoesNotBlock(t *testing.T) {
	f := newServiceFixture(t, DefaultServiceConfig())
	result := completedResult(t, f.distributorID)

	f.resolver.On("ForDistributor", mock.Anything, f.distributorID).Return(f.strategy, nil)
	f.guard.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("redis down"))
	f.strategy.On("Process", mock.Anything, mock.Anything).Return(result, nil)
	f.archive.On("ArchiveUpload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("k", nil)

	out, err := f.service.Upload(context.Background(), f.request([]byte("data"), "ADMIN"))
	require.NoError(t, err)
	assert.Equal(t, result.Batch.ID, out.Batch.ID)
	f.guard.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestUploadService_Upload_StrategyErrorReleasesGuard(t *testing.T) {
	f := newServiceFixture(t, DefaultServiceConfig())
	batchID := uuid.New()
	failure := newMissingInstallationsError([]string{"9999"}, batchID)

	f.resolver.On("ForDistributor", mock.Anything, f.distributorID).Return(f.strategy, nil)
	f.guard.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	f.guard.On("Release", mock.Anything, mock.Anything).Return(nil)
	f.strategy.On("Process", mock.Anything, mock.Anything).Return(nil, failure)

	_, err := f.service.Upload(context.Background(), f.request([]byte("data"), "ADMIN"))
	var ie *IngestionError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, bulk.ErrorTypeMissingInstallation, ie.Type)

	f.guard.AssertNumberOfCalls(t, "Release", 1)
	f.archive.AssertNotCalled(t, "ArchiveUpload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadService_Upload_ArchiveFailureDegrades(t *testing.T) {
	f := newServiceFixture(t, DefaultServiceConfig())
	result := completedResult(t, f.distributorID)

	f.resolver.On("ForDistributor", mock.Anything, f.distributorID).Return(f.strategy, nil)
	f.guard.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	f.guard.On("Release", mock.Anything, mock.Anything).Return(nil)
	f.strategy.On("Process", mock.Anything, mock.Anything).Return(result, nil)
	f.archive.On("ArchiveUpload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("access denied"))

	out, err := f.service.Upload(context.Background(), f.request([]byte("data"), "ADMIN"))
	require.NoError(t, err)
	assert.Equal(t, bulk.OutcomeDegraded, out.Outcome)
	assert.Equal(t, []string{"Falha ao arquivar o arquivo original"}, out.Warnings)
	assert.Empty(t, out.ArchiveKey)
	assert.Equal(t, bulk.BatchStatusSuccess, out.Batch.Status)
}

func TestUploadService_Upload_WithoutOptionalCollaborators(t *testing.T) {
	resolver := new(MockStrategyResolver)
	strat := newMockStrategy()
	distributorID := uuid.New()
	result := completedResult(t, distributorID)
	resolver.On("ForDistributor", mock.Anything, distributorID).Return(strat, nil)
	strat.On("Process", mock.Anything, mock.Anything).Return(result, nil)

	svc := NewUploadService(resolver, new(MockUploadBatchRepository), ServiceConfig{})
	out, err := svc.Upload(context.Background(), UploadRequest{
		File: bytes.NewReader([]byte("data")), FileName: "a.xlsx", DistributorID: distributorID, Role: "ADMIN",
	})
	require.NoError(t, err)
	assert.Equal(t, bulk.OutcomeSuccess, out.Outcome)
}

func TestUploadService_BatchQueries(t *testing.T) {
	f := newServiceFixture(t, DefaultServiceConfig())
	ctx := context.Background()
	id := uuid.New()
	batch := &bulk.UploadBatch{FileName: "a.xlsx"}
	list := &bulk.UploadBatchListResult{Items: []*bulk.UploadBatch{batch}, TotalCount: 1, Page: 1, PageSize: 20}
	status := bulk.BatchStatusFailed
	filter := bulk.UploadBatchFilter{Status: &status}

	f.batches.On("FindByID", ctx, id).Return(batch, nil)
	f.batches.On("FindAll", ctx, filter, 1, 20).Return(list, nil)

	got, err := f.service.GetBatch(ctx, id)
	require.NoError(t, err)
	assert.Same(t, batch, got)

	page, err := f.service.ListBatches(ctx, filter, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
}

func TestGuardKey(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	data := []byte("same file")

	assert.Equal(t, guardKey(a, data), guardKey(a, []byte("same file")))
	assert.NotEqual(t, guardKey(a, data), guardKey(b, data))
	assert.NotEqual(t, guardKey(a, data), guardKey(a, []byte("other file")))
}

func TestFailureStatus(t *testing.T) {
	assert.Equal(t, "failed", failureStatus(newMissingInstallationsError([]string{"1"}, uuid.New())))
	assert.Equal(t, "error", failureStatus(newOtherError("x", errors.New("y"))))
	assert.Equal(t, "error", failureStatus(errors.New("plain")))
}

type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}
