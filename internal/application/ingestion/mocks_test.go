package ingestion

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/raas/backend/internal/domain/bulk"
	"github.com/raas/backend/internal/domain/energy"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// MockInstallationRepository is a mock implementation of energy.InstallationRepository
type MockInstallationRepository struct {
	mock.Mock
}

func (m *MockInstallationRepository) FindIDsByNumbers(ctx context.Context, distributorID uuid.UUID, numbers []string) (map[string]uuid.UUID, error) {
	args := m.Called(ctx, distributorID, numbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]uuid.UUID), args.Error(1)
}

func (m *MockInstallationRepository) FindByIDsWithDetails(ctx context.Context, ids []uuid.UUID) ([]*energy.Installation, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*energy.Installation), args.Error(1)
}

func (m *MockInstallationRepository) FindByDistributor(ctx context.Context, distributorID uuid.UUID) ([]*energy.Installation, error) {
	args := m.Called(ctx, distributorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*energy.Installation), args.Error(1)
}

func (m *MockInstallationRepository) FindByNumber(ctx context.Context, number string) (*energy.Installation, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*energy.Installation), args.Error(1)
}

// MockUploadBatchRepository is a mock implementation of bulk.UploadBatchRepository
type MockUploadBatchRepository struct {
	mock.Mock
}

func (m *MockUploadBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*bulk.UploadBatch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bulk.UploadBatch), args.Error(1)
}

func (m *MockUploadBatchRepository) FindAll(ctx context.Context, filter bulk.UploadBatchFilter, page, pageSize int) (*bulk.UploadBatchListResult, error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bulk.UploadBatchListResult), args.Error(1)
}

func (m *MockUploadBatchRepository) Save(ctx context.Context, batch *bulk.UploadBatch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

// MockBillRecordRepository is a mock implementation of energy.BillRecordRepository
type MockBillRecordRepository struct {
	mock.Mock
}

func (m *MockBillRecordRepository) CreateSkipDuplicates(ctx context.Context, records []*energy.BillRecord) (int64, error) {
	args := m.Called(ctx, records)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBillRecordRepository) FindByInstallationsAndPeriods(ctx context.Context, installationIDs []uuid.UUID, periods []string) ([]*energy.BillRecord, error) {
	args := m.Called(ctx, installationIDs, periods)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*energy.BillRecord), args.Error(1)
}

func (m *MockBillRecordRepository) CountByBatch(ctx context.Context, batchID uuid.UUID) (int64, error) {
	args := m.Called(ctx, batchID)
	return args.Get(0).(int64), args.Error(1)
}

// MockPermanentRecordRepository is a mock implementation of energy.PermanentRecordRepository
type MockPermanentRecordRepository struct {
	mock.Mock
}

func (m *MockPermanentRecordRepository) CreateSkipDuplicates(ctx context.Context, records []*energy.PermanentEnergyRecord) (int64, error) {
	args := m.Called(ctx, records)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPermanentRecordRepository) FindByInstallationNumber(ctx context.Context, number string, limit int) ([]*energy.PermanentEnergyRecord, error) {
	args := m.Called(ctx, number, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*energy.PermanentEnergyRecord), args.Error(1)
}

// MockDistributorRepository is a mock implementation of energy.DistributorRepository
type MockDistributorRepository struct {
	mock.Mock
}

func (m *MockDistributorRepository) FindByID(ctx context.Context, id uuid.UUID) (*energy.Distributor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*energy.Distributor), args.Error(1)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

// MockArchiver is a mock implementation of Archiver
type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) ArchiveUpload(ctx context.Context, distributorID, batchID uuid.UUID, fileName string, data []byte) (string, error) {
	args := m.Called(ctx, distributorID, batchID, fileName, data)
	return args.String(0), args.Error(1)
}

var statementHeader = []any{"Instalação", "Período", "Modalidade", "Consumo", "Compensação", "Recebido", "Saldo Atual"}

// buildWorkbook writes header and rows into the first sheet of a new workbook
func buildWorkbook(t *testing.T, header []any, rows ...[]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)

	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func processInput(data []byte, distributorID uuid.UUID) bulk.ProcessInput {
	return bulk.ProcessInput{
		File:          bytes.NewReader(data),
		FileName:      "cemig_janeiro.xlsx",
		FileSize:      int64(len(data)),
		DistributorID: distributorID,
	}
}
