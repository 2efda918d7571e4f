package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/raas/backend/internal/domain/energy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormBillRecordRepository_CreateSkipDuplicates(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	repo := NewGormBillRecordRepository(db, 2)
	ctx := context.Background()
	batchID := uuid.New()

	newRecords := func() []*energy.BillRecord {
		return []*energy.BillRecord{
			energy.NewBillRecord(f.Consumer.ID, "01/2024", energy.Readings{Consumption: ptr(1000), Compensation: ptr(700)}, batchID, "upload"),
			energy.NewBillRecord(f.Consumer.ID, "02/2024", energy.Readings{Consumption: ptr(900)}, batchID, "upload"),
			energy.NewBillRecord(f.Generator.ID, "01/2024", energy.Readings{Generation: ptr(5000)}, batchID, "upload"),
		}
	}

	t.Run("inserts across batches", func(t *testing.T) {
		inserted, err := repo.CreateSkipDuplicates(ctx, newRecords())
		require.NoError(t, err)
		assert.Equal(t, int64(3), inserted)

		count, err := repo.CountByBatch(ctx, batchID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("re-inserting the same readings writes nothing", func(t *testing.T) {
		inserted, err := repo.CreateSkipDuplicates(ctx, newRecords())
		require.NoError(t, err)
		assert.Zero(t, inserted)

		var total int64
		require.NoError(t, db.Table("bill_records").Count(&total).Error)
		assert.Equal(t, int64(3), total)
	})

	t.Run("duplicates inside one call are skipped", func(t *testing.T) {
		recs := []*energy.BillRecord{
			energy.NewBillRecord(f.Consumer.ID, "03/2024", energy.Readings{}, batchID, "upload"),
			energy.NewBillRecord(f.Consumer.ID, "03/2024", energy.Readings{}, batchID, "upload"),
		}
		inserted, err := repo.CreateSkipDuplicates(ctx, recs)
		require.NoError(t, err)
		assert.Equal(t, int64(1), inserted)
	})

	t.Run("empty input", func(t *testing.T) {
		inserted, err := repo.CreateSkipDuplicates(ctx, nil)
		require.NoError(t, err)
		assert.Zero(t, inserted)
	})
}

func TestGormBillRecordRepository_FindByInstallationsAndPeriods(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	repo := NewGormBillRecordRepository(db, 0)
	ctx := context.Background()
	batchID := uuid.New()

	_, err := repo.CreateSkipDuplicates(ctx, []*energy.BillRecord{
		energy.NewBillRecord(f.Consumer.ID, "01/2024", energy.Readings{Consumption: ptr(1000), Received: ptr(10)}, batchID, "upload"),
		energy.NewBillRecord(f.Consumer.ID, "02/2024", energy.Readings{Consumption: ptr(900)}, batchID, "upload"),
		energy.NewBillRecord(f.Generator.ID, "01/2024", energy.Readings{Generation: ptr(5000)}, batchID, "upload"),
	})
	require.NoError(t, err)

	recs, err := repo.FindByInstallationsAndPeriods(ctx, []uuid.UUID{f.Consumer.ID}, []string{"01/2024"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 1000.0, *recs[0].Consumption)
	assert.Equal(t, 10.0, *recs[0].Received)
	assert.Nil(t, recs[0].Compensation)
	require.NotNil(t, recs[0].UploadBatchID)
	assert.Equal(t, batchID, *recs[0].UploadBatchID)

	none, err := repo.FindByInstallationsAndPeriods(ctx, nil, []string{"01/2024"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGormBillRecordRepository_InsertSQL(t *testing.T) {
	gormDB, mock, mockDB := newMockGorm(t)
	defer mockDB.Close()
	repo := NewGormBillRecordRepository(gormDB, 10)

	mock.ExpectExec(`INSERT INTO "bill_records" .* ON CONFLICT \("installation_id","period"\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	inserted, err := repo.CreateSkipDuplicates(context.Background(), []*energy.BillRecord{
		energy.NewBillRecord(uuid.New(), "01/2024", energy.Readings{}, uuid.New(), "upload"),
		energy.NewBillRecord(uuid.New(), "01/2024", energy.Readings{}, uuid.New(), "upload"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBillRecordRepository_InsertError(t *testing.T) {
	gormDB, mock, mockDB := newMockGorm(t)
	defer mockDB.Close()
	repo := NewGormBillRecordRepository(gormDB, 10)

	mock.ExpectExec(`INSERT INTO "bill_records"`).WillReturnError(errors.New("connection reset"))

	_, err := repo.CreateSkipDuplicates(context.Background(), []*energy.BillRecord{
		energy.NewBillRecord(uuid.New(), "01/2024", energy.Readings{}, uuid.New(), "upload"),
	})
	assert.Error(t, err)
}
