package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/raas/backend/internal/domain/bulk"
	"github.com/raas/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBatch(t *testing.T, distributorID uuid.UUID, name string) *bulk.UploadBatch {
	t.Helper()
	b, err := bulk.NewUploadBatch(name, 2048, distributorID, "cemig", nil)
	require.NoError(t, err)
	return b
}

func TestGormUploadBatchRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUploadBatchRepository(db)
	ctx := context.Background()
	distributorID := uuid.New()

	batch := newTestBatch(t, distributorID, "janeiro.xlsx")
	require.NoError(t, repo.Save(ctx, batch))

	found, err := repo.FindByID(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, bulk.BatchStatusProcessing, found.Status)
	assert.Nil(t, found.ErrorDetails)
	assert.Nil(t, found.CompletedAt)

	t.Run("update keeps counters and error details", func(t *testing.T) {
		require.NoError(t, batch.Complete(bulk.Counts{Total: 5, Processed: 3, Errors: 1, Duplicate: 1}, &bulk.ErrorDetails{
			Type:     bulk.ErrorTypeOther,
			Warnings: []string{"espelhamento falhou"},
		}))
		require.NoError(t, repo.Save(ctx, batch))

		found, err := repo.FindByID(ctx, batch.ID)
		require.NoError(t, err)
		assert.Equal(t, bulk.BatchStatusSuccess, found.Status)
		assert.Equal(t, 5, found.TotalCount)
		assert.Equal(t, 3, found.ProcessedCount)
		assert.Equal(t, 1, found.DuplicateCount)
		require.NotNil(t, found.ErrorDetails)
		assert.Equal(t, []string{"espelhamento falhou"}, found.ErrorDetails.Warnings)
		assert.NotNil(t, found.CompletedAt)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormUploadBatchRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUploadBatchRepository(db)
	ctx := context.Background()
	distA, distB := uuid.New(), uuid.New()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, newTestBatch(t, distA, "a.xlsx")))
	}
	failed := newTestBatch(t, distB, "b.xlsx")
	require.NoError(t, failed.Fail(bulk.Counts{Total: 2, Errors: 2, NotFound: 2}, nil))
	require.NoError(t, repo.Save(ctx, failed))

	t.Run("filters by distributor", func(t *testing.T) {
		res, err := repo.FindAll(ctx, bulk.UploadBatchFilter{DistributorID: &distA}, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), res.TotalCount)
		assert.Len(t, res.Items, 2)
		assert.Equal(t, 1, res.Page)
		assert.Equal(t, 2, res.PageSize)
	})

	t.Run("filters by status", func(t *testing.T) {
		status := bulk.BatchStatusFailed
		res, err := repo.FindAll(ctx, bulk.UploadBatchFilter{Status: &status}, 0, 0)
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, failed.ID, res.Items[0].ID)
		assert.Equal(t, shared.DefaultPageSize, res.PageSize)
	})

	t.Run("second page", func(t *testing.T) {
		res, err := repo.FindAll(ctx, bulk.UploadBatchFilter{DistributorID: &distA}, 2, 2)
		require.NoError(t, err)
		assert.Len(t, res.Items, 1)
	})
}

func TestGormUploadBatchRepository_FindAll_Sorting(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUploadBatchRepository(db)
	ctx := context.Background()
	distributorID := uuid.New()

	for _, name := range []string{"b.xlsx", "c.xlsx", "a.xlsx"} {
		require.NoError(t, repo.Save(ctx, newTestBatch(t, distributorID, name)))
	}

	t.Run("by file name ascending", func(t *testing.T) {
		res, err := repo.FindAll(ctx, bulk.UploadBatchFilter{SortBy: "file_name", SortOrder: "asc"}, 1, 10)
		require.NoError(t, err)
		require.Len(t, res.Items, 3)
		assert.Equal(t, "a.xlsx", res.Items[0].FileName)
		assert.Equal(t, "c.xlsx", res.Items[2].FileName)
	})

	t.Run("unknown column falls back to created_at", func(t *testing.T) {
		res, err := repo.FindAll(ctx, bulk.UploadBatchFilter{SortBy: "error_details; DROP TABLE upload_batches"}, 1, 10)
		require.NoError(t, err)
		assert.Len(t, res.Items, 3)
	})
}
