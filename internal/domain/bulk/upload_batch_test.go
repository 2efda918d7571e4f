package bulk

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status BatchStatus
		want   bool
	}{
		{"processing", BatchStatusProcessing, false},
		{"success", BatchStatusSuccess, true},
		{"failed", BatchStatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsTerminal())
			assert.True(t, tt.status.IsValid())
		})
	}
	assert.False(t, BatchStatus("done").IsValid())
}

func newBatch(t *testing.T) *UploadBatch {
	t.Helper()
	userID := uuid.New()
	b, err := NewUploadBatch("cemig_05_2024.xlsx", 2048, uuid.New(), "cemig", &userID)
	require.NoError(t, err)
	return b
}

func TestNewUploadBatch(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		b := newBatch(t)
		assert.Equal(t, BatchStatusProcessing, b.Status)
		assert.Equal(t, "cemig_05_2024.xlsx", b.FileName)
		assert.NotEqual(t, uuid.Nil, b.ID)
		assert.Nil(t, b.CompletedAt)
	})

	t.Run("empty file name", func(t *testing.T) {
		_, err := NewUploadBatch("", 10, uuid.New(), "cemig", nil)
		require.Error(t, err)
	})

	t.Run("negative size", func(t *testing.T) {
		_, err := NewUploadBatch("a.xlsx", -1, uuid.New(), "cemig", nil)
		require.Error(t, err)
	})

	t.Run("missing distributor", func(t *testing.T) {
		_, err := NewUploadBatch("a.xlsx", 10, uuid.Nil, "cemig", nil)
		require.Error(t, err)
	})
}

func TestUploadBatch_Complete(t *testing.T) {
	t.Run("success with processed rows", func(t *testing.T) {
		b := newBatch(t)
		err := b.Complete(Counts{Total: 10, Processed: 8, Errors: 2, Duplicate: 3}, nil)

		require.NoError(t, err)
		assert.True(t, b.IsSuccess())
		assert.Equal(t, 10, b.TotalCount)
		assert.Equal(t, 8, b.ProcessedCount)
		assert.Equal(t, 2, b.ErrorCount)
		assert.Equal(t, 3, b.DuplicateCount)
		assert.NotNil(t, b.CompletedAt)
	})

	t.Run("zero processed rows fails", func(t *testing.T) {
		b := newBatch(t)
		err := b.Complete(Counts{Total: 3, Processed: 0, Errors: 3}, nil)

		require.NoError(t, err)
		assert.True(t, b.IsFailed())
	})

	t.Run("cannot re-enter after terminal", func(t *testing.T) {
		b := newBatch(t)
		require.NoError(t, b.Complete(Counts{Total: 1, Processed: 1}, nil))

		err := b.Complete(Counts{Total: 1, Processed: 1}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "success")

		err = b.Fail(Counts{}, nil)
		require.Error(t, err)
	})
}

func TestUploadBatch_Fail(t *testing.T) {
	b := newBatch(t)
	details := &ErrorDetails{
		Type:                 ErrorTypeMissingInstallation,
		MissingInstallations: []string{"111", "222"},
		TotalMissing:         2,
	}

	err := b.Fail(Counts{Total: 5, Errors: 2, NotFound: 2}, details)

	require.NoError(t, err)
	assert.True(t, b.IsFailed())
	assert.Equal(t, 2, b.NotFoundCount)
	assert.Equal(t, 0, b.ProcessedCount)
	assert.Equal(t, ErrorTypeMissingInstallation, b.ErrorDetails.Type)
}

func TestUploadBatch_ErrorDetailsJSON(t *testing.T) {
	b := newBatch(t)

	raw, err := b.ErrorDetailsJSON()
	require.NoError(t, err)
	assert.Empty(t, raw)

	b.ErrorDetails = &ErrorDetails{Type: ErrorTypeOther, Warnings: []string{"espelhamento falhou"}}
	raw, err = b.ErrorDetailsJSON()
	require.NoError(t, err)
	assert.Contains(t, raw, `"type":"other"`)

	other := newBatch(t)
	require.NoError(t, other.SetErrorDetailsFromJSON(raw))
	assert.Equal(t, []string{"espelhamento falhou"}, other.ErrorDetails.Warnings)

	require.NoError(t, other.SetErrorDetailsFromJSON("null"))
	assert.Nil(t, other.ErrorDetails)

	assert.Error(t, other.SetErrorDetailsFromJSON("{broken"))
}

func TestBatchResult_AddWarning(t *testing.T) {
	r := &BatchResult{Outcome: OutcomeSuccess}
	r.AddWarning("arquivo não arquivado")

	assert.Equal(t, OutcomeDegraded, r.Outcome)
	assert.Len(t, r.Warnings, 1)
}
