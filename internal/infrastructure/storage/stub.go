package storage

import (
	"context"

	"github.com/google/uuid"
)

// NoopArchive is used when object storage is disabled. It stores nothing
// and reports the key the file would have had.
type NoopArchive struct {
	KeyPrefix string
}

// NewNoopArchive creates a new NoopArchive
func NewNoopArchive(keyPrefix string) *NoopArchive {
	return &NoopArchive{KeyPrefix: keyPrefix}
}

// ArchiveUpload returns the archive key without storing anything
func (a *NoopArchive) ArchiveUpload(_ context.Context, distributorID, batchID uuid.UUID, fileName string, _ []byte) (string, error) {
	return ArchiveKey(a.KeyPrefix, distributorID, batchID, fileName), nil
}
