package ingestion

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/raas/backend/internal/domain/bulk"
	"github.com/raas/backend/internal/domain/shared"
	sheetimport "github.com/raas/backend/internal/infrastructure/import"
)

const (
	// maxListedMissing is how many missing numbers are spelled out in the message
	maxListedMissing = 10
	// maxStoredMissing is how many missing numbers are kept in the batch payload
	maxStoredMissing = 100
)

// ErrDistributorNotFound is returned when the upload targets an unknown distributor
var ErrDistributorNotFound = shared.NewDomainError("DISTRIBUTOR_NOT_FOUND", "Distribuidora não encontrada")

// IngestionError is a fatal upload failure classified for the caller
type IngestionError struct {
	Type          bulk.ErrorType
	Message       string
	Installations []string
	// BatchID is set when the failure was recorded on a persisted batch
	BatchID *uuid.UUID
	Err     error
}

// Error implements the error interface
func (e *IngestionError) Error() string {
	switch {
	case e.Message == "" && e.Err != nil:
		return e.Err.Error()
	case e.Type == bulk.ErrorTypeOther && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *IngestionError) Unwrap() error {
	return e.Err
}

// newFormatError hides decoder internals behind the user-facing message
func newFormatError(err error) *IngestionError {
	msg := err.Error()
	switch {
	case errors.Is(err, sheetimport.ErrEmptyOrInvalidFormat):
		msg = sheetimport.ErrEmptyOrInvalidFormat.Error()
	case errors.Is(err, sheetimport.ErrFileTooLarge):
		msg = sheetimport.ErrFileTooLarge.Error()
	case errors.Is(err, sheetimport.ErrTooManyRows):
		msg = err.Error()
	}
	return &IngestionError{
		Type:    bulk.ErrorTypeInvalidFormat,
		Message: msg,
		Err:     err,
	}
}

func newOtherError(msg string, err error) *IngestionError {
	return &IngestionError{
		Type:    bulk.ErrorTypeOther,
		Message: msg,
		Err:     err,
	}
}

func newMissingInstallationsError(missing []string, batchID uuid.UUID) *IngestionError {
	return &IngestionError{
		Type:          bulk.ErrorTypeMissingInstallation,
		Message:       missingInstallationsMessage(missing),
		Installations: capStrings(missing, maxStoredMissing),
		BatchID:       &batchID,
	}
}

// missingInstallationsMessage names at most maxListedMissing numbers and
// summarizes the rest.
func missingInstallationsMessage(missing []string) string {
	listed := capStrings(missing, maxListedMissing)
	msg := "Instalações não cadastradas: " + strings.Join(listed, ", ")
	if rest := len(missing) - len(listed); rest > 0 {
		msg += fmt.Sprintf(" e mais %d", rest)
	}
	return msg
}

func capStrings(s []string, n int) []string {
	if len(s) <= n {
		return append([]string(nil), s...)
	}
	return append([]string(nil), s[:n]...)
}
