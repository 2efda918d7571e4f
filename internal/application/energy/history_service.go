package energy

import (
	"context"
	"fmt"
	"strings"

	"github.com/raas/backend/internal/domain/energy"
	"github.com/raas/backend/internal/domain/shared"
	"github.com/raas/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Limits of one history query
const (
	DefaultHistoryLimit = 24
	MaxHistoryLimit     = 120
)

// HistoryService reads the permanent energy history of installations
type HistoryService struct {
	installations energy.InstallationRepository
	records       energy.PermanentRecordRepository
	logger        *zap.Logger
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(
	installations energy.InstallationRepository,
	records energy.PermanentRecordRepository,
	l *zap.Logger,
) *HistoryService {
	if l == nil {
		l = zap.NewNop()
	}
	return &HistoryService{
		installations: installations,
		records:       records,
		logger:        l,
	}
}

// ForInstallation returns up to limit periods of an installation, newest first.
// An unknown installation number is shared.ErrNotFound; a known installation
// without uploads yields an empty list.
func (s *HistoryService) ForInstallation(ctx context.Context, number string, limit int) ([]*energy.PermanentEnergyRecord, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Número da instalação é obrigatório")
	}
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	if _, err := s.installations.FindByNumber(ctx, number); err != nil {
		return nil, err
	}

	records, err := s.records.FindByInstallationNumber(ctx, number, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load installation history: %w", err)
	}
	logger.For(ctx, s.logger).Debug("Installation history loaded",
		zap.String("installation", number),
		zap.Int("periods", len(records)))
	return records, nil
}
