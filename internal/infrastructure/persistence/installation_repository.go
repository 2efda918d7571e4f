package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/raas/backend/internal/domain/energy"
	"github.com/raas/backend/internal/domain/shared"
	"github.com/raas/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// lookupChunkSize bounds the number of bind parameters in one IN query
const lookupChunkSize = 1000

// GormInstallationRepository implements energy.InstallationRepository using GORM
type GormInstallationRepository struct {
	db *gorm.DB
}

// NewGormInstallationRepository creates a new GormInstallationRepository
func NewGormInstallationRepository(db *gorm.DB) *GormInstallationRepository {
	return &GormInstallationRepository{db: db}
}

// FindIDsByNumbers resolves installation numbers of one distributor to their ids
func (r *GormInstallationRepository) FindIDsByNumbers(
	ctx context.Context,
	distributorID uuid.UUID,
	numbers []string,
) (map[string]uuid.UUID, error) {
	result := make(map[string]uuid.UUID, len(numbers))
	if len(numbers) == 0 {
		return result, nil
	}

	type row struct {
		ID     uuid.UUID
		Number string
	}

	for start := 0; start < len(numbers); start += lookupChunkSize {
		end := min(start+lookupChunkSize, len(numbers))

		var rows []row
		if err := r.db.WithContext(ctx).
			Model(&models.InstallationModel{}).
			Select("id", "number").
			Where("distributor_id = ? AND number IN ?", distributorID, numbers[start:end]).
			Scan(&rows).Error; err != nil {
			return nil, err
		}
		for _, rw := range rows {
			result[rw.Number] = rw.ID
		}
	}
	return result, nil
}

// FindByIDsWithDetails loads installations with distributor and owner preloaded
func (r *GormInstallationRepository) FindByIDsWithDetails(ctx context.Context, ids []uuid.UUID) ([]*energy.Installation, error) {
	if len(ids) == 0 {
		return []*energy.Installation{}, nil
	}

	var installationModels []models.InstallationModel
	if err := r.withDetails(ctx).
		Where("id IN ?", ids).
		Find(&installationModels).Error; err != nil {
		return nil, err
	}
	return toInstallations(installationModels), nil
}

// FindByDistributor lists all installations of a distributor, ordered by number
func (r *GormInstallationRepository) FindByDistributor(ctx context.Context, distributorID uuid.UUID) ([]*energy.Installation, error) {
	var installationModels []models.InstallationModel
	if err := r.withDetails(ctx).
		Where("distributor_id = ?", distributorID).
		Order("number ASC").
		Find(&installationModels).Error; err != nil {
		return nil, err
	}
	return toInstallations(installationModels), nil
}

// FindByNumber finds an installation by number
func (r *GormInstallationRepository) FindByNumber(ctx context.Context, number string) (*energy.Installation, error) {
	var model models.InstallationModel
	if err := r.withDetails(ctx).
		Where("number = ?", number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormInstallationRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Distributor").Preload("Owner")
}

func toInstallations(ms []models.InstallationModel) []*energy.Installation {
	installations := make([]*energy.Installation, len(ms))
	for i := range ms {
		installations[i] = ms[i].ToDomain()
	}
	return installations
}

// Ensure GormInstallationRepository implements energy.InstallationRepository
var _ energy.InstallationRepository = (*GormInstallationRepository)(nil)
