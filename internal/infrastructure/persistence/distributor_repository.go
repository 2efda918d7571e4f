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

// GormDistributorRepository implements energy.DistributorRepository using GORM
type GormDistributorRepository struct {
	db *gorm.DB
}

// NewGormDistributorRepository creates a new GormDistributorRepository
func NewGormDistributorRepository(db *gorm.DB) *GormDistributorRepository {
	return &GormDistributorRepository{db: db}
}

// FindByID finds a distributor by ID
func (r *GormDistributorRepository) FindByID(ctx context.Context, id uuid.UUID) (*energy.Distributor, error) {
	var model models.DistributorModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormDistributorRepository implements energy.DistributorRepository
var _ energy.DistributorRepository = (*GormDistributorRepository)(nil)
