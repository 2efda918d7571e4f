package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/raas/backend/internal/domain/energy"
)

// DistributorModel is the persistence model for a distributor
type DistributorModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"type:varchar(200);not null"`
	Code      string    `gorm:"type:varchar(50);uniqueIndex"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DistributorModel) TableName() string {
	return "distributors"
}

// ToDomain converts the persistence model to a domain Distributor
func (m *DistributorModel) ToDomain() *energy.Distributor {
	return &energy.Distributor{ID: m.ID, Name: m.Name, Code: m.Code}
}

// OwnerModel is the persistence model for an installation owner
type OwnerModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"type:varchar(200);not null"`
	Document  string    `gorm:"type:varchar(20);index"`
	Email     string    `gorm:"type:varchar(200)"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OwnerModel) TableName() string {
	return "owners"
}

// ToDomain converts the persistence model to a domain Owner
func (m *OwnerModel) ToDomain() *energy.Owner {
	return &energy.Owner{ID: m.ID, Name: m.Name, Document: m.Document, Email: m.Email}
}

// InstallationModel is the persistence model for an installation.
// Number is unique per distributor.
type InstallationModel struct {
	ID            uuid.UUID                 `gorm:"type:uuid;primary_key"`
	Number        string                    `gorm:"type:varchar(50);not null;uniqueIndex:idx_installations_distributor_number"`
	Type          energy.InstallationType   `gorm:"type:varchar(20);not null"`
	DistributorID uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex:idx_installations_distributor_number"`
	OwnerID       *uuid.UUID                `gorm:"type:uuid;index"`
	Status        energy.InstallationStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	CreatedAt     time.Time                 `gorm:"not null"`

	Distributor *DistributorModel `gorm:"foreignKey:DistributorID"`
	Owner       *OwnerModel       `gorm:"foreignKey:OwnerID"`
}

// TableName returns the table name for GORM
func (InstallationModel) TableName() string {
	return "installations"
}

// ToDomain converts the persistence model to a domain Installation,
// including distributor and owner when they were preloaded.
func (m *InstallationModel) ToDomain() *energy.Installation {
	inst := &energy.Installation{
		ID:            m.ID,
		Number:        m.Number,
		Type:          m.Type,
		DistributorID: m.DistributorID,
		OwnerID:       m.OwnerID,
		Status:        m.Status,
	}
	if m.Distributor != nil {
		inst.Distributor = m.Distributor.ToDomain()
	}
	if m.Owner != nil {
		inst.Owner = m.Owner.ToDomain()
	}
	return inst
}

// FromDomain populates the persistence model from a domain Installation
func (m *InstallationModel) FromDomain(i *energy.Installation) {
	m.ID = i.ID
	m.Number = i.Number
	m.Type = i.Type
	m.DistributorID = i.DistributorID
	m.OwnerID = i.OwnerID
	m.Status = i.Status
	if m.Status == "" {
		m.Status = energy.InstallationStatusActive
	}
}
