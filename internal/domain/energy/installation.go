package energy

import (
	"github.com/google/uuid"
)

// InstallationType distinguishes generating plants from consuming units
type InstallationType string

const (
	InstallationTypeGenerator InstallationType = "GENERATOR"
	InstallationTypeConsumer  InstallationType = "CONSUMER"
)

// IsValid checks if the installation type is valid
func (t InstallationType) IsValid() bool {
	return t == InstallationTypeGenerator || t == InstallationTypeConsumer
}

// InstallationStatus is the lifecycle status of an installation
type InstallationStatus string

const (
	InstallationStatusActive   InstallationStatus = "ACTIVE"
	InstallationStatusInactive InstallationStatus = "INACTIVE"
)

// Distributor is the utility company that issues the monthly readings
type Distributor struct {
	ID   uuid.UUID
	Name string
	Code string
}

// Owner is the customer (or renter) an installation belongs to
type Owner struct {
	ID       uuid.UUID
	Name     string
	Document string
	Email    string
}

// Installation is a physical metered unit registered with a distributor.
// It is read-only for the ingestion and billing flows.
type Installation struct {
	ID            uuid.UUID
	Number        string
	Type          InstallationType
	DistributorID uuid.UUID
	OwnerID       *uuid.UUID
	Status        InstallationStatus

	// Populated only when loaded with details
	Distributor *Distributor
	Owner       *Owner
}

// IsConsumer reports whether the installation is billable
func (i *Installation) IsConsumer() bool {
	return i.Type == InstallationTypeConsumer
}

// DistributorName returns the loaded distributor name or ""
func (i *Installation) DistributorName() string {
	if i.Distributor == nil {
		return ""
	}
	return i.Distributor.Name
}

// OwnerName returns the loaded owner name or ""
func (i *Installation) OwnerName() string {
	if i.Owner == nil {
		return ""
	}
	return i.Owner.Name
}

// OwnerDocument returns the loaded owner document or ""
func (i *Installation) OwnerDocument() string {
	if i.Owner == nil {
		return ""
	}
	return i.Owner.Document
}
