// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
// - base.go: BaseModel and the model list
// - installation.go: distributors, owners and installations (read-only reference data)
// - energy.go: bill records and the permanent energy history
// - upload_batch.go: the upload batch ledger
//
// Uniqueness of (installation_id, period) is enforced by composite unique indexes
// on both record tables; repositories rely on them to skip duplicates.
package models
