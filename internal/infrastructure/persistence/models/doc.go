// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
// - base.go: shared id and timestamp columns
// - product.go: local catalog products
// - product_mapping.go: remote externalId to local product links
// - sync_job.go: one row per synchronization pass
package models
