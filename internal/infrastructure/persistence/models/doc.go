// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain types to keep the domain layer free from ORM
// concerns: submitters and catalog stores convert between form payloads, reference
// records, and these models at the persistence boundary.
//
// Structure:
// - base.go: Shared model fields and naming conventions
// - refdata.go: Reference hierarchy tables backing the selector catalogs
// - orders.go: Order and recipe tables written on form submission
package models
