package entity

import (
	"studio-api/core/entity"

	"github.com/google/uuid"
)

// Package is a sellable studio offer: a named bundle with a price and an
// expected amount of shooting time.
type Package struct {
	entity.BaseEntity
	CompanyID     uuid.UUID `db:"company_id" json:"company_id"`
	Name          string    `db:"name" json:"name"`
	Description   *string   `db:"description" json:"description,omitempty"`
	PriceCents    int64     `db:"price_cents" json:"price_cents"`
	DurationHours int       `db:"duration_hours" json:"duration_hours"`
	IsActive      bool      `db:"is_active" json:"is_active"`
}

func (Package) TableName() string {
	return "packages"
}

type PaginatedPackageEntity = entity.Pagination[Package]
