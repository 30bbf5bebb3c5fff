package entity

import (
	"studio-api/core/entity"

	"github.com/google/uuid"
)

// Company is a tenant studio. Slug is URL-safe and unique across tenants.
type Company struct {
	entity.BaseEntity
	Name        string    `db:"name" json:"name"`
	Slug        string    `db:"slug" json:"slug"`
	Description *string   `db:"description" json:"description,omitempty"`
	OwnerID     uuid.UUID `db:"owner_id" json:"owner_id"`
}

func (Company) TableName() string {
	return "companies"
}

type PaginatedCompanyEntity = entity.Pagination[Company]

// Member is a bookable person within a company: photographer, editor,
// coordinator. Members are schedule subjects; they need not be login users.
type Member struct {
	entity.BaseEntity
	CompanyID uuid.UUID `db:"company_id" json:"company_id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Role      string    `db:"role" json:"role"`
	IsActive  bool      `db:"is_active" json:"is_active"`
}

func (Member) TableName() string {
	return "members"
}

type PaginatedMemberEntity = entity.Pagination[Member]
