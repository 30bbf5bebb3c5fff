package dto

import (
	"time"

	"studio-api/modules/packages/entity"

	"github.com/google/uuid"
)

// ===================== Request DTOs =====================

type CreatePackageRequest struct {
	CompanyID     uuid.UUID `json:"company_id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	PriceCents    int64     `json:"price_cents"`
	DurationHours int       `json:"duration_hours"`
}

type UpdatePackageRequest struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	PriceCents    *int64  `json:"price_cents,omitempty"`
	DurationHours *int    `json:"duration_hours,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

type RecommendPackagesRequest struct {
	CompanyID uuid.UUID `json:"company_id"`
	Brief     string    `json:"brief"`
	Limit     int       `json:"limit,omitempty"`
}

// ===================== Response DTOs =====================

type PackageResponse struct {
	ID            uuid.UUID `json:"id"`
	CompanyID     uuid.UUID `json:"company_id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	PriceCents    int64     `json:"price_cents"`
	DurationHours int       `json:"duration_hours"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type RecommendedPackage struct {
	PackageResponse
	Reason string `json:"reason,omitempty"`
}

type RecommendPackagesResponse struct {
	Packages []RecommendedPackage `json:"packages"`
	Source   string               `json:"source"`
}

// ===================== Mappers =====================

func ToPackageResponse(p *entity.Package) PackageResponse {
	return PackageResponse{
		ID:            p.ID,
		CompanyID:     p.CompanyID,
		Name:          p.Name,
		Description:   p.Description,
		PriceCents:    p.PriceCents,
		DurationHours: p.DurationHours,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
