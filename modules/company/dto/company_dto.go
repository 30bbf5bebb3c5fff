package dto

import (
	"time"

	"studio-api/modules/company/entity"

	"github.com/google/uuid"
)

type CreateCompanyRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type UpdateCompanyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateMemberRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type UpdateMemberRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

type CompanyResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type MemberResponse struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func ToCompanyResponse(c *entity.Company) *CompanyResponse {
	resp := &CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		OwnerID:   c.OwnerID,
		CreatedAt: c.CreatedAt,
	}
	if c.Description != nil {
		resp.Description = *c.Description
	}
	return resp
}

func ToMemberResponse(m *entity.Member) *MemberResponse {
	resp := &MemberResponse{
		ID:        m.ID,
		CompanyID: m.CompanyID,
		FullName:  m.FullName,
		Role:      m.Role,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
	if m.Email != nil {
		resp.Email = *m.Email
	}
	return resp
}
