package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"studio-api/core/database"
	"studio-api/core/logger"
	"studio-api/core/params"
	"studio-api/modules/company/entity"

	"github.com/google/uuid"
)

type CompanyRepositoryInterface interface {
	CreateCompany(ctx context.Context, company *entity.Company) (*entity.Company, error)
	GetCompanyByID(ctx context.Context, id uuid.UUID) (*entity.Company, error)
	GetCompanyBySlug(ctx context.Context, slug string) (*entity.Company, error)
	GetCompaniesByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Company, error)
	UpdateCompany(ctx context.Context, company *entity.Company) error
	DeleteCompany(ctx context.Context, id uuid.UUID) error

	CreateMember(ctx context.Context, member *entity.Member) (*entity.Member, error)
	GetMemberByID(ctx context.Context, id uuid.UUID) (*entity.Member, error)
	GetMembersByCompany(ctx context.Context, companyID uuid.UUID, p params.QueryParams) (*entity.PaginatedMemberEntity, error)
	UpdateMember(ctx context.Context, member *entity.Member) error
	DeleteMember(ctx context.Context, id uuid.UUID) error
}

type CompanyRepository struct {
	DB database.IDatabase
}

func NewCompanyRepository(db database.IDatabase) *CompanyRepository {
	return &CompanyRepository{DB: db}
}

func (r *CompanyRepository) CreateCompany(ctx context.Context, company *entity.Company) (*entity.Company, error) {
	query := `
		INSERT INTO companies (name, slug, description, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, slug, description, owner_id, created_at, updated_at
	`

	var created entity.Company
	err := r.DB.GetContext(ctx, &created, query,
		company.Name, company.Slug, company.Description, company.OwnerID)
	if err != nil {
		logger.Error("CompanyRepository:CreateCompany", err)
		return nil, err
	}

	return &created, nil
}

func (r *CompanyRepository) GetCompanyByID(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
	query := `
		SELECT id, name, slug, description, owner_id, created_at, updated_at
		FROM companies WHERE id = $1
	`

	var company entity.Company
	err := r.DB.GetContext(ctx, &company, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CompanyRepository:GetCompanyByID", err)
		return nil, err
	}

	return &company, nil
}

func (r *CompanyRepository) GetCompanyBySlug(ctx context.Context, slug string) (*entity.Company, error) {
	query := `
		SELECT id, name, slug, description, owner_id, created_at, updated_at
		FROM companies WHERE slug = $1
	`

	var company entity.Company
	err := r.DB.GetContext(ctx, &company, query, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CompanyRepository:GetCompanyBySlug", err)
		return nil, err
	}

	return &company, nil
}

func (r *CompanyRepository) GetCompaniesByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Company, error) {
	query := `
		SELECT id, name, slug, description, owner_id, created_at, updated_at
		FROM companies WHERE owner_id = $1
		ORDER BY created_at
	`

	var companies []entity.Company
	if err := r.DB.SelectContext(ctx, &companies, query, ownerID); err != nil {
		logger.Error("CompanyRepository:GetCompaniesByOwner", err)
		return nil, err
	}
	return companies, nil
}

func (r *CompanyRepository) UpdateCompany(ctx context.Context, company *entity.Company) error {
	query := `
		UPDATE companies SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
	`

	if err := r.DB.ExecContext(ctx, query, company.ID, company.Name, company.Description); err != nil {
		logger.Error("CompanyRepository:UpdateCompany", err)
		return err
	}
	return nil
}

func (r *CompanyRepository) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM companies WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id); err != nil {
		logger.Error("CompanyRepository:DeleteCompany", err)
		return err
	}
	return nil
}

func (r *CompanyRepository) CreateMember(ctx context.Context, member *entity.Member) (*entity.Member, error) {
	query := `
		INSERT INTO members (company_id, full_name, email, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, company_id, full_name, email, role, is_active, created_at, updated_at
	`

	var created entity.Member
	err := r.DB.GetContext(ctx, &created, query,
		member.CompanyID, member.FullName, member.Email, member.Role, member.IsActive)
	if err != nil {
		logger.Error("CompanyRepository:CreateMember", err)
		return nil, err
	}

	return &created, nil
}

func (r *CompanyRepository) GetMemberByID(ctx context.Context, id uuid.UUID) (*entity.Member, error) {
	query := `
		SELECT id, company_id, full_name, email, role, is_active, created_at, updated_at
		FROM members WHERE id = $1
	`

	var member entity.Member
	err := r.DB.GetContext(ctx, &member, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CompanyRepository:GetMemberByID", err)
		return nil, err
	}

	return &member, nil
}

func (r *CompanyRepository) GetMembersByCompany(ctx context.Context, companyID uuid.UUID, p params.QueryParams) (*entity.PaginatedMemberEntity, error) {
	offset := (p.PageNumber - 1) * p.PageSize

	conditions := []string{"company_id = $1"}
	args := []any{companyID}
	argIndex := 2

	if p.Search != "" {
		conditions = append(conditions, fmt.Sprintf("full_name ILIKE $%d", argIndex))
		args = append(args, "%"+p.Search+"%")
		argIndex++
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	var totalItems int
	countQuery := `SELECT COUNT(*) FROM members` + whereClause
	if err := r.DB.GetContext(ctx, &totalItems, countQuery, args...); err != nil {
		logger.Error("CompanyRepository:GetMembersByCompany:Count", err)
		return nil, err
	}

	listQuery := fmt.Sprintf(`
		SELECT id, company_id, full_name, email, role, is_active, created_at, updated_at
		FROM members%s
		ORDER BY full_name, id
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)
	args = append(args, p.PageSize, offset)

	var members []entity.Member
	if err := r.DB.SelectContext(ctx, &members, listQuery, args...); err != nil {
		logger.Error("CompanyRepository:GetMembersByCompany:List", err)
		return nil, err
	}

	totalPages := 0
	if p.PageSize > 0 {
		totalPages = (totalItems + p.PageSize - 1) / p.PageSize
	}

	return &entity.PaginatedMemberEntity{
		Items:      members,
		TotalItems: totalItems,
		TotalPages: totalPages,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}

func (r *CompanyRepository) UpdateMember(ctx context.Context, member *entity.Member) error {
	query := `
		UPDATE members SET full_name = $2, email = $3, role = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		member.ID, member.FullName, member.Email, member.Role, member.IsActive)
	if err != nil {
		logger.Error("CompanyRepository:UpdateMember", err)
		return err
	}
	return nil
}

func (r *CompanyRepository) DeleteMember(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM members WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id); err != nil {
		logger.Error("CompanyRepository:DeleteMember", err)
		return err
	}
	return nil
}
