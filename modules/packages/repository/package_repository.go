package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"studio-api/core/database"
	"studio-api/core/logger"
	"studio-api/core/params"
	"studio-api/modules/packages/entity"

	"github.com/google/uuid"
)

type PackageRepositoryInterface interface {
	CreatePackage(ctx context.Context, pkg *entity.Package) (*entity.Package, error)
	GetPackageByID(ctx context.Context, id uuid.UUID) (*entity.Package, error)
	GetPackagesByCompany(ctx context.Context, companyID uuid.UUID, p params.QueryParams) (*entity.PaginatedPackageEntity, error)
	GetActivePackagesByCompany(ctx context.Context, companyID uuid.UUID) ([]entity.Package, error)
	UpdatePackage(ctx context.Context, pkg *entity.Package) error
	DeletePackage(ctx context.Context, id uuid.UUID) error
}

type PackageRepository struct {
	DB database.IDatabase
}

func NewPackageRepository(db database.IDatabase) *PackageRepository {
	return &PackageRepository{DB: db}
}

func (r *PackageRepository) CreatePackage(ctx context.Context, pkg *entity.Package) (*entity.Package, error) {
	query := `
		INSERT INTO packages (company_id, name, description, price_cents, duration_hours, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, company_id, name, description, price_cents, duration_hours, is_active, created_at, updated_at
	`

	var created entity.Package
	err := r.DB.GetContext(ctx, &created, query,
		pkg.CompanyID, pkg.Name, pkg.Description, pkg.PriceCents, pkg.DurationHours, pkg.IsActive)
	if err != nil {
		logger.Error("PackageRepository:CreatePackage", err)
		return nil, err
	}

	return &created, nil
}

func (r *PackageRepository) GetPackageByID(ctx context.Context, id uuid.UUID) (*entity.Package, error) {
	query := `
		SELECT id, company_id, name, description, price_cents, duration_hours, is_active, created_at, updated_at
		FROM packages WHERE id = $1
	`

	var pkg entity.Package
	err := r.DB.GetContext(ctx, &pkg, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("PackageRepository:GetPackageByID", err)
		return nil, err
	}

	return &pkg, nil
}

func (r *PackageRepository) GetPackagesByCompany(ctx context.Context, companyID uuid.UUID, p params.QueryParams) (*entity.PaginatedPackageEntity, error) {
	offset := (p.PageNumber - 1) * p.PageSize

	conditions := []string{"company_id = $1"}
	args := []any{companyID}
	argIndex := 2

	if p.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argIndex))
		args = append(args, "%"+p.Search+"%")
		argIndex++
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	var totalItems int
	countQuery := `SELECT COUNT(*) FROM packages` + whereClause
	if err := r.DB.GetContext(ctx, &totalItems, countQuery, args...); err != nil {
		logger.Error("PackageRepository:GetPackagesByCompany:Count", err)
		return nil, err
	}

	listQuery := fmt.Sprintf(`
		SELECT id, company_id, name, description, price_cents, duration_hours, is_active, created_at, updated_at
		FROM packages%s
		ORDER BY name, id
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)
	args = append(args, p.PageSize, offset)

	var packages []entity.Package
	if err := r.DB.SelectContext(ctx, &packages, listQuery, args...); err != nil {
		logger.Error("PackageRepository:GetPackagesByCompany:List", err)
		return nil, err
	}

	totalPages := 0
	if p.PageSize > 0 {
		totalPages = (totalItems + p.PageSize - 1) / p.PageSize
	}

	return &entity.PaginatedPackageEntity{
		Items:      packages,
		TotalItems: totalItems,
		TotalPages: totalPages,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}

func (r *PackageRepository) GetActivePackagesByCompany(ctx context.Context, companyID uuid.UUID) ([]entity.Package, error) {
	query := `
		SELECT id, company_id, name, description, price_cents, duration_hours, is_active, created_at, updated_at
		FROM packages
		WHERE company_id = $1 AND is_active = true
		ORDER BY price_cents, name
	`

	var packages []entity.Package
	if err := r.DB.SelectContext(ctx, &packages, query, companyID); err != nil {
		logger.Error("PackageRepository:GetActivePackagesByCompany", err)
		return nil, err
	}
	return packages, nil
}

func (r *PackageRepository) UpdatePackage(ctx context.Context, pkg *entity.Package) error {
	query := `
		UPDATE packages
		SET name = $2, description = $3, price_cents = $4, duration_hours = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		pkg.ID, pkg.Name, pkg.Description, pkg.PriceCents, pkg.DurationHours, pkg.IsActive)
	if err != nil {
		logger.Error("PackageRepository:UpdatePackage", err)
		return err
	}
	return nil
}

func (r *PackageRepository) DeletePackage(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM packages WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id); err != nil {
		logger.Error("PackageRepository:DeletePackage", err)
		return err
	}
	return nil
}
