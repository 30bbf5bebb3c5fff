package service

import (
	"context"
	"strings"

	"studio-api/core/errors"
	"studio-api/core/logger"
	"studio-api/core/params"
	"studio-api/modules/packages/dto"
	"studio-api/modules/packages/entity"
	"studio-api/modules/packages/repository"

	"github.com/google/uuid"
)

const defaultRecommendLimit = 3

type PackageService struct {
	repo        repository.PackageRepositoryInterface
	recommender Recommender
}

type PackageServiceInterface interface {
	CreatePackage(ctx context.Context, req *dto.CreatePackageRequest) (*dto.PackageResponse, *errors.AppError)
	GetPackage(ctx context.Context, id uuid.UUID) (*dto.PackageResponse, *errors.AppError)
	ListPackages(ctx context.Context, companyID uuid.UUID, p params.QueryParams) (*entity.PaginatedPackageEntity, *errors.AppError)
	UpdatePackage(ctx context.Context, id uuid.UUID, req *dto.UpdatePackageRequest) (*dto.PackageResponse, *errors.AppError)
	DeletePackage(ctx context.Context, id uuid.UUID) *errors.AppError
	RecommendPackages(ctx context.Context, req *dto.RecommendPackagesRequest) (*dto.RecommendPackagesResponse, *errors.AppError)
}

func NewPackageService(repo repository.PackageRepositoryInterface, recommender Recommender) PackageServiceInterface {
	return &PackageService{repo: repo, recommender: recommender}
}

func (s *PackageService) CreatePackage(ctx context.Context, req *dto.CreatePackageRequest) (*dto.PackageResponse, *errors.AppError) {
	if req.CompanyID == uuid.Nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Company id is required", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Package name is required", nil)
	}
	if req.PriceCents < 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Price cannot be negative", nil)
	}
	if req.DurationHours <= 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Duration must be positive", nil)
	}

	created, err := s.repo.CreatePackage(ctx, &entity.Package{
		CompanyID:     req.CompanyID,
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		PriceCents:    req.PriceCents,
		DurationHours: req.DurationHours,
		IsActive:      true,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create package", err)
	}

	result := dto.ToPackageResponse(created)
	return &result, nil
}

func (s *PackageService) GetPackage(ctx context.Context, id uuid.UUID) (*dto.PackageResponse, *errors.AppError) {
	pkg, err := s.repo.GetPackageByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get package", err)
	}
	if pkg == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Package not found", nil)
	}

	result := dto.ToPackageResponse(pkg)
	return &result, nil
}

func (s *PackageService) ListPackages(ctx context.Context, companyID uuid.UUID, p params.QueryParams) (*entity.PaginatedPackageEntity, *errors.AppError) {
	result, err := s.repo.GetPackagesByCompany(ctx, companyID, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list packages", err)
	}
	return result, nil
}

func (s *PackageService) UpdatePackage(ctx context.Context, id uuid.UUID, req *dto.UpdatePackageRequest) (*dto.PackageResponse, *errors.AppError) {
	pkg, err := s.repo.GetPackageByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get package", err)
	}
	if pkg == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Package not found", nil)
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Package name cannot be empty", nil)
		}
		pkg.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		pkg.Description = req.Description
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 0 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Price cannot be negative", nil)
		}
		pkg.PriceCents = *req.PriceCents
	}
	if req.DurationHours != nil {
		if *req.DurationHours <= 0 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Duration must be positive", nil)
		}
		pkg.DurationHours = *req.DurationHours
	}
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}

	if err := s.repo.UpdatePackage(ctx, pkg); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update package", err)
	}

	result := dto.ToPackageResponse(pkg)
	return &result, nil
}

func (s *PackageService) DeletePackage(ctx context.Context, id uuid.UUID) *errors.AppError {
	pkg, err := s.repo.GetPackageByID(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to get package", err)
	}
	if pkg == nil {
		return errors.NewAppError(errors.ErrNotFound, "Package not found", nil)
	}

	if err := s.repo.DeletePackage(ctx, id); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete package", err)
	}
	return nil
}

// RecommendPackages ranks the company's active packages against a client
// brief. A model-backed recommender is tried first; any failure there falls
// back to a deterministic local ranking so the endpoint always answers.
func (s *PackageService) RecommendPackages(ctx context.Context, req *dto.RecommendPackagesRequest) (*dto.RecommendPackagesResponse, *errors.AppError) {
	if req.CompanyID == uuid.Nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Company id is required", nil)
	}
	if strings.TrimSpace(req.Brief) == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Brief is required", nil)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultRecommendLimit
	}

	packages, err := s.repo.GetActivePackagesByCompany(ctx, req.CompanyID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load packages", err)
	}
	if len(packages) == 0 {
		return &dto.RecommendPackagesResponse{Packages: []dto.RecommendedPackage{}, Source: sourceFallback}, nil
	}

	if s.recommender != nil {
		ranked, rerr := s.recommender.Rank(ctx, req.Brief, packages, limit)
		if rerr == nil {
			return &dto.RecommendPackagesResponse{Packages: ranked, Source: sourceModel}, nil
		}
		logger.Warn("PackageService:RecommendPackages:ModelFallback", "error", rerr)
	}

	return &dto.RecommendPackagesResponse{
		Packages: rankByBrief(req.Brief, packages, limit),
		Source:   sourceFallback,
	}, nil
}
