package service

import (
	"context"
	"strings"

	"studio-api/core/controller"
	"studio-api/core/errors"
	"studio-api/core/logger"
	"studio-api/core/params"
	"studio-api/core/tasks"
	"studio-api/core/utils"
	"studio-api/modules/company/dto"
	"studio-api/modules/company/entity"
	"studio-api/modules/company/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type InviteEnqueuer interface {
	EnqueueMemberInvite(p tasks.MemberInvitePayload)
}

type CompanyService struct {
	repo    repository.CompanyRepositoryInterface
	tasks   InviteEnqueuer
	baseURL string
}

type CompanyServiceInterface interface {
	CreateCompany(ctx context.Context, ownerID uuid.UUID, req *dto.CreateCompanyRequest) (*dto.CompanyResponse, *errors.AppError)
	GetCompany(ctx context.Context, id uuid.UUID) (*dto.CompanyResponse, *errors.AppError)
	ListCompanies(ctx context.Context, ownerID uuid.UUID) ([]dto.CompanyResponse, *errors.AppError)
	UpdateCompany(ctx context.Context, id uuid.UUID, req *dto.UpdateCompanyRequest) (*dto.CompanyResponse, *errors.AppError)
	DeleteCompany(ctx context.Context, id uuid.UUID) *errors.AppError

	CreateMember(ctx context.Context, companyID uuid.UUID, req *dto.CreateMemberRequest) (*dto.MemberResponse, *errors.AppError)
	GetMember(ctx context.Context, id uuid.UUID) (*dto.MemberResponse, *errors.AppError)
	ListMembers(ctx context.Context, companyID uuid.UUID, p params.QueryParams) (*entity.PaginatedMemberEntity, *errors.AppError)
	UpdateMember(ctx context.Context, id uuid.UUID, req *dto.UpdateMemberRequest) (*dto.MemberResponse, *errors.AppError)
	DeleteMember(ctx context.Context, id uuid.UUID) *errors.AppError
}

func NewCompanyService(repo repository.CompanyRepositoryInterface, enqueuer InviteEnqueuer, baseURL string) CompanyServiceInterface {
	return &CompanyService{repo: repo, tasks: enqueuer, baseURL: baseURL}
}

func (s *CompanyService) CreateCompany(ctx context.Context, ownerID uuid.UUID, req *dto.CreateCompanyRequest) (*dto.CompanyResponse, *errors.AppError) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.NewAppErrorWithDetails(errors.ErrInvalidRequestData, "Invalid company data",
			[]controller.ValidationError{controller.NewValidationError("name", "name is required")})
	}

	companySlug, appErr := s.uniqueSlug(ctx, req.Name)
	if appErr != nil {
		return nil, appErr
	}

	company := &entity.Company{
		Name:    req.Name,
		Slug:    companySlug,
		OwnerID: ownerID,
	}
	if req.Description != "" {
		company.Description = &req.Description
	}

	created, err := s.repo.CreateCompany(ctx, company)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create company", err)
	}

	logger.Info("CompanyService:CreateCompany", "company_id", created.ID, "slug", created.Slug)
	return dto.ToCompanyResponse(created), nil
}

// uniqueSlug slugifies the name and appends a short random suffix when the
// plain slug is already taken.
func (s *CompanyService) uniqueSlug(ctx context.Context, name string) (string, *errors.AppError) {
	base := slug.Make(name)
	existing, err := s.repo.GetCompanyBySlug(ctx, base)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to check slug", err)
	}
	if existing == nil {
		return base, nil
	}
	return base + "-" + strings.ToLower(utils.GenerateID()), nil
}

func (s *CompanyService) GetCompany(ctx context.Context, id uuid.UUID) (*dto.CompanyResponse, *errors.AppError) {
	company, err := s.repo.GetCompanyByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load company", err)
	}
	if company == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Company not found", nil)
	}
	return dto.ToCompanyResponse(company), nil
}

func (s *CompanyService) ListCompanies(ctx context.Context, ownerID uuid.UUID) ([]dto.CompanyResponse, *errors.AppError) {
	companies, err := s.repo.GetCompaniesByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list companies", err)
	}

	result := make([]dto.CompanyResponse, 0, len(companies))
	for i := range companies {
		result = append(result, *dto.ToCompanyResponse(&companies[i]))
	}
	return result, nil
}

func (s *CompanyService) UpdateCompany(ctx context.Context, id uuid.UUID, req *dto.UpdateCompanyRequest) (*dto.CompanyResponse, *errors.AppError) {
	company, err := s.repo.GetCompanyByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load company", err)
	}
	if company == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Company not found", nil)
	}

	if req.Name != "" {
		company.Name = req.Name
	}
	if req.Description != "" {
		company.Description = &req.Description
	}

	if err := s.repo.UpdateCompany(ctx, company); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update company", err)
	}

	return dto.ToCompanyResponse(company), nil
}

func (s *CompanyService) DeleteCompany(ctx context.Context, id uuid.UUID) *errors.AppError {
	company, err := s.repo.GetCompanyByID(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load company", err)
	}
	if company == nil {
		return errors.NewAppError(errors.ErrNotFound, "Company not found", nil)
	}

	if err := s.repo.DeleteCompany(ctx, id); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete company", err)
	}

	logger.Info("CompanyService:DeleteCompany", "company_id", id)
	return nil
}

func (s *CompanyService) CreateMember(ctx context.Context, companyID uuid.UUID, req *dto.CreateMemberRequest) (*dto.MemberResponse, *errors.AppError) {
	company, err := s.repo.GetCompanyByID(ctx, companyID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load company", err)
	}
	if company == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Company not found", nil)
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, errors.NewAppErrorWithDetails(errors.ErrInvalidRequestData, "Invalid member data",
			[]controller.ValidationError{controller.NewValidationError("full_name", "full_name is required")})
	}

	member := &entity.Member{
		CompanyID: companyID,
		FullName:  req.FullName,
		Role:      req.Role,
		IsActive:  true,
	}
	if req.Email != "" {
		member.Email = &req.Email
	}

	created, err := s.repo.CreateMember(ctx, member)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create member", err)
	}

	if created.Email != nil {
		s.tasks.EnqueueMemberInvite(tasks.MemberInvitePayload{
			Email:       *created.Email,
			MemberName:  created.FullName,
			CompanyName: company.Name,
			InviteURL:   s.baseURL + "/invite/" + company.Slug,
		})
	}

	logger.Info("CompanyService:CreateMember", "company_id", companyID, "member_id", created.ID)
	return dto.ToMemberResponse(created), nil
}

func (s *CompanyService) GetMember(ctx context.Context, id uuid.UUID) (*dto.MemberResponse, *errors.AppError) {
	member, err := s.repo.GetMemberByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load member", err)
	}
	if member == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Member not found", nil)
	}
	return dto.ToMemberResponse(member), nil
}

func (s *CompanyService) ListMembers(ctx context.Context, companyID uuid.UUID, p params.QueryParams) (*entity.PaginatedMemberEntity, *errors.AppError) {
	page, err := s.repo.GetMembersByCompany(ctx, companyID, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list members", err)
	}
	return page, nil
}

func (s *CompanyService) UpdateMember(ctx context.Context, id uuid.UUID, req *dto.UpdateMemberRequest) (*dto.MemberResponse, *errors.AppError) {
	member, err := s.repo.GetMemberByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load member", err)
	}
	if member == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Member not found", nil)
	}

	if req.FullName != "" {
		member.FullName = req.FullName
	}
	if req.Email != "" {
		member.Email = &req.Email
	}
	if req.Role != "" {
		member.Role = req.Role
	}
	if req.IsActive != nil {
		member.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateMember(ctx, member); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update member", err)
	}

	return dto.ToMemberResponse(member), nil
}

func (s *CompanyService) DeleteMember(ctx context.Context, id uuid.UUID) *errors.AppError {
	member, err := s.repo.GetMemberByID(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load member", err)
	}
	if member == nil {
		return errors.NewAppError(errors.ErrNotFound, "Member not found", nil)
	}

	if err := s.repo.DeleteMember(ctx, id); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete member", err)
	}

	logger.Info("CompanyService:DeleteMember", "member_id", id)
	return nil
}
