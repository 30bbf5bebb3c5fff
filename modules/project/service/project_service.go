package service

import (
	"context"
	"time"

	"studio-api/core/constants"
	"studio-api/core/controller"
	"studio-api/core/database"
	"studio-api/core/errors"
	"studio-api/core/logger"
	"studio-api/core/params"
	"studio-api/core/tasks"
	"studio-api/modules/project/dto"
	"studio-api/modules/project/entity"
	"studio-api/modules/project/repository"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Transactor runs a function inside a database transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(tx database.IDatabase) error) error
}

// TaskEnqueuer submits background calendar work. Enqueues are best-effort
// and happen only after the owning transaction has committed.
type TaskEnqueuer interface {
	EnqueueCalendarSync(p tasks.CalendarSyncPayload)
	EnqueueCalendarEdit(p tasks.CalendarEditPayload)
	EnqueueCalendarDelete(p tasks.CalendarDeletePayload)
}

type ProjectService struct {
	repo  repository.ProjectRepositoryInterface
	db    Transactor
	tasks TaskEnqueuer
}

type ProjectServiceInterface interface {
	CreateProject(ctx context.Context, req *dto.CreateProjectRequest) (*dto.ProjectResponse, *errors.AppError)
	GetProject(ctx context.Context, id uuid.UUID) (*dto.ProjectResponse, *errors.AppError)
	ListProjects(ctx context.Context, companyID uuid.UUID, p params.QueryParams) (*entity.PaginatedProjectEntity, *errors.AppError)
	UpdateProject(ctx context.Context, id uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, *errors.AppError)
	DeleteProject(ctx context.Context, id uuid.UUID) *errors.AppError
	AddAssignment(ctx context.Context, projectID uuid.UUID, req *dto.AddAssignmentRequest) (*dto.AssignmentResponse, *errors.AppError)
	RemoveAssignment(ctx context.Context, projectID, assignmentID uuid.UUID) *errors.AppError
}

func NewProjectService(repo repository.ProjectRepositoryInterface, db Transactor, enqueuer TaskEnqueuer) ProjectServiceInterface {
	return &ProjectService{repo: repo, db: db, tasks: enqueuer}
}

func (s *ProjectService) CreateProject(ctx context.Context, req *dto.CreateProjectRequest) (*dto.ProjectResponse, *errors.AppError) {
	startDate, endDate, appErr := parseWindow(req.StartDate, req.EndDate, req.StartHour, req.EndHour)
	if appErr != nil {
		return nil, appErr
	}
	if req.Name == "" {
		return nil, errors.NewAppErrorWithDetails(errors.ErrInvalidRequestData, "Invalid project data",
			[]controller.ValidationError{controller.NewValidationError("name", "name is required")})
	}

	project := &entity.Project{
		CompanyID: req.CompanyID,
		Name:      req.Name,
		StartDate: startDate,
		EndDate:   endDate,
		StartHour: req.StartHour,
		EndHour:   req.EndHour,
		Status:    entity.ProjectStatusPlanned,
	}
	if req.Description != "" {
		project.Description = &req.Description
	}

	created, err := s.repo.CreateProject(ctx, project)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create project", err)
	}

	logger.Info("ProjectService:CreateProject", "project_id", created.ID, "company_id", created.CompanyID)
	return dto.ToProjectResponse(created, nil), nil
}

func (s *ProjectService) GetProject(ctx context.Context, id uuid.UUID) (*dto.ProjectResponse, *errors.AppError) {
	project, err := s.repo.GetProjectByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load project", err)
	}
	if project == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Project not found", nil)
	}

	assignments, err := s.repo.GetAssignmentsByProjectID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load assignments", err)
	}

	return dto.ToProjectResponse(project, assignments), nil
}

func (s *ProjectService) ListProjects(ctx context.Context, companyID uuid.UUID, p params.QueryParams) (*entity.PaginatedProjectEntity, *errors.AppError) {
	page, err := s.repo.GetProjectsByCompany(ctx, companyID, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list projects", err)
	}
	return page, nil
}

// UpdateProject edits a project. When the request flags a schedule change,
// the new window is checked against every assigned member's other projects
// inside one transaction; any collision rejects the whole update.
func (s *ProjectService) UpdateProject(ctx context.Context, id uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, *errors.AppError) {
	project, err := s.repo.GetProjectByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load project", err)
	}
	if project == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Project not found", nil)
	}

	applyBasicFields(project, req)

	if !req.IsScheduleUpdate {
		if err := s.repo.UpdateProject(ctx, project); err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update project", err)
		}
		assignments, err := s.repo.GetAssignmentsByProjectID(ctx, id)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load assignments", err)
		}
		return dto.ToProjectResponse(project, assignments), nil
	}

	if appErr := applyScheduleFields(project, req); appErr != nil {
		return nil, appErr
	}

	var (
		appErr      *errors.AppError
		assignments []entity.Assignment
	)
	txErr := s.db.WithinTransaction(ctx, func(tx database.IDatabase) error {
		txRepo := s.repo.WithTx(tx)

		var err error
		assignments, err = txRepo.GetAssignmentsByProjectID(ctx, id)
		if err != nil {
			return err
		}

		memberIDs := make([]uuid.UUID, len(assignments))
		for i, a := range assignments {
			memberIDs[i] = a.MemberID
		}
		if err := txRepo.AdvisoryLockMembers(ctx, memberIDs); err != nil {
			return err
		}

		candidates, err := txRepo.GetMemberOtherAssignments(ctx, id, project.CompanyID)
		if err != nil {
			return err
		}

		conflicts := FindScheduleConflicts(project, candidates)
		if len(conflicts) > 0 {
			appErr = errors.NewAppErrorWithDetails(errors.ErrScheduleConflict,
				"Schedule change conflicts with members' other projects", conflicts)
			return appErr
		}

		return txRepo.UpdateProject(ctx, project)
	})
	if appErr != nil {
		return nil, appErr
	}
	if txErr != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update project schedule", txErr)
	}

	for _, a := range assignments {
		if a.CalendarEventID != nil {
			s.tasks.EnqueueCalendarEdit(tasks.CalendarEditPayload{
				MemberID:        a.MemberID,
				EntityType:      constants.EntityTypeProject,
				EntityID:        id,
				CalendarEventID: *a.CalendarEventID,
			})
		} else {
			s.tasks.EnqueueCalendarSync(tasks.CalendarSyncPayload{
				MemberID:     a.MemberID,
				EntityType:   constants.EntityTypeProject,
				EntityID:     id,
				AssignmentID: a.ID,
			})
		}
	}

	logger.Info("ProjectService:UpdateProject", "project_id", id, "schedule_update", true)
	return dto.ToProjectResponse(project, assignments), nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, id uuid.UUID) *errors.AppError {
	project, err := s.repo.GetProjectByID(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load project", err)
	}
	if project == nil {
		return errors.NewAppError(errors.ErrNotFound, "Project not found", nil)
	}

	assignments, err := s.repo.GetAssignmentsByProjectID(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load assignments", err)
	}

	if err := s.repo.DeleteProject(ctx, id); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete project", err)
	}

	for _, a := range assignments {
		if a.CalendarEventID != nil {
			s.tasks.EnqueueCalendarDelete(tasks.CalendarDeletePayload{
				MemberID:        a.MemberID,
				CalendarEventID: *a.CalendarEventID,
			})
		}
	}

	logger.Info("ProjectService:DeleteProject", "project_id", id)
	return nil
}

func (s *ProjectService) AddAssignment(ctx context.Context, projectID uuid.UUID, req *dto.AddAssignmentRequest) (*dto.AssignmentResponse, *errors.AppError) {
	project, err := s.repo.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load project", err)
	}
	if project == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Project not found", nil)
	}
	if req.MemberID == uuid.Nil {
		return nil, errors.NewAppErrorWithDetails(errors.ErrInvalidRequestData, "Invalid assignment data",
			[]controller.ValidationError{controller.NewValidationError("member_id", "member_id is required")})
	}

	assignment := &entity.Assignment{
		ProjectID: projectID,
		MemberID:  req.MemberID,
		Role:      req.Role,
	}

	created, err := s.repo.CreateAssignment(ctx, assignment)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, errors.NewAppError(errors.ErrAlreadyExists, "Member is already assigned to this project", err)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create assignment", err)
	}

	s.tasks.EnqueueCalendarSync(tasks.CalendarSyncPayload{
		MemberID:     created.MemberID,
		EntityType:   constants.EntityTypeProject,
		EntityID:     projectID,
		AssignmentID: created.ID,
	})

	logger.Info("ProjectService:AddAssignment", "project_id", projectID, "member_id", created.MemberID)
	resp := dto.ToAssignmentResponse(created)
	return &resp, nil
}

// RemoveAssignment unassigns a member. A project must keep at least one
// assigned member, so removing the last assignment is rejected.
func (s *ProjectService) RemoveAssignment(ctx context.Context, projectID, assignmentID uuid.UUID) *errors.AppError {
	assignment, err := s.repo.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load assignment", err)
	}
	if assignment == nil || assignment.ProjectID != projectID {
		return errors.NewAppError(errors.ErrNotFound, "Assignment not found", nil)
	}

	count, err := s.repo.CountAssignments(ctx, projectID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to count assignments", err)
	}
	if count <= 1 {
		return errors.NewAppError(errors.ErrInvalidInput, "Cannot remove the only member assigned to the project", nil)
	}

	if err := s.repo.DeleteAssignment(ctx, assignmentID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete assignment", err)
	}

	if assignment.CalendarEventID != nil {
		s.tasks.EnqueueCalendarDelete(tasks.CalendarDeletePayload{
			MemberID:        assignment.MemberID,
			CalendarEventID: *assignment.CalendarEventID,
		})
	}

	logger.Info("ProjectService:RemoveAssignment", "project_id", projectID, "assignment_id", assignmentID)
	return nil
}

// ===================== Helpers =====================

func applyBasicFields(project *entity.Project, req *dto.UpdateProjectRequest) {
	if req.Name != "" {
		project.Name = req.Name
	}
	if req.Description != "" {
		project.Description = &req.Description
	}
	if req.Status != "" {
		project.Status = entity.ProjectStatus(req.Status)
	}
}

func applyScheduleFields(project *entity.Project, req *dto.UpdateProjectRequest) *errors.AppError {
	startHour := project.StartHour
	endHour := project.EndHour
	if req.StartHour != nil {
		startHour = *req.StartHour
	}
	if req.EndHour != nil {
		endHour = *req.EndHour
	}

	startStr := dto.FormatDate(project.StartDate)
	endStr := dto.FormatDate(project.EndDate)
	if req.StartDate != nil {
		startStr = req.StartDate
	}
	if req.EndDate != nil {
		endStr = req.EndDate
	}

	startDate, endDate, appErr := parseWindow(startStr, endStr, startHour, endHour)
	if appErr != nil {
		return appErr
	}

	project.StartDate = startDate
	project.EndDate = endDate
	project.StartHour = startHour
	project.EndHour = endHour
	return nil
}

func parseWindow(startStr, endStr *string, startHour, endHour int) (*time.Time, *time.Time, *errors.AppError) {
	var details []controller.ValidationError

	var startDate, endDate *time.Time
	if startStr != nil && *startStr != "" {
		t, err := time.Parse(dateLayout, *startStr)
		if err != nil {
			details = append(details, controller.NewValidationError("start_date", "must be YYYY-MM-DD"))
		} else {
			startDate = &t
		}
	}
	if endStr != nil && *endStr != "" {
		t, err := time.Parse(dateLayout, *endStr)
		if err != nil {
			details = append(details, controller.NewValidationError("end_date", "must be YYYY-MM-DD"))
		} else {
			endDate = &t
		}
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		details = append(details, controller.NewValidationError("end_date", "must not be before start_date"))
	}

	if startHour < 0 || startHour > 24 {
		details = append(details, controller.NewValidationError("start_hour", "must be between 0 and 24"))
	}
	if endHour < 0 || endHour > 24 {
		details = append(details, controller.NewValidationError("end_hour", "must be between 0 and 24"))
	}
	if startHour >= endHour {
		details = append(details, controller.NewValidationError("start_hour", "must be before end_hour"))
	}

	if len(details) > 0 {
		return nil, nil, errors.NewAppErrorWithDetails(errors.ErrInvalidRequestData, "Invalid schedule window", details)
	}
	return startDate, endDate, nil
}
