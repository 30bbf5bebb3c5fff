package service

import (
	"context"
	"time"

	"studio-api/core/controller"
	"studio-api/core/errors"
	"studio-api/core/logger"
	"studio-api/modules/schedule/dto"
	"studio-api/modules/schedule/repository"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// AvailabilityService classifies every member of a company against a
// requested schedule window. Read-only: identical inputs with no
// intervening writes yield identical reports.
type AvailabilityService struct {
	repo repository.ScheduleRepositoryInterface
}

type AvailabilityServiceInterface interface {
	GetAvailableMembers(ctx context.Context, req *dto.AvailabilityRequest) (*dto.AvailabilityReport, *errors.AppError)
}

func NewAvailabilityService(repo repository.ScheduleRepositoryInterface) AvailabilityServiceInterface {
	return &AvailabilityService{repo: repo}
}

func (s *AvailabilityService) GetAvailableMembers(ctx context.Context, req *dto.AvailabilityRequest) (*dto.AvailabilityReport, *errors.AppError) {
	startDate, endDate, appErr := validateWindow(req)
	if appErr != nil {
		return nil, appErr
	}

	exists, err := s.repo.CompanyExists(ctx, req.CompanyID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load company", err)
	}
	if !exists {
		return nil, errors.NewAppError(errors.ErrNotFound, "Company not found", nil)
	}

	rows, err := s.repo.GetMemberAssignments(ctx, req.CompanyID, req.ExcludeProjectID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load member assignments", err)
	}

	report := classify(rows, startDate, endDate, req.StartHour, req.EndHour)

	logger.Info("AvailabilityService:GetAvailableMembers",
		"company_id", req.CompanyID,
		"fully", report.Counts.FullyAvailable,
		"partially", report.Counts.PartiallyAvailable,
		"unavailable", report.Counts.Unavailable,
	)
	return report, nil
}

// validateWindow checks the request before any database access and returns
// the parsed date bounds. Violations carry the offending field name.
func validateWindow(req *dto.AvailabilityRequest) (time.Time, time.Time, *errors.AppError) {
	var zero time.Time

	fieldErr := func(field, msg string) *errors.AppError {
		return errors.NewAppErrorWithDetails(errors.ErrInvalidInput, msg,
			[]controller.ValidationError{controller.NewValidationError(field, msg)})
	}

	if req.CompanyID == uuid.Nil {
		return zero, zero, fieldErr("company_id", "company_id is required")
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return zero, zero, fieldErr("start_date", "start_date must be a valid YYYY-MM-DD date")
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return zero, zero, fieldErr("end_date", "end_date must be a valid YYYY-MM-DD date")
	}
	if endDate.Before(startDate) {
		return zero, zero, fieldErr("end_date", "end_date must not be before start_date")
	}

	if req.StartHour < 0 || req.StartHour > 24 {
		return zero, zero, fieldErr("start_hour", "start_hour must be between 0 and 24")
	}
	if req.EndHour < 0 || req.EndHour > 24 {
		return zero, zero, fieldErr("end_hour", "end_hour must be between 0 and 24")
	}
	if req.StartHour >= req.EndHour {
		return zero, zero, fieldErr("start_hour", "start_hour must be before end_hour")
	}

	return startDate, endDate, nil
}

// classify folds the joined member/assignment rows into per-member
// availability records. Each member ends up in exactly one of the three
// statuses; a date_and_time conflict dominates any number of date_only ones.
func classify(rows []repository.MemberAssignmentRow, startDate, endDate time.Time, startHour, endHour int) *dto.AvailabilityReport {
	report := &dto.AvailabilityReport{Members: []dto.MemberAvailability{}}

	var current *dto.MemberAvailability
	var dateOnly, dateAndTime []dto.ConflictRecord

	flush := func() {
		if current == nil {
			return
		}
		switch {
		case len(dateAndTime) > 0:
			current.Status = dto.StatusUnavailable
			current.Conflicts = dateAndTime
			report.Counts.Unavailable++
		case len(dateOnly) > 0:
			current.Status = dto.StatusPartiallyAvailable
			current.Conflicts = dateOnly
			report.Counts.PartiallyAvailable++
		default:
			current.Status = dto.StatusFullyAvailable
			current.Conflicts = []dto.ConflictRecord{}
			report.Counts.FullyAvailable++
		}
		report.Counts.Total++
		report.Members = append(report.Members, *current)
	}

	for i := range rows {
		row := &rows[i]

		if current == nil || current.MemberID != row.MemberID {
			flush()
			current = &dto.MemberAvailability{
				MemberID:  row.MemberID,
				FullName:  row.FullName,
				Email:     row.Email,
				AvatarURL: row.AvatarURL,
			}
			dateOnly = nil
			dateAndTime = nil
		}

		if row.ProjectID == nil {
			continue
		}

		if !DateRangesOverlap(&startDate, &endDate, row.StartDate, row.EndDate) {
			continue
		}

		record := dto.ConflictRecord{
			ProjectID:   *row.ProjectID,
			ProjectName: deref(row.ProjectName),
			StartDate:   formatDate(row.StartDate),
			EndDate:     formatDate(row.EndDate),
			StartHour:   derefInt(row.StartHour),
			EndHour:     derefInt(row.EndHour),
		}

		if HourRangesOverlap(startHour, endHour, derefInt(row.StartHour), derefInt(row.EndHour)) {
			record.Kind = dto.ConflictDateAndTime
			dateAndTime = append(dateAndTime, record)
		} else {
			record.Kind = dto.ConflictDateOnly
			dateOnly = append(dateOnly, record)
		}
	}
	flush()

	return report
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
