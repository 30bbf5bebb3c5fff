package service

import (
	"studio-api/modules/project/dto"
	"studio-api/modules/project/entity"
	"studio-api/modules/project/repository"
	scheduleservice "studio-api/modules/schedule/service"
)

// FindScheduleConflicts checks a proposed project window against every
// assigned member's other assignments. A row conflicts when its project's
// date range shares a calendar day with the proposal AND its hour range
// overlaps the proposal's. Rows come back pre-ordered by member then
// project, so the returned list is deterministic for a given state.
func FindScheduleConflicts(project *entity.Project, candidates []repository.CandidateRow) []dto.ScheduleConflict {
	var conflicts []dto.ScheduleConflict

	newWindow := dto.DateWindow{
		StartDate: dto.FormatDate(project.StartDate),
		EndDate:   dto.FormatDate(project.EndDate),
		StartHour: project.StartHour,
		EndHour:   project.EndHour,
	}

	for _, c := range candidates {
		if !scheduleservice.DateRangesOverlap(project.StartDate, project.EndDate, c.StartDate, c.EndDate) {
			continue
		}
		if !scheduleservice.HourRangesOverlap(project.StartHour, project.EndHour, c.StartHour, c.EndHour) {
			continue
		}
		conflicts = append(conflicts, dto.ScheduleConflict{
			MemberID:               c.MemberID,
			MemberName:             c.MemberName,
			ConflictingProjectID:   c.ProjectID,
			ConflictingProjectName: c.ProjectName,
			ConflictingDates: dto.DateWindow{
				StartDate: dto.FormatDate(c.StartDate),
				EndDate:   dto.FormatDate(c.EndDate),
				StartHour: c.StartHour,
				EndHour:   c.EndHour,
			},
			NewDates: newWindow,
		})
	}

	return conflicts
}
