package dto

import "github.com/google/uuid"

// ===================== Request DTOs =====================

// AvailabilityRequest is the body of POST /members/available.
// Dates are YYYY-MM-DD, hours are hour-of-day with start < end.
type AvailabilityRequest struct {
	CompanyID        uuid.UUID  `json:"company_id"`
	StartDate        string     `json:"start_date"`
	EndDate          string     `json:"end_date"`
	StartHour        int        `json:"start_hour"`
	EndHour          int        `json:"end_hour"`
	ExcludeProjectID *uuid.UUID `json:"exclude_project_id,omitempty"`
}

// ===================== Response DTOs =====================

// ConflictKind tags a conflict record. date_only means the date ranges
// intersect but the hour windows do not; date_and_time means both do.
type ConflictKind string

const (
	ConflictDateOnly    ConflictKind = "date_only"
	ConflictDateAndTime ConflictKind = "date_and_time"
)

// ConflictRecord references the project whose schedule collides with the
// requested window.
type ConflictRecord struct {
	Kind        ConflictKind `json:"kind"`
	ProjectID   uuid.UUID    `json:"project_id"`
	ProjectName string       `json:"project_name"`
	StartDate   *string      `json:"start_date,omitempty"`
	EndDate     *string      `json:"end_date,omitempty"`
	StartHour   int          `json:"start_hour"`
	EndHour     int          `json:"end_hour"`
}

// AvailabilityStatus is the three-tier member classification.
type AvailabilityStatus string

const (
	StatusFullyAvailable     AvailabilityStatus = "fully_available"
	StatusPartiallyAvailable AvailabilityStatus = "partially_available"
	StatusUnavailable        AvailabilityStatus = "unavailable"
)

// MemberAvailability is the per-member availability record. Conflicts holds
// only the date_and_time records when unavailable, or the date_only records
// when partially available.
type MemberAvailability struct {
	MemberID  uuid.UUID          `json:"member_id"`
	FullName  string             `json:"full_name"`
	Email     string             `json:"email"`
	AvatarURL *string            `json:"avatar_url,omitempty"`
	Status    AvailabilityStatus `json:"status"`
	Conflicts []ConflictRecord   `json:"conflicts"`
}

// AvailabilityCounts aggregates the classification.
type AvailabilityCounts struct {
	FullyAvailable     int `json:"fully_available"`
	PartiallyAvailable int `json:"partially_available"`
	Unavailable        int `json:"unavailable"`
	Total              int `json:"total"`
}

// AvailabilityReport is the full response of POST /members/available.
type AvailabilityReport struct {
	Members []MemberAvailability `json:"members"`
	Counts  AvailabilityCounts   `json:"counts"`
}
