package models

import (
	"database/sql/driver"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AssignmentStatus captures the teaching assignment workflow.
type AssignmentStatus string

const (
	AssignmentStatusDraft      AssignmentStatus = "draft"
	AssignmentStatusAssigned   AssignmentStatus = "assigned"
	AssignmentStatusConfirmed  AssignmentStatus = "confirmed"
	AssignmentStatusInProgress AssignmentStatus = "in_progress"
	AssignmentStatusCompleted  AssignmentStatus = "completed"
	AssignmentStatusCancelled  AssignmentStatus = "cancelled"
)

// AssignmentType describes the role a teacher has in a class.
type AssignmentType string

const (
	AssignmentTypeMain       AssignmentType = "main"
	AssignmentTypeAssistant  AssignmentType = "assistant"
	AssignmentTypeSubstitute AssignmentType = "substitute"
)

var assignmentTransitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentStatusDraft:      {AssignmentStatusAssigned, AssignmentStatusConfirmed, AssignmentStatusCancelled},
	AssignmentStatusAssigned:   {AssignmentStatusConfirmed, AssignmentStatusCancelled},
	AssignmentStatusConfirmed:  {AssignmentStatusInProgress, AssignmentStatusCancelled},
	AssignmentStatusInProgress: {AssignmentStatusCompleted, AssignmentStatusCancelled},
}

// CanTransitionTo reports whether the workflow allows moving from s to next.
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	for _, allowed := range assignmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s AssignmentStatus) Terminal() bool {
	return s == AssignmentStatusCompleted || s == AssignmentStatusCancelled
}

// WorkloadDistribution splits teaching hours by activity.
type WorkloadDistribution struct {
	LectureHours  decimal.Decimal `json:"lecture_hours"`
	PracticeHours decimal.Decimal `json:"practice_hours"`
	LabHours      decimal.Decimal `json:"lab_hours"`
	OtherHours    decimal.Decimal `json:"other_hours"`
}

// Total sums every activity bucket.
func (w WorkloadDistribution) Total() decimal.Decimal {
	return w.LectureHours.Add(w.PracticeHours).Add(w.LabHours).Add(w.OtherHours)
}

// Value marshals the distribution for persistence.
func (w WorkloadDistribution) Value() (driver.Value, error) {
	return marshalJSONColumn(w, "workload distribution")
}

// Scan unmarshals the distribution from a JSONB column.
func (w *WorkloadDistribution) Scan(value interface{}) error {
	*w = WorkloadDistribution{}
	return scanJSONColumn(value, w, "workload distribution")
}

// Compensation holds pre-computed rate overrides for an assignment.
type Compensation struct {
	BaseRate       decimal.Decimal `json:"base_rate"`
	AdditionalRate decimal.Decimal `json:"additional_rate"`
	OvertimeRate   decimal.Decimal `json:"overtime_rate"`
}

// Value marshals compensation for persistence.
func (c Compensation) Value() (driver.Value, error) {
	return marshalJSONColumn(c, "compensation")
}

// Scan unmarshals compensation from a JSONB column.
func (c *Compensation) Scan(value interface{}) error {
	*c = Compensation{}
	return scanJSONColumn(value, c, "compensation")
}

// TeachingAssignment binds a teacher to a class within a semester.
type TeachingAssignment struct {
	ID                  string               `db:"id" json:"id"`
	TeacherID           string               `db:"teacher_id" json:"teacher_id"`
	ClassID             string               `db:"class_id" json:"class_id"`
	SubjectID           string               `db:"subject_id" json:"subject_id"`
	SemesterID          string               `db:"semester_id" json:"semester_id"`
	AcademicYearID      string               `db:"academic_year_id" json:"academic_year_id"`
	AssignmentType      AssignmentType       `db:"assignment_type" json:"assignment_type"`
	TeachingHours       decimal.Decimal      `db:"teaching_hours" json:"teaching_hours"`
	TeachingCoefficient decimal.Decimal      `db:"teaching_coefficient" json:"teaching_coefficient"`
	Workload            WorkloadDistribution `db:"workload_distribution" json:"workload_distribution"`
	Compensation        Compensation         `db:"compensation" json:"compensation"`
	ScheduleStart       time.Time            `db:"schedule_start" json:"schedule_start"`
	ScheduleEnd         time.Time            `db:"schedule_end" json:"schedule_end"`
	Status              AssignmentStatus     `db:"status" json:"status"`
	IsApproved          bool                 `db:"is_approved" json:"is_approved"`
	ApprovedBy          *string              `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt          *time.Time           `db:"approved_at" json:"approved_at,omitempty"`
	ApprovalNotes       *string              `db:"approval_notes" json:"approval_notes,omitempty"`
	Notes               string               `db:"notes" json:"notes"`
	CreatedAt           time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time            `db:"updated_at" json:"updated_at"`
}

// Approve confirms the assignment and stamps the approval block.
func (a *TeachingAssignment) Approve(approvedBy, notes string, at time.Time) {
	a.Status = AssignmentStatusConfirmed
	a.IsApproved = true
	a.ApprovedBy = &approvedBy
	a.ApprovedAt = &at
	if trimmed := strings.TrimSpace(notes); trimmed != "" {
		a.ApprovalNotes = &trimmed
	}
}

// Cancel appends the reason to the notes and forces the cancelled status.
// The current status is not checked, so completed assignments can be cancelled.
func (a *TeachingAssignment) Cancel(reason string) {
	reason = strings.TrimSpace(reason)
	if reason != "" {
		if a.Notes != "" {
			a.Notes += "\n"
		}
		a.Notes += "Hủy: " + reason
	}
	a.Status = AssignmentStatusCancelled
}

// TeachingAssignmentDetail enriches an assignment with class and subject data.
type TeachingAssignmentDetail struct {
	TeachingAssignment
	ClassCode   string        `db:"class_code" json:"class_code"`
	ClassName   string        `db:"class_name" json:"class_name"`
	ClassType   ClassType     `db:"class_type" json:"class_type"`
	SubjectName string        `db:"subject_name" json:"subject_name"`
	SubjectType SubjectType   `db:"subject_type" json:"subject_type"`
	Schedule    ClassSchedule `db:"schedule" json:"schedule"`
}

// TeachingAssignmentFilter narrows assignment listings.
type TeachingAssignmentFilter struct {
	ListFilter
	TeacherID      string
	ClassID        string
	SemesterID     string
	AcademicYearID string
	Statuses       []AssignmentStatus
}

// ScheduleConflict describes an existing session that collides with a requested one.
type ScheduleConflict struct {
	AssignmentID string       `json:"assignment_id"`
	ClassID      string       `json:"class_id"`
	ClassCode    string       `json:"class_code"`
	Existing     ClassSession `json:"existing"`
	Requested    ClassSession `json:"requested"`
}

// FindScheduleConflicts returns every pair where a requested session overlaps an existing assignment's class schedule.
// Assignments on excludeClassID are skipped so a class never conflicts with itself.
// excludeAssignmentID skips the assignment being edited; empty means none.
func FindScheduleConflicts(requested ClassSchedule, existing []TeachingAssignmentDetail, excludeClassID, excludeAssignmentID string) []ScheduleConflict {
	var conflicts []ScheduleConflict
	for _, assignment := range existing {
		if assignment.ClassID == excludeClassID || assignment.Status == AssignmentStatusCancelled {
			continue
		}
		if excludeAssignmentID != "" && assignment.ID == excludeAssignmentID {
			continue
		}
		for _, current := range assignment.Schedule {
			for _, wanted := range requested {
				if wanted.Overlaps(current) {
					conflicts = append(conflicts, ScheduleConflict{
						AssignmentID: assignment.ID,
						ClassID:      assignment.ClassID,
						ClassCode:    assignment.ClassCode,
						Existing:     current,
						Requested:    wanted,
					})
				}
			}
		}
	}
	return conflicts
}
