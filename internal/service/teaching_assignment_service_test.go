package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-payroll-api/internal/models"
	appErrors "github.com/noah-isme/uni-payroll-api/pkg/errors"
)

func newAssignmentFixture() (*TeachingAssignmentService, *assignmentStore) {
	teachers := &teacherStore{items: map[string]*models.Teacher{
		"t1": {ID: "t1", Active: true},
		"t2": {ID: "t2", Active: false},
	}}
	classes := &classStore{items: map[string]*models.ClassDetail{
		"c1": {
			Class:       models.Class{ID: "c1", SubjectID: "s1", SemesterID: "sem-1", AcademicYearID: "ay-1", Schedule: models.ClassSchedule{{DayOfWeek: 3, StartPeriod: 1, PeriodsCount: 3}}},
			SubjectType: models.SubjectTypeTheory,
		},
		"c2": {
			Class: models.Class{ID: "c2", SubjectID: "s2", SemesterID: "sem-1", AcademicYearID: "ay-1", Schedule: models.ClassSchedule{{DayOfWeek: 3, StartPeriod: 3, PeriodsCount: 2}}},
		},
	}}
	assignments := &assignmentStore{items: map[string]*models.TeachingAssignmentDetail{
		"ta-1": {
			TeachingAssignment: models.TeachingAssignment{ID: "ta-1", TeacherID: "t1", ClassID: "c2", AcademicYearID: "ay-1", Status: models.AssignmentStatusAssigned},
			ClassCode:          "IT202-01",
			Schedule:           models.ClassSchedule{{DayOfWeek: 3, StartPeriod: 3, PeriodsCount: 2}},
		},
	}}
	svc := NewTeachingAssignmentService(assignments, teachers, classes, nil, nil)
	svc.now = func() time.Time { return date(2024, time.October, 1) }
	return svc, assignments
}

func assignmentRequest(classID string) TeachingAssignmentRequest {
	return TeachingAssignmentRequest{
		TeacherID:      "t1",
		ClassID:        classID,
		AssignmentType: "main",
		TeachingHours:  decimal.NewFromInt(45),
		Workload:       models.WorkloadDistribution{LectureHours: decimal.NewFromInt(30), PracticeHours: decimal.NewFromInt(15)},
		ScheduleStart:  date(2024, time.September, 2),
		ScheduleEnd:    date(2025, time.January, 10),
	}
}

func TestTeachingAssignmentCreateRejectsScheduleConflict(t *testing.T) {
	svc, assignments := newAssignmentFixture()

	_, err := svc.Create(context.Background(), assignmentRequest("c1"))
	appErr := assertAppError(t, err, appErrors.ErrConflict)
	conflicts, ok := appErr.Details.([]models.ScheduleConflict)
	require.True(t, ok)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "ta-1", conflicts[0].AssignmentID)
	assert.Equal(t, 3, conflicts[0].Existing.StartPeriod)
	assert.Nil(t, assignments.created)
}

func TestTeachingAssignmentCreateDerivesClassFields(t *testing.T) {
	svc, assignments := newAssignmentFixture()
	assignments.items["ta-1"].Status = models.AssignmentStatusCancelled

	assignment, err := svc.Create(context.Background(), assignmentRequest("c1"))
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusDraft, assignment.Status)
	assert.Equal(t, "s1", assignment.SubjectID)
	assert.Equal(t, "sem-1", assignment.SemesterID)
	assert.Equal(t, "ay-1", assignment.AcademicYearID)
	assert.True(t, assignment.TeachingCoefficient.Equal(decimal.NewFromInt(1)))
	require.NotNil(t, assignments.created)
}

func TestTeachingAssignmentCreateValidation(t *testing.T) {
	svc, assignments := newAssignmentFixture()
	ctx := context.Background()

	req := assignmentRequest("c1")
	req.Workload.OtherHours = decimal.NewFromInt(10)
	_, err := svc.Create(ctx, req)
	assertAppError(t, err, appErrors.ErrValidation)

	req = assignmentRequest("c1")
	req.TeachingHours = decimal.Zero
	_, err = svc.Create(ctx, req)
	assertAppError(t, err, appErrors.ErrValidation)

	req = assignmentRequest("c1")
	req.TeacherID = "t2"
	_, err = svc.Create(ctx, req)
	assertAppError(t, err, appErrors.ErrBusinessRule)

	req = assignmentRequest("missing")
	_, err = svc.Create(ctx, req)
	assertAppError(t, err, appErrors.ErrValidation)

	assignments.duplicate = true
	_, err = svc.Create(ctx, assignmentRequest("c2"))
	assertAppError(t, err, appErrors.ErrConflict)
}

func TestTeachingAssignmentApprove(t *testing.T) {
	svc, assignments := newAssignmentFixture()

	assignment, err := svc.Approve(context.Background(), "ta-1", "head", AssignmentApprovalRequest{Notes: " ok "})
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusConfirmed, assignment.Status)
	assert.True(t, assignment.IsApproved)
	require.NotNil(t, assignment.ApprovedBy)
	assert.Equal(t, "head", *assignment.ApprovedBy)
	assert.Equal(t, "ok", *assignment.ApprovalNotes)
	assert.Equal(t, models.AssignmentStatusConfirmed, assignments.items["ta-1"].Status)

	_, err = svc.Approve(context.Background(), "ta-1", "head", AssignmentApprovalRequest{})
	assertAppError(t, err, appErrors.ErrBusinessRule)
}

func TestTeachingAssignmentCancelIsUnconditional(t *testing.T) {
	svc, assignments := newAssignmentFixture()
	assignments.items["ta-1"].Status = models.AssignmentStatusCompleted
	assignments.items["ta-1"].Notes = "Học kỳ 1"

	assignment, err := svc.Cancel(context.Background(), "ta-1", AssignmentCancelRequest{Reason: "đổi giảng viên"})
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusCancelled, assignment.Status)
	assert.Equal(t, "Học kỳ 1\nHủy: đổi giảng viên", assignment.Notes)

	_, err = svc.Cancel(context.Background(), "ta-1", AssignmentCancelRequest{})
	assertAppError(t, err, appErrors.ErrValidation)
}

func TestTeachingAssignmentChangeStatus(t *testing.T) {
	svc, _ := newAssignmentFixture()
	ctx := context.Background()

	_, err := svc.ChangeStatus(ctx, "ta-1", AssignmentStatusRequest{Status: "completed"})
	appErr := assertAppError(t, err, appErrors.ErrBusinessRule)
	assert.Equal(t, map[string]string{"from": "assigned", "to": "completed"}, appErr.Details)

	_, err = svc.ChangeStatus(ctx, "ta-1", AssignmentStatusRequest{Status: "confirmed"})
	assertAppError(t, err, appErrors.ErrValidation)

	_, err = svc.Approve(ctx, "ta-1", "head", AssignmentApprovalRequest{})
	require.NoError(t, err)
	assignment, err := svc.ChangeStatus(ctx, "ta-1", AssignmentStatusRequest{Status: "in_progress"})
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusInProgress, assignment.Status)
}

func TestTeachingAssignmentUpdateTerminal(t *testing.T) {
	svc, assignments := newAssignmentFixture()
	assignments.items["ta-1"].Status = models.AssignmentStatusCancelled

	_, err := svc.Update(context.Background(), "ta-1", assignmentRequest("c2"))
	assertAppError(t, err, appErrors.ErrBusinessRule)
}

func TestTeachingAssignmentDeleteGuardedBySalaries(t *testing.T) {
	svc, assignments := newAssignmentFixture()
	assignments.salaryRefs = 1

	err := svc.Delete(context.Background(), "ta-1")
	assertAppError(t, err, appErrors.ErrHasDependents)

	assignments.salaryRefs = 0
	require.NoError(t, svc.Delete(context.Background(), "ta-1"))
	assert.Equal(t, []string{"ta-1"}, assignments.deleted)
}

func TestTeachingAssignmentUpdateIgnoresOwnSchedule(t *testing.T) {
	svc, assignments := newAssignmentFixture()

	assignment, err := svc.Update(context.Background(), "ta-1", assignmentRequest("c1"))
	require.NoError(t, err)
	assert.Equal(t, "c1", assignment.ClassID)
	assert.Equal(t, "c1", assignments.items["ta-1"].ClassID)
}

func TestTeachingAssignmentUpdateStillRejectsOtherConflicts(t *testing.T) {
	svc, assignments := newAssignmentFixture()
	assignments.items["ta-2"] = &models.TeachingAssignmentDetail{
		TeachingAssignment: models.TeachingAssignment{ID: "ta-2", TeacherID: "t1", ClassID: "c3", AcademicYearID: "ay-1", Status: models.AssignmentStatusConfirmed},
		ClassCode:          "IT303-01",
		Schedule:           models.ClassSchedule{{DayOfWeek: 3, StartPeriod: 2, PeriodsCount: 1}},
	}

	_, err := svc.Update(context.Background(), "ta-1", assignmentRequest("c1"))
	appErr := assertAppError(t, err, appErrors.ErrConflict)
	conflicts, ok := appErr.Details.([]models.ScheduleConflict)
	require.True(t, ok)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "ta-2", conflicts[0].AssignmentID)
}
