package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-payroll-api/internal/models"
	appErrors "github.com/noah-isme/uni-payroll-api/pkg/errors"
)

func newClassFixture() (*ClassService, *classStore, *assignmentStore) {
	classes := &classStore{items: map[string]*models.ClassDetail{
		"c1": {Class: models.Class{ID: "c1", Code: "IT101-01", SemesterID: "sem-1", AcademicYearID: "ay-1", MaxStudents: 60, EnrolledStudents: 45}},
	}}
	semesters := &semesterRepoStub{items: map[string]*models.Semester{"sem-1": {ID: "sem-1", AcademicYearID: "ay-1"}}}
	subjects := &subjectStore{items: map[string]*models.Subject{"s1": {ID: "s1"}}}
	assignments := &assignmentStore{items: map[string]*models.TeachingAssignmentDetail{
		"ta-1": {
			TeachingAssignment: models.TeachingAssignment{ID: "ta-1", TeacherID: "t1", ClassID: "c1", AcademicYearID: "ay-1", Status: models.AssignmentStatusConfirmed},
		},
		"ta-2": {
			TeachingAssignment: models.TeachingAssignment{ID: "ta-2", TeacherID: "t1", ClassID: "c9", AcademicYearID: "ay-1", Status: models.AssignmentStatusConfirmed},
			ClassCode:          "IT909-01",
			Schedule:           models.ClassSchedule{{DayOfWeek: 5, StartPeriod: 6, PeriodsCount: 3}},
		},
	}}
	return NewClassService(classes, semesters, subjects, assignments, nil, nil), classes, assignments
}

func classRequest(schedule models.ClassSchedule) ClassRequest {
	return ClassRequest{
		Code:             "IT101-01",
		Name:             "Nhập môn lập trình",
		SubjectID:        "s1",
		SemesterID:       "sem-1",
		ClassType:        "lecture",
		MaxStudents:      60,
		EnrolledStudents: 50,
		Schedule:         schedule,
		StartDate:        date(2024, time.September, 2),
		EndDate:          date(2025, time.January, 10),
	}
}

func TestClassServiceGetEnrollmentPercentage(t *testing.T) {
	svc, _, _ := newClassFixture()

	view, err := svc.Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "75", view.EnrollmentPercentage.String())
}

func TestClassServiceCreateTakesYearFromSemester(t *testing.T) {
	svc, _, _ := newClassFixture()

	class, err := svc.Create(context.Background(), classRequest(nil))
	require.NoError(t, err)
	assert.Equal(t, "ay-1", class.AcademicYearID)
	assert.Equal(t, models.ClassStatusPlanned, class.Status)
	assert.NotNil(t, class.Schedule)
}

func TestClassServiceCreateValidation(t *testing.T) {
	svc, _, _ := newClassFixture()
	ctx := context.Background()

	req := classRequest(nil)
	req.EnrolledStudents = 61
	_, err := svc.Create(ctx, req)
	assertAppError(t, err, appErrors.ErrValidation)

	req = classRequest(models.ClassSchedule{{DayOfWeek: 8, StartPeriod: 1, PeriodsCount: 1}})
	_, err = svc.Create(ctx, req)
	assertAppError(t, err, appErrors.ErrValidation)

	req = classRequest(nil)
	req.SemesterID = "missing"
	_, err = svc.Create(ctx, req)
	assertAppError(t, err, appErrors.ErrValidation)
}

func TestClassServiceUpdateChecksAssignedTeachers(t *testing.T) {
	svc, classes, _ := newClassFixture()

	_, err := svc.Update(context.Background(), "c1", classRequest(models.ClassSchedule{{DayOfWeek: 5, StartPeriod: 7, PeriodsCount: 2}}))
	appErr := assertAppError(t, err, appErrors.ErrConflict)
	found, ok := appErr.Details.([]TeacherScheduleConflict)
	require.True(t, ok)
	require.Len(t, found, 1)
	assert.Equal(t, "t1", found[0].TeacherID)
	assert.Equal(t, "IT909-01", found[0].Conflicts[0].ClassCode)
	assert.Nil(t, classes.updated)

	class, err := svc.Update(context.Background(), "c1", classRequest(models.ClassSchedule{{DayOfWeek: 4, StartPeriod: 7, PeriodsCount: 2}}))
	require.NoError(t, err)
	require.NotNil(t, classes.updated)
	assert.Equal(t, 50, class.EnrolledStudents)
}
