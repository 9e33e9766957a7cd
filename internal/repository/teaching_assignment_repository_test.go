package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-payroll-api/internal/models"
)

var assignmentDetailRowColumns = []string{
	"id", "teacher_id", "class_id", "subject_id", "semester_id", "academic_year_id", "assignment_type", "teaching_hours",
	"teaching_coefficient", "workload_distribution", "compensation", "schedule_start", "schedule_end", "status", "is_approved",
	"approved_by", "approved_at", "approval_notes", "notes", "created_at", "updated_at",
	"class_code", "class_name", "class_type", "schedule", "subject_name", "subject_type",
}

func TestTeachingAssignmentRepositoryListForPayroll(t *testing.T) {
	db, mock, cleanup := newReferenceRepoMock(t)
	defer cleanup()
	repo := NewTeachingAssignmentRepository(db)

	start := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	semester := "sem-1"

	rows := sqlmock.NewRows(assignmentDetailRowColumns).
		AddRow("ta-1", "t1", "c1", "s1", "sem-1", "ay-1", "main", "40", "1", `{"lecture_hours":"30","practice_hours":"10"}`, `{}`,
			start, end, "confirmed", true, "head", start, nil, "", start, start,
			"CS101-01", "Nhập môn lập trình", "lecture", `[{"day_of_week":2,"start_period":1,"periods_count":3}]`, "Lập trình", "theory")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE ta.teacher_id = $1 AND ta.academic_year_id = $2 AND ta.status = ANY($3)")).
		WithArgs("t1", "ay-1", pq.Array(payrollStatuses), end, start, "sem-1").
		WillReturnRows(rows)

	details, err := repo.ListForPayroll(context.Background(), PayrollQuery{
		TeacherID:      "t1",
		AcademicYearID: "ay-1",
		SemesterID:     &semester,
		PeriodStart:    start,
		PeriodEnd:      end,
	})
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "40", details[0].TeachingHours.String())
	assert.Equal(t, "40", details[0].Workload.Total().String())
	assert.Equal(t, models.ClassTypeLecture, details[0].ClassType)
	require.Len(t, details[0].Schedule, 1)
	assert.Equal(t, 3, details[0].Schedule[0].EndPeriod())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeachingAssignmentRepositoryCountSalaryReferences(t *testing.T) {
	db, mock, cleanup := newReferenceRepoMock(t)
	defer cleanup()
	repo := NewTeachingAssignmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM salary_calculations WHERE teaching_assignments @> $1::jsonb")).
		WithArgs(`[{"assignment_id":"ta-1"}]`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountSalaryReferences(context.Background(), "ta-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeachingAssignmentRepositoryListTeacherIDsByClass(t *testing.T) {
	db, mock, cleanup := newReferenceRepoMock(t)
	defer cleanup()
	repo := NewTeachingAssignmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT teacher_id FROM teaching_assignments WHERE class_id = $1 AND status <> $2")).
		WithArgs("c1", "cancelled").
		WillReturnRows(sqlmock.NewRows([]string{"teacher_id"}).AddRow("t1").AddRow("t2"))

	ids, err := repo.ListTeacherIDsByClass(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeachingAssignmentRepositoryListFiltersStatuses(t *testing.T) {
	db, mock, cleanup := newReferenceRepoMock(t)
	defer cleanup()
	repo := NewTeachingAssignmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND ta.teacher_id = $1 AND ta.status = ANY($2) ORDER BY ta.created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs("t1", pq.Array([]string{"draft", "assigned"})).
		WillReturnRows(sqlmock.NewRows(assignmentDetailRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM teaching_assignments ta")).
		WithArgs("t1", pq.Array([]string{"draft", "assigned"})).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	list, total, err := repo.List(context.Background(), models.TeachingAssignmentFilter{
		TeacherID: "t1",
		Statuses:  []models.AssignmentStatus{models.AssignmentStatusDraft, models.AssignmentStatusAssigned},
	})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
