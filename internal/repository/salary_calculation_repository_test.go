package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-payroll-api/internal/models"
)

func TestSalaryCalculationRepositoryCreateWritesEvent(t *testing.T) {
	db, mock, cleanup := newReferenceRepoMock(t)
	defer cleanup()
	repo := NewSalaryCalculationRepository(db)

	calc := &models.SalaryCalculation{
		TeacherID:      "t1",
		AcademicYearID: "ay-1",
		PeriodType:     models.PeriodMonthly,
		PeriodStart:    time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:      time.Date(2024, 10, 31, 0, 0, 0, 0, time.UTC),
		Status:         models.SalaryStatusDraft,
		CreatedBy:      "admin",
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO salary_calculations")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO salary_calculation_events")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), models.SalaryActionCreated, "admin", sqlmock.AnyArg(), "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	event := models.NewSalaryEvent("", models.SalaryActionCreated, "admin", "", time.Now())
	require.NoError(t, repo.Create(context.Background(), calc, event))
	assert.NotEmpty(t, calc.ID)
	assert.Equal(t, 1, calc.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalaryCalculationRepositoryCreateRollsBackWhenEventFails(t *testing.T) {
	db, mock, cleanup := newReferenceRepoMock(t)
	defer cleanup()
	repo := NewSalaryCalculationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO salary_calculations")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO salary_calculation_events")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.SalaryCalculation{TeacherID: "t1"}, models.SalaryEvent{Action: models.SalaryActionCreated})
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalaryCalculationRepositorySave(t *testing.T) {
	db, mock, cleanup := newReferenceRepoMock(t)
	defer cleanup()
	repo := NewSalaryCalculationRepository(db)

	calc := &models.SalaryCalculation{ID: "sc-1", Version: 4, Status: models.SalaryStatusApproved}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE salary_calculations SET period_start = ")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO salary_calculation_events")).
		WithArgs(sqlmock.AnyArg(), "sc-1", models.SalaryActionApproved, "head", sqlmock.AnyArg(), "ok").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	event := models.SalaryEvent{Action: models.SalaryActionApproved, PerformedBy: "head", Notes: "ok"}
	require.NoError(t, repo.Save(context.Background(), calc, event))
	assert.Equal(t, 5, calc.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalaryCalculationRepositorySaveStaleVersion(t *testing.T) {
	db, mock, cleanup := newReferenceRepoMock(t)
	defer cleanup()
	repo := NewSalaryCalculationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE salary_calculations SET period_start = ")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	calc := &models.SalaryCalculation{ID: "sc-1", Version: 2}
	err := repo.Save(context.Background(), calc, models.SalaryEvent{Action: models.SalaryActionUpdated})
	assert.ErrorIs(t, err, ErrStaleVersion)
	assert.Equal(t, 2, calc.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalaryCalculationRepositoryExistsActiveWithoutSemester(t *testing.T) {
	db, mock, cleanup := newReferenceRepoMock(t)
	defer cleanup()
	repo := NewSalaryCalculationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("semester_id IS NOT DISTINCT FROM $3")).
		WithArgs("t1", "ay-1", nil, "academic_year", "archived").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsActive(context.Background(), "t1", "ay-1", nil, models.PeriodAcademicYear, "")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalaryCalculationRepositoryStatistics(t *testing.T) {
	db, mock, cleanup := newReferenceRepoMock(t)
	defer cleanup()
	repo := NewSalaryCalculationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM salary_calculations sc WHERE 1=1 AND sc.status <> $1 AND sc.academic_year_id = $2 GROUP BY sc.status")).
		WithArgs("archived", "ay-1").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count", "total_gross", "total_net"}).
			AddRow("calculated", 2, "2000000", "1900000").
			AddRow("paid", 1, "2000000", "2000000"))
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY t.department_id, d.name ORDER BY total_gross DESC")).
		WithArgs("archived", "ay-1").
		WillReturnRows(sqlmock.NewRows([]string{"department_id", "department_name", "teacher_count", "count", "total_gross", "total_net"}).
			AddRow("dep-1", "CNTT", 2, 3, "4000000", "3900000"))

	stats, err := repo.Statistics(context.Background(), models.SalaryStatisticsFilter{AcademicYearID: "ay-1", IncludeDepartments: true})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalCalculations)
	assert.True(t, stats.TotalGross.Equal(decimal.NewFromInt(4000000)))
	assert.Equal(t, "1333333", stats.AverageGross.String())
	require.Len(t, stats.ByDepartment, 1)
	assert.Equal(t, 2, stats.ByDepartment[0].TeacherCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalaryCalculationRepositoryListEvents(t *testing.T) {
	db, mock, cleanup := newReferenceRepoMock(t)
	defer cleanup()
	repo := NewSalaryCalculationRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM salary_calculation_events WHERE calculation_id = $1 ORDER BY performed_at ASC")).
		WithArgs("sc-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "calculation_id", "action", "performed_by", "performed_at", "notes"}).
			AddRow("e1", "sc-1", "created", "admin", now, "").
			AddRow("e2", "sc-1", "calculated", "admin", now.Add(time.Minute), ""))

	events, err := repo.ListEvents(context.Background(), "sc-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.SalaryActionCalculated, events[1].Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}
