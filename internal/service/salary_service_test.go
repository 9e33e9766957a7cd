package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-payroll-api/internal/models"
	appErrors "github.com/noah-isme/uni-payroll-api/pkg/errors"
)

var salaryTestNow = date(2024, time.October, 1)

type salaryFixture struct {
	svc         *SalaryService
	salaries    *salaryStore
	rates       *rateStore
	teachers    *teacherStore
	assignments *assignmentStore
	cache       *memoryCache
}

func newSalaryFixture() *salaryFixture {
	teachers := &teacherStore{profiles: map[string]*models.TeacherProfile{
		"t1": {
			Teacher: models.Teacher{
				ID:           "t1",
				Code:         "GV001",
				FullName:     "Nguyễn Văn An",
				DepartmentID: "d1",
				DegreeID:     "deg-phd",
				Position:     models.PositionLecturer,
				HireDate:     date(2018, time.March, 1),
			},
			DegreeName:        "Tiến sĩ",
			DegreeCoefficient: decimal.RequireFromString("1.5"),
			DepartmentName:    "Công nghệ thông tin",
		},
	}}
	assignments := &assignmentStore{items: map[string]*models.TeachingAssignmentDetail{
		"ta-1": {
			TeachingAssignment: models.TeachingAssignment{
				ID:             "ta-1",
				TeacherID:      "t1",
				ClassID:        "c1",
				SubjectID:      "s1",
				AcademicYearID: "ay-1",
				AssignmentType: models.AssignmentTypeMain,
				TeachingHours:  decimal.NewFromInt(40),
				Status:         models.AssignmentStatusConfirmed,
			},
			ClassCode:   "IT101-01",
			ClassType:   models.ClassTypeLecture,
			SubjectType: models.SubjectTypeTheory,
		},
	}}
	rates := &rateStore{items: map[string]*models.RateSetting{}, active: []models.RateSetting{hourlyRate("r1", 100000)}}
	engine := NewRateEngine(rates, nil, nil)
	calculator := NewSalaryCalculator(teachers, assignments, engine)
	calculator.now = func() time.Time { return salaryTestNow }
	memory := &memoryCache{}
	cache := NewCacheService(memory, nil, time.Minute, nil, true)

	salaries := &salaryStore{}
	svc := NewSalaryService(salaries, teachers, assignments, calculator, cache, NewMetricsService(), nil, nil)
	svc.now = func() time.Time { return salaryTestNow }
	return &salaryFixture{svc: svc, salaries: salaries, rates: rates, teachers: teachers, assignments: assignments, cache: memory}
}

func salaryRequest() SalaryCreateRequest {
	return SalaryCreateRequest{
		TeacherID:      "t1",
		AcademicYearID: "ay-1",
		PeriodType:     "academic_year",
		PeriodStart:    date(2024, time.September, 1),
		PeriodEnd:      date(2025, time.June, 30),
	}
}

func (f *salaryFixture) created(t *testing.T) *models.SalaryCalculation {
	t.Helper()
	calc, err := f.svc.Create(context.Background(), salaryRequest(), "admin")
	require.NoError(t, err)
	return calc
}

func TestSalaryCreateSnapshotsAssignments(t *testing.T) {
	f := newSalaryFixture()

	calc := f.created(t)
	assert.Equal(t, models.SalaryStatusDraft, calc.Status)
	assert.Equal(t, 1, calc.Version)
	require.Len(t, calc.Assignments, 1)
	entry := calc.Assignments[0]
	assert.Equal(t, "ta-1", entry.AssignmentID)
	assert.Equal(t, "40", entry.BaseHours.String())
	assert.True(t, entry.OvertimeHours.IsZero())
	assert.Equal(t, models.ClassTypeLecture, entry.ClassType)
	assert.Equal(t, []string{models.SalaryActionCreated}, f.salaries.actions(calc.ID))
}

func TestSalaryCreateRejections(t *testing.T) {
	f := newSalaryFixture()
	ctx := context.Background()

	f.salaries.exists = true
	_, err := f.svc.Create(ctx, salaryRequest(), "admin")
	assertAppError(t, err, appErrors.ErrConflict)
	f.salaries.exists = false

	req := salaryRequest()
	req.TeacherID = "missing"
	_, err = f.svc.Create(ctx, req, "admin")
	assertAppError(t, err, appErrors.ErrValidation)

	req = salaryRequest()
	req.PeriodType = "semester"
	_, err = f.svc.Create(ctx, req, "admin")
	assertAppError(t, err, appErrors.ErrValidation)

	req = salaryRequest()
	req.AssignmentIDs = []string{"ta-1", "ta-x"}
	_, err = f.svc.Create(ctx, req, "admin")
	assertAppError(t, err, appErrors.ErrValidation)

	f.assignments.items["ta-1"].Status = models.AssignmentStatusDraft
	_, err = f.svc.Create(ctx, salaryRequest(), "admin")
	assertAppError(t, err, appErrors.ErrBusinessRule)
}

func TestSalaryCalculateWorkedExample(t *testing.T) {
	f := newSalaryFixture()
	calc := f.created(t)

	result, err := f.svc.Calculate(context.Background(), calc.ID, "accountant", 0)
	require.NoError(t, err)

	assert.Equal(t, models.SalaryStatusCalculated, result.Status)
	entry := result.Assignments[0]
	require.Len(t, entry.AppliedRates, 1)
	assert.Equal(t, "r1", entry.AppliedRates[0].RateSettingID)
	assert.Equal(t, "4000000", entry.AppliedRates[0].CalculatedAmount.String())
	assert.Equal(t, "4000000", entry.Total.BaseAmount.String())
	assert.Equal(t, "4000000", result.TotalBaseAmount.String())
	assert.Equal(t, "40", result.TotalBaseHours.String())
	assert.Equal(t, "2000000", result.Coefficients.Degree.AppliedAmount.String())
	assert.True(t, result.Coefficients.Position.AppliedAmount.IsZero())
	assert.Equal(t, "200000", result.Coefficients.Experience.AppliedAmount.String())
	assert.Equal(t, "6200000", result.TotalGrossSalary.String())
	assert.Equal(t, "6200000", result.TotalNetSalary.String())
	require.NotNil(t, result.CalculatedBy)
	assert.Equal(t, "accountant", *result.CalculatedBy)
	assert.Equal(t, 2, result.Version)
	assert.Equal(t, []string{models.SalaryActionCreated, models.SalaryActionCalculated}, f.salaries.actions(calc.ID))
}

func flatRate(id string, rateType models.RateType, amount int64) models.RateSetting {
	rate := hourlyRate(id, amount)
	rate.RateType = rateType
	return rate
}

func TestSalaryCalculateStacksRateCategories(t *testing.T) {
	f := newSalaryFixture()
	f.rates.active = []models.RateSetting{
		hourlyRate("r1", 100000),
		hourlyRate("r2", 50000),
		flatRate("r3", models.RateTypeBonus, 300000),
		flatRate("r4", models.RateTypeAllowance, 500000),
	}
	calc := f.created(t)

	result, err := f.svc.Calculate(context.Background(), calc.ID, "accountant", 0)
	require.NoError(t, err)

	entry := result.Assignments[0]
	require.Len(t, entry.AppliedRates, 4)
	assert.Equal(t, "4000000", entry.AppliedRates[0].CalculatedAmount.String())
	assert.Equal(t, "2000000", entry.AppliedRates[1].CalculatedAmount.String())
	assert.Equal(t, "300000", entry.AppliedRates[2].CalculatedAmount.String())
	assert.Equal(t, "500000", entry.AppliedRates[3].CalculatedAmount.String())
	assert.Equal(t, "6000000", entry.Total.BaseAmount.String())
	assert.Equal(t, "300000", entry.Total.BonusAmount.String())
	assert.Equal(t, "500000", entry.Total.AllowanceAmount.String())
	assert.Equal(t, "6800000", entry.Total.TotalAmount.String())

	assert.Equal(t, "6000000", result.TotalBaseAmount.String())
	assert.Equal(t, "300000", result.TotalBonusAmount.String())
	assert.Equal(t, "500000", result.TotalAllowanceAmount.String())
	assert.True(t, result.TotalOvertimeAmount.IsZero())
	assert.Equal(t, "3000000", result.Coefficients.Degree.AppliedAmount.String())
	assert.True(t, result.Coefficients.Position.AppliedAmount.IsZero())
	assert.Equal(t, "300000", result.Coefficients.Experience.AppliedAmount.String())
	assert.Equal(t, "10100000", result.TotalGrossSalary.String())
	assert.Equal(t, "10100000", result.TotalNetSalary.String())
}

func TestSalaryRecalculationIsIdempotent(t *testing.T) {
	f := newSalaryFixture()
	calc := f.created(t)
	ctx := context.Background()

	first, err := f.svc.Calculate(ctx, calc.ID, "accountant", 0)
	require.NoError(t, err)
	second, err := f.svc.Calculate(ctx, calc.ID, "accountant", 0)
	require.NoError(t, err)

	assert.True(t, first.TotalGrossSalary.Equal(second.TotalGrossSalary))
	assert.Len(t, second.Assignments[0].AppliedRates, 1)
	assert.True(t, first.TotalBaseAmount.Equal(second.TotalBaseAmount))
	assert.True(t, first.Coefficients.Total().Equal(second.Coefficients.Total()))
}

func TestSalaryCalculateKeepsDeductions(t *testing.T) {
	f := newSalaryFixture()
	calc := f.created(t)
	ctx := context.Background()

	deductions := decimal.NewFromInt(700000)
	_, err := f.svc.Update(ctx, calc.ID, SalaryUpdateRequest{Deductions: &deductions}, "accountant")
	require.NoError(t, err)

	result, err := f.svc.Calculate(ctx, calc.ID, "accountant", 0)
	require.NoError(t, err)
	assert.Equal(t, "6200000", result.TotalGrossSalary.String())
	assert.Equal(t, "5500000", result.TotalNetSalary.String())
}

func TestSalaryCalculateFailureRevertsToDraft(t *testing.T) {
	f := newSalaryFixture()
	calc := f.created(t)
	delete(f.teachers.profiles, "t1")

	_, err := f.svc.Calculate(context.Background(), calc.ID, "accountant", 0)
	appErr := assertAppError(t, err, appErrors.ErrCalculationFailed)
	assert.Error(t, appErr.Unwrap())

	stored := f.salaries.items[calc.ID]
	assert.Equal(t, models.SalaryStatusDraft, stored.Status)
	require.Len(t, stored.ValidationErrors, 1)
	assert.Contains(t, stored.ValidationErrors[0], "load teacher")
	assert.Equal(t, []string{models.SalaryActionCreated, models.SalaryActionCalculationFailed}, f.salaries.actions(calc.ID))
}

func TestSalaryApproveAndPayGuards(t *testing.T) {
	f := newSalaryFixture()
	calc := f.created(t)
	ctx := context.Background()

	_, err := f.svc.Approve(ctx, calc.ID, "head", SalaryActionRequest{})
	assertAppError(t, err, appErrors.ErrBusinessRule)
	_, err = f.svc.MarkAsPaid(ctx, calc.ID, "cashier", SalaryPaymentRequest{PaymentReference: "PAY-1"})
	assertAppError(t, err, appErrors.ErrBusinessRule)

	_, err = f.svc.Calculate(ctx, calc.ID, "accountant", 0)
	require.NoError(t, err)
	_, err = f.svc.MarkAsPaid(ctx, calc.ID, "cashier", SalaryPaymentRequest{PaymentReference: "PAY-1"})
	assertAppError(t, err, appErrors.ErrBusinessRule)

	approved, err := f.svc.Approve(ctx, calc.ID, "head", SalaryActionRequest{Notes: "đồng ý"})
	require.NoError(t, err)
	assert.Equal(t, models.SalaryStatusApproved, approved.Status)
	assert.Equal(t, "head", *approved.ApprovedBy)

	_, err = f.svc.Calculate(ctx, calc.ID, "accountant", 0)
	assertAppError(t, err, appErrors.ErrBusinessRule)

	_, err = f.svc.MarkAsPaid(ctx, calc.ID, "cashier", SalaryPaymentRequest{})
	assertAppError(t, err, appErrors.ErrValidation)

	paid, err := f.svc.MarkAsPaid(ctx, calc.ID, "cashier", SalaryPaymentRequest{PaymentReference: " PAY-1 "})
	require.NoError(t, err)
	assert.Equal(t, models.SalaryStatusPaid, paid.Status)
	assert.Equal(t, "PAY-1", *paid.PaymentReference)
	assert.Equal(t, salaryTestNow, *paid.PaidAt)

	err = f.svc.Archive(ctx, calc.ID, "admin", 0)
	assertAppError(t, err, appErrors.ErrBusinessRule)
	_, err = f.svc.Update(ctx, calc.ID, SalaryUpdateRequest{}, "admin")
	assertAppError(t, err, appErrors.ErrBusinessRule)

	events, err := f.svc.Audit(ctx, calc.ID)
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, models.SalaryActionPaid, events[3].Action)
	assert.Equal(t, "PAY-1", events[3].Notes)
}

func TestSalaryVersionConflict(t *testing.T) {
	f := newSalaryFixture()
	calc := f.created(t)

	_, err := f.svc.Calculate(context.Background(), calc.ID, "accountant", 7)
	assertAppError(t, err, appErrors.ErrVersionConflict)
}

func TestSalaryUpdateOvertime(t *testing.T) {
	f := newSalaryFixture()
	calc := f.created(t)
	ctx := context.Background()

	_, err := f.svc.Calculate(ctx, calc.ID, "accountant", 0)
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, calc.ID, SalaryUpdateRequest{
		OvertimeHours: map[string]decimal.Decimal{"ta-1": decimal.NewFromInt(5)},
	}, "accountant")
	require.NoError(t, err)
	assert.Equal(t, models.SalaryStatusDraft, updated.Status)
	assert.Equal(t, "45", updated.Assignments[0].TotalHours.String())

	result, err := f.svc.Calculate(ctx, calc.ID, "accountant", 0)
	require.NoError(t, err)
	assert.Equal(t, "4500000", result.TotalBaseAmount.String())
	assert.Equal(t, "5", result.TotalOvertimeHours.String())

	_, err = f.svc.Update(ctx, calc.ID, SalaryUpdateRequest{
		OvertimeHours: map[string]decimal.Decimal{"ta-9": decimal.NewFromInt(1)},
	}, "accountant")
	assertAppError(t, err, appErrors.ErrValidation)
}

func TestSalaryBatchPartialFailure(t *testing.T) {
	f := newSalaryFixture()
	ctx := context.Background()
	approved := f.created(t)
	approvedCalc := f.salaries.items[approved.ID]
	approvedCalc.Status = models.SalaryStatusApproved
	f.salaries.items["sc-paid"] = cloneCalculation(approvedCalc)
	f.salaries.items["sc-paid"].ID = "sc-paid"
	f.salaries.items["sc-paid"].Status = models.SalaryStatusPaid
	open := cloneCalculation(approvedCalc)
	open.ID = "sc-open"
	open.Status = models.SalaryStatusDraft
	f.salaries.items["sc-open"] = open

	result, err := f.svc.BatchCalculate(ctx, BatchCalculateRequest{IDs: []string{approved.ID, "sc-open", "sc-paid", "sc-missing"}}, "accountant")
	require.NoError(t, err)
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 3, result.Failed)
	assert.True(t, result.Results[1].Success)
	assert.Equal(t, "6200000", result.Results[1].Gross)
	assert.False(t, result.Results[0].Success)
	assert.NotEmpty(t, result.Results[3].Error)

	_, err = f.svc.BatchCalculate(ctx, BatchCalculateRequest{}, "accountant")
	assertAppError(t, err, appErrors.ErrValidation)

	f.svc.WithBatchLimit(2)
	_, err = f.svc.BatchCalculate(ctx, BatchCalculateRequest{IDs: []string{"a", "b", "c"}}, "accountant")
	assertAppError(t, err, appErrors.ErrValidation)
}

func TestSalaryArchive(t *testing.T) {
	f := newSalaryFixture()
	calc := f.created(t)

	require.NoError(t, f.svc.Archive(context.Background(), calc.ID, "admin", 0))
	assert.Equal(t, models.SalaryStatusArchived, f.salaries.items[calc.ID].Status)

	err := f.svc.Archive(context.Background(), calc.ID, "admin", 0)
	assertAppError(t, err, appErrors.ErrBusinessRule)
}

func TestSalaryStatisticsCachedUntilMutation(t *testing.T) {
	f := newSalaryFixture()
	ctx := context.Background()
	f.salaries.stats = &models.SalaryStatistics{TotalCalculations: 2, TotalGross: decimal.NewFromInt(9000000)}
	filter := models.SalaryStatisticsFilter{AcademicYearID: "ay-1"}

	first, hit, err := f.svc.Statistics(ctx, filter)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, first.TotalCalculations)
	assert.Contains(t, f.cache.entries, "salary:stats:ay-1:all:all:false")

	second, hit, err := f.svc.Statistics(ctx, filter)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, f.salaries.statsCalls)
	assert.True(t, second.TotalGross.Equal(first.TotalGross))

	f.created(t)
	assert.Empty(t, f.cache.entries)
	_, _, err = f.svc.Statistics(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 2, f.salaries.statsCalls)
}

func TestSalaryPayslipAndExport(t *testing.T) {
	f := newSalaryFixture()
	calc := f.created(t)
	ctx := context.Background()

	_, err := f.svc.Payslip(ctx, calc.ID)
	assertAppError(t, err, appErrors.ErrBusinessRule)

	_, err = f.svc.Calculate(ctx, calc.ID, "accountant", 0)
	require.NoError(t, err)
	file, err := f.svc.Payslip(ctx, calc.ID)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, "payslip-GV001-202409.pdf", file.Filename)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))

	f.salaries.exported = []models.SalaryListItem{{
		SalaryCalculation: *f.salaries.items[calc.ID],
		TeacherCode:       "GV001",
		TeacherName:       "Nguyễn Văn An",
	}}
	csv, err := f.svc.Export(ctx, models.SalaryFilter{})
	require.NoError(t, err)
	assert.Equal(t, "salaries-20241001-000000.csv", csv.Filename)
	assert.Contains(t, string(csv.Data), "GV001,Nguyễn Văn An,academic_year,2024-09-01,2025-06-30,calculated")
	assert.Contains(t, string(csv.Data), "6200000,6200000")
}

func TestSalaryCalculatorRequiresAssignments(t *testing.T) {
	f := newSalaryFixture()
	calc := &models.SalaryCalculation{TeacherID: "t1"}

	_, err := f.svc.calculator.Calculate(context.Background(), calc, "accountant")
	assert.True(t, errors.Is(err, errNoAssignments))
}

func TestSalaryReviewBeforeApproval(t *testing.T) {
	f := newSalaryFixture()
	calc := f.created(t)
	ctx := context.Background()

	_, err := f.svc.Review(ctx, calc.ID, "reviewer", SalaryActionRequest{})
	assertAppError(t, err, appErrors.ErrBusinessRule)

	_, err = f.svc.Calculate(ctx, calc.ID, "accountant", 0)
	require.NoError(t, err)
	reviewing, err := f.svc.Review(ctx, calc.ID, "reviewer", SalaryActionRequest{Notes: "kiểm tra giờ dạy"})
	require.NoError(t, err)
	assert.Equal(t, models.SalaryStatusReviewing, reviewing.Status)

	_, err = f.svc.Review(ctx, calc.ID, "reviewer", SalaryActionRequest{})
	assertAppError(t, err, appErrors.ErrBusinessRule)

	approved, err := f.svc.Approve(ctx, calc.ID, "head", SalaryActionRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.SalaryStatusApproved, approved.Status)
	assert.Equal(t, []string{
		models.SalaryActionCreated,
		models.SalaryActionCalculated,
		models.SalaryActionReviewed,
		models.SalaryActionApproved,
	}, f.salaries.actions(calc.ID))
}

func TestSalaryEditDuringReviewNeedsRecalculation(t *testing.T) {
	f := newSalaryFixture()
	calc := f.created(t)
	ctx := context.Background()

	_, err := f.svc.Calculate(ctx, calc.ID, "accountant", 0)
	require.NoError(t, err)
	_, err = f.svc.Review(ctx, calc.ID, "reviewer", SalaryActionRequest{})
	require.NoError(t, err)

	deductions := decimal.NewFromInt(100000)
	updated, err := f.svc.Update(ctx, calc.ID, SalaryUpdateRequest{Deductions: &deductions}, "accountant")
	require.NoError(t, err)
	assert.Equal(t, models.SalaryStatusDraft, updated.Status)

	_, err = f.svc.Approve(ctx, calc.ID, "head", SalaryActionRequest{})
	assertAppError(t, err, appErrors.ErrBusinessRule)
}
