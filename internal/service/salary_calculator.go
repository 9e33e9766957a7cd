package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/uni-payroll-api/internal/models"
)

// errNoAssignments is returned when a calculation has nothing to price.
var errNoAssignments = errors.New("calculation has no teaching assignments")

type assignmentBatchLookup interface {
	ListDetailsByIDs(ctx context.Context, teacherID string, ids []string) ([]models.TeachingAssignmentDetail, error)
}

// SalaryCalculator prices the assignment entries of a calculation and derives its totals.
type SalaryCalculator struct {
	teachers    teacherProfileLookup
	assignments assignmentBatchLookup
	engine      *RateEngine
	now         func() time.Time
}

// NewSalaryCalculator constructs a SalaryCalculator.
func NewSalaryCalculator(teachers teacherProfileLookup, assignments assignmentBatchLookup, engine *RateEngine) *SalaryCalculator {
	return &SalaryCalculator{teachers: teachers, assignments: assignments, engine: engine, now: time.Now}
}

// Calculate recomputes calc in memory and returns the audit event to persist with it.
// On error calc may hold partial results; the caller decides what to persist.
func (c *SalaryCalculator) Calculate(ctx context.Context, calc *models.SalaryCalculation, actor string) (models.SalaryEvent, error) {
	at := c.now().UTC()
	calc.ResetResults()

	if len(calc.Assignments) == 0 {
		return models.SalaryEvent{}, errNoAssignments
	}
	profile, err := c.teachers.FindProfile(ctx, calc.TeacherID)
	if err != nil {
		return models.SalaryEvent{}, fmt.Errorf("load teacher %s: %w", calc.TeacherID, err)
	}
	details, err := c.loadAssignments(ctx, calc)
	if err != nil {
		return models.SalaryEvent{}, err
	}
	rates, err := c.engine.LoadActive(ctx, at)
	if err != nil {
		return models.SalaryEvent{}, fmt.Errorf("load active rates: %w", err)
	}

	teacherCtx := teacherRateContext(profile, at)
	years := teacherCtx.YearsOfService
	for i := range calc.Assignments {
		entry := &calc.Assignments[i]
		detail := details[entry.AssignmentID]
		entry.ClassID = detail.ClassID
		entry.SubjectID = detail.SubjectID
		entry.AssignmentType = detail.AssignmentType
		entry.ClassType = detail.ClassType
		entry.SubjectType = detail.SubjectType
		entry.TotalHours = entry.BaseHours.Add(entry.OvertimeHours)

		applicable := c.engine.Select(rates, teacherCtx, assignmentRateContext(detail, entry.TotalHours), at)
		entry.ResetRates()
		for _, rate := range applicable {
			amount := rate.Calculate(entry.TotalHours, models.RateFactors{ExperienceYears: &years})
			entry.AppliedRates = append(entry.AppliedRates, models.AppliedRate{
				RateSettingID:    rate.ID,
				RateCode:         rate.Code,
				RateType:         rate.RateType,
				RateAmount:       rate.RateValues.BaseAmount,
				Coefficient:      rate.RateValues.Coefficient,
				HoursApplied:     entry.TotalHours,
				CalculatedAmount: amount,
			})
			entry.Total.Add(rate.RateType, amount)
		}
	}

	calc.Aggregate()
	degree := profile.DegreeCoefficient
	if !degree.IsPositive() {
		degree = decimal.NewFromInt(1)
	}
	calc.ApplyCoefficients(degree, models.PositionCoefficient(profile.Position), models.ExperienceCoefficient(years))

	calc.Status = models.SalaryStatusCalculated
	calc.CalculatedBy = &actor
	calc.CalculatedAt = &at
	calc.ValidationErrors = models.StringList{}
	note := fmt.Sprintf("gross %s", calc.TotalGrossSalary.StringFixed(0))
	return models.NewSalaryEvent(calc.ID, models.SalaryActionCalculated, actor, note, at), nil
}

func (c *SalaryCalculator) loadAssignments(ctx context.Context, calc *models.SalaryCalculation) (map[string]*models.TeachingAssignmentDetail, error) {
	ids := make([]string, 0, len(calc.Assignments))
	for _, entry := range calc.Assignments {
		ids = append(ids, entry.AssignmentID)
	}
	rows, err := c.assignments.ListDetailsByIDs(ctx, calc.TeacherID, ids)
	if err != nil {
		return nil, fmt.Errorf("load teaching assignments: %w", err)
	}
	details := make(map[string]*models.TeachingAssignmentDetail, len(rows))
	for i := range rows {
		details[rows[i].ID] = &rows[i]
	}
	for _, id := range ids {
		if _, ok := details[id]; !ok {
			return nil, fmt.Errorf("teaching assignment %s not found", id)
		}
	}
	return details, nil
}
