package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func nullDec(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(v))
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

func activeRate(rateType RateType, base, coef string) *RateSetting {
	return &RateSetting{
		ID:            "rate-1",
		RateType:      rateType,
		Scope:         ScopeUniversity,
		RateValues:    RateValues{BaseAmount: dec(base), Coefficient: dec(coef)},
		EffectiveFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:        RateStatusActive,
		IsActive:      true,
	}
}

func TestRateSettingCalculateHourly(t *testing.T) {
	rate := activeRate(RateTypeBaseHourly, "100000", "1.0")

	assert.True(t, dec("4000000").Equal(rate.Calculate(dec("40"), RateFactors{})))
}

func TestRateSettingCalculateIgnoresHoursForNonHourly(t *testing.T) {
	for _, rateType := range []RateType{RateTypeBaseMonthly, RateTypeOvertime, RateTypeBonus, RateTypeAllowance, RateTypeCoefficient} {
		rate := activeRate(rateType, "250000", "1.2")
		first := rate.Calculate(dec("1"), RateFactors{})
		for _, hours := range []string{"0", "12.5", "400"} {
			assert.True(t, first.Equal(rate.Calculate(dec(hours), RateFactors{})), "rate type %s", rateType)
		}
		assert.True(t, dec("300000").Equal(first))
	}
}

func TestRateSettingCalculateExperienceSteps(t *testing.T) {
	rate := activeRate(RateTypeBaseMonthly, "1000000", "1")
	rate.RateValues.StepIncrement = dec("50000")

	assert.True(t, dec("1000000").Equal(rate.Calculate(decimal.Zero, RateFactors{ExperienceYears: intPtr(1)})))
	assert.True(t, dec("1150000").Equal(rate.Calculate(decimal.Zero, RateFactors{ExperienceYears: intPtr(7)})))
	assert.True(t, dec("1000000").Equal(rate.Calculate(decimal.Zero, RateFactors{})))
}

func TestRateSettingCalculateClampsToBounds(t *testing.T) {
	rate := activeRate(RateTypeBaseHourly, "100000", "1")
	rate.RateValues.MinimumRate = nullDec("500000")
	rate.RateValues.MaximumRate = nullDec("2000000")
	rate.RateValues.StepIncrement = dec("10000")

	for _, hours := range []string{"0", "1", "7.5", "19", "20", "21", "1000"} {
		for _, years := range []int{0, 3, 40} {
			got := rate.Calculate(dec(hours), RateFactors{ExperienceYears: intPtr(years)})
			assert.False(t, got.LessThan(dec("500000")), "hours %s years %d", hours, years)
			assert.False(t, got.GreaterThan(dec("2000000")), "hours %s years %d", hours, years)
		}
	}
}

func TestRateSettingCalculateRoundsToWholeUnit(t *testing.T) {
	rate := activeRate(RateTypeBaseHourly, "1000.3", "1")

	assert.Equal(t, "1500", rate.Calculate(dec("1.5"), RateFactors{}).String())
}

func TestRateSettingValidate(t *testing.T) {
	rate := activeRate(RateTypeBaseHourly, "100000", "1")
	require.NoError(t, rate.Validate())

	rate.RateValues.MinimumRate = nullDec("10")
	rate.RateValues.MaximumRate = nullDec("5")
	require.Error(t, rate.Validate())

	rate.RateValues.MaximumRate = nullDec("10")
	require.NoError(t, rate.Validate())

	end := rate.EffectiveFrom
	rate.EffectiveTo = &end
	err := rate.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "effective_from")
}

func TestRateSettingUsable(t *testing.T) {
	rate := activeRate(RateTypeBonus, "1", "1")
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	rate.EffectiveTo = &end

	assert.True(t, rate.Usable(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, rate.Usable(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, rate.Usable(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)))

	rate.Status = RateStatusApproved
	assert.False(t, rate.Usable(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
}

func TestRateSettingMatchesScope(t *testing.T) {
	teacher := RateTeacherContext{DepartmentID: "dep-1", DegreeID: "deg-1", Position: PositionLecturer}
	assignment := RateAssignmentContext{ClassType: ClassTypeLab, SubjectType: SubjectTypePractice, ClassID: "class-1"}

	rate := activeRate(RateTypeAllowance, "1", "1")
	rate.Scope = ScopeDepartment
	assert.True(t, rate.MatchesScope(teacher, assignment))

	rate.TargetID = strPtr("dep-2")
	assert.False(t, rate.MatchesScope(teacher, assignment))
	rate.TargetID = strPtr("dep-1")
	assert.True(t, rate.MatchesScope(teacher, assignment))

	rate.Scope = ScopePosition
	rate.TargetID = strPtr("lecturer")
	assert.True(t, rate.MatchesScope(teacher, assignment))

	rate.Scope = ScopeClassType
	rate.TargetID = strPtr("lab")
	assert.True(t, rate.MatchesScope(teacher, assignment))
	rate.TargetID = strPtr("lecture")
	assert.False(t, rate.MatchesScope(teacher, assignment))

	rate.Scope = ScopeUniversity
	assert.True(t, rate.MatchesScope(teacher, assignment))
}

func TestRateSettingCheckConditions(t *testing.T) {
	teacher := RateTeacherContext{YearsOfService: 4, Position: PositionSectionHead, Rating: nullDec("4.2")}
	assignment := RateAssignmentContext{TeachingHours: dec("45"), AssignmentType: AssignmentTypeMain}

	rate := activeRate(RateTypeBonus, "1", "1")
	rate.Conditions = RateConditions{
		MinimumExperience: intPtr(3),
		MinimumHours:      nullDec("30"),
		MaximumHours:      nullDec("60"),
		MinimumRating:     nullDec("4"),
	}
	assert.True(t, rate.CheckConditions(teacher, assignment))

	rate.Conditions.MinimumExperience = intPtr(5)
	assert.False(t, rate.CheckConditions(teacher, assignment))
	rate.Conditions.MinimumExperience = nil

	rate.Conditions.MaximumHours = nullDec("40")
	assert.False(t, rate.CheckConditions(teacher, assignment))
	rate.Conditions.MaximumHours = decimal.NullDecimal{}

	rate.Conditions.MinimumRating = nullDec("4.5")
	assert.False(t, rate.CheckConditions(teacher, assignment))

	teacher.Rating = decimal.NullDecimal{}
	assert.True(t, rate.CheckConditions(teacher, assignment))
}

func TestCriterionMatches(t *testing.T) {
	teacher := RateTeacherContext{YearsOfService: 10, Position: PositionDepartmentHead, DepartmentID: "dep-1"}
	assignment := RateAssignmentContext{TeachingHours: dec("30"), AssignmentType: AssignmentTypeSubstitute, SubjectType: SubjectTypeTheory}

	cases := []struct {
		criterion Criterion
		want      bool
	}{
		{Criterion{Key: "position", Operator: OperatorEq, Value: "department_head"}, true},
		{Criterion{Key: "position", Operator: OperatorNe, Value: "department_head"}, false},
		{Criterion{Key: "assignment_type", Operator: OperatorIn, Value: "main, substitute"}, true},
		{Criterion{Key: "subject_type", Operator: OperatorIn, Value: "practice,mixed"}, false},
		{Criterion{Key: "years_of_service", Operator: OperatorGte, Value: "10"}, true},
		{Criterion{Key: "years_of_service", Operator: OperatorGt, Value: "10"}, false},
		{Criterion{Key: "teaching_hours", Operator: OperatorLt, Value: "30.5"}, true},
		{Criterion{Key: "teaching_hours", Operator: OperatorLte, Value: "abc"}, false},
		{Criterion{Key: "position", Operator: OperatorGt, Value: "lecturer"}, false},
		{Criterion{Key: "rating", Operator: OperatorGte, Value: "1"}, false},
		{Criterion{Key: "unknown", Operator: OperatorEq, Value: "x"}, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.criterion.Matches(teacher, assignment), "%+v", tc.criterion)
	}
}

func TestRateValuesJSONColumnRoundTrip(t *testing.T) {
	values := RateValues{BaseAmount: dec("100000"), Coefficient: dec("1.25"), MaximumRate: nullDec("900000")}
	raw, err := values.Value()
	require.NoError(t, err)

	var scanned RateValues
	require.NoError(t, scanned.Scan(raw))
	assert.True(t, values.BaseAmount.Equal(scanned.BaseAmount))
	assert.True(t, scanned.MaximumRate.Valid)
	assert.False(t, scanned.MinimumRate.Valid)
}
