package models

import (
	"database/sql/driver"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RateType enumerates the kinds of amounts a rate setting produces.
type RateType string

const (
	RateTypeBaseHourly  RateType = "base_hourly"
	RateTypeBaseMonthly RateType = "base_monthly"
	RateTypeOvertime    RateType = "overtime"
	RateTypeBonus       RateType = "bonus"
	RateTypeAllowance   RateType = "allowance"
	RateTypeCoefficient RateType = "coefficient"
)

// Valid reports whether the rate type is known.
func (t RateType) Valid() bool {
	switch t {
	case RateTypeBaseHourly, RateTypeBaseMonthly, RateTypeOvertime, RateTypeBonus, RateTypeAllowance, RateTypeCoefficient:
		return true
	}
	return false
}

// RateScope enumerates the entity a rate setting targets.
type RateScope string

const (
	ScopeUniversity  RateScope = "university"
	ScopeDepartment  RateScope = "department"
	ScopePosition    RateScope = "position"
	ScopeDegree      RateScope = "degree"
	ScopeSubjectType RateScope = "subject_type"
	ScopeClassType   RateScope = "class_type"
)

// Valid reports whether the scope is known.
func (s RateScope) Valid() bool {
	switch s {
	case ScopeUniversity, ScopeDepartment, ScopePosition, ScopeDegree, ScopeSubjectType, ScopeClassType:
		return true
	}
	return false
}

// RateStatus captures the approval lifecycle of a rate setting.
type RateStatus string

const (
	RateStatusDraft           RateStatus = "draft"
	RateStatusPendingApproval RateStatus = "pending_approval"
	RateStatusApproved        RateStatus = "approved"
	RateStatusActive          RateStatus = "active"
	RateStatusInactive        RateStatus = "inactive"
	RateStatusSuperseded      RateStatus = "superseded"
)

// Editable reports whether the setting may still be modified in place.
func (s RateStatus) Editable() bool {
	return s == RateStatusDraft || s == RateStatusPendingApproval
}

// ExperienceStepYears is the number of service years per step increment.
const ExperienceStepYears = 2

// RateValues holds the monetary parameters of a rate setting.
type RateValues struct {
	BaseAmount    decimal.Decimal     `json:"base_amount"`
	MinimumRate   decimal.NullDecimal `json:"minimum_rate"`
	MaximumRate   decimal.NullDecimal `json:"maximum_rate"`
	Coefficient   decimal.Decimal     `json:"coefficient"`
	StepIncrement decimal.Decimal     `json:"step_increment"`
}

// Value marshals rate values for persistence.
func (v RateValues) Value() (driver.Value, error) {
	return marshalJSONColumn(v, "rate values")
}

// Scan unmarshals rate values from a JSONB column.
func (v *RateValues) Scan(value interface{}) error {
	*v = RateValues{}
	return scanJSONColumn(value, v, "rate values")
}

// CriterionOperator is a comparison used by additional criteria.
type CriterionOperator string

const (
	OperatorEq  CriterionOperator = "eq"
	OperatorNe  CriterionOperator = "ne"
	OperatorGt  CriterionOperator = "gt"
	OperatorGte CriterionOperator = "gte"
	OperatorLt  CriterionOperator = "lt"
	OperatorLte CriterionOperator = "lte"
	OperatorIn  CriterionOperator = "in"
)

// Criterion is a typed key/operator/value triple evaluated against the rate context.
type Criterion struct {
	Key      string            `json:"key" validate:"required"`
	Operator CriterionOperator `json:"operator" validate:"required,oneof=eq ne gt gte lt lte in"`
	Value    string            `json:"value"`
}

// RateConditions restrict when a rate setting applies.
type RateConditions struct {
	MinimumExperience  *int                `json:"minimum_experience,omitempty"`
	MinimumHours       decimal.NullDecimal `json:"minimum_hours"`
	MaximumHours       decimal.NullDecimal `json:"maximum_hours"`
	MinimumRating      decimal.NullDecimal `json:"minimum_rating"`
	AdditionalCriteria []Criterion         `json:"additional_criteria,omitempty"`
}

// Value marshals conditions for persistence.
func (c RateConditions) Value() (driver.Value, error) {
	return marshalJSONColumn(c, "rate conditions")
}

// Scan unmarshals conditions from a JSONB column.
func (c *RateConditions) Scan(value interface{}) error {
	*c = RateConditions{}
	return scanJSONColumn(value, c, "rate conditions")
}

// RateSetting is a scoped, time-bounded, conditional pay rule.
type RateSetting struct {
	ID            string         `db:"id" json:"id"`
	Code          string         `db:"code" json:"code"`
	Name          string         `db:"name" json:"name"`
	Description   *string        `db:"description" json:"description,omitempty"`
	RateType      RateType       `db:"rate_type" json:"rate_type"`
	Scope         RateScope      `db:"applicable_scope" json:"applicable_scope"`
	TargetID      *string        `db:"target_id" json:"target_id,omitempty"`
	TargetModel   *string        `db:"target_model" json:"target_model,omitempty"`
	RateValues    RateValues     `db:"rate_values" json:"rate_values"`
	Conditions    RateConditions `db:"conditions" json:"conditions"`
	EffectiveFrom time.Time      `db:"effective_from" json:"effective_from"`
	EffectiveTo   *time.Time     `db:"effective_to" json:"effective_to,omitempty"`
	Priority      int            `db:"priority" json:"priority"`
	Status        RateStatus     `db:"status" json:"status"`
	IsActive      bool           `db:"is_active" json:"is_active"`
	Version       int            `db:"version" json:"version"`
	Supersedes    *string        `db:"supersedes" json:"supersedes,omitempty"`
	SupersededBy  *string        `db:"superseded_by" json:"superseded_by,omitempty"`
	ApprovedBy    *string        `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt    *time.Time     `db:"approved_at" json:"approved_at,omitempty"`
	CreatedBy     string         `db:"created_by" json:"created_by"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// RateSettingFilter narrows rate setting listings.
type RateSettingFilter struct {
	ListFilter
	RateType RateType
	Scope    RateScope
	Status   RateStatus
}

// Validate enforces the save-time invariants of a rate setting.
func (r *RateSetting) Validate() error {
	var problems []string
	if !r.RateType.Valid() {
		problems = append(problems, "rate_type không hợp lệ")
	}
	if !r.Scope.Valid() {
		problems = append(problems, "applicable_scope không hợp lệ")
	}
	if r.RateValues.BaseAmount.IsNegative() {
		problems = append(problems, "base_amount không được âm")
	}
	if r.RateValues.Coefficient.IsNegative() {
		problems = append(problems, "coefficient không được âm")
	}
	if r.RateValues.StepIncrement.IsNegative() {
		problems = append(problems, "step_increment không được âm")
	}
	minRate, maxRate := r.RateValues.MinimumRate, r.RateValues.MaximumRate
	if minRate.Valid && maxRate.Valid && minRate.Decimal.GreaterThan(maxRate.Decimal) {
		problems = append(problems, "minimum_rate phải nhỏ hơn hoặc bằng maximum_rate")
	}
	minHours, maxHours := r.Conditions.MinimumHours, r.Conditions.MaximumHours
	if minHours.Valid && maxHours.Valid && minHours.Decimal.GreaterThan(maxHours.Decimal) {
		problems = append(problems, "minimum_hours phải nhỏ hơn hoặc bằng maximum_hours")
	}
	if r.EffectiveFrom.IsZero() {
		problems = append(problems, "effective_from là bắt buộc")
	}
	if r.EffectiveTo != nil && !r.EffectiveFrom.Before(*r.EffectiveTo) {
		problems = append(problems, "effective_from phải trước effective_to")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// EffectiveAt reports whether at lies within the effective window.
func (r *RateSetting) EffectiveAt(at time.Time) bool {
	if at.Before(r.EffectiveFrom) {
		return false
	}
	if r.EffectiveTo != nil && at.After(*r.EffectiveTo) {
		return false
	}
	return true
}

// Usable reports whether the setting may take part in calculations at the given instant.
func (r *RateSetting) Usable(at time.Time) bool {
	return r.Status == RateStatusActive && r.IsActive && r.EffectiveAt(at)
}

// RateTeacherContext is the teacher snapshot used to match rate settings.
type RateTeacherContext struct {
	TeacherID      string
	DepartmentID   string
	DegreeID       string
	Position       TeacherPosition
	YearsOfService int
	Rating         decimal.NullDecimal
}

// RateAssignmentContext is the assignment snapshot used to match rate settings.
type RateAssignmentContext struct {
	TeachingHours  decimal.Decimal
	AssignmentType AssignmentType
	ClassID        string
	ClassType      ClassType
	SubjectID      string
	SubjectType    SubjectType
}

// MatchesScope reports whether the scope and target select the given context.
// A scope without a target matches every context.
func (r *RateSetting) MatchesScope(teacher RateTeacherContext, assignment RateAssignmentContext) bool {
	if r.Scope == ScopeUniversity {
		return true
	}
	if r.TargetID == nil || strings.TrimSpace(*r.TargetID) == "" {
		return true
	}
	target := strings.TrimSpace(*r.TargetID)
	switch r.Scope {
	case ScopeDepartment:
		return target == teacher.DepartmentID
	case ScopePosition:
		return target == string(teacher.Position)
	case ScopeDegree:
		return target == teacher.DegreeID
	case ScopeSubjectType:
		return target == string(assignment.SubjectType) || target == assignment.SubjectID
	case ScopeClassType:
		return target == string(assignment.ClassType) || target == assignment.ClassID
	}
	return false
}

// CheckConditions reports whether every condition holds for the context.
// Rating limits only apply when the teacher has a rating on record.
func (r *RateSetting) CheckConditions(teacher RateTeacherContext, assignment RateAssignmentContext) bool {
	c := r.Conditions
	if c.MinimumExperience != nil && teacher.YearsOfService < *c.MinimumExperience {
		return false
	}
	if c.MinimumHours.Valid && assignment.TeachingHours.LessThan(c.MinimumHours.Decimal) {
		return false
	}
	if c.MaximumHours.Valid && assignment.TeachingHours.GreaterThan(c.MaximumHours.Decimal) {
		return false
	}
	if c.MinimumRating.Valid && teacher.Rating.Valid && teacher.Rating.Decimal.LessThan(c.MinimumRating.Decimal) {
		return false
	}
	for _, criterion := range c.AdditionalCriteria {
		if !criterion.Matches(teacher, assignment) {
			return false
		}
	}
	return true
}

// AppliesTo combines usability, scope and condition checks.
func (r *RateSetting) AppliesTo(teacher RateTeacherContext, assignment RateAssignmentContext, at time.Time) bool {
	return r.Usable(at) && r.MatchesScope(teacher, assignment) && r.CheckConditions(teacher, assignment)
}

// RateFactors are optional inputs to Calculate.
type RateFactors struct {
	ExperienceYears *int
}

// Calculate computes the amount the setting contributes for the given hours.
func (r *RateSetting) Calculate(hours decimal.Decimal, factors RateFactors) decimal.Decimal {
	values := r.RateValues
	amount := values.BaseAmount.Mul(values.Coefficient)
	if r.RateType == RateTypeBaseHourly {
		amount = amount.Mul(hours)
	}
	if factors.ExperienceYears != nil && values.StepIncrement.IsPositive() {
		steps := int64(*factors.ExperienceYears / ExperienceStepYears)
		if steps > 0 {
			amount = amount.Add(values.StepIncrement.Mul(decimal.NewFromInt(steps)))
		}
	}
	if values.MinimumRate.Valid && amount.LessThan(values.MinimumRate.Decimal) {
		amount = values.MinimumRate.Decimal
	}
	if values.MaximumRate.Valid && amount.GreaterThan(values.MaximumRate.Decimal) {
		amount = values.MaximumRate.Decimal
	}
	return amount.Round(0)
}

// Matches evaluates the criterion against the context.
func (c Criterion) Matches(teacher RateTeacherContext, assignment RateAssignmentContext) bool {
	actual, numeric, ok := criterionValue(c.Key, teacher, assignment)
	if !ok {
		return false
	}
	switch c.Operator {
	case OperatorIn:
		for _, candidate := range strings.Split(c.Value, ",") {
			if cmp, ok := compareCriterion(actual, candidate, numeric); ok && cmp == 0 {
				return true
			}
		}
		return false
	case OperatorEq:
		cmp, ok := compareCriterion(actual, c.Value, numeric)
		return ok && cmp == 0
	case OperatorNe:
		cmp, ok := compareCriterion(actual, c.Value, numeric)
		return ok && cmp != 0
	}
	if !numeric {
		return false
	}
	cmp, ok := compareCriterion(actual, c.Value, true)
	if !ok {
		return false
	}
	switch c.Operator {
	case OperatorGt:
		return cmp > 0
	case OperatorGte:
		return cmp >= 0
	case OperatorLt:
		return cmp < 0
	case OperatorLte:
		return cmp <= 0
	}
	return false
}

func criterionValue(key string, teacher RateTeacherContext, assignment RateAssignmentContext) (string, bool, bool) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "position":
		return string(teacher.Position), false, true
	case "department_id":
		return teacher.DepartmentID, false, true
	case "degree_id":
		return teacher.DegreeID, false, true
	case "subject_type":
		return string(assignment.SubjectType), false, true
	case "class_type":
		return string(assignment.ClassType), false, true
	case "assignment_type":
		return string(assignment.AssignmentType), false, true
	case "teaching_hours":
		return assignment.TeachingHours.String(), true, true
	case "years_of_service":
		return strconv.Itoa(teacher.YearsOfService), true, true
	case "rating":
		if !teacher.Rating.Valid {
			return "", true, false
		}
		return teacher.Rating.Decimal.String(), true, true
	}
	return "", false, false
}

// compareCriterion returns the ordering of actual against expected. The flag is
// false when a numeric operand cannot be parsed.
func compareCriterion(actual, expected string, numeric bool) (int, bool) {
	expected = strings.TrimSpace(expected)
	if !numeric {
		if strings.EqualFold(actual, expected) {
			return 0, true
		}
		return strings.Compare(actual, expected), true
	}
	a, errA := decimal.NewFromString(actual)
	b, errB := decimal.NewFromString(expected)
	if errA != nil || errB != nil {
		return 0, false
	}
	return a.Cmp(b), true
}
