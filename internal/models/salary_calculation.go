package models

import (
	"database/sql/driver"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodType describes the span a salary calculation covers.
type PeriodType string

const (
	PeriodMonthly      PeriodType = "monthly"
	PeriodSemester     PeriodType = "semester"
	PeriodAcademicYear PeriodType = "academic_year"
	PeriodCustom       PeriodType = "custom"
)

// SalaryStatus captures the salary calculation workflow.
type SalaryStatus string

const (
	SalaryStatusDraft       SalaryStatus = "draft"
	SalaryStatusCalculating SalaryStatus = "calculating"
	SalaryStatusCalculated  SalaryStatus = "calculated"
	SalaryStatusReviewing   SalaryStatus = "reviewing"
	SalaryStatusApproved    SalaryStatus = "approved"
	SalaryStatusPaid        SalaryStatus = "paid"
	SalaryStatusArchived    SalaryStatus = "archived"
)

// CanCalculate reports whether the calculation may be (re)run.
func (s SalaryStatus) CanCalculate() bool {
	switch s {
	case SalaryStatusApproved, SalaryStatusPaid, SalaryStatusArchived:
		return false
	}
	return true
}

// Editable reports whether inputs such as notes or deductions may change.
func (s SalaryStatus) Editable() bool {
	switch s {
	case SalaryStatusDraft, SalaryStatusCalculated, SalaryStatusReviewing:
		return true
	}
	return false
}

// CanApprove reports whether the calculation is ready for sign-off.
func (s SalaryStatus) CanApprove() bool {
	return s == SalaryStatusCalculated || s == SalaryStatusReviewing
}

// CanArchive reports whether the calculation may be soft-deleted.
func (s SalaryStatus) CanArchive() bool {
	return s != SalaryStatusPaid && s != SalaryStatusArchived
}

// Salary audit actions.
const (
	SalaryActionCreated           = "created"
	SalaryActionUpdated           = "updated"
	SalaryActionCalculated        = "calculated"
	SalaryActionCalculationFailed = "calculation_failed"
	SalaryActionReviewed          = "reviewed"
	SalaryActionApproved          = "approved"
	SalaryActionPaid              = "paid"
	SalaryActionArchived          = "archived"
)

// AppliedRate records one rate setting that fired for an assignment entry.
type AppliedRate struct {
	RateSettingID    string          `json:"rate_setting_id"`
	RateCode         string          `json:"rate_code"`
	RateType         RateType        `json:"rate_type"`
	RateAmount       decimal.Decimal `json:"rate_amount"`
	Coefficient      decimal.Decimal `json:"coefficient"`
	HoursApplied     decimal.Decimal `json:"hours_applied"`
	CalculatedAmount decimal.Decimal `json:"calculated_amount"`
}

// AssignmentTotal sums the applied rates of one entry by category.
type AssignmentTotal struct {
	BaseAmount      decimal.Decimal `json:"base_amount"`
	OvertimeAmount  decimal.Decimal `json:"overtime_amount"`
	BonusAmount     decimal.Decimal `json:"bonus_amount"`
	AllowanceAmount decimal.Decimal `json:"allowance_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

// Add accumulates amount into the bucket selected by the rate type.
// Coefficient rates are recorded on the entry but carry no bucket.
func (t *AssignmentTotal) Add(rateType RateType, amount decimal.Decimal) {
	switch rateType {
	case RateTypeBaseHourly, RateTypeBaseMonthly:
		t.BaseAmount = t.BaseAmount.Add(amount)
	case RateTypeOvertime:
		t.OvertimeAmount = t.OvertimeAmount.Add(amount)
	case RateTypeBonus:
		t.BonusAmount = t.BonusAmount.Add(amount)
	case RateTypeAllowance:
		t.AllowanceAmount = t.AllowanceAmount.Add(amount)
	}
	t.TotalAmount = t.BaseAmount.Add(t.OvertimeAmount).Add(t.BonusAmount).Add(t.AllowanceAmount)
}

// AssignmentEntry is the snapshot of a teaching assignment embedded in a calculation.
type AssignmentEntry struct {
	AssignmentID   string          `json:"assignment_id"`
	ClassID        string          `json:"class_id"`
	SubjectID      string          `json:"subject_id"`
	AssignmentType AssignmentType  `json:"assignment_type"`
	ClassType      ClassType       `json:"class_type"`
	SubjectType    SubjectType     `json:"subject_type"`
	BaseHours      decimal.Decimal `json:"base_hours"`
	OvertimeHours  decimal.Decimal `json:"overtime_hours"`
	TotalHours     decimal.Decimal `json:"total_hours"`
	AppliedRates   []AppliedRate   `json:"applied_rates"`
	Total          AssignmentTotal `json:"assignment_total"`
}

// ResetRates clears the applied rates and totals before a recalculation.
func (e *AssignmentEntry) ResetRates() {
	e.AppliedRates = []AppliedRate{}
	e.Total = AssignmentTotal{}
}

// AssignmentEntries is the ordered snapshot list stored as JSONB.
type AssignmentEntries []AssignmentEntry

// Value marshals the entries for persistence.
func (e AssignmentEntries) Value() (driver.Value, error) {
	if e == nil {
		e = AssignmentEntries{}
	}
	return marshalJSONColumn(e, "assignment entries")
}

// Scan unmarshals entries from a JSONB column.
func (e *AssignmentEntries) Scan(value interface{}) error {
	*e = AssignmentEntries{}
	return scanJSONColumn(value, e, "assignment entries")
}

// CalculationResults aggregates the totals of a calculation.
type CalculationResults struct {
	TotalBaseHours       decimal.Decimal `db:"total_base_hours" json:"total_base_hours"`
	TotalOvertimeHours   decimal.Decimal `db:"total_overtime_hours" json:"total_overtime_hours"`
	TotalBaseAmount      decimal.Decimal `db:"total_base_amount" json:"total_base_amount"`
	TotalOvertimeAmount  decimal.Decimal `db:"total_overtime_amount" json:"total_overtime_amount"`
	TotalBonusAmount     decimal.Decimal `db:"total_bonus_amount" json:"total_bonus_amount"`
	TotalAllowanceAmount decimal.Decimal `db:"total_allowance_amount" json:"total_allowance_amount"`
	TotalDeductionAmount decimal.Decimal `db:"total_deduction_amount" json:"total_deduction_amount"`
	TotalGrossSalary     decimal.Decimal `db:"total_gross_salary" json:"total_gross_salary"`
	TotalNetSalary       decimal.Decimal `db:"total_net_salary" json:"total_net_salary"`
}

// CoefficientBlock records a multiplier and the delta it added to the base amount.
type CoefficientBlock struct {
	Value         decimal.Decimal `json:"value"`
	AppliedAmount decimal.Decimal `json:"applied_amount"`
}

// NewCoefficientBlock applies value to base and keeps only the increment.
func NewCoefficientBlock(base, value decimal.Decimal) CoefficientBlock {
	return CoefficientBlock{Value: value, AppliedAmount: base.Mul(value).Sub(base)}
}

// Coefficients holds the degree, position and experience adjustments.
type Coefficients struct {
	Degree     CoefficientBlock `json:"degree"`
	Position   CoefficientBlock `json:"position"`
	Experience CoefficientBlock `json:"experience"`
}

// Total sums the applied deltas.
func (c Coefficients) Total() decimal.Decimal {
	return c.Degree.AppliedAmount.Add(c.Position.AppliedAmount).Add(c.Experience.AppliedAmount)
}

// Value marshals the coefficients for persistence.
func (c Coefficients) Value() (driver.Value, error) {
	return marshalJSONColumn(c, "coefficients")
}

// Scan unmarshals the coefficients from a JSONB column.
func (c *Coefficients) Scan(value interface{}) error {
	*c = Coefficients{}
	return scanJSONColumn(value, c, "coefficients")
}

var (
	experienceStep = decimal.RequireFromString("0.05")
	one            = decimal.NewFromInt(1)
)

// ExperienceCoefficient grows by 5% for each full five years of service.
func ExperienceCoefficient(years int) decimal.Decimal {
	if years < 0 {
		years = 0
	}
	return one.Add(experienceStep.Mul(decimal.NewFromInt(int64(years / 5))))
}

// StringList is a JSONB array of strings.
type StringList []string

// Value marshals the list for persistence.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return marshalJSONColumn(l, "string list")
}

// Scan unmarshals the list from a JSONB column.
func (l *StringList) Scan(value interface{}) error {
	*l = StringList{}
	return scanJSONColumn(value, l, "string list")
}

// SalaryCalculation is the computed payroll artifact for one teacher and period.
type SalaryCalculation struct {
	ID                 string            `db:"id" json:"id"`
	TeacherID          string            `db:"teacher_id" json:"teacher_id"`
	AcademicYearID     string            `db:"academic_year_id" json:"academic_year_id"`
	SemesterID         *string           `db:"semester_id" json:"semester_id,omitempty"`
	PeriodType         PeriodType        `db:"period_type" json:"period_type"`
	PeriodStart        time.Time         `db:"period_start" json:"period_start"`
	PeriodEnd          time.Time         `db:"period_end" json:"period_end"`
	Assignments        AssignmentEntries `db:"teaching_assignments" json:"teaching_assignments"`
	CalculationResults `json:"calculation_results"`
	Coefficients       Coefficients `db:"coefficients" json:"coefficients"`
	Status             SalaryStatus `db:"status" json:"status"`
	CalculatedBy       *string      `db:"calculated_by" json:"calculated_by,omitempty"`
	CalculatedAt       *time.Time   `db:"calculated_at" json:"calculated_at,omitempty"`
	ApprovedBy         *string      `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt         *time.Time   `db:"approved_at" json:"approved_at,omitempty"`
	PaidBy             *string      `db:"paid_by" json:"paid_by,omitempty"`
	PaidAt             *time.Time   `db:"paid_at" json:"paid_at,omitempty"`
	PaymentReference   *string      `db:"payment_reference" json:"payment_reference,omitempty"`
	ValidationErrors   StringList   `db:"validation_errors" json:"validation_errors"`
	Notes              string       `db:"notes" json:"notes"`
	Version            int          `db:"version" json:"version"`
	CreatedBy          string       `db:"created_by" json:"created_by"`
	CreatedAt          time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time    `db:"updated_at" json:"updated_at"`
}

// ResetResults zeroes the aggregated totals while keeping externally set deductions.
func (s *SalaryCalculation) ResetResults() {
	deductions := s.CalculationResults.TotalDeductionAmount
	s.CalculationResults = CalculationResults{TotalDeductionAmount: deductions}
	s.Coefficients = Coefficients{}
}

// Aggregate sums hours and per-entry totals into the calculation results.
func (s *SalaryCalculation) Aggregate() {
	r := &s.CalculationResults
	for _, entry := range s.Assignments {
		r.TotalBaseHours = r.TotalBaseHours.Add(entry.BaseHours)
		r.TotalOvertimeHours = r.TotalOvertimeHours.Add(entry.OvertimeHours)
		r.TotalBaseAmount = r.TotalBaseAmount.Add(entry.Total.BaseAmount)
		r.TotalOvertimeAmount = r.TotalOvertimeAmount.Add(entry.Total.OvertimeAmount)
		r.TotalBonusAmount = r.TotalBonusAmount.Add(entry.Total.BonusAmount)
		r.TotalAllowanceAmount = r.TotalAllowanceAmount.Add(entry.Total.AllowanceAmount)
	}
}

// ApplyCoefficients records the coefficient deltas and derives gross and net salary.
func (s *SalaryCalculation) ApplyCoefficients(degree, position, experience decimal.Decimal) {
	base := s.CalculationResults.TotalBaseAmount
	s.Coefficients = Coefficients{
		Degree:     NewCoefficientBlock(base, degree),
		Position:   NewCoefficientBlock(base, position),
		Experience: NewCoefficientBlock(base, experience),
	}
	r := &s.CalculationResults
	r.TotalGrossSalary = r.TotalBaseAmount.
		Add(r.TotalOvertimeAmount).
		Add(r.TotalBonusAmount).
		Add(r.TotalAllowanceAmount).
		Add(s.Coefficients.Total())
	r.TotalNetSalary = r.TotalGrossSalary.Sub(r.TotalDeductionAmount)
}

// SalaryEvent is one append-only audit record of a calculation.
type SalaryEvent struct {
	ID            string    `db:"id" json:"id"`
	CalculationID string    `db:"calculation_id" json:"calculation_id"`
	Action        string    `db:"action" json:"action"`
	PerformedBy   string    `db:"performed_by" json:"performed_by"`
	PerformedAt   time.Time `db:"performed_at" json:"performed_at"`
	Notes         string    `db:"notes" json:"notes"`
}

// NewSalaryEvent builds an event for the calculation.
func NewSalaryEvent(calculationID, action, actor, notes string, at time.Time) SalaryEvent {
	return SalaryEvent{CalculationID: calculationID, Action: action, PerformedBy: actor, PerformedAt: at, Notes: notes}
}

// SalaryListItem is a calculation joined with teacher identity for listings and exports.
type SalaryListItem struct {
	SalaryCalculation
	TeacherCode  string `db:"teacher_code" json:"teacher_code"`
	TeacherName  string `db:"teacher_name" json:"teacher_name"`
	DepartmentID string `db:"department_id" json:"department_id"`
}

// SalaryFilter narrows salary listings.
type SalaryFilter struct {
	ListFilter
	TeacherID      string
	AcademicYearID string
	SemesterID     string
	DepartmentID   string
	PeriodType     PeriodType
	Status         SalaryStatus
}

// SalaryStatisticsFilter scopes the statistics aggregation.
type SalaryStatisticsFilter struct {
	AcademicYearID     string
	SemesterID         string
	PeriodType         PeriodType
	IncludeDepartments bool
}

// SalaryStatusCount is one row of the status breakdown.
type SalaryStatusCount struct {
	Status     SalaryStatus    `db:"status" json:"status"`
	Count      int             `db:"count" json:"count"`
	TotalGross decimal.Decimal `db:"total_gross" json:"total_gross"`
	TotalNet   decimal.Decimal `db:"total_net" json:"total_net"`
}

// DepartmentSalaryRollup aggregates calculations per department.
type DepartmentSalaryRollup struct {
	DepartmentID   string          `db:"department_id" json:"department_id"`
	DepartmentName string          `db:"department_name" json:"department_name"`
	TeacherCount   int             `db:"teacher_count" json:"teacher_count"`
	Count          int             `db:"count" json:"count"`
	TotalGross     decimal.Decimal `db:"total_gross" json:"total_gross"`
	TotalNet       decimal.Decimal `db:"total_net" json:"total_net"`
}

// SalaryStatistics summarises calculations excluding archived ones.
type SalaryStatistics struct {
	TotalCalculations int                      `json:"total_calculations"`
	TotalGross        decimal.Decimal          `json:"total_gross"`
	TotalNet          decimal.Decimal          `json:"total_net"`
	AverageGross      decimal.Decimal          `json:"average_gross"`
	ByStatus          []SalaryStatusCount      `json:"by_status"`
	ByDepartment      []DepartmentSalaryRollup `json:"by_department,omitempty"`
}

// Summarise derives the headline totals from the status breakdown.
func (s *SalaryStatistics) Summarise() {
	s.TotalCalculations = 0
	s.TotalGross = decimal.Zero
	s.TotalNet = decimal.Zero
	for _, row := range s.ByStatus {
		s.TotalCalculations += row.Count
		s.TotalGross = s.TotalGross.Add(row.TotalGross)
		s.TotalNet = s.TotalNet.Add(row.TotalNet)
	}
	s.AverageGross = decimal.Zero
	if s.TotalCalculations > 0 {
		s.AverageGross = s.TotalGross.Div(decimal.NewFromInt(int64(s.TotalCalculations))).Round(0)
	}
}

// BatchItemResult reports the outcome of one calculation in a batch.
type BatchItemResult struct {
	ID      string       `json:"id"`
	Success bool         `json:"success"`
	Status  SalaryStatus `json:"status,omitempty"`
	Gross   string       `json:"total_gross_salary,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// BatchResult aggregates a batch calculation run.
type BatchResult struct {
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Results   []BatchItemResult `json:"results"`
}

// Record appends an item and updates the counters.
func (b *BatchResult) Record(item BatchItemResult) {
	b.Total++
	if item.Success {
		b.Succeeded++
	} else {
		b.Failed++
	}
	b.Results = append(b.Results, item)
}
