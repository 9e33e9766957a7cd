package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-payroll-api/internal/models"
	"github.com/noah-isme/uni-payroll-api/internal/repository"
	appErrors "github.com/noah-isme/uni-payroll-api/pkg/errors"
	"github.com/noah-isme/uni-payroll-api/pkg/export"
)

const (
	salaryStatsPrefix  = "salary:stats"
	salaryStatsPattern = salaryStatsPrefix + ":*"
	defaultBatchLimit  = 100
	defaultPayslipName = "Phiếu lương giảng viên"
)

type salaryRepository interface {
	Create(ctx context.Context, calc *models.SalaryCalculation, event models.SalaryEvent) error
	FindByID(ctx context.Context, id string) (*models.SalaryCalculation, error)
	ExistsActive(ctx context.Context, teacherID, academicYearID string, semesterID *string, periodType models.PeriodType, excludeID string) (bool, error)
	List(ctx context.Context, filter models.SalaryFilter) ([]models.SalaryListItem, int, error)
	ListAll(ctx context.Context, filter models.SalaryFilter) ([]models.SalaryListItem, error)
	Save(ctx context.Context, calc *models.SalaryCalculation, events ...models.SalaryEvent) error
	ListEvents(ctx context.Context, calculationID string) ([]models.SalaryEvent, error)
	Statistics(ctx context.Context, filter models.SalaryStatisticsFilter) (*models.SalaryStatistics, error)
}

type payrollAssignmentSource interface {
	ListForPayroll(ctx context.Context, q repository.PayrollQuery) ([]models.TeachingAssignmentDetail, error)
	ListDetailsByIDs(ctx context.Context, teacherID string, ids []string) ([]models.TeachingAssignmentDetail, error)
}

// SalaryCreateRequest opens a calculation for a teacher and period.
// Without AssignmentIDs every confirmed assignment overlapping the period is captured.
type SalaryCreateRequest struct {
	TeacherID      string           `json:"teacher_id" validate:"required"`
	AcademicYearID string           `json:"academic_year_id" validate:"required"`
	SemesterID     *string          `json:"semester_id"`
	PeriodType     string           `json:"period_type" validate:"required,oneof=monthly semester academic_year custom"`
	PeriodStart    time.Time        `json:"period_start" validate:"required"`
	PeriodEnd      time.Time        `json:"period_end" validate:"required,gtfield=PeriodStart"`
	AssignmentIDs  []string         `json:"assignment_ids" validate:"omitempty,dive,required"`
	Deductions     *decimal.Decimal `json:"total_deduction_amount"`
	Notes          string           `json:"notes" validate:"max=2000"`
}

// SalaryUpdateRequest changes the inputs of an editable calculation.
type SalaryUpdateRequest struct {
	Notes         *string                    `json:"notes" validate:"omitempty,max=2000"`
	Deductions    *decimal.Decimal           `json:"total_deduction_amount"`
	OvertimeHours map[string]decimal.Decimal `json:"overtime_hours"`
	Version       int                        `json:"version" validate:"min=0"`
}

// SalaryActionRequest carries the optional notes and expected version of a workflow call.
type SalaryActionRequest struct {
	Notes   string `json:"notes" validate:"max=1000"`
	Version int    `json:"version" validate:"min=0"`
}

// SalaryPaymentRequest records a payout.
type SalaryPaymentRequest struct {
	PaymentReference string `json:"payment_reference" validate:"required,max=100"`
	Notes            string `json:"notes" validate:"max=1000"`
	Version          int    `json:"version" validate:"min=0"`
}

// BatchCalculateRequest lists the calculations to run.
type BatchCalculateRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

// FileResult is a rendered export.
type FileResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// SalaryService runs the salary calculation workflow.
type SalaryService struct {
	repo        salaryRepository
	teachers    teacherProfileLookup
	assignments payrollAssignmentSource
	calculator  *SalaryCalculator
	cache       *CacheService
	metrics     *MetricsService
	pdf         *export.PDFExporter
	csv         *export.CSVExporter
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
	statsTTL    time.Duration
	batchLimit  int
	title       string
}

// NewSalaryService constructs a SalaryService.
func NewSalaryService(repo salaryRepository, teachers teacherProfileLookup, assignments payrollAssignmentSource, calculator *SalaryCalculator, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *SalaryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalaryService{
		repo:        repo,
		teachers:    teachers,
		assignments: assignments,
		calculator:  calculator,
		cache:       cache,
		metrics:     metrics,
		pdf:         export.NewPDFExporter(),
		csv:         export.NewCSVExporter(true),
		validator:   validate,
		logger:      logger,
		now:         time.Now,
		batchLimit:  defaultBatchLimit,
		title:       defaultPayslipName,
	}
}

// WithStatisticsTTL overrides the cache lifetime of statistics.
func (s *SalaryService) WithStatisticsTTL(ttl time.Duration) *SalaryService {
	s.statsTTL = ttl
	return s
}

// WithBatchLimit caps the number of calculations accepted by BatchCalculate.
func (s *SalaryService) WithBatchLimit(limit int) *SalaryService {
	if limit > 0 {
		s.batchLimit = limit
	}
	return s
}

// WithPayslipTitle sets the heading printed on payslips.
func (s *SalaryService) WithPayslipTitle(title string) *SalaryService {
	if strings.TrimSpace(title) != "" {
		s.title = strings.TrimSpace(title)
	}
	return s
}

// List returns calculations plus pagination data.
func (s *SalaryService) List(ctx context.Context, filter models.SalaryFilter) ([]models.SalaryListItem, *models.Pagination, error) {
	start := time.Now()
	items, total, err := s.repo.List(ctx, filter)
	s.metrics.ObserveDBQuery("salary_list", time.Since(start))
	if err != nil {
		return nil, nil, internalError(err, "không thể tải danh sách bảng lương")
	}
	return items, models.NewPagination(filter.ListFilter, total), nil
}

// Get returns a calculation by id.
func (s *SalaryService) Get(ctx context.Context, id string) (*models.SalaryCalculation, error) {
	calc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "không tìm thấy bảng lương", "không thể tải bảng lương")
	}
	return calc, nil
}

// Create opens a draft calculation with a snapshot of the teacher's assignments.
func (s *SalaryService) Create(ctx context.Context, req SalaryCreateRequest, actor string) (*models.SalaryCalculation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "dữ liệu bảng lương không hợp lệ")
	}
	if req.Deductions != nil && req.Deductions.IsNegative() {
		return nil, validationError(nil, "khoản khấu trừ không được âm")
	}
	semesterID := normalizeOptional(req.SemesterID)
	periodType := models.PeriodType(req.PeriodType)
	if periodType == models.PeriodSemester && semesterID == nil {
		return nil, validationError(nil, "bảng lương theo học kỳ cần chỉ định học kỳ")
	}
	if _, err := s.teachers.FindProfile(ctx, req.TeacherID); err != nil {
		return nil, referenceError(err, "giảng viên không tồn tại", "không thể tải giảng viên")
	}

	exists, err := s.repo.ExistsActive(ctx, req.TeacherID, req.AcademicYearID, semesterID, periodType, "")
	if err != nil {
		return nil, internalError(err, "không thể kiểm tra bảng lương trùng")
	}
	if exists {
		return nil, conflict("giảng viên đã có bảng lương cho kỳ này")
	}

	details, err := s.captureAssignments(ctx, req, semesterID)
	if err != nil {
		return nil, err
	}

	calc := &models.SalaryCalculation{
		TeacherID:        req.TeacherID,
		AcademicYearID:   req.AcademicYearID,
		SemesterID:       semesterID,
		PeriodType:       periodType,
		PeriodStart:      req.PeriodStart,
		PeriodEnd:        req.PeriodEnd,
		Assignments:      snapshotEntries(details),
		Status:           models.SalaryStatusDraft,
		ValidationErrors: models.StringList{},
		Notes:            strings.TrimSpace(req.Notes),
		CreatedBy:        actor,
	}
	if req.Deductions != nil {
		calc.TotalDeductionAmount = *req.Deductions
		calc.TotalNetSalary = calc.TotalGrossSalary.Sub(calc.TotalDeductionAmount)
	}
	event := models.NewSalaryEvent("", models.SalaryActionCreated, actor, calc.Notes, s.now().UTC())
	if err := s.repo.Create(ctx, calc, event); err != nil {
		s.logger.Error("create salary calculation failed", zap.String("teacher_id", req.TeacherID), zap.Error(err))
		return nil, internalError(err, "không thể tạo bảng lương")
	}
	s.invalidateStatistics(ctx)
	return calc, nil
}

// Update changes notes, deductions or per-entry overtime and returns the calculation to draft.
func (s *SalaryService) Update(ctx context.Context, id string, req SalaryUpdateRequest, actor string) (*models.SalaryCalculation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "dữ liệu cập nhật không hợp lệ")
	}
	calc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(req.Version, calc.Version); err != nil {
		return nil, err
	}
	if !calc.Status.Editable() {
		return nil, businessRule("bảng lương không còn được phép chỉnh sửa")
	}

	if req.Notes != nil {
		calc.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.Deductions != nil {
		if req.Deductions.IsNegative() {
			return nil, validationError(nil, "khoản khấu trừ không được âm")
		}
		calc.TotalDeductionAmount = *req.Deductions
	}
	for assignmentID, hours := range req.OvertimeHours {
		if hours.IsNegative() {
			return nil, validationError(nil, "số giờ vượt định mức không được âm")
		}
		entry := findEntry(calc.Assignments, assignmentID)
		if entry == nil {
			return nil, appErrors.WithDetails(appErrors.ErrValidation, "phân công không thuộc bảng lương", map[string]string{"assignment_id": assignmentID})
		}
		entry.OvertimeHours = hours
		entry.TotalHours = entry.BaseHours.Add(hours)
	}
	calc.TotalNetSalary = calc.TotalGrossSalary.Sub(calc.TotalDeductionAmount)
	calc.Status = models.SalaryStatusDraft

	event := models.NewSalaryEvent(calc.ID, models.SalaryActionUpdated, actor, calc.Notes, s.now().UTC())
	if err := s.repo.Save(ctx, calc, event); err != nil {
		return nil, writeError(err, "không thể cập nhật bảng lương")
	}
	s.invalidateStatistics(ctx)
	return calc, nil
}

// Calculate runs the calculator. A failure reverts the calculation to draft, records the error and is reported as 500.
func (s *SalaryService) Calculate(ctx context.Context, id, actor string, version int) (*models.SalaryCalculation, error) {
	calc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(version, calc.Version); err != nil {
		return nil, err
	}
	if !calc.Status.CanCalculate() {
		s.metrics.RecordCalculation(CalculationRejected, 0)
		return nil, appErrors.WithDetails(appErrors.ErrBusinessRule, "không thể tính lại bảng lương đã duyệt, đã chi trả hoặc đã lưu trữ",
			map[string]string{"status": string(calc.Status)})
	}

	start := s.now()
	event, calcErr := s.calculator.Calculate(ctx, calc, actor)
	if calcErr != nil {
		return nil, s.recordFailure(ctx, calc, actor, calcErr, start)
	}
	if err := s.repo.Save(ctx, calc, event); err != nil {
		s.metrics.RecordCalculation(CalculationFailed, s.now().Sub(start))
		return nil, writeError(err, "không thể lưu kết quả tính lương")
	}
	s.metrics.RecordCalculation(CalculationSucceeded, s.now().Sub(start))
	s.invalidateStatistics(ctx)
	s.logger.Info("salary calculated",
		zap.String("calculation_id", calc.ID),
		zap.String("teacher_id", calc.TeacherID),
		zap.String("gross", calc.TotalGrossSalary.String()))
	return calc, nil
}

func (s *SalaryService) recordFailure(ctx context.Context, calc *models.SalaryCalculation, actor string, cause error, start time.Time) error {
	s.metrics.RecordCalculation(CalculationFailed, s.now().Sub(start))
	s.logger.Warn("salary calculation failed", zap.String("calculation_id", calc.ID), zap.Error(cause))

	calc.Status = models.SalaryStatusDraft
	calc.ValidationErrors = append(calc.ValidationErrors, cause.Error())
	event := models.NewSalaryEvent(calc.ID, models.SalaryActionCalculationFailed, actor, cause.Error(), s.now().UTC())
	if err := s.repo.Save(ctx, calc, event); err != nil {
		s.logger.Error("persist calculation failure", zap.String("calculation_id", calc.ID), zap.Error(err))
	} else {
		s.invalidateStatistics(ctx)
	}
	return appErrors.Wrap(cause, appErrors.ErrCalculationFailed.Code, appErrors.ErrCalculationFailed.Status, appErrors.ErrCalculationFailed.Message)
}

// BatchCalculate runs each calculation in order and reports per-item outcomes.
func (s *SalaryService) BatchCalculate(ctx context.Context, req BatchCalculateRequest, actor string) (*models.BatchResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "danh sách bảng lương không hợp lệ")
	}
	if len(req.IDs) > s.batchLimit {
		return nil, validationError(nil, fmt.Sprintf("tối đa %d bảng lương mỗi lần", s.batchLimit))
	}
	result := &models.BatchResult{Results: make([]models.BatchItemResult, 0, len(req.IDs))}
	for _, id := range req.IDs {
		if err := ctx.Err(); err != nil {
			result.Record(models.BatchItemResult{ID: id, Error: err.Error()})
			continue
		}
		calc, err := s.Calculate(ctx, id, actor, 0)
		if err != nil {
			result.Record(models.BatchItemResult{ID: id, Error: appErrors.FromError(err).Message})
			continue
		}
		result.Record(models.BatchItemResult{ID: id, Success: true, Status: calc.Status, Gross: calc.TotalGrossSalary.StringFixed(0)})
	}
	s.logger.Info("batch salary calculation finished",
		zap.Int("total", result.Total),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))
	return result, nil
}

// Approve moves a calculated salary to approved.
func (s *SalaryService) Approve(ctx context.Context, id, actor string, req SalaryActionRequest) (*models.SalaryCalculation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "dữ liệu phê duyệt không hợp lệ")
	}
	return s.advance(ctx, id, req.Version, func(calc *models.SalaryCalculation, at time.Time) (models.SalaryEvent, error) {
		if !calc.Status.CanApprove() {
			return models.SalaryEvent{}, businessRule("chỉ bảng lương đã tính mới được phê duyệt")
		}
		calc.Status = models.SalaryStatusApproved
		calc.ApprovedBy = &actor
		calc.ApprovedAt = &at
		return models.NewSalaryEvent(calc.ID, models.SalaryActionApproved, actor, req.Notes, at), nil
	})
}

// Review moves a calculated salary into review before approval.
// Recalculating a salary under review returns it to calculated.
func (s *SalaryService) Review(ctx context.Context, id, actor string, req SalaryActionRequest) (*models.SalaryCalculation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "dữ liệu xem xét không hợp lệ")
	}
	return s.advance(ctx, id, req.Version, func(calc *models.SalaryCalculation, at time.Time) (models.SalaryEvent, error) {
		if calc.Status != models.SalaryStatusCalculated {
			return models.SalaryEvent{}, businessRule("chỉ bảng lương đã tính mới được chuyển sang xem xét")
		}
		calc.Status = models.SalaryStatusReviewing
		return models.NewSalaryEvent(calc.ID, models.SalaryActionReviewed, actor, req.Notes, at), nil
	})
}

// MarkAsPaid records the payout of an approved salary.
func (s *SalaryService) MarkAsPaid(ctx context.Context, id, actor string, req SalaryPaymentRequest) (*models.SalaryCalculation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "cần mã tham chiếu thanh toán")
	}
	return s.advance(ctx, id, req.Version, func(calc *models.SalaryCalculation, at time.Time) (models.SalaryEvent, error) {
		if calc.Status != models.SalaryStatusApproved {
			return models.SalaryEvent{}, businessRule("chỉ bảng lương đã phê duyệt mới được chi trả")
		}
		reference := strings.TrimSpace(req.PaymentReference)
		calc.Status = models.SalaryStatusPaid
		calc.PaidBy = &actor
		calc.PaidAt = &at
		calc.PaymentReference = &reference
		notes := strings.TrimSpace(req.Notes)
		if notes == "" {
			notes = reference
		}
		return models.NewSalaryEvent(calc.ID, models.SalaryActionPaid, actor, notes, at), nil
	})
}

// Archive soft-deletes a calculation that has not been paid.
func (s *SalaryService) Archive(ctx context.Context, id, actor string, version int) error {
	_, err := s.advance(ctx, id, version, func(calc *models.SalaryCalculation, at time.Time) (models.SalaryEvent, error) {
		if !calc.Status.CanArchive() {
			return models.SalaryEvent{}, businessRule("không thể lưu trữ bảng lương đã chi trả hoặc đã lưu trữ")
		}
		calc.Status = models.SalaryStatusArchived
		return models.NewSalaryEvent(calc.ID, models.SalaryActionArchived, actor, "", at), nil
	})
	return err
}

func (s *SalaryService) advance(ctx context.Context, id string, version int, apply func(*models.SalaryCalculation, time.Time) (models.SalaryEvent, error)) (*models.SalaryCalculation, error) {
	calc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(version, calc.Version); err != nil {
		return nil, err
	}
	event, err := apply(calc, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, calc, event); err != nil {
		return nil, writeError(err, "không thể cập nhật trạng thái bảng lương")
	}
	s.invalidateStatistics(ctx)
	s.logger.Info("salary status changed",
		zap.String("calculation_id", calc.ID),
		zap.String("status", string(calc.Status)),
		zap.String("actor", event.PerformedBy))
	return calc, nil
}

// Audit returns the event history of a calculation.
func (s *SalaryService) Audit(ctx context.Context, id string) ([]models.SalaryEvent, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	events, err := s.repo.ListEvents(ctx, id)
	if err != nil {
		return nil, internalError(err, "không thể tải lịch sử bảng lương")
	}
	if events == nil {
		events = []models.SalaryEvent{}
	}
	return events, nil
}

// Statistics aggregates non-archived calculations, served from cache when possible.
// The boolean reports a cache hit.
func (s *SalaryService) Statistics(ctx context.Context, filter models.SalaryStatisticsFilter) (*models.SalaryStatistics, bool, error) {
	key := Key(salaryStatsPrefix, filter.AcademicYearID, filter.SemesterID, string(filter.PeriodType), strconv.FormatBool(filter.IncludeDepartments))
	return Remember(ctx, s.cache, key, s.statsTTL, func(ctx context.Context) (*models.SalaryStatistics, error) {
		start := time.Now()
		stats, err := s.repo.Statistics(ctx, filter)
		s.metrics.ObserveDBQuery("salary_statistics", time.Since(start))
		if err != nil {
			return nil, internalError(err, "không thể tổng hợp thống kê lương")
		}
		if stats.ByStatus == nil {
			stats.ByStatus = []models.SalaryStatusCount{}
		}
		return stats, nil
	})
}

// Payslip renders a PDF payslip for a calculated salary.
func (s *SalaryService) Payslip(ctx context.Context, id string) (*FileResult, error) {
	calc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if calc.CalculatedAt == nil {
		return nil, businessRule("bảng lương chưa được tính")
	}
	profile, err := s.teachers.FindProfile(ctx, calc.TeacherID)
	if err != nil {
		return nil, lookupError(err, "không tìm thấy giảng viên", "không thể tải giảng viên")
	}
	classCodes := s.classCodes(ctx, calc)

	doc := export.Document{
		Title:    s.title,
		Subtitle: fmt.Sprintf("%s - %s", calc.PeriodStart.Format("02/01/2006"), calc.PeriodEnd.Format("02/01/2006")),
		Summary: []export.Field{
			{Label: "Giảng viên", Value: fmt.Sprintf("%s (%s)", profile.FullName, profile.Code)},
			{Label: "Khoa", Value: profile.DepartmentName},
			{Label: "Học vị", Value: profile.DegreeName},
			{Label: "Kỳ lương", Value: string(calc.PeriodType)},
			{Label: "Trạng thái", Value: string(calc.Status)},
		},
		Table: export.Dataset{Headers: []string{"Lớp", "Giờ chuẩn", "Giờ thêm", "Cơ bản", "Thêm giờ", "Thưởng", "Phụ cấp", "Tổng"}},
		Totals: []export.Field{
			{Label: "Lương cơ bản", Value: formatMoney(calc.TotalBaseAmount)},
			{Label: "Hệ số học vị", Value: formatMoney(calc.Coefficients.Degree.AppliedAmount)},
			{Label: "Hệ số chức vụ", Value: formatMoney(calc.Coefficients.Position.AppliedAmount)},
			{Label: "Hệ số thâm niên", Value: formatMoney(calc.Coefficients.Experience.AppliedAmount)},
			{Label: "Tổng thu nhập", Value: formatMoney(calc.TotalGrossSalary)},
			{Label: "Khấu trừ", Value: formatMoney(calc.TotalDeductionAmount)},
			{Label: "Thực lĩnh", Value: formatMoney(calc.TotalNetSalary)},
		},
		Footer: fmt.Sprintf("Tính lúc %s", calc.CalculatedAt.Format("02/01/2006 15:04")),
	}
	for _, entry := range calc.Assignments {
		class := classCodes[entry.AssignmentID]
		if class == "" {
			class = entry.ClassID
		}
		doc.Table.Rows = append(doc.Table.Rows, map[string]string{
			"Lớp":       class,
			"Giờ chuẩn": entry.BaseHours.String(),
			"Giờ thêm":  entry.OvertimeHours.String(),
			"Cơ bản":    formatMoney(entry.Total.BaseAmount),
			"Thêm giờ":  formatMoney(entry.Total.OvertimeAmount),
			"Thưởng":    formatMoney(entry.Total.BonusAmount),
			"Phụ cấp":   formatMoney(entry.Total.AllowanceAmount),
			"Tổng":      formatMoney(entry.Total.TotalAmount),
		})
	}

	data, err := s.pdf.Render(doc)
	if err != nil {
		return nil, internalError(err, "không thể tạo phiếu lương")
	}
	return &FileResult{
		Filename:    fmt.Sprintf("payslip-%s-%s.pdf", profile.Code, calc.PeriodStart.Format("200601")),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

// Export renders the matching calculations as CSV.
func (s *SalaryService) Export(ctx context.Context, filter models.SalaryFilter) (*FileResult, error) {
	items, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		return nil, internalError(err, "không thể xuất bảng lương")
	}
	dataset := export.Dataset{Headers: []string{
		"teacher_code", "teacher_name", "period_type", "period_start", "period_end", "status",
		"total_base_hours", "total_overtime_hours", "total_base_amount", "total_overtime_amount",
		"total_bonus_amount", "total_allowance_amount", "total_deduction_amount", "total_gross_salary", "total_net_salary",
	}}
	for _, item := range items {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"teacher_code":           item.TeacherCode,
			"teacher_name":           item.TeacherName,
			"period_type":            string(item.PeriodType),
			"period_start":           item.PeriodStart.Format("2006-01-02"),
			"period_end":             item.PeriodEnd.Format("2006-01-02"),
			"status":                 string(item.Status),
			"total_base_hours":       item.TotalBaseHours.String(),
			"total_overtime_hours":   item.TotalOvertimeHours.String(),
			"total_base_amount":      item.TotalBaseAmount.StringFixed(0),
			"total_overtime_amount":  item.TotalOvertimeAmount.StringFixed(0),
			"total_bonus_amount":     item.TotalBonusAmount.StringFixed(0),
			"total_allowance_amount": item.TotalAllowanceAmount.StringFixed(0),
			"total_deduction_amount": item.TotalDeductionAmount.StringFixed(0),
			"total_gross_salary":     item.TotalGrossSalary.StringFixed(0),
			"total_net_salary":       item.TotalNetSalary.StringFixed(0),
		})
	}
	data, err := s.csv.Render(dataset)
	if err != nil {
		return nil, internalError(err, "không thể xuất bảng lương")
	}
	return &FileResult{
		Filename:    fmt.Sprintf("salaries-%s.csv", s.now().UTC().Format("20060102-150405")),
		ContentType: "text/csv; charset=utf-8",
		Data:        data,
	}, nil
}

func (s *SalaryService) captureAssignments(ctx context.Context, req SalaryCreateRequest, semesterID *string) ([]models.TeachingAssignmentDetail, error) {
	var (
		details []models.TeachingAssignmentDetail
		err     error
	)
	if len(req.AssignmentIDs) > 0 {
		details, err = s.assignments.ListDetailsByIDs(ctx, req.TeacherID, req.AssignmentIDs)
		if err != nil {
			return nil, internalError(err, "không thể tải phân công giảng dạy")
		}
		if len(details) != len(uniqueStrings(req.AssignmentIDs)) {
			return nil, validationError(nil, "có phân công không tồn tại hoặc không thuộc giảng viên")
		}
		for _, detail := range details {
			if detail.Status == models.AssignmentStatusCancelled {
				return nil, appErrors.WithDetails(appErrors.ErrBusinessRule, "không thể tính lương cho phân công đã hủy", map[string]string{"assignment_id": detail.ID})
			}
		}
	} else {
		details, err = s.assignments.ListForPayroll(ctx, repository.PayrollQuery{
			TeacherID:      req.TeacherID,
			AcademicYearID: req.AcademicYearID,
			SemesterID:     semesterID,
			PeriodStart:    req.PeriodStart,
			PeriodEnd:      req.PeriodEnd,
		})
		if err != nil {
			return nil, internalError(err, "không thể tải phân công giảng dạy")
		}
	}
	if len(details) == 0 {
		return nil, businessRule("giảng viên không có phân công giảng dạy trong kỳ")
	}
	return details, nil
}

func (s *SalaryService) classCodes(ctx context.Context, calc *models.SalaryCalculation) map[string]string {
	ids := make([]string, 0, len(calc.Assignments))
	for _, entry := range calc.Assignments {
		ids = append(ids, entry.AssignmentID)
	}
	codes := make(map[string]string, len(ids))
	details, err := s.assignments.ListDetailsByIDs(ctx, calc.TeacherID, ids)
	if err != nil {
		s.logger.Warn("payslip class lookup failed", zap.String("calculation_id", calc.ID), zap.Error(err))
		return codes
	}
	for _, detail := range details {
		codes[detail.ID] = detail.ClassCode
	}
	return codes
}

func (s *SalaryService) invalidateStatistics(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, salaryStatsPattern)
}

func snapshotEntries(details []models.TeachingAssignmentDetail) models.AssignmentEntries {
	entries := make(models.AssignmentEntries, 0, len(details))
	for _, detail := range details {
		entries = append(entries, models.AssignmentEntry{
			AssignmentID:   detail.ID,
			ClassID:        detail.ClassID,
			SubjectID:      detail.SubjectID,
			AssignmentType: detail.AssignmentType,
			ClassType:      detail.ClassType,
			SubjectType:    detail.SubjectType,
			BaseHours:      detail.TeachingHours,
			OvertimeHours:  decimal.Zero,
			TotalHours:     detail.TeachingHours,
			AppliedRates:   []models.AppliedRate{},
		})
	}
	return entries
}

func findEntry(entries models.AssignmentEntries, assignmentID string) *models.AssignmentEntry {
	for i := range entries {
		if entries[i].AssignmentID == assignmentID {
			return &entries[i]
		}
	}
	return nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
