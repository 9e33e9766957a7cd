package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-payroll-api/internal/models"
)

type rateSettingRepository interface {
	List(ctx context.Context, filter models.RateSettingFilter) ([]models.RateSetting, int, error)
	FindByID(ctx context.Context, id string) (*models.RateSetting, error)
	ListActive(ctx context.Context, at time.Time, rateType models.RateType) ([]models.RateSetting, error)
	ExistsByCode(ctx context.Context, code string, excludeIDs ...string) (bool, error)
	Create(ctx context.Context, setting *models.RateSetting) error
	Update(ctx context.Context, setting *models.RateSetting) error
	Activate(ctx context.Context, setting *models.RateSetting) error
	Delete(ctx context.Context, id string) error
	CountSalaryReferences(ctx context.Context, id string) (int, error)
	CountSuccessors(ctx context.Context, id string) (int, error)
}

type teacherProfileLookup interface {
	FindProfile(ctx context.Context, id string) (*models.TeacherProfile, error)
}

type assignmentDetailLookup interface {
	FindDetail(ctx context.Context, id string) (*models.TeachingAssignmentDetail, error)
}

// RateSettingRequest is the payload for creating or replacing a rate setting.
type RateSettingRequest struct {
	Code          string                `json:"code" validate:"required,max=50"`
	Name          string                `json:"name" validate:"required,max=200"`
	Description   *string               `json:"description" validate:"omitempty,max=2000"`
	RateType      string                `json:"rate_type" validate:"required,oneof=base_hourly base_monthly overtime bonus allowance coefficient"`
	Scope         string                `json:"applicable_scope" validate:"required,oneof=university department position degree subject_type class_type"`
	TargetID      *string               `json:"target_id"`
	TargetModel   *string               `json:"target_model"`
	RateValues    models.RateValues     `json:"rate_values"`
	Conditions    models.RateConditions `json:"conditions"`
	EffectiveFrom time.Time             `json:"effective_from" validate:"required"`
	EffectiveTo   *time.Time            `json:"effective_to"`
	Priority      int                   `json:"priority" validate:"min=0,max=1000"`
	Version       int                   `json:"version" validate:"min=0"`
}

// RateTransitionRequest carries the version a lifecycle call expects.
type RateTransitionRequest struct {
	Version int `json:"version" validate:"min=0"`
}

// ApplicableQuery selects the teacher and assignment for a rate preview.
type ApplicableQuery struct {
	TeacherID    string     `form:"teacher_id" validate:"required"`
	AssignmentID string     `form:"assignment_id" validate:"required"`
	At           *time.Time `form:"at" time_format:"2006-01-02"`
}

// ApplicableRate pairs a matching setting with the amount it would contribute.
type ApplicableRate struct {
	models.RateSetting
	Amount decimal.Decimal `json:"calculated_amount"`
}

// ApplicablePreview is the result of a rate preview.
type ApplicablePreview struct {
	TeacherID      string           `json:"teacher_id"`
	AssignmentID   string           `json:"assignment_id"`
	At             time.Time        `json:"at"`
	YearsOfService int              `json:"years_of_service"`
	Rates          []ApplicableRate `json:"rates"`
	Total          decimal.Decimal  `json:"total"`
}

// RateSettingService manages rate settings and their approval lifecycle.
type RateSettingService struct {
	repo        rateSettingRepository
	engine      *RateEngine
	teachers    teacherProfileLookup
	assignments assignmentDetailLookup
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewRateSettingService constructs a RateSettingService.
func NewRateSettingService(repo rateSettingRepository, engine *RateEngine, teachers teacherProfileLookup, assignments assignmentDetailLookup, validate *validator.Validate, logger *zap.Logger) *RateSettingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateSettingService{
		repo:        repo,
		engine:      engine,
		teachers:    teachers,
		assignments: assignments,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
}

// List returns rate settings plus pagination data.
func (s *RateSettingService) List(ctx context.Context, filter models.RateSettingFilter) ([]models.RateSetting, *models.Pagination, error) {
	settings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "không thể tải danh sách định mức")
	}
	return settings, models.NewPagination(filter.ListFilter, total), nil
}

// Get returns a rate setting by id.
func (s *RateSettingService) Get(ctx context.Context, id string) (*models.RateSetting, error) {
	setting, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "không tìm thấy định mức", "không thể tải định mức")
	}
	return setting, nil
}

// Active returns the settings of a type usable right now, highest priority first.
func (s *RateSettingService) Active(ctx context.Context, rateType string) ([]models.RateSetting, error) {
	kind := models.RateType(rateType)
	if !kind.Valid() {
		return nil, validationError(nil, "loại định mức không hợp lệ")
	}
	settings, err := s.repo.ListActive(ctx, s.now().UTC(), kind)
	if err != nil {
		return nil, internalError(err, "không thể tải định mức đang áp dụng")
	}
	if settings == nil {
		settings = []models.RateSetting{}
	}
	return settings, nil
}

// Create stores a new draft setting.
func (s *RateSettingService) Create(ctx context.Context, req RateSettingRequest, actor string) (*models.RateSetting, error) {
	setting := &models.RateSetting{Status: models.RateStatusDraft, CreatedBy: actor}
	if err := s.prepare(setting, req); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, setting.Code); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, setting); err != nil {
		s.logger.Error("create rate setting failed", zap.String("code", setting.Code), zap.Error(err))
		return nil, internalError(err, "không thể tạo định mức")
	}
	return setting, nil
}

// Update replaces a draft or pending setting.
func (s *RateSettingService) Update(ctx context.Context, id string, req RateSettingRequest) (*models.RateSetting, error) {
	setting, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(req.Version, setting.Version); err != nil {
		return nil, err
	}
	if !setting.Status.Editable() {
		return nil, businessRule("chỉ được sửa định mức ở trạng thái nháp hoặc chờ duyệt")
	}
	if err := s.prepare(setting, req); err != nil {
		return nil, err
	}
	excluded := []string{setting.ID}
	if setting.Supersedes != nil {
		excluded = append(excluded, *setting.Supersedes)
	}
	if err := s.ensureUniqueCode(ctx, setting.Code, excluded...); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, setting); err != nil {
		return nil, writeError(err, "không thể cập nhật định mức")
	}
	return setting, nil
}

// Submit moves a draft to pending approval.
func (s *RateSettingService) Submit(ctx context.Context, id string, req RateTransitionRequest) (*models.RateSetting, error) {
	return s.transition(ctx, id, req.Version, models.RateStatusDraft, "chỉ định mức nháp mới được gửi duyệt", func(setting *models.RateSetting) {
		setting.Status = models.RateStatusPendingApproval
	})
}

// Approve records the approval of a pending setting.
func (s *RateSettingService) Approve(ctx context.Context, id, actor string, req RateTransitionRequest) (*models.RateSetting, error) {
	return s.transition(ctx, id, req.Version, models.RateStatusPendingApproval, "chỉ định mức chờ duyệt mới được phê duyệt", func(setting *models.RateSetting) {
		at := s.now().UTC()
		setting.Status = models.RateStatusApproved
		setting.ApprovedBy = &actor
		setting.ApprovedAt = &at
	})
}

// Activate makes an approved or inactive setting usable. A successor retires its predecessor.
func (s *RateSettingService) Activate(ctx context.Context, id string, req RateTransitionRequest) (*models.RateSetting, error) {
	setting, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(req.Version, setting.Version); err != nil {
		return nil, err
	}
	if setting.Status != models.RateStatusApproved && setting.Status != models.RateStatusInactive {
		return nil, businessRule("chỉ định mức đã duyệt hoặc tạm ngưng mới được kích hoạt")
	}
	setting.Status = models.RateStatusActive
	setting.IsActive = true
	if err := s.repo.Activate(ctx, setting); err != nil {
		return nil, writeError(err, "không thể kích hoạt định mức")
	}
	s.logger.Info("rate setting activated", zap.String("rate_id", setting.ID), zap.String("code", setting.Code))
	return setting, nil
}

// Deactivate takes an active setting out of calculations.
func (s *RateSettingService) Deactivate(ctx context.Context, id string, req RateTransitionRequest) (*models.RateSetting, error) {
	return s.transition(ctx, id, req.Version, models.RateStatusActive, "chỉ định mức đang áp dụng mới được tạm ngưng", func(setting *models.RateSetting) {
		setting.Status = models.RateStatusInactive
		setting.IsActive = false
	})
}

// Supersede creates a draft successor of the setting with the given replacement values.
// The predecessor stays active until the successor is activated.
func (s *RateSettingService) Supersede(ctx context.Context, id string, req RateSettingRequest, actor string) (*models.RateSetting, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != models.RateStatusActive && current.Status != models.RateStatusApproved && current.Status != models.RateStatusInactive {
		return nil, businessRule("chỉ định mức đã duyệt mới có thể được thay thế")
	}
	successors, err := s.repo.CountSuccessors(ctx, id)
	if err != nil {
		return nil, internalError(err, "không thể kiểm tra định mức thay thế")
	}
	if successors > 0 {
		return nil, conflict("định mức đã có bản thay thế")
	}

	next := &models.RateSetting{Status: models.RateStatusDraft, CreatedBy: actor, Supersedes: stringPtr(current.ID)}
	req.Version = 0
	if err := s.prepare(next, req); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, next.Code, current.ID); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, next); err != nil {
		return nil, internalError(err, "không thể tạo định mức thay thế")
	}
	s.logger.Info("rate setting superseded", zap.String("rate_id", current.ID), zap.String("successor_id", next.ID))
	return next, nil
}

// Delete removes a setting that is not active and never fed a calculation.
func (s *RateSettingService) Delete(ctx context.Context, id string) error {
	setting, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if setting.Status == models.RateStatusActive {
		return businessRule("không thể xóa định mức đang áp dụng")
	}
	references, err := s.repo.CountSalaryReferences(ctx, id)
	if err != nil {
		return internalError(err, "không thể kiểm tra bảng lương tham chiếu")
	}
	successors, err := s.repo.CountSuccessors(ctx, id)
	if err != nil {
		return internalError(err, "không thể kiểm tra định mức thay thế")
	}
	if err := ensureNoDependents(references+successors, "định mức"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "không thể xóa định mức")
	}
	return nil
}

// Applicable previews which settings would apply to a teacher's assignment and what each contributes.
func (s *RateSettingService) Applicable(ctx context.Context, query ApplicableQuery) (*ApplicablePreview, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, validationError(err, "cần chỉ định giảng viên và phân công")
	}
	profile, err := s.teachers.FindProfile(ctx, query.TeacherID)
	if err != nil {
		return nil, lookupError(err, "không tìm thấy giảng viên", "không thể tải giảng viên")
	}
	detail, err := s.assignments.FindDetail(ctx, query.AssignmentID)
	if err != nil {
		return nil, lookupError(err, "không tìm thấy phân công giảng dạy", "không thể tải phân công giảng dạy")
	}
	if detail.TeacherID != profile.ID {
		return nil, validationError(nil, "phân công không thuộc giảng viên này")
	}

	at := s.now().UTC()
	if query.At != nil {
		at = query.At.UTC()
	}
	teacherCtx := teacherRateContext(profile, at)
	rates, err := s.engine.FindApplicable(ctx, teacherCtx, assignmentRateContext(detail, detail.TeachingHours), at)
	if err != nil {
		return nil, internalError(err, "không thể tải định mức áp dụng")
	}

	preview := &ApplicablePreview{
		TeacherID:      profile.ID,
		AssignmentID:   detail.ID,
		At:             at,
		YearsOfService: teacherCtx.YearsOfService,
		Rates:          make([]ApplicableRate, 0, len(rates)),
		Total:          decimal.Zero,
	}
	years := teacherCtx.YearsOfService
	for _, rate := range rates {
		amount := rate.Calculate(detail.TeachingHours, models.RateFactors{ExperienceYears: &years})
		preview.Rates = append(preview.Rates, ApplicableRate{RateSetting: rate, Amount: amount})
		if rate.RateType != models.RateTypeCoefficient {
			preview.Total = preview.Total.Add(amount)
		}
	}
	return preview, nil
}

func (s *RateSettingService) transition(ctx context.Context, id string, version int, from models.RateStatus, message string, apply func(*models.RateSetting)) (*models.RateSetting, error) {
	setting, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(version, setting.Version); err != nil {
		return nil, err
	}
	if setting.Status != from {
		return nil, businessRule(message)
	}
	apply(setting)
	if err := s.repo.Update(ctx, setting); err != nil {
		return nil, writeError(err, "không thể cập nhật trạng thái định mức")
	}
	return setting, nil
}

func (s *RateSettingService) prepare(setting *models.RateSetting, req RateSettingRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "dữ liệu định mức không hợp lệ")
	}
	for _, criterion := range req.Conditions.AdditionalCriteria {
		if err := s.validator.Struct(criterion); err != nil {
			return validationError(err, "điều kiện bổ sung không hợp lệ")
		}
	}
	setting.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	setting.Name = strings.TrimSpace(req.Name)
	setting.Description = normalizeOptional(req.Description)
	setting.RateType = models.RateType(req.RateType)
	setting.Scope = models.RateScope(req.Scope)
	setting.TargetID = normalizeOptional(req.TargetID)
	setting.TargetModel = normalizeOptional(req.TargetModel)
	setting.RateValues = req.RateValues
	if setting.RateValues.Coefficient.IsZero() {
		setting.RateValues.Coefficient = decimal.NewFromInt(1)
	}
	setting.Conditions = req.Conditions
	setting.EffectiveFrom = req.EffectiveFrom
	setting.EffectiveTo = req.EffectiveTo
	setting.Priority = req.Priority
	if err := setting.Validate(); err != nil {
		return validationError(err, err.Error())
	}
	return nil
}

func (s *RateSettingService) ensureUniqueCode(ctx context.Context, code string, excludeIDs ...string) error {
	exists, err := s.repo.ExistsByCode(ctx, code, excludeIDs...)
	if err != nil {
		return internalError(err, "không thể kiểm tra mã định mức")
	}
	if exists {
		return conflict("mã định mức đã tồn tại")
	}
	return nil
}
