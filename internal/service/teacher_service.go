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

type teacherRepository interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, id string) error
	CountDependents(ctx context.Context, id string) (int, error)
}

type degreeLookup interface {
	FindByID(ctx context.Context, id string) (*models.Degree, error)
}

type classLookup interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

type teacherScheduleSource interface {
	ListScheduledByTeacher(ctx context.Context, teacherID, academicYearID string) ([]models.TeachingAssignmentDetail, error)
}

var ratingCeiling = decimal.NewFromInt(5)

// TeacherRequest is the payload for creating or replacing a teacher.
type TeacherRequest struct {
	Code         string           `json:"code" validate:"required,max=20"`
	FullName     string           `json:"full_name" validate:"required,max=200"`
	Email        string           `json:"email" validate:"required,email"`
	Phone        *string          `json:"phone" validate:"omitempty,max=20"`
	DepartmentID string           `json:"department_id" validate:"required"`
	DegreeID     string           `json:"degree_id" validate:"required"`
	Position     string           `json:"position" validate:"required,oneof=department_head deputy_head section_head lecturer assistant"`
	HireDate     time.Time        `json:"hire_date" validate:"required"`
	Rating       *decimal.Decimal `json:"rating"`
	Active       *bool            `json:"active"`
}

// AvailabilityQuery describes the slots to probe for a teacher.
// ClassID takes precedence: its schedule and academic year are used and the class itself is ignored.
type AvailabilityQuery struct {
	AcademicYearID string
	ClassID        string
	Sessions       models.ClassSchedule
}

// TeacherAvailability reports whether the requested slots are free.
type TeacherAvailability struct {
	TeacherID      string                    `json:"teacher_id"`
	AcademicYearID string                    `json:"academic_year_id"`
	Available      bool                      `json:"available"`
	Conflicts      []models.ScheduleConflict `json:"conflicts"`
}

// TeacherView adds derived fields to a teacher.
type TeacherView struct {
	models.Teacher
	YearsOfService int `json:"years_of_service"`
}

// TeacherService orchestrates teacher operations.
type TeacherService struct {
	repo        teacherRepository
	departments departmentLookup
	degrees     degreeLookup
	classes     classLookup
	schedules   teacherScheduleSource
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherRepository, departments departmentLookup, degrees degreeLookup, classes classLookup, schedules teacherScheduleSource, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{
		repo:        repo,
		departments: departments,
		degrees:     degrees,
		classes:     classes,
		schedules:   schedules,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
}

// List returns teachers plus pagination data.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]TeacherView, *models.Pagination, error) {
	teachers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "không thể tải danh sách giảng viên")
	}
	views := make([]TeacherView, 0, len(teachers))
	for _, teacher := range teachers {
		views = append(views, s.view(teacher))
	}
	return views, models.NewPagination(filter.ListFilter, total), nil
}

// Get returns a teacher by id.
func (s *TeacherService) Get(ctx context.Context, id string) (*TeacherView, error) {
	teacher, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	view := s.view(*teacher)
	return &view, nil
}

// Create registers a new teacher record.
func (s *TeacherService) Create(ctx context.Context, req TeacherRequest) (*TeacherView, error) {
	if err := s.check(ctx, req, ""); err != nil {
		return nil, err
	}
	teacher := &models.Teacher{Active: true}
	applyTeacher(teacher, req)
	if err := s.repo.Create(ctx, teacher); err != nil {
		s.logger.Error("create teacher failed", zap.String("code", teacher.Code), zap.Error(err))
		return nil, internalError(err, "không thể tạo giảng viên")
	}
	view := s.view(*teacher)
	return &view, nil
}

// Update replaces an existing teacher.
func (s *TeacherService) Update(ctx context.Context, id string, req TeacherRequest) (*TeacherView, error) {
	teacher, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.check(ctx, req, id); err != nil {
		return nil, err
	}
	applyTeacher(teacher, req)
	if err := s.repo.Update(ctx, teacher); err != nil {
		return nil, internalError(err, "không thể cập nhật giảng viên")
	}
	view := s.view(*teacher)
	return &view, nil
}

// Delete removes a teacher without assignments or salary calculations.
func (s *TeacherService) Delete(ctx context.Context, id string) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountDependents(ctx, id)
	if err != nil {
		return internalError(err, "không thể kiểm tra dữ liệu phụ thuộc")
	}
	if err := ensureNoDependents(count, "giảng viên"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "không thể xóa giảng viên")
	}
	return nil
}

// Availability checks the requested slots against the teacher's scheduled assignments in the academic year.
func (s *TeacherService) Availability(ctx context.Context, id string, query AvailabilityQuery) (*TeacherAvailability, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	sessions := query.Sessions
	yearID := query.AcademicYearID
	if query.ClassID != "" {
		class, err := s.classes.FindByID(ctx, query.ClassID)
		if err != nil {
			return nil, lookupError(err, "không tìm thấy lớp học", "không thể tải lớp học")
		}
		sessions = class.Schedule
		yearID = class.AcademicYearID
	}
	if yearID == "" {
		return nil, validationError(nil, "cần chỉ định năm học hoặc lớp học")
	}
	if len(sessions) == 0 {
		return nil, validationError(nil, "cần ít nhất một buổi học để kiểm tra")
	}
	for _, session := range sessions {
		if err := s.validator.Struct(session); err != nil {
			return nil, validationError(err, "buổi học không hợp lệ")
		}
	}

	existing, err := s.schedules.ListScheduledByTeacher(ctx, id, yearID)
	if err != nil {
		return nil, internalError(err, "không thể tải lịch giảng dạy")
	}
	conflicts := models.FindScheduleConflicts(sessions, existing, query.ClassID, "")
	if conflicts == nil {
		conflicts = []models.ScheduleConflict{}
	}
	return &TeacherAvailability{
		TeacherID:      id,
		AcademicYearID: yearID,
		Available:      len(conflicts) == 0,
		Conflicts:      conflicts,
	}, nil
}

func (s *TeacherService) find(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "không tìm thấy giảng viên", "không thể tải giảng viên")
	}
	return teacher, nil
}

func (s *TeacherService) view(teacher models.Teacher) TeacherView {
	return TeacherView{Teacher: teacher, YearsOfService: models.YearsOfService(teacher.HireDate, s.now())}
}

func (s *TeacherService) check(ctx context.Context, req TeacherRequest, excludeID string) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "dữ liệu giảng viên không hợp lệ")
	}
	if req.Rating != nil && (req.Rating.IsNegative() || req.Rating.GreaterThan(ratingCeiling)) {
		return validationError(nil, "điểm đánh giá phải nằm trong khoảng 0 đến 5")
	}
	if _, err := s.departments.FindByID(ctx, req.DepartmentID); err != nil {
		return referenceError(err, "khoa không tồn tại", "không thể tải khoa")
	}
	if _, err := s.degrees.FindByID(ctx, req.DegreeID); err != nil {
		return referenceError(err, "học vị không tồn tại", "không thể tải học vị")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.repo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return internalError(err, "không thể kiểm tra email")
	}
	if exists {
		return conflict("email đã được sử dụng")
	}
	exists, err = s.repo.ExistsByCode(ctx, strings.TrimSpace(req.Code), excludeID)
	if err != nil {
		return internalError(err, "không thể kiểm tra mã giảng viên")
	}
	if exists {
		return conflict("mã giảng viên đã tồn tại")
	}
	return nil
}

func applyTeacher(teacher *models.Teacher, req TeacherRequest) {
	teacher.Code = strings.TrimSpace(req.Code)
	teacher.FullName = strings.TrimSpace(req.FullName)
	teacher.Email = strings.ToLower(strings.TrimSpace(req.Email))
	teacher.Phone = normalizeOptional(req.Phone)
	teacher.DepartmentID = req.DepartmentID
	teacher.DegreeID = req.DegreeID
	teacher.Position = models.TeacherPosition(req.Position)
	teacher.HireDate = req.HireDate
	teacher.Rating = decimal.NullDecimal{}
	if req.Rating != nil {
		teacher.Rating = decimal.NewNullDecimal(*req.Rating)
	}
	if req.Active != nil {
		teacher.Active = *req.Active
	}
}
