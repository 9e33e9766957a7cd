package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-payroll-api/internal/models"
	appErrors "github.com/noah-isme/uni-payroll-api/pkg/errors"
)

type teachingAssignmentRepository interface {
	List(ctx context.Context, filter models.TeachingAssignmentFilter) ([]models.TeachingAssignmentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.TeachingAssignment, error)
	FindDetail(ctx context.Context, id string) (*models.TeachingAssignmentDetail, error)
	ListScheduledByTeacher(ctx context.Context, teacherID, academicYearID string) ([]models.TeachingAssignmentDetail, error)
	Exists(ctx context.Context, teacherID, classID, excludeID string) (bool, error)
	Create(ctx context.Context, assignment *models.TeachingAssignment) error
	Update(ctx context.Context, assignment *models.TeachingAssignment) error
	Delete(ctx context.Context, id string) error
	CountSalaryReferences(ctx context.Context, id string) (int, error)
}

type teacherLookup interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type classDetailLookup interface {
	FindDetail(ctx context.Context, id string) (*models.ClassDetail, error)
}

// TeachingAssignmentRequest is the payload for creating or replacing an assignment.
type TeachingAssignmentRequest struct {
	TeacherID           string                      `json:"teacher_id" validate:"required"`
	ClassID             string                      `json:"class_id" validate:"required"`
	AssignmentType      string                      `json:"assignment_type" validate:"required,oneof=main assistant substitute"`
	TeachingHours       decimal.Decimal             `json:"teaching_hours"`
	TeachingCoefficient *decimal.Decimal            `json:"teaching_coefficient"`
	Workload            models.WorkloadDistribution `json:"workload_distribution"`
	Compensation        models.Compensation         `json:"compensation"`
	ScheduleStart       time.Time                   `json:"schedule_start" validate:"required"`
	ScheduleEnd         time.Time                   `json:"schedule_end" validate:"required,gtfield=ScheduleStart"`
	Notes               string                      `json:"notes" validate:"max=2000"`
}

// AssignmentApprovalRequest carries optional approval notes.
type AssignmentApprovalRequest struct {
	Notes string `json:"notes" validate:"max=1000"`
}

// AssignmentCancelRequest carries the cancellation reason.
type AssignmentCancelRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

// AssignmentStatusRequest moves an assignment along its workflow.
type AssignmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=assigned in_progress completed"`
}

// TeachingAssignmentService manages teaching assignments and their workflow.
type TeachingAssignmentService struct {
	repo      teachingAssignmentRepository
	teachers  teacherLookup
	classes   classDetailLookup
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewTeachingAssignmentService constructs a TeachingAssignmentService.
func NewTeachingAssignmentService(repo teachingAssignmentRepository, teachers teacherLookup, classes classDetailLookup, validate *validator.Validate, logger *zap.Logger) *TeachingAssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeachingAssignmentService{repo: repo, teachers: teachers, classes: classes, validator: validate, logger: logger, now: time.Now}
}

// List returns assignments plus pagination data.
func (s *TeachingAssignmentService) List(ctx context.Context, filter models.TeachingAssignmentFilter) ([]models.TeachingAssignmentDetail, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "không thể tải danh sách phân công")
	}
	return items, models.NewPagination(filter.ListFilter, total), nil
}

// Get returns an assignment with class and subject data.
func (s *TeachingAssignmentService) Get(ctx context.Context, id string) (*models.TeachingAssignmentDetail, error) {
	detail, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		return nil, lookupError(err, "không tìm thấy phân công giảng dạy", "không thể tải phân công giảng dạy")
	}
	return detail, nil
}

// Create assigns a teacher to a class after the duplicate and schedule checks.
func (s *TeachingAssignmentService) Create(ctx context.Context, req TeachingAssignmentRequest) (*models.TeachingAssignment, error) {
	class, err := s.check(ctx, req, "")
	if err != nil {
		return nil, err
	}
	assignment := &models.TeachingAssignment{Status: models.AssignmentStatusDraft}
	applyAssignment(assignment, req, class)
	if err := s.repo.Create(ctx, assignment); err != nil {
		s.logger.Error("create teaching assignment failed",
			zap.String("teacher_id", assignment.TeacherID),
			zap.String("class_id", assignment.ClassID),
			zap.Error(err))
		return nil, internalError(err, "không thể tạo phân công giảng dạy")
	}
	return assignment, nil
}

// Update replaces a non-terminal assignment.
func (s *TeachingAssignmentService) Update(ctx context.Context, id string, req TeachingAssignmentRequest) (*models.TeachingAssignment, error) {
	assignment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if assignment.Status.Terminal() {
		return nil, businessRule("không thể sửa phân công đã hoàn thành hoặc đã hủy")
	}
	class, err := s.check(ctx, req, id)
	if err != nil {
		return nil, err
	}
	applyAssignment(assignment, req, class)
	if err := s.repo.Update(ctx, assignment); err != nil {
		return nil, internalError(err, "không thể cập nhật phân công giảng dạy")
	}
	return assignment, nil
}

// Delete removes an assignment that no salary calculation has captured.
func (s *TeachingAssignmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountSalaryReferences(ctx, id)
	if err != nil {
		return internalError(err, "không thể kiểm tra bảng lương tham chiếu")
	}
	if err := ensureNoDependents(count, "phân công giảng dạy"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "không thể xóa phân công giảng dạy")
	}
	return nil
}

// Approve confirms the assignment on behalf of approvedBy.
func (s *TeachingAssignmentService) Approve(ctx context.Context, id, approvedBy string, req AssignmentApprovalRequest) (*models.TeachingAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "dữ liệu phê duyệt không hợp lệ")
	}
	assignment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !assignment.Status.CanTransitionTo(models.AssignmentStatusConfirmed) {
		return nil, businessRule("phân công không ở trạng thái có thể phê duyệt")
	}
	assignment.Approve(approvedBy, req.Notes, s.now().UTC())
	if err := s.repo.Update(ctx, assignment); err != nil {
		return nil, internalError(err, "không thể phê duyệt phân công giảng dạy")
	}
	s.logger.Info("teaching assignment approved", zap.String("assignment_id", id), zap.String("approved_by", approvedBy))
	return assignment, nil
}

// Cancel forces the assignment into the cancelled state whatever its current status.
func (s *TeachingAssignmentService) Cancel(ctx context.Context, id string, req AssignmentCancelRequest) (*models.TeachingAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "cần nêu lý do hủy")
	}
	assignment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := assignment.Status
	assignment.Cancel(req.Reason)
	if err := s.repo.Update(ctx, assignment); err != nil {
		return nil, internalError(err, "không thể hủy phân công giảng dạy")
	}
	s.logger.Info("teaching assignment cancelled", zap.String("assignment_id", id), zap.String("previous_status", string(previous)))
	return assignment, nil
}

// ChangeStatus applies a workflow transition other than approval and cancellation.
func (s *TeachingAssignmentService) ChangeStatus(ctx context.Context, id string, req AssignmentStatusRequest) (*models.TeachingAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "trạng thái không hợp lệ")
	}
	assignment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	next := models.AssignmentStatus(req.Status)
	if !assignment.Status.CanTransitionTo(next) {
		return nil, appErrors.WithDetails(appErrors.ErrBusinessRule, "không thể chuyển trạng thái phân công",
			map[string]string{"from": string(assignment.Status), "to": string(next)})
	}
	assignment.Status = next
	if err := s.repo.Update(ctx, assignment); err != nil {
		return nil, internalError(err, "không thể cập nhật trạng thái phân công")
	}
	return assignment, nil
}

func (s *TeachingAssignmentService) find(ctx context.Context, id string) (*models.TeachingAssignment, error) {
	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "không tìm thấy phân công giảng dạy", "không thể tải phân công giảng dạy")
	}
	return assignment, nil
}

func (s *TeachingAssignmentService) check(ctx context.Context, req TeachingAssignmentRequest, excludeID string) (*models.ClassDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "dữ liệu phân công không hợp lệ")
	}
	if !req.TeachingHours.IsPositive() {
		return nil, validationError(nil, "số giờ giảng dạy phải lớn hơn 0")
	}
	if req.TeachingCoefficient != nil && !req.TeachingCoefficient.IsPositive() {
		return nil, validationError(nil, "hệ số giảng dạy phải lớn hơn 0")
	}
	if req.Workload.Total().GreaterThan(req.TeachingHours) {
		return nil, validationError(nil, "tổng giờ phân bổ vượt quá số giờ giảng dạy")
	}

	teacher, err := s.teachers.FindByID(ctx, req.TeacherID)
	if err != nil {
		return nil, referenceError(err, "giảng viên không tồn tại", "không thể tải giảng viên")
	}
	if !teacher.Active {
		return nil, businessRule("giảng viên đã ngừng hoạt động")
	}
	class, err := s.classes.FindDetail(ctx, req.ClassID)
	if err != nil {
		return nil, referenceError(err, "lớp học không tồn tại", "không thể tải lớp học")
	}

	exists, err := s.repo.Exists(ctx, req.TeacherID, req.ClassID, excludeID)
	if err != nil {
		return nil, internalError(err, "không thể kiểm tra phân công trùng")
	}
	if exists {
		return nil, conflict("giảng viên đã được phân công cho lớp này")
	}

	existing, err := s.repo.ListScheduledByTeacher(ctx, req.TeacherID, class.AcademicYearID)
	if err != nil {
		return nil, internalError(err, "không thể tải lịch giảng dạy")
	}
	if conflicts := models.FindScheduleConflicts(class.Schedule, existing, class.ID, excludeID); len(conflicts) > 0 {
		return nil, appErrors.WithDetails(appErrors.ErrConflict, "lịch lớp học trùng với lịch giảng dạy hiện có", conflicts)
	}
	return class, nil
}

func applyAssignment(assignment *models.TeachingAssignment, req TeachingAssignmentRequest, class *models.ClassDetail) {
	assignment.TeacherID = req.TeacherID
	assignment.ClassID = class.ID
	assignment.SubjectID = class.SubjectID
	assignment.SemesterID = class.SemesterID
	assignment.AcademicYearID = class.AcademicYearID
	assignment.AssignmentType = models.AssignmentType(req.AssignmentType)
	assignment.TeachingHours = req.TeachingHours
	assignment.TeachingCoefficient = decimal.NewFromInt(1)
	if req.TeachingCoefficient != nil {
		assignment.TeachingCoefficient = *req.TeachingCoefficient
	}
	assignment.Workload = req.Workload
	assignment.Compensation = req.Compensation
	assignment.ScheduleStart = req.ScheduleStart
	assignment.ScheduleEnd = req.ScheduleEnd
	assignment.Notes = strings.TrimSpace(req.Notes)
}
