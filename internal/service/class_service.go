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

type classRepository interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error)
	FindByID(ctx context.Context, id string) (*models.Class, error)
	FindDetail(ctx context.Context, id string) (*models.ClassDetail, error)
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id string) error
	CountDependents(ctx context.Context, id string) (int, error)
}

type semesterLookup interface {
	FindByID(ctx context.Context, id string) (*models.Semester, error)
}

type subjectLookup interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

type classAssignmentSource interface {
	ListTeacherIDsByClass(ctx context.Context, classID string) ([]string, error)
	ListScheduledByTeacher(ctx context.Context, teacherID, academicYearID string) ([]models.TeachingAssignmentDetail, error)
}

// ClassRequest is the payload for creating or replacing a class.
type ClassRequest struct {
	Code             string               `json:"code" validate:"required,max=30"`
	Name             string               `json:"name" validate:"required,max=200"`
	SubjectID        string               `json:"subject_id" validate:"required"`
	SemesterID       string               `json:"semester_id" validate:"required"`
	ClassType        string               `json:"class_type" validate:"required,oneof=lecture practice lab seminar"`
	MaxStudents      int                  `json:"max_students" validate:"required,min=1"`
	EnrolledStudents int                  `json:"enrolled_students" validate:"min=0,ltefield=MaxStudents"`
	Schedule         models.ClassSchedule `json:"schedule" validate:"dive"`
	StartDate        time.Time            `json:"start_date" validate:"required"`
	EndDate          time.Time            `json:"end_date" validate:"required,gtfield=StartDate"`
	Status           string               `json:"status" validate:"omitempty,oneof=planned open closed cancelled"`
}

// ClassView adds derived fields to a class.
type ClassView struct {
	models.ClassDetail
	EnrollmentPercentage decimal.Decimal `json:"enrollment_percentage"`
}

// TeacherScheduleConflict groups the conflicts found for one teacher.
type TeacherScheduleConflict struct {
	TeacherID string                    `json:"teacher_id"`
	Conflicts []models.ScheduleConflict `json:"conflicts"`
}

// ClassService coordinates class operations.
type ClassService struct {
	repo        classRepository
	semesters   semesterLookup
	subjects    subjectLookup
	assignments classAssignmentSource
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewClassService constructs a ClassService.
func NewClassService(repo classRepository, semesters semesterLookup, subjects subjectLookup, assignments classAssignmentSource, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, semesters: semesters, subjects: subjects, assignments: assignments, validator: validate, logger: logger}
}

// List returns classes plus pagination data.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, *models.Pagination, error) {
	classes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "không thể tải danh sách lớp học")
	}
	return classes, models.NewPagination(filter.ListFilter, total), nil
}

// Get returns a class with subject data and enrollment percentage.
func (s *ClassService) Get(ctx context.Context, id string) (*ClassView, error) {
	detail, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		return nil, lookupError(err, "không tìm thấy lớp học", "không thể tải lớp học")
	}
	return &ClassView{
		ClassDetail:          *detail,
		EnrollmentPercentage: models.EnrollmentPercentage(detail.EnrolledStudents, detail.MaxStudents),
	}, nil
}

// Create registers a class. The academic year is taken from the semester.
func (s *ClassService) Create(ctx context.Context, req ClassRequest) (*models.Class, error) {
	semester, err := s.check(ctx, req, "")
	if err != nil {
		return nil, err
	}
	class := &models.Class{Status: models.ClassStatusPlanned}
	applyClass(class, req, semester)
	if err := s.repo.Create(ctx, class); err != nil {
		s.logger.Error("create class failed", zap.String("code", class.Code), zap.Error(err))
		return nil, internalError(err, "không thể tạo lớp học")
	}
	return class, nil
}

// Update replaces a class. A new schedule is checked against every teacher assigned to the class.
func (s *ClassService) Update(ctx context.Context, id string, req ClassRequest) (*models.Class, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "không tìm thấy lớp học", "không thể tải lớp học")
	}
	semester, err := s.check(ctx, req, id)
	if err != nil {
		return nil, err
	}
	applyClass(class, req, semester)

	if err := s.ensureTeachersFree(ctx, class); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, class); err != nil {
		return nil, internalError(err, "không thể cập nhật lớp học")
	}
	return class, nil
}

// Delete removes a class without teaching assignments.
func (s *ClassService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return lookupError(err, "không tìm thấy lớp học", "không thể tải lớp học")
	}
	count, err := s.repo.CountDependents(ctx, id)
	if err != nil {
		return internalError(err, "không thể kiểm tra dữ liệu phụ thuộc")
	}
	if err := ensureNoDependents(count, "lớp học"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "không thể xóa lớp học")
	}
	return nil
}

func (s *ClassService) ensureTeachersFree(ctx context.Context, class *models.Class) error {
	if len(class.Schedule) == 0 {
		return nil
	}
	teacherIDs, err := s.assignments.ListTeacherIDsByClass(ctx, class.ID)
	if err != nil {
		return internalError(err, "không thể tải giảng viên của lớp")
	}
	var found []TeacherScheduleConflict
	for _, teacherID := range teacherIDs {
		existing, err := s.assignments.ListScheduledByTeacher(ctx, teacherID, class.AcademicYearID)
		if err != nil {
			return internalError(err, "không thể tải lịch giảng dạy")
		}
		if conflicts := models.FindScheduleConflicts(class.Schedule, existing, class.ID, ""); len(conflicts) > 0 {
			found = append(found, TeacherScheduleConflict{TeacherID: teacherID, Conflicts: conflicts})
		}
	}
	if len(found) > 0 {
		s.logger.Info("class schedule rejected", zap.String("class_id", class.ID), zap.Int("teachers", len(found)))
		return appErrors.WithDetails(appErrors.ErrConflict, "lịch học trùng với lịch giảng dạy của giảng viên", found)
	}
	return nil
}

func (s *ClassService) check(ctx context.Context, req ClassRequest, excludeID string) (*models.Semester, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "dữ liệu lớp học không hợp lệ")
	}
	semester, err := s.semesters.FindByID(ctx, req.SemesterID)
	if err != nil {
		return nil, referenceError(err, "học kỳ không tồn tại", "không thể tải học kỳ")
	}
	if _, err := s.subjects.FindByID(ctx, req.SubjectID); err != nil {
		return nil, referenceError(err, "môn học không tồn tại", "không thể tải môn học")
	}
	exists, err := s.repo.ExistsByCode(ctx, strings.TrimSpace(req.Code), excludeID)
	if err != nil {
		return nil, internalError(err, "không thể kiểm tra mã lớp học")
	}
	if exists {
		return nil, conflict("mã lớp học đã tồn tại")
	}
	return semester, nil
}

func applyClass(class *models.Class, req ClassRequest, semester *models.Semester) {
	class.Code = strings.TrimSpace(req.Code)
	class.Name = strings.TrimSpace(req.Name)
	class.SubjectID = req.SubjectID
	class.SemesterID = req.SemesterID
	class.AcademicYearID = semester.AcademicYearID
	class.ClassType = models.ClassType(req.ClassType)
	class.MaxStudents = req.MaxStudents
	class.EnrolledStudents = req.EnrolledStudents
	class.Schedule = req.Schedule
	if class.Schedule == nil {
		class.Schedule = models.ClassSchedule{}
	}
	class.StartDate = req.StartDate
	class.EndDate = req.EndDate
	if req.Status != "" {
		class.Status = models.ClassStatus(req.Status)
	}
}
