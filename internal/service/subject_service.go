package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-payroll-api/internal/models"
)

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id string) error
	CountDependents(ctx context.Context, id string) (int, error)
}

type departmentLookup interface {
	FindByID(ctx context.Context, id string) (*models.Department, error)
}

// SubjectRequest is the payload for creating or replacing a subject.
type SubjectRequest struct {
	Code          string `json:"code" validate:"required,max=20"`
	Name          string `json:"name" validate:"required,max=200"`
	DepartmentID  string `json:"department_id" validate:"required"`
	Credits       int    `json:"credits" validate:"required,min=1,max=20"`
	SubjectType   string `json:"subject_type" validate:"required,oneof=theory practice mixed"`
	TheoryHours   int    `json:"theory_hours" validate:"min=0"`
	PracticeHours int    `json:"practice_hours" validate:"min=0"`
}

// SubjectService manages the subject catalogue.
type SubjectService struct {
	repo        subjectRepository
	departments departmentLookup
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSubjectService constructs a SubjectService.
func NewSubjectService(repo subjectRepository, departments departmentLookup, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, departments: departments, validator: validate, logger: logger}
}

// List returns subjects plus pagination data.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, *models.Pagination, error) {
	subjects, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "không thể tải danh sách môn học")
	}
	return subjects, models.NewPagination(filter.ListFilter, total), nil
}

// Get returns a subject by id.
func (s *SubjectService) Get(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "không tìm thấy môn học", "không thể tải môn học")
	}
	return subject, nil
}

// Create registers a subject under an existing department.
func (s *SubjectService) Create(ctx context.Context, req SubjectRequest) (*models.Subject, error) {
	if err := s.check(ctx, req, ""); err != nil {
		return nil, err
	}
	subject := &models.Subject{}
	applySubject(subject, req)
	if err := s.repo.Create(ctx, subject); err != nil {
		s.logger.Error("create subject failed", zap.String("code", subject.Code), zap.Error(err))
		return nil, internalError(err, "không thể tạo môn học")
	}
	return subject, nil
}

// Update replaces a subject.
func (s *SubjectService) Update(ctx context.Context, id string, req SubjectRequest) (*models.Subject, error) {
	subject, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.check(ctx, req, id); err != nil {
		return nil, err
	}
	applySubject(subject, req)
	if err := s.repo.Update(ctx, subject); err != nil {
		return nil, internalError(err, "không thể cập nhật môn học")
	}
	return subject, nil
}

// Delete removes a subject without classes or assignments.
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountDependents(ctx, id)
	if err != nil {
		return internalError(err, "không thể kiểm tra dữ liệu phụ thuộc")
	}
	if err := ensureNoDependents(count, "môn học"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "không thể xóa môn học")
	}
	return nil
}

func (s *SubjectService) check(ctx context.Context, req SubjectRequest, excludeID string) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "dữ liệu môn học không hợp lệ")
	}
	if _, err := s.departments.FindByID(ctx, req.DepartmentID); err != nil {
		return referenceError(err, "khoa không tồn tại", "không thể tải khoa")
	}
	exists, err := s.repo.ExistsByCode(ctx, strings.TrimSpace(req.Code), excludeID)
	if err != nil {
		return internalError(err, "không thể kiểm tra mã môn học")
	}
	if exists {
		return conflict("mã môn học đã tồn tại")
	}
	return nil
}

func applySubject(subject *models.Subject, req SubjectRequest) {
	subject.Code = strings.TrimSpace(req.Code)
	subject.Name = strings.TrimSpace(req.Name)
	subject.DepartmentID = req.DepartmentID
	subject.Credits = req.Credits
	subject.SubjectType = models.SubjectType(req.SubjectType)
	subject.TheoryHours = req.TheoryHours
	subject.PracticeHours = req.PracticeHours
}
