package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-payroll-api/internal/models"
)

type departmentRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Department, int, error)
	FindByID(ctx context.Context, id string) (*models.Department, error)
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)
	Create(ctx context.Context, department *models.Department) error
	Update(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id string) error
	CountDependents(ctx context.Context, id string) (int, error)
}

// DepartmentRequest is the payload for creating or replacing a department.
type DepartmentRequest struct {
	Code        string  `json:"code" validate:"required,max=20"`
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Active      *bool   `json:"active"`
}

// DepartmentService manages departments.
type DepartmentService struct {
	repo      departmentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDepartmentService constructs a DepartmentService.
func NewDepartmentService(repo departmentRepository, validate *validator.Validate, logger *zap.Logger) *DepartmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{repo: repo, validator: validate, logger: logger}
}

// List returns departments plus pagination data.
func (s *DepartmentService) List(ctx context.Context, filter models.ListFilter) ([]models.Department, *models.Pagination, error) {
	departments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "không thể tải danh sách khoa")
	}
	return departments, models.NewPagination(filter, total), nil
}

// Get returns a department by id.
func (s *DepartmentService) Get(ctx context.Context, id string) (*models.Department, error) {
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "không tìm thấy khoa", "không thể tải khoa")
	}
	return department, nil
}

// Create registers a department. New departments are active unless stated otherwise.
func (s *DepartmentService) Create(ctx context.Context, req DepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "dữ liệu khoa không hợp lệ")
	}
	if err := s.ensureUniqueCode(ctx, req.Code, ""); err != nil {
		return nil, err
	}
	department := &models.Department{Active: true}
	applyDepartment(department, req)
	if err := s.repo.Create(ctx, department); err != nil {
		s.logger.Error("create department failed", zap.String("code", department.Code), zap.Error(err))
		return nil, internalError(err, "không thể tạo khoa")
	}
	return department, nil
}

// Update replaces a department.
func (s *DepartmentService) Update(ctx context.Context, id string, req DepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "dữ liệu khoa không hợp lệ")
	}
	department, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, req.Code, id); err != nil {
		return nil, err
	}
	applyDepartment(department, req)
	if err := s.repo.Update(ctx, department); err != nil {
		return nil, internalError(err, "không thể cập nhật khoa")
	}
	return department, nil
}

// Delete removes a department without teachers or subjects.
func (s *DepartmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountDependents(ctx, id)
	if err != nil {
		return internalError(err, "không thể kiểm tra dữ liệu phụ thuộc")
	}
	if err := ensureNoDependents(count, "khoa"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "không thể xóa khoa")
	}
	return nil
}

func (s *DepartmentService) ensureUniqueCode(ctx context.Context, code, excludeID string) error {
	exists, err := s.repo.ExistsByCode(ctx, strings.TrimSpace(code), excludeID)
	if err != nil {
		return internalError(err, "không thể kiểm tra mã khoa")
	}
	if exists {
		return conflict("mã khoa đã tồn tại")
	}
	return nil
}

func applyDepartment(department *models.Department, req DepartmentRequest) {
	department.Code = strings.TrimSpace(req.Code)
	department.Name = strings.TrimSpace(req.Name)
	department.Description = normalizeOptional(req.Description)
	if req.Active != nil {
		department.Active = *req.Active
	}
}
