package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-payroll-api/internal/models"
)

type degreeRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Degree, int, error)
	FindByID(ctx context.Context, id string) (*models.Degree, error)
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)
	Create(ctx context.Context, degree *models.Degree) error
	Update(ctx context.Context, degree *models.Degree) error
	Delete(ctx context.Context, id string) error
	CountDependents(ctx context.Context, id string) (int, error)
}

// DegreeRequest is the payload for creating or replacing a degree.
type DegreeRequest struct {
	Code        string           `json:"code" validate:"required,max=20"`
	Name        string           `json:"name" validate:"required,max=100"`
	Level       string           `json:"level" validate:"required,oneof=bachelor master doctor professor"`
	Coefficient *decimal.Decimal `json:"coefficient"`
}

// DegreeService manages degrees and their salary coefficients.
type DegreeService struct {
	repo      degreeRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDegreeService constructs a DegreeService.
func NewDegreeService(repo degreeRepository, validate *validator.Validate, logger *zap.Logger) *DegreeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DegreeService{repo: repo, validator: validate, logger: logger}
}

// List returns degrees plus pagination data.
func (s *DegreeService) List(ctx context.Context, filter models.ListFilter) ([]models.Degree, *models.Pagination, error) {
	degrees, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "không thể tải danh sách học vị")
	}
	return degrees, models.NewPagination(filter, total), nil
}

// Get returns a degree by id.
func (s *DegreeService) Get(ctx context.Context, id string) (*models.Degree, error) {
	degree, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "không tìm thấy học vị", "không thể tải học vị")
	}
	return degree, nil
}

// Create registers a degree. The coefficient defaults to 1.
func (s *DegreeService) Create(ctx context.Context, req DegreeRequest) (*models.Degree, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, req.Code, ""); err != nil {
		return nil, err
	}
	degree := &models.Degree{}
	applyDegree(degree, req)
	if err := s.repo.Create(ctx, degree); err != nil {
		s.logger.Error("create degree failed", zap.String("code", degree.Code), zap.Error(err))
		return nil, internalError(err, "không thể tạo học vị")
	}
	return degree, nil
}

// Update replaces a degree.
func (s *DegreeService) Update(ctx context.Context, id string, req DegreeRequest) (*models.Degree, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	degree, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, req.Code, id); err != nil {
		return nil, err
	}
	applyDegree(degree, req)
	if err := s.repo.Update(ctx, degree); err != nil {
		return nil, internalError(err, "không thể cập nhật học vị")
	}
	return degree, nil
}

// Delete removes a degree no teacher holds.
func (s *DegreeService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountDependents(ctx, id)
	if err != nil {
		return internalError(err, "không thể kiểm tra dữ liệu phụ thuộc")
	}
	if err := ensureNoDependents(count, "học vị"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "không thể xóa học vị")
	}
	return nil
}

func (s *DegreeService) validate(req DegreeRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "dữ liệu học vị không hợp lệ")
	}
	if req.Coefficient != nil && !req.Coefficient.IsPositive() {
		return validationError(nil, "hệ số học vị phải lớn hơn 0")
	}
	return nil
}

func (s *DegreeService) ensureUniqueCode(ctx context.Context, code, excludeID string) error {
	exists, err := s.repo.ExistsByCode(ctx, strings.TrimSpace(code), excludeID)
	if err != nil {
		return internalError(err, "không thể kiểm tra mã học vị")
	}
	if exists {
		return conflict("mã học vị đã tồn tại")
	}
	return nil
}

func applyDegree(degree *models.Degree, req DegreeRequest) {
	degree.Code = strings.TrimSpace(req.Code)
	degree.Name = strings.TrimSpace(req.Name)
	degree.Level = models.DegreeLevel(req.Level)
	degree.Coefficient = decimal.NewFromInt(1)
	if req.Coefficient != nil {
		degree.Coefficient = *req.Coefficient
	}
}
