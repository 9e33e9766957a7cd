package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-payroll-api/internal/models"
)

type academicYearRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.AcademicYear, int, error)
	FindByID(ctx context.Context, id string) (*models.AcademicYear, error)
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)
	Create(ctx context.Context, year *models.AcademicYear) error
	Update(ctx context.Context, year *models.AcademicYear) error
	Delete(ctx context.Context, id string) error
	CountDependents(ctx context.Context, id string) (int, error)
}

// AcademicYearRequest is the payload for creating or replacing an academic year.
type AcademicYearRequest struct {
	Code      string    `json:"code" validate:"required,max=20"`
	Name      string    `json:"name" validate:"required,max=100"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	IsCurrent bool      `json:"is_current"`
}

// AcademicYearService manages academic years. Marking one current clears the flag elsewhere.
type AcademicYearService struct {
	repo      academicYearRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAcademicYearService constructs an AcademicYearService.
func NewAcademicYearService(repo academicYearRepository, validate *validator.Validate, logger *zap.Logger) *AcademicYearService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AcademicYearService{repo: repo, validator: validate, logger: logger}
}

// List returns academic years plus pagination data.
func (s *AcademicYearService) List(ctx context.Context, filter models.ListFilter) ([]models.AcademicYear, *models.Pagination, error) {
	years, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "không thể tải danh sách năm học")
	}
	return years, models.NewPagination(filter, total), nil
}

// Get returns an academic year by id.
func (s *AcademicYearService) Get(ctx context.Context, id string) (*models.AcademicYear, error) {
	year, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "không tìm thấy năm học", "không thể tải năm học")
	}
	return year, nil
}

// Create registers a new academic year.
func (s *AcademicYearService) Create(ctx context.Context, req AcademicYearRequest) (*models.AcademicYear, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "dữ liệu năm học không hợp lệ")
	}
	if err := s.ensureUniqueCode(ctx, req.Code, ""); err != nil {
		return nil, err
	}
	year := &models.AcademicYear{}
	applyAcademicYear(year, req)
	if err := s.repo.Create(ctx, year); err != nil {
		s.logger.Error("create academic year failed", zap.String("code", year.Code), zap.Error(err))
		return nil, internalError(err, "không thể tạo năm học")
	}
	return year, nil
}

// Update replaces an academic year.
func (s *AcademicYearService) Update(ctx context.Context, id string, req AcademicYearRequest) (*models.AcademicYear, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "dữ liệu năm học không hợp lệ")
	}
	year, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, req.Code, id); err != nil {
		return nil, err
	}
	applyAcademicYear(year, req)
	if err := s.repo.Update(ctx, year); err != nil {
		return nil, internalError(err, "không thể cập nhật năm học")
	}
	return year, nil
}

// Delete removes an academic year that nothing references.
func (s *AcademicYearService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountDependents(ctx, id)
	if err != nil {
		return internalError(err, "không thể kiểm tra dữ liệu phụ thuộc")
	}
	if err := ensureNoDependents(count, "năm học"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "không thể xóa năm học")
	}
	return nil
}

func (s *AcademicYearService) ensureUniqueCode(ctx context.Context, code, excludeID string) error {
	exists, err := s.repo.ExistsByCode(ctx, strings.TrimSpace(code), excludeID)
	if err != nil {
		return internalError(err, "không thể kiểm tra mã năm học")
	}
	if exists {
		return conflict("mã năm học đã tồn tại")
	}
	return nil
}

func applyAcademicYear(year *models.AcademicYear, req AcademicYearRequest) {
	year.Code = strings.TrimSpace(req.Code)
	year.Name = strings.TrimSpace(req.Name)
	year.StartDate = req.StartDate
	year.EndDate = req.EndDate
	year.IsCurrent = req.IsCurrent
}
