package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-payroll-api/internal/models"
)

type semesterRepository interface {
	List(ctx context.Context, filter models.SemesterFilter) ([]models.Semester, int, error)
	FindByID(ctx context.Context, id string) (*models.Semester, error)
	ExistsByNumber(ctx context.Context, academicYearID string, number int, excludeID string) (bool, error)
	Create(ctx context.Context, semester *models.Semester) error
	Update(ctx context.Context, semester *models.Semester) error
	Delete(ctx context.Context, id string) error
	CountDependents(ctx context.Context, id string) (int, error)
}

type academicYearLookup interface {
	FindByID(ctx context.Context, id string) (*models.AcademicYear, error)
}

// SemesterRequest is the payload for creating or replacing a semester.
type SemesterRequest struct {
	AcademicYearID string    `json:"academic_year_id" validate:"required"`
	Name           string    `json:"name" validate:"required,max=100"`
	Number         int       `json:"number" validate:"required,min=1,max=3"`
	StartDate      time.Time `json:"start_date" validate:"required"`
	EndDate        time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	IsCurrent      bool      `json:"is_current"`
}

// SemesterService manages semesters inside academic years.
type SemesterService struct {
	repo      semesterRepository
	years     academicYearLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSemesterService constructs a SemesterService.
func NewSemesterService(repo semesterRepository, years academicYearLookup, validate *validator.Validate, logger *zap.Logger) *SemesterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SemesterService{repo: repo, years: years, validator: validate, logger: logger}
}

// List returns semesters plus pagination data.
func (s *SemesterService) List(ctx context.Context, filter models.SemesterFilter) ([]models.Semester, *models.Pagination, error) {
	semesters, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "không thể tải danh sách học kỳ")
	}
	return semesters, models.NewPagination(filter.ListFilter, total), nil
}

// Get returns a semester by id.
func (s *SemesterService) Get(ctx context.Context, id string) (*models.Semester, error) {
	semester, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "không tìm thấy học kỳ", "không thể tải học kỳ")
	}
	return semester, nil
}

// Create registers a semester in an existing academic year.
func (s *SemesterService) Create(ctx context.Context, req SemesterRequest) (*models.Semester, error) {
	if err := s.check(ctx, req, ""); err != nil {
		return nil, err
	}
	semester := &models.Semester{}
	applySemester(semester, req)
	if err := s.repo.Create(ctx, semester); err != nil {
		s.logger.Error("create semester failed", zap.String("academic_year_id", semester.AcademicYearID), zap.Error(err))
		return nil, internalError(err, "không thể tạo học kỳ")
	}
	return semester, nil
}

// Update replaces a semester.
func (s *SemesterService) Update(ctx context.Context, id string, req SemesterRequest) (*models.Semester, error) {
	semester, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.check(ctx, req, id); err != nil {
		return nil, err
	}
	applySemester(semester, req)
	if err := s.repo.Update(ctx, semester); err != nil {
		return nil, internalError(err, "không thể cập nhật học kỳ")
	}
	return semester, nil
}

// Delete removes a semester that nothing references.
func (s *SemesterService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountDependents(ctx, id)
	if err != nil {
		return internalError(err, "không thể kiểm tra dữ liệu phụ thuộc")
	}
	if err := ensureNoDependents(count, "học kỳ"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "không thể xóa học kỳ")
	}
	return nil
}

func (s *SemesterService) check(ctx context.Context, req SemesterRequest, excludeID string) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "dữ liệu học kỳ không hợp lệ")
	}
	year, err := s.years.FindByID(ctx, req.AcademicYearID)
	if err != nil {
		return referenceError(err, "năm học không tồn tại", "không thể tải năm học")
	}
	if !year.Contains(req.StartDate) || !year.Contains(req.EndDate) {
		return businessRule("thời gian học kỳ phải nằm trong năm học")
	}
	exists, err := s.repo.ExistsByNumber(ctx, req.AcademicYearID, req.Number, excludeID)
	if err != nil {
		return internalError(err, "không thể kiểm tra số thứ tự học kỳ")
	}
	if exists {
		return conflict("học kỳ này đã tồn tại trong năm học")
	}
	return nil
}

func applySemester(semester *models.Semester, req SemesterRequest) {
	semester.AcademicYearID = req.AcademicYearID
	semester.Name = strings.TrimSpace(req.Name)
	semester.Number = req.Number
	semester.StartDate = req.StartDate
	semester.EndDate = req.EndDate
	semester.IsCurrent = req.IsCurrent
}
