package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/uni-payroll-api/internal/middleware"
	"github.com/noah-isme/uni-payroll-api/internal/models"
	"github.com/noah-isme/uni-payroll-api/internal/service"
	"github.com/noah-isme/uni-payroll-api/pkg/response"
)

type salaryService interface {
	List(ctx context.Context, filter models.SalaryFilter) ([]models.SalaryListItem, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.SalaryCalculation, error)
	Create(ctx context.Context, req service.SalaryCreateRequest, actor string) (*models.SalaryCalculation, error)
	Update(ctx context.Context, id string, req service.SalaryUpdateRequest, actor string) (*models.SalaryCalculation, error)
	Calculate(ctx context.Context, id, actor string, version int) (*models.SalaryCalculation, error)
	BatchCalculate(ctx context.Context, req service.BatchCalculateRequest, actor string) (*models.BatchResult, error)
	Review(ctx context.Context, id, actor string, req service.SalaryActionRequest) (*models.SalaryCalculation, error)
	Approve(ctx context.Context, id, actor string, req service.SalaryActionRequest) (*models.SalaryCalculation, error)
	MarkAsPaid(ctx context.Context, id, actor string, req service.SalaryPaymentRequest) (*models.SalaryCalculation, error)
	Archive(ctx context.Context, id, actor string, version int) error
	Audit(ctx context.Context, id string) ([]models.SalaryEvent, error)
	Statistics(ctx context.Context, filter models.SalaryStatisticsFilter) (*models.SalaryStatistics, bool, error)
	Payslip(ctx context.Context, id string) (*service.FileResult, error)
	Export(ctx context.Context, filter models.SalaryFilter) (*service.FileResult, error)
}

// SalaryHandler exposes salary calculations and their workflow.
type SalaryHandler struct {
	salaries salaryService
}

// NewSalaryHandler constructs a SalaryHandler.
func NewSalaryHandler(salaries salaryService) *SalaryHandler {
	return &SalaryHandler{salaries: salaries}
}

func salaryFilter(c *gin.Context) models.SalaryFilter {
	return models.SalaryFilter{
		ListFilter:     listFilter(c),
		TeacherID:      c.Query("teacher_id"),
		AcademicYearID: c.Query("academic_year_id"),
		SemesterID:     c.Query("semester_id"),
		DepartmentID:   c.Query("department_id"),
		PeriodType:     models.PeriodType(c.Query("period_type")),
		Status:         models.SalaryStatus(c.Query("status")),
	}
}

// List godoc
// @Summary List salary calculations
// @Tags Salaries
// @Produce json
// @Param teacher_id query string false "Teacher"
// @Param academic_year_id query string false "Academic year"
// @Param semester_id query string false "Semester"
// @Param department_id query string false "Department"
// @Param period_type query string false "monthly, semester, academic_year or custom"
// @Param status query string false "Workflow status"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /salaries [get]
func (h *SalaryHandler) List(c *gin.Context) {
	items, pagination, err := h.salaries.List(c.Request.Context(), salaryFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get salary calculation
// @Tags Salaries
// @Produce json
// @Param id path string true "Calculation ID"
// @Success 200 {object} response.Envelope
// @Router /salaries/{id} [get]
func (h *SalaryHandler) Get(c *gin.Context) {
	calc, err := h.salaries.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calc, nil)
}

// Create godoc
// @Summary Open a draft salary calculation
// @Tags Salaries
// @Accept json
// @Produce json
// @Param payload body service.SalaryCreateRequest true "Calculation payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /salaries [post]
func (h *SalaryHandler) Create(c *gin.Context) {
	var req service.SalaryCreateRequest
	if !bindJSON(c, &req, "dữ liệu bảng lương không hợp lệ") {
		return
	}
	calc, err := h.salaries.Create(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, calc)
}

// Update godoc
// @Summary Update notes, deductions or overtime hours
// @Tags Salaries
// @Accept json
// @Produce json
// @Param id path string true "Calculation ID"
// @Param payload body service.SalaryUpdateRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Router /salaries/{id} [put]
func (h *SalaryHandler) Update(c *gin.Context) {
	var req service.SalaryUpdateRequest
	if !bindJSON(c, &req, "dữ liệu cập nhật không hợp lệ") {
		return
	}
	calc, err := h.salaries.Update(c.Request.Context(), c.Param("id"), req, actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calc, nil)
}

// Delete godoc
// @Summary Archive salary calculation
// @Tags Salaries
// @Param id path string true "Calculation ID"
// @Param version query int false "Expected version"
// @Success 204
// @Router /salaries/{id} [delete]
func (h *SalaryHandler) Delete(c *gin.Context) {
	version, err := versionQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.salaries.Archive(c.Request.Context(), c.Param("id"), actorFrom(c), version); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Calculate godoc
// @Summary Run the salary calculation
// @Tags Salaries
// @Produce json
// @Param id path string true "Calculation ID"
// @Param payload body service.SalaryActionRequest false "Expected version"
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /salaries/{id}/calculate [post]
func (h *SalaryHandler) Calculate(c *gin.Context) {
	var req service.SalaryActionRequest
	if !bindOptionalJSON(c, &req, "dữ liệu tính lương không hợp lệ") {
		return
	}
	calc, err := h.salaries.Calculate(c.Request.Context(), c.Param("id"), actorFrom(c), req.Version)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calc, nil)
}

// BatchCalculate godoc
// @Summary Calculate several salaries, reporting each outcome
// @Tags Salaries
// @Accept json
// @Produce json
// @Param payload body service.BatchCalculateRequest true "Calculation IDs"
// @Success 200 {object} response.Envelope
// @Router /salaries/batch-calculate [post]
func (h *SalaryHandler) BatchCalculate(c *gin.Context) {
	var req service.BatchCalculateRequest
	if !bindJSON(c, &req, "danh sách bảng lương không hợp lệ") {
		return
	}
	result, err := h.salaries.BatchCalculate(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Review godoc
// @Summary Move a calculated salary into review
// @Tags Salaries
// @Accept json
// @Produce json
// @Param id path string true "Calculation ID"
// @Param payload body service.SalaryActionRequest false "Notes and expected version"
// @Success 200 {object} response.Envelope
// @Router /salaries/{id}/review [post]
func (h *SalaryHandler) Review(c *gin.Context) {
	var req service.SalaryActionRequest
	if !bindOptionalJSON(c, &req, "dữ liệu xem xét không hợp lệ") {
		return
	}
	calc, err := h.salaries.Review(c.Request.Context(), c.Param("id"), actorFrom(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calc, nil)
}

// Approve godoc
// @Summary Approve a calculated salary
// @Tags Salaries
// @Accept json
// @Produce json
// @Param id path string true "Calculation ID"
// @Param payload body service.SalaryActionRequest false "Notes and expected version"
// @Success 200 {object} response.Envelope
// @Router /salaries/{id}/approve [post]
func (h *SalaryHandler) Approve(c *gin.Context) {
	var req service.SalaryActionRequest
	if !bindOptionalJSON(c, &req, "dữ liệu phê duyệt không hợp lệ") {
		return
	}
	calc, err := h.salaries.Approve(c.Request.Context(), c.Param("id"), actorFrom(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calc, nil)
}

// MarkPaid godoc
// @Summary Record the payout of an approved salary
// @Tags Salaries
// @Accept json
// @Produce json
// @Param id path string true "Calculation ID"
// @Param payload body service.SalaryPaymentRequest true "Payment reference"
// @Success 200 {object} response.Envelope
// @Router /salaries/{id}/mark-paid [post]
func (h *SalaryHandler) MarkPaid(c *gin.Context) {
	var req service.SalaryPaymentRequest
	if !bindJSON(c, &req, "cần mã tham chiếu thanh toán") {
		return
	}
	calc, err := h.salaries.MarkAsPaid(c.Request.Context(), c.Param("id"), actorFrom(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calc, nil)
}

// Audit godoc
// @Summary List the audit events of a calculation
// @Tags Salaries
// @Produce json
// @Param id path string true "Calculation ID"
// @Success 200 {object} response.Envelope
// @Router /salaries/{id}/audit [get]
func (h *SalaryHandler) Audit(c *gin.Context) {
	events, err := h.salaries.Audit(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// Payslip godoc
// @Summary Download the PDF payslip
// @Tags Salaries
// @Produce application/pdf
// @Param id path string true "Calculation ID"
// @Success 200 {file} file
// @Router /salaries/{id}/payslip [get]
func (h *SalaryHandler) Payslip(c *gin.Context) {
	file, err := h.salaries.Payslip(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Data)
}

// Export godoc
// @Summary Export salary calculations as CSV
// @Tags Salaries
// @Produce text/csv
// @Param academic_year_id query string false "Academic year"
// @Param semester_id query string false "Semester"
// @Param status query string false "Workflow status"
// @Success 200 {file} file
// @Router /salaries/export [get]
func (h *SalaryHandler) Export(c *gin.Context) {
	file, err := h.salaries.Export(c.Request.Context(), salaryFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Data)
}

// Statistics godoc
// @Summary Aggregate salary totals by status and optionally department
// @Tags Salaries
// @Produce json
// @Param academic_year_id query string false "Academic year"
// @Param semester_id query string false "Semester"
// @Param period_type query string false "Period type"
// @Param include_departments query bool false "Add the department rollup"
// @Success 200 {object} response.Envelope
// @Router /salaries/statistics [get]
func (h *SalaryHandler) Statistics(c *gin.Context) {
	include := optionalBool(c, "include_departments")
	filter := models.SalaryStatisticsFilter{
		AcademicYearID:     c.Query("academic_year_id"),
		SemesterID:         c.Query("semester_id"),
		PeriodType:         models.PeriodType(c.Query("period_type")),
		IncludeDepartments: include != nil && *include,
	}
	stats, hit, err := h.salaries.Statistics(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, stats, nil, middleware.ResponseMeta(c))
}
