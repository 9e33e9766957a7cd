package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-payroll-api/internal/middleware"
	"github.com/noah-isme/uni-payroll-api/internal/models"
	"github.com/noah-isme/uni-payroll-api/internal/service"
	appErrors "github.com/noah-isme/uni-payroll-api/pkg/errors"
)

type salaryServiceStub struct {
	actor       string
	version     int
	createReq   service.SalaryCreateRequest
	calcErr     error
	archiveErr  error
	statsHit    bool
	statsFilter models.SalaryStatisticsFilter
	listFilter  models.SalaryFilter
	batch       *models.BatchResult
}

func (s *salaryServiceStub) List(ctx context.Context, filter models.SalaryFilter) ([]models.SalaryListItem, *models.Pagination, error) {
	s.listFilter = filter
	return []models.SalaryListItem{}, models.NewPagination(filter.ListFilter, 0), nil
}

func (s *salaryServiceStub) Get(ctx context.Context, id string) (*models.SalaryCalculation, error) {
	if id == "missing" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "không tìm thấy bảng lương")
	}
	return &models.SalaryCalculation{ID: id, Status: models.SalaryStatusDraft}, nil
}

func (s *salaryServiceStub) Create(ctx context.Context, req service.SalaryCreateRequest, actor string) (*models.SalaryCalculation, error) {
	s.createReq = req
	s.actor = actor
	return &models.SalaryCalculation{ID: "sc-1", TeacherID: req.TeacherID, Status: models.SalaryStatusDraft, CreatedBy: actor}, nil
}

func (s *salaryServiceStub) Update(ctx context.Context, id string, req service.SalaryUpdateRequest, actor string) (*models.SalaryCalculation, error) {
	return &models.SalaryCalculation{ID: id}, nil
}

func (s *salaryServiceStub) Calculate(ctx context.Context, id, actor string, version int) (*models.SalaryCalculation, error) {
	s.actor = actor
	s.version = version
	if s.calcErr != nil {
		return nil, s.calcErr
	}
	calc := &models.SalaryCalculation{ID: id, Status: models.SalaryStatusCalculated}
	calc.TotalGrossSalary = decimal.NewFromInt(6200000)
	return calc, nil
}

func (s *salaryServiceStub) BatchCalculate(ctx context.Context, req service.BatchCalculateRequest, actor string) (*models.BatchResult, error) {
	return s.batch, nil
}

func (s *salaryServiceStub) Review(ctx context.Context, id, actor string, req service.SalaryActionRequest) (*models.SalaryCalculation, error) {
	s.actor = actor
	return &models.SalaryCalculation{ID: id, Status: models.SalaryStatusReviewing}, nil
}

func (s *salaryServiceStub) Approve(ctx context.Context, id, actor string, req service.SalaryActionRequest) (*models.SalaryCalculation, error) {
	s.actor = actor
	return &models.SalaryCalculation{ID: id, Status: models.SalaryStatusApproved, ApprovedBy: &actor}, nil
}

func (s *salaryServiceStub) MarkAsPaid(ctx context.Context, id, actor string, req service.SalaryPaymentRequest) (*models.SalaryCalculation, error) {
	return &models.SalaryCalculation{ID: id, Status: models.SalaryStatusPaid, PaymentReference: &req.PaymentReference}, nil
}

func (s *salaryServiceStub) Archive(ctx context.Context, id, actor string, version int) error {
	s.version = version
	return s.archiveErr
}

func (s *salaryServiceStub) Audit(ctx context.Context, id string) ([]models.SalaryEvent, error) {
	return []models.SalaryEvent{{CalculationID: id, Action: models.SalaryActionCreated}}, nil
}

func (s *salaryServiceStub) Statistics(ctx context.Context, filter models.SalaryStatisticsFilter) (*models.SalaryStatistics, bool, error) {
	s.statsFilter = filter
	return &models.SalaryStatistics{TotalCalculations: 3, ByStatus: []models.SalaryStatusCount{}}, s.statsHit, nil
}

func (s *salaryServiceStub) Payslip(ctx context.Context, id string) (*service.FileResult, error) {
	return &service.FileResult{Filename: "payslip-GV001-202409.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.3")}, nil
}

func (s *salaryServiceStub) Export(ctx context.Context, filter models.SalaryFilter) (*service.FileResult, error) {
	s.listFilter = filter
	return &service.FileResult{Filename: "salaries.csv", ContentType: "text/csv; charset=utf-8", Data: []byte("teacher_code\n")}, nil
}

func TestSalaryHandlerCreateUsesActor(t *testing.T) {
	stub := &salaryServiceStub{}
	h := NewSalaryHandler(stub)

	body := []byte(`{"teacher_id":"t1","academic_year_id":"ay-1","period_type":"academic_year","period_start":"2024-09-01T00:00:00Z","period_end":"2025-06-30T00:00:00Z","total_deduction_amount":"150000"}`)
	c, w := newGinContext(http.MethodPost, "/api/salaries", body)
	withActor(c, "accountant")

	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "accountant", stub.actor)
	assert.Equal(t, "t1", stub.createReq.TeacherID)
	require.NotNil(t, stub.createReq.Deductions)
	assert.Equal(t, "150000", stub.createReq.Deductions.String())
	assert.True(t, decode(t, w).Success)
}

func TestSalaryHandlerRejectsMalformedBody(t *testing.T) {
	h := NewSalaryHandler(&salaryServiceStub{})
	c, w := newGinContext(http.MethodPost, "/api/salaries", []byte(`{"teacher_id":`))

	h.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, appErrors.ErrValidation.Code, env.Error.Code)
}

func TestSalaryHandlerCalculate(t *testing.T) {
	stub := &salaryServiceStub{}
	h := NewSalaryHandler(stub)

	c, w := newGinContext(http.MethodPost, "/api/salaries/sc-1/calculate", nil)
	withID(c, "sc-1")
	withActor(c, "accountant")
	h.Calculate(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, stub.version)
	assert.Contains(t, string(decode(t, w).Data), `"total_gross_salary":"6200000"`)

	c, _ = newGinContext(http.MethodPost, "/api/salaries/sc-1/calculate", []byte(`{"version":4}`))
	withID(c, "sc-1")
	h.Calculate(c)
	assert.Equal(t, 4, stub.version)
}

func TestSalaryHandlerCalculateFailure(t *testing.T) {
	stub := &salaryServiceStub{calcErr: appErrors.Wrap(errors.New("load teacher t1"), appErrors.ErrCalculationFailed.Code, appErrors.ErrCalculationFailed.Status, appErrors.ErrCalculationFailed.Message)}
	h := NewSalaryHandler(stub)

	c, w := newGinContext(http.MethodPost, "/api/salaries/sc-1/calculate", nil)
	withID(c, "sc-1")
	h.Calculate(c)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "CALCULATION_FAILED", decode(t, w).Error.Code)
}

func TestSalaryHandlerArchive(t *testing.T) {
	stub := &salaryServiceStub{}
	h := NewSalaryHandler(stub)

	c, w := newGinContext(http.MethodDelete, "/api/salaries/sc-1?version=3", nil)
	withID(c, "sc-1")
	h.Delete(c)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 3, stub.version)

	c, w = newGinContext(http.MethodDelete, "/api/salaries/sc-1?version=abc", nil)
	withID(c, "sc-1")
	h.Delete(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	stub.archiveErr = appErrors.Clone(appErrors.ErrBusinessRule, "đã chi trả")
	c, w = newGinContext(http.MethodDelete, "/api/salaries/sc-1", nil)
	withID(c, "sc-1")
	h.Delete(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BUSINESS_RULE", decode(t, w).Error.Code)
}

func TestSalaryHandlerGetNotFound(t *testing.T) {
	h := NewSalaryHandler(&salaryServiceStub{})
	c, w := newGinContext(http.MethodGet, "/api/salaries/missing", nil)
	withID(c, "missing")

	h.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSalaryHandlerStatisticsReportsCacheHit(t *testing.T) {
	stub := &salaryServiceStub{statsHit: true}
	h := NewSalaryHandler(stub)

	c, w := newGinContext(http.MethodGet, "/api/salaries/statistics?academic_year_id=ay-1&include_departments=true", nil)
	h.Statistics(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, stub.statsFilter.IncludeDepartments)
	assert.Equal(t, "ay-1", stub.statsFilter.AcademicYearID)
	assert.Equal(t, true, decode(t, w).Meta["cache_hit"])
}

func TestSalaryHandlerFiles(t *testing.T) {
	stub := &salaryServiceStub{}
	h := NewSalaryHandler(stub)

	c, w := newGinContext(http.MethodGet, "/api/salaries/sc-1/payslip", nil)
	withID(c, "sc-1")
	h.Payslip(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "payslip-GV001-202409.pdf")

	c, w = newGinContext(http.MethodGet, "/api/salaries/export?status=paid&department_id=d1", nil)
	h.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.SalaryStatusPaid, stub.listFilter.Status)
	assert.Equal(t, "d1", stub.listFilter.DepartmentID)
	assert.Equal(t, "teacher_code\n", w.Body.String())
}

func TestSalaryHandlerBatchAndWorkflow(t *testing.T) {
	stub := &salaryServiceStub{batch: &models.BatchResult{Total: 2, Succeeded: 1, Failed: 1}}
	h := NewSalaryHandler(stub)

	c, w := newGinContext(http.MethodPost, "/api/salaries/batch-calculate", mustJSON(t, service.BatchCalculateRequest{IDs: []string{"a", "b"}}))
	h.BatchCalculate(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), `"failed":1`)

	c, w = newGinContext(http.MethodPost, "/api/salaries/sc-1/review", nil)
	withID(c, "sc-1")
	withActor(c, "reviewer")
	h.Review(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "reviewer", stub.actor)
	assert.Contains(t, string(decode(t, w).Data), `"status":"reviewing"`)

	c, w = newGinContext(http.MethodPost, "/api/salaries/sc-1/approve", nil)
	withID(c, "sc-1")
	withActor(c, "head")
	h.Approve(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "head", stub.actor)

	c, w = newGinContext(http.MethodPost, "/api/salaries/sc-1/mark-paid", mustJSON(t, service.SalaryPaymentRequest{PaymentReference: "PAY-9"}))
	withID(c, "sc-1")
	h.MarkPaid(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), "PAY-9")

	c, w = newGinContext(http.MethodGet, "/api/salaries/sc-1/audit", nil)
	withID(c, "sc-1")
	h.Audit(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), `"action":"created"`)
}

func TestSalaryHandlerListFilters(t *testing.T) {
	stub := &salaryServiceStub{}
	h := NewSalaryHandler(stub)

	c, w := newGinContext(http.MethodGet, "/api/salaries?teacher_id=t1&period_type=semester&page=2&limit=5", nil)
	c.Set(middleware.ContextActorKey, "viewer")
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "t1", stub.listFilter.TeacherID)
	assert.Equal(t, models.PeriodSemester, stub.listFilter.PeriodType)
	assert.Equal(t, 2, stub.listFilter.Page)
	assert.Equal(t, 5, stub.listFilter.PageSize)
	require.NotNil(t, decode(t, w).Pagination)
}

func TestSalaryHandlerApproveChunkedEmptyBody(t *testing.T) {
	stub := &salaryServiceStub{}
	h := NewSalaryHandler(stub)

	c, w := newGinContext(http.MethodPost, "/api/salaries/sc-1/approve", nil)
	c.Request.ContentLength = -1
	c.Request.TransferEncoding = []string{"chunked"}
	withID(c, "sc-1")
	withActor(c, "head")

	h.Approve(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "head", stub.actor)
}
