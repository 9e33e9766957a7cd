package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-payroll-api/internal/handler"
	"github.com/noah-isme/uni-payroll-api/internal/service"
	"github.com/noah-isme/uni-payroll-api/pkg/config"
)

func testApp() *app {
	metrics := service.NewMetricsService()
	return &app{
		academicYears: handler.NewAcademicYearHandler(nil),
		semesters:     handler.NewSemesterHandler(nil),
		departments:   handler.NewDepartmentHandler(nil),
		degrees:       handler.NewDegreeHandler(nil),
		subjects:      handler.NewSubjectHandler(nil),
		teachers:      handler.NewTeacherHandler(nil),
		classes:       handler.NewClassHandler(nil),
		assignments:   handler.NewTeachingAssignmentHandler(nil),
		rates:         handler.NewRateSettingHandler(nil),
		salaries:      handler.NewSalaryHandler(nil),
		metrics:       handler.NewMetricsHandler(metrics, nil),
		metricsSvc:    metrics,
	}
}

func TestRouterRegistersPayrollRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: config.EnvDevelopment, APIPrefix: "/api", Payroll: config.PayrollConfig{DefaultActor: "system"}}
	r := newRouter(cfg, testApp(), zap.NewNop())

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"GET /api/academic-years",
		"DELETE /api/classes/:id",
		"GET /api/teachers/:id/availability",
		"POST /api/teaching-assignments/:id/status",
		"GET /api/rate-settings/active/:rateType",
		"GET /api/rate-settings/applicable",
		"POST /api/rate-settings/:id/supersede",
		"POST /api/salaries/batch-calculate",
		"GET /api/salaries/statistics",
		"GET /api/salaries/export",
		"POST /api/salaries/:id/review",
		"POST /api/salaries/:id/mark-paid",
		"GET /api/salaries/:id/payslip",
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"GET /docs/*any",
	} {
		assert.True(t, registered[want], want)
	}
}

func TestRouterHidesDocsInProduction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: config.EnvProduction, APIPrefix: "/api"}
	r := newRouter(cfg, testApp(), zap.NewNop())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs/index.html", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
