package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-payroll-api/internal/middleware"
	"github.com/noah-isme/uni-payroll-api/pkg/config"
	"github.com/noah-isme/uni-payroll-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/uni-payroll-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/uni-payroll-api/pkg/middleware/requestid"
)

const metricsPath = "/metrics"

func newRouter(cfg *config.Config, a *app, logr *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(middleware.Metrics(a.metricsSvc, metricsPath))

	r.GET("/health", a.metrics.Health)
	r.GET("/ready", a.metrics.Ready)
	r.GET(metricsPath, a.metrics.Prometheus)
	r.GET(metricsPath+"/summary", a.metrics.Summary)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	api.Use(middleware.Actor(cfg.JWT.Secret, cfg.Payroll.DefaultActor, logr))

	crud(api.Group("/academic-years"), a.academicYears.List, a.academicYears.Get, a.academicYears.Create, a.academicYears.Update, a.academicYears.Delete)
	crud(api.Group("/semesters"), a.semesters.List, a.semesters.Get, a.semesters.Create, a.semesters.Update, a.semesters.Delete)
	crud(api.Group("/departments"), a.departments.List, a.departments.Get, a.departments.Create, a.departments.Update, a.departments.Delete)
	crud(api.Group("/degrees"), a.degrees.List, a.degrees.Get, a.degrees.Create, a.degrees.Update, a.degrees.Delete)
	crud(api.Group("/subjects"), a.subjects.List, a.subjects.Get, a.subjects.Create, a.subjects.Update, a.subjects.Delete)
	crud(api.Group("/classes"), a.classes.List, a.classes.Get, a.classes.Create, a.classes.Update, a.classes.Delete)

	teachers := api.Group("/teachers")
	crud(teachers, a.teachers.List, a.teachers.Get, a.teachers.Create, a.teachers.Update, a.teachers.Delete)
	teachers.GET("/:id/availability", a.teachers.Availability)

	assignments := api.Group("/teaching-assignments")
	crud(assignments, a.assignments.List, a.assignments.Get, a.assignments.Create, a.assignments.Update, a.assignments.Delete)
	assignments.POST("/:id/approve", a.assignments.Approve)
	assignments.POST("/:id/cancel", a.assignments.Cancel)
	assignments.POST("/:id/status", a.assignments.ChangeStatus)

	rates := api.Group("/rate-settings")
	rates.GET("/active/:rateType", a.rates.Active)
	rates.GET("/applicable", a.rates.Applicable)
	crud(rates, a.rates.List, a.rates.Get, a.rates.Create, a.rates.Update, a.rates.Delete)
	rates.POST("/:id/submit", a.rates.Submit)
	rates.POST("/:id/approve", a.rates.Approve)
	rates.POST("/:id/activate", a.rates.Activate)
	rates.POST("/:id/deactivate", a.rates.Deactivate)
	rates.POST("/:id/supersede", a.rates.Supersede)

	salaries := api.Group("/salaries")
	salaries.GET("/export", a.salaries.Export)
	salaries.GET("/statistics", a.salaries.Statistics)
	salaries.POST("/batch-calculate", a.salaries.BatchCalculate)
	crud(salaries, a.salaries.List, a.salaries.Get, a.salaries.Create, a.salaries.Update, a.salaries.Delete)
	salaries.POST("/:id/calculate", a.salaries.Calculate)
	salaries.POST("/:id/review", a.salaries.Review)
	salaries.POST("/:id/approve", a.salaries.Approve)
	salaries.POST("/:id/mark-paid", a.salaries.MarkPaid)
	salaries.GET("/:id/audit", a.salaries.Audit)
	salaries.GET("/:id/payslip", a.salaries.Payslip)

	return r
}

func crud(group *gin.RouterGroup, list, get, create, update, remove gin.HandlerFunc) {
	group.GET("", list)
	group.GET("/:id", get)
	group.POST("", create)
	group.PUT("/:id", update)
	group.DELETE("/:id", remove)
}
