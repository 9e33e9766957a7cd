package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	_ "github.com/noah-isme/uni-payroll-api/api/swagger"
	"github.com/noah-isme/uni-payroll-api/internal/handler"
	"github.com/noah-isme/uni-payroll-api/internal/repository"
	"github.com/noah-isme/uni-payroll-api/internal/service"
	"github.com/noah-isme/uni-payroll-api/pkg/cache"
	"github.com/noah-isme/uni-payroll-api/pkg/config"
	"github.com/noah-isme/uni-payroll-api/pkg/database"
	"github.com/noah-isme/uni-payroll-api/pkg/logger"
)

// @title University Payroll API
// @version 1.0.0
// @description Teaching assignments, rate settings and salary calculations for university lecturers
// @BasePath /api
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database, logr)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis, cfg.Cache.Enabled, logr)
	if err != nil {
		logr.Warn("redis unavailable, statistics cache disabled", zap.Error(err))
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	app := buildApp(cfg, db, cacheRepo, redisClient != nil, logr)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(cfg, app, logr),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// app groups the HTTP handlers served by the router.
type app struct {
	academicYears *handler.AcademicYearHandler
	semesters     *handler.SemesterHandler
	departments   *handler.DepartmentHandler
	degrees       *handler.DegreeHandler
	subjects      *handler.SubjectHandler
	teachers      *handler.TeacherHandler
	classes       *handler.ClassHandler
	assignments   *handler.TeachingAssignmentHandler
	rates         *handler.RateSettingHandler
	salaries      *handler.SalaryHandler
	metrics       *handler.MetricsHandler
	metricsSvc    *service.MetricsService
}

func buildApp(cfg *config.Config, db *sqlx.DB, cacheRepo *repository.CacheRepository, cacheReady bool, logr *zap.Logger) *app {
	validate := validator.New()
	metrics := service.NewMetricsService()

	yearRepo := repository.NewAcademicYearRepository(db)
	semesterRepo := repository.NewSemesterRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	degreeRepo := repository.NewDegreeRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	classRepo := repository.NewClassRepository(db)
	assignmentRepo := repository.NewTeachingAssignmentRepository(db)
	rateRepo := repository.NewRateSettingRepository(db)
	salaryRepo := repository.NewSalaryCalculationRepository(db)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.StatisticsTTL, logr, cfg.Cache.Enabled && cacheReady)
	engine := service.NewRateEngine(rateRepo, metrics, logr)
	calculator := service.NewSalaryCalculator(teacherRepo, assignmentRepo, engine)

	salaries := service.NewSalaryService(salaryRepo, teacherRepo, assignmentRepo, calculator, cacheSvc, metrics, validate, logr).
		WithStatisticsTTL(cfg.Cache.StatisticsTTL).
		WithBatchLimit(cfg.Payroll.BatchSizeLimit).
		WithPayslipTitle(cfg.Payroll.PayslipTitle)

	checks := map[string]handler.ReadinessCheck{
		"database": db.PingContext,
		"redis":    cacheRepo.Ping,
	}

	return &app{
		academicYears: handler.NewAcademicYearHandler(service.NewAcademicYearService(yearRepo, validate, logr)),
		semesters:     handler.NewSemesterHandler(service.NewSemesterService(semesterRepo, yearRepo, validate, logr)),
		departments:   handler.NewDepartmentHandler(service.NewDepartmentService(departmentRepo, validate, logr)),
		degrees:       handler.NewDegreeHandler(service.NewDegreeService(degreeRepo, validate, logr)),
		subjects:      handler.NewSubjectHandler(service.NewSubjectService(subjectRepo, departmentRepo, validate, logr)),
		teachers:      handler.NewTeacherHandler(service.NewTeacherService(teacherRepo, departmentRepo, degreeRepo, classRepo, assignmentRepo, validate, logr)),
		classes:       handler.NewClassHandler(service.NewClassService(classRepo, semesterRepo, subjectRepo, assignmentRepo, validate, logr)),
		assignments:   handler.NewTeachingAssignmentHandler(service.NewTeachingAssignmentService(assignmentRepo, teacherRepo, classRepo, validate, logr)),
		rates:         handler.NewRateSettingHandler(service.NewRateSettingService(rateRepo, engine, teacherRepo, assignmentRepo, validate, logr)),
		salaries:      handler.NewSalaryHandler(salaries),
		metrics:       handler.NewMetricsHandler(metrics, checks),
		metricsSvc:    metrics,
	}
}
