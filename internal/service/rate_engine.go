package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-payroll-api/internal/models"
)

type activeRateSource interface {
	ListActive(ctx context.Context, at time.Time, rateType models.RateType) ([]models.RateSetting, error)
}

// RateEngine resolves which rate settings apply to a teacher and assignment.
type RateEngine struct {
	repo    activeRateSource
	metrics *MetricsService
	logger  *zap.Logger
}

// NewRateEngine constructs a RateEngine.
func NewRateEngine(repo activeRateSource, metrics *MetricsService, logger *zap.Logger) *RateEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateEngine{repo: repo, metrics: metrics, logger: logger}
}

// LoadActive returns every active setting effective at the instant, highest priority first.
func (e *RateEngine) LoadActive(ctx context.Context, at time.Time) ([]models.RateSetting, error) {
	rates, err := e.repo.ListActive(ctx, at, "")
	if err != nil {
		return nil, err
	}
	return rates, nil
}

// Select keeps the settings that apply to the contexts, preserving order.
// The effective window is checked again in memory.
func (e *RateEngine) Select(rates []models.RateSetting, teacher models.RateTeacherContext, assignment models.RateAssignmentContext, at time.Time) []models.RateSetting {
	applicable := make([]models.RateSetting, 0, len(rates))
	for i := range rates {
		if rates[i].AppliesTo(teacher, assignment, at) {
			applicable = append(applicable, rates[i])
		}
	}
	e.metrics.ObserveApplicableRates(len(applicable))
	return applicable
}

// FindApplicable loads the active settings and filters them for the contexts.
func (e *RateEngine) FindApplicable(ctx context.Context, teacher models.RateTeacherContext, assignment models.RateAssignmentContext, at time.Time) ([]models.RateSetting, error) {
	rates, err := e.LoadActive(ctx, at)
	if err != nil {
		return nil, err
	}
	applicable := e.Select(rates, teacher, assignment, at)
	e.logger.Debug("rate settings resolved",
		zap.String("teacher_id", teacher.TeacherID),
		zap.String("class_id", assignment.ClassID),
		zap.Int("active", len(rates)),
		zap.Int("applicable", len(applicable)))
	return applicable, nil
}

// teacherRateContext snapshots the teacher fields rate matching depends on.
func teacherRateContext(profile *models.TeacherProfile, at time.Time) models.RateTeacherContext {
	return models.RateTeacherContext{
		TeacherID:      profile.ID,
		DepartmentID:   profile.DepartmentID,
		DegreeID:       profile.DegreeID,
		Position:       profile.Position,
		YearsOfService: models.YearsOfService(profile.HireDate, at),
		Rating:         profile.Rating,
	}
}

// assignmentRateContext snapshots the assignment for rate matching at the given hours.
func assignmentRateContext(detail *models.TeachingAssignmentDetail, hours decimal.Decimal) models.RateAssignmentContext {
	return models.RateAssignmentContext{
		TeachingHours:  hours,
		AssignmentType: detail.AssignmentType,
		ClassID:        detail.ClassID,
		ClassType:      detail.ClassType,
		SubjectID:      detail.SubjectID,
		SubjectType:    detail.SubjectType,
	}
}
