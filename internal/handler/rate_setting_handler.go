package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/uni-payroll-api/internal/models"
	"github.com/noah-isme/uni-payroll-api/internal/service"
	appErrors "github.com/noah-isme/uni-payroll-api/pkg/errors"
	"github.com/noah-isme/uni-payroll-api/pkg/response"
)

type rateSettingService interface {
	List(ctx context.Context, filter models.RateSettingFilter) ([]models.RateSetting, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.RateSetting, error)
	Active(ctx context.Context, rateType string) ([]models.RateSetting, error)
	Create(ctx context.Context, req service.RateSettingRequest, actor string) (*models.RateSetting, error)
	Update(ctx context.Context, id string, req service.RateSettingRequest) (*models.RateSetting, error)
	Submit(ctx context.Context, id string, req service.RateTransitionRequest) (*models.RateSetting, error)
	Approve(ctx context.Context, id, actor string, req service.RateTransitionRequest) (*models.RateSetting, error)
	Activate(ctx context.Context, id string, req service.RateTransitionRequest) (*models.RateSetting, error)
	Deactivate(ctx context.Context, id string, req service.RateTransitionRequest) (*models.RateSetting, error)
	Supersede(ctx context.Context, id string, req service.RateSettingRequest, actor string) (*models.RateSetting, error)
	Delete(ctx context.Context, id string) error
	Applicable(ctx context.Context, query service.ApplicableQuery) (*service.ApplicablePreview, error)
}

// RateSettingHandler exposes the rate catalogue and its approval lifecycle.
type RateSettingHandler struct {
	rates rateSettingService
}

// NewRateSettingHandler constructs a RateSettingHandler.
func NewRateSettingHandler(rates rateSettingService) *RateSettingHandler {
	return &RateSettingHandler{rates: rates}
}

// List godoc
// @Summary List rate settings
// @Tags Rate Settings
// @Produce json
// @Param rate_type query string false "Rate type"
// @Param scope query string false "Applicable scope"
// @Param status query string false "Lifecycle status"
// @Param search query string false "Search by code or name"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /rate-settings [get]
func (h *RateSettingHandler) List(c *gin.Context) {
	filter := models.RateSettingFilter{
		ListFilter: listFilter(c),
		RateType:   models.RateType(c.Query("rate_type")),
		Scope:      models.RateScope(c.Query("scope")),
		Status:     models.RateStatus(c.Query("status")),
	}
	rates, pagination, err := h.rates.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rates, pagination)
}

// Get godoc
// @Summary Get rate setting
// @Tags Rate Settings
// @Produce json
// @Param id path string true "Rate setting ID"
// @Success 200 {object} response.Envelope
// @Router /rate-settings/{id} [get]
func (h *RateSettingHandler) Get(c *gin.Context) {
	rate, err := h.rates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rate, nil)
}

// Active godoc
// @Summary List rate settings in force today
// @Tags Rate Settings
// @Produce json
// @Param rateType path string true "Rate type"
// @Success 200 {object} response.Envelope
// @Router /rate-settings/active/{rateType} [get]
func (h *RateSettingHandler) Active(c *gin.Context) {
	rates, err := h.rates.Active(c.Request.Context(), c.Param("rateType"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rates, nil)
}

// Applicable godoc
// @Summary Preview the rates that would price an assignment
// @Tags Rate Settings
// @Produce json
// @Param teacher_id query string true "Teacher"
// @Param assignment_id query string true "Teaching assignment"
// @Param at query string false "Evaluation date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /rate-settings/applicable [get]
func (h *RateSettingHandler) Applicable(c *gin.Context) {
	var query service.ApplicableQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "tham số tra cứu định mức không hợp lệ"))
		return
	}
	preview, err := h.rates.Applicable(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preview, nil)
}

// Create godoc
// @Summary Create rate setting as draft
// @Tags Rate Settings
// @Accept json
// @Produce json
// @Param payload body service.RateSettingRequest true "Rate setting payload"
// @Success 201 {object} response.Envelope
// @Router /rate-settings [post]
func (h *RateSettingHandler) Create(c *gin.Context) {
	var req service.RateSettingRequest
	if !bindJSON(c, &req, "dữ liệu định mức không hợp lệ") {
		return
	}
	rate, err := h.rates.Create(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rate)
}

// Update godoc
// @Summary Update a draft or pending rate setting
// @Tags Rate Settings
// @Accept json
// @Produce json
// @Param id path string true "Rate setting ID"
// @Param payload body service.RateSettingRequest true "Rate setting payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /rate-settings/{id} [put]
func (h *RateSettingHandler) Update(c *gin.Context) {
	var req service.RateSettingRequest
	if !bindJSON(c, &req, "dữ liệu định mức không hợp lệ") {
		return
	}
	rate, err := h.rates.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rate, nil)
}

// Delete godoc
// @Summary Delete rate setting
// @Tags Rate Settings
// @Param id path string true "Rate setting ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /rate-settings/{id} [delete]
func (h *RateSettingHandler) Delete(c *gin.Context) {
	if err := h.rates.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Submit godoc
// @Summary Submit rate setting for approval
// @Tags Rate Settings
// @Param id path string true "Rate setting ID"
// @Param payload body service.RateTransitionRequest false "Expected version"
// @Success 200 {object} response.Envelope
// @Router /rate-settings/{id}/submit [post]
func (h *RateSettingHandler) Submit(c *gin.Context) {
	h.transition(c, func(ctx context.Context, id string, req service.RateTransitionRequest) (*models.RateSetting, error) {
		return h.rates.Submit(ctx, id, req)
	})
}

// Approve godoc
// @Summary Approve rate setting
// @Tags Rate Settings
// @Param id path string true "Rate setting ID"
// @Param payload body service.RateTransitionRequest false "Expected version"
// @Success 200 {object} response.Envelope
// @Router /rate-settings/{id}/approve [post]
func (h *RateSettingHandler) Approve(c *gin.Context) {
	actor := actorFrom(c)
	h.transition(c, func(ctx context.Context, id string, req service.RateTransitionRequest) (*models.RateSetting, error) {
		return h.rates.Approve(ctx, id, actor, req)
	})
}

// Activate godoc
// @Summary Activate rate setting
// @Tags Rate Settings
// @Param id path string true "Rate setting ID"
// @Param payload body service.RateTransitionRequest false "Expected version"
// @Success 200 {object} response.Envelope
// @Router /rate-settings/{id}/activate [post]
func (h *RateSettingHandler) Activate(c *gin.Context) {
	h.transition(c, h.rates.Activate)
}

// Deactivate godoc
// @Summary Deactivate rate setting
// @Tags Rate Settings
// @Param id path string true "Rate setting ID"
// @Param payload body service.RateTransitionRequest false "Expected version"
// @Success 200 {object} response.Envelope
// @Router /rate-settings/{id}/deactivate [post]
func (h *RateSettingHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.rates.Deactivate)
}

// Supersede godoc
// @Summary Create a draft successor of a rate setting
// @Tags Rate Settings
// @Accept json
// @Produce json
// @Param id path string true "Rate setting ID"
// @Param payload body service.RateSettingRequest true "Successor payload"
// @Success 201 {object} response.Envelope
// @Router /rate-settings/{id}/supersede [post]
func (h *RateSettingHandler) Supersede(c *gin.Context) {
	var req service.RateSettingRequest
	if !bindJSON(c, &req, "dữ liệu định mức không hợp lệ") {
		return
	}
	rate, err := h.rates.Supersede(c.Request.Context(), c.Param("id"), req, actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rate)
}

func (h *RateSettingHandler) transition(c *gin.Context, apply func(context.Context, string, service.RateTransitionRequest) (*models.RateSetting, error)) {
	var req service.RateTransitionRequest
	if !bindOptionalJSON(c, &req, "dữ liệu chuyển trạng thái không hợp lệ") {
		return
	}
	rate, err := apply(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rate, nil)
}
