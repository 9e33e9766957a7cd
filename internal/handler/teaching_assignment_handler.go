package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/uni-payroll-api/internal/models"
	"github.com/noah-isme/uni-payroll-api/internal/service"
	"github.com/noah-isme/uni-payroll-api/pkg/response"
)

type teachingAssignmentService interface {
	List(ctx context.Context, filter models.TeachingAssignmentFilter) ([]models.TeachingAssignmentDetail, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.TeachingAssignmentDetail, error)
	Create(ctx context.Context, req service.TeachingAssignmentRequest) (*models.TeachingAssignment, error)
	Update(ctx context.Context, id string, req service.TeachingAssignmentRequest) (*models.TeachingAssignment, error)
	Delete(ctx context.Context, id string) error
	Approve(ctx context.Context, id, approvedBy string, req service.AssignmentApprovalRequest) (*models.TeachingAssignment, error)
	Cancel(ctx context.Context, id string, req service.AssignmentCancelRequest) (*models.TeachingAssignment, error)
	ChangeStatus(ctx context.Context, id string, req service.AssignmentStatusRequest) (*models.TeachingAssignment, error)
}

// TeachingAssignmentHandler exposes assignment CRUD and workflow routes.
type TeachingAssignmentHandler struct {
	assignments teachingAssignmentService
}

// NewTeachingAssignmentHandler constructs a TeachingAssignmentHandler.
func NewTeachingAssignmentHandler(assignments teachingAssignmentService) *TeachingAssignmentHandler {
	return &TeachingAssignmentHandler{assignments: assignments}
}

// List godoc
// @Summary List teaching assignments
// @Tags Teaching Assignments
// @Produce json
// @Param teacher_id query string false "Teacher"
// @Param class_id query string false "Class"
// @Param semester_id query string false "Semester"
// @Param academic_year_id query string false "Academic year"
// @Param status query string false "Comma separated statuses"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /teaching-assignments [get]
func (h *TeachingAssignmentHandler) List(c *gin.Context) {
	filter := models.TeachingAssignmentFilter{
		ListFilter:     listFilter(c),
		TeacherID:      c.Query("teacher_id"),
		ClassID:        c.Query("class_id"),
		SemesterID:     c.Query("semester_id"),
		AcademicYearID: c.Query("academic_year_id"),
	}
	for _, status := range strings.Split(c.Query("status"), ",") {
		if status = strings.TrimSpace(status); status != "" {
			filter.Statuses = append(filter.Statuses, models.AssignmentStatus(status))
		}
	}
	assignments, pagination, err := h.assignments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, pagination)
}

// Get godoc
// @Summary Get teaching assignment
// @Tags Teaching Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /teaching-assignments/{id} [get]
func (h *TeachingAssignmentHandler) Get(c *gin.Context) {
	assignment, err := h.assignments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Create godoc
// @Summary Create teaching assignment
// @Description Rejected with 409 and the colliding sessions when the teacher is already busy.
// @Tags Teaching Assignments
// @Accept json
// @Produce json
// @Param payload body service.TeachingAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /teaching-assignments [post]
func (h *TeachingAssignmentHandler) Create(c *gin.Context) {
	var req service.TeachingAssignmentRequest
	if !bindJSON(c, &req, "dữ liệu phân công không hợp lệ") {
		return
	}
	assignment, err := h.assignments.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// Update godoc
// @Summary Update teaching assignment
// @Tags Teaching Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body service.TeachingAssignmentRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Router /teaching-assignments/{id} [put]
func (h *TeachingAssignmentHandler) Update(c *gin.Context) {
	var req service.TeachingAssignmentRequest
	if !bindJSON(c, &req, "dữ liệu phân công không hợp lệ") {
		return
	}
	assignment, err := h.assignments.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Delete godoc
// @Summary Delete teaching assignment
// @Tags Teaching Assignments
// @Param id path string true "Assignment ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /teaching-assignments/{id} [delete]
func (h *TeachingAssignmentHandler) Delete(c *gin.Context) {
	if err := h.assignments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Approve godoc
// @Summary Approve teaching assignment
// @Tags Teaching Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body service.AssignmentApprovalRequest false "Approval notes"
// @Success 200 {object} response.Envelope
// @Router /teaching-assignments/{id}/approve [post]
func (h *TeachingAssignmentHandler) Approve(c *gin.Context) {
	var req service.AssignmentApprovalRequest
	if !bindOptionalJSON(c, &req, "dữ liệu phê duyệt không hợp lệ") {
		return
	}
	assignment, err := h.assignments.Approve(c.Request.Context(), c.Param("id"), actorFrom(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Cancel godoc
// @Summary Cancel teaching assignment
// @Tags Teaching Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body service.AssignmentCancelRequest true "Cancellation reason"
// @Success 200 {object} response.Envelope
// @Router /teaching-assignments/{id}/cancel [post]
func (h *TeachingAssignmentHandler) Cancel(c *gin.Context) {
	var req service.AssignmentCancelRequest
	if !bindJSON(c, &req, "cần lý do hủy phân công") {
		return
	}
	assignment, err := h.assignments.Cancel(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// ChangeStatus godoc
// @Summary Change teaching assignment progress status
// @Tags Teaching Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body service.AssignmentStatusRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Router /teaching-assignments/{id}/status [post]
func (h *TeachingAssignmentHandler) ChangeStatus(c *gin.Context) {
	var req service.AssignmentStatusRequest
	if !bindJSON(c, &req, "trạng thái không hợp lệ") {
		return
	}
	assignment, err := h.assignments.ChangeStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}
