package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/uni-payroll-api/internal/models"
	"github.com/noah-isme/uni-payroll-api/internal/service"
	"github.com/noah-isme/uni-payroll-api/pkg/response"
)

type degreeService interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Degree, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Degree, error)
	Create(ctx context.Context, req service.DegreeRequest) (*models.Degree, error)
	Update(ctx context.Context, id string, req service.DegreeRequest) (*models.Degree, error)
	Delete(ctx context.Context, id string) error
}

// DegreeHandler exposes degree CRUD.
type DegreeHandler struct {
	degrees degreeService
}

// NewDegreeHandler constructs a DegreeHandler.
func NewDegreeHandler(degrees degreeService) *DegreeHandler {
	return &DegreeHandler{degrees: degrees}
}

// List godoc
// @Summary List degrees
// @Tags Degrees
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /degrees [get]
func (h *DegreeHandler) List(c *gin.Context) {
	degrees, pagination, err := h.degrees.List(c.Request.Context(), listFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, degrees, pagination)
}

// Get godoc
// @Summary Get degree
// @Tags Degrees
// @Param id path string true "Degree ID"
// @Success 200 {object} response.Envelope
// @Router /degrees/{id} [get]
func (h *DegreeHandler) Get(c *gin.Context) {
	degree, err := h.degrees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, degree, nil)
}

// Create godoc
// @Summary Create degree
// @Tags Degrees
// @Accept json
// @Param payload body service.DegreeRequest true "Degree payload"
// @Success 201 {object} response.Envelope
// @Router /degrees [post]
func (h *DegreeHandler) Create(c *gin.Context) {
	var req service.DegreeRequest
	if !bindJSON(c, &req, "dữ liệu học vị không hợp lệ") {
		return
	}
	degree, err := h.degrees.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, degree)
}

// Update godoc
// @Summary Update degree
// @Tags Degrees
// @Accept json
// @Param id path string true "Degree ID"
// @Param payload body service.DegreeRequest true "Degree payload"
// @Success 200 {object} response.Envelope
// @Router /degrees/{id} [put]
func (h *DegreeHandler) Update(c *gin.Context) {
	var req service.DegreeRequest
	if !bindJSON(c, &req, "dữ liệu học vị không hợp lệ") {
		return
	}
	degree, err := h.degrees.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, degree, nil)
}

// Delete godoc
// @Summary Delete degree
// @Tags Degrees
// @Param id path string true "Degree ID"
// @Success 204
// @Router /degrees/{id} [delete]
func (h *DegreeHandler) Delete(c *gin.Context) {
	if err := h.degrees.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
