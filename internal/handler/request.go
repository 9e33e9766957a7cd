package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/uni-payroll-api/internal/middleware"
	"github.com/noah-isme/uni-payroll-api/internal/models"
	appErrors "github.com/noah-isme/uni-payroll-api/pkg/errors"
	"github.com/noah-isme/uni-payroll-api/pkg/response"
)

// bindJSON decodes the body into dest and writes a 400 when it is malformed.
func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		rejectBody(c, err, message)
		return false
	}
	return true
}

// bindOptionalJSON accepts an empty body for endpoints whose payload is optional.
// Chunked requests report an unknown length, so an empty stream is detected by EOF.
func bindOptionalJSON(c *gin.Context, dest interface{}, message string) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	err := c.ShouldBindJSON(dest)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	rejectBody(c, err, message)
	return false
}

func rejectBody(c *gin.Context, err error, message string) {
	response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
}

func listFilter(c *gin.Context) models.ListFilter {
	filter := models.ListFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	return filter
}

func optionalBool(c *gin.Context, key string) *bool {
	switch strings.ToLower(c.Query(key)) {
	case "true", "1":
		val := true
		return &val
	case "false", "0":
		val := false
		return &val
	}
	return nil
}

func actorFrom(c *gin.Context) string {
	return middleware.ActorFromContext(c)
}

// versionQuery reads the optional expected version of delete-style calls.
func versionQuery(c *gin.Context) (int, error) {
	raw := c.Query("version")
	if raw == "" {
		return 0, nil
	}
	version, err := strconv.Atoi(raw)
	if err != nil || version < 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "version không hợp lệ")
	}
	return version, nil
}

// parseSessions reads "day:start:count" triples separated by commas.
func parseSessions(raw string) (models.ClassSchedule, error) {
	schedule := models.ClassSchedule{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ":")
		if len(fields) != 3 {
			return nil, fmt.Errorf("session %q must be day:start:count", part)
		}
		values := make([]int, 3)
		for i, field := range fields {
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("session %q: %w", part, err)
			}
			values[i] = n
		}
		schedule = append(schedule, models.ClassSession{DayOfWeek: values[0], StartPeriod: values[1], PeriodsCount: values[2]})
	}
	return schedule, nil
}
