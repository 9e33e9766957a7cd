package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/noah-isme/uni-payroll-api/internal/repository"
	appErrors "github.com/noah-isme/uni-payroll-api/pkg/errors"
)

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func stringPtr(value string) *string {
	return &value
}

func deref(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

// lookupError maps a repository read failure to not-found or internal.
func lookupError(err error, notFound, failure string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, failure)
}

// referenceError maps a missing referenced entity to a validation error.
func referenceError(err error, missing, failure string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrValidation, missing)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, failure)
}

func internalError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func businessRule(message string) error {
	return appErrors.Clone(appErrors.ErrBusinessRule, message)
}

func conflict(message string) error {
	return appErrors.Clone(appErrors.ErrConflict, message)
}

// writeError maps a versioned write failure to 409 or internal.
func writeError(err error, failure string) error {
	if errors.Is(err, repository.ErrStaleVersion) {
		return appErrors.Wrap(err, appErrors.ErrVersionConflict.Code, appErrors.ErrVersionConflict.Status, appErrors.ErrVersionConflict.Message)
	}
	return internalError(err, failure)
}

// checkVersion rejects a request carrying a version other than the stored one. Zero skips the check.
func checkVersion(requested, stored int) error {
	if requested != 0 && requested != stored {
		return appErrors.WithDetails(appErrors.ErrVersionConflict, "", map[string]int{"expected": stored, "received": requested})
	}
	return nil
}

// ensureNoDependents blocks a delete while other records still reference the entity.
func ensureNoDependents(count int, entity string) error {
	if count == 0 {
		return nil
	}
	message := fmt.Sprintf("không thể xóa %s: còn %d bản ghi đang tham chiếu", entity, count)
	return appErrors.WithDetails(appErrors.ErrHasDependents, message, map[string]int{"dependents": count})
}

// formatMoney renders a whole dong amount grouped the Vietnamese way.
func formatMoney(amount decimal.Decimal) string {
	return message.NewPrinter(language.Vietnamese).Sprintf("%d", amount.Round(0).IntPart())
}
