package service

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/uni-payroll-api/internal/repository"
	appErrors "github.com/noah-isme/uni-payroll-api/pkg/errors"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":           "0",
		"950":         "950",
		"1000":        "1.000",
		"6200000":     "6.200.000",
		"1234567.6":   "1.234.568",
		"-4500000.25": "-4.500.000",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, formatMoney(decimal.RequireFromString(input)), input)
	}
}

func TestKeyFillsBlankSegments(t *testing.T) {
	assert.Equal(t, "salary:stats:ay-1:all:semester:true", Key("salary:stats", "ay-1", " ", "semester", "true"))
	assert.Equal(t, "rates", Key("rates"))
}

func TestCheckVersion(t *testing.T) {
	assert.NoError(t, checkVersion(0, 4))
	assert.NoError(t, checkVersion(4, 4))

	appErr := assertAppError(t, checkVersion(3, 4), appErrors.ErrVersionConflict)
	assert.Equal(t, map[string]int{"expected": 4, "received": 3}, appErr.Details)
}

func TestEnsureNoDependents(t *testing.T) {
	assert.NoError(t, ensureNoDependents(0, "khoa"))

	appErr := assertAppError(t, ensureNoDependents(3, "khoa"), appErrors.ErrHasDependents)
	assert.Contains(t, appErr.Message, "khoa")
	assert.Equal(t, map[string]int{"dependents": 3}, appErr.Details)
}

func TestErrorMapping(t *testing.T) {
	assertAppError(t, lookupError(sql.ErrNoRows, "x", "y"), appErrors.ErrNotFound)
	assertAppError(t, lookupError(errors.New("boom"), "x", "y"), appErrors.ErrInternal)
	assertAppError(t, referenceError(sql.ErrNoRows, "x", "y"), appErrors.ErrValidation)
	assertAppError(t, writeError(repository.ErrStaleVersion, "y"), appErrors.ErrVersionConflict)
	assertAppError(t, writeError(errors.New("boom"), "y"), appErrors.ErrInternal)
}

func TestNormalizeOptional(t *testing.T) {
	assert.Nil(t, normalizeOptional(nil))
	assert.Nil(t, normalizeOptional(stringPtr("  ")))
	assert.Equal(t, "sem-1", *normalizeOptional(stringPtr(" sem-1 ")))
}
