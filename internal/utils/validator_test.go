// internal/utils/validator_test.go
package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type accountIDProbe struct {
	Account string `validate:"required,account_id"`
}

func TestAccountIDValidation(t *testing.T) {
	valid := []string{
		"alice",
		"acct-42",
		"user.name",
		"org:team:member",
		"A1_b2" + strings.Repeat("x", 100),
		"0x1234abcd",
	}
	for _, id := range valid {
		assert.NoError(t, ValidateStruct(&accountIDProbe{Account: id}), "id %q", id)
	}

	invalid := []string{
		"",
		"-leading-dash",
		".leading-dot",
		"has space",
		"slash/es",
		"a" + strings.Repeat("b", 128), // 129 chars
		"emoji🙂",
	}
	for _, id := range invalid {
		assert.Error(t, ValidateStruct(&accountIDProbe{Account: id}), "id %q", id)
	}
}

type boundsProbe struct {
	Title    string `validate:"required,min=1,max=10"`
	Amount   uint64 `validate:"lte=1000"`
	Duration uint64 `validate:"required,gt=0"`
}

func TestGetValidationErrors(t *testing.T) {
	err := ValidateStruct(&boundsProbe{Title: "", Amount: 2000, Duration: 0})
	assert.Error(t, err)

	verrs := GetValidationErrors(err)
	assert.Len(t, verrs, 3)

	byField := make(map[string]ValidationError, len(verrs))
	for _, ve := range verrs {
		byField[ve.Field] = ve
	}

	assert.Equal(t, "required", byField["title"].Tag)
	assert.Contains(t, byField["title"].Message, "required")
	assert.Equal(t, "lte", byField["amount"].Tag)
	assert.Contains(t, byField["amount"].Message, "1000")
	assert.Equal(t, "required", byField["duration"].Tag)
}

func TestGetValidationErrorsOnPlainError(t *testing.T) {
	assert.Empty(t, GetValidationErrors(assert.AnError))
}
