package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator(t *testing.T) {
	v := NewValidator()
	assert.True(t, v.Valid())

	v.Check(false, "title", "must be provided")
	v.Check(false, "title", "must be between 1 and 200 characters long")
	v.Check(true, "date", "must be a valid date")

	assert.False(t, v.Valid())

	// only the first error per field is kept
	assert.Equal(t, map[string]string{"title": "must be provided"}, v.Errors)

	err := v.ValidationError()
	assert.Equal(t, ValidationError{Errors: map[string]string{"title": "must be provided"}}, err)
}

func TestCheckStringLength(t *testing.T) {
	v := NewValidator()

	assert.True(t, v.CheckStringLength("abc", 1, 3))
	assert.False(t, v.CheckStringLength("", 1, 3))
	assert.False(t, v.CheckStringLength("abcd", 1, 3))

	// runes, not bytes
	assert.True(t, v.CheckStringLength("日記帳", 1, 3))
}
