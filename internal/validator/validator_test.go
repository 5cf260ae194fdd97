package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_Check(t *testing.T) {
	var v Validator

	v.Check(true, "should not be recorded")
	assert.False(t, v.HasErrors())

	v.Check(false, "first error")
	v.Check(false, "second error")

	assert.True(t, v.HasErrors())
	assert.Equal(t, []string{"first error", "second error"}, v.Errors)
}

func TestValidator_CheckField(t *testing.T) {
	var v Validator

	v.CheckField(false, "name", "cannot be blank")
	v.CheckField(false, "name", "duplicate message is dropped")
	v.CheckField(true, "hour", "should not be recorded")

	assert.True(t, v.HasErrors())
	assert.Equal(t, map[string]string{"name": "cannot be blank"}, v.FieldErrors)
}

func TestNotBlank(t *testing.T) {
	assert.True(t, NotBlank("lunch"))
	assert.False(t, NotBlank(""))
	assert.False(t, NotBlank("   \t"))
}

func TestIn(t *testing.T) {
	assert.True(t, In("b", "a", "b", "c"))
	assert.False(t, In("d", "a", "b", "c"))
}

func TestBetween(t *testing.T) {
	assert.True(t, Between(5, 1, 10))
	assert.False(t, Between(11, 1, 10))
}

func TestNoDuplicates(t *testing.T) {
	assert.True(t, NoDuplicates([]string{"a", "b"}))
	assert.False(t, NoDuplicates([]string{"a", "a"}))
}
