package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetString(t *testing.T) {
	t.Setenv("TEST_STRING", "value")

	assert.Equal(t, "value", GetString("TEST_STRING", "default"))
	assert.Equal(t, "default", GetString("TEST_STRING_MISSING", "default"))
}

func TestGetInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_BAD", "not-a-number")

	assert.Equal(t, 42, GetInt("TEST_INT", 1))
	assert.Equal(t, 1, GetInt("TEST_INT_BAD", 1))
	assert.Equal(t, 1, GetInt("TEST_INT_MISSING", 1))
}

func TestGetBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_BOOL_BAD", "yep")

	assert.True(t, GetBool("TEST_BOOL", false))
	assert.False(t, GetBool("TEST_BOOL_BAD", false))
	assert.True(t, GetBool("TEST_BOOL_MISSING", true))
}
