package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("TEST_STRING", "hello world")
	t.Setenv("TEST_EMPTY", "")

	assert.Equal(t, "hello world", GetEnvString("TEST_STRING", "default"))
	assert.Equal(t, "", GetEnvString("TEST_EMPTY", "default"))
	assert.Equal(t, "default", GetEnvString("NONEXISTENT_STRING", "default"))
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("TEST_BOOL_TRUE", "true")
	t.Setenv("TEST_BOOL_BAD", "maybe")

	assert.True(t, GetEnvBool("TEST_BOOL_TRUE", false))
	assert.True(t, GetEnvBool("TEST_BOOL_BAD", true))
	assert.False(t, GetEnvBool("NONEXISTENT_BOOL", false))
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_BAD", "forty-two")

	assert.Equal(t, 42, GetEnvInt("TEST_INT", 0))
	assert.Equal(t, 7, GetEnvInt("TEST_INT_BAD", 7))
	assert.Equal(t, 3, GetEnvInt("NONEXISTENT_INT", 3))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "1m30s")
	t.Setenv("TEST_DURATION_BAD", "soon")

	assert.Equal(t, 90*time.Second, GetEnvDuration("TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, GetEnvDuration("TEST_DURATION_BAD", time.Second))
	assert.Equal(t, 5*time.Second, GetEnvDuration("NONEXISTENT_DURATION", 5*time.Second))
}

func TestTrimHexPrefix(t *testing.T) {
	assert.Equal(t, "abcd", TrimHexPrefix("0xabcd"))
	assert.Equal(t, "abcd", TrimHexPrefix("0Xabcd"))
	assert.Equal(t, "abcd", TrimHexPrefix("  abcd\n"))
	assert.Equal(t, "", TrimHexPrefix("0x"))
}
