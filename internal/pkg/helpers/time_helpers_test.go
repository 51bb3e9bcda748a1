package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 90*time.Second, ParseDuration("1m30s", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("soon", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("", time.Hour))
}

func TestNullHelpers(t *testing.T) {
	assert.False(t, GetContentNullString("").Valid)
	assert.Equal(t, "x", GetContentNullString("x").String)
	assert.False(t, GetNullInt64(0).Valid)
	assert.Equal(t, int64(3), GetNullInt64(3).Int64)
}
