package helper_util_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	helper_util "github.com/mehmetNetAx/papirai-sub001/util/helper"
)

func TestParseTime(t *testing.T) {
	parsed, err := helper_util.ParseTime("2025-06-30T12:00:00Z")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC), parsed)

	_, err = helper_util.ParseTime("not-a-time")
	assert.Error(t, err)
}

func TestParseNullableTime(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		parsed, err := helper_util.ParseNullableTime(nil)
		assert.NoError(t, err)
		assert.Nil(t, parsed)
	})

	t.Run("NativeTime", func(t *testing.T) {
		now := time.Now()
		parsed, err := helper_util.ParseNullableTime(now)
		assert.NoError(t, err)
		if assert.NotNil(t, parsed) {
			assert.Equal(t, now, *parsed)
		}
	})

	t.Run("RFC3339String", func(t *testing.T) {
		parsed, err := helper_util.ParseNullableTime("2025-06-30T00:00:00Z")
		assert.NoError(t, err)
		if assert.NotNil(t, parsed) {
			assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), *parsed)
		}
	})

	t.Run("UnsupportedType", func(t *testing.T) {
		_, err := helper_util.ParseNullableTime(42)
		assert.Error(t, err)
	})
}
