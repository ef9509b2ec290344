package timeframes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeframe_GetDuration(t *testing.T) {
	tests := []struct {
		name      string
		timeframe Timeframe
		expected  time.Duration
		wantErr   bool
	}{
		// 分钟
		{"1m", Timeframe1m, time.Minute, false},
		{"3m", Timeframe3m, 3 * time.Minute, false},
		{"5m", Timeframe5m, 5 * time.Minute, false},
		{"15m", Timeframe15m, 15 * time.Minute, false},
		{"30m", Timeframe30m, 30 * time.Minute, false},

		// 小时
		{"1h", Timeframe1h, time.Hour, false},
		{"4h", Timeframe4h, 4 * time.Hour, false},

		// 天与周
		{"1d", Timeframe1d, 24 * time.Hour, false},
		{"1w", Timeframe1w, 7 * 24 * time.Hour, false},

		// 无效
		{"invalid", Timeframe("invalid"), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.timeframe.GetDuration()

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, time.Duration(0), result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestParseTimeframe(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		tf, err := ParseTimeframe("1d")
		assert.NoError(t, err)
		assert.Equal(t, Timeframe1d, tf)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := ParseTimeframe("2y")
		assert.Error(t, err)
	})
}

func TestGetAllTimeframes(t *testing.T) {
	all := GetAllTimeframes()
	assert.NotEmpty(t, all)
	for _, tf := range all {
		assert.True(t, tf.IsValid(), "timeframe %s should be valid", tf)
	}
}
