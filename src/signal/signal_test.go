package signal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignal_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		signal Signal
		valid  bool
	}{
		{"buy", SignalBuy, true},
		{"sell", SignalSell, true},
		{"hold", SignalHold, true},
		{"empty", Signal(""), false},
		{"unknown", Signal("long"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.signal.IsValid())
		})
	}
}

func TestDetails_Get(t *testing.T) {
	details := Details{
		D("rsi", 25.5),
		D("volume", 1300.0),
	}

	v, ok := details.Get("rsi")
	assert.True(t, ok)
	assert.Equal(t, 25.5, v)

	_, ok = details.Get("macd")
	assert.False(t, ok)
}

func TestDetails_MarshalJSON_PreservesOrder(t *testing.T) {
	details := Details{
		D("b", 2),
		D("a", 1),
		D("c", "x"),
	}

	data, err := json.Marshal(details)
	require.NoError(t, err)
	// 保持插入顺序，而不是字典序
	assert.Equal(t, `{"b":2,"a":1,"c":"x"}`, string(data))
}
