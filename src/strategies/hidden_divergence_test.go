package strategies

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradercat/src/market"
	"tradercat/src/signal"
)

func TestCalculateEMA(t *testing.T) {
	ema := calculateEMA([]float64{10, 20, 30, 40}, 3)

	require.Len(t, ema, 4)
	assert.True(t, math.IsNaN(ema[0]))
	assert.True(t, math.IsNaN(ema[1]))
	assert.InDelta(t, 20.0, ema[2], 1e-6) // (10+20+30)/3
	assert.InDelta(t, 30.0, ema[3], 1e-6) // (40-20)*0.5+20
}

func TestDetectSwingPoints(t *testing.T) {
	// 高低点同向于收盘价（High=close+1，Low=close-1）
	candles := makeCandles([]float64{100, 95, 90, 92, 88, 85}, nil)

	swingHighs, swingLows := detectSwingPoints(candles, 1)

	assert.Equal(t, []int{3}, swingHighs)
	assert.Equal(t, []int{2}, swingLows)
}

func TestDetectSwingPoints_ExcludesEndpoints(t *testing.T) {
	// 端点即便占优也不计入
	candles := makeCandles([]float64{110, 100, 105}, nil)

	swingHighs, swingLows := detectSwingPoints(candles, 1)

	assert.Empty(t, swingHighs)
	assert.Equal(t, []int{1}, swingLows)
}

// testHDConfig 缩短EMA周期便于构造短序列
func testHDConfig() HiddenDivergenceConfig {
	cfg := DefaultHiddenDivergenceConfig()
	cfg.EMAPeriod = 3
	return cfg
}

func TestHiddenDivergence_DowntrendBuy(t *testing.T) {
	// 下降趋势，摆动高点在下标3（close=92），当前价85创新低，
	// 而RSI与MACD高于摆动点处的读数，J不确认（2/3满足）
	closes := []float64{100, 95, 90, 92, 88, 85}
	provider := &stubProvider{
		candles: makeCandles(closes, nil),
		series: map[string][]market.IndicatorPoint{
			"rsi": indicatorSeries(map[string][]float64{
				"close_RSI_14": {50, 48, 45, 40, 42, 45},
			}),
			"macd": indicatorSeries(map[string][]float64{
				"close_MACD_12_26_9": {-1, -0.9, -0.8, -0.5, -0.4, -0.3},
			}),
			"stoch": indicatorSeries(map[string][]float64{
				"STOCHk_14_3_3": {30, 28, 25, 20, 22, 20},
				"STOCHd_14_3_3": {32, 30, 27, 22, 23, 24},
			}),
		},
	}

	s := NewHiddenDivergence(provider, testHDConfig())
	result := s.GenerateSignal(context.Background(), "BTCUSDT", provider.candles)

	require.Equal(t, signal.SignalBuy, result.Signal)
	assert.Equal(t, "Hidden Divergence", result.Strategy)
	assert.Equal(t,
		"Hidden bullish divergence: Price lower, RSI higher.; Hidden bullish divergence: Price lower, MACD higher.",
		result.Reason)

	// 摆动点处J=3*20-2*22=16，当前J=3*20-2*24=12，未确认
	v, ok := result.Details.Get("current_kdj_j")
	require.True(t, ok)
	assert.InDelta(t, 12.0, v.(float64), 1e-9)
	v, _ = result.Details.Get("swing_kdj_j")
	assert.InDelta(t, 16.0, v.(float64), 1e-9)
}

func TestHiddenDivergence_UptrendSell(t *testing.T) {
	// 上升趋势，摆动低点在下标3（close=108），当前价115创新高，
	// RSI与MACD低于摆动点处的读数
	closes := []float64{100, 105, 110, 108, 112, 115}
	provider := &stubProvider{
		candles: makeCandles(closes, nil),
		series: map[string][]market.IndicatorPoint{
			"rsi": indicatorSeries(map[string][]float64{
				"close_RSI_14": {55, 58, 62, 65, 63, 60},
			}),
			"macd": indicatorSeries(map[string][]float64{
				"close_MACD_12_26_9": {0.1, 0.3, 0.6, 0.5, 0.4, 0.3},
			}),
		},
	}

	s := NewHiddenDivergence(provider, testHDConfig())
	result := s.GenerateSignal(context.Background(), "ETHUSDT", provider.candles)

	require.Equal(t, signal.SignalSell, result.Signal)
	assert.Equal(t,
		"Hidden bearish divergence: Price higher, RSI lower.; Hidden bearish divergence: Price higher, MACD lower.",
		result.Reason)
}

func TestHiddenDivergence_SingleConfirmationHolds(t *testing.T) {
	closes := []float64{100, 95, 90, 92, 88, 85}
	provider := &stubProvider{
		candles: makeCandles(closes, nil),
		series: map[string][]market.IndicatorPoint{
			"rsi": indicatorSeries(map[string][]float64{
				"close_RSI_14": {50, 48, 45, 40, 42, 45},
			}),
			// MACD继续走低，不构成隐藏背离
			"macd": indicatorSeries(map[string][]float64{
				"close_MACD_12_26_9": {-1, -0.9, -0.8, -0.5, -0.6, -0.7},
			}),
		},
	}

	s := NewHiddenDivergence(provider, testHDConfig())
	result := s.GenerateSignal(context.Background(), "BTCUSDT", provider.candles)

	assert.Equal(t, signal.SignalHold, result.Signal)
	assert.Equal(t, "Hidden bullish divergence: Price lower, RSI higher.", result.Reason)
}

func TestHiddenDivergence_NoSwingPoint(t *testing.T) {
	// 单边上行且无有效摆动低点
	provider := &stubProvider{candles: makeCandles([]float64{100, 101, 102}, nil)}

	s := NewHiddenDivergence(provider, testHDConfig())
	result := s.GenerateSignal(context.Background(), "BTCUSDT", provider.candles)

	assert.Equal(t, signal.SignalHold, result.Signal)
	assert.Equal(t, "No valid swing point for divergence comparison.", result.Reason)
}

func TestHiddenDivergence_Guards(t *testing.T) {
	t.Run("insufficient candles", func(t *testing.T) {
		provider := &stubProvider{}
		s := NewHiddenDivergence(provider, DefaultHiddenDivergenceConfig())

		result := s.GenerateSignal(context.Background(), "BTCUSDT", makeCandles(make([]float64, 10), nil))

		assert.Equal(t, signal.SignalHold, result.Signal)
		assert.Equal(t, "Insufficient candles data for swing point and trend analysis.", result.Reason)
		assert.Equal(t, 0, provider.indicatorCalls)
	})

	t.Run("no provider", func(t *testing.T) {
		s := NewHiddenDivergence(nil, testHDConfig())

		result := s.GenerateSignal(context.Background(), "BTCUSDT", makeCandles(make([]float64, 10), nil))

		assert.Equal(t, signal.SignalHold, result.Signal)
		assert.Equal(t, "Data provider not set.", result.Reason)
	})
}
