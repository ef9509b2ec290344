package indicators

import (
	"fmt"

	"tradercat/src/market"
)

// Func 指标计算函数：输入K线窗口和参数，输出与K线按下标对齐的指标序列
// （同样长度、同样顺序，预热期字段为NaN）
type Func func(candles []market.Candle, params market.Params) ([]market.IndicatorPoint, error)

// registry 按名称注册的指标计算函数
var registry = map[string]Func{
	"sma":    SMA,
	"ema":    EMA,
	"rsi":    RSI,
	"macd":   MACD,
	"stoch":  Stoch,
	"bbands": BollingerBands,
}

// Compute 按名称计算指标序列
func Compute(name string, candles []market.Candle, params market.Params) ([]market.IndicatorPoint, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIndicator, name)
	}
	return fn(candles, params)
}

// Names 返回已注册的指标名
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// newSeries 创建与K线对齐的空指标序列
func newSeries(candles []market.Candle) []market.IndicatorPoint {
	points := make([]market.IndicatorPoint, len(candles))
	for i, c := range candles {
		points[i] = market.IndicatorPoint{
			Timestamp: c.Timestamp,
			Fields:    make(map[string]float64, 2),
		}
	}
	return points
}
