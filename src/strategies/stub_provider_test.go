package strategies

import (
	"context"
	"math"
	"time"

	"tradercat/src/market"
	"tradercat/src/timeframes"
)

// stubProvider 测试用行情提供方：按指标名返回预置序列并统计调用次数
type stubProvider struct {
	candles        []market.Candle
	series         map[string][]market.IndicatorPoint
	errFor         map[string]error
	priceCalls     int
	indicatorCalls int
}

func (p *stubProvider) GetPriceData(ctx context.Context, symbol string, interval timeframes.Timeframe, lookback int) ([]market.Candle, error) {
	p.priceCalls++
	return p.candles, nil
}

func (p *stubProvider) GetIndicator(ctx context.Context, name string, candles []market.Candle, params market.Params) ([]market.IndicatorPoint, error) {
	p.indicatorCalls++
	if err := p.errFor[name]; err != nil {
		return nil, err
	}
	return p.series[name], nil
}

// makeCandles 构造测试K线，volumes为nil时成交量统一为1000
func makeCandles(closes []float64, volumes []float64) []market.Candle {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]market.Candle, len(closes))
	for i, c := range closes {
		vol := 1000.0
		if volumes != nil {
			vol = volumes[i]
		}
		candles[i] = market.Candle{
			Timestamp: base.AddDate(0, 0, i),
			Open:      c,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    vol,
		}
	}
	return candles
}

// indicatorSeries 按字段构造指标序列，各字段切片等长，NaN表示未定义
func indicatorSeries(fields map[string][]float64) []market.IndicatorPoint {
	length := 0
	for _, values := range fields {
		length = len(values)
		break
	}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]market.IndicatorPoint, length)
	for i := range points {
		points[i] = market.IndicatorPoint{
			Timestamp: base.AddDate(0, 0, i),
			Fields:    make(map[string]float64, len(fields)),
		}
		for name, values := range fields {
			points[i].Fields[name] = values[i]
		}
	}
	return points
}

// tailSeries 构造前缀全NaN、只有末尾若干点有值的序列
func tailSeries(length int, field string, tail ...float64) []market.IndicatorPoint {
	values := make([]float64, length)
	for i := range values {
		values[i] = math.NaN()
	}
	copy(values[length-len(tail):], tail)
	return indicatorSeries(map[string][]float64{field: values})
}

// mergeSeries 将多个等长序列的字段合并到一个序列
func mergeSeries(series ...[]market.IndicatorPoint) []market.IndicatorPoint {
	out := make([]market.IndicatorPoint, len(series[0]))
	for i := range out {
		out[i] = market.IndicatorPoint{
			Timestamp: series[0][i].Timestamp,
			Fields:    make(map[string]float64),
		}
		for _, s := range series {
			for name, v := range s[i].Fields {
				out[i].Fields[name] = v
			}
		}
	}
	return out
}
