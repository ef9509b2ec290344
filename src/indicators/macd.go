package indicators

import (
	"fmt"
	"math"

	"tradercat/src/market"
)

// MACD 指数平滑异同移动平均线，字段名形如
// close_MACD_12_26_9（MACD线）、close_MACDs_12_26_9（信号线）、
// close_MACDh_12_26_9（柱状图）。
func MACD(candles []market.Candle, params market.Params) ([]market.IndicatorPoint, error) {
	fast := params.Int("fast", 12)
	slow := params.Int("slow", 26)
	signalLen := params.Int("signal", 9)
	if fast <= 0 || slow <= 0 || signalLen <= 0 {
		return nil, ErrInvalidPeriod
	}

	closes := market.Closes(candles)
	emaFast := emaSeries(closes, fast)
	emaSlow := emaSeries(closes, slow)

	macdLine := nanSlice(len(closes))
	for i := range macdLine {
		if math.IsNaN(emaFast[i]) || math.IsNaN(emaSlow[i]) {
			continue
		}
		macdLine[i] = emaFast[i] - emaSlow[i]
	}

	signalLine := emaSeries(macdLine, signalLen)

	histogram := nanSlice(len(closes))
	for i := range histogram {
		if math.IsNaN(macdLine[i]) || math.IsNaN(signalLine[i]) {
			continue
		}
		histogram[i] = macdLine[i] - signalLine[i]
	}

	suffix := fmt.Sprintf("%d_%d_%d", fast, slow, signalLen)
	macdField := "close_MACD_" + suffix
	signalField := "close_MACDs_" + suffix
	histField := "close_MACDh_" + suffix

	points := newSeries(candles)
	for i := range points {
		points[i].Fields[macdField] = macdLine[i]
		points[i].Fields[signalField] = signalLine[i]
		points[i].Fields[histField] = histogram[i]
	}
	return points, nil
}
