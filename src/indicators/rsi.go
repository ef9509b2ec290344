package indicators

import (
	"fmt"
	"math"

	"tradercat/src/market"
)

// RSI 相对强弱指标（Wilder平滑），字段名形如 close_RSI_14。
// 前length个值未定义。
func RSI(candles []market.Candle, params market.Params) ([]market.IndicatorPoint, error) {
	length := params.Int("length", 14)
	if length <= 0 {
		return nil, ErrInvalidPeriod
	}

	closes := market.Closes(candles)

	// 首个K线没有涨跌幅，置NaN使其不进入平滑窗口
	gains := nanSlice(len(closes))
	losses := nanSlice(len(closes))
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i], losses[i] = change, 0
		} else {
			gains[i], losses[i] = 0, -change
		}
	}

	avgGains := rmaSeries(gains, length)
	avgLosses := rmaSeries(losses, length)

	values := nanSlice(len(closes))
	for i := range values {
		gain, loss := avgGains[i], avgLosses[i]
		if math.IsNaN(gain) || math.IsNaN(loss) || gain+loss == 0 {
			continue
		}
		values[i] = 100 * gain / (gain + loss)
	}

	field := fmt.Sprintf("close_RSI_%d", length)
	points := newSeries(candles)
	for i := range points {
		points[i].Fields[field] = values[i]
	}
	return points, nil
}
