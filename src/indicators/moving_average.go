package indicators

import (
	"fmt"

	"tradercat/src/market"
)

// SMA 简单移动平均，字段名形如 close_SMA_20
func SMA(candles []market.Candle, params market.Params) ([]market.IndicatorPoint, error) {
	length := params.Int("length", 20)
	if length <= 0 {
		return nil, ErrInvalidPeriod
	}

	values := smaSeries(market.Closes(candles), length)
	field := fmt.Sprintf("close_SMA_%d", length)

	points := newSeries(candles)
	for i := range points {
		points[i].Fields[field] = values[i]
	}
	return points, nil
}

// EMA 指数移动平均，字段名形如 close_EMA_10。
// 前length-1个值未定义，第length-1个值为前length个收盘价的简单均值，
// 之后按乘数 2/(length+1) 递推。
func EMA(candles []market.Candle, params market.Params) ([]market.IndicatorPoint, error) {
	length := params.Int("length", 10)
	if length <= 0 {
		return nil, ErrInvalidPeriod
	}

	values := emaSeries(market.Closes(candles), length)
	field := fmt.Sprintf("close_EMA_%d", length)

	points := newSeries(candles)
	for i := range points {
		points[i].Fields[field] = values[i]
	}
	return points, nil
}
