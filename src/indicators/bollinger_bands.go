package indicators

import (
	"fmt"
	"math"
	"strconv"

	"tradercat/src/market"
)

// BollingerBands 布林带，字段名形如 close_BBL_20_2.0（下轨）、
// close_BBM_20_2.0（中轨）、close_BBU_20_2.0（上轨）。
// 中轨为简单移动平均，上下轨为中轨加减std倍总体标准差。
func BollingerBands(candles []market.Candle, params market.Params) ([]market.IndicatorPoint, error) {
	length := params.Int("length", 20)
	std := params.Float("std", 2.0)
	if length <= 0 {
		return nil, ErrInvalidPeriod
	}
	if std <= 0 {
		return nil, ErrInvalidMultiplier
	}

	closes := market.Closes(candles)
	middle := smaSeries(closes, length)
	deviation := stdevSeries(closes, length)

	suffix := fmt.Sprintf("%d_%s", length, strconv.FormatFloat(std, 'f', 1, 64))
	lowerField := "close_BBL_" + suffix
	middleField := "close_BBM_" + suffix
	upperField := "close_BBU_" + suffix

	points := newSeries(candles)
	for i := range points {
		if math.IsNaN(middle[i]) || math.IsNaN(deviation[i]) {
			points[i].Fields[lowerField] = math.NaN()
			points[i].Fields[middleField] = math.NaN()
			points[i].Fields[upperField] = math.NaN()
			continue
		}
		band := std * deviation[i]
		points[i].Fields[lowerField] = middle[i] - band
		points[i].Fields[middleField] = middle[i]
		points[i].Fields[upperField] = middle[i] + band
	}
	return points, nil
}
