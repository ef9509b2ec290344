package indicators

import (
	"fmt"
	"math"

	"tradercat/src/market"
)

// Stoch KDJ随机指标，字段名形如 STOCHk_14_3_3（%K）、STOCHd_14_3_3（%D）。
// 原始%K为 fast_k_period 窗口内的 100*(close-LL)/(HH-LL)，
// %K经 slow_k_period 平滑，%D再经 slow_d_period 平滑。
func Stoch(candles []market.Candle, params market.Params) ([]market.IndicatorPoint, error) {
	fastK := params.Int("fast_k_period", 14)
	slowD := params.Int("slow_d_period", 3)
	slowK := params.Int("slow_k_period", 3)
	if fastK <= 0 || slowD <= 0 || slowK <= 0 {
		return nil, ErrInvalidPeriod
	}

	rawK := nanSlice(len(candles))
	for i := fastK - 1; i < len(candles); i++ {
		highest := math.Inf(-1)
		lowest := math.Inf(1)
		for j := i - fastK + 1; j <= i; j++ {
			highest = math.Max(highest, candles[j].High)
			lowest = math.Min(lowest, candles[j].Low)
		}
		// 窗口内无波动时保持NaN
		if highest == lowest {
			continue
		}
		rawK[i] = 100 * (candles[i].Close - lowest) / (highest - lowest)
	}

	kLine := smaSeries(rawK, slowK)
	dLine := smaSeries(kLine, slowD)

	suffix := fmt.Sprintf("%d_%d_%d", fastK, slowD, slowK)
	kField := "STOCHk_" + suffix
	dField := "STOCHd_" + suffix

	points := newSeries(candles)
	for i := range points {
		points[i].Fields[kField] = kLine[i]
		points[i].Fields[dField] = dLine[i]
	}
	return points, nil
}
