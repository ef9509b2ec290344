package strategies

import (
	"context"

	"github.com/xpwu/go-log/log"

	"tradercat/src/market"
)

// fetchIndicator 获取指标序列。获取失败按"指标值未定义"处理并返回nil，
// 之后所有依赖该序列的子条件都会落空，信号向hold收敛，而不是让本轮崩溃。
func fetchIndicator(ctx context.Context, provider market.MarketDataProvider, name string,
	candles []market.Candle, params market.Params) []market.IndicatorPoint {

	points, err := provider.GetIndicator(ctx, name, candles, params)
	if err != nil {
		_, logger := log.WithCtx(ctx)
		logger.Error("获取指标失败", "indicator", name, "error", err)
		return nil
	}
	return points
}

// valueAt 读取指标序列index处的字段值，序列过短或字段未定义时返回false
func valueAt(points []market.IndicatorPoint, index int, field string) (float64, bool) {
	if index < 0 || index >= len(points) {
		return 0, false
	}
	return points[index].Value(field)
}

// lastValue 读取序列最后一个点的字段值
func lastValue(points []market.IndicatorPoint, field string) (float64, bool) {
	return valueAt(points, len(points)-1, field)
}

// prevValue 读取序列倒数第二个点的字段值
func prevValue(points []market.IndicatorPoint, field string) (float64, bool) {
	return valueAt(points, len(points)-2, field)
}

// joinReasons 拼接原因列表，为空时给出默认文案
func joinReasons(reasons []string, empty string) string {
	if len(reasons) == 0 {
		return empty
	}
	out := reasons[0]
	for _, r := range reasons[1:] {
		out += "; " + r
	}
	return out
}

// lastPoint 返回序列最后一个点，空序列返回nil
func lastPoint(points []market.IndicatorPoint) *market.IndicatorPoint {
	if len(points) == 0 {
		return nil
	}
	return &points[len(points)-1]
}

// nullable 将可能为nil的指标点放入details
func nullable(p *market.IndicatorPoint) any {
	if p == nil {
		return nil
	}
	return *p
}

// nullableFloat 将可能未定义的数值放入details，未定义记为nil
func nullableFloat(v float64, ok bool) any {
	if !ok {
		return nil
	}
	return v
}

// maxInt 取若干整数中的最大值
func maxInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
