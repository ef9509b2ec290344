package indicators

import (
	"math"
)

// 本文件是各指标共用的序列运算，全部以NaN表示预热期的未定义值，
// 输出序列与输入序列等长。

// smaSeries 简单移动平均：窗口内任一值未定义则结果未定义
func smaSeries(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		defined := true
		for j := i - period + 1; j <= i; j++ {
			if math.IsNaN(values[j]) {
				defined = false
				break
			}
			sum += values[j]
		}
		if defined {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// emaSeries 指数移动平均：前period-1个值未定义，第period-1个值取前period个
// 值的简单均值作为种子，之后按乘数 2/(period+1) 递推
func emaSeries(values []float64, period int) []float64 {
	out := nanSlice(len(values))

	// 找到第一个已定义值，种子窗口从这里开始
	first := firstDefined(values)
	if first < 0 || len(values)-first < period {
		return out
	}

	sum := 0.0
	for i := first; i < first+period; i++ {
		if math.IsNaN(values[i]) {
			return out
		}
		sum += values[i]
	}
	seed := first + period - 1
	out[seed] = sum / float64(period)

	multiplier := 2.0 / float64(period+1)
	for i := seed + 1; i < len(values); i++ {
		if math.IsNaN(values[i]) {
			return out
		}
		out[i] = (values[i]-out[i-1])*multiplier + out[i-1]
	}
	return out
}

// rmaSeries Wilder平滑（RSI用）：种子为前period个值的简单均值，
// 之后按 alpha=1/period 递推
func rmaSeries(values []float64, period int) []float64 {
	out := nanSlice(len(values))

	first := firstDefined(values)
	if first < 0 || len(values)-first < period {
		return out
	}

	sum := 0.0
	for i := first; i < first+period; i++ {
		if math.IsNaN(values[i]) {
			return out
		}
		sum += values[i]
	}
	seed := first + period - 1
	out[seed] = sum / float64(period)

	alpha := 1.0 / float64(period)
	for i := seed + 1; i < len(values); i++ {
		if math.IsNaN(values[i]) {
			return out
		}
		out[i] = (1-alpha)*out[i-1] + alpha*values[i]
	}
	return out
}

// stdevSeries 滚动总体标准差，与smaSeries同样的窗口定义
func stdevSeries(values []float64, period int) []float64 {
	means := smaSeries(values, period)
	out := nanSlice(len(values))
	for i := period - 1; i < len(values); i++ {
		if math.IsNaN(means[i]) {
			continue
		}
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			diff := values[j] - means[i]
			sum += diff * diff
		}
		out[i] = math.Sqrt(sum / float64(period))
	}
	return out
}

// nanSlice 创建全NaN序列
func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// firstDefined 返回第一个非NaN下标，全未定义时返回-1
func firstDefined(values []float64) int {
	for i, v := range values {
		if !math.IsNaN(v) {
			return i
		}
	}
	return -1
}
