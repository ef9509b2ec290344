package market

import (
	"math"
	"time"
)

// IndicatorPoint 指标序列中的一个点，与产生它的K线序列按下标对齐
// （同样长度、同样顺序）。字段名编码了指标参数，例如长度为14的RSI
// 暴露的字段名为 "close_RSI_14"，这一命名约定是策略依赖的契约。
type IndicatorPoint struct {
	Timestamp time.Time          `json:"timestamp"` // 对应K线的开盘时间
	Fields    map[string]float64 `json:"fields"`    // 指标字段，预热期以NaN占位
}

// Value 读取指定字段，字段缺失或为NaN时返回false
// （未定义的指标值永远使其子条件失败，而不是让计算崩溃）
func (p IndicatorPoint) Value(name string) (float64, bool) {
	v, ok := p.Fields[name]
	if !ok || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Params 指标的数值参数，例如 {"length": 14} 或 {"fast": 12, "slow": 26, "signal": 9}
type Params map[string]float64

// Int 按整数读取参数，缺失时返回默认值
func (p Params) Int(key string, def int) int {
	if v, ok := p[key]; ok {
		return int(v)
	}
	return def
}

// Float 按浮点数读取参数，缺失时返回默认值
func (p Params) Float(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}
