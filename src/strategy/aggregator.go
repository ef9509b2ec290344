package strategy

import (
	"tradercat/src/signal"
)

// Aggregator 信号聚合器接口。当前的聚合只是恒等拼接，
// 做成可插拔是为了之后引入加权或组合逻辑时不必改动各策略。
type Aggregator interface {
	// Aggregate 聚合一轮评估产生的信号列表
	Aggregate(signals []*signal.SignalModel) []*signal.SignalModel
}

// IdentityAggregator 恒等聚合器：原样返回输入
type IdentityAggregator struct{}

// NewIdentityAggregator 创建恒等聚合器
func NewIdentityAggregator() *IdentityAggregator {
	return &IdentityAggregator{}
}

// Aggregate 原样返回信号列表
func (a *IdentityAggregator) Aggregate(signals []*signal.SignalModel) []*signal.SignalModel {
	return signals
}
