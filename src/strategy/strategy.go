package strategy

import (
	"context"

	"tradercat/src/market"
	"tradercat/src/signal"
)

// Strategy 交易策略接口
//
// GenerateSignal 的前置条件：candles按时间升序、长度不低于策略自身的
// 最小值；不满足时返回hold并给出诊断原因，且不发起任何指标调用，
// 永不panic。每次调用恰好产生一个SignalModel。
type Strategy interface {
	// Name 获取策略名称
	Name() string

	// GenerateSignal 基于K线窗口生成交易信号
	GenerateSignal(ctx context.Context, symbol string, candles []market.Candle) *signal.SignalModel
}
