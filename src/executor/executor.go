package executor

import (
	"context"

	"tradercat/src/signal"
)

// Executor 信号执行器：消费一轮策略信号并做出响应。
// 调用方不依赖返回值，失败由实现自行记录。
type Executor interface {
	ExecuteTrade(ctx context.Context, signals []*signal.SignalModel, symbol string) error
}
