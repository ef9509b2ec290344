package executor

import (
	"context"

	"github.com/xpwu/go-log/log"

	"tradercat/src/signal"
)

// LogExecutor 日志执行器：只记录信号，不做任何交易动作
type LogExecutor struct{}

// NewLogExecutor 创建日志执行器
func NewLogExecutor() *LogExecutor {
	return &LogExecutor{}
}

// ExecuteTrade 逐条记录非hold信号
func (e *LogExecutor) ExecuteTrade(ctx context.Context, signals []*signal.SignalModel, symbol string) error {
	_, logger := log.WithCtx(ctx)
	logger.PushPrefix("LogExecutor")

	for _, s := range signals {
		if s == nil || s.Signal == signal.SignalHold {
			continue
		}
		logger.Info("收到交易信号",
			"symbol", symbol,
			"strategy", s.Strategy,
			"signal", string(s.Signal),
			"reason", s.Reason)
	}
	return nil
}
