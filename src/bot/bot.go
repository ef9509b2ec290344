package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/xpwu/go-log/log"

	"tradercat/src/executor"
	"tradercat/src/market"
	"tradercat/src/signal"
	"tradercat/src/strategy"
	"tradercat/src/timeframes"
)

const (
	// DefaultLookback 策略共享K线窗口的默认长度
	DefaultLookback = 30
	// DefaultFetchTimeout 单次行情拉取的默认超时
	DefaultFetchTimeout = 30 * time.Second
)

// Bot 单标的信号引擎：拉取一个共享K线窗口，按固定顺序评估全部策略，
// 聚合后交给执行器。所有策略评估同一份窗口，保证各策略输出可比。
type Bot struct {
	provider   market.MarketDataProvider
	strategies []strategy.Strategy
	aggregator strategy.Aggregator
	executor   executor.Executor

	interval     timeframes.Timeframe
	lookback     int
	fetchTimeout time.Duration
}

// NewBot 创建单标的信号引擎，策略按传入顺序评估
func NewBot(provider market.MarketDataProvider, strategies []strategy.Strategy,
	aggregator strategy.Aggregator, exec executor.Executor) *Bot {

	if aggregator == nil {
		aggregator = strategy.NewIdentityAggregator()
	}
	return &Bot{
		provider:     provider,
		strategies:   strategies,
		aggregator:   aggregator,
		executor:     exec,
		interval:     timeframes.Timeframe1d,
		lookback:     DefaultLookback,
		fetchTimeout: DefaultFetchTimeout,
	}
}

// SetInterval 设置K线周期
func (b *Bot) SetInterval(interval timeframes.Timeframe) {
	b.interval = interval
}

// SetLookback 设置K线窗口长度
func (b *Bot) SetLookback(lookback int) {
	b.lookback = lookback
}

// SetFetchTimeout 设置单次行情拉取超时
func (b *Bot) SetFetchTimeout(timeout time.Duration) {
	b.fetchTimeout = timeout
}

// Run 对单个标的执行一轮评估：恰好拉取一次行情，策略依次评估同一窗口，
// 聚合后交给执行器（执行结果不影响返回的信号），返回聚合后的信号列表
func (b *Bot) Run(ctx context.Context, symbol string) ([]*signal.SignalModel, error) {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("Bot")

	logger.Info("开始评估", "symbol", symbol, "interval", b.interval.String(), "lookback", b.lookback)

	fetchCtx, cancel := context.WithTimeout(ctx, b.fetchTimeout)
	candles, err := b.provider.GetPriceData(fetchCtx, symbol, b.interval, b.lookback)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("get price data for %s: %w", symbol, err)
	}

	logger.Info("行情拉取完成", "symbol", symbol, "candles", len(candles))

	signals := make([]*signal.SignalModel, 0, len(b.strategies))
	for _, s := range b.strategies {
		signals = append(signals, s.GenerateSignal(ctx, symbol, candles))
	}

	final := b.aggregator.Aggregate(signals)

	if b.executor != nil {
		// 执行结果不反馈到信号流
		if err := b.executor.ExecuteTrade(ctx, final, symbol); err != nil {
			logger.Error("执行器处理失败", "symbol", symbol, "error", err)
		}
	}

	return final, nil
}
