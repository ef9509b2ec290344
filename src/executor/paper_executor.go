package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/xpwu/go-log/log"

	"tradercat/src/market"
	"tradercat/src/signal"
	"tradercat/src/timeframes"
)

// ErrNoPriceData 无法获取用于模拟成交的最新价格
var ErrNoPriceData = errors.New("no price data for paper fill")

// Fill 一笔模拟成交
type Fill struct {
	Symbol   string          `json:"symbol"`
	Side     signal.Signal   `json:"side"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Strategy string          `json:"strategy"`
}

// PaperExecutor 纸面执行器：用最新收盘价模拟成交，只做现金与持仓的
// 记账，不触达交易所下单接口
type PaperExecutor struct {
	provider market.MarketDataProvider

	mu           sync.Mutex
	cash         decimal.Decimal
	positions    map[string]decimal.Decimal
	fills        []Fill
	tradePercent decimal.Decimal // 单笔买入占可用现金的比例
	minTrade     decimal.Decimal // 最小下单金额
}

// NewPaperExecutor 创建纸面执行器
func NewPaperExecutor(provider market.MarketDataProvider, initialCash decimal.Decimal) *PaperExecutor {
	return &PaperExecutor{
		provider:     provider,
		cash:         initialCash,
		positions:    make(map[string]decimal.Decimal),
		tradePercent: decimal.NewFromFloat(0.2),
		minTrade:     decimal.NewFromFloat(10.0),
	}
}

// SetTradePercent 设置单笔买入占可用现金的比例
func (e *PaperExecutor) SetTradePercent(percent float64) {
	e.tradePercent = decimal.NewFromFloat(percent)
}

// Cash 当前可用现金
func (e *PaperExecutor) Cash() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cash
}

// Position 当前持仓数量
func (e *PaperExecutor) Position(symbol string) decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.positions[symbol]
}

// Fills 全部模拟成交记录的副本
func (e *PaperExecutor) Fills() []Fill {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Fill, len(e.fills))
	copy(out, e.fills)
	return out
}

// ExecuteTrade 按信号模拟成交：buy按比例买入、sell全部平仓、hold跳过
func (e *PaperExecutor) ExecuteTrade(ctx context.Context, signals []*signal.SignalModel, symbol string) error {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("PaperExecutor")

	actionable := false
	for _, s := range signals {
		if s != nil && s.Signal != signal.SignalHold {
			actionable = true
			break
		}
	}
	if !actionable {
		return nil
	}

	price, err := e.latestPrice(ctx, symbol)
	if err != nil {
		logger.Error("获取成交价格失败", "symbol", symbol, "error", err)
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, s := range signals {
		if s == nil {
			continue
		}
		switch s.Signal {
		case signal.SignalBuy:
			notional := e.cash.Mul(e.tradePercent)
			if notional.LessThan(e.minTrade) {
				logger.Info("现金不足，跳过买入",
					"symbol", symbol, "cash", e.cash.String(), "strategy", s.Strategy)
				continue
			}
			quantity := notional.Div(price)
			e.cash = e.cash.Sub(notional)
			e.positions[symbol] = e.positions[symbol].Add(quantity)
			e.fills = append(e.fills, Fill{
				Symbol: symbol, Side: signal.SignalBuy,
				Quantity: quantity, Price: price, Strategy: s.Strategy,
			})
			logger.Info("模拟买入",
				"symbol", symbol,
				"quantity", quantity.String(),
				"price", price.String(),
				"strategy", s.Strategy)

		case signal.SignalSell:
			held := e.positions[symbol]
			if !held.IsPositive() {
				logger.Info("无持仓，跳过卖出", "symbol", symbol, "strategy", s.Strategy)
				continue
			}
			e.cash = e.cash.Add(held.Mul(price))
			e.positions[symbol] = decimal.Zero
			e.fills = append(e.fills, Fill{
				Symbol: symbol, Side: signal.SignalSell,
				Quantity: held, Price: price, Strategy: s.Strategy,
			})
			logger.Info("模拟卖出",
				"symbol", symbol,
				"quantity", held.String(),
				"price", price.String(),
				"strategy", s.Strategy)
		}
	}

	return nil
}

// latestPrice 取最近一根日线的收盘价作为成交价
func (e *PaperExecutor) latestPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	candles, err := e.provider.GetPriceData(ctx, symbol, timeframes.Timeframe1d, 1)
	if err != nil {
		return decimal.Zero, fmt.Errorf("get price data: %w", err)
	}
	if len(candles) == 0 {
		return decimal.Zero, ErrNoPriceData
	}
	return decimal.NewFromFloat(candles[len(candles)-1].Close), nil
}
