package database

import (
	"context"

	"github.com/xpwu/go-log/log"

	"tradercat/src/market"
	"tradercat/src/timeframes"
)

// CandleManager K线缓存管理器：包装一个上游行情提供方，读取时优先
// 数据库，数据不足再走网络并回写。指标计算直接透传给上游。
// 本身实现MarketDataProvider，可以原位替换裸的网络提供方。
type CandleManager struct {
	db       *PostgresDB
	upstream market.MarketDataProvider
}

// NewCandleManager 创建K线缓存管理器
func NewCandleManager(db *PostgresDB, upstream market.MarketDataProvider) *CandleManager {
	return &CandleManager{db: db, upstream: upstream}
}

// GetPriceData 优先从数据库读取K线，不足时从上游补充并回写
func (m *CandleManager) GetPriceData(ctx context.Context, symbol string, interval timeframes.Timeframe, lookback int) ([]market.Candle, error) {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("CandleManager")

	records, err := m.db.GetCandles(ctx, symbol, interval.String(), lookback)
	if err != nil {
		logger.Error("从数据库获取K线失败", "symbol", symbol, "error", err)
		// 数据库失败时退回网络
		return m.fetchAndStore(ctx, symbol, interval, lookback)
	}

	if len(records) >= lookback {
		logger.Info("数据库数据充足", "symbol", symbol, "count", len(records))
		candles := make([]market.Candle, len(records))
		for i, r := range records {
			candles[i] = r.ToCandle()
		}
		return candles, nil
	}

	logger.Info("数据库数据不足，从上游补充",
		"symbol", symbol, "db_count", len(records), "required", lookback)

	candles, err := m.fetchAndStore(ctx, symbol, interval, lookback)
	if err != nil {
		// 网络也失败，尽力返回数据库里已有的
		if len(records) > 0 {
			logger.Error("上游补充失败，返回数据库已有数据", "symbol", symbol, "error", err)
			fallback := make([]market.Candle, len(records))
			for i, r := range records {
				fallback[i] = r.ToCandle()
			}
			return fallback, nil
		}
		return nil, err
	}
	return candles, nil
}

// GetIndicator 指标计算透传给上游
func (m *CandleManager) GetIndicator(ctx context.Context, name string, candles []market.Candle, params market.Params) ([]market.IndicatorPoint, error) {
	return m.upstream.GetIndicator(ctx, name, candles, params)
}

// fetchAndStore 从上游拉取K线并回写数据库，回写失败只记日志
func (m *CandleManager) fetchAndStore(ctx context.Context, symbol string, interval timeframes.Timeframe, lookback int) ([]market.Candle, error) {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("CandleManager")

	candles, err := m.upstream.GetPriceData(ctx, symbol, interval, lookback)
	if err != nil {
		return nil, err
	}

	records := make([]*CandleRecord, len(candles))
	for i, c := range candles {
		records[i] = RecordFromCandle(symbol, interval.String(), c)
	}
	if err := m.db.SaveCandles(ctx, records); err != nil {
		logger.Error("回写K线到数据库失败", "symbol", symbol, "error", err)
	} else if len(records) > 0 {
		logger.Info("回写K线到数据库", "symbol", symbol, "count", len(records))
	}

	return candles, nil
}
