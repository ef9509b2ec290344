package binance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"
	"github.com/xpwu/go-log/log"

	"tradercat/src/indicators"
	"tradercat/src/market"
	"tradercat/src/timeframes"
)

// Provider 币安行情提供方：K线来自币安REST接口，指标在本地计算
type Provider struct {
	client    *binance.Client
	apiKey    string
	secretKey string
}

// NewProvider 创建币安行情提供方，baseURL为空时使用官方默认地址
func NewProvider(apiKey, secretKey, baseURL string) *Provider {
	client := binance.NewClient(apiKey, secretKey)
	if baseURL != "" {
		client.BaseURL = baseURL
	}

	return &Provider{
		client:    client,
		apiKey:    apiKey,
		secretKey: secretKey,
	}
}

// GetPriceData 获取最近lookback根K线，按时间升序返回
func (p *Provider) GetPriceData(ctx context.Context, symbol string, interval timeframes.Timeframe, lookback int) ([]market.Candle, error) {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("BinanceProvider")

	if !interval.IsValid() {
		return nil, fmt.Errorf("invalid interval: %s", interval)
	}
	if lookback <= 0 {
		return nil, fmt.Errorf("invalid lookback: %d", lookback)
	}

	klines, err := p.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval.GetBinanceInterval()).
		Limit(lookback).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get klines: %w", err)
	}

	candles := make([]market.Candle, 0, len(klines))
	for _, kline := range klines {
		candle, err := parseKline(kline)
		if err != nil {
			logger.Error("解析K线失败", "symbol", symbol, "open_time", kline.OpenTime, "error", err)
			continue
		}
		candles = append(candles, candle)
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})

	logger.Debug("K线拉取完成", "symbol", symbol, "count", len(candles))
	return candles, nil
}

// GetIndicator 在本地指标引擎上计算指标序列
func (p *Provider) GetIndicator(ctx context.Context, name string, candles []market.Candle, params market.Params) ([]market.IndicatorPoint, error) {
	return indicators.Compute(name, candles, params)
}

// Ping 测试与币安的连通性
func (p *Provider) Ping(ctx context.Context) error {
	return p.client.NewPingService().Do(ctx)
}

// GetServerTime 获取币安服务器时间（毫秒）
func (p *Provider) GetServerTime(ctx context.Context) (int64, error) {
	serverTime, err := p.client.NewServerTimeService().Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get server time: %w", err)
	}
	return serverTime, nil
}

// parseKline 把币安K线解析为本地K线，价格经decimal中转避免精度抖动
func parseKline(kline *binance.Kline) (market.Candle, error) {
	open, err := decimal.NewFromString(kline.Open)
	if err != nil {
		return market.Candle{}, fmt.Errorf("parse open: %w", err)
	}
	high, err := decimal.NewFromString(kline.High)
	if err != nil {
		return market.Candle{}, fmt.Errorf("parse high: %w", err)
	}
	low, err := decimal.NewFromString(kline.Low)
	if err != nil {
		return market.Candle{}, fmt.Errorf("parse low: %w", err)
	}
	closePrice, err := decimal.NewFromString(kline.Close)
	if err != nil {
		return market.Candle{}, fmt.Errorf("parse close: %w", err)
	}
	volume, err := decimal.NewFromString(kline.Volume)
	if err != nil {
		return market.Candle{}, fmt.Errorf("parse volume: %w", err)
	}

	return market.Candle{
		Timestamp: time.UnixMilli(kline.OpenTime).UTC(),
		Open:      open.InexactFloat64(),
		High:      high.InexactFloat64(),
		Low:       low.InexactFloat64(),
		Close:     closePrice.InexactFloat64(),
		Volume:    volume.InexactFloat64(),
	}, nil
}
