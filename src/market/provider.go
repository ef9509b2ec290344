package market

import (
	"context"

	"tradercat/src/timeframes"
)

// MarketDataProvider 行情数据提供方接口
//
// GetPriceData 返回按时间升序排列的K线序列；
// GetIndicator 基于同一窗口的K线计算命名指标序列，返回结果与输入K线
// 按下标对齐。指标名取值 rsi / macd / stoch / ema / sma / bbands 等，
// params 携带指标的数值参数（length、fast/slow/signal、
// fast_k_period/slow_d_period/slow_k_period 等）。
type MarketDataProvider interface {
	// GetPriceData 获取指定标的的K线数据
	GetPriceData(ctx context.Context, symbol string, interval timeframes.Timeframe, lookback int) ([]Candle, error)

	// GetIndicator 基于K线窗口计算指标序列
	GetIndicator(ctx context.Context, name string, candles []Candle, params Params) ([]IndicatorPoint, error)
}
