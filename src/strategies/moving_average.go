package strategies

import (
	"context"
	"fmt"

	"github.com/xpwu/go-log/log"

	"tradercat/src/market"
	"tradercat/src/signal"
)

// MovingAverageConfig 均线交叉策略参数，构造后不再变化
type MovingAverageConfig struct {
	EMAPeriod    int `json:"ema_period"`    // 短期EMA周期
	SMAPeriod    int `json:"sma_period"`    // 中期SMA周期
	RSIPeriod    int `json:"rsi_period"`    // RSI周期
	MACDFast     int `json:"macd_fast"`     // MACD快线周期
	MACDSlow     int `json:"macd_slow"`     // MACD慢线周期
	MACDSignal   int `json:"macd_signal"`   // MACD信号线周期
	VolumeWindow int `json:"volume_window"` // 均量窗口，用于识别放量
}

// DefaultMovingAverageConfig 默认参数
func DefaultMovingAverageConfig() MovingAverageConfig {
	return MovingAverageConfig{
		EMAPeriod:    10,
		SMAPeriod:    20,
		RSIPeriod:    14,
		MACDFast:     12,
		MACDSlow:     26,
		MACDSignal:   9,
		VolumeWindow: 5,
	}
}

// MovingAverage 均线交叉策略：EMA/SMA金叉死叉，叠加MACD交叉、RSI极值
// 与放量确认，四个条件同时满足才给出buy/sell（取交集而非多数票）。
// 诊断原因的收集与最终决策相互独立。
type MovingAverage struct {
	provider market.MarketDataProvider
	cfg      MovingAverageConfig
}

// NewMovingAverage 创建均线交叉策略
func NewMovingAverage(provider market.MarketDataProvider, cfg MovingAverageConfig) *MovingAverage {
	return &MovingAverage{provider: provider, cfg: cfg}
}

// Name 获取策略名称
func (s *MovingAverage) Name() string {
	return "Moving Average"
}

// minCandles 产生有效信号所需的最少K线数量
func (s *MovingAverage) minCandles() int {
	return maxInt(s.cfg.EMAPeriod, s.cfg.SMAPeriod, s.cfg.RSIPeriod, s.cfg.MACDSlow, s.cfg.VolumeWindow) + 2
}

// GenerateSignal 基于均线交叉、MACD、RSI与成交量分析生成交易信号
func (s *MovingAverage) GenerateSignal(ctx context.Context, symbol string, candles []market.Candle) *signal.SignalModel {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("MovingAverage")
	logger.Debug("开始生成信号", "symbol", symbol)

	if s.provider == nil {
		return signal.NewSignalModel(symbol, s.Name(), signal.SignalHold, "Data provider not set.", nil)
	}
	if len(candles) < s.minCandles() {
		return signal.NewSignalModel(symbol, s.Name(), signal.SignalHold, "Insufficient candles data", nil)
	}

	emaField := fmt.Sprintf("close_EMA_%d", s.cfg.EMAPeriod)
	smaField := fmt.Sprintf("close_SMA_%d", s.cfg.SMAPeriod)
	rsiField := fmt.Sprintf("close_RSI_%d", s.cfg.RSIPeriod)
	macdField := fmt.Sprintf("close_MACD_%d_%d_%d", s.cfg.MACDFast, s.cfg.MACDSlow, s.cfg.MACDSignal)
	macdSignalField := fmt.Sprintf("close_MACDs_%d_%d_%d", s.cfg.MACDFast, s.cfg.MACDSlow, s.cfg.MACDSignal)

	ema := fetchIndicator(ctx, s.provider, "ema", candles, market.Params{"length": float64(s.cfg.EMAPeriod)})
	sma := fetchIndicator(ctx, s.provider, "sma", candles, market.Params{"length": float64(s.cfg.SMAPeriod)})
	macd := fetchIndicator(ctx, s.provider, "macd", candles, market.Params{
		"fast":   float64(s.cfg.MACDFast),
		"slow":   float64(s.cfg.MACDSlow),
		"signal": float64(s.cfg.MACDSignal),
	})
	rsi := fetchIndicator(ctx, s.provider, "rsi", candles, market.Params{"length": float64(s.cfg.RSIPeriod)})
	volumes := market.Volumes(candles)

	// 均线交叉：只看最后两个点
	prevEMA, okPE := prevValue(ema, emaField)
	currEMA, okCE := lastValue(ema, emaField)
	prevSMA, okPS := prevValue(sma, smaField)
	currSMA, okCS := lastValue(sma, smaField)
	maDefined := okPE && okCE && okPS && okCS
	emaSMABullish := maDefined && prevEMA < prevSMA && currEMA > currSMA
	emaSMABearish := maDefined && prevEMA > prevSMA && currEMA < currSMA

	// MACD交叉
	prevMACD, okPM := prevValue(macd, macdField)
	currMACD, okCM := lastValue(macd, macdField)
	prevMACDSignal, okPMS := prevValue(macd, macdSignalField)
	currMACDSignal, okCMS := lastValue(macd, macdSignalField)
	macdDefined := okPM && okCM && okPMS && okCMS
	macdBullish := macdDefined && prevMACD <= prevMACDSignal && currMACD > currMACDSignal
	macdBearish := macdDefined && prevMACD >= prevMACDSignal && currMACD < currMACDSignal

	currRSI, rsiDefined := lastValue(rsi, rsiField)

	// 放量：当前成交量超过此前VolumeWindow期均量的1.2倍（均量不含当前期）
	volRise := false
	if len(volumes) >= s.cfg.VolumeWindow+1 {
		sum := 0.0
		for _, v := range volumes[len(volumes)-s.cfg.VolumeWindow-1 : len(volumes)-1] {
			sum += v
		}
		avgVol := sum / float64(s.cfg.VolumeWindow)
		volRise = volumes[len(volumes)-1] > 1.2*avgVol
	}

	var reasons []string
	if emaSMABullish {
		reasons = append(reasons, "EMA crosses above SMA (bullish)")
	}
	if macdBullish {
		reasons = append(reasons, "MACD bullish crossover")
	}
	if rsiDefined && currRSI > 50 {
		reasons = append(reasons, "RSI above 50")
	}
	if volRise {
		reasons = append(reasons, "Volume surge")
	}

	sig := signal.SignalHold
	switch {
	case emaSMABullish && macdBullish && rsiDefined && currRSI < 30 && volRise:
		sig = signal.SignalBuy
	case emaSMABearish && macdBearish && rsiDefined && currRSI > 70 && volRise:
		sig = signal.SignalSell
	}

	return signal.NewSignalModel(symbol, s.Name(), sig, joinReasons(reasons, "No Signal Detected"), nil)
}
