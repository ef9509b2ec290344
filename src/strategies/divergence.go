package strategies

import (
	"context"
	"fmt"

	"github.com/xpwu/go-log/log"

	"tradercat/src/market"
	"tradercat/src/signal"
)

// DivergenceConfig 背离策略参数，构造后不再变化
type DivergenceConfig struct {
	RSIPeriod        int     `json:"rsi_period"`        // RSI周期
	MACDFast         int     `json:"macd_fast"`         // MACD快线周期
	MACDSlow         int     `json:"macd_slow"`         // MACD慢线周期
	MACDSignal       int     `json:"macd_signal"`       // MACD信号线周期
	KDJFastK         int     `json:"kdj_fast_k"`        // KDJ快速%K周期
	KDJSlowD         int     `json:"kdj_slow_d"`        // KDJ慢速%D周期
	KDJSlowK         int     `json:"kdj_slow_k"`        // KDJ慢速%K周期
	VolumeMultiplier float64 `json:"volume_multiplier"` // 看多分支的量能确认倍数
}

// DefaultDivergenceConfig 默认参数
func DefaultDivergenceConfig() DivergenceConfig {
	return DivergenceConfig{
		RSIPeriod:        14,
		MACDFast:         12,
		MACDSlow:         26,
		MACDSignal:       9,
		KDJFastK:         14,
		KDJSlowD:         3,
		KDJSlowK:         3,
		VolumeMultiplier: 1.2,
	}
}

// Divergence 背离策略：价格创短期新低/新高而指标不确认时视为反转线索。
// 看多分支在RSI、MACD、KDJ三个独立测试中命中至少两个、且当前成交量不低于
// 上一期的VolumeMultiplier倍时给出buy；看空分支对称但没有量能确认，
// 这一不对称来自参考实现，属有意保留。
type Divergence struct {
	provider market.MarketDataProvider
	cfg      DivergenceConfig
}

// NewDivergence 创建背离策略
func NewDivergence(provider market.MarketDataProvider, cfg DivergenceConfig) *Divergence {
	return &Divergence{provider: provider, cfg: cfg}
}

// Name 获取策略名称
func (s *Divergence) Name() string {
	return "Divergence"
}

// GenerateSignal 基于价格与RSI、MACD、KDJ的背离生成交易信号
func (s *Divergence) GenerateSignal(ctx context.Context, symbol string, candles []market.Candle) *signal.SignalModel {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("Divergence")
	logger.Debug("开始生成信号", "symbol", symbol)

	if len(candles) < 3 {
		return signal.NewSignalModel(symbol, s.Name(), signal.SignalHold,
			"Insufficient data for divergence analysis", nil)
	}
	if s.provider == nil {
		return signal.NewSignalModel(symbol, s.Name(), signal.SignalHold, "Data provider not set", nil)
	}

	rsiField := fmt.Sprintf("close_RSI_%d", s.cfg.RSIPeriod)
	macdSuffix := fmt.Sprintf("%d_%d_%d", s.cfg.MACDFast, s.cfg.MACDSlow, s.cfg.MACDSignal)
	kdjSuffix := fmt.Sprintf("%d_%d_%d", s.cfg.KDJFastK, s.cfg.KDJSlowD, s.cfg.KDJSlowK)

	rsi := fetchIndicator(ctx, s.provider, "rsi", candles, market.Params{"length": float64(s.cfg.RSIPeriod)})
	macd := fetchIndicator(ctx, s.provider, "macd", candles, market.Params{
		"fast":   float64(s.cfg.MACDFast),
		"slow":   float64(s.cfg.MACDSlow),
		"signal": float64(s.cfg.MACDSignal),
	})
	kdj := fetchIndicator(ctx, s.provider, "stoch", candles, market.Params{
		"fast_k_period": float64(s.cfg.KDJFastK),
		"slow_d_period": float64(s.cfg.KDJSlowD),
		"slow_k_period": float64(s.cfg.KDJSlowK),
	})

	previousClose := candles[len(candles)-2].Close
	currentClose := candles[len(candles)-1].Close
	previousVolume := candles[len(candles)-2].Volume
	currentVolume := candles[len(candles)-1].Volume

	previousRSI, okPR := prevValue(rsi, rsiField)
	currentRSI, okCR := lastValue(rsi, rsiField)
	rsiDefined := okPR && okCR

	previousMACD, okPM := prevValue(macd, "close_MACD_"+macdSuffix)
	currentMACD, okCM := lastValue(macd, "close_MACD_"+macdSuffix)
	previousMACDSignal, okPMS := prevValue(macd, "close_MACDs_"+macdSuffix)
	currentMACDSignal, okCMS := lastValue(macd, "close_MACDs_"+macdSuffix)
	macdDefined := okPM && okCM && okPMS && okCMS

	previousKDJK, okPK := prevValue(kdj, "STOCHk_"+kdjSuffix)
	previousKDJD, okPD := prevValue(kdj, "STOCHd_"+kdjSuffix)
	currentKDJK, okCK := lastValue(kdj, "STOCHk_"+kdjSuffix)
	currentKDJD, okCD := lastValue(kdj, "STOCHd_"+kdjSuffix)
	kdjDefined := okPK && okPD && okCK && okCD

	sig := signal.SignalHold
	var reasons []string

	// 看多量能确认：当前成交量不低于上一期的VolumeMultiplier倍
	volumeConfirmed := currentVolume >= s.cfg.VolumeMultiplier*previousVolume

	if currentClose < previousClose {
		// 看多背离：三个独立测试
		if rsiDefined && currentRSI > previousRSI && currentRSI < 30 {
			reasons = append(reasons, "Bullish RSI divergence")
		}
		if macdDefined && previousMACD <= previousMACDSignal && currentMACD > currentMACDSignal && currentMACD < 0 {
			reasons = append(reasons, "Bullish MACD divergence")
		}
		if kdjDefined && previousKDJK < previousKDJD && currentKDJK > currentKDJD && currentKDJK < 20 {
			reasons = append(reasons, "Bullish KDJ divergence")
		}
		if len(reasons) >= 2 && volumeConfirmed {
			sig = signal.SignalBuy
		}
	} else if currentClose > previousClose {
		// 看空背离：无量能确认（参考实现的不对称，保留）
		if rsiDefined && currentRSI < previousRSI && currentRSI > 70 {
			reasons = append(reasons, "Bearish RSI divergence")
		}
		if macdDefined && previousMACD >= previousMACDSignal && currentMACD < currentMACDSignal && currentMACD > 0 {
			reasons = append(reasons, "Bearish MACD divergence")
		}
		if kdjDefined && previousKDJK > previousKDJD && currentKDJK < currentKDJD && currentKDJK > 80 {
			reasons = append(reasons, "Bearish KDJ divergence")
		}
		if len(reasons) >= 2 {
			sig = signal.SignalSell
		}
	}

	details := signal.Details{
		signal.D("previous_close", previousClose),
		signal.D("current_close", currentClose),
		signal.D("current_rsi", nullableFloat(currentRSI, okCR)),
		signal.D("current_macd", nullableFloat(currentMACD, okCM)),
		signal.D("current_kdj_k", nullableFloat(currentKDJK, okCK)),
		signal.D("previous_volume", previousVolume),
		signal.D("current_volume", currentVolume),
		signal.D("volume_confirmed", volumeConfirmed),
	}

	return signal.NewSignalModel(symbol, s.Name(), sig, joinReasons(reasons, "No divergence detected"), details)
}
