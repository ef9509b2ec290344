package strategies

import (
	"context"
	"fmt"
	"strconv"

	"github.com/xpwu/go-log/log"

	"tradercat/src/market"
	"tradercat/src/signal"
)

// BollingerBandsConfig 布林带共振策略参数，构造后不再变化
type BollingerBandsConfig struct {
	BBPeriod     int     `json:"bb_period"`     // 布林带周期
	BBStd        float64 `json:"bb_std"`        // 布林带标准差倍数
	RSIPeriod    int     `json:"rsi_period"`    // RSI周期
	MACDFast     int     `json:"macd_fast"`     // MACD快线周期
	MACDSlow     int     `json:"macd_slow"`     // MACD慢线周期
	MACDSignal   int     `json:"macd_signal"`   // MACD信号线周期
	KDJFastK     int     `json:"kdj_fast_k"`    // KDJ快速%K周期
	KDJSlowD     int     `json:"kdj_slow_d"`    // KDJ慢速%D周期
	KDJSlowK     int     `json:"kdj_slow_k"`    // KDJ慢速%K周期
	VolumeWindow int     `json:"volume_window"` // 均量窗口
}

// DefaultBollingerBandsConfig 默认参数
func DefaultBollingerBandsConfig() BollingerBandsConfig {
	return BollingerBandsConfig{
		BBPeriod:     20,
		BBStd:        2,
		RSIPeriod:    14,
		MACDFast:     12,
		MACDSlow:     26,
		MACDSignal:   9,
		KDJFastK:     14,
		KDJSlowD:     3,
		KDJSlowK:     3,
		VolumeWindow: 5,
	}
}

// BollingerBands 布林带共振策略：收盘价突破布林带、RSI极值、MACD与KDJ
// 双交叉、放量五个条件全部成立才触发buy/sell；部分满足只记录原因，
// 信号保持hold，以降低震荡市中的误报。
type BollingerBands struct {
	provider market.MarketDataProvider
	cfg      BollingerBandsConfig
}

// NewBollingerBands 创建布林带共振策略
func NewBollingerBands(provider market.MarketDataProvider, cfg BollingerBandsConfig) *BollingerBands {
	return &BollingerBands{provider: provider, cfg: cfg}
}

// Name 获取策略名称
func (s *BollingerBands) Name() string {
	return "Bollinger Bands"
}

// minCandles 产生有效信号所需的最少K线数量
func (s *BollingerBands) minCandles() int {
	return maxInt(s.cfg.BBPeriod, s.cfg.RSIPeriod, s.cfg.MACDSlow, s.cfg.KDJFastK, s.cfg.VolumeWindow) + 2
}

// GenerateSignal 基于布林带、RSI、MACD、KDJ与成交量分析生成交易信号
func (s *BollingerBands) GenerateSignal(ctx context.Context, symbol string, candles []market.Candle) *signal.SignalModel {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("BollingerBands")
	logger.Debug("开始生成信号", "symbol", symbol)

	if len(candles) < s.minCandles() {
		return signal.NewSignalModel(symbol, s.Name(), signal.SignalHold, "Insufficient candles data", nil)
	}
	if s.provider == nil {
		return signal.NewSignalModel(symbol, s.Name(), signal.SignalHold, "Data provider not set", nil)
	}

	bbSuffix := fmt.Sprintf("%d_%s", s.cfg.BBPeriod, strconv.FormatFloat(s.cfg.BBStd, 'f', 1, 64))
	rsiField := fmt.Sprintf("close_RSI_%d", s.cfg.RSIPeriod)
	macdSuffix := fmt.Sprintf("%d_%d_%d", s.cfg.MACDFast, s.cfg.MACDSlow, s.cfg.MACDSignal)
	kdjSuffix := fmt.Sprintf("%d_%d_%d", s.cfg.KDJFastK, s.cfg.KDJSlowD, s.cfg.KDJSlowK)

	bb := fetchIndicator(ctx, s.provider, "bbands", candles, market.Params{
		"length": float64(s.cfg.BBPeriod),
		"std":    s.cfg.BBStd,
	})
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

	currentClose := candles[len(candles)-1].Close
	currentVolume := candles[len(candles)-1].Volume

	currentRSI, rsiOK := lastValue(rsi, rsiField)

	previousMACD, okPM := prevValue(macd, "close_MACD_"+macdSuffix)
	currentMACD, okCM := lastValue(macd, "close_MACD_"+macdSuffix)
	previousMACDSignal, okPMS := prevValue(macd, "close_MACDs_"+macdSuffix)
	currentMACDSignal, okCMS := lastValue(macd, "close_MACDs_"+macdSuffix)

	previousKDJK, okPK := prevValue(kdj, "STOCHk_"+kdjSuffix)
	previousKDJD, okPD := prevValue(kdj, "STOCHd_"+kdjSuffix)
	currentKDJK, okCK := lastValue(kdj, "STOCHk_"+kdjSuffix)
	currentKDJD, okCD := lastValue(kdj, "STOCHd_"+kdjSuffix)

	bbUpper, bbUpperOK := lastValue(bb, "close_BBU_"+bbSuffix)
	bbLower, bbLowerOK := lastValue(bb, "close_BBL_"+bbSuffix)

	// MACD交叉
	macdDefined := okPM && okPMS && okCM && okCMS
	macdBullishCross := macdDefined && previousMACD <= previousMACDSignal && currentMACD > currentMACDSignal
	macdBearishCross := macdDefined && previousMACD >= previousMACDSignal && currentMACD < currentMACDSignal

	// KDJ交叉（K与D）
	kdjDefined := okPK && okPD && okCK && okCD
	kdjBullishCross := kdjDefined && previousKDJK <= previousKDJD && currentKDJK > currentKDJD
	kdjBearishCross := kdjDefined && previousKDJK >= previousKDJD && currentKDJK < currentKDJD

	// 放量：当前成交量超过此前VolumeWindow期均量的1.2倍
	avgVol := 0.0
	avgVolOK := false
	if len(candles) > s.cfg.VolumeWindow {
		sum := 0.0
		for _, c := range candles[len(candles)-s.cfg.VolumeWindow-1 : len(candles)-1] {
			sum += c.Volume
		}
		avgVol = sum / float64(s.cfg.VolumeWindow)
		avgVolOK = true
	}
	volSpike := avgVolOK && avgVol > 0 && currentVolume > 1.2*avgVol

	sig := signal.SignalHold
	var reasons []string

	switch {
	case bbLowerOK && currentClose < bbLower &&
		rsiOK && currentRSI < 30 &&
		macdBullishCross && kdjBullishCross && volSpike:
		sig = signal.SignalBuy
		reasons = append(reasons, "Price below BB lower, RSI oversold, MACD/KDJ bullish cross, volume spike")

	case bbUpperOK && currentClose > bbUpper &&
		rsiOK && currentRSI > 70 &&
		macdBearishCross && kdjBearishCross && volSpike:
		sig = signal.SignalSell
		reasons = append(reasons, "Price above BB upper, RSI overbought, MACD/KDJ bearish cross, volume spike")

	default:
		if bbLowerOK && currentClose < bbLower {
			reasons = append(reasons, "Price below BB lower")
		}
		if bbUpperOK && currentClose > bbUpper {
			reasons = append(reasons, "Price above BB upper")
		}
		if rsiOK && currentRSI < 30 {
			reasons = append(reasons, "RSI oversold")
		}
		if rsiOK && currentRSI > 70 {
			reasons = append(reasons, "RSI overbought")
		}
		if macdBullishCross {
			reasons = append(reasons, "MACD bullish cross")
		}
		if macdBearishCross {
			reasons = append(reasons, "MACD bearish cross")
		}
		if kdjBullishCross {
			reasons = append(reasons, "KDJ bullish cross")
		}
		if kdjBearishCross {
			reasons = append(reasons, "KDJ bearish cross")
		}
		if volSpike {
			reasons = append(reasons, "Volume spike")
		}
		if len(reasons) == 0 {
			reasons = append(reasons, "No strong signal")
		}
	}

	details := signal.Details{
		signal.D("bb", nullable(lastPoint(bb))),
		signal.D("rsi", nullableFloat(currentRSI, rsiOK)),
		signal.D("macd", nullableFloat(currentMACD, okCM)),
		signal.D("macd_signal", nullableFloat(currentMACDSignal, okCMS)),
		signal.D("kdj_k", nullableFloat(currentKDJK, okCK)),
		signal.D("kdj_d", nullableFloat(currentKDJD, okCD)),
		signal.D("volume", currentVolume),
		signal.D("avg_volume", nullableFloat(avgVol, avgVolOK)),
		signal.D("reasons", reasons),
	}

	return signal.NewSignalModel(symbol, s.Name(), sig, joinReasons(reasons, "No Signal Detected"), details)
}
