package strategies

import (
	"context"
	"fmt"
	"math"

	"github.com/xpwu/go-log/log"

	"tradercat/src/market"
	"tradercat/src/signal"
)

// HiddenDivergenceConfig 隐藏背离策略参数，构造后不再变化
type HiddenDivergenceConfig struct {
	EMAPeriod   int `json:"ema_period"`   // 趋势过滤EMA周期
	SwingWindow int `json:"swing_window"` // 摆动点探测窗口
	RSIPeriod   int `json:"rsi_period"`   // RSI周期
	MACDFast    int `json:"macd_fast"`    // MACD快线周期
	MACDSlow    int `json:"macd_slow"`    // MACD慢线周期
	MACDSignal  int `json:"macd_signal"`  // MACD信号线周期
	KDJFastK    int `json:"kdj_fast_k"`   // KDJ快速%K周期
	KDJSlowD    int `json:"kdj_slow_d"`   // KDJ慢速%D周期
	KDJSlowK    int `json:"kdj_slow_k"`   // KDJ慢速%K周期
}

// DefaultHiddenDivergenceConfig 默认参数
func DefaultHiddenDivergenceConfig() HiddenDivergenceConfig {
	return HiddenDivergenceConfig{
		EMAPeriod:   50,
		SwingWindow: 1,
		RSIPeriod:   14,
		MACDFast:    12,
		MACDSlow:    26,
		MACDSignal:  9,
		KDJFastK:    14,
		KDJSlowD:    3,
		KDJSlowK:    3,
	}
}

// HiddenDivergence 隐藏背离策略：以EMA划分趋势，在趋势方向上找最近的
// 摆动点，对比当前与摆动点处的价格、RSI、MACD和KDJ %J，价格延续趋势而
// 指标不确认时视为趋势延续信号。RSI/MACD/J三项中至少两项成立才触发。
// 无量能确认。
type HiddenDivergence struct {
	provider market.MarketDataProvider
	cfg      HiddenDivergenceConfig
}

// NewHiddenDivergence 创建隐藏背离策略
func NewHiddenDivergence(provider market.MarketDataProvider, cfg HiddenDivergenceConfig) *HiddenDivergence {
	return &HiddenDivergence{provider: provider, cfg: cfg}
}

// Name 获取策略名称
func (s *HiddenDivergence) Name() string {
	return "Hidden Divergence"
}

// calculateEMA 计算EMA序列：前period-1个值未定义（NaN），第period-1个值
// 为前period个价格的简单均值，之后按乘数 2/(period+1) 递推
func calculateEMA(prices []float64, period int) []float64 {
	ema := make([]float64, len(prices))
	multiplier := 2.0 / float64(period+1)
	for i := range prices {
		switch {
		case i < period-1:
			ema[i] = math.NaN()
		case i == period-1:
			sum := 0.0
			for _, p := range prices[:period] {
				sum += p
			}
			ema[i] = sum / float64(period)
		default:
			ema[i] = (prices[i]-ema[i-1])*multiplier + ema[i-1]
		}
	}
	return ema
}

// detectSwingPoints 探测摆动点：下标i（首尾各window根K线除外）的最高价
// 严格高于两侧window范围内所有K线的最高价时为摆动高点，低点对称
func detectSwingPoints(candles []market.Candle, window int) (swingHighs, swingLows []int) {
	for i := window; i < len(candles)-window; i++ {
		isHigh, isLow := true, true
		for j := 1; j <= window; j++ {
			if candles[i].High <= candles[i-j].High || candles[i].High <= candles[i+j].High {
				isHigh = false
			}
			if candles[i].Low >= candles[i-j].Low || candles[i].Low >= candles[i+j].Low {
				isLow = false
			}
		}
		if isHigh {
			swingHighs = append(swingHighs, i)
		}
		if isLow {
			swingLows = append(swingLows, i)
		}
	}
	return swingHighs, swingLows
}

// GenerateSignal 基于隐藏背离分析生成交易信号
func (s *HiddenDivergence) GenerateSignal(ctx context.Context, symbol string, candles []market.Candle) *signal.SignalModel {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("HiddenDivergence")
	logger.Debug("开始生成信号", "symbol", symbol)

	if len(candles) < maxInt(s.cfg.EMAPeriod, 3) {
		return signal.NewSignalModel(symbol, s.Name(), signal.SignalHold,
			"Insufficient candles data for swing point and trend analysis.", nil)
	}
	if s.provider == nil {
		return signal.NewSignalModel(symbol, s.Name(), signal.SignalHold, "Data provider not set.", nil)
	}

	rsiField := fmt.Sprintf("close_RSI_%d", s.cfg.RSIPeriod)
	macdField := fmt.Sprintf("close_MACD_%d_%d_%d", s.cfg.MACDFast, s.cfg.MACDSlow, s.cfg.MACDSignal)
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

	emaValues := calculateEMA(market.Closes(candles), s.cfg.EMAPeriod)
	currentPrice := candles[len(candles)-1].Close
	currentEMA := emaValues[len(emaValues)-1]

	// 趋势划分：收盘价在EMA上方为上升趋势，否则为下降趋势
	uptrend := currentPrice > currentEMA

	swingHighs, swingLows := detectSwingPoints(candles, s.cfg.SwingWindow)

	// 取趋势方向上最近的摆动点
	lastSwingIndex := -1
	if uptrend && len(swingLows) > 0 {
		lastSwingIndex = swingLows[len(swingLows)-1]
	} else if !uptrend && len(swingHighs) > 0 {
		lastSwingIndex = swingHighs[len(swingHighs)-1]
	}

	if lastSwingIndex < 0 || lastSwingIndex >= len(candles)-1 {
		return signal.NewSignalModel(symbol, s.Name(), signal.SignalHold,
			"No valid swing point for divergence comparison.", nil)
	}

	swingPrice := candles[lastSwingIndex].Close

	currentRSI, okCR := lastValue(rsi, rsiField)
	swingRSI, okSR := valueAt(rsi, lastSwingIndex, rsiField)
	rsiDefined := okCR && okSR

	currentMACD, okCM := lastValue(macd, macdField)
	swingMACD, okSM := valueAt(macd, lastSwingIndex, macdField)
	macdDefined := okCM && okSM

	// %J = 3K - 2D
	currentK, okCK := lastValue(kdj, "STOCHk_"+kdjSuffix)
	currentD, okCD := lastValue(kdj, "STOCHd_"+kdjSuffix)
	swingK, okSK := valueAt(kdj, lastSwingIndex, "STOCHk_"+kdjSuffix)
	swingD, okSD := valueAt(kdj, lastSwingIndex, "STOCHd_"+kdjSuffix)
	jDefined := okCK && okCD && okSK && okSD
	currentJ := 3*currentK - 2*currentD
	swingJ := 3*swingK - 2*swingD

	sig := signal.SignalHold
	var reasons []string

	if uptrend && currentPrice > swingPrice {
		// 隐藏看空背离：价格走高而指标走低
		if rsiDefined && currentRSI < swingRSI {
			reasons = append(reasons, "Hidden bearish divergence: Price higher, RSI lower.")
		}
		if macdDefined && currentMACD < swingMACD {
			reasons = append(reasons, "Hidden bearish divergence: Price higher, MACD lower.")
		}
		if jDefined && currentJ < swingJ {
			reasons = append(reasons, "Hidden bearish divergence: Price higher, KDJ J lower.")
		}
		if len(reasons) >= 2 {
			sig = signal.SignalSell
		}
	} else if !uptrend && currentPrice < swingPrice {
		// 隐藏看多背离：价格走低而指标走高
		if rsiDefined && currentRSI > swingRSI {
			reasons = append(reasons, "Hidden bullish divergence: Price lower, RSI higher.")
		}
		if macdDefined && currentMACD > swingMACD {
			reasons = append(reasons, "Hidden bullish divergence: Price lower, MACD higher.")
		}
		if jDefined && currentJ > swingJ {
			reasons = append(reasons, "Hidden bullish divergence: Price lower, KDJ J higher.")
		}
		if len(reasons) >= 2 {
			sig = signal.SignalBuy
		}
	}

	details := signal.Details{
		signal.D("current_rsi", nullableFloat(currentRSI, okCR)),
		signal.D("swing_rsi", nullableFloat(swingRSI, okSR)),
		signal.D("current_macd", nullableFloat(currentMACD, okCM)),
		signal.D("swing_macd", nullableFloat(swingMACD, okSM)),
		signal.D("current_kdj_j", nullableFloat(currentJ, okCK && okCD)),
		signal.D("swing_kdj_j", nullableFloat(swingJ, okSK && okSD)),
	}

	return signal.NewSignalModel(symbol, s.Name(), sig, joinReasons(reasons, "No Signal Detected"), details)
}
