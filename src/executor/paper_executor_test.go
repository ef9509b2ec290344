package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradercat/src/market"
	"tradercat/src/signal"
	"tradercat/src/timeframes"
)

type stubPriceProvider struct {
	price      float64
	err        error
	priceCalls int
}

func (p *stubPriceProvider) GetPriceData(ctx context.Context, symbol string, interval timeframes.Timeframe, lookback int) ([]market.Candle, error) {
	p.priceCalls++
	if p.err != nil {
		return nil, p.err
	}
	return []market.Candle{{
		Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Open:      p.price, High: p.price, Low: p.price, Close: p.price,
		Volume: 1000,
	}}, nil
}

func (p *stubPriceProvider) GetIndicator(ctx context.Context, name string, candles []market.Candle, params market.Params) ([]market.IndicatorPoint, error) {
	return nil, nil
}

func TestPaperExecutor_BuyThenSell(t *testing.T) {
	provider := &stubPriceProvider{price: 100}
	e := NewPaperExecutor(provider, decimal.NewFromInt(1000))

	buy := []*signal.SignalModel{
		signal.NewSignalModel("BTCUSDT", "Divergence", signal.SignalBuy, "Bullish RSI divergence; Bullish MACD divergence", nil),
	}
	require.NoError(t, e.ExecuteTrade(context.Background(), buy, "BTCUSDT"))

	// 1000 * 0.2 = 200 名义金额，价格100 → 持仓2
	assert.True(t, e.Cash().Equal(decimal.NewFromInt(800)), "cash=%s", e.Cash())
	assert.True(t, e.Position("BTCUSDT").Equal(decimal.NewFromInt(2)), "position=%s", e.Position("BTCUSDT"))

	provider.price = 110
	sell := []*signal.SignalModel{
		signal.NewSignalModel("BTCUSDT", "Moving Average", signal.SignalSell, "RSI above 50", nil),
	}
	require.NoError(t, e.ExecuteTrade(context.Background(), sell, "BTCUSDT"))

	// 800 + 2*110 = 1020，持仓清零
	assert.True(t, e.Cash().Equal(decimal.NewFromInt(1020)), "cash=%s", e.Cash())
	assert.True(t, e.Position("BTCUSDT").IsZero())

	fills := e.Fills()
	require.Len(t, fills, 2)
	assert.Equal(t, signal.SignalBuy, fills[0].Side)
	assert.Equal(t, signal.SignalSell, fills[1].Side)
}

func TestPaperExecutor_HoldSkipsPriceFetch(t *testing.T) {
	provider := &stubPriceProvider{price: 100}
	e := NewPaperExecutor(provider, decimal.NewFromInt(1000))

	signals := []*signal.SignalModel{
		signal.NewSignalModel("BTCUSDT", "Divergence", signal.SignalHold, "No divergence detected", nil),
		nil,
	}
	require.NoError(t, e.ExecuteTrade(context.Background(), signals, "BTCUSDT"))

	assert.Equal(t, 0, provider.priceCalls)
	assert.Empty(t, e.Fills())
}

func TestPaperExecutor_SellWithoutPosition(t *testing.T) {
	provider := &stubPriceProvider{price: 100}
	e := NewPaperExecutor(provider, decimal.NewFromInt(1000))

	signals := []*signal.SignalModel{
		signal.NewSignalModel("ETHUSDT", "Bollinger Bands", signal.SignalSell, "Price above BB upper", nil),
	}
	require.NoError(t, e.ExecuteTrade(context.Background(), signals, "ETHUSDT"))

	assert.True(t, e.Cash().Equal(decimal.NewFromInt(1000)))
	assert.Empty(t, e.Fills())
}

func TestPaperExecutor_PriceError(t *testing.T) {
	provider := &stubPriceProvider{err: errors.New("network down")}
	e := NewPaperExecutor(provider, decimal.NewFromInt(1000))

	signals := []*signal.SignalModel{
		signal.NewSignalModel("BTCUSDT", "Divergence", signal.SignalBuy, "Bullish RSI divergence", nil),
	}
	err := e.ExecuteTrade(context.Background(), signals, "BTCUSDT")

	require.Error(t, err)
	assert.True(t, e.Cash().Equal(decimal.NewFromInt(1000)))
}

func TestLogExecutor_NeverFails(t *testing.T) {
	e := NewLogExecutor()

	signals := []*signal.SignalModel{
		signal.NewSignalModel("BTCUSDT", "Divergence", signal.SignalBuy, "Bullish RSI divergence", nil),
		nil,
		signal.NewSignalModel("BTCUSDT", "Moving Average", signal.SignalHold, "No Signal Detected", nil),
	}

	assert.NoError(t, e.ExecuteTrade(context.Background(), signals, "BTCUSDT"))
}
