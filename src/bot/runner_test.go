package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradercat/src/notify"
	"tradercat/src/signal"
	"tradercat/src/strategy"
)

type stubNotifier struct {
	mu       sync.Mutex
	name     string
	err      error
	messages []string
}

func (n *stubNotifier) Name() string { return n.name }

func (n *stubNotifier) Send(ctx context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.messages = append(n.messages, message)
	return nil
}

func (n *stubNotifier) received() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.messages))
	copy(out, n.messages)
	return out
}

func newTestRunner(provider *stubProvider, notifiers ...notify.Notifier) *Runner {
	s := &stubStrategy{name: "Divergence", sig: signal.SignalBuy}
	b := NewBot(provider, []strategy.Strategy{s}, nil, nil)
	r := NewRunner(b, notifiers)
	r.SetDelay(0)
	r.now = func() time.Time {
		return time.Date(2024, 3, 15, 16, 0, 0, 0, time.UTC)
	}
	return r
}

func TestRunner_FailedSymbolIsIsolated(t *testing.T) {
	provider := &stubProvider{
		candles: testCandles(30),
		errFor:  map[string]error{"MSFT": errors.New("provider down")},
	}
	notifier := &stubNotifier{name: "stub"}
	r := newTestRunner(provider, notifier)

	collected, err := r.Run(context.Background(), []string{"AAPL", "MSFT", "GOOG"})

	require.NoError(t, err)
	require.Len(t, collected, 2)
	assert.Equal(t, "AAPL", collected[0].Symbol)
	assert.Equal(t, "GOOG", collected[1].Symbol)
	assert.Equal(t, 3, provider.priceCalls)

	messages := notifier.received()
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "Symbol: AAPL")
	assert.Contains(t, messages[0], "Symbol: GOOG")
	assert.NotContains(t, messages[0], "MSFT")
}

func TestRunner_AllSymbolsFailSkipsNotification(t *testing.T) {
	provider := &stubProvider{
		errFor: map[string]error{
			"AAPL": errors.New("down"),
			"MSFT": errors.New("down"),
			"GOOG": errors.New("down"),
		},
	}
	notifier := &stubNotifier{name: "stub"}
	r := newTestRunner(provider, notifier)

	collected, err := r.Run(context.Background(), []string{"AAPL", "MSFT", "GOOG"})

	require.NoError(t, err)
	assert.Empty(t, collected)
	assert.Empty(t, notifier.received())
}

func TestRunner_DigestFormat(t *testing.T) {
	provider := &stubProvider{candles: testCandles(30)}
	notifier := &stubNotifier{name: "stub"}
	r := newTestRunner(provider, notifier)

	_, err := r.Run(context.Background(), []string{"AAPL"})
	require.NoError(t, err)

	messages := notifier.received()
	require.Len(t, messages, 1)
	assert.Equal(t,
		"** :money_with_wings: Daily [2024-03-15] Trade Signals Summary: **\n"+
			"* *Symbol: AAPL, Strategy: Divergence, Signal: buy, Reason: stub reason*\n",
		messages[0])
}

func TestRunner_NotifierFailureIsolated(t *testing.T) {
	provider := &stubProvider{candles: testCandles(30)}
	failing := &stubNotifier{name: "discord", err: errors.New("webhook 500")}
	healthy := &stubNotifier{name: "telegram"}
	r := newTestRunner(provider, failing, healthy)

	_, err := r.Run(context.Background(), []string{"AAPL"})

	require.NoError(t, err)
	assert.Len(t, healthy.received(), 1)
}

func TestRunner_ContextCancelStopsRun(t *testing.T) {
	provider := &stubProvider{candles: testCandles(30)}
	notifier := &stubNotifier{name: "stub"}
	r := newTestRunner(provider, notifier)
	r.SetDelay(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	collected, err := r.Run(ctx, []string{"AAPL", "MSFT"})

	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, collected, 1)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestRunner_DigestIncludesEverySignalLine(t *testing.T) {
	provider := &stubProvider{candles: testCandles(30)}

	buy := &stubStrategy{name: "Divergence", sig: signal.SignalBuy}
	hold := &stubStrategy{name: "Bollinger Bands", sig: signal.SignalHold}
	b := NewBot(provider, []strategy.Strategy{buy, hold}, nil, nil)

	notifier := &stubNotifier{name: "stub"}
	r := NewRunner(b, []notify.Notifier{notifier})
	r.SetDelay(0)
	r.now = func() time.Time { return time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC) }

	_, err := r.Run(context.Background(), []string{"AAPL"})
	require.NoError(t, err)

	messages := notifier.received()
	require.Len(t, messages, 1)
	// hold信号也进入摘要，与逐行契约一致
	assert.Equal(t, 3, strings.Count(messages[0], "\n"))
	assert.Contains(t, messages[0], "Signal: hold")
}
