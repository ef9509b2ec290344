package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/xpwu/go-log/log"

	"tradercat/src/notify"
	"tradercat/src/signal"
)

// DefaultSymbolDelay 相邻标的之间的默认间隔，限制行情提供方的请求频率
const DefaultSymbolDelay = 5 * time.Second

// SymbolSignals 一个标的在一轮运行中产生的全部信号
type SymbolSignals struct {
	Symbol  string
	Signals []*signal.SignalModel
}

// Runner 多标的调度器：严格串行遍历标的，单标的失败只记日志不中断，
// 全部跑完后组装一份日报摘要并发给所有通知渠道
type Runner struct {
	bot       *Bot
	notifiers []notify.Notifier
	delay     time.Duration

	now func() time.Time // 测试时可注入
}

// NewRunner 创建调度器
func NewRunner(b *Bot, notifiers []notify.Notifier) *Runner {
	return &Runner{
		bot:       b,
		notifiers: notifiers,
		delay:     DefaultSymbolDelay,
		now:       time.Now,
	}
}

// SetDelay 设置相邻标的之间的间隔
func (r *Runner) SetDelay(delay time.Duration) {
	r.delay = delay
}

// Run 对标的列表执行一轮完整评估并发送摘要，返回收集到的信号分组
func (r *Runner) Run(ctx context.Context, symbols []string) ([]SymbolSignals, error) {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("Runner")

	logger.Info("开始本轮运行", "symbols", len(symbols))

	collected := make([]SymbolSignals, 0, len(symbols))
	for _, symbol := range symbols {
		signals, err := r.bot.Run(ctx, symbol)
		if err != nil {
			// 单标的失败不影响其余标的
			logger.Error("标的评估失败", "symbol", symbol, "error", err)
		} else {
			collected = append(collected, SymbolSignals{Symbol: symbol, Signals: signals})
		}

		if err := r.sleep(ctx); err != nil {
			return collected, err
		}
	}

	logger.Info("本轮评估完成", "collected", len(collected))

	if len(collected) == 0 {
		logger.Info("无信号产出，跳过通知")
		return collected, nil
	}

	digest := r.ComposeDigest(collected)
	r.dispatch(ctx, digest)

	return collected, nil
}

// ComposeDigest 组装日报摘要：日期抬头加上每条信号一行
func (r *Runner) ComposeDigest(collected []SymbolSignals) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("** :money_with_wings: Daily [%s] Trade Signals Summary: **\n",
		r.now().Format("2006-01-02")))

	for _, entry := range collected {
		for _, s := range entry.Signals {
			if s == nil {
				continue
			}
			sb.WriteString(fmt.Sprintf("* *Symbol: %s, Strategy: %s, Signal: %s, Reason: %s*\n",
				entry.Symbol, s.Strategy, s.Signal, s.Reason))
		}
	}
	return sb.String()
}

// dispatch 并发发送到全部通知渠道，单渠道失败只记日志
func (r *Runner) dispatch(ctx context.Context, digest string) {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("Runner")

	var wg sync.WaitGroup
	for _, n := range r.notifiers {
		wg.Add(1)
		go func(n notify.Notifier) {
			defer wg.Done()
			if err := n.Send(ctx, digest); err != nil {
				logger.Error("通知发送失败", "channel", n.Name(), "error", err)
			}
		}(n)
	}
	wg.Wait()
}

// sleep 标的间限速等待，上下文取消时立即返回
func (r *Runner) sleep(ctx context.Context) error {
	if r.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(r.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
