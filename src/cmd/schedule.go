package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xpwu/go-cmd/arg"
	"github.com/xpwu/go-cmd/cmd"
	"github.com/xpwu/go-log/log"

	"tradercat/src/config"
)

// RegisterScheduleCmd 注册定时运行命令：每天在配置的时刻跑一轮
func RegisterScheduleCmd() {
	var symbolsArg string
	var fileArg string
	var hour int
	var minute int

	cmd.RegisterCmd("schedule", "run the evaluation pass daily at a fixed time", func(args *arg.Arg) {
		hour, minute = -1, -1
		args.String(&symbolsArg, "s", "comma separated symbols, e.g. 'BTCUSDT,ETHUSDT'")
		args.String(&fileArg, "f", "path to a text file with one symbol per line")
		args.Int(&hour, "H", "hour of day 0-23 (default: from config)")
		args.Int(&minute, "M", "minute 0-59 (default: from config)")
		args.Parse()

		cfg := config.AppConfig
		if hour < 0 || hour > 23 {
			hour = cfg.Bot.ScheduleHour
		}
		if minute < 0 || minute > 59 {
			minute = cfg.Bot.ScheduleMinute
		}

		if err := runSchedule(symbolsArg, fileArg, hour, minute); err != nil {
			fmt.Printf("❌ 定时运行退出: %v\n", err)
		}
	})
}

// runSchedule 定时循环：计算下一次触发时刻，睡到点执行，直到收到退出信号
func runSchedule(symbolsArg, fileArg string, hour, minute int) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("Schedule")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	fmt.Printf("⏰ 定时任务已启动，每天 %02d:%02d 运行\n", hour, minute)

	for {
		next := nextRunTime(time.Now(), hour, minute)
		logger.Info("等待下一次运行", "next", next.Format("2006-01-02 15:04:05"))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-sigCh:
			timer.Stop()
			logger.Info("收到退出信号，停止定时任务")
			return nil
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if err := runOnce(symbolsArg, fileArg); err != nil {
			// 单轮失败不终止定时循环
			logger.Error("本轮运行失败", "error", err)
		}
	}
}

// nextRunTime 计算now之后最近的hh:mm触发时刻
func nextRunTime(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
