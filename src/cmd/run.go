package cmd

import (
	"context"
	"fmt"

	"github.com/xpwu/go-cmd/arg"
	"github.com/xpwu/go-cmd/cmd"

	"tradercat/src/config"
	"tradercat/src/signal"
)

// RegisterRunCmd 注册单轮运行命令
func RegisterRunCmd() {
	var symbolsArg string
	var fileArg string

	cmd.RegisterCmd("run", "run one evaluation pass over the symbol universe", func(args *arg.Arg) {
		args.String(&symbolsArg, "s", "comma separated symbols, e.g. 'BTCUSDT,ETHUSDT'")
		args.String(&fileArg, "f", "path to a text file with one symbol per line")
		args.Parse()

		if err := runOnce(symbolsArg, fileArg); err != nil {
			fmt.Printf("❌ 运行失败: %v\n", err)
			return
		}
		fmt.Println("✅ 本轮运行完成")
	})
}

// runOnce 执行一轮完整评估
func runOnce(symbolsArg, fileArg string) error {
	cfg := config.AppConfig

	symbols, err := resolveSymbols(symbolsArg, fileArg, cfg.Symbols)
	if err != nil {
		return err
	}
	fmt.Printf("🚀 开始评估 %d 个标的\n", len(symbols))

	runner, cleanup, err := buildRunner(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	collected, err := runner.Run(context.Background(), symbols)
	if err != nil {
		return err
	}

	total := 0
	actionable := 0
	for _, entry := range collected {
		for _, s := range entry.Signals {
			if s == nil {
				continue
			}
			total++
			if s.Signal != signal.SignalHold {
				actionable++
			}
		}
	}
	fmt.Printf("📊 评估完成: 标的 %d/%d, 信号 %d 条, 其中可执行 %d 条\n",
		len(collected), len(symbols), total, actionable)

	return nil
}
