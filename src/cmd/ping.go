package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/xpwu/go-cmd/arg"
	"github.com/xpwu/go-cmd/cmd"

	"tradercat/src/binance"
	"tradercat/src/config"
)

// RegisterPingCmd 注册ping测试命令
func RegisterPingCmd() {
	var verbose bool
	var timeout int

	cmd.RegisterCmd("ping", "test connectivity to Binance API server", func(args *arg.Arg) {
		args.Bool(&verbose, "v", "verbose output with detailed information")
		args.Int(&timeout, "t", "timeout in seconds (default: 10)")
		args.Parse()

		if timeout <= 0 {
			timeout = 10
		}

		if err := runPingTest(verbose, timeout); err != nil {
			fmt.Printf("❌ Ping test failed: %v\n", err)
			return
		}
		fmt.Println("✅ Ping test successful!")
	})
}

// runPingTest 执行ping测试
func runPingTest(verbose bool, timeoutSeconds int) error {
	if verbose {
		fmt.Println("🌐 币安API连通性测试")
		fmt.Println("================================")
		fmt.Printf("📡 目标服务器: %s\n", config.AppConfig.Binance.BaseURL)
		fmt.Printf("⏰ 超时时间: %d秒\n", timeoutSeconds)
		fmt.Println()
	}

	// ping测试不需要API密钥
	provider := binance.NewProvider("", "", config.AppConfig.Binance.BaseURL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSeconds)*time.Second)
	defer cancel()

	if verbose {
		fmt.Print("🔄 正在测试连接...")
	}

	startTime := time.Now()
	err := provider.Ping(ctx)
	latency := time.Since(startTime)

	if err != nil {
		if verbose {
			fmt.Printf("\n❌ 连接失败: %v\n", err)
			fmt.Printf("⏱️ 测试耗时: %v\n", latency)
		}
		return err
	}

	if verbose {
		fmt.Printf(" 完成!\n")
		fmt.Printf("✅ 服务器响应正常\n")
		fmt.Printf("⏱️ 响应延迟: %v\n", latency)
		fmt.Println()

		fmt.Print("🕐 获取服务器时间...")
		serverTime, timeErr := provider.GetServerTime(ctx)
		if timeErr == nil {
			serverAt := time.UnixMilli(serverTime).UTC()
			fmt.Printf(" %v\n", serverAt.Format("2006-01-02 15:04:05 MST"))

			timeDiff := time.Since(serverAt)
			if timeDiff < 0 {
				timeDiff = -timeDiff
			}
			fmt.Printf("⏰ 本地时间差: %v", timeDiff.Round(time.Second))
			if timeDiff > time.Minute {
				fmt.Printf(" ⚠️ 时间差较大，可能影响API调用")
			}
			fmt.Println()
		} else {
			fmt.Printf(" 失败: %v\n", timeErr)
		}
	}

	return nil
}
