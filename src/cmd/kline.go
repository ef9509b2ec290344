package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/xpwu/go-cmd/arg"
	"github.com/xpwu/go-cmd/cmd"

	"tradercat/src/binance"
	"tradercat/src/config"
	"tradercat/src/timeframes"
)

// RegisterKlineCmd 注册K线数据测试命令
func RegisterKlineCmd() {
	var symbol string
	var interval string
	var limit int
	var verbose bool

	cmd.RegisterCmd("kline", "test Kline data fetching from Binance API", func(args *arg.Arg) {
		args.String(&symbol, "s", "trading symbol (default: BTCUSDT)")
		args.String(&interval, "i", "kline interval (default: 1d)")
		args.Int(&limit, "l", "number of klines (default: 30, max: 1000)")
		args.Bool(&verbose, "v", "verbose output with per-candle details")
		args.Parse()

		if symbol == "" {
			symbol = "BTCUSDT"
		}
		if interval == "" {
			interval = "1d"
		}
		if limit <= 0 {
			limit = 30
		}
		if limit > 1000 {
			limit = 1000
		}

		if err := runKlineTest(symbol, interval, limit, verbose); err != nil {
			fmt.Printf("❌ K线数据测试失败: %v\n", err)
			return
		}
	})
}

// runKlineTest 执行K线数据测试
func runKlineTest(symbol, interval string, limit int, verbose bool) error {
	fmt.Printf("📊 K线数据获取测试\n")
	fmt.Printf("================================\n")
	fmt.Printf("🔸 交易对: %s\n", symbol)
	fmt.Printf("🔸 时间周期: %s\n", interval)
	fmt.Printf("🔸 数据条数: %d\n", limit)
	fmt.Printf("🔸 数据源: %s\n", config.AppConfig.Binance.BaseURL)
	fmt.Println()

	timeframe, err := timeframes.ParseTimeframe(interval)
	if err != nil {
		return err
	}

	// K线数据获取无需API密钥
	provider := binance.NewProvider("", "", config.AppConfig.Binance.BaseURL)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Print("🔄 正在获取K线数据...")
	startTime := time.Now()

	candles, err := provider.GetPriceData(ctx, symbol, timeframe, limit)
	if err != nil {
		fmt.Printf("\n❌ 获取失败: %v\n", err)
		return err
	}

	fmt.Printf(" 完成! (耗时: %v)\n", time.Since(startTime))
	fmt.Printf("✅ 获取到 %d 根K线\n", len(candles))

	if len(candles) > 0 {
		last := candles[len(candles)-1]
		fmt.Printf("🕐 最新K线: %s, 收盘价: %.8f, 成交量: %.4f\n",
			last.Timestamp.Format("2006-01-02 15:04"), last.Close, last.Volume)
	}

	if verbose {
		fmt.Println()
		for _, c := range candles {
			fmt.Printf("  %s  O:%.8f H:%.8f L:%.8f C:%.8f V:%.4f\n",
				c.Timestamp.Format("2006-01-02 15:04"),
				c.Open, c.High, c.Low, c.Close, c.Volume)
		}
	}

	return nil
}
