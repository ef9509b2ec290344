package cmd

import (
	"fmt"

	"tradercat/src/binance"
	"tradercat/src/bot"
	"tradercat/src/config"
	"tradercat/src/database"
	"tradercat/src/executor"
	"tradercat/src/market"
	"tradercat/src/notify"
	"tradercat/src/strategies"
	"tradercat/src/strategy"
)

// buildRunner 按配置装配一套完整的运行时：行情提供方（可选K线缓存）、
// 策略组、执行器、通知渠道。返回的cleanup负责释放数据库连接。
func buildRunner(cfg *config.Config) (*bot.Runner, func(), error) {
	cleanup := func() {}

	var provider market.MarketDataProvider = binance.NewProvider(
		cfg.Binance.APIKey, cfg.Binance.SecretKey, cfg.Binance.BaseURL)

	if cfg.Database.Enable {
		db, err := database.NewPostgresDB(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		provider = database.NewCandleManager(db, provider)
		cleanup = func() { db.Close() }
	}

	strategyList := buildStrategies(cfg, provider)

	exec, err := buildExecutor(cfg, provider)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	notifiers, err := buildNotifiers(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	timeframe, err := cfg.GetTimeframe()
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	b := bot.NewBot(provider, strategyList, strategy.NewIdentityAggregator(), exec)
	b.SetInterval(timeframe)
	b.SetLookback(cfg.Bot.Lookback)
	b.SetFetchTimeout(cfg.GetFetchTimeout())

	runner := bot.NewRunner(b, notifiers)
	runner.SetDelay(cfg.GetSymbolDelay())

	return runner, cleanup, nil
}

// buildStrategies 按固定顺序装配策略：背离、隐藏背离、均线交叉、布林带
func buildStrategies(cfg *config.Config, provider market.MarketDataProvider) []strategy.Strategy {
	divergenceCfg := strategies.DefaultDivergenceConfig()
	if cfg.Strategies.DivergenceVolume > 0 {
		divergenceCfg.VolumeMultiplier = cfg.Strategies.DivergenceVolume
	}

	hiddenCfg := strategies.DefaultHiddenDivergenceConfig()
	if cfg.Strategies.HiddenEMAPeriod > 0 {
		hiddenCfg.EMAPeriod = cfg.Strategies.HiddenEMAPeriod
	}
	if cfg.Strategies.HiddenSwing > 0 {
		hiddenCfg.SwingWindow = cfg.Strategies.HiddenSwing
	}

	maCfg := strategies.DefaultMovingAverageConfig()
	if cfg.Strategies.MovingAverage.EMAPeriod > 0 {
		maCfg.EMAPeriod = cfg.Strategies.MovingAverage.EMAPeriod
	}
	if cfg.Strategies.MovingAverage.SMAPeriod > 0 {
		maCfg.SMAPeriod = cfg.Strategies.MovingAverage.SMAPeriod
	}

	bbCfg := strategies.DefaultBollingerBandsConfig()
	if cfg.Strategies.BollingerBands.Period > 0 {
		bbCfg.BBPeriod = cfg.Strategies.BollingerBands.Period
	}
	if cfg.Strategies.BollingerBands.Std > 0 {
		bbCfg.BBStd = cfg.Strategies.BollingerBands.Std
	}

	return []strategy.Strategy{
		strategies.NewDivergence(provider, divergenceCfg),
		strategies.NewHiddenDivergence(provider, hiddenCfg),
		strategies.NewMovingAverage(provider, maCfg),
		strategies.NewBollingerBands(provider, bbCfg),
	}
}

// buildExecutor 按配置选择执行器
func buildExecutor(cfg *config.Config, provider market.MarketDataProvider) (executor.Executor, error) {
	switch cfg.Bot.Executor {
	case "paper":
		return executor.NewPaperExecutor(provider, cfg.GetInitialCash()), nil
	case "log", "":
		return executor.NewLogExecutor(), nil
	default:
		return nil, fmt.Errorf("unsupported executor: %s", cfg.Bot.Executor)
	}
}

// buildNotifiers 按配置装配通知渠道
func buildNotifiers(cfg *config.Config) ([]notify.Notifier, error) {
	var notifiers []notify.Notifier

	if cfg.Notify.Discord.Enable {
		notifiers = append(notifiers, notify.NewDiscordNotifier(cfg.Notify.Discord.WebhookURL))
	}
	if cfg.Notify.Telegram.Enable {
		tg, err := notify.NewTelegramNotifier(cfg.Notify.Telegram.Token, cfg.Notify.Telegram.ChatID)
		if err != nil {
			return nil, fmt.Errorf("init telegram notifier: %w", err)
		}
		notifiers = append(notifiers, tg)
	}
	if cfg.Notify.Stdout {
		notifiers = append(notifiers, notify.NewStdoutNotifier())
	}

	return notifiers, nil
}
