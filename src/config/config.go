package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xpwu/go-config/configs"

	"tradercat/src/database"
	"tradercat/src/timeframes"
)

// Config 主配置结构
type Config struct {
	Binance    BinanceConfig           `conf:"binance,币安行情配置"`
	Bot        BotConfig               `conf:"bot,信号引擎配置"`
	Strategies StrategiesConfig        `conf:"strategies,策略参数配置"`
	Notify     NotifyConfig            `conf:"notify,通知渠道配置"`
	Database   database.DatabaseConfig `conf:"database,K线缓存数据库配置"`
	Symbols    []string                `conf:"symbols,默认标的列表"`
}

// BinanceConfig 币安API配置
type BinanceConfig struct {
	APIKey    string `conf:"api_key,API密钥"`
	SecretKey string `conf:"secret_key,API私钥"`
	BaseURL   string `conf:"base_url,API地址"`
}

// BotConfig 信号引擎配置
type BotConfig struct {
	Timeframe      string `conf:"timeframe,K线周期 - 默认1d"`
	Lookback       int    `conf:"lookback,K线窗口长度 - 默认30"`
	SymbolDelay    int    `conf:"symbol_delay,相邻标的间隔(秒) - 默认5"`
	FetchTimeout   int    `conf:"fetch_timeout,行情拉取超时(秒) - 默认30"`
	ScheduleHour   int    `conf:"schedule_hour,定时运行小时(0-23) - 默认16"`
	ScheduleMinute int    `conf:"schedule_minute,定时运行分钟(0-59) - 默认0"`
	Executor       string `conf:"executor,执行器 - log=只记日志,paper=纸面记账"`
	InitialCash    float64 `conf:"initial_cash,纸面执行器初始资金"`
}

// StrategiesConfig 策略参数配置
type StrategiesConfig struct {
	MovingAverage    MovingAverageParams `conf:"moving_average,均线交叉策略参数"`
	BollingerBands   BollingerParams     `conf:"bollinger_bands,布林带共振策略参数"`
	DivergenceVolume float64             `conf:"divergence_volume,背离策略量能确认倍数 - 默认1.2"`
	HiddenEMAPeriod  int                 `conf:"hidden_ema_period,隐藏背离趋势EMA周期 - 默认50"`
	HiddenSwing      int                 `conf:"hidden_swing,隐藏背离摆动窗口 - 默认1"`
}

// MovingAverageParams 均线交叉策略参数
type MovingAverageParams struct {
	EMAPeriod int `conf:"ema_period,快线EMA周期 - 默认10"`
	SMAPeriod int `conf:"sma_period,慢线SMA周期 - 默认20"`
}

// BollingerParams 布林带共振策略参数
type BollingerParams struct {
	Period int     `conf:"period,布林带周期 - 默认20"`
	Std    float64 `conf:"std,标准差倍数 - 默认2.0"`
}

// NotifyConfig 通知渠道配置
type NotifyConfig struct {
	Discord  DiscordConfig  `conf:"discord,Discord webhook配置"`
	Telegram TelegramConfig `conf:"telegram,Telegram Bot配置"`
	Stdout   bool           `conf:"stdout,摘要同时打印到标准输出"`
}

// DiscordConfig Discord webhook配置
type DiscordConfig struct {
	Enable     bool   `conf:"enable,启用Discord通知"`
	WebhookURL string `conf:"webhook_url,webhook地址"`
}

// TelegramConfig Telegram Bot配置
type TelegramConfig struct {
	Enable bool   `conf:"enable,启用Telegram通知"`
	Token  string `conf:"token,Bot令牌"`
	ChatID int64  `conf:"chat_id,会话ID"`
}

// AppConfig 全局配置实例
var AppConfig = &Config{
	Binance: BinanceConfig{
		APIKey:    "",
		SecretKey: "",
		BaseURL:   "https://api.binance.com",
	},
	Bot: BotConfig{
		Timeframe:      "1d",
		Lookback:       30,
		SymbolDelay:    5,
		FetchTimeout:   30,
		ScheduleHour:   16,
		ScheduleMinute: 0,
		Executor:       "log",
		InitialCash:    10000.0,
	},
	Strategies: StrategiesConfig{
		MovingAverage: MovingAverageParams{
			EMAPeriod: 10,
			SMAPeriod: 20,
		},
		BollingerBands: BollingerParams{
			Period: 20,
			Std:    2.0,
		},
		DivergenceVolume: 1.2,
		HiddenEMAPeriod:  50,
		HiddenSwing:      1,
	},
	Notify: NotifyConfig{
		Stdout: true,
	},
	Symbols: []string{"BTCUSDT", "ETHUSDT"},
}

func init() {
	configs.Unmarshal(AppConfig)
}

// Validate 验证配置
func (c *Config) Validate() error {
	if _, err := timeframes.ParseTimeframe(c.Bot.Timeframe); err != nil {
		return fmt.Errorf("invalid timeframe: %w", err)
	}

	if c.Bot.Lookback <= 0 {
		return fmt.Errorf("lookback must be positive")
	}
	if c.Bot.SymbolDelay < 0 {
		return fmt.Errorf("symbol delay cannot be negative")
	}
	if c.Bot.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}
	if c.Bot.ScheduleHour < 0 || c.Bot.ScheduleHour > 23 {
		return fmt.Errorf("schedule hour must be between 0 and 23")
	}
	if c.Bot.ScheduleMinute < 0 || c.Bot.ScheduleMinute > 59 {
		return fmt.Errorf("schedule minute must be between 0 and 59")
	}

	switch c.Bot.Executor {
	case "log", "paper":
	default:
		return fmt.Errorf("invalid executor: %s", c.Bot.Executor)
	}

	if c.Bot.Executor == "paper" && c.Bot.InitialCash <= 0 {
		return fmt.Errorf("initial cash must be positive for paper executor")
	}

	if c.Notify.Discord.Enable && c.Notify.Discord.WebhookURL == "" {
		return fmt.Errorf("discord webhook url cannot be empty when enabled")
	}
	if c.Notify.Telegram.Enable && c.Notify.Telegram.Token == "" {
		return fmt.Errorf("telegram token cannot be empty when enabled")
	}

	return nil
}

// GetTimeframe 获取K线周期
func (c *Config) GetTimeframe() (timeframes.Timeframe, error) {
	return timeframes.ParseTimeframe(c.Bot.Timeframe)
}

// GetSymbolDelay 获取相邻标的间隔
func (c *Config) GetSymbolDelay() time.Duration {
	return time.Duration(c.Bot.SymbolDelay) * time.Second
}

// GetFetchTimeout 获取行情拉取超时
func (c *Config) GetFetchTimeout() time.Duration {
	return time.Duration(c.Bot.FetchTimeout) * time.Second
}

// GetInitialCash 获取纸面执行器初始资金
func (c *Config) GetInitialCash() decimal.Decimal {
	return decimal.NewFromFloat(c.Bot.InitialCash)
}
