package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xpwu/go-log/log"
)

// TelegramNotifier Telegram通知器：通过Bot API向固定会话发送消息
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier 创建Telegram通知器
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// Name 渠道名称
func (n *TelegramNotifier) Name() string {
	return "telegram"
}

// Send 发送消息到配置的会话
func (n *TelegramNotifier) Send(ctx context.Context, message string) error {
	_, logger := log.WithCtx(ctx)
	logger.PushPrefix("TelegramNotifier")

	msg := tgbotapi.NewMessage(n.chatID, message)
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	logger.Info("Telegram通知已发送", "chat_id", n.chatID)
	return nil
}
