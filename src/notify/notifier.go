package notify

import "context"

// Notifier 通知器：将文本摘要推送到某个外部渠道
type Notifier interface {
	// Name 渠道名称，用于日志定位
	Name() string
	// Send 发送一条消息
	Send(ctx context.Context, message string) error
}
