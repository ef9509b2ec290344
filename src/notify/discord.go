package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xpwu/go-log/log"
)

// ErrWebhookNotConfigured webhook地址为空
var ErrWebhookNotConfigured = errors.New("discord webhook url not configured")

// DiscordNotifier Discord通知器：向webhook地址POST一条JSON消息
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordNotifier 创建Discord通知器
func NewDiscordNotifier(webhookURL string) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Name 渠道名称
func (n *DiscordNotifier) Name() string {
	return "discord"
}

// Send 发送消息到webhook，非2xx视为失败
func (n *DiscordNotifier) Send(ctx context.Context, message string) error {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("DiscordNotifier")

	if n.webhookURL == "" {
		return ErrWebhookNotConfigured
	}

	payload, err := json.Marshal(map[string]string{"content": message})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, string(body))
	}

	logger.Info("Discord通知已发送", "bytes", len(message))
	return nil
}
