package notify

import (
	"context"
	"fmt"
	"io"
	"os"
)

// StdoutNotifier 标准输出通知器，主要用于本地调试
type StdoutNotifier struct {
	out io.Writer
}

// NewStdoutNotifier 创建标准输出通知器
func NewStdoutNotifier() *StdoutNotifier {
	return &StdoutNotifier{out: os.Stdout}
}

// Name 渠道名称
func (n *StdoutNotifier) Name() string {
	return "stdout"
}

// Send 打印消息
func (n *StdoutNotifier) Send(ctx context.Context, message string) error {
	_, err := fmt.Fprintln(n.out, message)
	return err
}
