package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
)

var ErrUnsupportedMessage = errors.New("unsupported publish message type")

type Sender interface {
	Send(ctx context.Context, payload domain.PublishPayload) error
}

// Mailer 由 *mail.Client 实现
type Mailer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type DigestConfig struct {
	From       string
	Recipients []string
	Template   *template.Template
}

// Worker 处理消息队列中的发布任务。mailer 为 nil 时不发送摘要邮件
type Worker struct {
	sender Sender
	mailer Mailer
	digest DigestConfig
	logger *slog.Logger
}

func NewWorker(sender Sender, mailer Mailer, digest DigestConfig, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{sender: sender, mailer: mailer, digest: digest, logger: logger}
}

// Handle 处理一条消息。返回错误时消息应当被丢弃，不会重试
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var msg domain.PublishMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("发布任务反序列化失败: %w", err)
	}

	if msg.Type != domain.PublishMessageTeamsCard {
		return fmt.Errorf("%w: %s", ErrUnsupportedMessage, msg.Type)
	}
	if len(msg.Payload.Lines) == 0 {
		return errors.New("发布任务中没有任何排班")
	}

	if err := w.sender.Send(ctx, msg.Payload); err != nil {
		return fmt.Errorf("发送到 webhook 失败: %w", err)
	}
	w.logger.Info("已发送到 webhook", slog.String("session", msg.SessionID), slog.Int("lines", len(msg.Payload.Lines)))

	if w.mailer == nil || len(w.digest.Recipients) == 0 {
		return nil
	}

	digest, err := NewDigestMessage(w.digest.From, w.digest.Recipients, w.digest.Template, msg.Payload)
	if err != nil {
		return fmt.Errorf("无法生成摘要邮件: %w", err)
	}
	if err := w.mailer.DialAndSendWithContext(ctx, digest); err != nil {
		return fmt.Errorf("摘要邮件发送失败: %w", err)
	}
	w.logger.Info("已发送摘要邮件", slog.String("session", msg.SessionID), slog.Int("recipients", len(w.digest.Recipients)))

	return nil
}
