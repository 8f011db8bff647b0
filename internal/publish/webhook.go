package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
)

type WebhookSender struct {
	http *http.Client
}

func NewWebhookSender(timeout time.Duration) *WebhookSender {
	return &WebhookSender{http: &http.Client{Timeout: timeout}}
}

// Send 把 payload 转换成 Adaptive Card 并发送到 payload.WebhookURL
func (s *WebhookSender) Send(ctx context.Context, payload domain.PublishPayload) error {
	body, err := json.Marshal(BuildCard(payload))
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, payload.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("无效的 webhook 地址: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook 返回了状态码 %d", resp.StatusCode)
	}

	return nil
}
