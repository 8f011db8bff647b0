package domain

import "time"

type PublishPayload struct {
	WebhookURL string   `json:"webhook_url"`
	Title      string   `json:"title"`
	Lines      []string `json:"lines"`
	ICSURL     string   `json:"ics_url"`
}

const (
	PublishMessageTeamsCard = "teams_card"
)

// PublishMessage 是投递到消息队列中的发布任务
type PublishMessage struct {
	Type      string         `json:"type"`
	SessionID string         `json:"sessionID"`
	Payload   PublishPayload `json:"payload"`
}

type PublishRecord struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"sessionID"`
	WebhookHost string    `json:"webhookHost"`
	Title       string    `json:"title"`
	LineCount   int       `json:"lineCount"`
	Mode        string    `json:"mode"`
	CreatedAt   time.Time `json:"createdAt"`
}
