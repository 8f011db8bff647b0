package publish

import (
	"strings"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
)

const (
	adaptiveCardContentType = "application/vnd.microsoft.card.adaptive"
	adaptiveCardSchema      = "http://adaptivecards.io/schemas/adaptive-card.json"
	adaptiveCardVersion     = "1.4"
)

// TeamsMessage 是 Teams incoming webhook 接受的消息格式
type TeamsMessage struct {
	Type        string            `json:"type"`
	Attachments []TeamsAttachment `json:"attachments"`
}

type TeamsAttachment struct {
	ContentType string       `json:"contentType"`
	Content     AdaptiveCard `json:"content"`
}

type AdaptiveCard struct {
	Type    string           `json:"type"`
	Schema  string           `json:"$schema"`
	Version string           `json:"version"`
	Body    []CardTextBlock  `json:"body"`
	Actions []CardOpenAction `json:"actions"`
}

type CardTextBlock struct {
	Type   string `json:"type"`
	Text   string `json:"text"`
	Weight string `json:"weight,omitempty"`
	Size   string `json:"size,omitempty"`
	Wrap   bool   `json:"wrap,omitempty"`
}

type CardOpenAction struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// BuildCard 生成包含标题、摘要和 ICS 下载按钮的 Adaptive Card
func BuildCard(payload domain.PublishPayload) TeamsMessage {
	return TeamsMessage{
		Type: "message",
		Attachments: []TeamsAttachment{{
			ContentType: adaptiveCardContentType,
			Content: AdaptiveCard{
				Type:    "AdaptiveCard",
				Schema:  adaptiveCardSchema,
				Version: adaptiveCardVersion,
				Body: []CardTextBlock{
					{Type: "TextBlock", Text: payload.Title, Weight: "Bolder", Size: "Large"},
					{Type: "TextBlock", Text: strings.Join(payload.Lines, "\n"), Wrap: true},
				},
				Actions: []CardOpenAction{
					{Type: "Action.OpenUrl", Title: "Download ICS", URL: payload.ICSURL},
				},
			},
		}},
	}
}
