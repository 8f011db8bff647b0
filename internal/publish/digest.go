package publish

import (
	"html/template"

	"github.com/wneessen/go-mail"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
)

type digestData struct {
	Title  string
	Lines  []string
	ICSURL string
}

// NewDigestMessage 生成发布摘要邮件
func NewDigestMessage(from string, to []string, tmpl *template.Template, payload domain.PublishPayload) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, err
	}
	if err := msg.To(to...); err != nil {
		return nil, err
	}
	msg.Subject(payload.Title)

	data := digestData{
		Title:  payload.Title,
		Lines:  payload.Lines,
		ICSURL: payload.ICSURL,
	}
	if err := msg.SetBodyHTMLTemplate(tmpl, data); err != nil {
		return nil, err
	}

	return msg, nil
}
