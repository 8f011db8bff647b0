package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
)

var samplePayload = domain.PublishPayload{
	WebhookURL: "https://example.webhook.office.com/hook",
	Title:      "Weekly Installation Schedule",
	Lines: []string{
		"Rooftop Solar – Acme Installers (2024-03-04)",
		"EV Charger – BrightBuild (2024-03-04)",
	},
	ICSURL: "http://localhost:8000/export/ics",
}

func TestBuildCard(t *testing.T) {
	msg := BuildCard(samplePayload)

	require.Len(t, msg.Attachments, 1)
	card := msg.Attachments[0].Content
	assert.Equal(t, "message", msg.Type)
	assert.Equal(t, adaptiveCardContentType, msg.Attachments[0].ContentType)
	require.Len(t, card.Body, 2)
	assert.Equal(t, "Weekly Installation Schedule", card.Body[0].Text)
	assert.Equal(t, "Rooftop Solar – Acme Installers (2024-03-04)\nEV Charger – BrightBuild (2024-03-04)", card.Body[1].Text)
	require.Len(t, card.Actions, 1)
	assert.Equal(t, "Download ICS", card.Actions[0].Title)
	assert.Equal(t, samplePayload.ICSURL, card.Actions[0].URL)

	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"$schema":"http://adaptivecards.io/schemas/adaptive-card.json"`)
}

type fakeTeamsGateway struct {
	got domain.PublishPayload
	err error
}

func (f *fakeTeamsGateway) PublishToTeams(_ context.Context, payload domain.PublishPayload) error {
	f.got = payload
	return f.err
}

func TestGatewayPublisher(t *testing.T) {
	gw := &fakeTeamsGateway{}
	p := NewGatewayPublisher(gw)

	require.NoError(t, p.Publish(context.Background(), "sess-1", samplePayload))
	assert.Equal(t, samplePayload, gw.got)
	assert.Equal(t, "gateway", p.Mode())

	gw.err = errors.New("down")
	assert.Error(t, p.Publish(context.Background(), "sess-1", samplePayload))
}

type fakeChannel struct {
	key string
	msg amqp.Publishing
	err error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	f.key = key
	f.msg = msg
	return f.err
}

func TestQueuePublisher(t *testing.T) {
	ch := &fakeChannel{}
	p := NewQueuePublisher(ch, "publish_queue")

	require.NoError(t, p.Publish(context.Background(), "sess-1", samplePayload))

	assert.Equal(t, "publish_queue", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	var msg domain.PublishMessage
	require.NoError(t, json.Unmarshal(ch.msg.Body, &msg))
	assert.Equal(t, domain.PublishMessageTeamsCard, msg.Type)
	assert.Equal(t, "sess-1", msg.SessionID)
	assert.Equal(t, samplePayload, msg.Payload)
}

func TestQueuePublisher_ChannelError(t *testing.T) {
	p := NewQueuePublisher(&fakeChannel{err: amqp.ErrClosed}, "publish_queue")

	err := p.Publish(context.Background(), "sess-1", samplePayload)

	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func TestWebhookSender(t *testing.T) {
	var got TeamsMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	payload := samplePayload
	payload.WebhookURL = srv.URL
	err := NewWebhookSender(time.Second).Send(context.Background(), payload)

	require.NoError(t, err)
	require.Len(t, got.Attachments, 1)
	assert.Equal(t, payload.Title, got.Attachments[0].Content.Body[0].Text)
}

func TestWebhookSender_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	payload := samplePayload
	payload.WebhookURL = srv.URL
	err := NewWebhookSender(time.Second).Send(context.Background(), payload)

	assert.ErrorContains(t, err, "400")
}

type fakeSender struct {
	calls int
	err   error
}

func (f *fakeSender) Send(context.Context, domain.PublishPayload) error {
	f.calls++
	return f.err
}

type fakeMailer struct {
	sent []*mail.Msg
}

func (f *fakeMailer) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	f.sent = append(f.sent, messages...)
	return nil
}

var digestTemplate = template.Must(template.New("digest").Parse(
	`<h1>{{.Title}}</h1><ul>{{range .Lines}}<li>{{.}}</li>{{end}}</ul><a href="{{.ICSURL}}">ICS</a>`))

func encodeMessage(t *testing.T, msg domain.PublishMessage) []byte {
	t.Helper()
	body, err := json.Marshal(msg)
	require.NoError(t, err)
	return body
}

func TestWorker_SendsCardAndDigest(t *testing.T) {
	sender := &fakeSender{}
	mailer := &fakeMailer{}
	w := NewWorker(sender, mailer, DigestConfig{
		From:       "planner@example.com",
		Recipients: []string{"ops@example.com"},
		Template:   digestTemplate,
	}, nil)

	err := w.Handle(context.Background(), encodeMessage(t, domain.PublishMessage{
		Type: domain.PublishMessageTeamsCard, SessionID: "sess-1", Payload: samplePayload,
	}))

	require.NoError(t, err)
	assert.Equal(t, 1, sender.calls)
	require.Len(t, mailer.sent, 1)

	var buf bytes.Buffer
	_, err = mailer.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Weekly Installation Schedule")
}

func TestWorker_WithoutMailer(t *testing.T) {
	sender := &fakeSender{}
	w := NewWorker(sender, nil, DigestConfig{}, nil)

	err := w.Handle(context.Background(), encodeMessage(t, domain.PublishMessage{
		Type: domain.PublishMessageTeamsCard, Payload: samplePayload,
	}))

	require.NoError(t, err)
	assert.Equal(t, 1, sender.calls)
}

func TestWorker_RejectsBadMessages(t *testing.T) {
	sender := &fakeSender{}
	w := NewWorker(sender, nil, DigestConfig{}, nil)

	assert.Error(t, w.Handle(context.Background(), []byte("{")))

	err := w.Handle(context.Background(), encodeMessage(t, domain.PublishMessage{Type: "sms", Payload: samplePayload}))
	assert.ErrorIs(t, err, ErrUnsupportedMessage)

	empty := samplePayload
	empty.Lines = nil
	assert.Error(t, w.Handle(context.Background(), encodeMessage(t, domain.PublishMessage{
		Type: domain.PublishMessageTeamsCard, Payload: empty,
	})))

	assert.Zero(t, sender.calls)
}

func TestWorker_SenderFailureSkipsDigest(t *testing.T) {
	sender := &fakeSender{err: errors.New("webhook down")}
	mailer := &fakeMailer{}
	w := NewWorker(sender, mailer, DigestConfig{From: "planner@example.com", Recipients: []string{"ops@example.com"}, Template: digestTemplate}, nil)

	err := w.Handle(context.Background(), encodeMessage(t, domain.PublishMessage{
		Type: domain.PublishMessageTeamsCard, Payload: samplePayload,
	}))

	assert.ErrorContains(t, err, "webhook down")
	assert.Empty(t, mailer.sent)
}
