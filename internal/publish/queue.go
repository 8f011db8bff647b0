package publish

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
)

// Channel 是 *amqp.Channel 中发送消息的部分
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// QueuePublisher 将发布任务投递到 RabbitMQ，由 cmd/publisher 消费
type QueuePublisher struct {
	ch    Channel
	queue string
}

func NewQueuePublisher(ch Channel, queue string) *QueuePublisher {
	return &QueuePublisher{ch: ch, queue: queue}
}

func (p *QueuePublisher) Publish(ctx context.Context, sessionID string, payload domain.PublishPayload) error {
	body, err := json.Marshal(domain.PublishMessage{
		Type:      domain.PublishMessageTeamsCard,
		SessionID: sessionID,
		Payload:   payload,
	})
	if err != nil {
		return err
	}

	if err := p.ch.PublishWithContext(
		ctx,
		"",
		p.queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("投递发布任务失败: %w", err)
	}

	return nil
}

func (p *QueuePublisher) Mode() string {
	return "queue"
}
