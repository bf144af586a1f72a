package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/lead-outreach/internal/infra/integration/n8n"
)

// Publisher is the part of *amqp.Channel the producer needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitMQProducer hands jobs to the workflow engine through the broker
// instead of its webhook.
type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) Dispatch(ctx context.Context, job n8n.JobPayload) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		DispatchKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    job.JobID,
			Type:         job.Action,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish job %s: %w", job.JobID, err)
	}
	return nil
}
