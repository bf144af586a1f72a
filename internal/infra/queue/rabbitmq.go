package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName  = "ex.outreach"
	DispatchQueue = "q.outreach.dispatch"
	DispatchKey   = "k.dispatch"
	CallbackQueue = "q.outreach.callbacks"
	CallbackKey   = "k.callback"
	DLXName       = "ex.outreach.dlx"
	DLQName       = "q.outreach.dlq"
)

type RabbitMQ struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := setupTopology(ch); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare topology: %w", err)
	}

	return &RabbitMQ{Conn: conn, Ch: ch}, nil
}

// setupTopology declares the work queues and the dead-letter pair that
// receives whatever they reject.
func setupTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(DLXName, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(DLQName, true, false, false, false, nil); err != nil {
		return err
	}
	for _, key := range []string{DispatchKey, CallbackKey} {
		if err := ch.QueueBind(DLQName, key, DLXName, false, nil); err != nil {
			return err
		}
	}

	if err := ch.ExchangeDeclare(ExchangeName, "direct", true, false, false, false, nil); err != nil {
		return err
	}

	queues := []struct{ name, key string }{
		{DispatchQueue, DispatchKey},
		{CallbackQueue, CallbackKey},
	}
	for _, q := range queues {
		args := amqp.Table{
			"x-dead-letter-exchange":    DLXName,
			"x-dead-letter-routing-key": q.key,
		}
		if _, err := ch.QueueDeclare(q.name, true, false, false, false, args); err != nil {
			return err
		}
		if err := ch.QueueBind(q.name, q.key, ExchangeName, false, nil); err != nil {
			return err
		}
	}
	return nil
}

// Healthy reports whether the connection is still open.
func (r *RabbitMQ) Healthy() bool {
	return r != nil && r.Conn != nil && !r.Conn.IsClosed()
}

func (r *RabbitMQ) Close() error {
	if r.Ch != nil {
		r.Ch.Close()
	}
	return r.Conn.Close()
}
