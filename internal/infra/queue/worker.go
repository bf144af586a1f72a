package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-outreach/internal/usecase"
)

// CallbackMessage is the broker form of an engine status report.
type CallbackMessage struct {
	Token  string `json:"token"`
	RowID  string `json:"rowId"`
	Status string `json:"status"`
}

type CallbackHandler interface {
	Execute(ctx context.Context, in usecase.CallbackInput) error
}

type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type outcome int

const (
	ack outcome = iota
	deadLetter
	requeue
)

// CallbackWorker feeds callback messages to the same use case as the HTTP
// callback endpoint.
type CallbackWorker struct {
	Channel Consumer
	Handler CallbackHandler
}

func NewCallbackWorker(ch Consumer, handler CallbackHandler) *CallbackWorker {
	return &CallbackWorker{Channel: ch, Handler: handler}
}

// Start consumes until ctx is cancelled or the delivery channel closes.
func (w *CallbackWorker) Start(ctx context.Context) error {
	msgs, err := w.Channel.Consume(CallbackQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	logrus.WithField("queue", CallbackQueue).Info("callback worker started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			w.settle(d, w.process(ctx, d.Body, d.Redelivered))
		}
	}
}

func (w *CallbackWorker) settle(d amqp.Delivery, o outcome) {
	var err error
	switch o {
	case ack:
		err = d.Ack(false)
	case requeue:
		err = d.Nack(false, true)
	default:
		err = d.Nack(false, false)
	}
	if err != nil {
		logrus.WithError(err).Warn("could not settle callback message")
	}
}

// process decides what happens to one message. Malformed reports go to the
// dead-letter queue; reports for unknown runs are dropped; storage failures
// get one redelivery before being dead-lettered.
func (w *CallbackWorker) process(ctx context.Context, body []byte, redelivered bool) outcome {
	var msg CallbackMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		logrus.WithError(err).Warn("malformed callback message")
		return deadLetter
	}

	err := w.Handler.Execute(ctx, usecase.CallbackInput{Token: msg.Token, RowID: msg.RowID, Status: msg.Status})
	if err == nil {
		return ack
	}

	log := logrus.WithError(err).WithField("row_id", msg.RowID)
	var domainErr *usecase.DomainError
	if errors.As(err, &domainErr) {
		if domainErr.Code == usecase.CodeNotFound {
			log.Info("callback for unknown run dropped")
			return ack
		}
		log.Warn("callback message rejected")
		return deadLetter
	}

	if redelivered {
		log.Error("callback failed twice, dead-lettering")
		return deadLetter
	}
	log.Warn("callback failed, requeueing")
	return requeue
}
