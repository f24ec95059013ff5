package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/mini-maxit/solver-bench/internal/logger"
	"github.com/mini-maxit/solver-bench/internal/rabbitmq/channel"
	"github.com/mini-maxit/solver-bench/pkg/constants"
	"github.com/mini-maxit/solver-bench/pkg/errors"
	"github.com/mini-maxit/solver-bench/pkg/messages"
	"github.com/mini-maxit/solver-bench/pkg/result"
)

// Publisher streams sweep results to a queue as they are produced.
type Publisher interface {
	PublishRunResult(ctx context.Context, runResult result.RunResult) error
	PublishSweepDone(ctx context.Context, runs, failures int) error
	Close() error
}

type publisher struct {
	logger    *zap.SugaredLogger
	channel   channel.Channel
	queueName string
	sweepID   string

	mu     sync.Mutex
	closed bool
}

// NewPublisher declares queueName as a durable queue on ch.
func NewPublisher(ch channel.Channel, queueName, sweepID string) (Publisher, error) {
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue %s: %w", queueName, err)
	}

	return &publisher{
		logger:    logger.NewNamedLogger("publisher"),
		channel:   ch,
		queueName: queueName,
		sweepID:   sweepID,
	}, nil
}

func (p *publisher) PublishRunResult(ctx context.Context, runResult result.RunResult) error {
	payload, err := json.Marshal(messages.NewRunResultPayload(runResult))
	if err != nil {
		return err
	}

	return p.publish(ctx, constants.QueueMessageTypeRunResult, payload)
}

func (p *publisher) PublishSweepDone(ctx context.Context, runs, failures int) error {
	payload, err := json.Marshal(messages.SweepDonePayload{Runs: runs, Failures: failures})
	if err != nil {
		return err
	}

	return p.publish(ctx, constants.QueueMessageTypeSweepDone, payload)
}

func (p *publisher) publish(ctx context.Context, messageType string, payload []byte) error {
	messageID := uuid.New().String()
	queueMessage := messages.QueueMessage{
		Type:      messageType,
		MessageID: messageID,
		SweepID:   p.sweepID,
		Payload:   payload,
	}

	body, err := json.Marshal(queueMessage)
	if err != nil {
		return err
	}

	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errors.ErrPublisherClosed
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RabbitMQPublishTimeoutSec*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(ctx, "", p.queueName, false, false, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: p.sweepID,
		MessageId:     messageID,
		Timestamp:     time.Now(),
		Body:          body,
	})
	if err != nil {
		return err
	}

	p.logger.Debugf("Published %s message %s to %s", messageType, messageID, p.queueName)
	return nil
}

func (p *publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.channel.Close()
}

type noopPublisher struct{}

// NewNoopPublisher returns a Publisher that discards everything. It is used
// when no broker is configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishRunResult(context.Context, result.RunResult) error { return nil }
func (noopPublisher) PublishSweepDone(context.Context, int, int) error { return nil }
func (noopPublisher) Close() error { return nil }
