package channel

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel abstracts the subset of *amqp.Channel used by the project.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Close() error
}

// AmqpChannel wraps a real *amqp.Channel together with the connection it was
// opened on, and implements Channel.
type AmqpChannel struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial opens a connection and a single channel on it.
func Dial(url string) (*AmqpChannel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &AmqpChannel{conn: conn, ch: ch}, nil
}

func (a *AmqpChannel) PublishWithContext(ctx context.Context,
	exchange, key string,
	mandatory, immediate bool,
	msg amqp.Publishing) error {
	return a.ch.PublishWithContext(ctx, exchange, key, mandatory, immediate, msg)
}

func (a *AmqpChannel) QueueDeclare(name string,
	durable, autoDelete, exclusive, noWait bool,
	args amqp.Table) (amqp.Queue, error) {
	return a.ch.QueueDeclare(name, durable, autoDelete, exclusive, noWait, args)
}

func (a *AmqpChannel) Close() error {
	chErr := a.ch.Close()
	connErr := a.conn.Close()
	if chErr != nil {
		return chErr
	}
	return connErr
}
