package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

func NewRabbitConnection(uri string) (*amqp.Connection, error) {
	return amqp.Dial(uri)
}

func DeclareQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,
		true,
		false,
		false,
		false,
		nil,
	)
	return err
}

// OpenConfirmChannel opens a channel in publisher-confirm mode with name declared.
func OpenConfirmChannel(conn *amqp.Connection, name string) (*amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := DeclareQueue(ch, name); err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare queue %s: %w", name, err)
	}
	if err := ch.Confirm(false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("enable confirms: %w", err)
	}
	return ch, nil
}
