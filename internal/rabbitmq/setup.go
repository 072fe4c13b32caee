package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// ExchangeRenewals - обменник для напоминаний о продлении.
const ExchangeRenewals = "renewals"

// Ключи маршрутизации напоминаний.
const (
	RoutingUpcoming = "upcoming"
	RoutingOverdue  = "overdue"
)

// QueueConfig связывает очередь с ключом маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// ReminderQueues возвращает очереди, которые объявляет издатель напоминаний.
func ReminderQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "renewals.upcoming", RoutingKey: RoutingUpcoming},
		{QueueName: "renewals.overdue", RoutingKey: RoutingOverdue},
	}
}

// SetupChannel открывает канал и объявляет обменник с durable-очередями.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		ExchangeRenewals,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		if _, err := ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}
		if err := ch.QueueBind(q.QueueName, q.RoutingKey, ExchangeRenewals, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}

	return ch, nil
}
