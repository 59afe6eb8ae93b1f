package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

const (
	// Exchange — direct-обменник уведомлений.
	Exchange = "notifications"
	// RoutingUpcoming — ключ маршрутизации напоминаний о ближайших списаниях.
	RoutingUpcoming = "upcoming"
	// QueueUpcoming — очередь, в которую попадают напоминания.
	QueueUpcoming = "notifications.upcoming"
)

// QueueConfig связывает очередь с ключом маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// NotificationQueues возвращает очереди, которые объявляет планировщик.
func NotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueUpcoming, RoutingKey: RoutingUpcoming},
	}
}

// SetupChannel открывает канал, объявляет обменник и привязывает к нему очереди.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		Exchange,
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
		if _, err = ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}
		if err = ch.QueueBind(q.QueueName, q.RoutingKey, Exchange, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}
	return ch, nil
}
