// Package queue_publisher publishes booking domain events to RabbitMQ.
// Publishing is best effort: errors are logged and returned so callers can
// ignore them without interrupting the request flow.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/quickcourt/quickcourt-backend/internal/queue"
)

// Publisher satisfies the handler-side event publisher interface with a
// real AMQP backend.  A connection is dialed per publish; event volume is a
// handful per booking, not a throughput concern.
type Publisher struct{}

// PublishBookingEvent sends the event to the durable booking.events queue.
// It never panics; all failures are logged and returned.
func (Publisher) PublishBookingEvent(ctx context.Context, event q.BookingEvent) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Declare is idempotent; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare("booking.events", true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",               // default exchange
		"booking.events", // routing key = queue name
		false,            // mandatory
		false,            // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
