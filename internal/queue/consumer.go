package queue

import (
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// StartConsumer runs a reconnect loop consuming booking events and logging
// the notification each one would trigger. Meant to run in its own
// goroutine; it never returns under normal operation.
func StartConsumer(url, queueName string, log *zap.Logger) {
	log = log.With(zap.String("component", "queue_consumer"))

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn("Failed to dial broker, retrying",
				zap.Error(err), zap.Duration("backoff", backoff))
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn, queueName, log); err != nil {
			log.Warn("Consume loop ended, reconnecting", zap.Error(err))
			conn.Close()
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, queueName string, log *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("Failed to set QoS", zap.Error(err))
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume queue: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body, log); err != nil {
			log.Error("Failed to handle booking event", zap.Error(err))
			d.Nack(false, false)
			continue
		}
		d.Ack(false)
	}

	return fmt.Errorf("delivery channel closed")
}

func handleMessage(body []byte, log *zap.Logger) error {
	var event BookingEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("unmarshal booking event: %w", err)
	}

	switch event.Type {
	case EventTypeBookingCreated:
		log.Info("Booking confirmation notification",
			zap.String("booking_reference", event.BookingReference),
			zap.String("customer_id", event.CustomerID.String()),
			zap.String("movie_title", event.MovieTitle),
			zap.Time("starts_at", event.StartsAt),
			zap.Int("seat_count", event.SeatCount),
			zap.String("total_amount", event.TotalAmount),
		)
	case EventTypeBookingCancelled:
		log.Info("Booking cancellation notification",
			zap.String("booking_reference", event.BookingReference),
			zap.String("customer_id", event.CustomerID.String()),
			zap.String("movie_title", event.MovieTitle),
			zap.Int("seat_count", event.SeatCount),
		)
	default:
		log.Warn("Unknown booking event type", zap.String("type", event.Type))
	}

	return nil
}
