package queue

import (
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/davrbek/restaurant-reservation/internal/notify"
)

const reservationQueueName = "reservation.events"

// Consumer drains reservation.events and dispatches notifications.
type Consumer struct {
    url      string
    mailer   *notify.Mailer
    telegram *notify.TelegramBot
}

// NewConsumer wires a Consumer; nil notifiers disable the matching channel.
func NewConsumer(url string, mailer *notify.Mailer, telegram *notify.TelegramBot) *Consumer {
    return &Consumer{url: url, mailer: mailer, telegram: telegram}
}

// Start connects to RabbitMQ, declares the durable reservation.events
// queue and consumes it forever.  It runs a reconnect loop with capped
// exponential backoff; processing errors are logged and the offending
// message is rejected without requeue so a poison message cannot loop.
func (c *Consumer) Start() {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.url)
        if err != nil {
            log.Printf("reservation-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            time.Sleep(backoff)
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        if err := c.consumeLoop(conn); err != nil {
            log.Printf("reservation-consumer: consume loop ended: %v; reconnecting", err)
            time.Sleep(2 * time.Second)
        }
        _ = conn.Close()
    }
}

func (c *Consumer) consumeLoop(conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Printf("reservation-consumer: set QoS failed: %v", err)
    }

    if _, err := ch.QueueDeclare(reservationQueueName, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(reservationQueueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for d := range msgs {
        if err := c.handle(d.Body); err != nil {
            log.Printf("reservation-consumer: handle message failed: %v", err)
            _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

// handle fans one event out to every configured channel.  A provider
// failure is logged but does not fail the message: notifications are
// best-effort and must never resurrect an already-applied state change.
func (c *Consumer) handle(body []byte) error {
    var ev ReservationEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    stayAt, err := time.Parse(time.RFC3339, ev.StayAt)
    if err != nil {
        return fmt.Errorf("parse stay_at %q: %w", ev.StayAt, err)
    }

    status := statusLabel(ev.Kind)
    if c.mailer != nil && ev.GuestEmail != "" {
        name := ev.GuestFirstName
        if err := c.mailer.SendReservationUpdate(ev.GuestEmail, name, ev.EstablishmentName, status, stayAt, ev.Guests); err != nil {
            log.Printf("reservation-consumer: email to %s failed: %v", ev.GuestEmail, err)
        }
    }
    if c.telegram != nil && c.telegram.Enabled() && ev.TelegramChatID != "" && ev.Kind == EventCreated {
        guest := ev.GuestFirstName + " " + ev.GuestLastName
        if err := c.telegram.NotifyNewReservation(ev.TelegramChatID, guest, ev.Guests, stayAt); err != nil {
            log.Printf("reservation-consumer: telegram to chat %s failed: %v", ev.TelegramChatID, err)
        }
    }
    return nil
}

func statusLabel(kind string) string {
    switch kind {
    case EventCreated:
        return "received"
    case EventAccepted:
        return "confirmed"
    case EventCancelled:
        return "cancelled"
    case EventReminder:
        return "coming up"
    default:
        return kind
    }
}
