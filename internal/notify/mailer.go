// Package notify delivers guest-facing messages over email and
// Telegram.  Delivery happens from the queue consumer, never from a
// request handler, so a slow or failing provider cannot stall bookings.
package notify

import (
    "context"
    "fmt"
    "strings"
    "time"

    "github.com/mailersend/mailersend-go"
)

// Mailer sends transactional email through MailerSend.  When no API key
// is configured the client stays disabled and every send reports an
// error, which the consumer logs and drops.
type Mailer struct {
    client  *mailersend.Mailersend
    from    mailersend.From
    enabled bool
}

// NewMailer builds a Mailer; an empty apiKey or fromEmail leaves it disabled.
func NewMailer(apiKey, fromName, fromEmail string) *Mailer {
    m := &Mailer{
        enabled: apiKey != "" && fromEmail != "",
        from: mailersend.From{
            Name:  fromName,
            Email: fromEmail,
        },
    }
    if m.enabled {
        m.client = mailersend.NewMailersend(apiKey)
    }
    return m
}

// SendConfirmationCode emails the short code that unlocks anonymous booking.
func (m *Mailer) SendConfirmationCode(toEmail, code string, ttl time.Duration) error {
    subject := "Your booking confirmation code"
    html := fmt.Sprintf(`
        <h2>Confirm your contact</h2>
        <p>Your confirmation code is: <strong style="font-size: 24px;">%s</strong></p>
        <p>Enter it on the booking page to continue. The code expires in %d minutes.</p>
        <p>If you did not request a table, ignore this message.</p>
    `, code, int(ttl.Minutes()))
    text := fmt.Sprintf("Your confirmation code is: %s\nIt expires in %d minutes.", code, int(ttl.Minutes()))
    return m.send(toEmail, "", subject, text, html)
}

// SendReservationUpdate emails a lifecycle notice: created, accepted,
// cancelled or a visit reminder.
func (m *Mailer) SendReservationUpdate(toEmail, toName, establishment, status string, stayAt time.Time, guests uint32) error {
    when := stayAt.UTC().Format("Monday, 2 January at 15:04")
    subject := fmt.Sprintf("Reservation %s: %s", strings.ToLower(status), establishment)
    html := fmt.Sprintf(`
        <h2>%s</h2>
        <p>Hi %s,</p>
        <p>Your reservation at <strong>%s</strong> for %d guest(s) on %s is now <strong>%s</strong>.</p>
    `, subject, toName, establishment, guests, when, status)
    text := fmt.Sprintf("Your reservation at %s for %d guest(s) on %s is now %s.",
        establishment, guests, when, status)
    return m.send(toEmail, toName, subject, text, html)
}

func (m *Mailer) send(toEmail, toName, subject, text, html string) error {
    if !m.enabled {
        return fmt.Errorf("mailer not configured")
    }
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()

    msg := m.client.Email.NewMessage()
    msg.SetFrom(m.from)
    msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
    msg.SetSubject(subject)
    if strings.TrimSpace(text) != "" {
        msg.SetText(text)
    }
    if strings.TrimSpace(html) != "" {
        msg.SetHTML(html)
    }
    _, err := m.client.Email.Send(ctx, msg)
    return err
}
