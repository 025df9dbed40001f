package notify

import (
    "fmt"
    "net/http"
    "net/url"
    "time"
)

// TelegramBot pings a restaurateur's chat when their venue receives a
// new booking.  The Bot API surface we need is a single sendMessage
// call, so a plain HTTP client keeps the dependency out of go.mod.
type TelegramBot struct {
    token   string
    baseURL string
    client  *http.Client
}

// NewTelegramBot builds a bot; an empty token leaves it disabled.
func NewTelegramBot(token string) *TelegramBot {
    return &TelegramBot{
        token:   token,
        baseURL: "https://api.telegram.org/bot" + token,
        client:  &http.Client{Timeout: 10 * time.Second},
    }
}

// Enabled reports whether a bot token was configured.
func (b *TelegramBot) Enabled() bool { return b.token != "" }

// SendMessage posts a plain-text message to the given chat.
func (b *TelegramBot) SendMessage(chatID, text string) error {
    if !b.Enabled() {
        return fmt.Errorf("telegram bot not configured")
    }
    params := url.Values{}
    params.Add("chat_id", chatID)
    params.Add("text", text)

    resp, err := b.client.PostForm(b.baseURL+"/sendMessage", params)
    if err != nil {
        return err
    }
    defer resp.Body.Close()

    if resp.StatusCode != http.StatusOK {
        return fmt.Errorf("telegram API error: %s", resp.Status)
    }
    return nil
}

// NotifyNewReservation formats and sends the owner-facing booking alert.
func (b *TelegramBot) NotifyNewReservation(chatID, guestName string, guests uint32, stayAt time.Time) error {
    text := fmt.Sprintf("New reservation: %s, %d guest(s), %s",
        guestName, guests, stayAt.UTC().Format("Mon 2 Jan 15:04"))
    return b.SendMessage(chatID, text)
}
