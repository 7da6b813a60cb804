package notifier

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

// TelegramNotifier delivers messages over the Telegram bot API using HTML
// parse mode. Delivery failures are the caller's to log; they are never fatal.
type TelegramNotifier struct {
	Token   string
	ChatID  string
	Retries int
	Delay   time.Duration

	apiURL string
	client *http.Client
}

// NewTelegramNotifier creates a Telegram notifier. retries and delay bound
// SendWithRetry.
func NewTelegramNotifier(token, chatID string, retries int, delay time.Duration) *TelegramNotifier {
	if retries <= 0 {
		retries = 3
	}
	if delay <= 0 {
		delay = 5 * time.Second
	}
	return &TelegramNotifier{
		Token:   token,
		ChatID:  chatID,
		Retries: retries,
		Delay:   delay,
		apiURL:  "https://api.telegram.org",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *TelegramNotifier) Send(message string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.apiURL, t.Token)
	resp, err := t.client.PostForm(endpoint, url.Values{
		"chat_id":    {t.ChatID},
		"text":       {message},
		"parse_mode": {"HTML"},
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram send failed: %s", resp.Status)
	}
	return nil
}

// SendWithRetry retries a failed delivery with a fixed delay between attempts.
func (t *TelegramNotifier) SendWithRetry(message string) error {
	var err error
	for attempt := 1; attempt <= t.Retries; attempt++ {
		if err = t.Send(message); err == nil {
			return nil
		}
		log.Printf("Notifier | Telegram attempt %d/%d failed: %v", attempt, t.Retries, err)
		if attempt < t.Retries {
			time.Sleep(t.Delay)
		}
	}
	return err
}
