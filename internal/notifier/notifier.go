// Package notifier
package notifier

// Notifier interface for sending notifications (e.g., Telegram).
type Notifier interface {
	Send(msg string) error
	SendWithRetry(msg string) error
}

// Nop is a Notifier that discards everything. Used when no Telegram
// credentials are configured and in tests.
type Nop struct{}

func (Nop) Send(msg string) error          { return nil }
func (Nop) SendWithRetry(msg string) error { return nil }
