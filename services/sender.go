package services

import "context"

// Sender delivers a formatted notification to a chat. The Telegram client
// under lib/telegram implements it; tests substitute fakes. Delivery is
// attempted synchronously, at most once per call, with no retry layer.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}
