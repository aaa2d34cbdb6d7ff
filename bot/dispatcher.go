package bot

import (
	"context"
	"log"

	"github.com/avalue/ci-relay/lib/telegram"
)

// Dispatcher feeds Telegram updates into the dialogue engine. It runs as
// its own execution context next to the HTTP server and stops when the
// context is cancelled.
type Dispatcher struct {
	client *telegram.Client
	engine *Engine
}

// NewDispatcher creates a dispatcher over the given client and engine.
func NewDispatcher(client *telegram.Client, engine *Engine) *Dispatcher {
	return &Dispatcher{client: client, engine: engine}
}

// Run consumes the update stream until ctx is cancelled or the stream
// closes. Command failures are logged and never stop dispatch for other
// chats.
func (d *Dispatcher) Run(ctx context.Context) {
	updates := d.client.Updates()
	for {
		select {
		case <-ctx.Done():
			d.client.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			chatID := update.Message.Chat.ID
			if err := d.engine.HandleMessage(ctx, chatID, update.Message.Text); err != nil {
				log.Printf("dialogue turn failed for chat %d: %v", chatID, err)
			}
		}
	}
}
