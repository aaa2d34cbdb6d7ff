// Package telegram wraps the Telegram Bot API client behind the narrow
// surface the rest of the service needs: sending HTML messages and
// consuming the update stream.
package telegram

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client represents a Telegram bot client
type Client struct {
	bot *tgbotapi.BotAPI
}

// NewClient creates a new Telegram client from a bot token
func NewClient(token string) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Authorized on Telegram account %s", bot.Self.UserName)
	return &Client{bot: bot}, nil
}

// Send delivers a message to a chat. Notifications carry HTML links, so
// messages are always sent with HTML parse mode.
func (c *Client) Send(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := c.bot.Send(msg)
	return err
}

// Updates returns the long-polling update channel for the dispatcher.
func (c *Client) Updates() tgbotapi.UpdatesChannel {
	update := tgbotapi.NewUpdate(0)
	update.Timeout = 30
	return c.bot.GetUpdatesChan(update)
}

// StopReceivingUpdates stops the long-polling loop; the updates channel
// closes once in-flight requests finish.
func (c *Client) StopReceivingUpdates() {
	c.bot.StopReceivingUpdates()
}
