package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client wraps the Bot API as the outbound chat transport. Fragments are
// submitted one at a time and Telegram preserves per-chat ordering.
type Client struct {
	api *tgbotapi.BotAPI
}

func NewClient(botToken string) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	api.Debug = false
	return &Client{api: api}, nil
}

// Username returns the bot's own account name.
func (c *Client) Username() string {
	return c.api.Self.UserName
}

// FirstName returns the bot's display name for greetings.
func (c *Client) FirstName() string {
	return c.api.Self.FirstName
}

func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := c.api.Send(msg); err != nil {
		var apiErr *tgbotapi.Error
		if errors.As(err, &apiErr) {
			return &SendError{Code: apiErr.Code, Message: apiErr.Message}
		}
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// FileURL resolves a Telegram file ID to a direct download URL. The URL may
// expire upstream after a while.
func (c *Client) FileURL(fileID string) (string, error) {
	url, err := c.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("resolve file url: %w", err)
	}
	return url, nil
}

// SendError carries the Bot API status code so the delivery loop can decide
// whether a retry is worthwhile.
type SendError struct {
	Code    int
	Message string
}

func (e *SendError) Error() string {
	return fmt.Sprintf("telegram send failed with status %d: %s", e.Code, e.Message)
}

func (e *SendError) StatusCode() int { return e.Code }
