package telegram

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/napatsn/riko/internal/agent"
	"github.com/napatsn/riko/internal/chat"
	"github.com/napatsn/riko/internal/policy"
)

// Bot routes Telegram updates into the turn pipeline. It carries no per-turn
// state; concurrent updates are independent.
type Bot struct {
	client *Client
	orch   *chat.Orchestrator
	loc    *agent.Locale
}

func NewBot(client *Client, orch *chat.Orchestrator, loc *agent.Locale) *Bot {
	return &Bot{client: client, orch: orch, loc: loc}
}

// HandleUpdate processes one update end to end. Errors are logged with
// secrets masked; an update never takes the process down.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.From == nil {
		return
	}

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	inbound := chat.InboundMessage{
		ChatID: message.Chat.ID,
		UserID: message.From.ID,
		Text:   message.Text,
	}
	if message.ReplyToMessage != nil {
		inbound.ReplyToText = message.ReplyToMessage.Text
	}
	if len(message.Photo) > 0 {
		// Telegram sends several sizes; the last one is the largest.
		largest := message.Photo[len(message.Photo)-1]
		url, err := b.client.FileURL(largest.FileID)
		if err != nil {
			b.logError("resolve photo", err)
		} else {
			inbound.PhotoURL = url
		}
	}

	if err := b.orch.HandleTurn(ctx, inbound); err != nil {
		b.logError("handle turn", err)
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		greeting := fmt.Sprintf("%s, %s", b.loc.Greeting, b.client.FirstName())
		if err := b.client.SendText(ctx, message.Chat.ID, greeting); err != nil {
			b.logError("send greeting", err)
		}
	default:
		// Unknown commands are ignored rather than answered, so the bot
		// stays quiet in group chats it was not addressed in.
	}
}

// Run consumes updates over long polling until the context ends. Webhook
// deployments use HandleUpdate from the HTTP binding instead.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.client.api.GetUpdatesChan(u)
	log.Printf("bot @%s polling for updates", b.client.Username())

	for {
		select {
		case <-ctx.Done():
			b.client.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.HandleUpdate(ctx, update)
		}
	}
}

func (b *Bot) logError(stage string, err error) {
	masked, _ := policy.MaskSecrets(err.Error())
	log.Printf("telegram: %s: %s", stage, masked)
}
