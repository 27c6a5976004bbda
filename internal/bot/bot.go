// Package bot is the Telegram quick-entry surface. It shares the ledger
// guard with the web application, so every record it creates is validated
// against the taxonomy the same way.
package bot

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ddsapp/cashflow/internal/ai"
	"github.com/ddsapp/cashflow/internal/ledger"
)

type Bot struct {
	api   *tgbotapi.BotAPI
	svc   *ledger.Service
	users ledger.UserStore
	ai    *ai.Client
}

func New(token string, svc *ledger.Service, users ledger.UserStore, aiClient *ai.Client) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:   api,
		svc:   svc,
		users: users,
		ai:    aiClient,
	}, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.Printf("Authorized on account %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	msg := update.Message
	username := msg.From.UserName
	if username == "" {
		username = fmt.Sprintf("tg_%d", msg.From.ID)
	}

	user, err := b.users.GetOrCreateTelegramUser(ctx, msg.From.ID, username)
	if err != nil {
		log.Printf("Failed to get/create telegram user: %v", err)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, user.UserID, msg)
		return
	}
	b.handleFreeText(ctx, user.UserID, msg)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}
