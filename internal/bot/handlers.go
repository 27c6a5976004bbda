package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/ddsapp/cashflow/internal/ledger"
	"github.com/ddsapp/cashflow/internal/models"
	"github.com/ddsapp/cashflow/internal/taxonomy"
)

func (b *Bot) handleCommand(ctx context.Context, userID int64, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStart(msg)
	case "help":
		b.handleHelp(msg)
	case "expense":
		b.handleEntry(ctx, userID, msg, taxonomy.TypeExpense)
	case "income":
		b.handleEntry(ctx, userID, msg, taxonomy.TypeIncome)
	case "last":
		b.handleLast(ctx, userID, msg)
	case "categories":
		b.handleCategories(msg)
	default:
		b.sendMessage(msg.Chat.ID, "Неизвестная команда, используйте /help")
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	text := fmt.Sprintf(`Здравствуйте, %s!

Это бот быстрого учёта движения денежных средств.

/expense <сумма> <категория>[/<подкатегория>] [комментарий] — записать списание
/income <сумма> <категория>[/<подкатегория>] [комментарий] — записать поступление
/last — последние записи
/categories — справочник категорий

Можно и просто написать, например: «продукты 1200 вчера» — я разберу сам.`,
		msg.From.FirstName)
	b.sendMessage(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) {
	text := `Команды:

/expense <сумма> <категория>[/<подкатегория>] [комментарий]
/income <сумма> <категория>[/<подкатегория>] [комментарий]
/last — последние 5 записей
/categories — справочник категорий

Категорию можно указывать машинным значением (food) или названием (Еда).
Записи из бота получают статус «Личное»; статус и дату можно поменять в
веб-интерфейсе. Свободный текст разбирается автоматически.`
	b.sendMessage(msg.Chat.ID, text)
}

func (b *Bot) handleEntry(ctx context.Context, userID int64, msg *tgbotapi.Message, txType taxonomy.Type) {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("Использование: /%s <сумма> <категория>[/<подкатегория>] [комментарий]", msg.Command()))
		return
	}

	entry, err := parseEntryArgs(args)
	if err != nil {
		b.sendMessage(msg.Chat.ID, err.Error())
		return
	}

	tx := &models.Transaction{
		UserID:      userID,
		Date:        today(),
		Status:      taxonomy.StatusPersonal,
		Type:        txType,
		Category:    entry.category,
		Subcategory: entry.subcategory,
		Amount:      entry.amount,
		Comment:     entry.comment,
	}

	if err := b.svc.Create(ctx, tx); err != nil {
		var verr *taxonomy.ValidationError
		if errors.As(err, &verr) {
			b.sendMessage(msg.Chat.ID, verr.Message)
			return
		}
		b.sendMessage(msg.Chat.ID, "Не удалось сохранить запись, попробуйте позже")
		return
	}

	b.sendMessage(msg.Chat.ID, formatSaved(tx))
}

func (b *Bot) handleLast(ctx context.Context, userID int64, msg *tgbotapi.Message) {
	transactions, err := b.svc.List(ctx, userID, ledger.Filter{})
	if err != nil {
		b.sendMessage(msg.Chat.ID, "Не удалось получить записи, попробуйте позже")
		return
	}
	if len(transactions) == 0 {
		b.sendMessage(msg.Chat.ID, "Записей пока нет")
		return
	}
	if len(transactions) > 5 {
		transactions = transactions[:5]
	}

	var sb strings.Builder
	sb.WriteString("Последние записи:\n\n")
	for _, tx := range transactions {
		sb.WriteString(formatLine(tx))
		sb.WriteString("\n")
	}
	b.sendMessage(msg.Chat.ID, sb.String())
}

func (b *Bot) handleCategories(msg *tgbotapi.Message) {
	var sb strings.Builder
	for _, t := range taxonomy.Types() {
		sb.WriteString(t.Label())
		sb.WriteString(":\n")
		for _, c := range taxonomy.CategoriesFor(t) {
			subs := make([]string, 0, 4)
			for _, s := range taxonomy.SubcategoriesFor(c) {
				subs = append(subs, s.Label())
			}
			fmt.Fprintf(&sb, "  %s (%s): %s\n", c.Label(), c, strings.Join(subs, ", "))
		}
		sb.WriteString("\n")
	}
	b.sendMessage(msg.Chat.ID, sb.String())
}

// handleFreeText runs the AI classifier over a plain message. The result is
// only a suggestion: Create re-validates the triple before anything is stored.
func (b *Bot) handleFreeText(ctx context.Context, userID int64, msg *tgbotapi.Message) {
	if b.ai == nil {
		b.sendMessage(msg.Chat.ID, "Я понимаю только команды, см. /help")
		return
	}

	entry, err := b.ai.ParseEntry(ctx, msg.Text)
	if err != nil {
		b.sendMessage(msg.Chat.ID, "Не удалось разобрать сообщение, попробуйте команду /expense или /income")
		return
	}

	amount, err := decimal.NewFromString(entry.Amount)
	if err != nil {
		b.sendMessage(msg.Chat.ID, "Не удалось распознать сумму, попробуйте команду /expense или /income")
		return
	}

	date := today()
	if entry.Date != "" {
		if parsed, err := time.Parse("2006-01-02", entry.Date); err == nil {
			date = parsed
		}
	}

	tx := &models.Transaction{
		UserID:      userID,
		Date:        date,
		Status:      taxonomy.StatusPersonal,
		Type:        taxonomy.Type(entry.Type),
		Category:    taxonomy.Category(entry.Category),
		Subcategory: taxonomy.Subcategory(entry.Subcategory),
		Amount:      amount,
		Comment:     entry.Comment,
	}

	if err := b.svc.Create(ctx, tx); err != nil {
		var verr *taxonomy.ValidationError
		if errors.As(err, &verr) {
			b.sendMessage(msg.Chat.ID, verr.Message+"\nУточните категорию: /categories")
			return
		}
		b.sendMessage(msg.Chat.ID, "Не удалось сохранить запись, попробуйте позже")
		return
	}

	b.sendMessage(msg.Chat.ID, formatSaved(tx))
}

func formatSaved(tx *models.Transaction) string {
	return fmt.Sprintf("%s записано\n%s", tx.Type.Label(), formatLine(tx))
}

func formatLine(tx *models.Transaction) string {
	parts := []string{
		tx.Date.Format("02.01.2006"),
		tx.Amount.StringFixed(2),
		tx.Category.Label(),
	}
	if tx.Subcategory != "" {
		parts = append(parts, tx.Subcategory.Label())
	}
	if tx.Comment != "" {
		parts = append(parts, tx.Comment)
	}
	return strings.Join(parts, " · ")
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
