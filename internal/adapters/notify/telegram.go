package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// Telegram implementa ports.Notifier enviando alertas al chat configurado.
// Solo notifica ciclos con actividad (trades abiertos o resueltos): sin spam
// cada intervalo.
type Telegram struct {
	bot        *tgbotapi.BotAPI
	chatID     int64
	maxRetries int
	retryBase  time.Duration
}

// NewTelegram crea el notificador validando token y chat ID.
func NewTelegram(token, chatID string) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("notify.NewTelegram: %w", err)
	}

	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("notify.NewTelegram: invalid chat ID: %w", err)
	}

	return &Telegram{
		bot:        bot,
		chatID:     id,
		maxRetries: 3,
		retryBase:  time.Second,
	}, nil
}

// Notify envía el resumen del ciclo si hubo actividad.
func (t *Telegram) Notify(ctx context.Context, report domain.CycleReport) error {
	if len(report.Opened) == 0 && report.Resolution.Resolved == 0 {
		return nil
	}

	msg := tgbotapi.NewMessage(t.chatID, formatCycle(report))
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < t.maxRetries; i++ {
		_, err := t.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(t.retryBase * time.Duration(i+1)):
		}
	}
	return fmt.Errorf("notify.Telegram: send after %d retries: %w", t.maxRetries, lastErr)
}

// formatCycle formatea el reporte en MarkdownV2.
func formatCycle(r domain.CycleReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "*Paper Trading Cycle* — %s\n\n",
		escapeMarkdownV2(r.At.Format("2006-01-02 15:04")))

	if len(r.Opened) > 0 {
		fmt.Fprintf(&sb, "*Opened %d*\n", len(r.Opened))
		for _, tr := range r.Opened {
			fmt.Fprintf(&sb, "• %s `%s` %s\n",
				escapeMarkdownV2(truncate(tr.Title, 40)),
				tr.Ticker,
				escapeMarkdownV2(fmt.Sprintf("%s %d@%.2f ($%.2f, edge %+.1f%%)",
					tr.Side, tr.Contracts, tr.EntryPrice, tr.CostBasis, tr.EdgeAtEntry*100)))
		}
		sb.WriteString("\n")
	}

	if r.Resolution.Resolved > 0 {
		fmt.Fprintf(&sb, "*Resolved %d* — %s\n\n",
			r.Resolution.Resolved,
			escapeMarkdownV2(fmt.Sprintf("W%d/L%d, pnl %+.2f",
				r.Resolution.Wins, r.Resolution.Losses, r.Resolution.Profit)))
	}

	fmt.Fprintf(&sb, "Bankroll: %s",
		escapeMarkdownV2(fmt.Sprintf("$%.2f available, $%.2f invested, pnl %+.2f",
			r.Bankroll.Available, r.Bankroll.Invested, r.Bankroll.RealizedPnL)))

	return sb.String()
}

// escapeMarkdownV2 escapa los caracteres especiales de MarkdownV2.
func escapeMarkdownV2(text string) string {
	var sb strings.Builder
	for _, ch := range text {
		switch ch {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			sb.WriteRune('\\')
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}
