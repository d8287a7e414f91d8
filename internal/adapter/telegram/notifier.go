package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/minicrm/backend/internal/domain"
)

var statusLabels = map[domain.RequestStatus]string{
	domain.RequestStatusOpen:       "Открыта",
	domain.RequestStatusInProgress: "В работе",
	domain.RequestStatusDone:       "Выполнена",
}

// Notifier delivers request lifecycle events to the client's Telegram chat.
// Delivery is best effort: failures are logged and swallowed, the business
// operation has already committed.
type Notifier struct {
	bot *Bot
	log *slog.Logger
}

// NewNotifier creates a Notifier on top of a Bot client.
func NewNotifier(bot *Bot, logger *slog.Logger) *Notifier {
	return &Notifier{
		bot: bot,
		log: logger.With("adapter", "telegram_notifier"),
	}
}

// RequestCreated tells the client their request was registered.
func (n *Notifier) RequestCreated(ctx context.Context, summary *domain.RequestSummary) {
	text := fmt.Sprintf("Заявка #%d принята. Направление: %s.", summary.Number, summary.DirectionName)
	n.send(ctx, summary, text)
}

// StatusChanged tells the client their request moved to a new status.
func (n *Notifier) StatusChanged(ctx context.Context, summary *domain.RequestSummary, from domain.RequestStatus) {
	label, ok := statusLabels[summary.Status]
	if !ok {
		label = summary.Status.String()
	}
	text := fmt.Sprintf("Заявка #%d: статус изменен на %s", summary.Number, label)
	n.send(ctx, summary, text)
}

func (n *Notifier) send(ctx context.Context, summary *domain.RequestSummary, text string) {
	if err := n.bot.SendMessage(ctx, summary.TelegramID, text, nil); err != nil {
		n.log.WarnContext(ctx, "notification delivery failed",
			slog.Int64("request_number", summary.Number),
			slog.Int64("telegram_id", summary.TelegramID),
			slog.String("error", err.Error()))
	}
}
