package clientreg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/minicrm/backend/internal/domain"
)

// RecordConsent stamps the current consent version on the client identified
// by Telegram ID. Consent for a Telegram user with no client record is a
// logged no-op: the record appears on first real contact and consent is asked
// again then.
func (s *Service) RecordConsent(ctx context.Context, telegramID int64) error {
	client, err := s.clients.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.InfoContext(ctx, "consent for unknown telegram user ignored",
				slog.Int64("telegram_id", telegramID))
			return nil
		}
		return fmt.Errorf("clientreg.RecordConsent get client: %w", err)
	}

	if err := s.clients.SetConsent(ctx, client.ID, s.consentVersion, time.Now().UTC()); err != nil {
		return fmt.Errorf("clientreg.RecordConsent set consent: %w", err)
	}

	s.log.InfoContext(ctx, "consent recorded",
		slog.String("client_id", client.ID.String()),
		slog.String("version", s.consentVersion))
	return nil
}
