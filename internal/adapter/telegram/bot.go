package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/minicrm/backend/internal/config"
)

// Bot is a minimal Telegram Bot API client. With an empty token every send
// becomes a silent no-op, so local setups run without a real bot.
type Bot struct {
	token      string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewBot creates a Bot from the Telegram config section.
func NewBot(cfg config.TelegramConfig, logger *slog.Logger) *Bot {
	return &Bot{
		token:      cfg.BotToken,
		baseURL:    cfg.APIBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.With("adapter", "telegram"),
	}
}

// Enabled reports whether a bot token is configured.
func (b *Bot) Enabled() bool { return b.token != "" }

// SendMessage posts a text message to a chat. The reply markup is optional.
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string, markup *InlineKeyboardMarkup) error {
	if !b.Enabled() {
		return nil
	}

	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if markup != nil {
		payload["reply_markup"] = markup
	}

	return b.call(ctx, "sendMessage", payload)
}

func (b *Bot) call(ctx context.Context, method string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: marshal %s payload: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", b.baseURL, b.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: %s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Bot API reports the reason in the body; keep a short slice of it.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram: %s status %d: %s", method, resp.StatusCode, snippet)
	}

	return nil
}
