package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/minicrm/backend/internal/adapter/telegram"
	"github.com/minicrm/backend/internal/auth"
	"github.com/minicrm/backend/internal/config"
	"github.com/minicrm/backend/internal/domain"
)

// SecretTokenHeader is set by the Bot API on every webhook delivery when a
// secret token was registered with setWebhook.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

const (
	consentText        = "Согласие на обработку персональных данных: нажмите 'Принимаю', чтобы продолжить."
	consentAcceptedMsg = "Согласие принято. Откройте приложение."
	consentDeclinedMsg = "Без согласия работа с сервисом невозможна."
	openAppMsg         = "Откройте приложение."

	callbackConsentAccept  = "consent_accept"
	callbackConsentDecline = "consent_decline"
)

// clientRegistry defines the registry operations the webhook needs.
type clientRegistry interface {
	ResolveOrCreate(ctx context.Context, identity *auth.Identity) (*domain.Client, error)
	RecordConsent(ctx context.Context, telegramID int64) error
}

// WebhookHandler serves the Telegram bot webhook. Replies are returned
// inline in the webhook response body, avoiding a second Bot API round trip.
type WebhookHandler struct {
	clients   clientRegistry
	secret    string
	webAppURL string
	log       *slog.Logger
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(clients clientRegistry, cfg config.TelegramConfig, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		clients:   clients,
		secret:    cfg.WebhookSecret,
		webAppURL: cfg.WebAppURL,
		log:       logger.With("handler", "telegram"),
	}
}

// Handle handles POST /api/telegram/webhook. Unhandled update kinds are
// acknowledged so Telegram does not retry them.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.secret != "" && r.Header.Get(SecretTokenHeader) != h.secret {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var update telegram.Update
	if err := decodeJSON(r, &update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid update payload")
		return
	}

	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(w, r, update.CallbackQuery)
	case update.Message != nil && strings.HasPrefix(update.Message.Text, "/start"):
		h.handleStart(w, r, update.Message)
	default:
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func (h *WebhookHandler) handleStart(w http.ResponseWriter, r *http.Request, msg *telegram.Message) {
	if msg.From == nil || msg.Chat == nil {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}

	client, err := h.clients.ResolveOrCreate(r.Context(), &auth.Identity{
		TelegramID: msg.From.ID,
		Username:   msg.From.Username,
		FirstName:  msg.From.FirstName,
		LastName:   msg.From.LastName,
	})
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to resolve client",
			slog.Int64("telegram_id", msg.From.ID),
			slog.String("error", err.Error()))
		// Acknowledge anyway; Telegram retries failed webhooks aggressively.
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}

	if client.HasConsent() {
		writeJSON(w, http.StatusOK, telegram.WebhookReply{
			Method:      "sendMessage",
			ChatID:      msg.Chat.ID,
			Text:        openAppMsg,
			ReplyMarkup: h.webAppKeyboard(),
		})
		return
	}

	writeJSON(w, http.StatusOK, telegram.WebhookReply{
		Method: "sendMessage",
		ChatID: msg.Chat.ID,
		Text:   consentText,
		ReplyMarkup: &telegram.InlineKeyboardMarkup{
			InlineKeyboard: [][]telegram.InlineKeyboardButton{{
				{Text: "Принимаю", CallbackData: callbackConsentAccept},
				{Text: "Не принимаю", CallbackData: callbackConsentDecline},
			}},
		},
	})
}

func (h *WebhookHandler) handleCallback(w http.ResponseWriter, r *http.Request, cb *telegram.CallbackQuery) {
	if cb.From == nil || cb.Message == nil || cb.Message.Chat == nil {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}

	switch cb.Data {
	case callbackConsentAccept:
		if err := h.clients.RecordConsent(r.Context(), cb.From.ID); err != nil {
			h.log.ErrorContext(r.Context(), "failed to record consent",
				slog.Int64("telegram_id", cb.From.ID),
				slog.String("error", err.Error()))
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
			return
		}
		writeJSON(w, http.StatusOK, telegram.WebhookReply{
			Method:      "sendMessage",
			ChatID:      cb.Message.Chat.ID,
			Text:        consentAcceptedMsg,
			ReplyMarkup: h.webAppKeyboard(),
		})
	case callbackConsentDecline:
		writeJSON(w, http.StatusOK, telegram.WebhookReply{
			Method: "sendMessage",
			ChatID: cb.Message.Chat.ID,
			Text:   consentDeclinedMsg,
		})
	default:
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func (h *WebhookHandler) webAppKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{{
			{Text: "Открыть приложение", WebApp: &telegram.WebAppInfo{URL: h.webAppURL}},
		}},
	}
}
