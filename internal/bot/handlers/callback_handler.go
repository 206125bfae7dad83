package handlers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/fitbot/internal/profile"
)

// NewCallbackHandler returns a handler for all inline-keyboard button
// presses: profile creation, the settings menu, per-field edits, and the
// progress view.
func NewCallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return callbackHandler{deps}.Handle
}

type callbackHandler struct {
	deps HandlerDeps
}

func (h callbackHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "callback")

	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	userID := cq.From.ID

	chatID := chatIDFromCallback(cq)
	if chatID == 0 {
		log.WarnContext(ctx, "Callback without accessible chat", "callback_query_id", cq.ID)
		return
	}

	// Acknowledge the button press so the client stops the spinner.
	if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID}); err != nil {
		log.WarnContext(ctx, "Failed to answer callback query", "error", err, "callback_query_id", cq.ID)
	}

	data := cq.Data
	log.InfoContext(ctx, "Handling callback", "user_id", userID, "data", data)

	switch {
	case data == "create_profile":
		reply, err := h.deps.Engine.BeginProfileCreation(ctx, userID)
		if err != nil {
			log.ErrorContext(ctx, "Failed to start profile creation", "error", err, "user_id", userID)
			sendText(ctx, b, log, chatID, msgGeneralError)
			return
		}
		sendText(ctx, b, log, chatID, reply.Text)

	case data == "profile_settings":
		h.sendSettingsMenu(ctx, b, log, chatID)

	case data == "full_progress":
		sendProgress(ctx, b, log, h.deps, chatID, userID)

	case data == "back_main":
		h.sendMainMenu(ctx, b, log, chatID)

	case strings.HasPrefix(data, "edit_"):
		field := profile.Field(strings.TrimPrefix(data, "edit_"))
		reply, err := h.deps.Engine.BeginEdit(ctx, userID, field)
		if err != nil {
			log.ErrorContext(ctx, "Failed to start profile edit", "error", err, "user_id", userID, "field", field)
			sendText(ctx, b, log, chatID, msgGeneralError)
			return
		}
		sendText(ctx, b, log, chatID, reply.Text)

	default:
		log.WarnContext(ctx, "Unknown callback data", "data", data, "user_id", userID)
	}
}

func (h callbackHandler) sendSettingsMenu(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64) {
	keyboard := [][]models.InlineKeyboardButton{
		{{Text: "⚖️ Weight", CallbackData: "edit_weight"}, {Text: "📏 Height", CallbackData: "edit_height"}},
		{{Text: "🎂 Age", CallbackData: "edit_age"}, {Text: "🏃 Activity", CallbackData: "edit_activity"}},
		{{Text: "🏙 City", CallbackData: "edit_city"}},
		{{Text: "⬅️ Back", CallbackData: "back_main"}},
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        "⚙️ Which profile field do you want to change?",
		ReplyMarkup: &models.InlineKeyboardMarkup{InlineKeyboard: keyboard},
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send settings menu", "error", err, "chat_id", chatID)
	}
}

func (h callbackHandler) sendMainMenu(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64) {
	keyboard := [][]models.InlineKeyboardButton{
		{{Text: "⚙️ Profile settings", CallbackData: "profile_settings"}},
		{{Text: "📊 Today's progress", CallbackData: "full_progress"}},
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        "Pick an action below:",
		ReplyMarkup: &models.InlineKeyboardMarkup{InlineKeyboard: keyboard},
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send main menu", "error", err, "chat_id", chatID)
	}
}

// chatIDFromCallback digs the chat ID out of the callback's message, which
// may be inaccessible for old messages.
func chatIDFromCallback(cq *models.CallbackQuery) int64 {
	if cq.Message.Message != nil {
		return cq.Message.Message.Chat.ID
	}
	if cq.Message.InaccessibleMessage != nil {
		return cq.Message.InaccessibleMessage.Chat.ID
	}
	return 0
}
