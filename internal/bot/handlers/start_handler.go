package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStartHandler returns a handler for the /start command. It greets the
// user and shows either the profile-creation button or the main menu,
// depending on whether a profile exists.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")

	chatID, userID, ok := messageContext(update)
	if !ok {
		log.WarnContext(ctx, "Start handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	log.InfoContext(ctx, "Handling /start command", "chat_id", chatID, "user_id", userID)

	p, err := h.deps.Profiles.Get(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to fetch profile", "error", err, "user_id", userID)
		sendText(ctx, b, log, chatID, msgGeneralError)
		return
	}

	var keyboard [][]models.InlineKeyboardButton
	if p == nil {
		keyboard = [][]models.InlineKeyboardButton{
			{{Text: "📝 Create profile", CallbackData: "create_profile"}},
		}
	} else {
		keyboard = [][]models.InlineKeyboardButton{
			{{Text: "⚙️ Profile settings", CallbackData: "profile_settings"}},
			{{Text: "📊 Today's progress", CallbackData: "full_progress"}},
		}
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        "🏋️ Welcome to FitBot!\n\nPick an action below:",
		ReplyMarkup: &models.InlineKeyboardMarkup{InlineKeyboard: keyboard},
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send welcome message", "error", err, "chat_id", chatID)
	}
}
