package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewTextHandler returns the default handler for free-text messages. It
// routes the text into the user's active dialog; outside a dialog the message
// is answered with a pointer to /help.
func NewTextHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "text")

		chatID, userID, ok := messageContext(update)
		if !ok {
			return
		}

		text := update.Message.Text
		if text == "" || strings.HasPrefix(text, "/") {
			return
		}

		reply, handled, err := deps.Engine.HandleText(ctx, userID, text)
		if err != nil {
			log.ErrorContext(ctx, "Failed to process dialog input", "error", err, "user_id", userID)
			sendText(ctx, b, log, chatID, msgGeneralError)
			return
		}
		if !handled {
			sendText(ctx, b, log, chatID, "I didn't get that. See /help for the list of commands.")
			return
		}

		sendText(ctx, b, log, chatID, reply.Text)
	}
}
