package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewCancelHandler returns a handler for the /cancel command, aborting any
// dialog in progress.
func NewCancelHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "cancel")

		chatID, userID, ok := messageContext(update)
		if !ok {
			log.WarnContext(ctx, "Cancel handler received update with nil message or sender", "update_id", update.ID)
			return
		}

		reply := deps.Engine.Cancel(userID)
		sendText(ctx, b, log, chatID, reply.Text)
	}
}
