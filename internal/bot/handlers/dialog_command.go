package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/fitbot/internal/conversation"
)

// newDialogCommandHandler builds a handler for the dialog-starting log
// commands. It calls begin to enter the dialog, then feeds any inline command
// argument into the dialog as if the user had typed it as a separate message.
func newDialogCommandHandler(deps HandlerDeps, name string, begin func(ctx context.Context, userID int64) (conversation.Reply, error)) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", name)

		chatID, userID, ok := messageContext(update)
		if !ok {
			log.WarnContext(ctx, "Dialog command received update with nil message or sender", "update_id", update.ID)
			return
		}

		reply, err := begin(ctx, userID)
		if err != nil {
			log.ErrorContext(ctx, "Failed to start dialog", "error", err, "user_id", userID)
			sendText(ctx, b, log, chatID, msgGeneralError)
			return
		}

		args := commandArgs(update.Message.Text)
		if args == "" || !deps.Engine.DialogActive(userID) {
			sendText(ctx, b, log, chatID, reply.Text)
			return
		}

		// Skip the first prompt and answer it with the inline argument.
		reply, _, err = deps.Engine.HandleText(ctx, userID, args)
		if err != nil {
			log.ErrorContext(ctx, "Failed to process inline argument", "error", err, "user_id", userID)
			sendText(ctx, b, log, chatID, msgGeneralError)
			return
		}
		sendText(ctx, b, log, chatID, reply.Text)
	}
}
