package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const helpText = `🏋️ FitBot commands

/start — main menu: create your profile or open settings
/log_water [ml] — log drinking water
/log_food [food] — log a meal (calories looked up automatically)
/log_workout [activity] — log a workout (burned calories looked up automatically)
/progress — today's water and calorie totals against your goals
/history [days] — daily totals for the last days (default 7, max 31)
/cancel — abort the current dialog
/help — this message

Logging commands work as short dialogs: the bot asks one question at a time. Answer in plain text, or pass the first answer right after the command.`

// NewHelpHandler returns a handler for the /help command.
func NewHelpHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "help")

		chatID, _, ok := messageContext(update)
		if !ok {
			log.WarnContext(ctx, "Help handler received update with nil message or sender", "update_id", update.ID)
			return
		}

		sendText(ctx, b, log, chatID, helpText)
	}
}
