package handlers

import (
	"github.com/go-telegram/bot"
)

// NewLogFoodHandler returns a handler for the /log_food command. It starts
// the food dialog; an inline argument ("/log_food banana") is fed straight
// into the dialog as the food query.
func NewLogFoodHandler(deps HandlerDeps) bot.HandlerFunc {
	return newDialogCommandHandler(deps, "log_food", deps.Engine.BeginFoodLog)
}
