package handlers

import (
	"github.com/go-telegram/bot"
)

// NewLogWaterHandler returns a handler for the /log_water command. It starts
// the water dialog; an inline argument ("/log_water 300") is fed straight
// into the dialog as the first answer.
func NewLogWaterHandler(deps HandlerDeps) bot.HandlerFunc {
	return newDialogCommandHandler(deps, "log_water", deps.Engine.BeginWaterLog)
}
