package handlers

import (
	"github.com/go-telegram/bot"
)

// NewLogWorkoutHandler returns a handler for the /log_workout command. It
// starts the workout dialog; an inline argument ("/log_workout running") is
// fed straight into the dialog as the activity name.
func NewLogWorkoutHandler(deps HandlerDeps) bot.HandlerFunc {
	return newDialogCommandHandler(deps, "log_workout", deps.Engine.BeginWorkoutLog)
}
