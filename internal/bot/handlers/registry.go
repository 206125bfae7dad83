package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler bundles a handler function with its registration
// parameters and per-handler middleware.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands builds the map of all bot commands and callback
// handlers, keyed by their user-facing name.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	command := func(pattern string, h tgbot.HandlerFunc) RegisteredHandler {
		return RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     pattern,
			Handler:     h,
			MatchType:   tgbot.MatchTypeCommandStartOnly,
		}
	}

	handlers["/start"] = command("start", NewStartHandler(deps))
	handlers["/help"] = command("help", NewHelpHandler(deps))
	handlers["/log_water"] = command("log_water", NewLogWaterHandler(deps))
	handlers["/log_food"] = command("log_food", NewLogFoodHandler(deps))
	handlers["/log_workout"] = command("log_workout", NewLogWorkoutHandler(deps))
	handlers["/progress"] = command("progress", NewProgressHandler(deps))
	handlers["/history"] = command("history", NewHistoryHandler(deps))
	handlers["/cancel"] = command("cancel", NewCancelHandler(deps))

	// One dispatcher covers every inline-keyboard button.
	handlers["callbacks"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "",
		Handler:     NewCallbackHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}

	return handlers
}
