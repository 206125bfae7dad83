package handlers

import (
	"log/slog"

	"github.com/edgard/fitbot/internal/conversation"
	"github.com/edgard/fitbot/internal/ledger"
	"github.com/edgard/fitbot/internal/profile"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger   *slog.Logger
	Engine   *conversation.Engine
	Profiles *profile.Service
	Ledger   *ledger.Ledger
}
