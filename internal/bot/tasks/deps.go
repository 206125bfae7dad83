// Package tasks implements scheduled tasks for the FitBot Telegram bot.
package tasks

import (
	"log/slog"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/fitbot/internal/config"
	"github.com/edgard/fitbot/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
	TgBot  *tgbot.Bot
}
