package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const (
	historyDefaultDays = 7
	historyMaxDays     = 31
)

// NewHistoryHandler returns a handler for the /history command. An optional
// numeric argument selects the window in days, capped at a month.
func NewHistoryHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "history")

		chatID, userID, ok := messageContext(update)
		if !ok {
			log.WarnContext(ctx, "History handler received update with nil message or sender", "update_id", update.ID)
			return
		}

		p, err := deps.Profiles.Get(ctx, userID)
		if err != nil {
			log.ErrorContext(ctx, "Failed to fetch profile", "error", err, "user_id", userID)
			sendText(ctx, b, log, chatID, msgGeneralError)
			return
		}
		if p == nil {
			sendText(ctx, b, log, chatID, msgNoProfileYet)
			return
		}

		days := historyDefaultDays
		if args := commandArgs(update.Message.Text); args != "" {
			v, err := strconv.Atoi(args)
			if err != nil || v <= 0 {
				sendText(ctx, b, log, chatID, "Usage: /history [days], e.g. /history 14")
				return
			}
			days = v
			if days > historyMaxDays {
				days = historyMaxDays
			}
		}

		end := time.Now()
		start := end.AddDate(0, 0, -(days - 1))
		records, err := deps.Ledger.History(ctx, userID, start, end)
		if err != nil {
			log.ErrorContext(ctx, "Failed to fetch history", "error", err, "user_id", userID, "days", days)
			sendText(ctx, b, log, chatID, msgGeneralError)
			return
		}

		if len(records) == 0 {
			sendText(ctx, b, log, chatID, fmt.Sprintf("No entries in the last %d days.", days))
			return
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "📅 Last %d days\n", days)
		for _, r := range records {
			fmt.Fprintf(&sb, "\n%s\n💧 %.0f ml · 🍽 %.1f kcal · 🔥 %.1f kcal",
				r.Date, r.WaterLoggedML, r.CaloriesLoggedKcal, r.CaloriesBurnedKcal)
		}
		sendText(ctx, b, log, chatID, sb.String())
	}
}
