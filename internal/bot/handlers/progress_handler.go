package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/fitbot/internal/database"
)

// NewProgressHandler returns a handler for the /progress command: today's
// totals against both goals.
func NewProgressHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "progress")

		chatID, userID, ok := messageContext(update)
		if !ok {
			log.WarnContext(ctx, "Progress handler received update with nil message or sender", "update_id", update.ID)
			return
		}

		sendProgress(ctx, b, log, deps, chatID, userID)
	}
}

// sendProgress renders today's totals for the user. Viewing progress never
// creates a record; a missing day reads as all zeroes.
func sendProgress(ctx context.Context, b *bot.Bot, log *slog.Logger, deps HandlerDeps, chatID, userID int64) {
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

	today := time.Now()
	records, err := deps.Ledger.History(ctx, userID, today, today)
	if err != nil {
		log.ErrorContext(ctx, "Failed to fetch today's record", "error", err, "user_id", userID)
		sendText(ctx, b, log, chatID, msgGeneralError)
		return
	}

	var record database.DailyRecord
	if len(records) > 0 {
		record = *records[0]
	}

	waterRemaining := p.WaterGoalML - record.WaterLoggedML
	if waterRemaining < 0 {
		waterRemaining = 0
	}
	calorieBalance := record.CaloriesLoggedKcal - record.CaloriesBurnedKcal

	var sb strings.Builder
	sb.WriteString("📊 Progress for today\n\n")
	fmt.Fprintf(&sb, "💧 Water: %.0f of %.0f ml (%.0f ml to go)\n",
		record.WaterLoggedML, p.WaterGoalML, waterRemaining)
	fmt.Fprintf(&sb, "🍽 Calories eaten: %.1f of %.1f kcal\n",
		record.CaloriesLoggedKcal, p.CalorieGoalKcal)
	fmt.Fprintf(&sb, "🔥 Calories burned: %.1f kcal\n", record.CaloriesBurnedKcal)
	fmt.Fprintf(&sb, "⚖️ Balance: %.1f kcal", calorieBalance)

	sendText(ctx, b, log, chatID, sb.String())
}
