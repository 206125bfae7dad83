package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/fitbot/internal/database"
)

// newDailySummaryTask creates the scheduled task that sends every profiled
// user their day's totals against their goals. Users with no entries for the
// day are skipped; send failures (e.g. a user who blocked the bot) are logged
// and do not fail the run.
func newDailySummaryTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "daily_summary")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting daily summary task...")

		profiles, err := deps.Store.GetAllProfiles(ctx)
		if err != nil {
			return fmt.Errorf("failed to list profiles: %w", err)
		}

		date := database.Day(time.Now())
		sent := 0
		for _, p := range profiles {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			record, err := deps.Store.GetDailyRecord(ctx, p.UserID, date)
			if err != nil {
				log.ErrorContext(ctx, "Failed to fetch daily record", "error", err, "user_id", p.UserID, "date", date)
				continue
			}
			if record == nil {
				continue
			}

			_, err = deps.TgBot.SendMessage(ctx, &tgbot.SendMessageParams{
				ChatID: p.UserID,
				Text:   renderSummary(p, record),
			})
			if err != nil {
				log.WarnContext(ctx, "Failed to send daily summary", "error", err, "user_id", p.UserID)
				continue
			}
			sent++
		}

		log.InfoContext(ctx, "Daily summary task completed", "profiles", len(profiles), "sent", sent)
		return nil
	}
}

func renderSummary(p *database.Profile, r *database.DailyRecord) string {
	waterRemaining := p.WaterGoalML - r.WaterLoggedML
	if waterRemaining < 0 {
		waterRemaining = 0
	}

	var sb strings.Builder
	sb.WriteString("🌙 Your summary for today\n\n")
	fmt.Fprintf(&sb, "💧 Water: %.0f of %.0f ml (%.0f ml short)\n",
		r.WaterLoggedML, p.WaterGoalML, waterRemaining)
	fmt.Fprintf(&sb, "🍽 Calories eaten: %.1f of %.1f kcal\n",
		r.CaloriesLoggedKcal, p.CalorieGoalKcal)
	fmt.Fprintf(&sb, "🔥 Calories burned: %.1f kcal\n", r.CaloriesBurnedKcal)
	fmt.Fprintf(&sb, "⚖️ Balance: %.1f kcal", r.CaloriesLoggedKcal-r.CaloriesBurnedKcal)
	return sb.String()
}
