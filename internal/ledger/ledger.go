// Package ledger manages the per-user, per-day aggregate records: water
// logged, calories logged, and calories burned. Records are created lazily
// on first access for a day and mutated by additive increments only.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/edgard/fitbot/internal/database"
)

// ErrNegativeDelta is returned when a caller attempts to log a negative amount.
var ErrNegativeDelta = errors.New("amount must be non-negative")

// Ledger provides get-or-create and increment operations over daily records.
type Ledger struct {
	store  database.Store
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Ledger backed by the given store.
func New(store database.Store, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Ledger{
		store:  store,
		logger: logger.With("component", "ledger"),
		now:    time.Now,
	}
}

// GetOrCreateToday fetches today's record for the user, creating a zeroed one
// if absent. A concurrent creation for the same day is resolved by retrying
// as a fetch; the unique-key conflict never surfaces to the caller.
func (l *Ledger) GetOrCreateToday(ctx context.Context, userID int64) (*database.DailyRecord, error) {
	date := database.Day(l.now())

	record, err := l.store.GetDailyRecord(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily record: %w", err)
	}
	if record != nil {
		return record, nil
	}

	record, err = l.store.CreateDailyRecord(ctx, userID, date)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, database.ErrDuplicateRecord) {
		return nil, fmt.Errorf("failed to create daily record: %w", err)
	}

	// Lost the creation race; the row exists now.
	l.logger.DebugContext(ctx, "Daily record creation raced, fetching existing row",
		"user_id", userID, "date", date)
	record, err = l.store.GetDailyRecord(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily record after conflict: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("daily record for user %d on %s vanished after conflict", userID, date)
	}
	return record, nil
}

// AddWater adds amountML milliliters of water to today's record.
func (l *Ledger) AddWater(ctx context.Context, userID int64, amountML float64) error {
	return l.increment(ctx, userID, database.FieldWaterLoggedML, amountML)
}

// AddCaloriesLogged adds kcal consumed calories to today's record.
func (l *Ledger) AddCaloriesLogged(ctx context.Context, userID int64, kcal float64) error {
	return l.increment(ctx, userID, database.FieldCaloriesLoggedKcal, kcal)
}

// AddCaloriesBurned adds kcal burned calories to today's record.
func (l *Ledger) AddCaloriesBurned(ctx context.Context, userID int64, kcal float64) error {
	return l.increment(ctx, userID, database.FieldCaloriesBurnedKcal, kcal)
}

func (l *Ledger) increment(ctx context.Context, userID int64, field database.DailyField, delta float64) error {
	if delta < 0 {
		return ErrNegativeDelta
	}

	if _, err := l.GetOrCreateToday(ctx, userID); err != nil {
		return err
	}

	date := database.Day(l.now())
	if err := l.store.IncrementDailyRecord(ctx, userID, date, field, delta); err != nil {
		return fmt.Errorf("failed to increment %s: %w", field, err)
	}

	l.logger.InfoContext(ctx, "Logged daily amount",
		"user_id", userID, "date", date, "field", field, "delta", delta)
	return nil
}

// History returns the user's records in the inclusive [start, end] range,
// ascending by date. The result is empty when no records exist.
func (l *Ledger) History(ctx context.Context, userID int64, start, end time.Time) ([]*database.DailyRecord, error) {
	records, err := l.store.ListDailyRecords(ctx, userID, database.Day(start), database.Day(end))
	if err != nil {
		return nil, fmt.Errorf("failed to list daily records: %w", err)
	}
	return records, nil
}
