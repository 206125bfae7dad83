package conversation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/edgard/fitbot/internal/goals"
	"github.com/edgard/fitbot/internal/ledger"
	"github.com/edgard/fitbot/internal/lookup"
	"github.com/edgard/fitbot/internal/profile"
)

// User-facing dialog messages. The transport renders these verbatim.
const (
	msgNoProfile       = "You don't have a profile yet. Create one first with the \"Create profile\" button under /start."
	msgProfileExists   = "You already have a profile. Use the profile settings under /start to edit it."
	msgAskWeight       = "Enter your weight in kg:"
	msgAskHeight       = "Enter your height in cm:"
	msgAskAge          = "Enter your age:"
	msgAskActivity     = "How many minutes of activity do you get per day?"
	msgAskCity         = "Enter your city:"
	msgAskWaterAmount  = "How many milliliters of water did you drink?"
	msgAskFoodQuery    = "What did you eat?"
	msgAskWorkout      = "What activity did you do?"
	msgAskDuration     = "How many minutes did it take?"
	msgCancelled       = "Dialog cancelled."
	msgNothingToCancel = "Nothing to cancel."
	msgLookupFoodFail  = "Couldn't find nutrition data for that food. Dialog cancelled, try /log_food again."
	msgLookupSportFail = "Couldn't find calorie data for that activity. Dialog cancelled, try /log_workout again."

	msgBadNumber   = "Please enter a positive number."
	msgBadInteger  = "Please enter a positive whole number."
	msgBadDuration = "Please enter the duration as a positive whole number of minutes."
	msgBadText     = "Please enter a non-empty text."
)

// Engine drives the per-user dialog state machine. All collaborator calls
// happen inside per-identity critical sections, so a user's messages are
// processed strictly in arrival order while different users proceed in
// parallel.
type Engine struct {
	profiles  *profile.Service
	ledger    *ledger.Ledger
	nutrition lookup.NutritionClient
	exercise  lookup.ExerciseClient
	weather   lookup.WeatherClient
	logger    *slog.Logger

	sessions *sessionStore
	locks    *identityMutex
}

// NewEngine creates a dialog engine wired to its collaborators.
func NewEngine(
	profiles *profile.Service,
	ledg *ledger.Ledger,
	nutrition lookup.NutritionClient,
	exercise lookup.ExerciseClient,
	weather lookup.WeatherClient,
	logger *slog.Logger,
) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		profiles:  profiles,
		ledger:    ledg,
		nutrition: nutrition,
		exercise:  exercise,
		weather:   weather,
		logger:    logger.With("component", "conversation"),
		sessions:  newSessionStore(),
		locks:     newIdentityMutex(),
	}
}

// BeginProfileCreation starts the profile-creation dialog.
func (e *Engine) BeginProfileCreation(ctx context.Context, userID int64) (Reply, error) {
	defer e.locks.Lock(userID)()

	p, err := e.profiles.Get(ctx, userID)
	if err != nil {
		return Reply{}, err
	}
	if p != nil {
		return Reply{Text: msgProfileExists}, nil
	}

	e.sessions.set(userID, &session{State: StateAwaitWeight, Pending: &profileDraft{}})
	e.logger.InfoContext(ctx, "Profile creation dialog started", "user_id", userID)
	return Reply{Text: msgAskWeight}, nil
}

// BeginEdit starts the single-field edit dialog for the given profile field.
// Rejected when the user has no profile yet.
func (e *Engine) BeginEdit(ctx context.Context, userID int64, field profile.Field) (Reply, error) {
	defer e.locks.Lock(userID)()

	p, err := e.profiles.Get(ctx, userID)
	if err != nil {
		return Reply{}, err
	}
	if p == nil {
		return Reply{Text: msgNoProfile}, nil
	}

	var prompt string
	switch field {
	case profile.FieldWeight:
		prompt = msgAskWeight
	case profile.FieldHeight:
		prompt = msgAskHeight
	case profile.FieldAge:
		prompt = msgAskAge
	case profile.FieldActivity:
		prompt = msgAskActivity
	case profile.FieldCity:
		prompt = msgAskCity
	default:
		return Reply{}, fmt.Errorf("unknown profile field %q", field)
	}

	e.sessions.set(userID, &session{State: StateAwaitEditValue, Pending: &fieldEdit{Field: field}})
	e.logger.InfoContext(ctx, "Profile edit dialog started", "user_id", userID, "field", field)
	return Reply{Text: prompt}, nil
}

// BeginWaterLog starts the water-logging dialog.
func (e *Engine) BeginWaterLog(ctx context.Context, userID int64) (Reply, error) {
	return e.beginLogging(ctx, userID, StateAwaitWaterAmount, nil, msgAskWaterAmount)
}

// BeginFoodLog starts the food-logging dialog.
func (e *Engine) BeginFoodLog(ctx context.Context, userID int64) (Reply, error) {
	return e.beginLogging(ctx, userID, StateAwaitFoodQuery, nil, msgAskFoodQuery)
}

// BeginWorkoutLog starts the workout-logging dialog.
func (e *Engine) BeginWorkoutLog(ctx context.Context, userID int64) (Reply, error) {
	return e.beginLogging(ctx, userID, StateAwaitWorkoutActivity, nil, msgAskWorkout)
}

// beginLogging enters the first await state of a logging dialog, enforcing
// the profile-first rule before any state change.
func (e *Engine) beginLogging(ctx context.Context, userID int64, st State, pend pendingData, prompt string) (Reply, error) {
	defer e.locks.Lock(userID)()

	p, err := e.profiles.Get(ctx, userID)
	if err != nil {
		return Reply{}, err
	}
	if p == nil {
		return Reply{Text: msgNoProfile}, nil
	}

	e.sessions.set(userID, &session{State: st, Pending: pend})
	e.logger.InfoContext(ctx, "Logging dialog started", "user_id", userID, "state", st)
	return Reply{Text: prompt}, nil
}

// DialogActive reports whether the user currently has a dialog in progress.
func (e *Engine) DialogActive(userID int64) bool {
	return e.sessions.get(userID).State != StateIdle
}

// Cancel aborts the user's active dialog, discarding any pending data.
func (e *Engine) Cancel(userID int64) Reply {
	defer e.locks.Lock(userID)()

	if e.sessions.reset(userID) {
		e.logger.Info("Dialog cancelled", "user_id", userID)
		return Reply{Text: msgCancelled}
	}
	return Reply{Text: msgNothingToCancel}
}

// HandleText feeds a free-text message into the user's active dialog. The
// boolean result is false when the user is idle and the text is not dialog
// input; the dispatcher decides what to do with such messages.
//
// Input that doesn't match the state's expected shape re-prompts without
// advancing. A failed nutrition or exercise lookup aborts the dialog with no
// ledger mutation. Infrastructure errors leave the state unchanged so the
// user can retry.
func (e *Engine) HandleText(ctx context.Context, userID int64, text string) (Reply, bool, error) {
	defer e.locks.Lock(userID)()

	sess := e.sessions.get(userID)
	if sess.State == StateIdle {
		return Reply{}, false, nil
	}

	text = strings.TrimSpace(text)

	var (
		reply Reply
		err   error
	)
	switch sess.State {
	case StateAwaitWeight, StateAwaitHeight, StateAwaitAge, StateAwaitActivity, StateAwaitCity:
		reply, err = e.advanceCreation(ctx, userID, sess, text)
	case StateAwaitEditValue:
		reply, err = e.completeEdit(ctx, userID, sess, text)
	case StateAwaitWaterAmount:
		reply, err = e.completeWaterLog(ctx, userID, sess, text)
	case StateAwaitFoodQuery:
		reply, err = e.advanceFoodQuery(ctx, userID, sess, text)
	case StateAwaitFoodAmount:
		reply, err = e.completeFoodLog(ctx, userID, sess, text)
	case StateAwaitWorkoutActivity:
		reply, err = e.advanceWorkoutActivity(userID, sess, text)
	case StateAwaitWorkoutDuration:
		reply, err = e.completeWorkoutLog(ctx, userID, sess, text)
	default:
		// Unknown state means a bug or a stale session from an old version;
		// drop it rather than trapping the user.
		e.logger.Error("Unknown dialog state, resetting session", "user_id", userID, "state", sess.State)
		e.sessions.reset(userID)
		return Reply{}, false, nil
	}

	return reply, true, err
}

// advanceCreation handles one step of the profile-creation dialog.
func (e *Engine) advanceCreation(ctx context.Context, userID int64, sess *session, text string) (Reply, error) {
	draft, ok := sess.Pending.(*profileDraft)
	if !ok {
		e.sessions.reset(userID)
		return Reply{}, fmt.Errorf("profile creation state without draft data for user %d", userID)
	}

	switch sess.State {
	case StateAwaitWeight:
		v, ok := parsePositiveFloat(text)
		if !ok {
			return Reply{Text: msgBadNumber}, nil
		}
		draft.WeightKG = v
		sess.State = StateAwaitHeight
		e.sessions.set(userID, sess)
		return Reply{Text: msgAskHeight}, nil

	case StateAwaitHeight:
		v, ok := parsePositiveFloat(text)
		if !ok {
			return Reply{Text: msgBadNumber}, nil
		}
		draft.HeightCM = v
		sess.State = StateAwaitAge
		e.sessions.set(userID, sess)
		return Reply{Text: msgAskAge}, nil

	case StateAwaitAge:
		v, ok := parsePositiveInt(text)
		if !ok {
			return Reply{Text: msgBadInteger}, nil
		}
		draft.AgeYears = v
		sess.State = StateAwaitActivity
		e.sessions.set(userID, sess)
		return Reply{Text: msgAskActivity}, nil

	case StateAwaitActivity:
		v, ok := parseNonNegativeInt(text)
		if !ok {
			return Reply{Text: msgBadInteger}, nil
		}
		draft.ActivityMinutes = v
		sess.State = StateAwaitCity
		e.sessions.set(userID, sess)
		return Reply{Text: msgAskCity}, nil

	case StateAwaitCity:
		if text == "" {
			return Reply{Text: msgBadText}, nil
		}
		return e.completeCreation(ctx, userID, draft, text)
	}

	return Reply{}, fmt.Errorf("unexpected creation state %q", sess.State)
}

// completeCreation runs the terminal action of the creation dialog: weather
// lookup for the city (degrading to an unknown temperature on failure) and
// profile persistence with computed goals.
func (e *Engine) completeCreation(ctx context.Context, userID int64, draft *profileDraft, city string) (Reply, error) {
	tempC := e.temperatureFor(ctx, city)

	p, err := e.profiles.Create(ctx, userID, profile.Attributes{
		WeightKG:        draft.WeightKG,
		HeightCM:        draft.HeightCM,
		AgeYears:        draft.AgeYears,
		ActivityMinutes: draft.ActivityMinutes,
		City:            city,
	}, tempC)
	if err != nil {
		if errors.Is(err, profile.ErrProfileExists) {
			e.sessions.reset(userID)
			return Reply{Text: msgProfileExists}, nil
		}
		// Keep the dialog open; the user can resend the city to retry.
		return Reply{}, err
	}

	e.sessions.reset(userID)

	var sb strings.Builder
	sb.WriteString("✅ Profile created!\n")
	if tempC != nil {
		fmt.Fprintf(&sb, "🌡 Temperature in %s: %.1f°C\n", p.City, *tempC)
	} else {
		fmt.Fprintf(&sb, "🌡 Temperature in %s is unavailable right now.\n", p.City)
	}
	fmt.Fprintf(&sb, "💧 Daily water goal: %.0f ml\n", p.WaterGoalML)
	fmt.Fprintf(&sb, "🔥 Daily calorie goal: %.1f kcal", p.CalorieGoalKcal)
	return Reply{Text: sb.String()}, nil
}

// completeEdit runs the terminal action of a field-edit dialog.
func (e *Engine) completeEdit(ctx context.Context, userID int64, sess *session, text string) (Reply, error) {
	edit, ok := sess.Pending.(*fieldEdit)
	if !ok {
		e.sessions.reset(userID)
		return Reply{}, fmt.Errorf("edit state without field data for user %d", userID)
	}

	var (
		numeric float64
		city    string
	)
	switch edit.Field {
	case profile.FieldWeight, profile.FieldHeight:
		v, ok := parsePositiveFloat(text)
		if !ok {
			return Reply{Text: msgBadNumber}, nil
		}
		numeric = v
	case profile.FieldAge:
		v, ok := parsePositiveInt(text)
		if !ok {
			return Reply{Text: msgBadInteger}, nil
		}
		numeric = float64(v)
	case profile.FieldActivity:
		v, ok := parseNonNegativeInt(text)
		if !ok {
			return Reply{Text: msgBadInteger}, nil
		}
		numeric = float64(v)
	case profile.FieldCity:
		if text == "" {
			return Reply{Text: msgBadText}, nil
		}
		city = text
	}

	// Goal recomputation wants the temperature for the city the profile will
	// have after the edit.
	weatherCity := city
	if weatherCity == "" {
		p, err := e.profiles.Get(ctx, userID)
		if err != nil {
			return Reply{}, err
		}
		if p == nil {
			e.sessions.reset(userID)
			return Reply{Text: msgNoProfile}, nil
		}
		weatherCity = p.City
	}
	tempC := e.temperatureFor(ctx, weatherCity)

	p, err := e.profiles.UpdateFieldAndRecompute(ctx, userID, edit.Field, numeric, city, tempC)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			e.sessions.reset(userID)
			return Reply{Text: msgNoProfile}, nil
		}
		return Reply{}, err
	}

	e.sessions.reset(userID)
	text = fmt.Sprintf("✅ Profile updated.\n💧 Daily water goal: %.0f ml\n🔥 Daily calorie goal: %.1f kcal",
		p.WaterGoalML, p.CalorieGoalKcal)
	return Reply{Text: text}, nil
}

// completeWaterLog runs the terminal action of the water dialog.
func (e *Engine) completeWaterLog(ctx context.Context, userID int64, sess *session, text string) (Reply, error) {
	amount, ok := parsePositiveFloat(text)
	if !ok {
		return Reply{Text: msgBadNumber}, nil
	}

	if err := e.ledger.AddWater(ctx, userID, amount); err != nil {
		return Reply{}, err
	}
	e.sessions.reset(userID)

	record, err := e.ledger.GetOrCreateToday(ctx, userID)
	if err != nil {
		return Reply{}, err
	}
	p, err := e.profiles.Get(ctx, userID)
	if err != nil || p == nil {
		// The amount is already logged; report it without the remaining figure.
		return Reply{Text: fmt.Sprintf("💧 Logged %.0f ml of water.", amount)}, nil
	}

	remaining := p.WaterGoalML - record.WaterLoggedML
	if remaining < 0 {
		remaining = 0
	}
	return Reply{Text: fmt.Sprintf("💧 Logged %.0f ml of water. Remaining today: %.0f ml", amount, remaining)}, nil
}

// advanceFoodQuery handles the nutrition lookup between the two food steps.
func (e *Engine) advanceFoodQuery(ctx context.Context, userID int64, sess *session, text string) (Reply, error) {
	if text == "" {
		return Reply{Text: msgBadText}, nil
	}

	info, err := e.nutrition.Lookup(ctx, text)
	if err != nil {
		// Lookup failure aborts the dialog; nothing was written yet.
		e.logger.WarnContext(ctx, "Nutrition lookup failed, aborting food dialog",
			"user_id", userID, "query", text, "error", err)
		e.sessions.reset(userID)
		return Reply{Text: msgLookupFoodFail}, nil
	}

	sess.State = StateAwaitFoodAmount
	sess.Pending = &foodPending{Name: info.Name, KcalPer100g: info.KcalPer100g}
	e.sessions.set(userID, sess)

	return Reply{Text: fmt.Sprintf("🍎 %s — %.1f kcal per 100 g.\nHow many grams did you eat?",
		info.Name, info.KcalPer100g)}, nil
}

// completeFoodLog runs the terminal action of the food dialog.
func (e *Engine) completeFoodLog(ctx context.Context, userID int64, sess *session, text string) (Reply, error) {
	food, ok := sess.Pending.(*foodPending)
	if !ok {
		e.sessions.reset(userID)
		return Reply{}, fmt.Errorf("food amount state without lookup data for user %d", userID)
	}

	grams, okNum := parsePositiveInt(text)
	if !okNum {
		return Reply{Text: msgBadInteger}, nil
	}

	calories := float64(grams) * 0.01 * food.KcalPer100g
	if err := e.ledger.AddCaloriesLogged(ctx, userID, calories); err != nil {
		return Reply{}, err
	}

	e.sessions.reset(userID)
	return Reply{Text: fmt.Sprintf("🍽 Logged %d g of %s: %.1f kcal added.", grams, food.Name, calories)}, nil
}

// advanceWorkoutActivity stores the activity name and asks for the duration.
func (e *Engine) advanceWorkoutActivity(userID int64, sess *session, text string) (Reply, error) {
	if text == "" {
		return Reply{Text: msgBadText}, nil
	}

	sess.State = StateAwaitWorkoutDuration
	sess.Pending = &workoutPending{Activity: text}
	e.sessions.set(userID, sess)
	return Reply{Text: msgAskDuration}, nil
}

// completeWorkoutLog runs the terminal action of the workout dialog: exercise
// lookup, burned-calories increment, and the post-workout water advice.
func (e *Engine) completeWorkoutLog(ctx context.Context, userID int64, sess *session, text string) (Reply, error) {
	workout, ok := sess.Pending.(*workoutPending)
	if !ok {
		e.sessions.reset(userID)
		return Reply{}, fmt.Errorf("workout duration state without activity data for user %d", userID)
	}

	minutes, okNum := parsePositiveInt(text)
	if !okNum {
		return Reply{Text: msgBadDuration}, nil
	}

	info, err := e.exercise.Lookup(ctx, workout.Activity, minutes)
	if err != nil {
		e.logger.WarnContext(ctx, "Exercise lookup failed, aborting workout dialog",
			"user_id", userID, "activity", workout.Activity, "error", err)
		e.sessions.reset(userID)
		return Reply{Text: msgLookupSportFail}, nil
	}

	if err := e.ledger.AddCaloriesBurned(ctx, userID, info.TotalKcal); err != nil {
		return Reply{}, err
	}
	e.sessions.reset(userID)

	var sb strings.Builder
	fmt.Fprintf(&sb, "🏃 %s for %d min — %.1f kcal burned.", info.Activity, minutes, info.TotalKcal)
	if bonus := goals.WorkoutWaterBonus(minutes); bonus > 0 {
		fmt.Fprintf(&sb, "\n💧 Drink an extra %.0f ml of water after that workout.", bonus)
	}
	return Reply{Text: sb.String()}, nil
}

// temperatureFor resolves the current temperature for a city, degrading to
// nil (unknown) on any failure. The water-goal formula simply skips the
// hot-weather bonus in that case.
func (e *Engine) temperatureFor(ctx context.Context, city string) *float64 {
	temp, err := e.weather.Temperature(ctx, city)
	if err != nil {
		e.logger.WarnContext(ctx, "Weather lookup failed, computing goals without temperature",
			"city", city, "error", err)
		return nil
	}
	return &temp
}

func parsePositiveFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func parsePositiveInt(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func parseNonNegativeInt(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
