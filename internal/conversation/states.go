// Package conversation implements the per-user finite-state machine driving
// FitBot's multi-turn dialogs: profile creation, profile field edits, and
// water/food/workout logging.
//
// Session state lives in memory only. Losing it on restart is acceptable;
// the user simply restarts the dialog.
package conversation

import (
	"github.com/edgard/fitbot/internal/profile"
)

// State identifies the dialog step a user is currently in. Every state
// except idle accepts exactly one input shape; anything else re-prompts
// without advancing.
type State string

// Dialog states, grouped by dialog family. Only one dialog can be active per
// user at a time.
const (
	StateIdle State = "idle"

	// Profile creation
	StateAwaitWeight   State = "await_weight"
	StateAwaitHeight   State = "await_height"
	StateAwaitAge      State = "await_age"
	StateAwaitActivity State = "await_activity"
	StateAwaitCity     State = "await_city"

	// Profile field edit
	StateAwaitEditValue State = "await_edit_value"

	// Logging dialogs
	StateAwaitWaterAmount     State = "await_water_amount"
	StateAwaitFoodQuery       State = "await_food_query"
	StateAwaitFoodAmount      State = "await_food_amount"
	StateAwaitWorkoutActivity State = "await_workout_activity"
	StateAwaitWorkoutDuration State = "await_workout_duration"
)

// pendingData is the tagged variant holding the partial input of the active
// dialog. Each dialog family has its own variant so a state can only see the
// fields that are valid for it.
type pendingData interface {
	pending()
}

// profileDraft accumulates the profile-creation answers collected so far.
type profileDraft struct {
	WeightKG        float64
	HeightCM        float64
	AgeYears        int
	ActivityMinutes int
}

// fieldEdit records which profile attribute the edit dialog is collecting.
type fieldEdit struct {
	Field profile.Field
}

// foodPending carries the nutrition-lookup result between the food query and
// amount steps.
type foodPending struct {
	Name        string
	KcalPer100g float64
}

// workoutPending carries the activity name between the workout activity and
// duration steps.
type workoutPending struct {
	Activity string
}

func (*profileDraft) pending()   {}
func (*fieldEdit) pending()      {}
func (*foodPending) pending()    {}
func (*workoutPending) pending() {}

// session is one user's conversation state.
type session struct {
	State   State
	Pending pendingData
}

// Reply is the engine's rendering instruction back to the transport: plain
// text for now, keyboards are composed by the dispatcher.
type Reply struct {
	Text string
}
