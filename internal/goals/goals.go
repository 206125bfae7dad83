// Package goals computes personalized daily water and calorie targets from
// profile attributes and ambient temperature. All functions are pure; input
// validation belongs to the caller.
package goals

// hotWeatherThresholdC is the temperature above which the daily water goal
// gets a fixed bonus.
const hotWeatherThresholdC = 25.0

// WaterGoal returns the daily water target in milliliters.
//
// The target is weight-based (30 ml per kg) plus 500 ml per full half hour of
// daily activity, plus a 500 ml hot-weather bonus above 25°C. A nil
// temperature means the weather lookup was unavailable; the bonus is simply
// skipped in that case.
func WaterGoal(weightKG float64, activityMinutes int, tempC *float64) float64 {
	base := weightKG * 30
	activityBonus := float64(activityMinutes/30) * 500

	var tempBonus float64
	if tempC != nil && *tempC > hotWeatherThresholdC {
		tempBonus = 500
	}

	return base + activityBonus + tempBonus
}

// CalorieGoal returns the daily calorie target in kilocalories.
//
// The formula is Mifflin-St Jeor without the sex offset, scaled by a flat
// 1.5 activity multiplier. The multiplier is a deliberate product constant;
// do not "correct" it to the textbook value.
func CalorieGoal(weightKG, heightCM float64, ageYears int) float64 {
	return (10*weightKG + 6.25*heightCM - 5*float64(ageYears)) * 1.5
}

// WorkoutWaterBonus returns the extra water intake in milliliters recommended
// after a workout: 500 ml per full hour of exercise. This is advice attached
// to a workout log entry, distinct from the daily water goal.
func WorkoutWaterBonus(durationMinutes int) float64 {
	return float64(durationMinutes/60) * 500
}
