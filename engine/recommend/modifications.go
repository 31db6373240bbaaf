package recommend

// Difficulty multiplier bounds. The multiplier scales prescribed workout
// difficulty and is always kept inside this band, whatever sequence of
// modifications is applied.
const (
	MinMultiplier = 0.5
	MaxMultiplier = 1.5
)

// multiplierDeltas are the fixed per-type multiplier adjustments. Structural
// types (addRecovery, shorterWorkouts, injuryModification, varietyIncrease)
// rewrite the upcoming workout set instead and leave the multiplier alone.
var multiplierDeltas = map[ModificationType]float64{
	ReduceIntensity:   -0.15,
	IncreaseIntensity: +0.1,
}

// ApplyMultiplier folds the modifications into the difficulty multiplier,
// clamping after every step so intermediate values can never escape the
// [MinMultiplier, MaxMultiplier] band.
func ApplyMultiplier(mods []Modification, current float64) float64 {
	multiplier := clampMultiplier(current)
	for _, mod := range mods {
		multiplier = clampMultiplier(multiplier + multiplierDeltas[mod.Type])
	}
	return multiplier
}

func clampMultiplier(v float64) float64 {
	if v < MinMultiplier {
		return MinMultiplier
	}
	if v > MaxMultiplier {
		return MaxMultiplier
	}
	return v
}
