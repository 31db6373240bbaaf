package recommend

import (
	"strings"

	"github.com/hrygo/fitflow/engine/history"
)

// Exercise is one prescribed movement inside an upcoming workout. The JSON
// shape is also the stored exercise-list payload.
type Exercise struct {
	Name          string   `json:"name"`
	TargetMuscles []string `json:"targetMuscles"`
	DurationMin   int      `json:"durationMin"`
}

// PlannedWorkout is an upcoming workout subject to structural rewriting.
type PlannedWorkout struct {
	UID       string
	Focus     history.Focus
	Exercises []Exercise
}

// shortWorkoutMaxExercises caps the exercise count when shorterWorkouts
// fires.
const shortWorkoutMaxExercises = 4

// avoidKeywords lists exercise-name fragments to avoid per affected body
// part, on top of the target-muscle intersection check.
var avoidKeywords = map[string][]string{
	"back":     {"deadlift", "squat", "good morning", "bent-over row"},
	"knee":     {"jump", "lunge", "box step", "pistol", "squat"},
	"shoulder": {"overhead press", "push press", "dip", "snatch"},
	"wrist":    {"push-up", "front rack", "handstand"},
	"ankle":    {"jump", "sprint", "box step"},
}

// rehabCatalog is the small fixed set of substitutes injected when an injury
// rewrite strips too much of a workout.
var rehabCatalog = map[string][]Exercise{
	"back": {
		{Name: "cat-cow stretch", TargetMuscles: []string{"core"}, DurationMin: 5},
		{Name: "bird dog", TargetMuscles: []string{"core", "glutes"}, DurationMin: 5},
		{Name: "glute bridge", TargetMuscles: []string{"glutes"}, DurationMin: 5},
	},
	"knee": {
		{Name: "straight leg raise", TargetMuscles: []string{"quads"}, DurationMin: 5},
		{Name: "clamshell", TargetMuscles: []string{"glutes"}, DurationMin: 5},
		{Name: "seated calf raise", TargetMuscles: []string{"calves"}, DurationMin: 5},
	},
	"shoulder": {
		{Name: "pendulum swing", TargetMuscles: []string{"rotator cuff"}, DurationMin: 5},
		{Name: "scapular retraction", TargetMuscles: []string{"upper back"}, DurationMin: 5},
		{Name: "band external rotation", TargetMuscles: []string{"rotator cuff"}, DurationMin: 5},
	},
}

// genericRehab covers body parts without a dedicated catalog entry.
var genericRehab = []Exercise{
	{Name: "gentle mobility flow", TargetMuscles: []string{"full body"}, DurationMin: 10},
	{Name: "easy walk", TargetMuscles: []string{"legs"}, DurationMin: 15},
}

var recoverySession = []Exercise{
	{Name: "foam rolling", TargetMuscles: []string{"full body"}, DurationMin: 10},
	{Name: "light stretching", TargetMuscles: []string{"full body"}, DurationMin: 15},
}

// AffectedBodyParts extracts the body parts named in limitation entries of
// the form "part: pain keyword". Bare pain keywords carry no part and are
// skipped.
func AffectedBodyParts(limitations []string) []string {
	var parts []string
	seen := map[string]bool{}
	for _, limitation := range limitations {
		idx := strings.Index(limitation, ":")
		if idx <= 0 {
			continue
		}
		part := strings.TrimSpace(limitation[:idx])
		if part != "" && !seen[part] {
			seen[part] = true
			parts = append(parts, part)
		}
	}
	return parts
}

// RewritePlan applies the structural modifications to the upcoming workout
// set and returns the rewritten copy. Input workouts are not mutated.
// Multiplicative modifications are ignored here; see ApplyMultiplier.
func RewritePlan(workouts []PlannedWorkout, mods []Modification, limitations []string) []PlannedWorkout {
	var injure, shorten, recover bool
	for _, mod := range mods {
		switch mod.Type {
		case InjuryModification:
			injure = true
		case ShorterWorkouts:
			shorten = true
		case AddRecovery:
			recover = true
		}
	}

	out := make([]PlannedWorkout, len(workouts))
	copy(out, workouts)

	if injure {
		parts := AffectedBodyParts(limitations)
		for i := range out {
			out[i] = rewriteForInjury(out[i], parts)
		}
	}
	if shorten {
		for i := range out {
			if len(out[i].Exercises) > shortWorkoutMaxExercises {
				out[i].Exercises = append([]Exercise(nil), out[i].Exercises[:shortWorkoutMaxExercises]...)
			}
		}
	}
	if recover && len(out) > 0 {
		// The last planned session becomes a light recovery day.
		last := &out[len(out)-1]
		last.Focus = history.FocusRecovery
		last.Exercises = append([]Exercise(nil), recoverySession...)
	}
	return out
}

// rewriteForInjury removes exercises loading the affected parts. If fewer
// than half the original exercises remain safe, rehabilitation substitutes
// for the affected parts are injected to keep the session worth doing.
func rewriteForInjury(workout PlannedWorkout, parts []string) PlannedWorkout {
	if len(parts) == 0 {
		return workout
	}

	var safe []Exercise
	for _, exercise := range workout.Exercises {
		if isExerciseSafe(exercise, parts) {
			safe = append(safe, exercise)
		}
	}

	if len(safe)*2 < len(workout.Exercises) {
		for _, part := range parts {
			catalog, ok := rehabCatalog[part]
			if !ok {
				catalog = genericRehab
			}
			safe = append(safe, catalog...)
		}
	}

	workout.Exercises = safe
	return workout
}

func isExerciseSafe(exercise Exercise, parts []string) bool {
	name := strings.ToLower(exercise.Name)
	for _, part := range parts {
		for _, muscle := range exercise.TargetMuscles {
			if strings.Contains(strings.ToLower(muscle), part) {
				return false
			}
		}
		for _, keyword := range avoidKeywords[part] {
			if strings.Contains(name, keyword) {
				return false
			}
		}
	}
	return true
}
