package checkin

// Fixed lexicons for the heuristic text scan. The extractor is intentionally
// a transparent, inspectable heuristic: closed word lists, no model.

var positiveWords = []string{
	"great", "good", "strong", "energized", "motivated", "progress",
	"awesome", "easy", "improved", "happy", "enjoyed", "confident",
	"fun", "better", "love", "proud",
}

var negativeWords = []string{
	"tired", "exhausted", "hard", "struggle", "struggling", "skip",
	"skipped", "bad", "worse", "hate", "boring", "bored", "unmotivated",
	"stressed", "difficult", "drained",
}

// painKeywords flag a possible physical limitation on their own; combined
// with a nearby body part they produce a targeted limitation entry.
var painKeywords = []string{
	"pain", "painful", "hurt", "hurts", "hurting", "sore", "soreness",
	"ache", "aching", "injury", "injured", "strain", "strained",
	"tweaked", "pulled",
}

var bodyParts = []string{
	"back", "knee", "knees", "shoulder", "shoulders", "neck", "hip",
	"hips", "ankle", "ankles", "wrist", "wrists", "elbow", "elbows",
	"hamstring", "hamstrings", "quad", "quads", "calf", "calves", "chest",
}

// busyKeywords signal a life disruption that competes with training time.
var busyKeywords = []string{
	"busy", "travel", "traveling", "travelling", "trip", "meetings",
	"meeting", "deadline", "deadlines", "vacation", "holiday", "overtime",
	"conference", "exams", "moving",
}

// workoutWords mark a sentence as feedback about the training itself.
var workoutWords = []string{
	"workout", "workouts", "exercise", "exercises", "training", "session",
	"sessions", "routine", "sets", "reps",
}

// canonicalBodyPart collapses plural forms so deduplication and the
// exercise-avoidance rules key on a single spelling.
func canonicalBodyPart(word string) string {
	switch word {
	case "knees":
		return "knee"
	case "shoulders":
		return "shoulder"
	case "hips":
		return "hip"
	case "ankles":
		return "ankle"
	case "wrists":
		return "wrist"
	case "elbows":
		return "elbow"
	case "hamstrings":
		return "hamstring"
	case "quads":
		return "quad"
	case "calves":
		return "calf"
	default:
		return word
	}
}
