// Package checkin converts free-text weekly check-ins into structured
// signals: sentiment, physical limitations, busy periods and relative date
// ranges. Everything is a deterministic lexicon scan over lowercased tokens.
//
// Two sentiment scales exist deliberately and must not be unified: the raw
// polarity Score on [-1, 1] and the MotivationScore on [0, 1]. They are
// computed from the same hit counts but consumed by different recommendation
// rules; merging them is pending a product decision.
package checkin

import (
	"strings"
	"time"
	"unicode"

	"github.com/lithammer/shortuuid/v4"
)

// Polarity is the banded classification of a sentiment score.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
	PolarityNeutral  Polarity = "neutral"
)

// Sentiment is the raw-scale sentiment result.
// Score is on [-1, 1]; bands are positive above +0.1, negative below -0.1.
type Sentiment struct {
	Polarity   Polarity
	Score      float64
	Confidence float64
}

// Analysis is the immutable result of one check-in submission.
type Analysis struct {
	UID     string
	RawText string

	Sentiment Sentiment

	// MotivationScore is the [0, 1] scale: 0.5 baseline, +0.1 per positive
	// hit, -0.1 per negative hit, clamped. Distinct from Sentiment.Score by
	// design; see the package comment.
	MotivationScore float64

	PhysicalLimitations []string
	WorkoutFeedback     []string
	BusyPeriods         []string
	ProcessedAt         time.Time
}

// limitationWindow is how many tokens apart a pain keyword and a body part
// may sit, in either order, and still be treated as one limitation.
const limitationWindow = 3

// Extract runs all extractors over the check-in text. Empty input yields an
// empty, neutral analysis; that is not an error.
func Extract(text string, now time.Time) Analysis {
	return Analysis{
		UID:                 shortuuid.New(),
		RawText:             text,
		Sentiment:           AnalyzeSentiment(text),
		MotivationScore:     MotivationScore(text),
		PhysicalLimitations: Limitations(text),
		WorkoutFeedback:     workoutFeedback(text),
		BusyPeriods:         BusyPeriods(text),
		ProcessedAt:         now,
	}
}

// AnalyzeSentiment scores text on the raw [-1, 1] scale: +0.1 per positive
// word occurrence, -0.1 per negative one.
func AnalyzeSentiment(text string) Sentiment {
	positives, negatives := lexiconHits(text)
	score := clamp(0.1*float64(positives)-0.1*float64(negatives), -1, 1)

	sentiment := Sentiment{
		Score:      score,
		Polarity:   PolarityNeutral,
		Confidence: confidence(positives + negatives),
	}
	switch {
	case score > 0.1:
		sentiment.Polarity = PolarityPositive
	case score < -0.1:
		sentiment.Polarity = PolarityNegative
	}
	return sentiment
}

// MotivationScore scores text on the [0, 1] motivational scale: 0.5
// baseline, +0.1 per positive hit, -0.1 per negative hit, clamped. Above 0.6
// reads as positive, below 0.4 as negative.
func MotivationScore(text string) float64 {
	positives, negatives := lexiconHits(text)
	return clamp(0.5+0.1*float64(positives)-0.1*float64(negatives), 0, 1)
}

// Limitations scans for pain keywords and nearby body parts. A pain word
// adjacent to a body part (either order, within limitationWindow tokens)
// emits a combined "part: pain" entry; a pain word on its own emits the bare
// keyword. Results are deduplicated in encounter order.
func Limitations(text string) []string {
	words := tokenize(text)

	painAt := map[int]string{}
	partAt := map[int]string{}
	for i, w := range words {
		if containsWord(painKeywords, w) {
			painAt[i] = w
		}
		if containsWord(bodyParts, w) {
			partAt[i] = canonicalBodyPart(w)
		}
	}

	var out []string
	seen := map[string]bool{}
	for i := range words {
		pain, ok := painAt[i]
		if !ok {
			continue
		}
		entry := pain
		for j := i - limitationWindow; j <= i+limitationWindow; j++ {
			if part, ok := partAt[j]; ok {
				entry = part + ": " + pain
				break
			}
		}
		if !seen[entry] {
			seen[entry] = true
			out = append(out, entry)
		}
	}
	return out
}

// BusyPeriods returns the life-disruption keywords present in the text,
// deduplicated in encounter order.
func BusyPeriods(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, w := range tokenize(text) {
		if containsWord(busyKeywords, w) && !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

// workoutFeedback keeps the sentences that talk about the training itself.
func workoutFeedback(text string) []string {
	var out []string
	for _, sentence := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	}) {
		trimmed := strings.TrimSpace(sentence)
		if trimmed == "" {
			continue
		}
		for _, w := range tokenize(trimmed) {
			if containsWord(workoutWords, w) {
				out = append(out, trimmed)
				break
			}
		}
	}
	return out
}

func lexiconHits(text string) (positives, negatives int) {
	for _, w := range tokenize(text) {
		if containsWord(positiveWords, w) {
			positives++
		}
		if containsWord(negativeWords, w) {
			negatives++
		}
	}
	return positives, negatives
}

// confidence grows with the number of lexicon hits: no hits means we are
// guessing (0.2), each hit adds 0.15 up to 1.
func confidence(hits int) float64 {
	return clamp(0.2+0.15*float64(hits), 0, 1)
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func containsWord(list []string, word string) bool {
	for _, item := range list {
		if item == word {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
