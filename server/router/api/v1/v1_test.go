package v1

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/fitflow/engine/behavior"
	"github.com/hrygo/fitflow/engine/checkin"
	"github.com/hrygo/fitflow/engine/history"
	"github.com/hrygo/fitflow/store"
)

func contextWithUserID(id string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func TestUserIDFromPath(t *testing.T) {
	id, err := userIDFromPath(contextWithUserID("42"))
	require.NoError(t, err)
	assert.Equal(t, int32(42), id)

	for _, bad := range []string{"", "abc", "0", "-3"} {
		_, err := userIDFromPath(contextWithUserID(bad))
		assert.Error(t, err, "id %q should be rejected", bad)
	}
}

func TestParseTime(t *testing.T) {
	parsed, err := parseTime("2026-03-23T18:00:00Z", "start")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 23, 18, 0, 0, 0, time.UTC), parsed)

	_, err = parseTime("23/03/2026", "start")
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestConvertPatterns(t *testing.T) {
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	patterns := behavior.DefaultPatterns(now)
	patterns.CompletionRate = 0.75
	day := time.Wednesday
	hour := 7
	focus := history.FocusHIIT
	patterns.MissedPatterns.MostProblematicDay = &day
	patterns.MissedPatterns.MostProblematicHour = &hour
	patterns.MissedPatterns.MostMissedType = &focus
	patterns.TypePreferences = map[history.Focus]int{history.FocusStrength: 4}

	dto := convertPatterns(patterns)
	assert.Equal(t, 0.75, dto.CompletionRate)
	require.NotNil(t, dto.MostProblematicDay)
	assert.Equal(t, "Wednesday", *dto.MostProblematicDay)
	require.NotNil(t, dto.MostProblematicHour)
	assert.Equal(t, 7, *dto.MostProblematicHour)
	require.NotNil(t, dto.MostMissedType)
	assert.Equal(t, "hiit", *dto.MostMissedType)
	assert.Equal(t, map[string]int{"strength": 4}, dto.TypePreferences)
	assert.Equal(t, "medium", dto.DifficultyTolerance.Level)
}

func TestConvertPatternsOmitsMissingSelections(t *testing.T) {
	dto := convertPatterns(behavior.DefaultPatterns(time.Now()))
	assert.Nil(t, dto.MostProblematicDay)
	assert.Nil(t, dto.MostProblematicHour)
	assert.Nil(t, dto.MostMissedType)
}

func TestConvertWorkout(t *testing.T) {
	completedTs := time.Date(2026, 3, 19, 8, 0, 0, 0, time.UTC).Unix()
	workout := &store.Workout{
		UID:           "w1",
		Focus:         "strength",
		Difficulty:    2,
		DurationSec:   2700,
		ScheduledTs:   time.Date(2026, 3, 19, 7, 0, 0, 0, time.UTC).Unix(),
		CompletedTs:   &completedTs,
		Completed:     true,
		Assigned:      true,
		ExercisesJSON: `[{"name":"deadlift","targetMuscles":["back"],"durationMin":15}]`,
	}

	dto := convertWorkout(workout)
	assert.Equal(t, 45, dto.DurationMin)
	assert.True(t, dto.Completed)
	require.NotNil(t, dto.CompletedAt)
	assert.Equal(t, 8, dto.CompletedAt.Hour())
	require.Len(t, dto.Exercises, 1)
	assert.Equal(t, "deadlift", dto.Exercises[0].Name)
	assert.Equal(t, []string{"back"}, dto.Exercises[0].TargetMuscles)
}

func TestMarshalAnalysisRoundTrip(t *testing.T) {
	extracted := checkin.Extract("my back is sore, busy week of travel", time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC))
	analysis := &extracted
	payload, err := marshalAnalysis(analysis)
	require.NoError(t, err)

	decoded, err := unmarshalAnalysis(payload)
	require.NoError(t, err)
	assert.Equal(t, analysis.UID, decoded.UID)
	assert.Equal(t, analysis.PhysicalLimitations, decoded.PhysicalLimitations)
	assert.InDelta(t, analysis.MotivationScore, decoded.MotivationScore, 1e-9)
}
