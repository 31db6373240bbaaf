package v1

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hrygo/fitflow/engine/behavior"
	"github.com/hrygo/fitflow/engine/checkin"
	"github.com/hrygo/fitflow/engine/recommend"
)

type RunAnalysisRequest struct {
	// CheckInText optionally carries this week's free-text check-in; the
	// history rules run either way.
	CheckInText string `json:"checkInText"`
}

type ToleranceDTO struct {
	Level                  string  `json:"level"`
	AvgCompletedDifficulty float64 `json:"avgCompletedDifficulty"`
	AvgMissedDifficulty    float64 `json:"avgMissedDifficulty"`
}

type StreaksDTO struct {
	AverageStreak float64 `json:"averageStreak"`
	LongestStreak int     `json:"longestStreak"`
	CurrentStreak int     `json:"currentStreak"`
	StreakBreaks  int     `json:"streakBreaks"`
}

type PatternsDTO struct {
	CompletionRate      float64        `json:"completionRate"`
	MostProblematicDay  *string        `json:"mostProblematicDay,omitempty"`
	MostProblematicHour *int           `json:"mostProblematicHour,omitempty"`
	MostMissedType      *string        `json:"mostMissedType,omitempty"`
	DifficultyTolerance ToleranceDTO   `json:"difficultyTolerance"`
	Streaks             StreaksDTO     `json:"streaks"`
	PreferredTimes      map[int]int    `json:"preferredTimes"`
	TypePreferences     map[string]int `json:"typePreferences"`
	LastAnalyzed        time.Time      `json:"lastAnalyzed"`
}

type InsightDTO struct {
	Type           string  `json:"type"`
	Severity       string  `json:"severity"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Recommendation string  `json:"recommendation"`
	Confidence     float64 `json:"confidence"`
}

type ModificationDTO struct {
	Type       string `json:"type"`
	Reason     string `json:"reason"`
	Suggestion string `json:"suggestion"`
}

type RunAnalysisResponse struct {
	Patterns      *PatternsDTO      `json:"patterns"`
	CheckIn       *CheckInDTO       `json:"checkIn,omitempty"`
	Insights      []InsightDTO      `json:"insights"`
	Modifications []ModificationDTO `json:"modifications"`
	Multiplier    float64           `json:"difficultyMultiplier"`
}

func (s *APIV1Service) runAnalysis(c echo.Context) error {
	userID, err := userIDFromPath(c)
	if err != nil {
		return err
	}

	req := &RunAnalysisRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	result, err := s.Engine.RunAnalysis(c.Request().Context(), userID, req.CheckInText)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "analysis run failed").SetInternal(err)
	}

	resp := &RunAnalysisResponse{
		Patterns:      convertPatterns(result.Patterns),
		Insights:      convertInsights(result.Insights),
		Modifications: convertModifications(result.Modifications),
		Multiplier:    result.Multiplier,
	}
	if result.CheckIn != nil {
		resp.CheckIn = convertCheckIn(result.CheckIn)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) getPatterns(c echo.Context) error {
	userID, err := userIDFromPath(c)
	if err != nil {
		return err
	}

	patterns, err := s.Engine.LoadPatterns(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load patterns").SetInternal(err)
	}
	return c.JSON(http.StatusOK, convertPatterns(patterns))
}

func convertPatterns(patterns behavior.Patterns) *PatternsDTO {
	dto := &PatternsDTO{
		CompletionRate: patterns.CompletionRate,
		DifficultyTolerance: ToleranceDTO{
			Level:                  string(patterns.DifficultyTolerance.Level),
			AvgCompletedDifficulty: patterns.DifficultyTolerance.AvgCompletedDifficulty,
			AvgMissedDifficulty:    patterns.DifficultyTolerance.AvgMissedDifficulty,
		},
		Streaks: StreaksDTO{
			AverageStreak: patterns.StreakPatterns.AverageStreak,
			LongestStreak: patterns.StreakPatterns.LongestStreak,
			CurrentStreak: patterns.StreakPatterns.CurrentStreak,
			StreakBreaks:  patterns.StreakPatterns.StreakBreaks,
		},
		PreferredTimes:  patterns.PreferredTimes,
		TypePreferences: map[string]int{},
		LastAnalyzed:    patterns.LastAnalyzed,
	}
	for focus, count := range patterns.TypePreferences {
		dto.TypePreferences[string(focus)] = count
	}
	if day := patterns.MissedPatterns.MostProblematicDay; day != nil {
		name := day.String()
		dto.MostProblematicDay = &name
	}
	if hour := patterns.MissedPatterns.MostProblematicHour; hour != nil {
		h := *hour
		dto.MostProblematicHour = &h
	}
	if focus := patterns.MissedPatterns.MostMissedType; focus != nil {
		name := string(*focus)
		dto.MostMissedType = &name
	}
	return dto
}

func convertInsights(insights []recommend.Insight) []InsightDTO {
	list := make([]InsightDTO, 0, len(insights))
	for _, insight := range insights {
		list = append(list, InsightDTO{
			Type:           string(insight.Type),
			Severity:       insight.Severity.String(),
			Title:          insight.Title,
			Description:    insight.Description,
			Recommendation: insight.Recommendation,
			Confidence:     insight.Confidence,
		})
	}
	return list
}

func convertModifications(mods []recommend.Modification) []ModificationDTO {
	list := make([]ModificationDTO, 0, len(mods))
	for _, mod := range mods {
		list = append(list, ModificationDTO{
			Type:       string(mod.Type),
			Reason:     mod.Reason,
			Suggestion: mod.Suggestion,
		})
	}
	return list
}

func marshalAnalysis(analysis *checkin.Analysis) (string, error) {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal check-in analysis")
	}
	return string(payload), nil
}

func unmarshalAnalysis(payload string) (*checkin.Analysis, error) {
	analysis := &checkin.Analysis{}
	if err := json.Unmarshal([]byte(payload), analysis); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal check-in analysis")
	}
	return analysis, nil
}
