package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/fitflow/engine/checkin"
	"github.com/hrygo/fitflow/store"
)

// maxCheckInLength caps free-text submissions; the lexicon scan is linear but
// there is no reason to store essays.
const maxCheckInLength = 4000

type SubmitCheckInRequest struct {
	Text string `json:"text"`
}

type SentimentDTO struct {
	Polarity   string  `json:"polarity"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
}

type CheckInDTO struct {
	UID                 string       `json:"uid"`
	Sentiment           SentimentDTO `json:"sentiment"`
	MotivationScore     float64      `json:"motivationScore"`
	PhysicalLimitations []string     `json:"physicalLimitations"`
	WorkoutFeedback     []string     `json:"workoutFeedback"`
	BusyPeriods         []string     `json:"busyPeriods"`
	ProcessedAt         time.Time    `json:"processedAt"`
}

// submitCheckIn extracts signals from the submitted text and stores the
// check-in. The full analysis run is a separate call; submitting a check-in
// alone never rewrites the plan.
func (s *APIV1Service) submitCheckIn(c echo.Context) error {
	userID, err := userIDFromPath(c)
	if err != nil {
		return err
	}

	req := &SubmitCheckInRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}
	if len(text) > maxCheckInLength {
		return echo.NewHTTPError(http.StatusBadRequest, "text is too long")
	}

	analysis := checkin.Extract(text, time.Now())
	payload, err := marshalAnalysis(&analysis)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to encode analysis").SetInternal(err)
	}

	if _, err := s.Store.CreateCheckIn(c.Request().Context(), &store.CheckIn{
		UID:       analysis.UID,
		UserID:    userID,
		RawText:   analysis.RawText,
		CreatedTs: analysis.ProcessedAt.Unix(),
		Payload:   payload,
	}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store check-in").SetInternal(err)
	}

	return c.JSON(http.StatusCreated, convertCheckIn(&analysis))
}

func (s *APIV1Service) listCheckIns(c echo.Context) error {
	userID, err := userIDFromPath(c)
	if err != nil {
		return err
	}

	limit := 20
	checkIns, err := s.Store.ListCheckIns(c.Request().Context(), &store.FindCheckIn{
		UserID: &userID,
		Limit:  &limit,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list check-ins").SetInternal(err)
	}

	list := make([]*CheckInDTO, 0, len(checkIns))
	for _, row := range checkIns {
		analysis, err := unmarshalAnalysis(row.Payload)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to decode stored check-in").SetInternal(err)
		}
		list = append(list, convertCheckIn(analysis))
	}
	return c.JSON(http.StatusOK, list)
}

func convertCheckIn(analysis *checkin.Analysis) *CheckInDTO {
	return &CheckInDTO{
		UID: analysis.UID,
		Sentiment: SentimentDTO{
			Polarity:   string(analysis.Sentiment.Polarity),
			Score:      analysis.Sentiment.Score,
			Confidence: analysis.Sentiment.Confidence,
		},
		MotivationScore:     analysis.MotivationScore,
		PhysicalLimitations: analysis.PhysicalLimitations,
		WorkoutFeedback:     analysis.WorkoutFeedback,
		BusyPeriods:         analysis.BusyPeriods,
		ProcessedAt:         analysis.ProcessedAt,
	}
}
