package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/fitflow/engine/scheduler"
	"github.com/hrygo/fitflow/store"
)

type SlotRequestDTO struct {
	WorkoutUID  string `json:"workoutUid"`
	DesiredDate string `json:"desiredDate"`
	DurationMin int    `json:"durationMin"`
}

type ScheduleRequest struct {
	Requests []SlotRequestDTO `json:"requests"`
}

type PlacementDTO struct {
	WorkoutUID  string    `json:"workoutUid"`
	StartTime   time.Time `json:"startTime"`
	DurationMin int       `json:"durationMin"`
	Assigned    bool      `json:"assigned"`
}

func (s *APIV1Service) scheduleWorkouts(c echo.Context) error {
	userID, err := userIDFromPath(c)
	if err != nil {
		return err
	}

	req := &ScheduleRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if len(req.Requests) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "requests must not be empty")
	}

	slotRequests := make([]scheduler.SlotRequest, 0, len(req.Requests))
	for _, r := range req.Requests {
		if r.WorkoutUID == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "workoutUid is required")
		}
		if r.DurationMin <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "durationMin must be positive")
		}
		desiredDate, err := parseTime(r.DesiredDate, "desiredDate")
		if err != nil {
			return err
		}
		slotRequests = append(slotRequests, scheduler.SlotRequest{
			WorkoutUID:  r.WorkoutUID,
			DesiredDate: desiredDate,
			Duration:    time.Duration(r.DurationMin) * time.Minute,
		})
	}

	placements, err := s.Engine.ScheduleWeek(c.Request().Context(), userID, slotRequests)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to schedule workouts").SetInternal(err)
	}

	list := make([]PlacementDTO, 0, len(placements))
	for _, p := range placements {
		list = append(list, PlacementDTO{
			WorkoutUID:  p.WorkoutUID,
			StartTime:   p.StartTime,
			DurationMin: int(p.Duration.Minutes()),
			Assigned:    p.Assigned,
		})
	}
	return c.JSON(http.StatusOK, list)
}

func (s *APIV1Service) previewSlot(c echo.Context) error {
	userID, err := userIDFromPath(c)
	if err != nil {
		return err
	}

	start, err := parseTime(c.QueryParam("start"), "start")
	if err != nil {
		return err
	}
	durationMin, err := strconv.Atoi(c.QueryParam("durationMin"))
	if err != nil || durationMin <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "durationMin must be a positive integer")
	}

	free := s.Engine.PreviewSlot(c.Request().Context(), userID, start, time.Duration(durationMin)*time.Minute)
	return c.JSON(http.StatusOK, map[string]bool{"free": free})
}

type CreateBusyIntervalRequest struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Summary string `json:"summary"`
}

type BusyIntervalDTO struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Summary string    `json:"summary"`
}

func (s *APIV1Service) createBusyInterval(c echo.Context) error {
	userID, err := userIDFromPath(c)
	if err != nil {
		return err
	}

	req := &CreateBusyIntervalRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	start, err := parseTime(req.Start, "start")
	if err != nil {
		return err
	}
	end, err := parseTime(req.End, "end")
	if err != nil {
		return err
	}
	if !start.Before(end) {
		return echo.NewHTTPError(http.StatusBadRequest, "start must be before end")
	}

	row, err := s.Store.CreateBusyInterval(c.Request().Context(), &store.BusyInterval{
		UserID:  userID,
		StartTs: start.Unix(),
		EndTs:   end.Unix(),
		Summary: req.Summary,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create busy interval").SetInternal(err)
	}
	return c.JSON(http.StatusCreated, convertBusyInterval(row))
}

func (s *APIV1Service) listBusyIntervals(c echo.Context) error {
	userID, err := userIDFromPath(c)
	if err != nil {
		return err
	}

	find := &store.FindBusyInterval{UserID: &userID}
	if from := c.QueryParam("from"); from != "" {
		t, err := parseTime(from, "from")
		if err != nil {
			return err
		}
		ts := t.Unix()
		find.StartTs = &ts
	}
	if to := c.QueryParam("to"); to != "" {
		t, err := parseTime(to, "to")
		if err != nil {
			return err
		}
		ts := t.Unix()
		find.EndTs = &ts
	}

	rows, err := s.Store.ListBusyIntervals(c.Request().Context(), find)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list busy intervals").SetInternal(err)
	}

	list := make([]*BusyIntervalDTO, 0, len(rows))
	for _, row := range rows {
		list = append(list, convertBusyInterval(row))
	}
	return c.JSON(http.StatusOK, list)
}

func convertBusyInterval(row *store.BusyInterval) *BusyIntervalDTO {
	return &BusyIntervalDTO{
		Start:   time.Unix(row.StartTs, 0).UTC(),
		End:     time.Unix(row.EndTs, 0).UTC(),
		Summary: row.Summary,
	}
}
