package v1

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hrygo/fitflow/store"
)

type ExerciseDTO struct {
	Name          string   `json:"name"`
	TargetMuscles []string `json:"targetMuscles"`
	DurationMin   int      `json:"durationMin"`
}

type CreateWorkoutRequest struct {
	Focus       string        `json:"focus"`
	Difficulty  int           `json:"difficulty"`
	DurationMin int           `json:"durationMin"`
	ScheduledAt string        `json:"scheduledAt"`
	Exercises   []ExerciseDTO `json:"exercises"`
}

type WorkoutDTO struct {
	UID         string        `json:"uid"`
	Focus       string        `json:"focus"`
	Difficulty  int           `json:"difficulty"`
	DurationMin int           `json:"durationMin"`
	ScheduledAt time.Time     `json:"scheduledAt"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
	Completed   bool          `json:"completed"`
	Assigned    bool          `json:"assigned"`
	Exercises   []ExerciseDTO `json:"exercises,omitempty"`
}

func (s *APIV1Service) createWorkout(c echo.Context) error {
	userID, err := userIDFromPath(c)
	if err != nil {
		return err
	}

	req := &CreateWorkoutRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if req.Focus == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "focus is required")
	}
	if req.Difficulty < 1 || req.Difficulty > 3 {
		return echo.NewHTTPError(http.StatusBadRequest, "difficulty must be between 1 and 3")
	}
	if req.DurationMin <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "durationMin must be positive")
	}
	scheduledAt, err := parseTime(req.ScheduledAt, "scheduledAt")
	if err != nil {
		return err
	}

	exercises, err := json.Marshal(req.Exercises)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to encode exercises")
	}

	workout, err := s.Store.CreateWorkout(c.Request().Context(), &store.Workout{
		UID:           uuid.New().String(),
		UserID:        userID,
		Focus:         req.Focus,
		Difficulty:    req.Difficulty,
		DurationSec:   req.DurationMin * 60,
		ScheduledTs:   scheduledAt.Unix(),
		ExercisesJSON: string(exercises),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create workout").SetInternal(err)
	}
	return c.JSON(http.StatusCreated, convertWorkout(workout))
}

func (s *APIV1Service) listWorkouts(c echo.Context) error {
	userID, err := userIDFromPath(c)
	if err != nil {
		return err
	}

	find := &store.FindWorkout{UserID: &userID}
	if c.QueryParam("upcoming") == "true" {
		now := time.Now().Unix()
		find.UpcomingOnly = &now
	}

	workouts, err := s.Store.ListWorkouts(c.Request().Context(), find)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list workouts").SetInternal(err)
	}

	list := make([]*WorkoutDTO, 0, len(workouts))
	for _, workout := range workouts {
		list = append(list, convertWorkout(workout))
	}
	return c.JSON(http.StatusOK, list)
}

func (s *APIV1Service) completeWorkout(c echo.Context) error {
	userID, err := userIDFromPath(c)
	if err != nil {
		return err
	}
	uid := c.Param("uid")

	workouts, err := s.Store.ListWorkouts(c.Request().Context(), &store.FindWorkout{UID: &uid, UserID: &userID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to find workout").SetInternal(err)
	}
	if len(workouts) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "workout not found")
	}
	if workouts[0].Completed {
		return echo.NewHTTPError(http.StatusConflict, "workout already completed")
	}

	completed := true
	completedTs := time.Now().Unix()
	updated, err := s.Store.UpdateWorkout(c.Request().Context(), &store.UpdateWorkout{
		ID:          workouts[0].ID,
		Completed:   &completed,
		CompletedTs: &completedTs,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to complete workout").SetInternal(err)
	}
	return c.JSON(http.StatusOK, convertWorkout(updated))
}

func convertWorkout(workout *store.Workout) *WorkoutDTO {
	dto := &WorkoutDTO{
		UID:         workout.UID,
		Focus:       workout.Focus,
		Difficulty:  workout.Difficulty,
		DurationMin: workout.DurationSec / 60,
		ScheduledAt: time.Unix(workout.ScheduledTs, 0).UTC(),
		Completed:   workout.Completed,
		Assigned:    workout.Assigned,
	}
	if workout.CompletedTs != nil {
		completedAt := time.Unix(*workout.CompletedTs, 0).UTC()
		dto.CompletedAt = &completedAt
	}
	if workout.ExercisesJSON != "" {
		// Best effort: a decode failure leaves the list empty rather than
		// failing the whole response.
		_ = json.Unmarshal([]byte(workout.ExercisesJSON), &dto.Exercises)
	}
	return dto
}
