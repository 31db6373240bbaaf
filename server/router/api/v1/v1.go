// Package v1 exposes the engine over a small JSON HTTP API.
package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/fitflow/engine"
	"github.com/hrygo/fitflow/internal/profile"
	"github.com/hrygo/fitflow/store"
)

type APIV1Service struct {
	Profile *profile.Profile
	Store   *store.Store
	Engine  *engine.Service
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, engine *engine.Service) *APIV1Service {
	return &APIV1Service{
		Profile: profile,
		Store:   store,
		Engine:  engine,
	}
}

// RegisterRoutes mounts all v1 routes under /api/v1.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")

	g.POST("/users/:id/workouts", s.createWorkout)
	g.GET("/users/:id/workouts", s.listWorkouts)
	g.POST("/users/:id/workouts/:uid/complete", s.completeWorkout)

	g.POST("/users/:id/checkins", s.submitCheckIn)
	g.GET("/users/:id/checkins", s.listCheckIns)

	g.POST("/users/:id/analysis", s.runAnalysis)
	g.GET("/users/:id/patterns", s.getPatterns)

	g.POST("/users/:id/schedule", s.scheduleWorkouts)
	g.GET("/users/:id/slots/preview", s.previewSlot)

	g.POST("/users/:id/busy-intervals", s.createBusyInterval)
	g.GET("/users/:id/busy-intervals", s.listBusyIntervals)
}

// userIDFromPath parses the :id path parameter.
func userIDFromPath(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return int32(id), nil
}

// parseTime parses an RFC 3339 timestamp from a request field.
func parseTime(value, field string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid "+field+": expected RFC 3339")
	}
	return t, nil
}
