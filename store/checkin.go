package store

// CheckIn is one free-text weekly check-in together with its analysis.
// Created once per submission; immutable afterwards.
type CheckIn struct {
	ID        int32
	UID       string
	UserID    int32
	RawText   string
	CreatedTs int64
	// Payload is the serialized checkin.Analysis value.
	Payload string
}

// FindCheckIn specifies the conditions for listing check-ins.
type FindCheckIn struct {
	UID          *string
	UserID       *int32
	CreatedAfter *int64
	Limit        *int
}

// BusyInterval is a time range blocked by the user's calendar, half-open
// [StartTs, EndTs). Rows are read-only from the engine's point of view; the
// calendar sync job owns them.
type BusyInterval struct {
	ID      int32
	UserID  int32
	StartTs int64
	EndTs   int64
	Summary string
}

// FindBusyInterval specifies the half-open range to list busy intervals for.
type FindBusyInterval struct {
	UserID  *int32
	StartTs *int64
	EndTs   *int64
}
