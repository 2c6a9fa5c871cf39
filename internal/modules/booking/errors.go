package booking

import (
	"fmt"
	"strings"
	"time"

	"repatroom/internal/domain"
)

// BedConflict describes one existing booking that collides with a requested
// stay: its human-readable code, date range, and the beds it holds.
type BedConflict struct {
	BookingCode string    `json:"booking_code"`
	CheckIn     time.Time `json:"check_in"`
	CheckOut    time.Time `json:"check_out"`
	BedNumbers  []int     `json:"bed_numbers,omitempty"`
}

// ConflictError reports overlapping live reservations on the requested beds.
type ConflictError struct {
	Conflicts []BedConflict
}

func (e *ConflictError) Error() string {
	codes := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		codes = append(codes, fmt.Sprintf("%s [%s, %s)",
			c.BookingCode,
			c.CheckIn.Format("2006-01-02"),
			c.CheckOut.Format("2006-01-02")))
	}
	return "booking conflicts with " + strings.Join(codes, ", ")
}

// InsufficientBedsError means the room-level availability counter cannot
// cover the requested bed count.
type InsufficientBedsError struct {
	RoomID    int64
	Requested int
	Available int
}

func (e *InsufficientBedsError) Error() string {
	return fmt.Sprintf("room %d has %d available beds, %d requested", e.RoomID, e.Available, e.Requested)
}

// InvalidTransitionError reports a booking state machine violation.
type InvalidTransitionError struct {
	From domain.BookingStatus
	To   domain.BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition booking from %s to %s", e.From, e.To)
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RetryExhaustedError surfaces when the bounded retry around the booking
// commit path gives up on transient persistence failures.
type RetryExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("booking commit failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Last }
