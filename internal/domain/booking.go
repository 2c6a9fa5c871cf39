package domain

import "time"

type BookingStatus string

const (
	BookingPending    BookingStatus = "PENDING"
	BookingConfirmed  BookingStatus = "CONFIRMED"
	BookingCheckedIn  BookingStatus = "CHECKED_IN"
	BookingCheckedOut BookingStatus = "CHECKED_OUT"
	BookingCompleted  BookingStatus = "COMPLETED"
	BookingCancelled  BookingStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

type GuestRelation string

const (
	RelationSelf   GuestRelation = "SELF"
	RelationFriend GuestRelation = "FRIEND"
	RelationFamily GuestRelation = "FAMILY"
)

type Guest struct {
	Name     string        `json:"name" validate:"required"`
	Age      int           `json:"age" validate:"required,gt=0"`
	Relation GuestRelation `json:"relation" validate:"required,oneof=SELF FRIEND FAMILY"`
}

type Pricing struct {
	BaseAmount     float64 `json:"base_amount"`
	DiscountAmount float64 `json:"discount_amount"`
	TaxAmount      float64 `json:"tax_amount"`
	TotalAmount    float64 `json:"total_amount"`
	PaidAmount     float64 `json:"paid_amount"`
	PendingAmount  float64 `json:"pending_amount"`
}

type Booking struct {
	ID             int64         `json:"id"`
	Code           string        `json:"code"`
	CustomerID     int64         `json:"customer_id"`
	PropertyID     int64         `json:"property_id"`
	RoomID         int64         `json:"room_id"`
	BedNumbers     []int         `json:"bed_numbers"`
	CheckInDate    time.Time     `json:"check_in_date"`
	CheckOutDate   time.Time     `json:"check_out_date"`
	DurationMonths int           `json:"duration_months"`
	Guests         []Guest       `json:"guests"`
	Pricing        Pricing       `json:"pricing"`
	Status         BookingStatus `json:"status"`
	PaymentStatus  PaymentStatus `json:"payment_status"`

	SpecialRequests    string `json:"special_requests,omitempty"`
	CancellationReason string `json:"cancellation_reason,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// LiveStatuses are the states that hold beds and participate in conflict
// detection. CANCELLED and COMPLETED bookings never conflict.
var LiveStatuses = []BookingStatus{BookingPending, BookingConfirmed, BookingCheckedIn}

func (s BookingStatus) IsLive() bool {
	return s == BookingPending || s == BookingConfirmed || s == BookingCheckedIn
}

// validTransitions is the booking state machine. CANCELLED is only reachable
// before check-in; a checked-in guest must be checked out, not cancelled.
var validTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:    {BookingConfirmed, BookingCancelled},
	BookingConfirmed:  {BookingCheckedIn, BookingCancelled},
	BookingCheckedIn:  {BookingCheckedOut},
	BookingCheckedOut: {BookingCompleted},
}

func CanTransition(from, to BookingStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// BedCount is the number of distinct beds this booking holds against room
// inventory. Legacy bookings without bed numbers hold one bed per guest.
func (b *Booking) BedCount() int {
	if len(b.BedNumbers) > 0 {
		return len(b.BedNumbers)
	}
	return len(b.Guests)
}

// Overlaps reports whether the stay intersects [checkIn, checkOut) under
// half-open semantics: checkout on the same day as a new check-in does not
// overlap.
func (b *Booking) Overlaps(checkIn, checkOut time.Time) bool {
	return b.CheckInDate.Before(checkOut) && checkIn.Before(b.CheckOutDate)
}

// SharesBeds reports whether the booking holds any of the given bed numbers.
// A booking with no recorded bed numbers occupies the whole room and shares
// with any bed set; an empty candidate set likewise means whole-room.
func (b *Booking) SharesBeds(beds []int) bool {
	if len(b.BedNumbers) == 0 || len(beds) == 0 {
		return true
	}
	held := make(map[int]struct{}, len(b.BedNumbers))
	for _, n := range b.BedNumbers {
		held[n] = struct{}{}
	}
	for _, n := range beds {
		if _, ok := held[n]; ok {
			return true
		}
	}
	return false
}

// DurationInMonths counts the calendar-month steps from check-in needed to
// reach check-out, minimum 1. Informational, also the pricing duration input.
func DurationInMonths(checkIn, checkOut time.Time) int {
	months := 0
	cur := checkIn
	for cur.Before(checkOut) {
		cur = cur.AddDate(0, 1, 0)
		months++
	}
	if months < 1 {
		months = 1
	}
	return months
}
