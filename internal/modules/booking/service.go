package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"repatroom/internal/domain"
	"repatroom/internal/pkg/bookingcode"
	"repatroom/internal/repository"
)

var ErrForbidden = errors.New("forbidden")

const dateLayout = "2006-01-02"

// Service is the booking lifecycle manager. It owns the state machine,
// composes the conflict detector, pricing calculator, and inventory store on
// the create path, and serializes all room-mutating operations per room.
type Service struct {
	bookings   BookingRepository
	rooms      RoomRepository
	properties PropertyRepository
	codes      CodeGenerator

	taxRate         float64
	discount        DiscountPolicy
	refunds         RefundPolicy
	commitRetries   int
	completionGrace time.Duration

	locks *roomLocks
	now   func() time.Time
}

type Option func(*Service)

func WithDiscountPolicy(p DiscountPolicy) Option { return func(s *Service) { s.discount = p } }
func WithRefundPolicy(p RefundPolicy) Option     { return func(s *Service) { s.refunds = p } }
func WithCommitRetries(n int) Option             { return func(s *Service) { s.commitRetries = n } }
func WithCompletionGrace(d time.Duration) Option { return func(s *Service) { s.completionGrace = d } }
func WithCodeGenerator(g CodeGenerator) Option   { return func(s *Service) { s.codes = g } }
func withClock(now func() time.Time) Option      { return func(s *Service) { s.now = now } }

func NewService(
	bookings BookingRepository,
	rooms RoomRepository,
	properties PropertyRepository,
	taxRate float64,
	opts ...Option,
) *Service {
	s := &Service{
		bookings:        bookings,
		rooms:           rooms,
		properties:      properties,
		codes:           bookingcode.Generate,
		taxRate:         taxRate,
		discount:        DiscountPolicy{Type: DiscountNone},
		refunds:         FullRefundPolicy{},
		commitRetries:   3,
		completionGrace: 48 * time.Hour,
		locks:           newRoomLocks(),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBooking validates the request, then runs {conflict check, inventory
// reserve, booking write} as one unit under the room's lock. On any failure
// mid-way no partial mutation is visible.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	checkIn, checkOut, err := parseStay(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}
	if len(req.Guests) == 0 {
		return nil, &ValidationError{Field: "guests", Reason: "guest list is empty"}
	}

	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "room", ID: fmt.Sprint(req.RoomID)}
		}
		return nil, err
	}
	if room.PropertyID != req.PropertyID {
		return nil, &ValidationError{Field: "room_id", Reason: "room does not belong to property"}
	}
	if !room.IsActive {
		return nil, &ValidationError{Field: "room_id", Reason: "room is not active"}
	}
	if err := validateBedNumbers(req.BedNumbers, room.TotalBeds); err != nil {
		return nil, err
	}

	b := &domain.Booking{
		CustomerID:      req.CustomerID,
		PropertyID:      req.PropertyID,
		RoomID:          req.RoomID,
		BedNumbers:      req.BedNumbers,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		DurationMonths:  domain.DurationInMonths(checkIn, checkOut),
		Guests:          req.guests(),
		Status:          domain.BookingPending,
		PaymentStatus:   domain.PaymentPending,
		SpecialRequests: req.SpecialRequests,
	}
	if b.BedCount() > room.TotalBeds {
		return nil, &ValidationError{Field: "guests", Reason: "more beds requested than the room has"}
	}

	lock := s.locks.forRoom(req.RoomID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.bookings.ListByRoom(ctx, req.PropertyID, req.RoomID, domain.LiveStatuses)
	if err != nil {
		return nil, err
	}
	if conflicts := findConflicts(existing, req.BedNumbers, checkIn, checkOut, 0); len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	b.Pricing = ComputePricing(room.PricePerBed, b.BedCount(), b.DurationMonths, s.discount, s.taxRate, req.UpfrontAmount)

	if err := s.commitCreate(ctx, b, room); err != nil {
		return nil, err
	}
	return b, nil
}

// commitCreate writes the booking with a fresh code, retrying code collisions
// and transient persistence failures a bounded number of times.
func (s *Service) commitCreate(ctx context.Context, b *domain.Booking, room *domain.Room) error {
	var last error
	for attempt := 0; attempt < s.commitRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
			}
		}

		b.Code = s.codes()
		err := s.bookings.CreateWithReservation(ctx, b)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, repository.ErrInsufficientBeds):
			// re-read so the error reports the availability that rejected us
			if cur, rerr := s.rooms.GetByID(ctx, room.ID); rerr == nil {
				room = cur
			}
			return &InsufficientBedsError{RoomID: room.ID, Requested: b.BedCount(), Available: room.AvailableBeds}
		case errors.Is(err, repository.ErrNotFound):
			return &NotFoundError{Resource: "room", ID: fmt.Sprint(room.ID)}
		default:
			// duplicate code or transient persistence failure; retry with a
			// regenerated code either way
			last = err
		}
	}
	return &RetryExhaustedError{Attempts: s.commitRetries, Last: last}
}

// ConfirmPayment records a payment against a pending booking. When the
// booking is fully paid it transitions PENDING -> CONFIRMED; inventory is
// untouched because the beds were reserved at creation.
func (s *Service) ConfirmPayment(ctx context.Context, id int64, amount float64) (*domain.Booking, error) {
	b, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	if !domain.CanTransition(b.Status, domain.BookingConfirmed) {
		return nil, &InvalidTransitionError{From: b.Status, To: domain.BookingConfirmed}
	}

	if amount == 0 {
		amount = b.Pricing.PendingAmount
	}
	paid := round2(b.Pricing.PaidAmount + amount)
	if paid > b.Pricing.TotalAmount {
		paid = b.Pricing.TotalAmount
	}
	pending := round2(b.Pricing.TotalAmount - paid)
	if pending < 0 {
		pending = 0
	}

	payStatus := domain.PaymentPending
	status := b.Status
	if pending == 0 {
		payStatus = domain.PaymentPaid
		status = domain.BookingConfirmed
	}

	return s.bookings.UpdatePayment(ctx, id, paid, pending, payStatus, status)
}

// CancelBooking cancels a booking that has not checked in yet, releasing its
// beds and recording the reason. Paid bookings are refunded per policy.
func (s *Service) CancelBooking(ctx context.Context, id int64, reason string) (*domain.Booking, error) {
	if reason == "" {
		return nil, &ValidationError{Field: "reason", Reason: "cancellation reason is required"}
	}

	b, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(b.Status, domain.BookingCancelled) {
		return nil, &InvalidTransitionError{From: b.Status, To: domain.BookingCancelled}
	}

	payStatus := b.PaymentStatus
	if b.Pricing.PaidAmount > 0 {
		if refund := s.refunds.Refund(b.Pricing.PaidAmount, s.now().UTC(), b.CheckInDate); refund > 0 {
			payStatus = domain.PaymentRefunded
		}
	}

	lock := s.locks.forRoom(b.RoomID)
	lock.Lock()
	defer lock.Unlock()

	cancelled, err := s.bookings.CancelWithRelease(ctx, id, reason, payStatus)
	if err != nil {
		return nil, s.transitionErr(ctx, err, id, b.Status, domain.BookingCancelled)
	}
	return cancelled, nil
}

// CheckIn transitions a confirmed booking to CHECKED_IN once the check-in
// date has arrived. Inventory is untouched.
func (s *Service) CheckIn(ctx context.Context, id int64, now time.Time) (*domain.Booking, error) {
	b, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(b.Status, domain.BookingCheckedIn) {
		return nil, &InvalidTransitionError{From: b.Status, To: domain.BookingCheckedIn}
	}
	if now.Before(b.CheckInDate) {
		return nil, &ValidationError{Field: "check_in_date", Reason: "check-in date not reached"}
	}
	if err := s.bookings.UpdateStatus(ctx, id, domain.BookingCheckedIn); err != nil {
		return nil, err
	}
	return s.getByID(ctx, id)
}

// CheckOut transitions a checked-in booking to CHECKED_OUT and releases its
// beds back to the room.
func (s *Service) CheckOut(ctx context.Context, id int64, now time.Time) (*domain.Booking, error) {
	b, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(b.Status, domain.BookingCheckedOut) {
		return nil, &InvalidTransitionError{From: b.Status, To: domain.BookingCheckedOut}
	}
	if now.Before(b.CheckOutDate) {
		return nil, &ValidationError{Field: "check_out_date", Reason: "check-out date not reached"}
	}

	lock := s.locks.forRoom(b.RoomID)
	lock.Lock()
	defer lock.Unlock()

	out, err := s.bookings.CheckOutWithRelease(ctx, id)
	if err != nil {
		return nil, s.transitionErr(ctx, err, id, b.Status, domain.BookingCheckedOut)
	}
	return out, nil
}

// transitionErr translates a stale-status rejection from the repository into
// an InvalidTransitionError reporting the booking's current state. The
// repository guard is what actually prevents a double release; the snapshot
// check earlier in the call only exists for a friendlier error on the common
// path.
func (s *Service) transitionErr(ctx context.Context, err error, id int64, snapshot, to domain.BookingStatus) error {
	if !errors.Is(err, repository.ErrStaleStatus) {
		return err
	}
	from := snapshot
	if cur, rerr := s.bookings.GetByID(ctx, id); rerr == nil {
		from = cur.Status
	}
	return &InvalidTransitionError{From: from, To: to}
}

// Complete closes out a checked-out booking after the dispute grace period.
func (s *Service) Complete(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(b.Status, domain.BookingCompleted) {
		return nil, &InvalidTransitionError{From: b.Status, To: domain.BookingCompleted}
	}
	if err := s.bookings.UpdateStatus(ctx, id, domain.BookingCompleted); err != nil {
		return nil, err
	}
	return s.getByID(ctx, id)
}

// AdvanceStatuses applies every time-based transition due at `now` and
// returns the number applied. It walks rooms one at a time, re-checking each
// booking's state, so it is idempotent and safe to cancel between rooms.
func (s *Service) AdvanceStatuses(ctx context.Context, now time.Time) (int, error) {
	rooms, err := s.bookings.RoomIDsWithStatus(ctx, []domain.BookingStatus{
		domain.BookingConfirmed,
		domain.BookingCheckedIn,
		domain.BookingCheckedOut,
	})
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, ref := range rooms {
		if err := ctx.Err(); err != nil {
			return applied, err
		}
		n, err := s.advanceRoom(ctx, ref, now)
		applied += n
		if err != nil {
			return applied, err
		}
	}
	return applied, nil
}

func (s *Service) advanceRoom(ctx context.Context, ref repository.RoomRef, now time.Time) (int, error) {
	lock := s.locks.forRoom(ref.RoomID)
	lock.Lock()
	defer lock.Unlock()

	applied := 0

	due, err := s.bookings.ListDueCheckIns(ctx, ref.PropertyID, ref.RoomID, now)
	if err != nil {
		return applied, err
	}
	for i := range due {
		if err := s.bookings.UpdateStatus(ctx, due[i].ID, domain.BookingCheckedIn); err != nil {
			return applied, err
		}
		applied++
	}

	due, err = s.bookings.ListDueCheckOuts(ctx, ref.PropertyID, ref.RoomID, now)
	if err != nil {
		return applied, err
	}
	for i := range due {
		if _, err := s.bookings.CheckOutWithRelease(ctx, due[i].ID); err != nil {
			// another sweeper or an explicit check-out got there first
			if errors.Is(err, repository.ErrStaleStatus) {
				continue
			}
			return applied, err
		}
		applied++
	}

	due, err = s.bookings.ListDueCompletions(ctx, ref.PropertyID, ref.RoomID, now.Add(-s.completionGrace))
	if err != nil {
		return applied, err
	}
	for i := range due {
		if err := s.bookings.UpdateStatus(ctx, due[i].ID, domain.BookingCompleted); err != nil {
			return applied, err
		}
		applied++
	}

	return applied, nil
}

func (s *Service) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.getByID(ctx, id)
}

func (s *Service) GetBookingByCode(ctx context.Context, code string) (*domain.Booking, error) {
	b, err := s.bookings.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "booking", ID: code}
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) ListCustomerBookings(ctx context.Context, customerID int64, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.ListByCustomer(ctx, customerID, limit, offset)
}

// ListPropertyBookings returns a property's bookings for its owner.
func (s *Service) ListPropertyBookings(ctx context.Context, propertyID, ownerID int64) ([]domain.Booking, error) {
	p, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "property", ID: fmt.Sprint(propertyID)}
		}
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return s.bookings.ListByProperty(ctx, propertyID)
}

func (s *Service) getByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "booking", ID: fmt.Sprint(id)}
		}
		return nil, err
	}
	return b, nil
}

func parseStay(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{Field: "check_in_date", Reason: "expected YYYY-MM-DD"}
	}
	out, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{Field: "check_out_date", Reason: "expected YYYY-MM-DD"}
	}
	if !in.Before(out) {
		return time.Time{}, time.Time{}, &ValidationError{Field: "check_out_date", Reason: "check-out must be after check-in"}
	}
	return in.UTC(), out.UTC(), nil
}
