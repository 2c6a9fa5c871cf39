package booking

import (
	"context"
	"testing"
	"time"

	"repatroom/internal/domain"
	"repatroom/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock repositories
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CreateWithReservation(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if args.Error(0) == nil && b != nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingRepository) CancelWithRelease(ctx context.Context, id int64, reason string, paymentStatus domain.PaymentStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, reason, paymentStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) CheckOutWithRelease(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByRoom(ctx context.Context, propertyID, roomID int64, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	args := m.Called(ctx, propertyID, roomID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]domain.Booking, error) {
	args := m.Called(ctx, customerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByProperty(ctx context.Context, propertyID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockBookingRepository) UpdatePayment(ctx context.Context, id int64, paid, pending float64, paymentStatus domain.PaymentStatus, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, paid, pending, paymentStatus, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) RoomIDsWithStatus(ctx context.Context, statuses []domain.BookingStatus) ([]repository.RoomRef, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.RoomRef), args.Error(1)
}

func (m *MockBookingRepository) ListDueCheckIns(ctx context.Context, propertyID, roomID int64, due time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, propertyID, roomID, due)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListDueCheckOuts(ctx context.Context, propertyID, roomID int64, due time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, propertyID, roomID, due)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListDueCompletions(ctx context.Context, propertyID, roomID int64, cutoff time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, propertyID, roomID, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

func (m *MockRoomRepository) Reserve(ctx context.Context, roomID int64, beds int) error {
	args := m.Called(ctx, roomID, beds)
	return args.Error(0)
}

func (m *MockRoomRepository) Release(ctx context.Context, roomID int64, beds int) error {
	args := m.Called(ctx, roomID, beds)
	return args.Error(0)
}

type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func newTestService(bookings *MockBookingRepository, rooms *MockRoomRepository, properties *MockPropertyRepository, opts ...Option) *Service {
	return NewService(bookings, rooms, properties, 0.12, opts...)
}

func sharingRoom() *domain.Room {
	return &domain.Room{
		ID:            10,
		PropertyID:    5,
		RoomType:      domain.RoomSharing4,
		TotalBeds:     4,
		AvailableBeds: 4,
		PricePerBed:   6000,
		IsActive:      true,
	}
}

func createReq() CreateBookingRequest {
	return CreateBookingRequest{
		CustomerID:   1,
		PropertyID:   5,
		RoomID:       10,
		BedNumbers:   []int{1, 2},
		CheckInDate:  "2026-09-10",
		CheckOutDate: "2026-12-10",
		Guests: []GuestRequest{
			{Name: "Arjun", Age: 24, Relation: "SELF"},
			{Name: "Vikram", Age: 25, Relation: "FRIEND"},
		},
	}
}

func TestService_CreateBooking_Success(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockProps := new(MockPropertyRepository)

	mockRooms.On("GetByID", mock.Anything, int64(10)).Return(sharingRoom(), nil)
	mockBookings.On("ListByRoom", mock.Anything, int64(5), int64(10), domain.LiveStatuses).Return([]domain.Booking{}, nil)
	mockBookings.On("CreateWithReservation", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(mockBookings, mockRooms, mockProps)

	b, err := service.CreateBooking(context.Background(), createReq())

	assert.NoError(t, err)
	assert.NotNil(t, b)
	assert.Equal(t, int64(999), b.ID)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, domain.PaymentPending, b.PaymentStatus)
	assert.Equal(t, 3, b.DurationMonths)
	// 6000 * 2 beds * 3 months = 36000, tax 12%
	assert.Equal(t, 36000.0, b.Pricing.BaseAmount)
	assert.Equal(t, 40320.0, b.Pricing.TotalAmount)
	assert.Equal(t, 40320.0, b.Pricing.PendingAmount)
	assert.Regexp(t, `^BR\d{8}$`, b.Code)
}

func TestService_CreateBooking_Conflict(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockProps := new(MockPropertyRepository)

	mockRooms.On("GetByID", mock.Anything, int64(10)).Return(sharingRoom(), nil)
	existing := []domain.Booking{{
		ID:           42,
		Code:         "BR12345678",
		Status:       domain.BookingConfirmed,
		BedNumbers:   []int{2, 3},
		CheckInDate:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}}
	mockBookings.On("ListByRoom", mock.Anything, int64(5), int64(10), domain.LiveStatuses).Return(existing, nil)

	service := newTestService(mockBookings, mockRooms, mockProps)

	_, err := service.CreateBooking(context.Background(), createReq())

	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, "BR12345678", conflict.Conflicts[0].BookingCode)
	mockBookings.AssertNotCalled(t, "CreateWithReservation", mock.Anything, mock.Anything)
}

func TestService_CreateBooking_DisjointBedsSameDates(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockProps := new(MockPropertyRepository)

	mockRooms.On("GetByID", mock.Anything, int64(10)).Return(sharingRoom(), nil)
	existing := []domain.Booking{{
		ID:           42,
		Status:       domain.BookingConfirmed,
		BedNumbers:   []int{3, 4},
		CheckInDate:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
	mockBookings.On("ListByRoom", mock.Anything, int64(5), int64(10), domain.LiveStatuses).Return(existing, nil)
	mockBookings.On("CreateWithReservation", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(mockBookings, mockRooms, mockProps)

	b, err := service.CreateBooking(context.Background(), createReq())

	assert.NoError(t, err)
	assert.NotNil(t, b)
}

func TestService_CreateBooking_InsufficientBeds(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockProps := new(MockPropertyRepository)

	room := sharingRoom()
	room.AvailableBeds = 1
	mockRooms.On("GetByID", mock.Anything, int64(10)).Return(room, nil)
	mockBookings.On("ListByRoom", mock.Anything, int64(5), int64(10), domain.LiveStatuses).Return([]domain.Booking{}, nil)
	mockBookings.On("CreateWithReservation", mock.Anything, mock.Anything).Return(repository.ErrInsufficientBeds)

	service := newTestService(mockBookings, mockRooms, mockProps)

	_, err := service.CreateBooking(context.Background(), createReq())

	var insufficient *InsufficientBedsError
	assert.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 2, insufficient.Requested)
	assert.Equal(t, 1, insufficient.Available)
}

func TestService_CreateBooking_InvalidDates(t *testing.T) {
	service := newTestService(new(MockBookingRepository), new(MockRoomRepository), new(MockPropertyRepository))

	req := createReq()
	req.CheckInDate = "2026-12-10"
	req.CheckOutDate = "2026-09-10"

	_, err := service.CreateBooking(context.Background(), req)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "check_out_date", verr.Field)
}

func TestService_CreateBooking_BedNumberOutOfRange(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockProps := new(MockPropertyRepository)

	mockRooms.On("GetByID", mock.Anything, int64(10)).Return(sharingRoom(), nil)

	service := newTestService(mockBookings, mockRooms, mockProps)

	req := createReq()
	req.BedNumbers = []int{1, 7}

	_, err := service.CreateBooking(context.Background(), req)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "bed_numbers", verr.Field)
}

func TestService_CreateBooking_RoomNotInProperty(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockProps := new(MockPropertyRepository)

	mockRooms.On("GetByID", mock.Anything, int64(10)).Return(sharingRoom(), nil)

	service := newTestService(mockBookings, mockRooms, mockProps)

	req := createReq()
	req.PropertyID = 77

	_, err := service.CreateBooking(context.Background(), req)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestService_CreateBooking_RoomNotFound(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockProps := new(MockPropertyRepository)

	mockRooms.On("GetByID", mock.Anything, int64(10)).Return(nil, repository.ErrNotFound)

	service := newTestService(mockBookings, mockRooms, mockProps)

	_, err := service.CreateBooking(context.Background(), createReq())

	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
	assert.Equal(t, "room", nf.Resource)
}

func TestService_CreateBooking_RetriesDuplicateCode(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockProps := new(MockPropertyRepository)

	mockRooms.On("GetByID", mock.Anything, int64(10)).Return(sharingRoom(), nil)
	mockBookings.On("ListByRoom", mock.Anything, int64(5), int64(10), domain.LiveStatuses).Return([]domain.Booking{}, nil)
	mockBookings.On("CreateWithReservation", mock.Anything, mock.Anything).Return(repository.ErrDuplicateCode).Once()
	mockBookings.On("CreateWithReservation", mock.Anything, mock.Anything).Return(nil).Once()

	codes := []string{"BR00000001", "BR00000002"}
	gen := func() string {
		c := codes[0]
		codes = codes[1:]
		return c
	}

	service := newTestService(mockBookings, mockRooms, mockProps, WithCodeGenerator(gen))

	b, err := service.CreateBooking(context.Background(), createReq())

	assert.NoError(t, err)
	assert.Equal(t, "BR00000002", b.Code)
	mockBookings.AssertNumberOfCalls(t, "CreateWithReservation", 2)
}

func TestService_CreateBooking_RetryExhausted(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockProps := new(MockPropertyRepository)

	mockRooms.On("GetByID", mock.Anything, int64(10)).Return(sharingRoom(), nil)
	mockBookings.On("ListByRoom", mock.Anything, int64(5), int64(10), domain.LiveStatuses).Return([]domain.Booking{}, nil)
	mockBookings.On("CreateWithReservation", mock.Anything, mock.Anything).Return(repository.ErrDuplicateCode)

	service := newTestService(mockBookings, mockRooms, mockProps, WithCommitRetries(2))

	_, err := service.CreateBooking(context.Background(), createReq())

	var exhausted *RetryExhaustedError
	assert.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 2, exhausted.Attempts)
	assert.ErrorIs(t, err, repository.ErrDuplicateCode)
}

func TestService_ConfirmPayment_FullAmount(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockProps := new(MockPropertyRepository)

	pending := &domain.Booking{
		ID:     7,
		Status: domain.BookingPending,
		Pricing: domain.Pricing{
			TotalAmount:   40320,
			PaidAmount:    0,
			PendingAmount: 40320,
		},
	}
	mockBookings.On("GetByID", mock.Anything, int64(7)).Return(pending, nil)

	confirmed := &domain.Booking{ID: 7, Status: domain.BookingConfirmed, PaymentStatus: domain.PaymentPaid}
	mockBookings.On("UpdatePayment", mock.Anything, int64(7), 40320.0, 0.0, domain.PaymentPaid, domain.BookingConfirmed).
		Return(confirmed, nil)

	service := newTestService(mockBookings, mockRooms, mockProps)

	b, err := service.ConfirmPayment(context.Background(), 7, 40320)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, b.Status)
}

func TestService_ConfirmPayment_PartialKeepsPending(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockProps := new(MockPropertyRepository)

	pending := &domain.Booking{
		ID:     7,
		Status: domain.BookingPending,
		Pricing: domain.Pricing{
			TotalAmount:   40320,
			PendingAmount: 40320,
		},
	}
	mockBookings.On("GetByID", mock.Anything, int64(7)).Return(pending, nil)
	mockBookings.On("UpdatePayment", mock.Anything, int64(7), 10000.0, 30320.0, domain.PaymentPending, domain.BookingPending).
		Return(&domain.Booking{ID: 7, Status: domain.BookingPending}, nil)

	service := newTestService(mockBookings, mockRooms, mockProps)

	b, err := service.ConfirmPayment(context.Background(), 7, 10000)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingPending, b.Status)
}

func TestService_ConfirmPayment_AlreadyCheckedIn(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockProps := new(MockPropertyRepository)

	mockBookings.On("GetByID", mock.Anything, int64(7)).
		Return(&domain.Booking{ID: 7, Status: domain.BookingCheckedIn}, nil)

	service := newTestService(mockBookings, mockRooms, mockProps)

	_, err := service.ConfirmPayment(context.Background(), 7, 100)

	var invalid *InvalidTransitionError
	assert.ErrorAs(t, err, &invalid)
	assert.Equal(t, domain.BookingCheckedIn, invalid.From)
}

func TestService_CancelBooking_ReleasesBeds(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockProps := new(MockPropertyRepository)

	confirmed := &domain.Booking{
		ID:          7,
		RoomID:      10,
		Status:      domain.BookingConfirmed,
		BedNumbers:  []int{1, 2},
		CheckInDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Pricing:     domain.Pricing{TotalAmount: 40320, PaidAmount: 40320},
	}
	mockBookings.On("GetByID", mock.Anything, int64(7)).Return(confirmed, nil)

	cancelled := &domain.Booking{ID: 7, Status: domain.BookingCancelled, PaymentStatus: domain.PaymentRefunded}
	mockBookings.On("CancelWithRelease", mock.Anything, int64(7), "found another place", domain.PaymentRefunded).
		Return(cancelled, nil)

	service := newTestService(mockBookings, mockRooms, mockProps)

	b, err := service.CancelBooking(context.Background(), 7, "found another place")

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)
	assert.Equal(t, domain.PaymentRefunded, b.PaymentStatus)
}

func TestService_CancelBooking_NoRefundOnShortNotice(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockProps := new(MockPropertyRepository)

	checkIn := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	paid := &domain.Booking{
		ID:          7,
		RoomID:      10,
		Status:      domain.BookingConfirmed,
		BedNumbers:  []int{1},
		CheckInDate:   checkIn,
		PaymentStatus: domain.PaymentPaid,
		Pricing:       domain.Pricing{TotalAmount: 20160, PaidAmount: 20160},
	}
	mockBookings.On("GetByID", mock.Anything, int64(7)).Return(paid, nil)

	// payment status unchanged: the policy returned zero refund
	mockBookings.On("CancelWithRelease", mock.Anything, int64(7), "emergency", domain.PaymentPaid).
		Return(&domain.Booking{ID: 7, Status: domain.BookingCancelled}, nil)

	clock := func() time.Time { return checkIn.AddDate(0, 0, -1) }
	service := newTestService(mockBookings, mockRooms, mockProps,
		WithRefundPolicy(NoticeRefundPolicy{FullBefore: 7, PartialPercent: 0}),
		withClock(clock))

	b, err := service.CancelBooking(context.Background(), 7, "emergency")

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)
}

func TestService_CancelBooking_RequiresReason(t *testing.T) {
	service := newTestService(new(MockBookingRepository), new(MockRoomRepository), new(MockPropertyRepository))

	_, err := service.CancelBooking(context.Background(), 7, "")

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "reason", verr.Field)
}

func TestService_CancelBooking_AfterCheckIn(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockProps := new(MockPropertyRepository)

	mockBookings.On("GetByID", mock.Anything, int64(7)).
		Return(&domain.Booking{ID: 7, Status: domain.BookingCheckedIn}, nil)

	service := newTestService(mockBookings, mockRooms, mockProps)

	_, err := service.CancelBooking(context.Background(), 7, "changed my mind")

	var invalid *InvalidTransitionError
	assert.ErrorAs(t, err, &invalid)
	mockBookings.AssertNotCalled(t, "CancelWithRelease", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CheckIn_BeforeDate(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockProps := new(MockPropertyRepository)

	mockBookings.On("GetByID", mock.Anything, int64(7)).Return(&domain.Booking{
		ID:          7,
		Status:      domain.BookingConfirmed,
		CheckInDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}, nil)

	service := newTestService(mockBookings, mockRooms, mockProps)

	_, err := service.CheckIn(context.Background(), 7, time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC))

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "check_in_date", verr.Field)
}

func TestService_CheckIn_FromPending(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockProps := new(MockPropertyRepository)

	mockBookings.On("GetByID", mock.Anything, int64(7)).
		Return(&domain.Booking{ID: 7, Status: domain.BookingPending}, nil)

	service := newTestService(mockBookings, mockRooms, mockProps)

	_, err := service.CheckIn(context.Background(), 7, time.Now())

	var invalid *InvalidTransitionError
	assert.ErrorAs(t, err, &invalid)
	assert.Equal(t, domain.BookingPending, invalid.From)
	assert.Equal(t, domain.BookingCheckedIn, invalid.To)
}

func TestService_CheckOut_ReleasesBeds(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockProps := new(MockPropertyRepository)

	checkedIn := &domain.Booking{
		ID:           7,
		RoomID:       10,
		Status:       domain.BookingCheckedIn,
		BedNumbers:   []int{1, 2},
		CheckOutDate: time.Date(2026, 12, 10, 0, 0, 0, 0, time.UTC),
	}
	mockBookings.On("GetByID", mock.Anything, int64(7)).Return(checkedIn, nil)
	mockBookings.On("CheckOutWithRelease", mock.Anything, int64(7)).
		Return(&domain.Booking{ID: 7, Status: domain.BookingCheckedOut}, nil)

	service := newTestService(mockBookings, mockRooms, mockProps)

	b, err := service.CheckOut(context.Background(), 7, time.Date(2026, 12, 10, 0, 0, 0, 0, time.UTC))

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingCheckedOut, b.Status)
}

func TestService_AdvanceStatuses(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockProps := new(MockPropertyRepository)

	now := time.Date(2026, 9, 15, 3, 0, 0, 0, time.UTC)
	ref := repository.RoomRef{PropertyID: 5, RoomID: 10}

	mockBookings.On("RoomIDsWithStatus", mock.Anything, mock.Anything).Return([]repository.RoomRef{ref}, nil)
	mockBookings.On("ListDueCheckIns", mock.Anything, int64(5), int64(10), now).
		Return([]domain.Booking{{ID: 1, Status: domain.BookingConfirmed}}, nil)
	mockBookings.On("UpdateStatus", mock.Anything, int64(1), domain.BookingCheckedIn).Return(nil)
	mockBookings.On("ListDueCheckOuts", mock.Anything, int64(5), int64(10), now).
		Return([]domain.Booking{{ID: 2, Status: domain.BookingCheckedIn}}, nil)
	mockBookings.On("CheckOutWithRelease", mock.Anything, int64(2)).
		Return(&domain.Booking{ID: 2, Status: domain.BookingCheckedOut}, nil)
	mockBookings.On("ListDueCompletions", mock.Anything, int64(5), int64(10), now.Add(-48*time.Hour)).
		Return([]domain.Booking{{ID: 3, Status: domain.BookingCheckedOut}}, nil)
	mockBookings.On("UpdateStatus", mock.Anything, int64(3), domain.BookingCompleted).Return(nil)

	service := newTestService(mockBookings, mockRooms, mockProps)

	applied, err := service.AdvanceStatuses(context.Background(), now)

	assert.NoError(t, err)
	assert.Equal(t, 3, applied)
}

func TestService_AdvanceStatuses_NothingDue(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockProps := new(MockPropertyRepository)

	now := time.Date(2026, 9, 15, 3, 0, 0, 0, time.UTC)
	ref := repository.RoomRef{PropertyID: 5, RoomID: 10}

	mockBookings.On("RoomIDsWithStatus", mock.Anything, mock.Anything).Return([]repository.RoomRef{ref}, nil)
	mockBookings.On("ListDueCheckIns", mock.Anything, int64(5), int64(10), now).Return([]domain.Booking{}, nil)
	mockBookings.On("ListDueCheckOuts", mock.Anything, int64(5), int64(10), now).Return([]domain.Booking{}, nil)
	mockBookings.On("ListDueCompletions", mock.Anything, int64(5), int64(10), now.Add(-48*time.Hour)).Return([]domain.Booking{}, nil)

	service := newTestService(mockBookings, mockRooms, mockProps)

	// second run over already-advanced rooms applies nothing
	applied, err := service.AdvanceStatuses(context.Background(), now)

	assert.NoError(t, err)
	assert.Equal(t, 0, applied)
	mockBookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ListPropertyBookings_OwnershipCheck(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockRooms := new(MockRoomRepository)
	mockProps := new(MockPropertyRepository)

	mockProps.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Property{ID: 5, OwnerID: 2}, nil)

	service := newTestService(mockBookings, mockRooms, mockProps)

	_, err := service.ListPropertyBookings(context.Background(), 5, 99)
	assert.ErrorIs(t, err, ErrForbidden)

	mockBookings.On("ListByProperty", mock.Anything, int64(5)).Return([]domain.Booking{}, nil)
	_, err = service.ListPropertyBookings(context.Background(), 5, 2)
	assert.NoError(t, err)
}

func TestService_GetBookingByCode_NotFound(t *testing.T) {
	mockBookings := new(MockBookingRepository)

	mockBookings.On("GetByCode", mock.Anything, "BR00000000").Return(nil, repository.ErrNotFound)

	service := newTestService(mockBookings, new(MockRoomRepository), new(MockPropertyRepository))

	_, err := service.GetBookingByCode(context.Background(), "BR00000000")

	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
	assert.Equal(t, "booking", nf.Resource)
}
