package booking

import (
	"context"
	"time"

	"repatroom/internal/domain"
	"repatroom/internal/repository"
)

// BookingRepository is the booking ledger. Multi-write methods
// (CreateWithReservation, CancelWithRelease, CheckOutWithRelease) must apply
// their booking and inventory writes atomically for a single room.
type BookingRepository interface {
	CreateWithReservation(ctx context.Context, b *domain.Booking) error
	CancelWithRelease(ctx context.Context, id int64, reason string, paymentStatus domain.PaymentStatus) (*domain.Booking, error)
	CheckOutWithRelease(ctx context.Context, id int64) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByCode(ctx context.Context, code string) (*domain.Booking, error)
	ListByRoom(ctx context.Context, propertyID, roomID int64, statuses []domain.BookingStatus) ([]domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]domain.Booking, error)
	ListByProperty(ctx context.Context, propertyID int64) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	UpdatePayment(ctx context.Context, id int64, paid, pending float64, paymentStatus domain.PaymentStatus, status domain.BookingStatus) (*domain.Booking, error)
	RoomIDsWithStatus(ctx context.Context, statuses []domain.BookingStatus) ([]repository.RoomRef, error)
	ListDueCheckIns(ctx context.Context, propertyID, roomID int64, due time.Time) ([]domain.Booking, error)
	ListDueCheckOuts(ctx context.Context, propertyID, roomID int64, due time.Time) ([]domain.Booking, error)
	ListDueCompletions(ctx context.Context, propertyID, roomID int64, cutoff time.Time) ([]domain.Booking, error)
}

// RoomRepository is the bed inventory store.
type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	Reserve(ctx context.Context, roomID int64, beds int) error
	Release(ctx context.Context, roomID int64, beds int) error
}

// PropertyRepository resolves property ownership for owner-facing queries.
type PropertyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
}

// CodeGenerator produces candidate booking codes (BR + 8 digits). Global
// uniqueness is enforced by the persistence layer; the service retries on
// collision.
type CodeGenerator func() string
