package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"repatroom/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	Code           string    `gorm:"column:code;uniqueIndex:idx_bookings_code"`
	CustomerID     int64     `gorm:"column:customer_id;index"`
	PropertyID     int64     `gorm:"column:property_id;index"`
	RoomID         int64     `gorm:"column:room_id;index"`
	BedNumbers     string    `gorm:"column:bed_numbers;type:text"`
	CheckInDate    time.Time `gorm:"column:check_in_date"`
	CheckOutDate   time.Time `gorm:"column:check_out_date"`
	DurationMonths int       `gorm:"column:duration_months"`
	Guests         string    `gorm:"column:guests;type:text"`

	BaseAmount     float64 `gorm:"column:base_amount"`
	DiscountAmount float64 `gorm:"column:discount_amount"`
	TaxAmount      float64 `gorm:"column:tax_amount"`
	TotalAmount    float64 `gorm:"column:total_amount"`
	PaidAmount     float64 `gorm:"column:paid_amount"`
	PendingAmount  float64 `gorm:"column:pending_amount"`

	Status        string `gorm:"column:status;index"`
	PaymentStatus string `gorm:"column:payment_status"`

	SpecialRequests    *string `gorm:"column:special_requests"`
	CancellationReason *string `gorm:"column:cancellation_reason"`

	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
	CancelledAt *time.Time `gorm:"column:cancelled_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) (*domain.Booking, error) {
	var beds []int
	if m.BedNumbers != "" {
		if err := json.Unmarshal([]byte(m.BedNumbers), &beds); err != nil {
			return nil, err
		}
	}
	var guests []domain.Guest
	if m.Guests != "" {
		if err := json.Unmarshal([]byte(m.Guests), &guests); err != nil {
			return nil, err
		}
	}

	var special, reason string
	if m.SpecialRequests != nil {
		special = *m.SpecialRequests
	}
	if m.CancellationReason != nil {
		reason = *m.CancellationReason
	}

	return &domain.Booking{
		ID:             m.ID,
		Code:           m.Code,
		CustomerID:     m.CustomerID,
		PropertyID:     m.PropertyID,
		RoomID:         m.RoomID,
		BedNumbers:     beds,
		CheckInDate:    m.CheckInDate,
		CheckOutDate:   m.CheckOutDate,
		DurationMonths: m.DurationMonths,
		Guests:         guests,
		Pricing: domain.Pricing{
			BaseAmount:     m.BaseAmount,
			DiscountAmount: m.DiscountAmount,
			TaxAmount:      m.TaxAmount,
			TotalAmount:    m.TotalAmount,
			PaidAmount:     m.PaidAmount,
			PendingAmount:  m.PendingAmount,
		},
		Status:             domain.BookingStatus(m.Status),
		PaymentStatus:      domain.PaymentStatus(m.PaymentStatus),
		SpecialRequests:    special,
		CancellationReason: reason,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
		CancelledAt:        m.CancelledAt,
	}, nil
}

func toBookingModel(b *domain.Booking) (bookingModel, error) {
	bedsJSON, err := json.Marshal(b.BedNumbers)
	if err != nil {
		return bookingModel{}, err
	}
	guestsJSON, err := json.Marshal(b.Guests)
	if err != nil {
		return bookingModel{}, err
	}

	var special, reason *string
	if b.SpecialRequests != "" {
		v := b.SpecialRequests
		special = &v
	}
	if b.CancellationReason != "" {
		v := b.CancellationReason
		reason = &v
	}

	return bookingModel{
		ID:                 b.ID,
		Code:               b.Code,
		CustomerID:         b.CustomerID,
		PropertyID:         b.PropertyID,
		RoomID:             b.RoomID,
		BedNumbers:         string(bedsJSON),
		CheckInDate:        b.CheckInDate,
		CheckOutDate:       b.CheckOutDate,
		DurationMonths:     b.DurationMonths,
		Guests:             string(guestsJSON),
		BaseAmount:         b.Pricing.BaseAmount,
		DiscountAmount:     b.Pricing.DiscountAmount,
		TaxAmount:          b.Pricing.TaxAmount,
		TotalAmount:        b.Pricing.TotalAmount,
		PaidAmount:         b.Pricing.PaidAmount,
		PendingAmount:      b.Pricing.PendingAmount,
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		SpecialRequests:    special,
		CancellationReason: reason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
		CancelledAt:        b.CancelledAt,
	}, nil
}

// CreateWithReservation inserts the booking and decrements the room's
// available beds in one transaction. Either both writes land or neither does.
func (r *BookingRepository) CreateWithReservation(ctx context.Context, b *domain.Booking) error {
	m, err := toBookingModel(b)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := reserveBeds(tx, b.RoomID, b.BedCount()); err != nil {
			return err
		}
		if err := tx.Create(&m).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateCode
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	created, err := toDomainBooking(m)
	if err != nil {
		return err
	}
	*b = *created
	return nil
}

// CancelWithRelease marks the booking cancelled and returns its beds to the
// room, capped at total_beds, in one transaction. The status update is
// guarded on the statuses that may still cancel, so a caller holding a stale
// snapshot (a concurrent cancel, or a sweeper in another process) cannot
// release the same beds twice.
func (r *BookingRepository) CancelWithRelease(ctx context.Context, id int64, reason string, paymentStatus domain.PaymentStatus) (*domain.Booking, error) {
	var m bookingModel
	now := time.Now().UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		updates := map[string]any{
			"status":              string(domain.BookingCancelled),
			"cancellation_reason": reason,
			"cancelled_at":        &now,
			"payment_status":      string(paymentStatus),
			"updated_at":          now,
		}
		res := tx.Model(&bookingModel{}).
			Where("id = ? AND status IN ?", id, []string{
				string(domain.BookingPending),
				string(domain.BookingConfirmed),
			}).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}

		held, err := toDomainBooking(m)
		if err != nil {
			return err
		}
		return releaseBeds(tx, m.RoomID, held.BedCount())
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// CheckOutWithRelease transitions the booking to CHECKED_OUT and frees its
// beds in one transaction. Guarded on CHECKED_IN so an explicit check-out and
// the sweeper cannot both release the beds.
func (r *BookingRepository) CheckOutWithRelease(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		res := tx.Model(&bookingModel{}).
			Where("id = ? AND status = ?", id, string(domain.BookingCheckedIn)).
			Updates(map[string]any{
				"status":     string(domain.BookingCheckedOut),
				"updated_at": time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}

		held, err := toDomainBooking(m)
		if err != nil {
			return err
		}
		return releaseBeds(tx, m.RoomID, held.BedCount())
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainBooking(m)
}

func (r *BookingRepository) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).Where("code = ?", code).First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainBooking(m)
}

// ListByRoom returns bookings on a room filtered to the given statuses.
// The conflict detector calls this with the live status set.
func (r *BookingRepository) ListByRoom(ctx context.Context, propertyID, roomID int64, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	raw := make([]string, 0, len(statuses))
	for _, s := range statuses {
		raw = append(raw, string(s))
	}

	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("property_id = ? AND room_id = ?", propertyID, roomID).
		Where("status IN ?", raw).
		Order("check_in_date").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(rows)
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(rows)
}

func (r *BookingRepository) ListByProperty(ctx context.Context, propertyID int64) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(rows)
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePayment records a payment against the booking and, when it confirms a
// pending booking, flips the status in the same write.
func (r *BookingRepository) UpdatePayment(ctx context.Context, id int64, paid, pending float64, paymentStatus domain.PaymentStatus, status domain.BookingStatus) (*domain.Booking, error) {
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"paid_amount":    paid,
			"pending_amount": pending,
			"payment_status": string(paymentStatus),
			"status":         string(status),
			"updated_at":     time.Now().UTC(),
		})
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// RoomIDsWithStatus returns the distinct (property, room) pairs that hold
// bookings in the given status. The sweeper uses this to checkpoint per room.
type RoomRef struct {
	PropertyID int64 `gorm:"column:property_id"`
	RoomID     int64 `gorm:"column:room_id"`
}

func (r *BookingRepository) RoomIDsWithStatus(ctx context.Context, statuses []domain.BookingStatus) ([]RoomRef, error) {
	raw := make([]string, 0, len(statuses))
	for _, s := range statuses {
		raw = append(raw, string(s))
	}

	var rows []RoomRef
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Distinct("property_id", "room_id").
		Where("status IN ?", raw).
		Order("property_id, room_id").
		Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

// ListDueCheckIns returns CONFIRMED bookings on the room whose check-in date
// has arrived.
func (r *BookingRepository) ListDueCheckIns(ctx context.Context, propertyID, roomID int64, due time.Time) ([]domain.Booking, error) {
	return r.listDue(ctx, propertyID, roomID, domain.BookingConfirmed, "check_in_date <= ?", due)
}

func (r *BookingRepository) ListDueCheckOuts(ctx context.Context, propertyID, roomID int64, due time.Time) ([]domain.Booking, error) {
	return r.listDue(ctx, propertyID, roomID, domain.BookingCheckedIn, "check_out_date <= ?", due)
}

func (r *BookingRepository) ListDueCompletions(ctx context.Context, propertyID, roomID int64, cutoff time.Time) ([]domain.Booking, error) {
	return r.listDue(ctx, propertyID, roomID, domain.BookingCheckedOut, "updated_at <= ?", cutoff)
}

func (r *BookingRepository) listDue(ctx context.Context, propertyID, roomID int64, status domain.BookingStatus, cond string, due time.Time) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("property_id = ? AND room_id = ?", propertyID, roomID).
		Where("status = ?", string(status)).
		Where(cond, due).
		Order("id").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(rows)
}

func toDomainBookings(rows []bookingModel) ([]domain.Booking, error) {
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		b, err := toDomainBooking(m)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// sqlite driver reports constraint failures as plain errors
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
