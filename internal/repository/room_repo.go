package repository

import (
	"context"
	"errors"
	"time"

	"repatroom/internal/domain"

	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

type roomModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	PropertyID    int64     `gorm:"column:property_id;index"`
	Name          string    `gorm:"column:name"`
	RoomType      string    `gorm:"column:room_type"`
	TotalBeds     int       `gorm:"column:total_beds"`
	AvailableBeds int       `gorm:"column:available_beds"`
	PricePerBed   float64   `gorm:"column:price_per_bed"`
	IsActive      bool      `gorm:"column:is_active"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (roomModel) TableName() string { return "rooms" }

func toDomainRoom(m roomModel) *domain.Room {
	return &domain.Room{
		ID:            m.ID,
		PropertyID:    m.PropertyID,
		Name:          m.Name,
		RoomType:      domain.RoomType(m.RoomType),
		TotalBeds:     m.TotalBeds,
		AvailableBeds: m.AvailableBeds,
		PricePerBed:   m.PricePerBed,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toRoomModel(r *domain.Room) roomModel {
	return roomModel{
		ID:            r.ID,
		PropertyID:    r.PropertyID,
		Name:          r.Name,
		RoomType:      string(r.RoomType),
		TotalBeds:     r.TotalBeds,
		AvailableBeds: r.AvailableBeds,
		PricePerBed:   r.PricePerBed,
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var m roomModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainRoom(m), nil
}

func (r *RoomRepository) GetByProperty(ctx context.Context, propertyID int64) ([]domain.Room, error) {
	var rows []roomModel
	tx := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("id").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Room, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainRoom(m))
	}
	return out, nil
}

func (r *RoomRepository) Save(ctx context.Context, room *domain.Room) error {
	m := toRoomModel(room)
	tx := r.db.WithContext(ctx).Save(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*room = *toDomainRoom(m)
	return nil
}

// Reserve atomically decrements available_beds by the requested count. The
// guard `available_beds >= n` makes concurrent over-reservation impossible
// regardless of what the caller read before.
func (r *RoomRepository) Reserve(ctx context.Context, roomID int64, beds int) error {
	return reserveBeds(r.db.WithContext(ctx), roomID, beds)
}

// Release atomically increments available_beds, capped at total_beds so a
// double release cannot inflate inventory.
func (r *RoomRepository) Release(ctx context.Context, roomID int64, beds int) error {
	return releaseBeds(r.db.WithContext(ctx), roomID, beds)
}

// reserveBeds and releaseBeds operate on a plain gorm handle so the booking
// repository can run them inside its own transactions.

func reserveBeds(db *gorm.DB, roomID int64, beds int) error {
	tx := db.Model(&roomModel{}).
		Where("id = ? AND available_beds >= ?", roomID, beds).
		Updates(map[string]any{
			"available_beds": gorm.Expr("available_beds - ?", beds),
			"updated_at":     time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		var cnt int64
		if err := db.Model(&roomModel{}).Where("id = ?", roomID).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			return ErrNotFound
		}
		return ErrInsufficientBeds
	}
	return nil
}

func releaseBeds(db *gorm.DB, roomID int64, beds int) error {
	// CASE keeps the cap portable across PostgreSQL and SQLite
	tx := db.Model(&roomModel{}).
		Where("id = ?", roomID).
		Updates(map[string]any{
			"available_beds": gorm.Expr(
				"CASE WHEN available_beds + ? > total_beds THEN total_beds ELSE available_beds + ? END",
				beds, beds,
			),
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
