package domain

import "time"

type PropertyType string

const (
	PropertyPG       PropertyType = "PG"
	PropertyHostel   PropertyType = "HOSTEL"
	PropertyFlat     PropertyType = "FLAT"
	PropertyCoLiving PropertyType = "CO_LIVING"
)

type RoomType string

const (
	RoomSingle   RoomType = "SINGLE"
	RoomSharing2 RoomType = "SHARING_2"
	RoomSharing3 RoomType = "SHARING_3"
	RoomSharing4 RoomType = "SHARING_4"
)

type Property struct {
	ID          int64        `json:"id"`
	OwnerID     int64        `json:"owner_id"`
	Name        string       `json:"name" validate:"required"`
	Description string       `json:"description,omitempty"`
	Type        PropertyType `json:"type" validate:"required,oneof=PG HOSTEL FLAT CO_LIVING"`
	Category    string       `json:"category,omitempty"` // BOYS, GIRLS, FAMILY, BACHELOR, CO_LIVING
	Street      string       `json:"street,omitempty"`
	Area        string       `json:"area,omitempty"`
	City        string       `json:"city" validate:"required"`
	State       string       `json:"state,omitempty"`
	Pincode     string       `json:"pincode,omitempty"`
	Facilities  []string     `json:"facilities,omitempty"`
	IsActive    bool         `json:"is_active"`
	IsVerified  bool         `json:"is_verified"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	Rooms []Room `json:"rooms,omitempty"`
}

// Room carries the per-room bed inventory. AvailableBeds changes only through
// lifecycle operations (reserve on create, release on cancel/check-out) and
// always satisfies 0 <= AvailableBeds <= TotalBeds.
type Room struct {
	ID            int64     `json:"id"`
	PropertyID    int64     `json:"property_id"`
	Name          string    `json:"name,omitempty"`
	RoomType      RoomType  `json:"room_type" validate:"required,oneof=SINGLE SHARING_2 SHARING_3 SHARING_4"`
	TotalBeds     int       `json:"total_beds" validate:"required,gt=0"`
	AvailableBeds int       `json:"available_beds"`
	PricePerBed   float64   `json:"price_per_bed" validate:"required,gte=0"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
