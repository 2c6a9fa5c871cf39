package catalog

type CreateRoomRequest struct {
	Name        string  `json:"name"`
	RoomType    string  `json:"room_type" validate:"required,oneof=SINGLE SHARING_2 SHARING_3 SHARING_4"`
	TotalBeds   int     `json:"total_beds" validate:"required,gt=0"`
	PricePerBed float64 `json:"price_per_bed" validate:"required,gte=0"`
}

type UpdateRoomRequest struct {
	Name        *string  `json:"name"`
	PricePerBed *float64 `json:"price_per_bed" validate:"omitempty,gte=0"`
	IsActive    *bool    `json:"is_active"`
}

type CreatePropertyRequest struct {
	Name        string              `json:"name" validate:"required"`
	Description string              `json:"description"`
	Type        string              `json:"type" validate:"required,oneof=PG HOSTEL FLAT CO_LIVING"`
	Category    string              `json:"category" validate:"omitempty,oneof=BOYS GIRLS FAMILY BACHELOR CO_LIVING"`
	Street      string              `json:"street"`
	Area        string              `json:"area"`
	City        string              `json:"city" validate:"required"`
	State       string              `json:"state"`
	Pincode     string              `json:"pincode"`
	Facilities  []string            `json:"facilities"`
	Rooms       []CreateRoomRequest `json:"rooms" validate:"required,min=1,dive"`
}
