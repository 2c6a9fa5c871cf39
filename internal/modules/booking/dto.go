package booking

import "repatroom/internal/domain"

type GuestRequest struct {
	Name     string `json:"name" binding:"required"`
	Age      int    `json:"age" binding:"required,gt=0"`
	Relation string `json:"relation" binding:"required,oneof=SELF FRIEND FAMILY"`
}

type CreateBookingRequest struct {
	CustomerID      int64          `json:"-"`
	PropertyID      int64          `json:"property_id" binding:"required"`
	RoomID          int64          `json:"room_id" binding:"required"`
	BedNumbers      []int          `json:"bed_numbers"`
	CheckInDate     string         `json:"check_in_date" binding:"required"`
	CheckOutDate    string         `json:"check_out_date" binding:"required"`
	Guests          []GuestRequest `json:"guests" binding:"required,min=1,dive"`
	SpecialRequests string         `json:"special_requests"`
	UpfrontAmount   float64        `json:"upfront_amount"`
}

func (r CreateBookingRequest) guests() []domain.Guest {
	out := make([]domain.Guest, 0, len(r.Guests))
	for _, g := range r.Guests {
		out = append(out, domain.Guest{
			Name:     g.Name,
			Age:      g.Age,
			Relation: domain.GuestRelation(g.Relation),
		})
	}
	return out
}

type ConfirmPaymentRequest struct {
	Amount float64 `json:"amount" binding:"gte=0"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
}
