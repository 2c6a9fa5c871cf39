package booking

import (
	"time"

	"repatroom/internal/domain"
)

// findConflicts checks the candidate stay against existing bookings on the
// same room. Only live bookings (PENDING, CONFIRMED, CHECKED_IN) can
// conflict, and only when date ranges overlap under half-open semantics AND
// at least one bed is shared. A booking without recorded bed numbers occupies
// the whole room and collides with any overlapping stay.
//
// excludeID lets re-validation of an existing booking ignore itself.
func findConflicts(existing []domain.Booking, beds []int, checkIn, checkOut time.Time, excludeID int64) []BedConflict {
	var out []BedConflict
	for i := range existing {
		b := &existing[i]
		if b.ID == excludeID && excludeID != 0 {
			continue
		}
		if !b.Status.IsLive() {
			continue
		}
		if !b.Overlaps(checkIn, checkOut) {
			continue
		}
		if !b.SharesBeds(beds) {
			continue
		}
		out = append(out, BedConflict{
			BookingCode: b.Code,
			CheckIn:     b.CheckInDate,
			CheckOut:    b.CheckOutDate,
			BedNumbers:  b.BedNumbers,
		})
	}
	return out
}

// validateBedNumbers rejects duplicates and beds outside 1..totalBeds.
func validateBedNumbers(beds []int, totalBeds int) error {
	seen := make(map[int]struct{}, len(beds))
	for _, n := range beds {
		if n < 1 || n > totalBeds {
			return &ValidationError{Field: "bed_numbers", Reason: "bed number out of range"}
		}
		if _, dup := seen[n]; dup {
			return &ValidationError{Field: "bed_numbers", Reason: "duplicate bed number"}
		}
		seen[n] = struct{}{}
	}
	return nil
}
