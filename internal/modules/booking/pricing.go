package booking

import (
	"math"
	"time"

	"repatroom/internal/domain"
)

type DiscountType string

const (
	DiscountNone    DiscountType = "NONE"
	DiscountFlat    DiscountType = "FLAT"
	DiscountPercent DiscountType = "PERCENT"
)

// DiscountPolicy describes the discount applied to a booking's base amount.
// A flat value is an absolute amount; a percent value is 0-100 of base.
type DiscountPolicy struct {
	Type  DiscountType
	Value float64
}

func (p DiscountPolicy) amountOn(base float64) float64 {
	var d float64
	switch p.Type {
	case DiscountFlat:
		d = p.Value
	case DiscountPercent:
		d = base * clampPercent(p.Value) / 100
	default:
		return 0
	}
	if d < 0 {
		return 0
	}
	if d > base {
		return base
	}
	return d
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// ComputePricing derives the full pricing snapshot for a booking. It is a
// pure function: recomputing from the same inputs yields the same snapshot,
// so edits never accumulate amounts.
//
//	base    = pricePerBed * bedCount * months
//	tax     = taxRate * (base - discount)
//	total   = base - discount + tax
//	pending = max(0, total - upfront)
//
// All amounts are rounded half-up to 2 decimal places.
func ComputePricing(pricePerBed float64, bedCount, months int, policy DiscountPolicy, taxRate, upfront float64) domain.Pricing {
	base := round2(pricePerBed * float64(bedCount) * float64(months))
	discount := round2(policy.amountOn(base))
	tax := round2(taxRate * (base - discount))
	total := round2(base - discount + tax)

	paid := round2(upfront)
	if paid < 0 {
		paid = 0
	}
	if paid > total {
		paid = total
	}
	pending := round2(total - paid)
	if pending < 0 {
		pending = 0
	}

	return domain.Pricing{
		BaseAmount:     base,
		DiscountAmount: discount,
		TaxAmount:      tax,
		TotalAmount:    total,
		PaidAmount:     paid,
		PendingAmount:  pending,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RefundPolicy decides how much of the paid amount is returned when a booking
// is cancelled before check-in. Exact percentages are deployment policy, not
// a fixed rule.
type RefundPolicy interface {
	Refund(paid float64, cancelAt, checkIn time.Time) float64
}

// FullRefundPolicy returns the entire paid amount regardless of notice.
type FullRefundPolicy struct{}

func (FullRefundPolicy) Refund(paid float64, _, _ time.Time) float64 { return paid }

// NoticeRefundPolicy refunds FullBefore days or more of notice at 100%, and
// applies PartialPercent below that.
type NoticeRefundPolicy struct {
	FullBefore     int
	PartialPercent float64
}

func (p NoticeRefundPolicy) Refund(paid float64, cancelAt, checkIn time.Time) float64 {
	notice := checkIn.Sub(cancelAt)
	if notice >= time.Duration(p.FullBefore)*24*time.Hour {
		return paid
	}
	return round2(paid * clampPercent(p.PartialPercent) / 100)
}
