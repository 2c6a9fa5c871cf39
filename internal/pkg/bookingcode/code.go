// Package bookingcode generates human-readable booking references in the
// BR+8-digit format. Uniqueness is enforced by a unique index on the bookings
// table; callers regenerate and retry on collision.
package bookingcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	Prefix = "BR"
	digits = 8
)

var maxCode = big.NewInt(100000000)

func Generate() string {
	n, err := rand.Int(rand.Reader, maxCode)
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(fmt.Sprintf("bookingcode: %v", err))
	}
	return fmt.Sprintf("%s%08d", Prefix, n.Int64())
}
