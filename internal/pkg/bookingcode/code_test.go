package bookingcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.Regexp(t, `^BR\d{8}$`, Generate())
	}
}
