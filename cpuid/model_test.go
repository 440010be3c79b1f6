package cpuid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModelFromIntelCoffeeLake(t *testing.T) {
	m := ModelFrom(0x000906EA)
	assert.Equal(t, uint32(6), m.Family)
	assert.Equal(t, uint32(158), m.Model)
	assert.Equal(t, uint32(10), m.Stepping)
}

func TestModelFromAMDFamily15h(t *testing.T) {
	// Real-world AMD Family 15h ("Bulldozer") signature: base family 0xF
	// folds with extended family 0x6 to 21 (0x15); base model 1, extended
	// model 0.
	m := ModelFrom(0x00600F11)
	assert.Equal(t, uint32(21), m.Family)
	assert.Equal(t, uint32(1), m.Model)
	assert.Equal(t, uint32(1), m.Stepping)
}
