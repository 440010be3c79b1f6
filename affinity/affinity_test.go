package affinity

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinToOutOfRange(t *testing.T) {
	_, err := PinTo(runtime.NumCPU() + 1000)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestPinToNegative(t *testing.T) {
	_, err := PinTo(-1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestMeasureOverheadNonNegative(t *testing.T) {
	// MeasureOverhead must never underflow: the rdtscp loop can only be
	// slower than the bare-store loop.
	overhead := MeasureOverhead()
	assert.GreaterOrEqual(t, overhead, uint64(0))
}

func TestReleaseNilPinnedIsNoop(t *testing.T) {
	var p *Pinned
	assert.NoError(t, p.Release())
}
