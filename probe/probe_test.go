package probe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairsForAll(t *testing.T) {
	pairs := pairsFor(3, PairAll)
	assert.Len(t, pairs, 6)
	for _, p := range pairs {
		assert.NotEqual(t, p[0], p[1])
	}
}

func TestPairsForRing(t *testing.T) {
	pairs := pairsFor(4, PairRing)
	assert.Len(t, pairs, 8)
}

func TestRunRequiresTwoCPUs(t *testing.T) {
	_, err := Run(context.Background(), []int{0}, Options{})
	require.Error(t, err)
}

func TestRenderDiagonalIsDash(t *testing.T) {
	m := Matrix{Size: 2, Logical: []int{0, 1}, Ns: [][]float64{{0, 50}, {48, 0}}}
	out := Render(m)
	assert.Contains(t, out, "    -|")
	assert.Contains(t, out, "core-to-core ping time/ns")
}
