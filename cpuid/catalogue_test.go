package cpuid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogueFindByMnemonic(t *testing.T) {
	c := NewCatalogue()
	f, key, ok := c.FindByMnemonic("sse4.2")
	require.True(t, ok)
	assert.Equal(t, LeafId(1), key.Leaf)
	assert.Equal(t, RegECX, key.Reg)
	assert.Equal(t, uint8(20), f.Lo)
}

func TestCatalogueFindByMnemonicMiss(t *testing.T) {
	c := NewCatalogue()
	_, _, ok := c.FindByMnemonic("not-a-real-flag")
	assert.False(t, ok)
}

func TestCatalogueRenderGatesOnVendorAndBit(t *testing.T) {
	c := NewCatalogue()
	// leaf 1 ecx with sse3(bit0) set, sse4.2(bit20) clear.
	rendered := c.Render(1, 0, RegECX, 1, VendorIntel, false, false)
	var mnemonics []string
	for _, r := range rendered {
		mnemonics = append(mnemonics, r.Mnemonic)
	}
	assert.Contains(t, mnemonics, "sse3")
	assert.NotContains(t, mnemonics, "sse4.2")
}

func TestCatalogueRenderIgnoreFeatureShowsZeroBits(t *testing.T) {
	c := NewCatalogue()
	rendered := c.Render(1, 0, RegECX, 0, VendorIntel, false, true)
	assert.NotEmpty(t, rendered)
}

func TestFeatureExtractBitfield(t *testing.T) {
	f := Feature{Lo: 4, Hi: 7}
	assert.Equal(t, uint32(0xA), f.Extract(0xFFFFFFAF))
}

func TestFeatureKind(t *testing.T) {
	assert.Equal(t, KindBit, Feature{Lo: 3, Hi: 3}.Kind())
	assert.Equal(t, KindField, Feature{Lo: 3, Hi: 5}.Kind())
}
