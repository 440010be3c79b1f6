package cpuid

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureAndReplayFixture(t *testing.T) {
	fakeExec := func(leaf LeafId, subleaf SubleafId) RegisterSet {
		switch leaf {
		case 0:
			return RegisterSet{EAX: 0x16, EBX: 0x756e6547, ECX: 0x6c65746e, EDX: 0x49656e69}
		case 1:
			return RegisterSet{EAX: 0x000906EA}
		case LeafExtendedBase:
			return RegisterSet{EAX: uint32(LeafExtendedBase)}
		default:
			return RegisterSet{}
		}
	}

	var buf bytes.Buffer
	require.NoError(t, CaptureFixture(&buf, fakeExec, VendorIntel, PlanOptions{}))

	replay, vendor, err := FixtureExecutor(&buf)
	require.NoError(t, err)
	assert.Equal(t, VendorIntel, vendor)

	rs := replay(0, 0)
	assert.Equal(t, uint32(0x16), rs.EAX)
	rs = replay(1, 0)
	assert.Equal(t, uint32(0x000906EA), rs.EAX)

	// An (leaf, subleaf) never captured replays as the zero RegisterSet.
	missing := replay(0xDEADBEEF, 0)
	assert.Equal(t, RegisterSet{}, missing)
}
