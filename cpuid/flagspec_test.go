package cpuid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlagSpecCalibrationTable(t *testing.T) {
	cases := []struct {
		input string
		want  FlagSpec
	}{
		{
			"CPUID.01:ECX[SSE4.2]",
			FlagSpec{SelectorEAX: 0x1, SelectorECX: 0x0, Register: RegECX, Name: "sse4.2", BitLo: WholeRegisterSentinel, BitHi: WholeRegisterSentinel},
		},
		{
			"CPUID.01:ECX.MOVBE[bit 22]",
			FlagSpec{SelectorEAX: 0x1, SelectorECX: 0x0, Register: RegECX, Name: "movbe", BitLo: 22, BitHi: 22},
		},
		{
			"CPUID.(EAX=07H, ECX=0H):EBX.BMI1[bit 3]",
			FlagSpec{SelectorEAX: 0x7, SelectorECX: 0x0, Register: RegEBX, Name: "bmi1", BitLo: 3, BitHi: 3},
		},
		{
			"CPUID.(EAX=0DH,ECX=0):EAX[4:3]",
			FlagSpec{SelectorEAX: 0xD, SelectorECX: 0x0, Register: RegEAX, Name: "", BitLo: 3, BitHi: 4},
		},
		{
			"CPUID.(EAX=07H,ECX=0H):ECX.MAWAU[bits 21:17]",
			FlagSpec{SelectorEAX: 0x7, SelectorECX: 0x0, Register: RegECX, Name: "mawau", BitLo: 17, BitHi: 21},
		},
		{
			"CPUID.80000008H:EAX[bits 7-0]",
			FlagSpec{SelectorEAX: 0x80000008, SelectorECX: 0x0, Register: RegEAX, Name: "", BitLo: 0, BitHi: 7},
		},
	}

	for _, c := range cases {
		got, err := ParseFlagSpec(c.input)
		require.NoError(t, err, c.input)
		assert.Equal(t, c.want, got, c.input)
	}
}

func TestParseFlagSpecRejectsGarbage(t *testing.T) {
	_, err := ParseFlagSpec("not a flag spec")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}
