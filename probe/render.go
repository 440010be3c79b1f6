package probe

import (
	"fmt"
	"strings"
)

// Render writes m in the fixed-width table format of §6: a header row
// of destination indices, an underscore rule, then one row per source
// with the diagonal printed as "-".
func Render(m Matrix) string {
	var b strings.Builder
	b.WriteString("       \\ core-to-core ping time/ns\n")
	b.WriteString("        \\ destination\n")
	b.WriteString(" source  \\ ")
	for _, cpu := range m.Logical {
		fmt.Fprintf(&b, "%5d|", cpu)
	}
	b.WriteString("\n")

	b.WriteString("__________\\")
	for range m.Logical {
		b.WriteString("_____|")
	}
	b.WriteString("\n")

	for i, cpu := range m.Logical {
		fmt.Fprintf(&b, "%9d |", cpu)
		for j := range m.Logical {
			if i == j {
				b.WriteString("    -|")
				continue
			}
			fmt.Fprintf(&b, "%5.0f|", m.Ns[i][j])
		}
		b.WriteString("\n")
	}
	return b.String()
}
