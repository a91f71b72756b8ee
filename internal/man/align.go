package man

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/doxyman/internal/model"
)

// splitPointer detects a trailing pointer marker on a raw type string and
// returns the base type and the marker separately, so column alignment
// operates on the base type only. Recognized markers are "*", "**" and
// the opening "(*" of a function-pointer declarator.
func splitPointer(t string) (base, ptr string) {
	t = strings.TrimSpace(t)
	switch {
	case strings.HasSuffix(t, "**"):
		return strings.TrimSpace(strings.TrimSuffix(t, "**")), "**"
	case strings.HasSuffix(t, "(*"):
		return strings.TrimSpace(strings.TrimSuffix(t, "(*")), "(*"
	case strings.HasSuffix(t, "*"):
		return strings.TrimSpace(strings.TrimSuffix(t, "*")), "*"
	}
	return t, ""
}

// alignWidth computes the column width for a declaration list: the
// longest base type at or under the cutoff. Longer types do not widen
// the column.
func alignWidth(params []model.Param) int {
	width := 0
	for _, p := range params {
		base, _ := splitPointer(p.Type)
		if len(base) > typeAlignCutoff {
			continue
		}
		if len(base) > width {
			width = len(base)
		}
	}
	return width
}

// formatDecl renders one declaration, bold type and italic name, with
// the base type padded to width and any pointer marker glued to the
// name the way conventional C declarations are pretty-printed.
func formatDecl(p model.Param, width int) string {
	base, ptr := splitPointer(p.Type)
	padded := base
	if len(base) <= typeAlignCutoff && len(base) < width {
		padded = base + strings.Repeat(" ", width-len(base))
	}
	if ptr != "" {
		return fmt.Sprintf("\\fB%s %s\\fI%s\\fP", padded, ptr, p.Name)
	}
	return fmt.Sprintf("\\fB%s \\fI%s\\fP", padded, p.Name)
}
