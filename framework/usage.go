package framework

import (
	"strings"
)

// Usage returns the grammar below t, descending through every level.
// With withHelp, help texts are printed next to the token names, one
// alternative per line.
func (t *Token) Usage(withHelp bool) string {
	return t.usage(withHelp, true, 0)
}

// Completions returns a terse listing of the alternatives below t. Below the
// first level it only descends into alternatives that are the sole choice of
// their level.
func (t *Token) Completions(withHelp bool) string {
	return t.usage(withHelp, false, 0)
}

func (t *Token) usage(withHelp, recurse bool, depth int) string {
	if t.IsLeaf() {
		return ""
	}

	alts := t.alternatives()
	sb := &strings.Builder{}
	if withHelp {
		sb.WriteString(indent(depth))
	}
	sb.WriteString(t.openDelim(len(alts), withHelp))

	helpPrinted := false
	for i, alt := range alts {
		printHelp := withHelp && alt.help != ""
		helpPrinted = helpPrinted || printHelp
		if i > 0 {
			if helpPrinted {
				sb.WriteString("\n")
				sb.WriteString(indent(depth))
			}
			if !withHelp {
				sb.WriteString(" ")
			}
			sb.WriteString("| ")
		}
		sb.WriteString(alt.name)
		if printHelp {
			sb.WriteString(" : ")
			sb.WriteString(alt.help)
		}
		// sole alternatives are always expanded
		if recurse || len(alts) == 1 {
			if sub := alt.usage(withHelp, recurse, depth+1); sub != "" {
				if withHelp {
					sb.WriteString("\n")
				} else {
					sb.WriteString(" ")
				}
				sb.WriteString(sub)
			}
		}
	}
	sb.WriteString(t.closeDelim(len(alts)))
	return sb.String()
}

func (t *Token) openDelim(alts int, withHelp bool) string {
	switch {
	case t.mayTerminate:
		return "[ "
	case alts > 1:
		return "{ "
	case withHelp:
		return "  "
	default:
		return ""
	}
}

func (t *Token) closeDelim(alts int) string {
	switch {
	case t.mayTerminate:
		return " ]"
	case alts > 1:
		return " }"
	default:
		return ""
	}
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}
