package scene

import (
	"fmt"
	"strings"

	compose "github.com/grindlemire/go-compose"
)

// Row is one widget of a tree snapshot, in depth-first order.
type Row struct {
	ID    compose.WidgetID
	Name  string
	Depth int
	State compose.WidgetStateView
}

// Rows snapshots every widget of the tree.
func (t *Tree) Rows() []Row {
	var rows []Row
	t.Root.Walk(t.Root.Root(), func(id compose.WidgetID, depth int) {
		s, _ := t.Root.State(id)
		rows = append(rows, Row{ID: id, Name: t.Name(id), Depth: depth, State: s})
	})
	return rows
}

// Flags returns the compose-relevant dirty bits of s, space separated.
func Flags(s compose.WidgetStateView) string {
	var flags []string
	if s.NeedsLayout {
		flags = append(flags, "needs-layout")
	}
	if s.NeedsCompose {
		flags = append(flags, "needs-compose")
	}
	if s.RequestCompose {
		flags = append(flags, "request-compose")
	}
	if s.TranslationChanged {
		flags = append(flags, "moved")
	}
	return strings.Join(flags, " ")
}

// WindowOrigin formats the window origin, or "-" before the first compose.
func WindowOrigin(s compose.WidgetStateView) string {
	if !s.Composed {
		return "-"
	}
	return s.WindowOrigin.String()
}

// Dump renders the tree one widget per line, indented by depth.
func (t *Tree) Dump() string {
	var b strings.Builder
	for _, row := range t.Rows() {
		s := row.State
		fmt.Fprintf(&b, "%s%s origin=%s size=%s", strings.Repeat("  ", row.Depth), row.Name, s.Origin, s.Size)
		if !s.Translation.IsZero() {
			fmt.Fprintf(&b, " translation=%s", s.Translation)
		}
		fmt.Fprintf(&b, " window=%s", WindowOrigin(s))
		if flags := Flags(s); flags != "" {
			fmt.Fprintf(&b, " [%s]", flags)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatSignal renders a signal with widget names instead of ids.
func (t *Tree) FormatSignal(s compose.Signal) string {
	switch s := s.(type) {
	case compose.StartIMESignal:
		return "start-ime " + t.Name(s.Widget)
	case compose.EndIMESignal:
		return "end-ime " + t.Name(s.Widget)
	default:
		return fmt.Sprint(s)
	}
}

// FormatSignals joins signals with ", ", or returns "none".
func (t *Tree) FormatSignals(signals []compose.Signal) string {
	if len(signals) == 0 {
		return "none"
	}
	out := make([]string, len(signals))
	for i, s := range signals {
		out[i] = t.FormatSignal(s)
	}
	return strings.Join(out, ", ")
}

// Format renders a StepResult as three lines: composed widgets, pass
// statistics and signals.
func (t *Tree) Format(res StepResult) string {
	composed := "none"
	if len(res.Composed) > 0 {
		composed = strings.Join(res.Composed, " ")
	}
	return fmt.Sprintf("composed: %s\nvisited=%d skipped=%d ime=%d\nsignals: %s\n",
		composed, res.Stats.Visited, res.Stats.Skipped, res.Stats.IMESignals, t.FormatSignals(res.Signals))
}
