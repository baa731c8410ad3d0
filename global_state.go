package compose

import (
	"log/slog"
	"time"

	"github.com/cockroachdb/swiss"
)

// Trace selects which passes emit per-widget debug spans.
type Trace struct {
	Compose bool
	Layout  bool
}

// globalState is the per-RenderRoot state shared by every pass: the
// outgoing signal queue, focus, instrumentation and cross-pass flags.
type globalState struct {
	trace   Trace
	logger  *slog.Logger
	metrics *passMetrics

	// signals is append-only while a pass runs.
	signals []Signal

	focused WidgetID

	// needsPointerPass is set when hovered/pointer targets may be stale.
	needsPointerPass bool

	maxDepth int
	stats    passStats
	last     PassStats
	// visited detects a widget reached twice in one pass. Only allocated
	// when invariant checks are enabled.
	visited *swiss.Map[WidgetID, struct{}]
}

// passStats counts what the current compose pass did.
type passStats struct {
	visited    int
	skipped    int
	imeSignals int
}

// PassStats summarizes one finished compose pass.
type PassStats struct {
	// Visited counts widgets that passed the skip check.
	Visited int
	// Skipped counts widgets whose subtree was pruned.
	Skipped    int
	IMESignals int
	Elapsed    time.Duration
}

// IsFocused reports whether id holds input focus.
func (g *globalState) IsFocused(id WidgetID) bool {
	return g.focused.IsValid() && g.focused == id
}

// emitSignal appends to the outgoing signal queue.
func (g *globalState) emitSignal(s Signal) {
	g.signals = append(g.signals, s)
}
