package compose

import (
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/swiss"
	"github.com/grindlemire/go-compose/geom"
	"github.com/grindlemire/go-compose/internal/arena"
	"github.com/grindlemire/go-compose/internal/invariants"
)

// DefaultMaxDepth bounds the recursion depth of a pass.
const DefaultMaxDepth = 4096

// --- Recurse ---

// composeWidget recomputes the window origin of one widget and, unless the
// widget is clean and unmoved, runs its Compose callback, emits the IME
// relocation signal, updates its dirty flags and recurses into its children.
//
// parentTranslation is the absolute translation of the parent; parentMoved
// reports whether it changed since the previous pass.
func composeWidget(
	g *globalState,
	widget arena.Mut[WidgetID, Widget],
	state arena.Mut[WidgetID, WidgetState],
	parentMoved bool,
	parentTranslation geom.Vec2,
	depth int,
) {
	if depth > g.maxDepth {
		panic(errors.AssertionFailedf("compose: tree depth exceeds %d at %s", g.maxDepth, state.ID))
	}
	if g.visited != nil {
		if _, ok := g.visited.Get(state.ID); ok {
			panic(errors.AssertionFailedf("compose: %s visited twice in one pass", state.ID))
		}
		g.visited.Put(state.ID, struct{}{})
	}

	sp := startSpan(g.trace.Compose, g.logger, "compose", widgetAttrs(state.ID, *widget.Item)...)
	defer sp.end()

	s := state.Item
	moved := parentMoved || s.translationChanged
	translation := parentTranslation.Add(s.translation).Add(s.origin.ToVec2())
	s.windowOrigin = translation.ToPoint()
	s.composed = true

	if !parentMoved && !s.translationChanged && !s.needsCompose {
		g.stats.skipped++
		return
	}
	g.stats.visited++

	ctx := &ComposeCtx{
		global:         g,
		widgetState:    s,
		stateChildren:  state.Children,
		widgetChildren: widget.Children,
	}
	if s.requestCompose {
		before := s.translation
		ctx.run(*widget.Item)
		if s.translation != before {
			moved = true
			translation = parentTranslation.Add(s.translation).Add(s.origin.ToVec2())
			s.windowOrigin = translation.ToPoint()
		}
	}

	if moved && s.acceptsTextInput && g.IsFocused(s.id) {
		g.emitSignal(IMEMovedSignal{Area: s.imeAreaFor(*widget.Item)})
		g.stats.imeSignals++
	}

	// The window position changed or was re-derived: the accessibility node
	// and the painted frame are stale.
	s.requestAccessibility = true
	s.needsAccessibility = true
	s.needsPaint = true

	s.needsCompose = false
	s.requestCompose = false
	s.translationChanged = false
	if ctx.recompose {
		s.needsCompose = true
		s.requestCompose = true
	}

	recurseOnChildren(s.id, widget, state.Children,
		func(childWidget arena.Mut[WidgetID, Widget], childState arena.Mut[WidgetID, WidgetState]) {
			composeWidget(g, childWidget, childState, moved, translation, depth+1)
			s.MergeUp(childState.Item)
		})
}

// --- Root ---

// RunComposePass recomputes window origins for every widget whose ancestor
// chain moved or asked for compose, starting at the root with no parent
// translation. Signals emitted along the way are queued for PopSignal.
func (r *RenderRoot) RunComposePass() {
	end := r.beginPass("compose")
	defer end()

	start := time.Now()
	g := &r.global
	g.stats = passStats{}
	if invariants.Enabled {
		g.visited = swiss.New[WidgetID, struct{}](r.states.Len())
		defer func() { g.visited = nil }()
	}

	rootWidget, rootState := r.rootPair()

	// Moved widgets may no longer be under the pointer; hover and other
	// pointer-derived state must be recomputed.
	if rootState.Item.needsCompose {
		g.needsPointerPass = true
	}

	composeWidget(g, rootWidget, rootState, false, geom.Vec2{}, 0)

	elapsed := time.Since(start)
	g.last = PassStats{
		Visited:    g.stats.visited,
		Skipped:    g.stats.skipped,
		IMESignals: g.stats.imeSignals,
		Elapsed:    elapsed,
	}
	g.metrics.observe(g.stats, elapsed)
	g.logger.Debug("compose pass",
		slog.Int("visited", g.stats.visited),
		slog.Int("skipped", g.stats.skipped),
		slog.Int("ime_signals", g.stats.imeSignals),
		slog.Duration("elapsed", elapsed))
}
