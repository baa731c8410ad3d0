package compose

import (
	"bytes"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/grindlemire/go-compose/geom"
	"github.com/grindlemire/go-compose/layout"
	"github.com/kr/pretty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposePass_ParentTranslation(t *testing.T) {
	rec := &recording{}
	var offset geom.Vec2
	var parentID WidgetID

	r, root := newTestRoot(t)
	root.onCompose = func(ctx *ComposeCtx) {
		ctx.SetChildTranslation(parentID, offset)
	}
	parentID = mount(t, r, r.Root(), &testWidget{name: "parent", rec: rec})
	childID := mount(t, r, parentID, &testWidget{name: "child", rec: rec})
	settle(t, r, rec)

	for _, want := range []geom.Vec2{geom.V(30, 30), geom.V(40, 40)} {
		offset = want
		require.NoError(t, r.EditWidget(r.Root(), func(w *WidgetMut) { w.RequestCompose() }))
		require.NoError(t, r.EditWidget(parentID, func(w *WidgetMut) { w.RequestCompose() }))

		r.RunComposePass()

		got := rec.drain()
		require.Len(t, got, 1, "records: %# v", pretty.Formatter(got))
		assert.Equal(t, parentID, got[0].id)
		assert.Equal(t, want, got[0].translation)
		assert.Equal(t, want.ToPoint(), got[0].windowOrigin)

		child := state(t, r, childID)
		assert.Equal(t, want.ToPoint(), child.WindowOrigin)
		assert.False(t, child.RequestCompose)
		assert.False(t, child.TranslationChanged)
	}
}

func TestComposePass_LayoutMovesChild(t *testing.T) {
	rec := &recording{}
	parentStyle := layout.DefaultStyle()
	parentStyle.Width = layout.Fixed(200)
	parentStyle.Height = layout.Fixed(200)
	innerStyle := layout.DefaultStyle()
	innerStyle.Width = layout.Fixed(10)
	innerStyle.Height = layout.Fixed(10)

	r, _ := newTestRoot(t)
	parentID := mount(t, r, r.Root(), &testWidget{name: "parent", style: &parentStyle})
	innerID := mount(t, r, parentID, &testWidget{name: "inner", rec: rec, style: &innerStyle})

	r.RunRewritePasses()
	first := recordsFor(rec.drain(), innerID)
	require.Len(t, first, 1)
	assert.Equal(t, geom.Pt(0, 0), first[0].windowOrigin)
	r.DrainSignals()

	require.NoError(t, r.EditWidget(parentID, func(w *WidgetMut) {
		parentStyle.Padding = geom.EdgeAll(30)
		w.RequestLayout()
	}))
	r.RunRewritePasses()

	moved := recordsFor(rec.drain(), innerID)
	require.Len(t, moved, 1)
	assert.Equal(t, geom.Pt(30, 30), moved[0].windowOrigin)

	inner := state(t, r, innerID)
	assert.Equal(t, geom.Pt(30, 30), inner.Origin)
	assert.Equal(t, geom.Pt(30, 30), inner.WindowOrigin)
	assert.Equal(t, geom.Sz(10, 10), inner.Size)
}

func TestComposePass_SkipsCleanSubtrees(t *testing.T) {
	rec := &recording{}
	r, _ := newTestRoot(t)
	a := mount(t, r, r.Root(), &testWidget{name: "a", rec: rec})
	a1 := mount(t, r, a, &testWidget{name: "a1", rec: rec})
	a2 := mount(t, r, a, &testWidget{name: "a2", rec: rec})
	b := mount(t, r, r.Root(), &testWidget{name: "b", rec: rec})
	mount(t, r, b, &testWidget{name: "b1", rec: rec})
	settle(t, r, rec)
	r.ClearDownstreamFlags()

	require.NoError(t, r.EditWidget(a1, func(w *WidgetMut) { w.RequestCompose() }))
	r.RunComposePass()

	got := rec.drain()
	require.Len(t, got, 1)
	assert.Equal(t, a1, got[0].id)

	// root, a and a1 are visited; a2 and b are pruned; b1 is never reached.
	assert.Equal(t, passStats{visited: 3, skipped: 2}, r.global.stats)
	last := r.LastComposePass()
	assert.Equal(t, 3, last.Visited)
	assert.Equal(t, 2, last.Skipped)
	assert.Zero(t, last.IMESignals)

	assert.True(t, state(t, r, a1).NeedsPaint)
	assert.True(t, state(t, r, a).NeedsPaint)
	assert.False(t, state(t, r, a2).NeedsPaint)
	assert.False(t, state(t, r, b).NeedsPaint)
	assert.False(t, state(t, r, b).RequestAccessibility)
}

func TestComposePass_WindowOriginIsSumOfAncestors(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	coord := func() float64 { return float64(rng.IntN(41) - 20) }

	r, _ := newTestRoot(t)
	ids := []WidgetID{r.Root()}
	for range 60 {
		parent := ids[rng.IntN(len(ids))]
		id := mount(t, r, parent, &testWidget{})
		place(t, r, id, geom.Pt(coord(), coord()), geom.Sz(10, 10))
		ids = append(ids, id)
	}

	expected := func() map[WidgetID]geom.Point {
		want := make(map[WidgetID]geom.Point, len(ids))
		r.Walk(r.Root(), func(id WidgetID, _ int) {
			s, _ := r.states.Get(id)
			base := geom.Point{}
			if parent, ok := r.Parent(id); ok {
				base = want[parent]
			}
			want[id] = base.Add(s.origin.ToVec2()).Add(s.translation)
		})
		return want
	}
	actual := func() map[WidgetID]geom.Point {
		got := make(map[WidgetID]geom.Point, len(ids))
		for _, id := range ids {
			got[id] = state(t, r, id).WindowOrigin
		}
		return got
	}
	check := func(round int) {
		t.Helper()
		if diff := pretty.Diff(expected(), actual()); len(diff) > 0 {
			t.Fatalf("round %d: window origins differ:\n%s", round, strings.Join(diff, "\n"))
		}
	}

	r.RunComposePass()
	check(0)

	for round := 1; round <= 5; round++ {
		for _, id := range ids[1:] {
			if rng.IntN(4) == 0 {
				translate(t, r, id, geom.V(coord(), coord()))
			}
		}
		r.RunComposePass()
		check(round)
	}

	// A pass with nothing pending changes nothing and emits nothing.
	before := actual()
	r.DrainSignals()
	r.RunComposePass()
	assert.Equal(t, before, actual())
	assert.Empty(t, r.DrainSignals())
	assert.Equal(t, passStats{skipped: 1}, r.global.stats)
}

func TestComposePass_ClearsComposeFlags(t *testing.T) {
	r, _ := newTestRoot(t)
	a := mount(t, r, r.Root(), &testWidget{})
	b := mount(t, r, a, &testWidget{})
	c := mount(t, r, b, &testWidget{})
	place(t, r, b, geom.Pt(3, 4), geom.Sz(1, 1))
	require.NoError(t, r.EditWidget(c, func(w *WidgetMut) { w.RequestCompose() }))

	r.RunComposePass()

	for _, id := range []WidgetID{r.Root(), a, b, c} {
		s := state(t, r, id)
		assert.False(t, s.NeedsCompose, "needs compose on %s", id)
		assert.False(t, s.RequestCompose, "request compose on %s", id)
		assert.False(t, s.TranslationChanged, "translation changed on %s", id)
		assert.True(t, s.NeedsPaint, "needs paint on %s", id)
		assert.True(t, s.NeedsAccessibility, "needs accessibility on %s", id)
		assert.True(t, s.RequestAccessibility, "request accessibility on %s", id)
		assert.True(t, s.Composed, "composed on %s", id)
	}
	assert.Equal(t, geom.Pt(3, 4), state(t, r, c).WindowOrigin)
}

func TestComposePass_IMESignal(t *testing.T) {
	type tc struct {
		textInput bool
		focus     bool
		move      bool
		anchor    *geom.Rect
		want      []IMEMovedSignal
	}

	anchor := geom.NewRect(2, 3, 4, 5)

	tests := map[string]tc{
		"focused text input moved": {
			textInput: true, focus: true, move: true,
			want: []IMEMovedSignal{{Area: geom.NewRect(35, 35, 20, 10)}},
		},
		"focused text input with custom anchor": {
			textInput: true, focus: true, move: true, anchor: &anchor,
			want: []IMEMovedSignal{{Area: geom.NewRect(37, 38, 4, 5)}},
		},
		"focused text input not moved": {
			textInput: true, focus: true, move: false,
		},
		"unfocused text input moved": {
			textInput: true, focus: false, move: true,
		},
		"focused plain widget moved": {
			textInput: false, focus: true, move: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r, _ := newTestRoot(t)
			parent := mount(t, r, r.Root(), &testWidget{name: "parent"})
			input := mount(t, r, parent, &testWidget{name: "input", textInput: tt.textInput})
			place(t, r, input, geom.Pt(5, 5), geom.Sz(20, 10))
			if tt.anchor != nil {
				require.NoError(t, r.EditWidget(input, func(w *WidgetMut) { w.SetIMEArea(*tt.anchor) }))
			}
			settle(t, r, nil)

			if tt.focus {
				require.NoError(t, r.SetFocus(input))
			}
			r.DrainSignals()

			if tt.move {
				translate(t, r, parent, geom.V(30, 30))
			} else {
				require.NoError(t, r.EditWidget(input, func(w *WidgetMut) { w.RequestCompose() }))
			}
			r.RunComposePass()

			assert.Equal(t, tt.want, imeSignals(r.DrainSignals()))
		})
	}
}

func TestComposePass_IMESignalOncePerMove(t *testing.T) {
	r, _ := newTestRoot(t)
	parent := mount(t, r, r.Root(), &testWidget{})
	input := mount(t, r, parent, &testWidget{textInput: true})
	place(t, r, input, geom.Pt(0, 0), geom.Sz(8, 8))
	settle(t, r, nil)
	require.NoError(t, r.SetFocus(input))
	r.DrainSignals()

	translate(t, r, parent, geom.V(1, 1))
	r.RunComposePass()
	assert.Len(t, imeSignals(r.DrainSignals()), 1)

	r.RunComposePass()
	assert.Empty(t, r.DrainSignals())
}

func TestComposePass_PointerPass(t *testing.T) {
	r, _ := newTestRoot(t)
	leaf := mount(t, r, r.Root(), &testWidget{})

	r.RunComposePass()
	assert.True(t, r.NeedsPointerPass())
	r.ClearPointerPass()

	r.RunComposePass()
	assert.False(t, r.NeedsPointerPass())

	require.NoError(t, r.EditWidget(leaf, func(w *WidgetMut) { w.RequestCompose() }))
	r.RunComposePass()
	assert.True(t, r.NeedsPointerPass())
}

func TestComposePass_RequestsFromCallback(t *testing.T) {
	r, _ := newTestRoot(t)
	calls := 0
	leaf := &testWidget{onCompose: func(ctx *ComposeCtx) {
		calls++
		if calls == 1 {
			ctx.RequestCompose()
			ctx.RequestLayout()
			ctx.RequestAccessibilityUpdate()
		}
	}}
	id := mount(t, r, r.Root(), leaf)
	place(t, r, r.Root(), geom.Pt(0, 0), geom.Sz(100, 100))
	place(t, r, id, geom.Pt(0, 0), geom.Sz(10, 10))
	require.NoError(t, r.EditWidget(id, func(w *WidgetMut) { w.RequestCompose() }))

	r.RunComposePass()
	require.Equal(t, 1, calls)

	s := state(t, r, id)
	assert.True(t, s.NeedsCompose)
	assert.True(t, s.RequestCompose)
	assert.True(t, s.NeedsLayout)
	assert.True(t, s.RequestLayout)
	root := state(t, r, r.Root())
	assert.True(t, root.NeedsCompose, "compose request must merge up")
	assert.True(t, root.NeedsLayout, "layout request must merge up")
	assert.False(t, root.RequestLayout)

	r.RunComposePass()
	assert.Equal(t, 2, calls)

	r.RunComposePass()
	assert.Equal(t, 2, calls)
}

func TestComposePass_SetOwnTranslation(t *testing.T) {
	r, _ := newTestRoot(t)
	self := mount(t, r, r.Root(), &testWidget{onCompose: func(ctx *ComposeCtx) {
		ctx.SetTranslation(geom.V(7, 7))
	}})
	grandchild := mount(t, r, self, &testWidget{})
	place(t, r, self, geom.Pt(1, 1), geom.Sz(10, 10))
	place(t, r, grandchild, geom.Pt(2, 2), geom.Sz(5, 5))
	settle(t, r, nil)

	require.NoError(t, r.EditWidget(self, func(w *WidgetMut) { w.RequestCompose() }))
	r.RunComposePass()

	s := state(t, r, self)
	assert.Equal(t, geom.Pt(8, 8), s.WindowOrigin)
	assert.False(t, s.TranslationChanged)
	assert.Equal(t, geom.Pt(10, 10), state(t, r, grandchild).WindowOrigin)
	assert.Equal(t, passStats{visited: 3}, r.global.stats)
}

func TestComposePass_Children(t *testing.T) {
	var seen []WidgetID
	var names []string
	r, root := newTestRoot(t)
	root.onCompose = func(ctx *ComposeCtx) {
		seen = ctx.Children()
		for _, c := range seen {
			names = append(names, shortTypeName(ctx.ChildWidget(c)))
			assert.Equal(t, c, ctx.ChildState(c).ID)
		}
	}
	a := mount(t, r, r.Root(), &testWidget{name: "a"})
	b := mount(t, r, r.Root(), &testWidget{name: "b"})
	require.NoError(t, r.EditWidget(r.Root(), func(w *WidgetMut) { w.RequestCompose() }))

	r.RunComposePass()

	assert.Equal(t, []WidgetID{a, b}, seen)
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestComposePass_SameTranslationIsNotAMove(t *testing.T) {
	var childID WidgetID
	r, root := newTestRoot(t)
	root.onCompose = func(ctx *ComposeCtx) {
		ctx.SetChildTranslation(childID, geom.V(4, 4))
	}
	childID = mount(t, r, r.Root(), &testWidget{})
	require.NoError(t, r.EditWidget(r.Root(), func(w *WidgetMut) { w.RequestCompose() }))
	r.RunComposePass()
	assert.Equal(t, geom.Pt(4, 4), state(t, r, childID).WindowOrigin)

	require.NoError(t, r.EditWidget(r.Root(), func(w *WidgetMut) { w.RequestCompose() }))
	r.RunComposePass()
	assert.Equal(t, passStats{visited: 1, skipped: 1}, r.global.stats)
}

func TestComposePass_Panics(t *testing.T) {
	type tc struct {
		opts []Option
		// build sets up the tree and returns the call expected to panic;
		// nil means a compose pass.
		build func(t *testing.T, r *RenderRoot, root *testWidget) func()
	}

	tests := map[string]tc{
		"translate a grandchild": {
			build: func(t *testing.T, r *RenderRoot, root *testWidget) func() {
				a := mount(t, r, r.Root(), &testWidget{})
				grandchild := mount(t, r, a, &testWidget{})
				root.onCompose = func(ctx *ComposeCtx) {
					ctx.SetChildTranslation(grandchild, geom.V(1, 1))
				}
				return nil
			},
		},
		"mount during compose": {
			build: func(t *testing.T, r *RenderRoot, root *testWidget) func() {
				root.onCompose = func(ctx *ComposeCtx) {
					_, _ = r.Mount(ctx.WidgetID(), &testWidget{})
				}
				return nil
			},
		},
		"unmount during compose": {
			build: func(t *testing.T, r *RenderRoot, root *testWidget) func() {
				a := mount(t, r, r.Root(), &testWidget{})
				root.onCompose = func(ctx *ComposeCtx) {
					_ = r.Unmount(a)
				}
				return nil
			},
		},
		"nested pass": {
			build: func(t *testing.T, r *RenderRoot, root *testWidget) func() {
				root.onCompose = func(*ComposeCtx) { r.RunComposePass() }
				return nil
			},
		},
		"tree deeper than the cap": {
			opts: []Option{WithMaxDepth(2)},
			build: func(t *testing.T, r *RenderRoot, _ *testWidget) func() {
				a := mount(t, r, r.Root(), &testWidget{})
				b := mount(t, r, a, &testWidget{})
				mount(t, r, b, &testWidget{})
				return nil
			},
		},
		"context kept past its callback": {
			build: func(t *testing.T, r *RenderRoot, root *testWidget) func() {
				child := mount(t, r, r.Root(), &testWidget{})
				var kept *ComposeCtx
				root.onCompose = func(ctx *ComposeCtx) { kept = ctx }
				return func() {
					r.RunComposePass()
					require.NotNil(t, kept)
					kept.SetChildTranslation(child, geom.V(50, 50))
				}
			},
		},
		"context read past its callback": {
			build: func(t *testing.T, r *RenderRoot, root *testWidget) func() {
				var kept *ComposeCtx
				root.onCompose = func(ctx *ComposeCtx) { kept = ctx }
				return func() {
					r.RunComposePass()
					require.NotNil(t, kept)
					kept.WindowOrigin()
				}
			},
		},
		"child without state": {
			build: func(t *testing.T, r *RenderRoot, _ *testWidget) func() {
				id := NewWidgetID()
				require.NoError(t, r.widgets.Insert(r.Root(), id, &testWidget{}))
				return nil
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r, root := newTestRoot(t, tt.opts...)
			run := tt.build(t, r, root)
			if run == nil {
				run = r.RunComposePass
			}
			require.NoError(t, r.EditWidget(r.Root(), func(w *WidgetMut) { w.RequestCompose() }))
			expectPanicAssertion(t, run)

			// The pass bookkeeping is released even when a widget panics.
			assert.Equal(t, "", r.pass)
			assert.False(t, r.states.Frozen())
		})
	}
}

func TestComposePass_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, _ := newTestRoot(t, WithMetrics(reg))
	a := mount(t, r, r.Root(), &testWidget{})
	input := mount(t, r, a, &testWidget{textInput: true})

	r.RunComposePass()
	m := r.global.metrics
	assert.Equal(t, 2.0, testutil.ToFloat64(m.visited))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.skipped))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.imeSignals))

	require.NoError(t, r.SetFocus(input))
	translate(t, r, a, geom.V(5, 0))
	r.RunComposePass()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.imeSignals))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.visited))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, mf := range mfs {
		if mf.GetName() == "compose_pass_duration_seconds" {
			found = true
			assert.Equal(t, uint64(2), mf.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}
	assert.True(t, found, "pass duration histogram not registered")
}

func TestComposePass_TraceSpans(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r, _ := newTestRoot(t, WithLogger(logger))
	mount(t, r, r.Root(), &testWidget{name: "leaf"})

	r.RunComposePass()
	assert.Contains(t, buf.String(), "compose pass")
	assert.NotContains(t, buf.String(), "widget=root")

	buf.Reset()
	r.SetTrace(Trace{Compose: true})
	require.NoError(t, r.EditWidget(r.Root(), func(w *WidgetMut) { w.RequestCompose() }))
	r.RunComposePass()
	out := buf.String()
	assert.Contains(t, out, "widget=root")
	assert.Contains(t, out, "widget=leaf")
}
