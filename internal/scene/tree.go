package scene

import (
	"maps"
	"slices"

	"github.com/cockroachdb/errors"
	compose "github.com/grindlemire/go-compose"
	"github.com/grindlemire/go-compose/geom"
	"github.com/grindlemire/go-compose/layout"
)

// Widget is the compose.Widget built for every scene node. Translations
// queued by the script are applied from Compose, the only place a widget
// may move itself or its children.
type Widget struct {
	name      string
	style     layout.Style
	intrinsic geom.Size
	textInput bool

	// pending child translations and own translation for the next Compose.
	pending map[compose.WidgetID]geom.Vec2
	self    *geom.Vec2

	log *[]string
}

var (
	_ compose.Widget          = (*Widget)(nil)
	_ compose.LayoutWidget    = (*Widget)(nil)
	_ compose.IntrinsicSizer  = (*Widget)(nil)
	_ compose.TextInputWidget = (*Widget)(nil)
	_ compose.NamedWidget     = (*Widget)(nil)
)

// Compose applies queued translations and records the call.
func (w *Widget) Compose(ctx *compose.ComposeCtx) {
	*w.log = append(*w.log, w.name)
	if w.self != nil {
		ctx.SetTranslation(*w.self)
		w.self = nil
	}
	for child, v := range w.pending {
		ctx.SetChildTranslation(child, v)
	}
	clear(w.pending)
}

func (w *Widget) LayoutStyle() layout.Style { return w.style }
func (w *Widget) IntrinsicSize() geom.Size  { return w.intrinsic }
func (w *Widget) AcceptsTextInput() bool    { return w.textInput }
func (w *Widget) ShortTypeName() string     { return w.name }

// Tree is a scene mounted into a RenderRoot.
type Tree struct {
	Root  *compose.RenderRoot
	Scene *Scene

	ids     map[string]compose.WidgetID
	names   map[compose.WidgetID]string
	widgets map[compose.WidgetID]*Widget

	// composed lists the widgets whose Compose ran since the last Step.
	composed []string
}

// Build mounts s into a new RenderRoot. The scene size, when set, overrides
// any WithSize option.
func Build(s *Scene, opts ...compose.Option) (*Tree, error) {
	t := &Tree{
		Scene:   s,
		ids:     make(map[string]compose.WidgetID),
		names:   make(map[compose.WidgetID]string),
		widgets: make(map[compose.WidgetID]*Widget),
	}

	if s.Width > 0 || s.Height > 0 {
		opts = append(opts, compose.WithSize(geom.Sz(s.Width, s.Height)))
	}
	rootWidget, err := t.newWidget(&s.Root)
	if err != nil {
		return nil, err
	}
	r, err := compose.NewRenderRoot(rootWidget, opts...)
	if err != nil {
		return nil, err
	}
	t.Root = r
	t.track(r.Root(), rootWidget)

	if err := t.mountChildren(r.Root(), &s.Root); err != nil {
		return nil, err
	}
	if s.Focus != "" {
		if err := r.SetFocus(t.ids[s.Focus]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Tree) newWidget(n *Node) (*Widget, error) {
	style, err := n.Style()
	if err != nil {
		return nil, errors.Wrapf(err, "node %q", n.Name)
	}
	intrinsic, err := n.IntrinsicSize()
	if err != nil {
		return nil, errors.Wrapf(err, "node %q", n.Name)
	}
	return &Widget{
		name:      n.Name,
		style:     style,
		intrinsic: intrinsic,
		textInput: n.TextInput,
		pending:   make(map[compose.WidgetID]geom.Vec2),
		log:       &t.composed,
	}, nil
}

func (t *Tree) mountChildren(parent compose.WidgetID, n *Node) error {
	for i := range n.Children {
		child := &n.Children[i]
		w, err := t.newWidget(child)
		if err != nil {
			return err
		}
		id, err := t.Root.Mount(parent, w)
		if err != nil {
			return err
		}
		t.track(id, w)
		if err := t.mountChildren(id, child); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) track(id compose.WidgetID, w *Widget) {
	t.ids[w.name] = id
	t.names[id] = w.name
	t.widgets[id] = w
}

// ID returns the widget id of the named node.
func (t *Tree) ID(name string) (compose.WidgetID, error) {
	id, ok := t.ids[name]
	if !ok {
		return 0, errors.Newf("scene: unknown widget %q", name)
	}
	return id, nil
}

// Name returns the node name of id, or its formatted id when unknown.
func (t *Tree) Name(id compose.WidgetID) string {
	if n, ok := t.names[id]; ok {
		return n
	}
	return id.String()
}

// Translate queues a translation for the named widget. It is applied by the
// parent's Compose during the next compose pass.
func (t *Tree) Translate(name string, v geom.Vec2) error {
	id, err := t.ID(name)
	if err != nil {
		return err
	}
	parent, ok := t.Root.Parent(id)
	if !ok {
		t.widgets[id].self = &v
		return t.requestCompose(id)
	}
	t.widgets[parent].pending[id] = v
	return t.requestCompose(parent)
}

func (t *Tree) requestCompose(id compose.WidgetID) error {
	return t.Root.EditWidget(id, func(w *compose.WidgetMut) { w.RequestCompose() })
}

// Apply performs the edits of f without running any pass.
func (t *Tree) Apply(f Frame) error {
	if f.Resize != nil {
		t.Root.SetSize(geom.Sz(f.Resize[0], f.Resize[1]))
	}
	for _, name := range slices.Sorted(maps.Keys(f.Translate)) {
		v := f.Translate[name]
		if err := t.Translate(name, geom.V(v[0], v[1])); err != nil {
			return err
		}
	}
	for _, name := range f.Compose {
		id, err := t.ID(name)
		if err != nil {
			return err
		}
		if err := t.requestCompose(id); err != nil {
			return err
		}
	}
	for _, name := range f.Layout {
		id, err := t.ID(name)
		if err != nil {
			return err
		}
		if err := t.Root.EditWidget(id, func(w *compose.WidgetMut) { w.RequestLayout() }); err != nil {
			return err
		}
	}
	if f.Focus != nil {
		var id compose.WidgetID
		if *f.Focus != "" {
			var err error
			if id, err = t.ID(*f.Focus); err != nil {
				return err
			}
		}
		if err := t.Root.SetFocus(id); err != nil {
			return err
		}
	}
	return nil
}

// StepResult is what one frame produced.
type StepResult struct {
	// Composed lists the widgets whose Compose ran, in visit order.
	Composed []string
	Stats    compose.PassStats
	Signals  []compose.Signal
}

// Step applies f, runs the rewrite passes and drains the signal queue.
// Paint and accessibility are treated as consumed afterwards.
func (t *Tree) Step(f Frame) (StepResult, error) {
	if err := t.Apply(f); err != nil {
		return StepResult{}, err
	}
	t.composed = nil
	t.Root.RunRewritePasses()
	res := StepResult{
		Composed: t.composed,
		Stats:    t.Root.LastComposePass(),
		Signals:  t.Root.DrainSignals(),
	}
	t.composed = nil
	t.Root.ClearDownstreamFlags()
	t.Root.ClearPointerPass()
	return res, nil
}

// Run steps through every frame of the scene.
func (t *Tree) Run() ([]StepResult, error) {
	results := make([]StepResult, 0, len(t.Scene.Frames))
	for i, f := range t.Scene.Frames {
		res, err := t.Step(f)
		if err != nil {
			return results, errors.Wrapf(err, "frame %d", i)
		}
		results = append(results, res)
	}
	return results, nil
}
