// Package compose maintains the absolute positions of a retained widget
// tree.
//
// A RenderRoot owns the tree: widget behaviors and per-widget state live in
// id-addressed arenas. Each frame the scheduler runs the layout pass, which
// assigns sizes and parent-relative origins, and then the compose pass,
// which walks the tree from the root accumulating origin and translation
// into every widget's window origin. The compose pass prunes subtrees that
// are neither moved nor marked dirty, runs Compose callbacks that were
// requested, notifies the input method when the focused text widget moves,
// and merges pending-work flags back up so the scheduler can tell from the
// root alone whether anything is left to do.
//
//	root, _ := compose.NewRenderRoot(myRoot, compose.WithSize(geom.Sz(800, 600)))
//	id, _ := root.Mount(root.Root(), myChild)
//	root.RunRewritePasses()
//	for s, ok := root.PopSignal(); ok; s, ok = root.PopSignal() {
//		platform.Handle(s)
//	}
package compose
