package compose

import "github.com/cockroachdb/errors"

// Focused returns the widget holding input focus, or 0 when none does.
func (r *RenderRoot) Focused() WidgetID {
	return r.global.focused
}

// SetFocus gives input focus to id; the zero id clears focus. Moving focus
// onto or off a text-input widget queues StartIMESignal / EndIMESignal.
func (r *RenderRoot) SetFocus(id WidgetID) error {
	r.assertIdle("SetFocus")
	if id.IsValid() && !r.states.Contains(id) {
		return errors.Newf("focus: widget %s not found", id)
	}
	r.setFocus(id)
	return nil
}

func (r *RenderRoot) setFocus(id WidgetID) {
	old := r.global.focused
	if old == id {
		return
	}
	if s, ok := r.states.Get(old); ok && s.acceptsTextInput {
		r.global.emitSignal(EndIMESignal{Widget: old})
	}
	r.global.focused = id
	if s, ok := r.states.Get(id); ok && s.acceptsTextInput {
		r.global.emitSignal(StartIMESignal{Widget: id})
	}
}
