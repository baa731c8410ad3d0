package compose

import (
	"github.com/cockroachdb/redact"
	"github.com/grindlemire/go-compose/geom"
)

// Signal is a message from the passes to the platform integration. Signals
// are queued while passes run and drained by the caller afterwards.
type Signal interface {
	redact.SafeFormatter
	signal()
}

// IMEMovedSignal reports that the focused text-input widget moved; the
// platform input method should re-anchor to Area (window coordinates).
type IMEMovedSignal struct {
	Area geom.Rect
}

// StartIMESignal reports that focus entered a text-input widget.
type StartIMESignal struct {
	Widget WidgetID
}

// EndIMESignal reports that focus left a text-input widget.
type EndIMESignal struct {
	Widget WidgetID
}

// RequestRedrawSignal asks the platform to schedule a repaint.
type RequestRedrawSignal struct{}

func (IMEMovedSignal) signal()      {}
func (StartIMESignal) signal()      {}
func (EndIMESignal) signal()        {}
func (RequestRedrawSignal) signal() {}

// SafeFormat implements redact.SafeFormatter.
func (s IMEMovedSignal) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("ime-moved %s", redact.Safe(s.Area.String()))
}

// SafeFormat implements redact.SafeFormatter.
func (s StartIMESignal) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("start-ime %s", s.Widget)
}

// SafeFormat implements redact.SafeFormatter.
func (s EndIMESignal) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("end-ime %s", s.Widget)
}

// SafeFormat implements redact.SafeFormatter.
func (RequestRedrawSignal) SafeFormat(w redact.SafePrinter, _ rune) {
	w.SafeString("request-redraw")
}

func (s IMEMovedSignal) String() string      { return redact.StringWithoutMarkers(s) }
func (s StartIMESignal) String() string      { return redact.StringWithoutMarkers(s) }
func (s EndIMESignal) String() string        { return redact.StringWithoutMarkers(s) }
func (s RequestRedrawSignal) String() string { return redact.StringWithoutMarkers(s) }
