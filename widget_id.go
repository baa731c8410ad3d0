package compose

import (
	"sync/atomic"

	"github.com/cockroachdb/redact"
)

// WidgetID identifies a widget within a RenderRoot. It is the arena key and
// stays stable across passes. The zero value is never assigned.
type WidgetID uint64

var lastWidgetID atomic.Uint64

// NewWidgetID returns a process-unique WidgetID.
func NewWidgetID() WidgetID {
	return WidgetID(lastWidgetID.Add(1))
}

// IsValid reports whether id could have been handed out by NewWidgetID.
func (id WidgetID) IsValid() bool {
	return id != 0
}

// SafeFormat implements redact.SafeFormatter. Ids carry no user data.
func (id WidgetID) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("#%d", redact.SafeUint(id))
}

func (id WidgetID) String() string {
	return redact.StringWithoutMarkers(id)
}
