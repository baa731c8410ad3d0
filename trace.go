package compose

import (
	"context"
	"log/slog"
	"time"
)

// span is a timed debug record for one widget visit. The zero span is inert.
type span struct {
	logger *slog.Logger
	pass   string
	attrs  []slog.Attr
	start  time.Time
}

// startSpan begins a span when enabled is set.
func startSpan(enabled bool, logger *slog.Logger, pass string, attrs ...slog.Attr) span {
	if !enabled || logger == nil {
		return span{}
	}
	return span{logger: logger, pass: pass, attrs: attrs, start: time.Now()}
}

func (s span) end() {
	if s.logger == nil {
		return
	}
	attrs := append(s.attrs, slog.Duration("elapsed", time.Since(s.start)))
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, s.pass, attrs...)
}

func widgetAttrs(id WidgetID, w Widget) []slog.Attr {
	return []slog.Attr{
		slog.String("widget", shortTypeName(w)),
		slog.String("id", id.String()),
	}
}
