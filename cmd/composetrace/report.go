package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/cockroachdb/errors"
	"github.com/grindlemire/go-compose/internal/scene"
	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const (
	minLatency = 10 * time.Nanosecond
	maxLatency = 10 * time.Second
)

// latencyHistogram records compose pass durations.
type latencyHistogram struct {
	h *hdrhistogram.Histogram
}

func newLatencyHistogram() *latencyHistogram {
	return &latencyHistogram{h: hdrhistogram.New(minLatency.Nanoseconds(), maxLatency.Nanoseconds(), 1)}
}

func (l *latencyHistogram) record(elapsed time.Duration) {
	v := elapsed.Nanoseconds()
	if v < minLatency.Nanoseconds() {
		v = minLatency.Nanoseconds()
	} else if v > maxLatency.Nanoseconds() {
		v = maxLatency.Nanoseconds()
	}
	// The value is clamped into range, so RecordValue cannot fail.
	_ = l.h.RecordValue(v)
}

func (l *latencyHistogram) write(w io.Writer) {
	if l.h.TotalCount() == 0 {
		return
	}
	at := func(q float64) time.Duration { return time.Duration(l.h.ValueAtQuantile(q)) }
	fmt.Fprintf(w, "compose pass latency: n=%d mean=%s p50=%s p90=%s p99=%s max=%s\n",
		l.h.TotalCount(), time.Duration(l.h.Mean()), at(50), at(90), at(99), time.Duration(l.h.Max()))
}

// writeTree prints one table row per widget, indented by depth.
func writeTree(w io.Writer, rows []scene.Row) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"ID", "Widget", "Origin", "Size", "Translation", "Window", "Flags"})
	tbl.SetAutoFormatHeaders(false)
	tbl.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, row := range rows {
		s := row.State
		tbl.Append([]string{
			row.ID.String(),
			strings.Repeat("  ", row.Depth) + row.Name,
			s.Origin.String(),
			s.Size.String(),
			s.Translation.String(),
			scene.WindowOrigin(s),
			scene.Flags(s),
		})
	}
	tbl.Render()
}

// writeGraph plots per-frame compose latency in microseconds.
func writeGraph(w io.Writer, micros []float64) {
	if len(micros) < 2 {
		return
	}
	fmt.Fprintln(w, asciigraph.Plot(micros,
		asciigraph.Height(10),
		asciigraph.Caption("compose pass latency (µs) per frame")))
}

// writeMetrics prints the compose collectors in the Prometheus text format.
func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "gathering metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "writing metrics")
		}
	}
	return nil
}
