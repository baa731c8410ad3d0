package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	compose "github.com/grindlemire/go-compose"
	"github.com/grindlemire/go-compose/geom"
	"github.com/grindlemire/go-compose/internal/debug"
	"github.com/grindlemire/go-compose/internal/scene"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var runConfig struct {
	frames  int
	size    string
	watch   bool
	trace   bool
	verbose bool
	graph   bool
	metrics bool
	// debugLog, when set, receives the debug log instead of COMPOSE_DEBUG.
	debugLog string
}

var runCmd = &cobra.Command{
	Use:   "run <scene>",
	Short: "run a scene script through the layout and compose passes",
	Long: `Run loads a YAML or TOML scene, mounts its widget tree and steps through its
frames. Each frame applies the scripted edits and runs the layout and compose
passes. The final tree and the pass latencies are printed at the end.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		if runConfig.debugLog != "" {
			if err := debug.Init(runConfig.debugLog); err != nil {
				return err
			}
		}
		defer func() { _ = debug.Close() }()
		if runConfig.watch {
			return watch(ctx, cmd.OutOrStdout(), args[0])
		}
		return runOnce(cmd.OutOrStdout(), args[0])
	},
}

// runTotals accumulates statistics across frames.
type runTotals struct {
	frames     int
	visited    int
	skipped    int
	imeSignals int
	signals    int
}

// runOnce loads the scene at path and runs it to completion.
func runOnce(w io.Writer, path string) error {
	s, err := scene.Load(path)
	if err != nil {
		return err
	}
	size, ok, err := resolveSize(runConfig.size)
	if err != nil {
		return err
	}
	if ok {
		s.Width, s.Height = size.Width, size.Height
	}

	reg := prometheus.NewRegistry()
	opts := []compose.Option{compose.WithMetrics(reg)}
	if runConfig.trace {
		// Spans go to the debug log when one is open, stderr otherwise.
		if runConfig.debugLog == "" {
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
			opts = append(opts, compose.WithLogger(logger))
		}
		opts = append(opts, compose.WithTrace(compose.Trace{Compose: true, Layout: true}))
	}
	tree, err := scene.Build(s, opts...)
	if err != nil {
		return err
	}

	frames := runConfig.frames
	if frames <= 0 {
		frames = max(len(s.Frames), 1)
	}

	latency := newLatencyHistogram()
	var totals runTotals
	durations := make([]float64, 0, frames)
	for i := range frames {
		var f scene.Frame
		if len(s.Frames) > 0 {
			f = s.Frames[i%len(s.Frames)]
		}
		res, err := tree.Step(f)
		if err != nil {
			return errors.Wrapf(err, "frame %d", i)
		}
		latency.record(res.Stats.Elapsed)
		durations = append(durations, float64(res.Stats.Elapsed.Microseconds()))
		totals.frames++
		totals.visited += res.Stats.Visited
		totals.skipped += res.Stats.Skipped
		totals.imeSignals += res.Stats.IMESignals
		totals.signals += len(res.Signals)

		if runConfig.verbose {
			fmt.Fprintf(w, "frame %d\n%s", i, tree.Format(res))
		}
	}

	name := s.Name
	if name == "" {
		name = path
	}
	fmt.Fprintf(w, "scene %s: %d widgets, %d frames, %d visited, %d skipped, %d ime signals, %d signals\n",
		name, tree.Root.Len(), totals.frames, totals.visited, totals.skipped, totals.imeSignals, totals.signals)
	writeTree(w, tree.Rows())
	latency.write(w)
	if runConfig.graph {
		writeGraph(w, durations)
	}
	if runConfig.metrics {
		if err := writeMetrics(w, reg); err != nil {
			return err
		}
	}
	return nil
}

// resolveSize interprets the --size flag. ok is false when it is unset.
func resolveSize(flag string) (size geom.Size, ok bool, err error) {
	switch flag {
	case "":
		return geom.Size{}, false, nil
	case "auto":
		size, err = terminalSize()
		return size, err == nil, err
	default:
		size, err = parseSize(flag)
		return size, err == nil, err
	}
}

// parseSize parses "WxH".
func parseSize(s string) (geom.Size, error) {
	ws, hs, found := strings.Cut(strings.ToLower(s), "x")
	if !found {
		return geom.Size{}, errors.Newf("size %q is not WxH", s)
	}
	width, err := strconv.ParseFloat(ws, 64)
	if err != nil {
		return geom.Size{}, errors.Wrapf(err, "size %q", s)
	}
	height, err := strconv.ParseFloat(hs, 64)
	if err != nil {
		return geom.Size{}, errors.Wrapf(err, "size %q", s)
	}
	if width < 0 || height < 0 {
		return geom.Size{}, errors.Newf("size %q must not be negative", s)
	}
	return geom.Sz(width, height), nil
}

// runContextErr reports ctx errors other than a clean interrupt.
func runContextErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
