// Command composetrace runs scene scripts through the layout and compose
// passes and reports what every frame did.
//
// Usage:
//
//	composetrace run scene.yaml              Run every frame of the scene
//	composetrace run -n 100 scene.toml       Cycle the script for 100 frames
//	composetrace run --size auto scene.yaml  Lay out in the terminal's size
//	composetrace run --watch scene.yaml      Re-run whenever the file changes
//	composetrace run --trace --debug-log trace.log scene.yaml
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "composetrace [command] (flags)",
	Short: "compose pass tracing tool",
	Long: `composetrace mounts a widget tree described in YAML or TOML, applies the
scene's frame script and prints the window origins, dirty flags, signals and
pass latencies that result.`,
	SilenceUsage: true,
}

func main() {
	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVarP(
		&runConfig.frames, "frames", "n", 0, "number of frames to run, cycling the script (0 runs it once)")
	runCmd.Flags().StringVar(
		&runConfig.size, "size", "", `root size as WxH, or "auto" for the terminal size`)
	runCmd.Flags().BoolVarP(
		&runConfig.watch, "watch", "w", false, "re-run when the scene file changes")
	runCmd.Flags().BoolVar(
		&runConfig.trace, "trace", false, "log per-widget layout and compose spans to stderr")
	runCmd.Flags().BoolVarP(
		&runConfig.verbose, "verbose", "v", false, "print every frame, not only the summary")
	runCmd.Flags().BoolVar(
		&runConfig.graph, "graph", false, "plot compose pass latency per frame")
	runCmd.Flags().BoolVar(
		&runConfig.metrics, "metrics", false, "print the compose metrics in Prometheus text format")
	runCmd.Flags().StringVar(
		&runConfig.debugLog, "debug-log", "", "write the debug log to this file (overrides $COMPOSE_DEBUG)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
