//go:build unix

package main

import (
	"github.com/cockroachdb/errors"
	"github.com/grindlemire/go-compose/geom"
	"golang.org/x/sys/unix"
)

// terminalSize returns the size of the terminal on stdout in cells.
func terminalSize() (geom.Size, error) {
	ws, err := unix.IoctlGetWinsize(unix.Stdout, unix.TIOCGWINSZ)
	if err != nil {
		return geom.Size{}, errors.Wrap(err, "reading terminal size")
	}
	return geom.Sz(float64(ws.Col), float64(ws.Row)), nil
}
