//go:build !unix

package main

import (
	"github.com/cockroachdb/errors"
	"github.com/grindlemire/go-compose/geom"
)

func terminalSize() (geom.Size, error) {
	return geom.Size{}, errors.New("--size auto is only supported on unix terminals")
}
