//go:build headless

package main

import (
	"errors"
	"io"
)

func play(io.Reader, int) error {
	return errors.New("playback is not available in headless builds")
}
