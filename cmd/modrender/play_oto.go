//go:build !headless

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
)

const playerBufferSize = 20 * time.Millisecond

// play streams r, a mono float32LE source, to the default output device
// and blocks until it is drained.
func play(r io.Reader, sampleRate int) error {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   playerBufferSize,
	})
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(r)
	player.Play()

	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}

	if err := player.Err(); err != nil && err != io.EOF {
		player.Close()
		return fmt.Errorf("playback: %w", err)
	}
	return player.Close()
}
