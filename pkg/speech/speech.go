// Package speech turns recorded audio into text before it reaches the chat engine.
package speech

import (
	"context"
	"errors"
)

var (
	ErrEmptyAudio   = errors.New("audio is empty")
	ErrNoRecognized = errors.New("no speech recognized")
)

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, contentType string) (string, error)
}
