// Package predict defines the narrow contract between the service and the
// external audio-to-MIDI transcription model. The server depends only on
// these interfaces so a fake predictor can be substituted in tests.
package predict

import "context"

// NoteEvents is the transcription result: symbolic note data that knows
// how to serialize itself as a binary MIDI file.
type NoteEvents interface {
	WriteTo(path string) error
}

// Predictor converts an audio file on disk into note events.
type Predictor interface {
	Transcribe(ctx context.Context, audioPath string) (NoteEvents, error)
}
