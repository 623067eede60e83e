package predict

import (
	"context"
	"fmt"
	"os"

	"github.com/dygy/pitchport/internal/apperr"
	"github.com/dygy/pitchport/internal/exec"
)

const transcribeScript = "transcribe.py"

// BasicPitch runs Spotify's basic-pitch model through a Python subprocess.
type BasicPitch struct {
	runner *exec.Runner
}

// NewBasicPitch creates a predictor backed by the given runner
func NewBasicPitch(runner *exec.Runner) *BasicPitch {
	return &BasicPitch{runner: runner}
}

// Transcribe runs the model on audioPath and returns the note events. The
// model's own MIDI output is written next to the input, so it shares the
// input's workspace lifetime.
func (p *BasicPitch) Transcribe(ctx context.Context, audioPath string) (NoteEvents, error) {
	midiPath := audioPath + ".bp.mid"

	result, err := p.runner.RunScript(ctx, transcribeScript, audioPath, midiPath)
	if err != nil {
		exitCode := -1
		stderr := ""
		if result != nil {
			exitCode = result.ExitCode
			stderr = result.Stderr
		}
		return nil, apperr.NewProcessError("basic-pitch", "transcription", exitCode, stderr, err)
	}

	data, err := os.ReadFile(midiPath)
	if err != nil {
		return nil, fmt.Errorf("read transcription output: %w", err)
	}
	if len(data) == 0 {
		return nil, apperr.NewProcessError("basic-pitch", "transcription", 0, "model produced empty output", nil)
	}

	return &noteEvents{data: data}, nil
}

// noteEvents holds the serialized MIDI produced by the model
type noteEvents struct {
	data []byte
}

func (n *noteEvents) WriteTo(path string) error {
	if err := os.WriteFile(path, n.data, 0644); err != nil {
		return fmt.Errorf("write note events: %w", err)
	}
	return nil
}
