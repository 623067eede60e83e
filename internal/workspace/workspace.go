package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultInputName is used when the upload carries no usable filename.
const DefaultInputName = "input.mp3"

// OutputName is the fixed name the generated MIDI file is written under.
const OutputName = "output.mid"

// Workspace manages temporary files for a single conversion request
type Workspace struct {
	Dir string
}

// New creates a new isolated workspace in the system temp directory
func New() (*Workspace, error) {
	dir, err := os.MkdirTemp("", "pitchport-*")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	return &Workspace{Dir: dir}, nil
}

// Input returns the staging path for the uploaded audio file. The
// client-supplied name is sanitized so it can never escape the workspace;
// an empty or degenerate name falls back to DefaultInputName.
func (w *Workspace) Input(clientName string) string {
	return filepath.Join(w.Dir, SanitizeName(clientName))
}

// OutputMIDI returns the fixed path the note-event file is serialized to.
func (w *Workspace) OutputMIDI() string {
	return filepath.Join(w.Dir, OutputName)
}

// Cleanup removes the workspace directory and all contents
func (w *Workspace) Cleanup() error {
	return os.RemoveAll(w.Dir)
}

// SanitizeName reduces a client-supplied filename to a single safe path
// element. Browsers may send full paths; multipart headers may carry
// separators from either platform.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		if r == 0 || r == '/' {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	switch name {
	case "", ".", "..":
		return DefaultInputName
	}
	return name
}
