package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dygy/pitchport/internal/apperr"
	"github.com/dygy/pitchport/internal/audio"
	"github.com/dygy/pitchport/internal/workspace"
)

// fileField is the multipart form field carrying the upload
const fileField = "file"

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleConvert runs one upload through the transcription pipeline:
// stage in a scoped temp dir, transcribe, serialize, stream back. The
// workspace is removed on every exit path.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := s.logger.With(slog.String("convert_id", uuid.NewString()))

	if s.config.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	}

	file, header, err := r.FormFile(fileField)
	if err != nil {
		reason := apperr.ErrBadUpload
		if errors.Is(err, http.ErrMissingFile) {
			reason = apperr.ErrMissingFile
		}
		logger.Warn("upload rejected", slog.Any("error", err))
		http.Error(w, reason.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	ws, err := workspace.New()
	if err != nil {
		logger.Error("workspace creation failed", slog.Any("error", err))
		http.Error(w, "failed to stage upload", http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := ws.Cleanup(); err != nil {
			logger.Error("workspace cleanup failed", slog.String("dir", ws.Dir), slog.Any("error", err))
		}
	}()

	inputPath := ws.Input(header.Filename)
	staged, format, err := stageUpload(file, inputPath)
	if err != nil {
		logger.Error("staging failed", slog.Any("error", err))
		http.Error(w, "failed to stage upload", http.StatusInternalServerError)
		return
	}
	if staged == 0 {
		logger.Warn("empty upload", slog.String("filename", header.Filename))
		http.Error(w, apperr.ErrEmptyUpload.Error(), http.StatusBadRequest)
		return
	}

	logger.Info("upload staged",
		slog.String("filename", header.Filename),
		slog.String("format", string(format)),
		slog.Int64("bytes", staged))

	ctx, cancel := context.WithTimeout(r.Context(), s.config.PredictTimeout)
	defer cancel()

	notes, err := s.predictor.Transcribe(ctx, inputPath)
	if err != nil {
		// Model failures are upstream errors; anything else is ours.
		status := http.StatusInternalServerError
		if apperr.IsProcessError(err) {
			status = http.StatusBadGateway
		}
		logger.Error("transcription failed", slog.Any("error", err))
		http.Error(w, "transcription failed", status)
		return
	}

	outputPath := ws.OutputMIDI()
	if err := notes.WriteTo(outputPath); err != nil {
		logger.Error("serialization failed", slog.Any("error", err))
		http.Error(w, "failed to serialize note events", http.StatusInternalServerError)
		return
	}

	midiBytes, err := os.ReadFile(outputPath)
	if err != nil {
		logger.Error("readback failed", slog.Any("error", err))
		http.Error(w, "failed to read generated file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("Content-Disposition", `attachment; filename="output.mid"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(midiBytes)))
	w.Write(midiBytes)

	logger.Info("conversion complete",
		slog.Int("midi_bytes", len(midiBytes)),
		slog.Duration("duration", time.Since(start)))
}

// stageUpload writes the upload to dst, sniffing the leading bytes for the
// log. Returns the number of bytes staged.
func stageUpload(src io.Reader, dst string) (int64, audio.Format, error) {
	f, err := os.Create(dst)
	if err != nil {
		return 0, audio.FormatUnknown, fmt.Errorf("create staging file: %w", err)
	}
	defer f.Close()

	head := make([]byte, 12)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, audio.FormatUnknown, fmt.Errorf("read upload: %w", err)
	}
	format := audio.Sniff(head[:n])

	written, err := io.Copy(f, io.MultiReader(bytes.NewReader(head[:n]), src))
	if err != nil {
		return written, format, fmt.Errorf("write staging file: %w", err)
	}
	return written, format, nil
}
