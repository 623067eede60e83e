package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dygy/pitchport/internal/config"
	"github.com/dygy/pitchport/internal/exec"
	"github.com/dygy/pitchport/internal/predict"
	"github.com/dygy/pitchport/internal/server"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pitchport",
	Short: "Audio to MIDI conversion service",
	Long: `Pitchport converts audio files to MIDI note events using the
basic-pitch transcription model.

Run it as an HTTP service (POST /convert) or convert single files locally.`,
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the conversion HTTP service",
	Long: `Start the HTTP service exposing POST /convert.

Example:
  pitchport serve --bind 0.0.0.0:8000 --cors`,
	RunE: runServe,
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a local audio file to MIDI",
	Long: `Run one audio file through the transcription model.

Example:
  pitchport convert -i track.wav -o track.mid`,
	RunE: runConvert,
}

var (
	// shared flags
	configPath string
	scriptsDir string
	pythonPath string

	// serve flags
	bindAddr   string
	corsEnable bool

	// convert flags
	inputPath  string
	outputPath string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "pitchport.toml", "config file path")
	rootCmd.PersistentFlags().StringVar(&scriptsDir, "scripts-dir", "", "directory containing the predictor scripts")
	rootCmd.PersistentFlags().StringVar(&pythonPath, "python", "", "python interpreter (default: scripts venv, then python3)")

	serveCmd.Flags().StringVarP(&bindAddr, "bind", "b", "", "listen address (host:port)")
	serveCmd.Flags().BoolVar(&corsEnable, "cors", false, "allow all cross-origin requests")

	convertCmd.Flags().StringVarP(&inputPath, "input", "i", "", "input audio file")
	convertCmd.Flags().StringVarP(&outputPath, "output", "o", "output.mid", "output MIDI file")
	convertCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(convertCmd)
}

// loadConfig merges file, env, and flag configuration
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	// Local .env is optional
	godotenv.Load()

	cfg, _, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}

	if scriptsDir != "" {
		cfg.Predictor.ScriptsDir = scriptsDir
	}
	if pythonPath != "" {
		cfg.Predictor.PythonPath = pythonPath
	}
	if bindAddr != "" {
		cfg.Server.Bind = bindAddr
	}
	if cmd.Flags().Changed("cors") {
		cfg.Server.CORSEnabled = corsEnable
	}
	return cfg, nil
}

// newPredictor builds the predictor and the runner behind it. The runner
// is returned too so serve can preflight the Python environment.
func newPredictor(cfg config.Config) (*predict.BasicPitch, *exec.Runner) {
	runner := exec.NewRunner(cfg.Predictor.PythonPath, cfg.Predictor.ScriptsDir)
	return predict.NewBasicPitch(runner), runner
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	}))

	predictor, runner := newPredictor(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	if err := runner.CheckDependency(ctx, "basic_pitch"); err != nil {
		logger.Warn("predictor preflight failed; /convert will return errors until fixed",
			slog.Any("error", err))
	}
	cancel()

	srv := server.New(server.Config{
		Bind:           cfg.Server.Bind,
		CORSEnabled:    cfg.Server.CORSEnabled,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		PredictTimeout: time.Duration(cfg.Predictor.TimeoutSeconds) * time.Second,
	}, predictor, logger)

	return srv.Run()
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file: %w", err)
	}

	predictor, _ := newPredictor(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(),
		time.Duration(cfg.Predictor.TimeoutSeconds)*time.Second)
	defer cancel()

	start := time.Now()
	notes, err := predictor.Transcribe(ctx, inputPath)
	if err != nil {
		return fmt.Errorf("transcribe %s: %w", inputPath, err)
	}

	if err := notes.WriteTo(outputPath); err != nil {
		return err
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d bytes) in %s\n", outputPath, info.Size(), time.Since(start).Round(time.Millisecond))
	return nil
}
