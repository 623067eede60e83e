package exec

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestNewRunnerPrefersVenvPython(t *testing.T) {
	scripts := t.TempDir()
	venvPython := filepath.Join(scripts, ".venv", "bin", "python")
	if err := os.MkdirAll(filepath.Dir(venvPython), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(venvPython, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}

	r := NewRunner("", scripts)
	if r.PythonPath != venvPython {
		t.Errorf("PythonPath = %q, want venv python %q", r.PythonPath, venvPython)
	}
}

func TestNewRunnerFallsBackToSystemPython(t *testing.T) {
	r := NewRunner("", t.TempDir())
	if r.PythonPath != "python3" {
		t.Errorf("PythonPath = %q, want python3", r.PythonPath)
	}
}

func TestNewRunnerKeepsExplicitPython(t *testing.T) {
	r := NewRunner("/opt/python", t.TempDir())
	if r.PythonPath != "/opt/python" {
		t.Errorf("PythonPath = %q, want explicit path", r.PythonPath)
	}
}

func TestRunScriptCapturesOutput(t *testing.T) {
	scripts := t.TempDir()
	script := filepath.Join(scripts, "hello.sh")
	if err := os.WriteFile(script, []byte("echo hello\necho oops >&2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// The runner only cares that PythonPath is an interpreter taking the
	// script path as its first argument.
	r := &Runner{PythonPath: "/bin/sh", ScriptsDir: scripts}
	result, err := r.RunScript(context.Background(), "hello.sh", "unused")
	if err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	if result.Stdout != "hello\n" {
		t.Errorf("Stdout = %q", result.Stdout)
	}
	if result.Stderr != "oops\n" {
		t.Errorf("Stderr = %q", result.Stderr)
	}
	if result.ExitCode != 0 {
		t.Errorf("ExitCode = %d", result.ExitCode)
	}
}

func TestRunScriptReportsExitCode(t *testing.T) {
	scripts := t.TempDir()
	script := filepath.Join(scripts, "fail.sh")
	if err := os.WriteFile(script, []byte("echo bad input >&2\nexit 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	r := &Runner{PythonPath: "/bin/sh", ScriptsDir: scripts}
	result, err := r.RunScript(context.Background(), "fail.sh")
	if err == nil {
		t.Fatal("expected error from failing script")
	}
	if result.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", result.ExitCode)
	}
	if result.Stderr != "bad input\n" {
		t.Errorf("Stderr = %q", result.Stderr)
	}
}
