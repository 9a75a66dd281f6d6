package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenLogFile(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   io.Writer
	}{
		{"empty", "", os.Stderr},
		{"dash", "-", os.Stderr},
		{"none", "none", io.Discard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lf, err := OpenLogFile(tt.output)
			if err != nil {
				t.Fatalf("OpenLogFile(%q) error: %v", tt.output, err)
			}
			if lf.Writer() != tt.want {
				t.Errorf("unexpected writer for %q", tt.output)
			}
			if err := lf.Close(); err != nil {
				t.Errorf("Close: %v", err)
			}
		})
	}
}

func TestOpenLogFilePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "shipyard.log")
	lf, err := OpenLogFile(path)
	if err != nil {
		t.Fatalf("OpenLogFile: %v", err)
	}
	l, err := NewWithWriter("json", slog.LevelInfo, lf.Writer())
	if err != nil {
		t.Fatal(err)
	}
	l.Info(context.Background(), "Component:Create/s", "component", "web")
	if err := lf.Close(); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"component":"web"`) {
		t.Errorf("log file missing entry: %s", b)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"WARN", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLevel(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHumanLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter("human", slog.LevelWarn, &buf)
	if err != nil {
		t.Fatal(err)
	}
	ctx := WithLogger(context.Background(), l)
	FromContext(ctx).Info(ctx, "hidden")
	FromContext(ctx).Warn(ctx, "shown", "k", "v")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output: %q", out)
	}
	if _, err := NewWithWriter("xml", slog.LevelInfo, &buf); err == nil {
		t.Error("expected error for unsupported format")
	}
}
