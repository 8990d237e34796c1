package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"off":     LevelOff,
		"QUIET":   LevelOff,
		"verbose": LevelVerbose,
		"debug":   LevelVerbose,
		"normal":  LevelNormal,
		"":        LevelNormal,
		"loud":    LevelNormal,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestLevelsFilterOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelNormal, &buf)

	log.Debug("hidden %d", 1)
	log.Info("shown %d", 2)
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("debug line leaked at normal level: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "[INF]") || !strings.Contains(buf.String(), "shown 2") {
		t.Fatalf("expected info line, got %q", buf.String())
	}

	buf.Reset()
	log.SetLevel(LevelOff)
	log.Error("nothing")
	if buf.Len() != 0 {
		t.Fatalf("expected no output at off level, got %q", buf.String())
	}
}

func TestNamedSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	root := New(LevelNormal, &buf)
	child := root.Named("schedule")

	child.Debug("before")
	root.SetLevel(LevelVerbose)
	child.Debug("after")

	out := buf.String()
	if strings.Contains(out, "before") {
		t.Fatalf("child logged debug before level change: %q", out)
	}
	if !strings.Contains(out, "schedule: after") {
		t.Fatalf("expected prefixed child line, got %q", out)
	}
}
