package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ha1tch/curve-toolkit/pkg/editor"
	"github.com/ha1tch/curve-toolkit/pkg/scheme"
)

func TestChannelIndex(t *testing.T) {
	s := scheme.Default()
	tests := []struct {
		arg  string
		want int
		ok   bool
	}{
		{"Red", 0, true},
		{"Blue", 2, true},
		{"1", 1, true},
		{"3", -1, false},
		{"red", -1, false},
		{"", -1, false},
	}
	for _, tt := range tests {
		got, err := channelIndex(s, tt.arg)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("channelIndex(%q) = %d, %v; want %d", tt.arg, got, err, tt.want)
		}
	}
}

func TestRenderFiles(t *testing.T) {
	dir := t.TempDir()
	outputs := []string{
		filepath.Join(dir, "a.svg"),
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "b.PNG"),
	}
	sess := editor.New(nil, editor.DefaultConfig())
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := renderFiles(context.Background(), sess, outputs, "test", 100, 60, log); err != nil {
		t.Fatalf("renderFiles: %v", err)
	}
	for _, out := range outputs {
		info, err := os.Stat(out)
		if err != nil {
			t.Fatalf("missing output: %v", err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", out)
		}
	}

	data, err := os.ReadFile(outputs[0])
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(string(data), "<path ") != 3 {
		t.Error("svg output should hold one path per channel")
	}
}

func TestRenderFilesUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	sess := editor.New(nil, editor.DefaultConfig())
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := renderFiles(context.Background(), sess, []string{filepath.Join(dir, "a.gif")}, "", 0, 0, log)
	if err == nil {
		t.Fatal("expected error for .gif output")
	}
	if _, err := os.Stat(filepath.Join(dir, "a.gif")); !os.IsNotExist(err) {
		t.Error("no file should be written for an unknown format")
	}
}
