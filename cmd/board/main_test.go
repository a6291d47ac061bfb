package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tosifAN/sunrise-2024/internal/api"
	"github.com/tosifAN/sunrise-2024/internal/board"
	"github.com/tosifAN/sunrise-2024/internal/client"
	"github.com/tosifAN/sunrise-2024/internal/seed"
	"github.com/tosifAN/sunrise-2024/internal/store"
)

func TestPrintBoard(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := board.NewService(store.NewMemoryStore(seed.Default()), logger)
	srv := httptest.NewServer(api.NewRouter(svc, logger))
	defer srv.Close()

	var out bytes.Buffer
	if err := printBoard(client.New(srv.URL), &out, logger); err != nil {
		t.Fatalf("printBoard failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "To-Do (9)\n") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "#1 Initial Setup [IT Admin] *done available*") {
		t.Errorf("expected task 1 to be completable:\n%s", out.String())
	}
}

func TestRunArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"help", []string{"--help"}, ""},
		{"short help", []string{"-h"}, ""},
		{"unknown flag", []string{"--nope"}, "unknown flag"},
		{"extra argument", []string{"--plain", "extra"}, "unexpected argument: extra"},
		{"server down", []string{"--plain", "-s", "http://127.0.0.1:1"}, "fetch board"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
