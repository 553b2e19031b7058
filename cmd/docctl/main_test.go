package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func runDocctl(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	t.Setenv("LLM_PROVIDER", "none")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ENV", "dev")
	t.Setenv("LOCAL_STORE_DIR", t.TempDir())

	out := &bytes.Buffer{}
	cmd := newRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return out, cmd.Execute()
}

func TestIngestCommand(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"permit.txt", "invoice.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("document body for "+name), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	out, err := runDocctl(t, "ingest", dir, "--concurrency", "2")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	var rows []map[string]any
	if err := json.Unmarshal(out.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v (%s)", err, out.String())
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row["documentId"] == nil || row["category"] != "other" {
			t.Fatalf("unexpected row %v", row)
		}
	}
}

func TestIngestCommandReportsFailures(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := runDocctl(t, "ingest", empty); err == nil {
		t.Fatalf("expected error for empty file")
	}
}

func TestSearchCommandRejectsShortQuery(t *testing.T) {
	if _, err := runDocctl(t, "search", "x"); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestSearchCommandRejectsLimitAboveMax(t *testing.T) {
	if _, err := runDocctl(t, "search", "warranty", "--limit", "101"); err == nil {
		t.Fatalf("expected limit error")
	}
	cmd := newRootCommand()
	if cmd.Use != "docctl" || !cmd.SilenceUsage {
		t.Fatalf("unexpected root command %q silenceUsage=%v", cmd.Use, cmd.SilenceUsage)
	}
}

func TestCapabilitiesCommand(t *testing.T) {
	out, err := runDocctl(t, "capabilities")
	if err != nil {
		t.Fatalf("capabilities: %v", err)
	}
	var caps struct {
		Features struct {
			AIAnalysis bool `json:"aiAnalysis"`
		} `json:"features"`
	}
	if err := json.Unmarshal(out.Bytes(), &caps); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if caps.Features.AIAnalysis {
		t.Fatalf("expected aiAnalysis false without a model")
	}
}
