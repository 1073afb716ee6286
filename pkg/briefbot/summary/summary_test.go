// Package summary - summary_test.go covers the generation strategy chain:
// LLM path, over-length retry, fault short-circuit, and the count-based
// fallback. The text generator is faked; the store is a real SQLite file.
package summary

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nkoski/briefbot/pkg/briefbot/schedule"
	"github.com/nkoski/briefbot/pkg/briefbot/store"
)

// fakeLLM replays canned responses and records every call.
type fakeLLM struct {
	responses []string
	err       error
	calls     int
	lastUser  string
}

func (f *fakeLLM) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.lastUser = userPrompt
	if f.err != nil {
		return "", f.err
	}
	i := f.calls - 1
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return f.responses[i], nil
}

// newTestStore opens a store in a temp dir and seeds it with n messages in
// the trailing window.
func newTestStore(t *testing.T, n int) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "messages.db"), slog.Default())
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	now := time.Now()
	for i := 0; i < n; i++ {
		st.Ingest(&store.Inbound{
			ID:         string(rune('a' + i)),
			AuthorID:   "u1",
			AuthorName: "alice",
			Text:       "update number " + string(rune('0'+i)),
			Timestamp:  now.Add(-time.Duration(n-i) * time.Minute),
			ChannelID:  "chan-1",
		})
	}
	return st
}

func testSpec(t *testing.T) schedule.Spec {
	t.Helper()
	spec, err := schedule.Parse("09:00", "UTC")
	if err != nil {
		t.Fatalf("Failed to parse schedule: %v", err)
	}
	return spec
}

func TestGenerateEmptyWindow(t *testing.T) {
	st := newTestStore(t, 0)
	llm := &fakeLLM{responses: []string{"should not be called"}}
	gen := NewGenerator(st, llm, testSpec(t), slog.Default())

	got, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != emptyWindowNotice {
		t.Errorf("Expected empty-window notice, got %q", got)
	}
	if llm.calls != 0 {
		t.Errorf("Expected no LLM call for empty window, got %d", llm.calls)
	}
}

func TestGenerateUsesLLM(t *testing.T) {
	st := newTestStore(t, 3)
	llm := &fakeLLM{responses: []string{"Three quiet updates today."}}
	gen := NewGenerator(st, llm, testSpec(t), slog.Default())

	got, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if llm.calls != 1 {
		t.Fatalf("Expected 1 LLM call, got %d", llm.calls)
	}
	if !strings.HasPrefix(got, summaryHeader) {
		t.Errorf("Expected summary header, got %q", got)
	}
	if !strings.Contains(got, "Three quiet updates today.") {
		t.Errorf("Expected LLM text in result, got %q", got)
	}
	if len(got) > MaxMessageLength {
		t.Errorf("Result exceeds length limit: %d", len(got))
	}
}

func TestGeneratePromptFormat(t *testing.T) {
	st := newTestStore(t, 2)
	llm := &fakeLLM{responses: []string{"ok"}}
	gen := NewGenerator(st, llm, testSpec(t), slog.Default())

	if _, err := gen.Generate(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// One transcript line per message: "[HH:MM] author: content".
	if !strings.Contains(llm.lastUser, "] alice: update number 0") {
		t.Errorf("Expected transcript line in prompt, got:\n%s", llm.lastUser)
	}
	if !strings.Contains(llm.lastUser, "2000 characters or less") {
		t.Error("Expected length instruction in prompt")
	}
}

// TestGenerateRetryBound: over-length results are retried at most once, then
// the best attempt is truncated. Never more than 2 calls.
func TestGenerateRetryBound(t *testing.T) {
	st := newTestStore(t, 1)
	long := strings.Repeat("word ", 600) // ~3000 chars, over the limit
	llm := &fakeLLM{responses: []string{long, long}}
	gen := NewGenerator(st, llm, testSpec(t), slog.Default())

	got, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if llm.calls != 2 {
		t.Errorf("Expected exactly 2 LLM calls, got %d", llm.calls)
	}
	if len(got) > MaxMessageLength {
		t.Errorf("Result exceeds length limit: %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected truncation marker, got ending %q", got[len(got)-10:])
	}
}

// TestGenerateKeepsShortestAttempt: when both attempts are over-length, the
// shorter one is the truncation input.
func TestGenerateKeepsShortestAttempt(t *testing.T) {
	st := newTestStore(t, 1)
	llm := &fakeLLM{responses: []string{
		strings.Repeat("x", 5000),
		strings.Repeat("y", 2500),
	}}
	gen := NewGenerator(st, llm, testSpec(t), slog.Default())

	got, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(got, "y") || strings.Contains(got, "x") {
		t.Error("Expected the shorter attempt to be kept for truncation")
	}
}

// TestGenerateFaultShortCircuit: a call fault stops retrying immediately and
// falls through to the fallback summary, reported via the error.
func TestGenerateFaultShortCircuit(t *testing.T) {
	st := newTestStore(t, 2)
	llm := &fakeLLM{err: errors.New("connection refused")}
	gen := NewGenerator(st, llm, testSpec(t), slog.Default())

	got, err := gen.Generate(context.Background())
	if err == nil {
		t.Fatal("Expected a generation fault to be reported")
	}
	if llm.calls != 1 {
		t.Errorf("Expected no retry after a fault, got %d calls", llm.calls)
	}
	if !strings.Contains(got, fallbackNotice) {
		t.Errorf("Expected fallback summary, got %q", got)
	}
	if !strings.Contains(got, "alice: 2 messages") {
		t.Errorf("Expected per-author count in fallback, got %q", got)
	}
	if len(got) > MaxMessageLength {
		t.Errorf("Fallback exceeds length limit: %d", len(got))
	}
}

func TestGenerateWithoutLLM(t *testing.T) {
	st := newTestStore(t, 3)
	gen := NewGenerator(st, nil, testSpec(t), slog.Default())

	got, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, summaryHeader) {
		t.Errorf("Expected summary header, got %q", got)
	}
	if !strings.Contains(got, "• alice: 3 messages") {
		t.Errorf("Expected bullet line with count, got %q", got)
	}
	if !strings.Contains(got, fallbackNotice) {
		t.Errorf("Expected fallback notice, got %q", got)
	}
}

func TestNextRun(t *testing.T) {
	st := newTestStore(t, 0)
	gen := NewGenerator(st, nil, testSpec(t), slog.Default())

	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	next := gen.NextRun(now)
	want := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("Expected next run %v, got %v", want, next)
	}
}
