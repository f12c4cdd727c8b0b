package api_test

import (
	"testing"
	"time"

	"inkjet/internal/api"
	"inkjet/internal/history"
)

func TestFromRecord(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	record := history.Record{
		ID:           7,
		RequestID:    "req-7",
		Title:        "Quarterly Report",
		Status:       history.StatusSucceeded,
		InputBytes:   2048,
		OutputBytes:  40960,
		PollAttempts: 3,
		Duration:     6500 * time.Millisecond,
		CreatedAt:    created,
		FinishedAt:   created.Add(6500 * time.Millisecond),
	}

	item := api.FromRecord(record)
	if item.ID != 7 || item.RequestID != "req-7" {
		t.Fatalf("unexpected identity fields: %+v", item)
	}
	if item.Status != "succeeded" {
		t.Fatalf("unexpected status: %q", item.Status)
	}
	if item.DurationMS != 6500 {
		t.Fatalf("unexpected duration: %d", item.DurationMS)
	}
	if item.CreatedAt != "2026-03-14T09:26:53.000Z" {
		t.Fatalf("unexpected createdAt: %q", item.CreatedAt)
	}
	if item.ErrorMessage != "" {
		t.Fatalf("expected empty error message, got %q", item.ErrorMessage)
	}
}

func TestFromRecordsEmpty(t *testing.T) {
	if out := api.FromRecords(nil); out != nil {
		t.Fatalf("expected nil for empty input, got %v", out)
	}
}

func TestFromSummary(t *testing.T) {
	totals := api.FromSummary(history.Summary{Total: 5, Succeeded: 2, Failed: 1, TimedOut: 1, Rejected: 1})
	if totals.Total != 5 || totals.Succeeded != 2 || totals.TimedOut != 1 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}

func TestFormatTimeZero(t *testing.T) {
	if got := api.FormatTime(time.Time{}); got != "" {
		t.Fatalf("expected empty string for zero time, got %q", got)
	}
}
