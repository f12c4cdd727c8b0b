package api

import (
	"time"

	"inkjet/internal/history"
)

// FromRecord converts a history record to its API representation.
func FromRecord(record history.Record) ConversionItem {
	return ConversionItem{
		ID:           record.ID,
		RequestID:    record.RequestID,
		Title:        record.Title,
		Status:       string(record.Status),
		ErrorMessage: record.ErrorMessage,
		InputBytes:   record.InputBytes,
		OutputBytes:  record.OutputBytes,
		PollAttempts: record.PollAttempts,
		DurationMS:   record.Duration.Milliseconds(),
		CreatedAt:    FormatTime(record.CreatedAt),
		FinishedAt:   FormatTime(record.FinishedAt),
	}
}

// FromRecords converts a slice of history records into API DTOs.
func FromRecords(records []history.Record) []ConversionItem {
	if len(records) == 0 {
		return nil
	}
	out := make([]ConversionItem, 0, len(records))
	for _, record := range records {
		out = append(out, FromRecord(record))
	}
	return out
}

// FromSummary converts aggregate history counts to the API payload.
func FromSummary(summary history.Summary) ConversionTotals {
	return ConversionTotals{
		Total:     summary.Total,
		Succeeded: summary.Succeeded,
		Failed:    summary.Failed,
		TimedOut:  summary.TimedOut,
		Rejected:  summary.Rejected,
	}
}

// FormatTime converts a time to RFC3339 or returns empty string.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
