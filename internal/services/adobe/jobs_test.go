package adobe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"inkjet/internal/services"
)

func TestStartJobReturnsLocationHeader(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/operation/htmltopdf" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.Header().Set("Location", "https://poll.example/P1")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := newTestClient(t, Config{BaseURL: server.URL})
	pollingURL, err := client.StartJob(context.Background(), "T1", "A1", RenderOptions{
		IncludeHeaderFooter: true,
		PageWidthInches:     8.27,
		PageHeightInches:    11.69,
	})
	if err != nil {
		t.Fatalf("StartJob: %v", err)
	}
	if pollingURL != "https://poll.example/P1" {
		t.Fatalf("unexpected polling url: %q", pollingURL)
	}
	if payload["assetID"] != "A1" {
		t.Fatalf("unexpected assetID: %v", payload["assetID"])
	}
	if payload["includeHeaderFooter"] != true {
		t.Fatalf("expected includeHeaderFooter true: %v", payload)
	}
	layout, ok := payload["pageLayout"].(map[string]any)
	if !ok || layout["pageWidth"] != 8.27 || layout["pageHeight"] != 11.69 {
		t.Fatalf("unexpected page layout: %v", payload["pageLayout"])
	}
}

func TestStartJobMissingLocationFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := newTestClient(t, Config{BaseURL: server.URL})
	_, err := client.StartJob(context.Background(), "T1", "A1", RenderOptions{PageWidthInches: 1, PageHeightInches: 1})
	if !errors.Is(err, services.ErrJobSubmission) {
		t.Fatalf("expected ErrJobSubmission, got %v", err)
	}
}

func pollServer(t *testing.T, responses []string) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls >= len(responses) {
			t.Errorf("unexpected extra poll request %d", calls+1)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		resp := responses[calls]
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(resp))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestPollJobStopsOnSuccess(t *testing.T) {
	server, calls := pollServer(t, []string{
		`{"status":"in progress"}`,
		`{"status":"in progress"}`,
		`{"status":"succeeded","asset":{"downloadUri":"https://dl.example/D1"}}`,
	})

	var sleeps []time.Duration
	client := newTestClient(t, Config{PollInterval: 2 * time.Second}, WithSleeper(func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}))

	result, err := client.PollJob(context.Background(), "T1", server.URL)
	if err != nil {
		t.Fatalf("PollJob: %v", err)
	}
	if result.Outcome != OutcomeSucceeded {
		t.Fatalf("expected succeeded outcome, got %v", result.Outcome)
	}
	if result.DownloadURI != "https://dl.example/D1" {
		t.Fatalf("unexpected download uri: %q", result.DownloadURI)
	}
	if result.Attempts != 3 || *calls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d (%d requests)", result.Attempts, *calls)
	}
	if len(sleeps) != 3 {
		t.Fatalf("expected a sleep before each poll, got %d", len(sleeps))
	}
	for _, d := range sleeps {
		if d != 2*time.Second {
			t.Fatalf("expected fixed 2s interval, got %v", d)
		}
	}
}

func TestPollJobAcceptsDoneStatus(t *testing.T) {
	server, _ := pollServer(t, []string{
		`{"status":"done","asset":{"downloadUri":"https://dl.example/D1"}}`,
	})
	client := newTestClient(t, Config{})
	result, err := client.PollJob(context.Background(), "T1", server.URL)
	if err != nil {
		t.Fatalf("PollJob: %v", err)
	}
	if result.Outcome != OutcomeSucceeded || result.Attempts != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestPollJobExhaustsBudgetAsTimedOut(t *testing.T) {
	responses := make([]string, 20)
	for i := range responses {
		responses[i] = `{"status":"in progress"}`
	}
	server, calls := pollServer(t, responses)

	client := newTestClient(t, Config{PollMaxAttempts: 20})
	result, err := client.PollJob(context.Background(), "T1", server.URL)
	if err == nil {
		t.Fatal("expected error after budget exhaustion")
	}
	if !errors.Is(err, services.ErrJob) {
		t.Fatalf("expected ErrJob, got %v", err)
	}
	if result.Outcome != OutcomeTimedOut {
		t.Fatalf("expected timed_out outcome, got %v", result.Outcome)
	}
	if result.Attempts != 20 || *calls != 20 {
		t.Fatalf("expected exactly 20 attempts, got %d (%d requests)", result.Attempts, *calls)
	}
	if !strings.Contains(err.Error(), "still in progress") {
		t.Fatalf("expected timeout detail in error, got %q", err.Error())
	}
}

func TestPollJobVendorFailureIsDistinctFromTimeout(t *testing.T) {
	server, _ := pollServer(t, []string{
		`{"status":"in progress"}`,
		`{"status":"failed"}`,
	})

	client := newTestClient(t, Config{})
	result, err := client.PollJob(context.Background(), "T1", server.URL)
	if !errors.Is(err, services.ErrJob) {
		t.Fatalf("expected ErrJob, got %v", err)
	}
	if result.Outcome != OutcomeFailed {
		t.Fatalf("expected failed outcome, got %v", result.Outcome)
	}
	if result.Attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", result.Attempts)
	}
	if !strings.Contains(err.Error(), `status "failed"`) {
		t.Fatalf("expected status in error, got %q", err.Error())
	}
}

func TestPollJobSucceededWithoutDownloadURIFails(t *testing.T) {
	server, _ := pollServer(t, []string{`{"status":"succeeded"}`})

	client := newTestClient(t, Config{})
	result, err := client.PollJob(context.Background(), "T1", server.URL)
	if !errors.Is(err, services.ErrJob) {
		t.Fatalf("expected ErrJob, got %v", err)
	}
	if result.Outcome != OutcomeFailed {
		t.Fatalf("expected failed outcome, got %v", result.Outcome)
	}
}

func TestPollJobTransportErrorAborts(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(`{"status":"in progress"}`))
			return
		}
		// Drop the connection mid-request to simulate a transport failure.
		conn, _, _ := w.(http.Hijacker).Hijack()
		conn.Close()
	}))
	defer server.Close()

	client := newTestClient(t, Config{})
	result, err := client.PollJob(context.Background(), "T1", server.URL)
	if !errors.Is(err, services.ErrPolling) {
		t.Fatalf("expected ErrPolling, got %v", err)
	}
	if result.Attempts != 2 {
		t.Fatalf("expected abort on attempt 2, got %d", result.Attempts)
	}
	if calls != 2 {
		t.Fatalf("expected no retry after transport error, got %d calls", calls)
	}
}

func TestPollJobContextCancelDuringWait(t *testing.T) {
	server, calls := pollServer(t, nil)
	_ = server

	ctx, cancel := context.WithCancel(context.Background())
	client := newTestClient(t, Config{}, WithSleeper(func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}))

	_, err := client.PollJob(ctx, "T1", server.URL)
	if !errors.Is(err, services.ErrPolling) {
		t.Fatalf("expected ErrPolling on cancelled wait, got %v", err)
	}
	if *calls != 0 {
		t.Fatalf("expected no status request after cancelled wait, got %d", *calls)
	}
}
