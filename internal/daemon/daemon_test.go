package daemon_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"inkjet/internal/api"
	"inkjet/internal/daemon"
	"inkjet/internal/logging"
	"inkjet/internal/testsupport"
)

func TestDaemonServesConversions(t *testing.T) {
	vendor := testsupport.NewMockVendor(t)
	vendor.PollStatuses = []string{"succeeded"}

	cfg := testsupport.NewConfig(t, testsupport.WithVendorURLs(vendor.BaseURL(), vendor.TokenURL()))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	store := testsupport.MustOpenStore(t, cfg)

	d, err := daemon.New(cfg, store, logging.NewNop(), "test")
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	defer d.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	base := "http://" + d.Addr()

	resp, err := http.Get(base + "/api/status")
	if err != nil {
		t.Fatalf("GET status: %v", err)
	}
	defer resp.Body.Close()
	var status api.DaemonStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !status.Running || status.Version != "test" {
		t.Fatalf("unexpected status: %+v", status)
	}
	if status.HistoryDBPath == "" || status.LockFilePath == "" {
		t.Fatalf("expected paths in status: %+v", status)
	}

	payload, _ := json.Marshal(api.GenerateRequest{HTML: "<h1>Hi</h1>"})
	pdfResp, err := http.Post(base+"/api/generate-pdf", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST generate: %v", err)
	}
	defer pdfResp.Body.Close()
	if pdfResp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", pdfResp.StatusCode)
	}
	var pdf bytes.Buffer
	if _, err := pdf.ReadFrom(pdfResp.Body); err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !strings.HasPrefix(pdf.String(), "%PDF-1.4") {
		t.Fatalf("unexpected pdf body: %q", pdf.String())
	}
}

func TestDaemonEnforcesSingleInstance(t *testing.T) {
	vendor := testsupport.NewMockVendor(t)
	cfg := testsupport.NewConfig(t, testsupport.WithVendorURLs(vendor.BaseURL(), vendor.TokenURL()))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	first, err := daemon.New(cfg, nil, logging.NewNop(), "test")
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	defer first.Close()

	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	second, err := daemon.New(cfg, nil, logging.NewNop(), "test")
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	defer second.Close()
	if err := second.Start(ctx); err == nil {
		t.Fatal("expected second instance to fail")
	} else if !strings.Contains(err.Error(), "already running") {
		t.Fatalf("unexpected error: %v", err)
	}

	first.Stop()
	if err := second.Start(ctx); err != nil {
		t.Fatalf("restart after release: %v", err)
	}
	second.Stop()
}

func TestDaemonStartFailsWithoutDirectories(t *testing.T) {
	vendor := testsupport.NewMockVendor(t)
	cfg := testsupport.NewConfig(t, testsupport.WithVendorURLs(vendor.BaseURL(), vendor.TokenURL()))
	// Directories deliberately not created.

	d, err := daemon.New(cfg, nil, logging.NewNop(), "test")
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	defer d.Close()

	if err := d.Start(context.Background()); err == nil {
		t.Fatal("expected preflight failure")
	} else if !strings.Contains(err.Error(), "preflight") {
		t.Fatalf("unexpected error: %v", err)
	}
}
