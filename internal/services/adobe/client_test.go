package adobe

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"inkjet/internal/services"
)

func newTestClient(t *testing.T, cfg Config, opts ...Option) *Client {
	t.Helper()
	if cfg.ClientID == "" {
		cfg.ClientID = "client-id"
	}
	if cfg.ClientSecret == "" {
		cfg.ClientSecret = "client-secret"
	}
	opts = append([]Option{WithSleeper(func(context.Context, time.Duration) error { return nil })}, opts...)
	client, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New client failed: %v", err)
	}
	return client
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(Config{ClientID: "id"}); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, err := New(Config{ClientSecret: "secret"}); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestAuthenticateSendsFormGrant(t *testing.T) {
	var captured *http.Request
	var form string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		body, _ := io.ReadAll(r.Body)
		form = string(body)
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "T1"})
	}))
	defer server.Close()

	client := newTestClient(t, Config{TokenURL: server.URL})
	token, err := client.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if token != "T1" {
		t.Fatalf("unexpected token: %q", token)
	}
	if captured.Method != http.MethodPost {
		t.Fatalf("expected POST, got %s", captured.Method)
	}
	if got := captured.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected content type: %q", got)
	}
	for _, want := range []string{"client_id=client-id", "client_secret=client-secret", "grant_type=client_credentials", "scope="} {
		if !strings.Contains(form, want) {
			t.Fatalf("expected %q in form body, got %q", want, form)
		}
	}
}

func TestAuthenticateFailureIsOpaque(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_client","error_description":"secret sauce"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, Config{TokenURL: server.URL})
	_, err := client.Authenticate(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
	if !strings.Contains(err.Error(), "Failed to authenticate with Adobe.") {
		t.Fatalf("expected opaque message, got %q", err.Error())
	}
	if strings.Contains(err.Error(), "secret sauce") {
		t.Fatalf("vendor body leaked into error: %q", err.Error())
	}
}

func TestCreateAssetParsesHandle(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		if r.URL.Path != "/assets" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"assetID": "A1", "uploadUri": "https://upload.example/u1"})
	}))
	defer server.Close()

	client := newTestClient(t, Config{BaseURL: server.URL})
	handle, err := client.CreateAsset(context.Background(), "T1", MediaTypeHTML)
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	if handle.AssetID != "A1" || handle.UploadURI != "https://upload.example/u1" {
		t.Fatalf("unexpected handle: %+v", handle)
	}
	if got := captured.Header.Get("Authorization"); got != "Bearer T1" {
		t.Fatalf("unexpected auth header: %q", got)
	}
	if got := captured.Header.Get("x-api-key"); got != "client-id" {
		t.Fatalf("unexpected api key header: %q", got)
	}
}

func TestCreateAssetRejectsIncompleteResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"assetID": "A1"})
	}))
	defer server.Close()

	client := newTestClient(t, Config{BaseURL: server.URL})
	_, err := client.CreateAsset(context.Background(), "T1", MediaTypeHTML)
	if !errors.Is(err, services.ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}
}

func TestUploadAssetPutsRawContent(t *testing.T) {
	var gotBody string
	var gotType string
	var gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
	}))
	defer server.Close()

	client := newTestClient(t, Config{})
	if err := client.UploadAsset(context.Background(), server.URL+"/u1", MediaTypeHTML, []byte("<h1>Hi</h1>")); err != nil {
		t.Fatalf("UploadAsset: %v", err)
	}
	if gotMethod != http.MethodPut {
		t.Fatalf("expected PUT, got %s", gotMethod)
	}
	if gotType != MediaTypeHTML {
		t.Fatalf("unexpected content type: %q", gotType)
	}
	if gotBody != "<h1>Hi</h1>" {
		t.Fatalf("unexpected body: %q", gotBody)
	}
}

func TestUploadAssetNon2xxFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(t, Config{})
	err := client.UploadAsset(context.Background(), server.URL, MediaTypeHTML, []byte("x"))
	if !errors.Is(err, services.ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}
}

func TestDownloadStreamsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4 data"))
	}))
	defer server.Close()

	client := newTestClient(t, Config{})
	body, err := client.Download(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer body.Close()
	buf := make([]byte, 32)
	n, _ := body.Read(buf)
	if !strings.HasPrefix(string(buf[:n]), "%PDF-1.4") {
		t.Fatalf("unexpected stream content: %q", buf[:n])
	}
}

func TestDownloadNon2xxFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, Config{})
	_, err := client.Download(context.Background(), server.URL)
	if !errors.Is(err, services.ErrStreaming) {
		t.Fatalf("expected ErrStreaming, got %v", err)
	}
}
