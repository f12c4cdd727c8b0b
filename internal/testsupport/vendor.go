package testsupport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// MockVendor stands in for the remote PDF service in tests. It serves the
// token, asset, job, and download endpoints from a single httptest server.
type MockVendor struct {
	// PollStatuses is returned in order across poll calls; the last entry
	// repeats once exhausted.
	PollStatuses []string
	PDF          []byte

	mu         sync.Mutex
	tokenCalls int
	assetCalls int
	pollCalls  int
	uploaded   []byte

	Server *httptest.Server
}

// NewMockVendor starts a vendor double that completes conversions after one
// in-progress poll. Close is registered with t.Cleanup.
func NewMockVendor(t testing.TB) *MockVendor {
	t.Helper()

	v := &MockVendor{
		PollStatuses: []string{"in progress", "succeeded"},
		PDF:          []byte("%PDF-1.4 test document"),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		v.mu.Lock()
		v.tokenCalls++
		v.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "test-token"})
	})
	mux.HandleFunc("/assets", func(w http.ResponseWriter, r *http.Request) {
		v.mu.Lock()
		v.assetCalls++
		v.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]string{
			"assetID":   "test-asset",
			"uploadUri": v.Server.URL + "/upload",
		})
	})
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		v.mu.Lock()
		v.uploaded = body
		v.mu.Unlock()
	})
	mux.HandleFunc("/operation/htmltopdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", v.Server.URL+"/poll")
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/poll", func(w http.ResponseWriter, r *http.Request) {
		v.mu.Lock()
		index := v.pollCalls
		v.pollCalls++
		v.mu.Unlock()
		if index >= len(v.PollStatuses) {
			index = len(v.PollStatuses) - 1
		}
		status := v.PollStatuses[index]
		resp := map[string]any{"status": status}
		if status == "succeeded" || status == "done" {
			resp["asset"] = map[string]string{"downloadUri": v.Server.URL + "/download"}
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/download", func(w http.ResponseWriter, r *http.Request) {
		w.Write(v.PDF)
	})

	v.Server = httptest.NewServer(mux)
	t.Cleanup(v.Server.Close)
	return v
}

// BaseURL returns the vendor API root.
func (v *MockVendor) BaseURL() string { return v.Server.URL }

// TokenURL returns the token endpoint.
func (v *MockVendor) TokenURL() string { return v.Server.URL + "/token" }

// AssetCalls reports how many upload slots were requested.
func (v *MockVendor) AssetCalls() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.assetCalls
}

// TokenCalls reports how many authentications happened.
func (v *MockVendor) TokenCalls() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tokenCalls
}

// Uploaded returns the last payload PUT to the upload endpoint.
func (v *MockVendor) Uploaded() []byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.uploaded
}
