package services

import (
	"errors"
	"net/http"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrAuthentication, "adobe", "fetch token", "vendor rejected request", cause)
	if !errors.Is(err, ErrAuthentication) {
		t.Fatalf("expected error to match ErrAuthentication: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to survive: %v", err)
	}
	want := "authentication failure: adobe: fetch token: vendor rejected request: connection refused"
	if err.Error() != want {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestWrapNilMarkerDefaultsToJob(t *testing.T) {
	err := Wrap(nil, "adobe", "poll", "", nil)
	if !errors.Is(err, ErrJob) {
		t.Fatalf("expected nil marker to default to ErrJob: %v", err)
	}
}

func TestWrapEmptyContext(t *testing.T) {
	err := Wrap(ErrStreaming, "", "", "", nil)
	if err.Error() != "streaming failure: pipeline failure" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Wrap(ErrValidation, "server", "decode", "missing html", nil), http.StatusBadRequest},
		{"auth", Wrap(ErrAuthentication, "adobe", "token", "", nil), http.StatusInternalServerError},
		{"job", Wrap(ErrJob, "adobe", "poll", "status failed", nil), http.StatusInternalServerError},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HTTPStatus(tc.err); got != tc.want {
				t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}
