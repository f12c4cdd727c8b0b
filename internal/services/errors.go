package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrValidation marks failures caused by bad caller input. These map to
	// HTTP 400 and never involve a vendor call.
	ErrValidation = errors.New("validation error")

	// ErrConfiguration marks failures caused by missing or unusable
	// configuration discovered at startup.
	ErrConfiguration = errors.New("configuration error")

	// ErrAuthentication marks token-endpoint failures.
	ErrAuthentication = errors.New("authentication failure")

	// ErrUpload marks failures minting an upload slot or pushing content.
	ErrUpload = errors.New("upload failure")

	// ErrJobSubmission marks failures starting a conversion job.
	ErrJobSubmission = errors.New("job submission failure")

	// ErrPolling marks transport failures while checking job status. A poll
	// that merely reports "in progress" is not an error.
	ErrPolling = errors.New("polling failure")

	// ErrJob marks a job that reached a terminal non-success status, or
	// exhausted the polling budget while still in progress.
	ErrJob = errors.New("job failure")

	// ErrStreaming marks failures while piping the result to the caller.
	ErrStreaming = errors.New("streaming failure")
)

// Wrap tags err with the given marker and builds a message carrying component
// and operation context. A nil marker defaults to ErrJob.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrJob
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// HTTPStatus maps a pipeline error to the response status the API returns.
// Validation errors are the caller's fault; everything else collapses to 500.
func HTTPStatus(err error) int {
	if errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
