package adobe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"inkjet/internal/logging"
	"inkjet/internal/services"
)

const statusInProgress = "in progress"

// RenderOptions carries the structural options for an HTML-to-PDF job.
type RenderOptions struct {
	IncludeHeaderFooter bool
	PageWidthInches     float64
	PageHeightInches    float64
}

// Outcome names the terminal state a polled job resolved to. A timed-out
// poll budget is deliberately distinct from a vendor-reported failure.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeTimedOut  Outcome = "timed_out"
)

// JobResult is the final snapshot of a polled conversion job.
type JobResult struct {
	Outcome     Outcome
	Status      string
	DownloadURI string
	Attempts    int
}

// StartJob submits a conversion job for the uploaded asset and returns the
// polling URL the vendor issues in the Location response header.
func (c *Client) StartJob(ctx context.Context, token, assetID string, opts RenderOptions) (string, error) {
	payload := map[string]any{
		"assetID":             assetID,
		"includeHeaderFooter": opts.IncludeHeaderFooter,
		"pageLayout": map[string]float64{
			"pageWidth":  opts.PageWidthInches,
			"pageHeight": opts.PageHeightInches,
		},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", services.Wrap(services.ErrJobSubmission, "adobe", "start job", "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/operation/htmltopdf", bytes.NewReader(encoded))
	if err != nil {
		return "", services.Wrap(services.ErrJobSubmission, "adobe", "start job", "build request", err)
	}
	c.vendorHeaders(req, token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrJobSubmission, "adobe", "start job", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		detail := fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return "", services.Wrap(services.ErrJobSubmission, "adobe", "start job", detail, nil)
	}

	pollingURL := strings.TrimSpace(resp.Header.Get("Location"))
	if pollingURL == "" {
		return "", services.Wrap(services.ErrJobSubmission, "adobe", "start job", "response missing Location header", nil)
	}
	return pollingURL, nil
}

// PollJob checks the job status on a fixed interval until it leaves
// "in progress" or the attempt budget is exhausted. Each attempt sleeps one
// interval, fetches the polling URL, and replaces the local snapshot
// wholesale. A transport error aborts immediately; only a non-erroring
// "still in progress" status is retried.
//
// The returned JobResult is populated for every exit path so callers can
// record the outcome even when err is non-nil.
func (c *Client) PollJob(ctx context.Context, token, pollingURL string) (JobResult, error) {
	result := JobResult{Outcome: OutcomeTimedOut, Status: statusInProgress}

	var snapshot jobStatusResponse
	var raw []byte
	for attempt := 1; attempt <= c.pollMaxAttempts; attempt++ {
		if err := c.sleep(ctx, c.pollInterval); err != nil {
			result.Attempts = attempt - 1
			return result, services.Wrap(services.ErrPolling, "adobe", "poll job", "wait interrupted", err)
		}

		var err error
		snapshot, raw, err = c.fetchJobStatus(ctx, token, pollingURL)
		result.Attempts = attempt
		if err != nil {
			return result, err
		}
		result.Status = snapshot.Status
		c.log().Debug("job status",
			logging.Int(logging.FieldAttempt, attempt),
			logging.String(logging.FieldStatus, snapshot.Status))

		if !strings.EqualFold(snapshot.Status, statusInProgress) {
			break
		}
	}

	switch strings.ToLower(strings.TrimSpace(result.Status)) {
	case "succeeded", "done":
		result.Outcome = OutcomeSucceeded
		if snapshot.Asset == nil || strings.TrimSpace(snapshot.Asset.DownloadURI) == "" {
			result.Outcome = OutcomeFailed
			return result, services.Wrap(services.ErrJob, "adobe", "poll job", "job succeeded without a download URI", nil)
		}
		result.DownloadURI = snapshot.Asset.DownloadURI
		return result, nil
	case statusInProgress:
		result.Outcome = OutcomeTimedOut
		c.log().Error("job polling budget exhausted",
			logging.Int(logging.FieldAttempt, result.Attempts),
			logging.String("job_details", strings.TrimSpace(string(raw))))
		detail := fmt.Sprintf("job still in progress after %d attempts", result.Attempts)
		return result, services.Wrap(services.ErrJob, "adobe", "poll job", detail, nil)
	default:
		result.Outcome = OutcomeFailed
		c.log().Error("job reached terminal failure",
			logging.String(logging.FieldStatus, result.Status),
			logging.String("job_details", strings.TrimSpace(string(raw))))
		detail := fmt.Sprintf("job ended with status %q", result.Status)
		return result, services.Wrap(services.ErrJob, "adobe", "poll job", detail, nil)
	}
}

type jobStatusResponse struct {
	Status string `json:"status"`
	Asset  *struct {
		DownloadURI string `json:"downloadUri"`
	} `json:"asset"`
}

func (c *Client) fetchJobStatus(ctx context.Context, token, pollingURL string) (jobStatusResponse, []byte, error) {
	var empty jobStatusResponse

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pollingURL, nil)
	if err != nil {
		return empty, nil, services.Wrap(services.ErrPolling, "adobe", "poll job", "build request", err)
	}
	c.vendorHeaders(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, nil, services.Wrap(services.ErrPolling, "adobe", "poll job", "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty, nil, services.Wrap(services.ErrPolling, "adobe", "poll job", "read response", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		detail := fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return empty, nil, services.Wrap(services.ErrPolling, "adobe", "poll job", detail, nil)
	}

	var snapshot jobStatusResponse
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return empty, nil, services.Wrap(services.ErrPolling, "adobe", "poll job", "decode response", err)
	}
	return snapshot, body, nil
}
