package adobe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"inkjet/internal/services"
)

// Download opens a streaming read of the finished document. The returned
// body is not buffered; the caller owns it and gates the read rate through
// its own writes. Cancelling ctx aborts the transfer.
func (c *Client) Download(ctx context.Context, downloadURI string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURI, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrStreaming, "adobe", "download result", "build request", err)
	}

	// The download URI is presigned; the stream client carries no timeout so
	// large documents are bounded only by ctx.
	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrStreaming, "adobe", "download result", "request failed", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		detail := fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return nil, services.Wrap(services.ErrStreaming, "adobe", "download result", detail, nil)
	}
	return resp.Body, nil
}
