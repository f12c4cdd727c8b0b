package adobe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"inkjet/internal/services"
)

// MediaTypeHTML is the declared media type for uploaded HTML payloads.
const MediaTypeHTML = "text/html"

// AssetHandle identifies a vendor-side asset and its write-once upload target.
type AssetHandle struct {
	AssetID   string `json:"assetID"`
	UploadURI string `json:"uploadUri"`
}

// CreateAsset asks the vendor to mint a write target for an asset of the
// declared media type.
func (c *Client) CreateAsset(ctx context.Context, token, mediaType string) (AssetHandle, error) {
	var empty AssetHandle

	encoded, err := json.Marshal(map[string]string{"mediaType": mediaType})
	if err != nil {
		return empty, services.Wrap(services.ErrUpload, "adobe", "create asset", "encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/assets", bytes.NewReader(encoded))
	if err != nil {
		return empty, services.Wrap(services.ErrUpload, "adobe", "create asset", "build request", err)
	}
	c.vendorHeaders(req, token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, services.Wrap(services.ErrUpload, "adobe", "create asset", "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty, services.Wrap(services.ErrUpload, "adobe", "create asset", "read response", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		detail := fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return empty, services.Wrap(services.ErrUpload, "adobe", "create asset", detail, nil)
	}

	var handle AssetHandle
	if err := json.Unmarshal(body, &handle); err != nil {
		return empty, services.Wrap(services.ErrUpload, "adobe", "create asset", "decode response", err)
	}
	if strings.TrimSpace(handle.AssetID) == "" || strings.TrimSpace(handle.UploadURI) == "" {
		return empty, services.Wrap(services.ErrUpload, "adobe", "create asset", "response missing assetID or uploadUri", nil)
	}
	return handle, nil
}

// UploadAsset performs a direct PUT of the raw payload to the vendor-minted
// upload target. The upload URI is presigned; no auth headers are sent.
func (c *Client) UploadAsset(ctx context.Context, uploadURI, mediaType string, content []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURI, bytes.NewReader(content))
	if err != nil {
		return services.Wrap(services.ErrUpload, "adobe", "upload content", "build request", err)
	}
	req.Header.Set("Content-Type", mediaType)
	req.ContentLength = int64(len(content))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrUpload, "adobe", "upload content", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		detail := fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return services.Wrap(services.ErrUpload, "adobe", "upload content", detail, nil)
	}
	return nil
}
