package adobe

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"inkjet/internal/logging"
	"inkjet/internal/services"
)

const grantClientCredentials = "client_credentials"

// authFailureMessage is deliberately opaque; the vendor response body is
// logged but never forwarded to the caller.
const authFailureMessage = "Failed to authenticate with Adobe."

// Authenticate exchanges the configured credentials for a short-lived bearer
// token via the client-credentials grant. The token is request-scoped; callers
// must not cache it across requests.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", grantClientCredentials)
	form.Set("scope", c.scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", services.Wrap(services.ErrAuthentication, "adobe", "authenticate", authFailureMessage, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log().Error("token request failed", logging.Error(err))
		return "", services.Wrap(services.ErrAuthentication, "adobe", "authenticate", authFailureMessage, nil)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log().Error("token response unreadable", logging.Error(err))
		return "", services.Wrap(services.ErrAuthentication, "adobe", "authenticate", authFailureMessage, nil)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		c.log().Error("token endpoint rejected credentials",
			logging.Int("http_status", resp.StatusCode),
			logging.String("vendor_body", strings.TrimSpace(string(body))))
		return "", services.Wrap(services.ErrAuthentication, "adobe", "authenticate", authFailureMessage, nil)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		c.log().Error("token response malformed", logging.Error(err))
		return "", services.Wrap(services.ErrAuthentication, "adobe", "authenticate", authFailureMessage, nil)
	}
	if strings.TrimSpace(payload.AccessToken) == "" {
		c.log().Error("token response missing access_token")
		return "", services.Wrap(services.ErrAuthentication, "adobe", "authenticate", authFailureMessage, nil)
	}
	return payload.AccessToken, nil
}
