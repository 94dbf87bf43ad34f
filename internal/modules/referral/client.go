// README: HTTP client for the external referral-code validation endpoint.
package referral

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
)

// ErrTransport marks failures talking to the referral service, as opposed to
// a code it rejected.
var ErrTransport = errors.New("referral service unreachable")

type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

type validateRequest struct {
	Code string `json:"code"`
}

// Validate asks the referral service whether code is a live referral code.
// A rejected code is a Result with Valid=false, not an error.
func (c *Client) Validate(ctx context.Context, code string) (Result, error) {
	body, err := json.Marshal(validateRequest{Code: code})
	if err != nil {
		return Result{}, errors.Wrap(err, "marshal referral request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/referrals/validate", bytes.NewReader(body))
	if err != nil {
		return Result{}, errors.Wrap(err, "build referral request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, errors.Wrap(ErrTransport, err.Error())
	}
	defer resp.Body.Close()

	// 4xx with a JSON body is how the service reports a bad code.
	if resp.StatusCode >= http.StatusInternalServerError {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Result{}, errors.Wrapf(ErrTransport, "status %d: %s", resp.StatusCode, string(b))
	}

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return Result{}, errors.Wrapf(ErrTransport, "decode response (status %d): %v", resp.StatusCode, err)
	}
	if resp.StatusCode >= http.StatusBadRequest && res.Valid {
		return Result{}, errors.Wrapf(ErrTransport, "status %d with valid=true", resp.StatusCode)
	}
	return res, nil
}
