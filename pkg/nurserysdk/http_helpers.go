package nurserysdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const userAgent = "nurserysdk/1"

var (
	formHeaders = map[string]string{"Content-Type": "application/x-www-form-urlencoded"}
	jsonHeaders = map[string]string{"Content-Type": "application/json"}
)

func (c *SDKClient) url(path string) string {
	return c.BaseURL + path
}

// doRequest sends one request through the client's cookie-carrying HTTP
// client. Transport failures match ErrNetwork as well as the underlying
// error, so callers can tell an unreachable service from an API answer.
func (c *SDKClient) doRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
	}
	return resp, nil
}

// readBody drains and closes the response body.
func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return b, nil
}

// decodeJSON decodes a response answered with want into target. Any other
// status becomes an *APIError.
func decodeJSON(resp *http.Response, target any, want int) error {
	b, err := readBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode != want {
		return parseErrorResponse(resp, b)
	}
	if err := json.Unmarshal(b, target); err != nil {
		return fmt.Errorf("failed to decode %d response: %w", resp.StatusCode, err)
	}
	return nil
}

func checkStatusNoContent(resp *http.Response) error {
	b, err := readBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusNoContent {
		return parseErrorResponse(resp, b)
	}
	return nil
}
