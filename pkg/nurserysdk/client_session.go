package nurserysdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrSessionLoading is returned by view calls answered with 202 because the
// session was still resolving.
var ErrSessionLoading = errors.New("nurserysdk: session is still loading")

// RedirectError is returned by view calls the guard answered with a redirect.
type RedirectError struct {
	StatusCode int
	Location   string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("redirected (%d) to %s", e.StatusCode, e.Location)
}

// VisitResult is the raw outcome of navigating to a page.
type VisitResult struct {
	StatusCode int
	Location   string
	RetryAfter string
	Body       []byte
}

// Redirected reports whether the page answered with a redirect.
func (v *VisitResult) Redirected() bool {
	return v.StatusCode >= 300 && v.StatusCode < 400
}

// Session returns the session snapshot of this client. With wait > 0 the
// server holds the request until the session has resolved or wait elapses.
func (c *SDKClient) Session(ctx context.Context, wait time.Duration) (*SessionResponse, error) {
	path := "/v1/session"
	if wait > 0 {
		path += "?" + url.Values{"wait": {wait.String()}}.Encode()
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var out SessionResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Visit performs a GET on path without following redirects.
func (c *SDKClient) Visit(ctx context.Context, path string) (*VisitResult, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	return &VisitResult{
		StatusCode: resp.StatusCode,
		Location:   resp.Header.Get("Location"),
		RetryAfter: resp.Header.Get("Retry-After"),
		Body:       body,
	}, nil
}

// Landing mounts the landing page. Once the session settles the server
// answers with a 303 to the home page for the role, or to /login.
func (c *SDKClient) Landing(ctx context.Context) (*VisitResult, error) {
	return c.Visit(ctx, "/landing")
}

// View GETs a guarded page and decodes it into target. Guard redirects come
// back as *RedirectError and a loading session as ErrSessionLoading.
func (c *SDKClient) View(ctx context.Context, path string, target any) error {
	res, err := c.Visit(ctx, path)
	if err != nil {
		return err
	}

	switch {
	case res.Redirected():
		return &RedirectError{StatusCode: res.StatusCode, Location: res.Location}
	case res.StatusCode == http.StatusAccepted:
		return ErrSessionLoading
	case res.StatusCode != http.StatusOK:
		return parseErrorResponse(&http.Response{StatusCode: res.StatusCode}, res.Body)
	}

	if err := json.Unmarshal(res.Body, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
