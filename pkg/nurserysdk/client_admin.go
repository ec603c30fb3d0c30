package nurserysdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// AdminDashboard loads the superadmin dashboard.
func (c *SDKClient) AdminDashboard(ctx context.Context) (*DashboardResponse, error) {
	var out DashboardResponse
	if err := c.View(ctx, "/admin/dashboard", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OwnerDashboard loads the nursery owner dashboard.
func (c *SDKClient) OwnerDashboard(ctx context.Context) (*DashboardResponse, error) {
	var out DashboardResponse
	if err := c.View(ctx, "/owner/dashboard", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserHome loads the shopper home page.
func (c *SDKClient) UserHome(ctx context.Context) (*DashboardResponse, error) {
	var out DashboardResponse
	if err := c.View(ctx, "/user", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProfiles lists every profile. Superadmin only.
func (c *SDKClient) ListProfiles(ctx context.Context) ([]ProfileResponse, error) {
	var out ProfileListResponse
	if err := c.View(ctx, "/admin/profiles", &out); err != nil {
		return nil, err
	}
	return out.Profiles, nil
}

// AssignRole sets the role of profile id. Superadmin only.
func (c *SDKClient) AssignRole(ctx context.Context, id, role string) (*ProfileResponse, error) {
	body, err := json.Marshal(AssignRoleRequest{Role: role})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPut, "/admin/profiles/"+url.PathEscape(id)+"/role",
		bytes.NewReader(body), jsonHeaders)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		resp.Body.Close()
		return nil, &RedirectError{StatusCode: resp.StatusCode, Location: resp.Header.Get("Location")}
	case resp.StatusCode == http.StatusAccepted:
		resp.Body.Close()
		return nil, ErrSessionLoading
	}

	var out ProfileResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
