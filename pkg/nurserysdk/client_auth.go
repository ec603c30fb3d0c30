package nurserysdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// RegisterRequest is the sign-up form. The optional fields are stored as
// profile attributes.
type RegisterRequest struct {
	Email       string
	Password    string
	DisplayName string
	Phone       string
	NurseryName string
}

func (r RegisterRequest) form() url.Values {
	form := url.Values{}
	form.Set("email", r.Email)
	form.Set("password", r.Password)
	for k, v := range map[string]string{
		"display_name": r.DisplayName,
		"phone":        r.Phone,
		"nursery_name": r.NurseryName,
	} {
		if v != "" {
			form.Set(k, v)
		}
	}
	return form
}

// Register signs up and signs this client in.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*IdentityResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/register",
		strings.NewReader(req.form().Encode()), formHeaders)
	if err != nil {
		return nil, err
	}

	var out IdentityResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login signs this client in. The role is resolved afterwards; use Session
// with a wait to observe it.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*IdentityResponse, error) {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/login",
		strings.NewReader(form.Encode()), formHeaders)
	if err != nil {
		return nil, err
	}

	var out IdentityResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout signs this client out.
func (c *SDKClient) Logout(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/logout", nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
