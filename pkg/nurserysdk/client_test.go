package nurserysdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/nursery/pkg/httpx"
	"github.com/stretchr/testify/require"
)

// fakeService hands out a client cookie on the first request and echoes what
// it received so the tests can see what the SDK sent.
func fakeService(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("password") != "hunter2hunter2" {
			ErrInvalidCredentials.WriteError(w)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: ClientCookieName, Value: "tok-1", Path: "/"})
		httpx.WriteJSON(w, http.StatusOK, IdentityResponse{IdentityID: "id-1", Email: r.PostForm.Get("email")})
	})
	mux.HandleFunc("POST /v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "Fern Gully", r.PostForm.Get("nursery_name"))
		require.False(t, r.PostForm.Has("phone"))
		httpx.WriteJSON(w, http.StatusCreated, IdentityResponse{IdentityID: "id-2", Email: r.PostForm.Get("email")})
	})
	mux.HandleFunc("POST /v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /v1/session", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(ClientCookieName)
		require.NoError(t, err)
		httpx.WriteJSON(w, http.StatusOK, SessionResponse{
			ClientID: c.Value,
			Identity: &IdentityResponse{IdentityID: "id-1"},
			Role:     r.URL.Query().Get("wait"),
		})
	})
	mux.HandleFunc("GET /landing", func(w http.ResponseWriter, r *http.Request) {
		httpx.SeeOther(w, r, "/owner/dashboard")
	})
	mux.HandleFunc("GET /owner/dashboard", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, DashboardResponse{View: "owner_dashboard", Role: "admin"})
	})
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		httpx.SetRetryAfter(w, time.Second)
		httpx.WriteJSON(w, http.StatusAccepted, LoadingResponse{Status: "loading"})
	})
	mux.HandleFunc("PUT /admin/profiles/{id}/role", func(w http.ResponseWriter, r *http.Request) {
		var req AssignRoleRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		httpx.WriteJSON(w, http.StatusOK, ProfileResponse{ID: r.PathValue("id"), Role: req.Role})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientLoginKeepsCookie(t *testing.T) {
	t.Parallel()

	srv := fakeService(t)
	c := NewSDKClient(srv.URL + "/")
	ctx := context.Background()

	require.Empty(t, c.ClientToken())

	_, err := c.Login(ctx, "fern@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	ident, err := c.Login(ctx, "fern@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.Equal(t, "id-1", ident.IdentityID)
	require.Equal(t, "tok-1", c.ClientToken())

	sess, err := c.Session(ctx, 2*time.Second)
	require.NoError(t, err)
	require.Equal(t, "tok-1", sess.ClientID)
	require.Equal(t, "2s", sess.Role)

	require.NoError(t, c.Logout(ctx))
}

func TestClientRegisterSendsOptionalFields(t *testing.T) {
	t.Parallel()

	c := NewSDKClient(fakeService(t).URL)
	ident, err := c.Register(context.Background(), RegisterRequest{
		Email:       "owner@example.com",
		Password:    "hunter2hunter2",
		NurseryName: "Fern Gully",
	})
	require.NoError(t, err)
	require.Equal(t, "id-2", ident.IdentityID)
}

func TestClientDoesNotFollowRedirects(t *testing.T) {
	t.Parallel()

	c := NewSDKClient(fakeService(t).URL)
	res, err := c.Landing(context.Background())
	require.NoError(t, err)
	require.True(t, res.Redirected())
	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	require.Equal(t, "/owner/dashboard", res.Location)

	var redirect *RedirectError
	err = c.View(context.Background(), "/landing", &struct{}{})
	require.True(t, errors.As(err, &redirect))
	require.Equal(t, "/owner/dashboard", redirect.Location)
}

func TestClientViews(t *testing.T) {
	t.Parallel()

	c := NewSDKClient(fakeService(t).URL)
	ctx := context.Background()

	dash, err := c.OwnerDashboard(ctx)
	require.NoError(t, err)
	require.Equal(t, "owner_dashboard", dash.View)

	_, err = c.UserHome(ctx)
	require.ErrorIs(t, err, ErrSessionLoading)

	p, err := c.AssignRole(ctx, "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", "admin")
	require.NoError(t, err)
	require.Equal(t, "admin", p.Role)
	require.Equal(t, "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", p.ID)
}

func TestTransportFailureMatchesErrNetwork(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := NewSDKClient(base).GetLiveness(context.Background())
	require.ErrorIs(t, err, ErrNetwork)
}
