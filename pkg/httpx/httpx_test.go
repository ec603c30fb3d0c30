package httpx_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/nursery/pkg/httpx"
	"github.com/aussiebroadwan/nursery/pkg/jwtx"
)

func TestChainOrder(t *testing.T) {
	var trace []string
	tag := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				trace = append(trace, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		trace = append(trace, "handler")
	}), tag("outer"), tag("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, trace)
}

func TestSafeRedirectPath(t *testing.T) {
	cases := map[string]string{
		"":                       "/",
		"/admin/dashboard":       "/admin/dashboard",
		"/user?tab=orders":       "/user?tab=orders",
		"https://evil.example/x": "/",
		"//evil.example/x":       "/",
		"/\\evil.example":        "/",
		"relative/path":          "/",
		"javascript:alert(1)":    "/",
	}
	for in, want := range cases {
		require.Equal(t, want, httpx.SafeRedirectPath(in), "input %q", in)
	}
}

func TestLoginURL(t *testing.T) {
	require.Equal(t, "/login?redirect_uri=%2Fowner%2Fdashboard", httpx.LoginURL("/login", "/owner/dashboard"))
	require.Equal(t, "/login?redirect_uri=%2F", httpx.LoginURL("/login", "https://evil.example"))
}

func TestSetRetryAfterRoundsUp(t *testing.T) {
	for d, want := range map[time.Duration]string{
		0:                       "1",
		300 * time.Millisecond:  "1",
		time.Second:             "1",
		1500 * time.Millisecond: "2",
	} {
		rec := httptest.NewRecorder()
		httpx.SetRetryAfter(rec, d)
		require.Equal(t, want, rec.Header().Get("Retry-After"), "duration %s", d)
	}
}

func TestSeeOther(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.SeeOther(rec, httptest.NewRequest(http.MethodGet, "/", nil), "/user")

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/user", rec.Header().Get("Location"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

type verifierFunc func(string) (jwtx.Claims, error)

func (f verifierFunc) Verify(tok string) (jwtx.Claims, error) { return f(tok) }

func TestClientToken(t *testing.T) {
	v := verifierFunc(func(tok string) (jwtx.Claims, error) {
		if tok == "good" {
			return jwtx.Claims{SID: "client-1"}, nil
		}
		return jwtx.Claims{}, errors.New("bad token")
	})

	var gotID string
	var gotOK bool
	h := httpx.ClientToken(v, "nursery_client")(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotID, gotOK = httpx.ClientIDFromContext(r.Context())
	}))

	serve := func(mutate func(*http.Request)) {
		gotID, gotOK = "", false
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		mutate(req)
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	serve(func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "nursery_client", Value: "good"}) })
	require.True(t, gotOK)
	require.Equal(t, "client-1", gotID)

	serve(func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") })
	require.True(t, gotOK)

	serve(func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "nursery_client", Value: "forged"}) })
	require.False(t, gotOK)

	serve(func(*http.Request) {})
	require.False(t, gotOK)
}

func TestTokenFromRequestPrefersBearer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer from-header")
	req.AddCookie(&http.Cookie{Name: "c", Value: "from-cookie"})
	require.Equal(t, "from-header", httpx.TokenFromRequest(req, "c"))

	req.Header.Del("Authorization")
	require.Equal(t, "from-cookie", httpx.TokenFromRequest(req, "c"))
}
