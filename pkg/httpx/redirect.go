package httpx

import (
	"net/url"
	"strings"
)

// SafeRedirectPath keeps post-login redirects inside the app. Anything that
// is not a local absolute path collapses to "/".
func SafeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(candidate, "//") || strings.HasPrefix(candidate, "/\\") {
		return "/"
	}
	return candidate
}

// LoginURL builds the login location that carries origin as redirect_uri.
func LoginURL(loginPath, origin string) string {
	return loginPath + "?redirect_uri=" + url.QueryEscape(SafeRedirectPath(origin))
}
