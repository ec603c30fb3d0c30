// Package guard decides whether a protected location may be shown for a
// session.
package guard

import (
	"github.com/aussiebroadwan/nursery/internal/nursery/domain"
	"github.com/aussiebroadwan/nursery/pkg/httpx"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

type Kind int

const (
	Render Kind = iota
	Redirect
)

type View int

const (
	ViewNone View = iota
	LoadingPlaceholder
	ProtectedContent
)

// Roles is a set of roles allowed through. An empty set admits any signed-in
// identity whose role has been resolved.
type Roles map[domain.Role]struct{}

func Allow(roles ...domain.Role) Roles {
	set := make(Roles, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

func (r Roles) permits(role domain.Role) bool {
	if len(r) == 0 {
		return role != domain.RoleNone
	}
	_, ok := r[role]
	return ok
}

// Decision is what to do with a request for a protected location.
type Decision struct {
	Kind           Kind
	View           View
	To             string
	PreserveOrigin bool
	Origin         string
}

// Target is the location to navigate to, carrying the origin as redirect_uri
// when it is preserved.
func (d Decision) Target() string {
	if d.PreserveOrigin {
		return httpx.LoginURL(d.To, d.Origin)
	}
	return d.To
}

// Label names the decision for logs and metrics.
func (d Decision) Label() string {
	switch {
	case d.Kind == Render && d.View == LoadingPlaceholder:
		return "loading"
	case d.Kind == Render:
		return "render"
	case d.PreserveOrigin:
		return "redirect_login"
	default:
		return "redirect_home"
	}
}

// Decide never redirects while the session is loading, and checks sign-in
// before role.
func Decide(sess domain.Session, required Roles, location string) Decision {
	switch {
	case sess.Loading:
		return Decision{Kind: Render, View: LoadingPlaceholder}
	case sess.Identity == nil:
		return Decision{Kind: Redirect, To: LoginPath, PreserveOrigin: true, Origin: location}
	case !required.permits(sess.Role):
		return Decision{Kind: Redirect, To: HomePath}
	default:
		return Decision{Kind: Render, View: ProtectedContent}
	}
}
