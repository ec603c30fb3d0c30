// Package landing sends a freshly signed-in client to the home page for its
// role, exactly once per mount.
package landing

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/nursery/internal/nursery/domain"
	"github.com/aussiebroadwan/nursery/internal/nursery/guard"
)

const (
	SuperAdminPath = "/admin/dashboard"
	OwnerPath      = "/owner/dashboard"
	UserPath       = "/user"
)

// PathFor returns the landing path for role. Unknown roles land as users.
func PathFor(role domain.Role) string {
	switch role {
	case domain.RoleSuperAdmin:
		return SuperAdminPath
	case domain.RoleAdmin:
		return OwnerPath
	default:
		return UserPath
	}
}

// Navigator replaces the current location with path.
type Navigator interface {
	Replace(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Replace(path string) { f(path) }

// Redirector is a one-shot latch: the first settled session decides where
// the client goes and everything after is ignored.
type Redirector struct {
	nav    Navigator
	logger *slog.Logger

	mu    sync.Mutex
	fired bool
}

func New(nav Navigator, logger *slog.Logger) *Redirector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Redirector{nav: nav, logger: logger}
}

// Observe feeds one snapshot to the redirector and reports whether it
// navigated.
func (r *Redirector) Observe(sess domain.Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fired || sess.Loading {
		return false
	}

	var target string
	switch {
	case sess.Identity == nil:
		target = guard.LoginPath
	case sess.Role == domain.RoleNone:
		r.logger.Warn("signed-in session has no role, not redirecting",
			slog.String("identity_id", sess.Identity.ID))
		return false
	default:
		target = PathFor(sess.Role)
	}

	r.fired = true
	r.nav.Replace(target)
	return true
}

func (r *Redirector) Fired() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fired
}

// Run observes snapshots from ch until the redirector fires, ch closes or
// ctx ends. It reports whether a navigation happened.
func (r *Redirector) Run(ctx context.Context, ch <-chan domain.Session) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case sess, ok := <-ch:
			if !ok {
				return false
			}
			if r.Observe(sess) {
				return true
			}
		}
	}
}
