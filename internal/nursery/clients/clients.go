// Package clients keeps the live client runtimes: one identity client and one
// session resolver per browser.
package clients

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/nursery/internal/nursery/identity"
	"github.com/aussiebroadwan/nursery/internal/nursery/identity/statestore"
	"github.com/aussiebroadwan/nursery/internal/nursery/session"
	"github.com/aussiebroadwan/nursery/internal/nursery/telemetry"
)

var ErrNoID = errors.New("clients: empty client id")

// Runtime is everything the server holds for one client.
type Runtime struct {
	ID       string
	Identity *identity.Client
	Session  *session.Service

	mu       sync.Mutex
	lastSeen time.Time
}

func (rt *Runtime) touch(now time.Time) {
	rt.mu.Lock()
	rt.lastSeen = now
	rt.mu.Unlock()
}

func (rt *Runtime) LastSeen() time.Time {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.lastSeen
}

func (rt *Runtime) close() {
	rt.Session.Close()
	rt.Identity.Close()
}

type Options struct {
	Provider       *identity.Provider
	States         statestore.Store
	Profiles       session.ProfileStore
	SessionTTL     time.Duration
	ProfileTimeout time.Duration
	Logger         *slog.Logger
	Now            func() time.Time
}

type Registry struct {
	opts Options

	mu       sync.Mutex
	runtimes map[string]*Runtime
}

func NewRegistry(opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Registry{opts: opts, runtimes: make(map[string]*Runtime)}
}

// Open returns the runtime for id, building it on first use. An existing
// runtime re-checks that its sign-in has not expired.
func (r *Registry) Open(ctx context.Context, id string) (*Runtime, error) {
	if id == "" {
		return nil, ErrNoID
	}
	now := r.opts.Now()

	if rt := r.Get(id); rt != nil {
		rt.touch(now)
		rt.Identity.Validate(ctx)
		return rt, nil
	}

	rt := r.build(ctx, id)
	rt.touch(now)

	r.mu.Lock()
	if existing, ok := r.runtimes[id]; ok {
		r.mu.Unlock()
		rt.close()
		existing.touch(now)
		return existing, nil
	}
	r.runtimes[id] = rt
	n := len(r.runtimes)
	r.mu.Unlock()

	telemetry.SetLiveClients(n)
	return rt, nil
}

func (r *Registry) build(ctx context.Context, id string) *Runtime {
	log := r.opts.Logger.With(slog.String("client_id", id))

	ident := identity.NewClient(identity.ClientOptions{
		ID:       id,
		Provider: r.opts.Provider,
		States:   r.opts.States,
		TTL:      r.opts.SessionTTL,
		Logger:   r.opts.Logger,
		Now:      r.opts.Now,
	})
	if err := ident.Restore(ctx); err != nil {
		log.Warn("could not restore sign-in, starting signed out", slog.Any("error", err))
	}

	svc := session.New(session.Options{
		Identities: ident,
		Profiles:   r.opts.Profiles,
		Logger:     log,
		Timeout:    r.opts.ProfileTimeout,
		Now:        r.opts.Now,
	})
	svc.Start()

	log.Debug("client runtime opened")
	return &Runtime{ID: id, Identity: ident, Session: svc}
}

// Get returns the runtime for id without creating one.
func (r *Registry) Get(id string) *Runtime {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runtimes[id]
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.runtimes)
}

// EvictIdle closes runtimes not seen since before cutoff. Their sign-ins stay
// in the state store, so a returning client is restored on its next request.
func (r *Registry) EvictIdle(cutoff time.Time) int {
	r.mu.Lock()
	var idle []*Runtime
	for id, rt := range r.runtimes {
		if rt.LastSeen().Before(cutoff) {
			idle = append(idle, rt)
			delete(r.runtimes, id)
		}
	}
	n := len(r.runtimes)
	r.mu.Unlock()

	for _, rt := range idle {
		rt.close()
	}
	telemetry.SetLiveClients(n)
	return len(idle)
}

// Close shuts every runtime down.
func (r *Registry) Close() {
	r.mu.Lock()
	all := r.runtimes
	r.runtimes = make(map[string]*Runtime)
	r.mu.Unlock()

	for _, rt := range all {
		rt.close()
	}
	telemetry.SetLiveClients(0)
}
