// Package session derives the role-bearing Session of one client runtime from
// its identity and publishes every change to subscribers.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/nursery/internal/nursery/domain"
	"github.com/aussiebroadwan/nursery/internal/nursery/store"
	"github.com/aussiebroadwan/nursery/internal/nursery/telemetry"
)

const DefaultProfileTimeout = 5 * time.Second

var ErrClosed = errors.New("session: service closed")

// IdentitySource is the identity provider of a single client runtime.
type IdentitySource interface {
	// OnIdentityChange calls fn with the current identity and after every
	// change, in order, until the returned func is called.
	OnIdentityChange(fn func(*domain.Identity)) (unsubscribe func())

	SignIn(ctx context.Context, email, password string) (domain.Identity, error)
	SignUp(ctx context.Context, email, password string) (domain.Identity, error)
	SignOut(ctx context.Context) error
}

// ProfileStore reads and merges profiles. GetProfile returns
// store.ErrNotFound when the identity has no profile yet.
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (domain.Profile, error)
	UpsertProfile(ctx context.Context, id string, patch domain.ProfilePatch) error
}

type Options struct {
	Identities IdentitySource
	Profiles   ProfileStore
	Logger     *slog.Logger

	// Timeout bounds the profile fetch and lazy create of one resolution.
	Timeout time.Duration

	// Metrics is told how each resolution ended. Defaults to the Prometheus
	// recorder.
	Metrics func(outcome string, d time.Duration)

	Now func() time.Time
}

// Service is the role resolver for one client runtime. The zero Session it
// starts with is Loading until the identity source reports in.
type Service struct {
	identities IdentitySource
	profiles   ProfileStore
	logger     *slog.Logger
	timeout    time.Duration
	metrics    func(string, time.Duration)
	now        func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	current     domain.Session
	seq         uint64
	heard       bool
	observed    string
	changed     chan struct{}
	subs        map[uint64]chan domain.Session
	nextSub     uint64
	unsubscribe func()
	started     bool
	closed      bool
}

func New(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultProfileTimeout
	}
	if opts.Metrics == nil {
		opts.Metrics = telemetry.RecordResolution
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		identities: opts.Identities,
		profiles:   opts.Profiles,
		logger:     opts.Logger,
		timeout:    opts.Timeout,
		metrics:    opts.Metrics,
		now:        opts.Now,
		ctx:        ctx,
		cancel:     cancel,
		current:    domain.Session{Loading: true},
		changed:    make(chan struct{}),
		subs:       make(map[uint64]chan domain.Session),
	}
}

// Start registers the single identity listener. Calling it twice is a no-op.
func (s *Service) Start() {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	unsubscribe := s.identities.OnIdentityChange(s.onIdentityChanged)

	s.mu.Lock()
	s.unsubscribe = unsubscribe
	closed := s.closed
	s.mu.Unlock()
	if closed {
		unsubscribe()
	}
}

// Close detaches from the identity source, abandons in-flight resolutions and
// closes every subscriber channel.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsubscribe := s.unsubscribe
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	close(s.changed)
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	s.cancel()
	s.wg.Wait()
}

func (s *Service) onIdentityChanged(ident *domain.Identity) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.seq++
	seq := s.seq
	s.heard = true
	s.observed = ""
	if ident != nil {
		s.observed = ident.ID
	}

	if ident == nil {
		s.publishLocked(domain.Session{})
		s.mu.Unlock()
		s.metrics(telemetry.OutcomeSignedOut, 0)
		s.logger.Debug("session signed out", slog.Uint64("seq", seq))
		return
	}

	s.publishLocked(domain.Session{Loading: true})
	s.wg.Add(1)
	s.mu.Unlock()

	go s.resolve(seq, *ident, s.now())
}

// resolve derives the role for ident. The deferred commit always runs, so the
// loading flag is released even when the store panics.
func (s *Service) resolve(seq uint64, ident domain.Identity, started time.Time) {
	defer s.wg.Done()

	role := domain.RoleNone
	outcome := telemetry.OutcomeFallback
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("role resolution panicked",
				slog.String("identity_id", ident.ID), slog.Any("panic", r))
			role, outcome = domain.RoleUser, telemetry.OutcomeFallback
		}
		s.commit(seq, ident, role, outcome, started)
	}()

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	role, outcome = s.deriveRole(ctx, ident)
}

func (s *Service) deriveRole(ctx context.Context, ident domain.Identity) (domain.Role, string) {
	log := s.logger.With(slog.String("identity_id", ident.ID))

	profile, err := s.profiles.GetProfile(ctx, ident.ID)
	switch {
	case err == nil:
		return domain.ParseRole(profile.Role), telemetry.OutcomeExisting

	case errors.Is(err, store.ErrNotFound):
		err := s.profiles.UpsertProfile(ctx, ident.ID, domain.ProfilePatch{
			Email:       ident.Email,
			InitialRole: domain.RoleUser,
			CreatedAt:   s.now(),
		})
		if err != nil {
			log.Warn("profile create failed, defaulting to user", slog.Any("error", err))
			return domain.RoleUser, telemetry.OutcomeFallback
		}
		log.Info("profile created", slog.String("role", domain.RoleUser.String()))
		return domain.RoleUser, telemetry.OutcomeCreated

	default:
		log.Warn("profile fetch failed, defaulting to user", slog.Any("error", err))
		return domain.RoleUser, telemetry.OutcomeFallback
	}
}

func (s *Service) commit(seq uint64, ident domain.Identity, role domain.Role, outcome string, started time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || seq != s.seq {
		s.metrics(telemetry.OutcomeStale, 0)
		s.logger.Debug("discarding stale resolution",
			slog.String("identity_id", ident.ID), slog.Uint64("seq", seq), slog.Uint64("latest", s.seq))
		return
	}

	if role == domain.RoleNone {
		s.logger.Error("resolved identity without a role, using user",
			slog.String("identity_id", ident.ID))
		role = domain.RoleUser
	}

	s.publishLocked(domain.Session{Identity: &ident, Role: role})
	s.metrics(outcome, s.now().Sub(started))
	s.logger.Debug("session resolved",
		slog.String("identity_id", ident.ID), slog.String("role", role.String()), slog.String("outcome", outcome))
}

// publishLocked replaces the snapshot and fans it out. Subscribers that have
// fallen behind lose their oldest pending snapshot, never the newest.
func (s *Service) publishLocked(sess domain.Session) {
	s.current = sess
	for _, ch := range s.subs {
		offer(ch, sess)
	}
	close(s.changed)
	s.changed = make(chan struct{})
}

func offer(ch chan domain.Session, sess domain.Session) {
	for {
		select {
		case ch <- sess:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Current returns the latest snapshot.
func (s *Service) Current() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Service) IsAdmin() bool      { return s.Current().IsAdmin() }
func (s *Service) IsSuperAdmin() bool { return s.Current().IsSuperAdmin() }

// Subscribe returns a channel that first carries the current snapshot and then
// every later one. The channel is closed by cancel or by Close.
func (s *Service) Subscribe(buffer int) (<-chan domain.Session, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan domain.Session, buffer)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		close(ch)
		return ch, func() {}
	}

	s.nextSub++
	id := s.nextSub
	s.subs[id] = ch
	ch <- s.current

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				close(c)
				delete(s.subs, id)
			}
		})
	}
}

// WaitResolved blocks until the session is not loading.
func (s *Service) WaitResolved(ctx context.Context) (domain.Session, error) {
	for {
		s.mu.Lock()
		cur, changed, closed := s.current, s.changed, s.closed
		s.mu.Unlock()

		if !cur.Loading {
			return cur, nil
		}
		if closed {
			return cur, ErrClosed
		}

		select {
		case <-ctx.Done():
			return cur, ctx.Err()
		case <-changed:
		}
	}
}

// AwaitIdentity blocks until the latest identity notification is for
// identityID ("" for signed out). Callers that just signed in or out use it
// so the next snapshot they read reflects the change.
func (s *Service) AwaitIdentity(ctx context.Context, identityID string) error {
	for {
		s.mu.Lock()
		done := s.heard && s.observed == identityID
		changed, closed := s.changed, s.closed
		s.mu.Unlock()

		if done {
			return nil
		}
		if closed {
			return ErrClosed
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
}

// Login signs the client in. The session follows through the identity
// listener; errors come back from the identity source untouched.
func (s *Service) Login(ctx context.Context, email, password string) (domain.Identity, error) {
	return s.identities.SignIn(ctx, email, password)
}

// Register signs up and records extra as profile attributes. The identity is
// returned even when the profile write fails, since resolution creates a
// missing profile anyway.
func (s *Service) Register(ctx context.Context, email, password string, extra map[string]string) (domain.Identity, error) {
	ident, err := s.identities.SignUp(ctx, email, password)
	if err != nil {
		return domain.Identity{}, err
	}

	err = s.profiles.UpsertProfile(ctx, ident.ID, domain.ProfilePatch{
		Email:       ident.Email,
		InitialRole: domain.RoleUser,
		Attributes:  extra,
		CreatedAt:   s.now(),
	})
	if err != nil {
		s.logger.Error("profile write after sign-up failed",
			slog.String("identity_id", ident.ID), slog.Any("error", err))
	}
	return ident, nil
}

// Logout signs the client out.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.identities.SignOut(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}
