package identity

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/nursery/internal/nursery/domain"
	"github.com/aussiebroadwan/nursery/internal/nursery/identity/statestore"
	"github.com/aussiebroadwan/nursery/internal/nursery/telemetry"
)

const DefaultSessionTTL = 7 * 24 * time.Hour

type ClientOptions struct {
	ID       string
	Provider *Provider
	States   statestore.Store
	TTL      time.Duration
	Logger   *slog.Logger
	Now      func() time.Time
}

// Client is the identity of one client runtime. Listeners are called on a
// single goroutine, one at a time, in the order changes happened.
type Client struct {
	id       string
	provider *Provider
	states   statestore.Store
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu        sync.Mutex
	current   *domain.Identity
	listeners map[uint64]func(*domain.Identity)
	nextID    uint64
	queue     []delivery
	closed    bool

	wake chan struct{}
	done chan struct{}
}

type delivery struct {
	listener uint64
	identity *domain.Identity
}

func NewClient(opts ClientOptions) *Client {
	if opts.TTL <= 0 {
		opts.TTL = DefaultSessionTTL
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &Client{
		id:        opts.ID,
		provider:  opts.Provider,
		states:    opts.States,
		ttl:       opts.TTL,
		logger:    opts.Logger.With(slog.String("client_id", opts.ID)),
		now:       opts.Now,
		listeners: make(map[uint64]func(*domain.Identity)),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	go c.dispatch()
	return c
}

func (c *Client) ID() string { return c.id }

// Current returns a copy of the signed-in identity, or nil.
func (c *Client) Current() *domain.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clone(c.current)
}

// OnIdentityChange registers fn. fn is called straight away with the current
// identity and again after every change until the returned func is called.
// A nil identity means signed out.
func (c *Client) OnIdentityChange(fn func(*domain.Identity)) func() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return func() {}
	}
	c.nextID++
	id := c.nextID
	c.listeners[id] = fn
	c.enqueueLocked(delivery{listener: id, identity: clone(c.current)})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// Restore loads a previously persisted sign-in. A missing or expired state
// leaves the client signed out.
func (c *Client) Restore(ctx context.Context) error {
	st, err := c.states.Get(ctx, c.id)
	switch {
	case errors.Is(err, statestore.ErrNotFound):
		return nil
	case err != nil:
		telemetry.RecordStateStoreError("get")
		return newError(KindNetwork, err)
	}

	ident, err := c.provider.Lookup(ctx, st.IdentityID)
	if errors.Is(err, ErrUserNotFound) {
		c.logger.Warn("stored sign-in refers to unknown identity", slog.String("identity_id", st.IdentityID))
		_ = c.states.Delete(ctx, c.id)
		return nil
	}
	if err != nil {
		return err
	}
	c.set(&ident)
	return nil
}

// Validate signs the client out when its persisted state has expired or
// been removed elsewhere. State store failures keep the current identity.
func (c *Client) Validate(ctx context.Context) {
	if c.Current() == nil {
		return
	}

	st, err := c.states.Get(ctx, c.id)
	switch {
	case errors.Is(err, statestore.ErrNotFound):
		c.logger.Info("sign-in expired")
		c.set(nil)
	case err != nil:
		telemetry.RecordStateStoreError("get")
		c.logger.Warn("identity state check failed", slog.Any("error", err))
	case st.Expired(c.now()):
		c.set(nil)
	}
}

// SignIn verifies the credentials and signs the client in.
func (c *Client) SignIn(ctx context.Context, email, password string) (domain.Identity, error) {
	ident, err := c.provider.SignIn(ctx, email, password)
	if err != nil {
		return domain.Identity{}, err
	}
	if err := c.persist(ctx, ident); err != nil {
		return domain.Identity{}, err
	}
	c.set(&ident)
	return ident, nil
}

// SignUp creates the identity and signs the client in as it.
func (c *Client) SignUp(ctx context.Context, email, password string) (domain.Identity, error) {
	ident, err := c.provider.SignUp(ctx, email, password)
	if err != nil {
		return domain.Identity{}, err
	}
	if err := c.persist(ctx, ident); err != nil {
		return domain.Identity{}, err
	}
	c.set(&ident)
	return ident, nil
}

// SignOut forgets the signed-in identity. Signing out while signed out is a
// no-op and does not notify listeners.
func (c *Client) SignOut(ctx context.Context) error {
	if err := c.states.Delete(ctx, c.id); err != nil {
		telemetry.RecordStateStoreError("delete")
		return newError(KindNetwork, err)
	}
	c.set(nil)
	return nil
}

// Close stops delivery. Pending notifications are dropped.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.listeners = nil
	c.queue = nil
	c.mu.Unlock()

	close(c.done)
}

func (c *Client) persist(ctx context.Context, ident domain.Identity) error {
	now := c.now()
	err := c.states.Save(ctx, domain.IdentityState{
		ClientID:   c.id,
		IdentityID: ident.ID,
		Email:      ident.Email,
		SignedInAt: now,
		ExpiresAt:  now.Add(c.ttl),
	})
	if err != nil {
		telemetry.RecordStateStoreError("save")
		return newError(KindNetwork, err)
	}
	return nil
}

// set replaces the current identity and notifies listeners when it changed.
func (c *Client) set(ident *domain.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || sameIdentity(c.current, ident) {
		return
	}
	c.current = clone(ident)
	for id := range c.listeners {
		c.enqueueLocked(delivery{listener: id, identity: clone(ident)})
	}
}

func (c *Client) enqueueLocked(d delivery) {
	c.queue = append(c.queue, d)
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Client) dispatch() {
	for {
		select {
		case <-c.done:
			return
		case <-c.wake:
		}

		for {
			c.mu.Lock()
			if c.closed || len(c.queue) == 0 {
				c.mu.Unlock()
				break
			}
			d := c.queue[0]
			c.queue = c.queue[1:]
			fn := c.listeners[d.listener]
			c.mu.Unlock()

			// Unsubscribed after the change was queued.
			if fn == nil {
				continue
			}
			fn(d.identity)
		}
	}
}

func sameIdentity(a, b *domain.Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}

func clone(ident *domain.Identity) *domain.Identity {
	if ident == nil {
		return nil
	}
	cp := *ident
	return &cp
}
