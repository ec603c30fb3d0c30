package identity_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/nursery/internal/nursery/domain"
	"github.com/aussiebroadwan/nursery/internal/nursery/identity"
	"github.com/aussiebroadwan/nursery/internal/nursery/identity/statestore"
	"github.com/aussiebroadwan/nursery/internal/nursery/store/drivers/sqlite"
	"github.com/aussiebroadwan/nursery/pkg/cryptox"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "identity")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newProvider(t *testing.T) *identity.Provider {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return &identity.Provider{Credentials: s.Credentials()}
}

// recorder collects listener deliveries.
type recorder struct {
	mu  sync.Mutex
	got []*domain.Identity
	ch  chan struct{}
}

func newRecorder() *recorder { return &recorder{ch: make(chan struct{}, 64)} }

func (r *recorder) listen(id *domain.Identity) {
	r.mu.Lock()
	r.got = append(r.got, id)
	r.mu.Unlock()
	r.ch <- struct{}{}
}

func (r *recorder) wait(t *testing.T, n int) []*domain.Identity {
	t.Helper()
	for range n {
		select {
		case <-r.ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %d notifications", n)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.Identity(nil), r.got...)
}

func (r *recorder) quiet(t *testing.T) {
	t.Helper()
	select {
	case <-r.ch:
		t.Fatal("unexpected notification")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestErrorMatching(t *testing.T) {
	err := error(&identity.Error{Kind: identity.KindEmailInUse, Err: errors.New("dup")})
	require.ErrorIs(t, err, identity.ErrEmailInUse)
	require.NotErrorIs(t, err, identity.ErrWeakPassword)
	require.Equal(t, identity.KindEmailInUse, identity.KindOf(err))
	require.Equal(t, identity.Kind(""), identity.KindOf(errors.New("other")))
	require.Contains(t, err.Error(), "email-already-in-use")
}

func TestProviderSignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	p := newProvider(t)

	created, err := p.SignUp(ctx, "  Daisy@Example.com ", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "daisy@example.com", created.Email)

	got, err := p.SignIn(ctx, "DAISY@example.com", "correct horse")
	require.NoError(t, err)
	require.Equal(t, created, got)

	looked, err := p.Lookup(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, looked)
}

func TestProviderErrors(t *testing.T) {
	ctx := context.Background()
	p := newProvider(t)
	_, err := p.SignUp(ctx, "moss@example.com", "long enough")
	require.NoError(t, err)

	cases := []struct {
		name string
		call func() error
		want error
	}{
		{"wrong password", func() error { _, err := p.SignIn(ctx, "moss@example.com", "nope nope"); return err }, identity.ErrInvalidCredentials},
		{"unknown user", func() error { _, err := p.SignIn(ctx, "fern@example.com", "whatever1"); return err }, identity.ErrUserNotFound},
		{"email taken", func() error { _, err := p.SignUp(ctx, "MOSS@example.com", "another pw"); return err }, identity.ErrEmailInUse},
		{"short password", func() error { _, err := p.SignUp(ctx, "a@example.com", "short"); return err }, identity.ErrWeakPassword},
		{"bad email", func() error { _, err := p.SignUp(ctx, "not an email", "long enough"); return err }, identity.ErrInvalidEmail},
		{"unknown id", func() error { _, err := p.Lookup(ctx, "nope"); return err }, identity.ErrUserNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.call(), tc.want)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	require.ErrorIs(t, identity.ValidatePassword("1234567"), identity.ErrWeakPassword)
	require.NoError(t, identity.ValidatePassword("12345678"))
	require.NoError(t, identity.ValidatePassword(string(make([]rune, identity.MaxPasswordLength))))
	require.ErrorIs(t, identity.ValidatePassword(string(make([]rune, identity.MaxPasswordLength+1))), identity.ErrWeakPassword)
}

func newClient(t *testing.T, p *identity.Provider, states statestore.Store, id string) *identity.Client {
	t.Helper()
	c := identity.NewClient(identity.ClientOptions{ID: id, Provider: p, States: states})
	t.Cleanup(c.Close)
	return c
}

func TestListenerGetsCurrentStateImmediately(t *testing.T) {
	c := newClient(t, newProvider(t), statestore.NewMemory(), "c1")

	rec := newRecorder()
	c.OnIdentityChange(rec.listen)
	got := rec.wait(t, 1)
	require.Nil(t, got[0])
}

func TestSignInOutNotifiesInOrder(t *testing.T) {
	ctx := context.Background()
	p := newProvider(t)
	states := statestore.NewMemory()
	c := newClient(t, p, states, "c1")

	rec := newRecorder()
	c.OnIdentityChange(rec.listen)
	rec.wait(t, 1)

	ident, err := c.SignUp(ctx, "oak@example.com", "acorns!!")
	require.NoError(t, err)
	require.Equal(t, ident.ID, c.Current().ID)

	st, err := states.Get(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, ident.ID, st.IdentityID)

	require.NoError(t, c.SignOut(ctx))
	require.Nil(t, c.Current())

	got := rec.wait(t, 2)
	require.Len(t, got, 3)
	require.Equal(t, ident.ID, got[1].ID)
	require.Nil(t, got[2])

	// Already signed out.
	require.NoError(t, c.SignOut(ctx))
	rec.quiet(t)
}

func TestFailedSignInDoesNotNotify(t *testing.T) {
	ctx := context.Background()
	c := newClient(t, newProvider(t), statestore.NewMemory(), "c1")

	rec := newRecorder()
	c.OnIdentityChange(rec.listen)
	rec.wait(t, 1)

	_, err := c.SignIn(ctx, "ghost@example.com", "password1")
	require.ErrorIs(t, err, identity.ErrUserNotFound)
	rec.quiet(t)
	require.Nil(t, c.Current())
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	ctx := context.Background()
	c := newClient(t, newProvider(t), statestore.NewMemory(), "c1")

	rec := newRecorder()
	unsubscribe := c.OnIdentityChange(rec.listen)
	rec.wait(t, 1)
	unsubscribe()
	unsubscribe()

	_, err := c.SignUp(ctx, "elm@example.com", "leaves123")
	require.NoError(t, err)
	rec.quiet(t)
}

func TestRestoreAndValidate(t *testing.T) {
	ctx := context.Background()
	p := newProvider(t)
	states := statestore.NewMemory()

	first := newClient(t, p, states, "c1")
	ident, err := first.SignUp(ctx, "ash@example.com", "embers123")
	require.NoError(t, err)

	// A new runtime for the same client picks the sign-in back up.
	second := newClient(t, p, states, "c1")
	require.NoError(t, second.Restore(ctx))
	require.Equal(t, ident.ID, second.Current().ID)

	rec := newRecorder()
	second.OnIdentityChange(rec.listen)
	rec.wait(t, 1)

	// Expiry elsewhere signs this runtime out.
	require.NoError(t, states.Delete(ctx, "c1"))
	second.Validate(ctx)
	got := rec.wait(t, 1)
	require.Nil(t, got[1])
	require.Nil(t, second.Current())
}

func TestRestoreDropsUnknownIdentity(t *testing.T) {
	ctx := context.Background()
	states := statestore.NewMemory()
	require.NoError(t, states.Save(ctx, domain.IdentityState{
		ClientID:   "c1",
		IdentityID: "deleted-identity",
		ExpiresAt:  time.Now().Add(time.Hour),
	}))

	c := newClient(t, newProvider(t), states, "c1")
	require.NoError(t, c.Restore(ctx))
	require.Nil(t, c.Current())

	_, err := states.Get(ctx, "c1")
	require.ErrorIs(t, err, statestore.ErrNotFound)
}

type failingStates struct{ statestore.Store }

func (failingStates) Save(context.Context, domain.IdentityState) error { return errors.New("redis down") }

func TestStateStoreFailureIsNetworkError(t *testing.T) {
	ctx := context.Background()
	p := newProvider(t)
	c := newClient(t, p, failingStates{statestore.NewMemory()}, "c1")

	_, err := c.SignUp(ctx, "yew@example.com", "needles1")
	require.ErrorIs(t, err, identity.ErrNetwork)
	require.Nil(t, c.Current())
}
