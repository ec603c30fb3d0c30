package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/nursery/internal/nursery/clients"
	"github.com/aussiebroadwan/nursery/internal/nursery/domain"
	"github.com/aussiebroadwan/nursery/internal/nursery/guard"
	"github.com/aussiebroadwan/nursery/internal/nursery/identity/statestore"
	"github.com/aussiebroadwan/nursery/internal/nursery/service"
	"github.com/aussiebroadwan/nursery/internal/nursery/store"
	"github.com/aussiebroadwan/nursery/pkg/httpx"
	"github.com/aussiebroadwan/nursery/pkg/jwtx"
	"github.com/aussiebroadwan/nursery/pkg/nurserysdk"
	"github.com/aussiebroadwan/nursery/pkg/slogx"

	_ "github.com/aussiebroadwan/nursery/api/nursery" // Swagger docs
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	// DefaultLandingWait bounds how long GET /landing holds a request while
	// the session resolves.
	DefaultLandingWait = 10 * time.Second

	// maxSessionWait caps the ?wait= parameter of GET /v1/session.
	maxSessionWait = 30 * time.Second
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	signer       jwtx.Signer
	verifier     jwtx.Verifier
	issuer       string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store  store.Store
	states statestore.Store

	Clients          *clients.Registry
	ProfilesService  *service.ProfilesService
	BootstrapService *service.BootstrapService

	// LandingWait is how long /landing waits for a settled session.
	LandingWait time.Duration

	// CookieSecure marks the client cookie Secure. Enable behind TLS.
	CookieSecure bool

	// ClientTokenTTL is the lifetime of the client cookie and its token.
	ClientTokenTTL time.Duration
}

func NewRouter(
	keys *jwtx.KeySet,
	signer jwtx.Signer,
	verifier jwtx.Verifier,
	issuer, buildVersion string,
	st store.Store,
	states statestore.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:            http.NewServeMux(),
		keys:           keys,
		signer:         signer,
		verifier:       verifier,
		issuer:         issuer,
		buildVersion:   buildVersion,
		startTime:      time.Now(),
		store:          st,
		states:         states,
		logger:         logger,
		LandingWait:    DefaultLandingWait,
		ClientTokenTTL: jwtx.DefaultClientTokenTTL,
	}

	// Default middleware chain. The client token is read for every request
	// so rate limits can key on the client runtime.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.ClientToken(r.verifier, nurserysdk.ClientCookieName),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSession()
	r.registerPages()
	r.registerAdmin()
	r.registerSystem()
	r.registerBootstrap()

	r.Mux.Handle("GET /metrics", promhttp.Handler())
	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Nursery Marketplace Auth API
//	@version		0.1.0
//	@description	Role-based sign-in for the plant nursery marketplace. Every browser gets a client runtime identified by the nursery_client cookie; the runtime resolves the role of the signed-in identity and guards the role dashboards.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/nursery
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	ClientCookie
//	@in							cookie
//	@name						nursery_client
//	@description				Signed client runtime token, issued on the first request.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{}

	// POST /register - strict rate limit by IP (account creation)
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
			r.clientRuntime,
		),
	)

	// POST /login - strict, keyed by IP + email to slow down guessing
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "email"),
			r.clientRuntime,
		),
	)

	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByClient(httpx.ModerateLimit),
			r.clientRuntime,
		),
	)
}

func (r *Router) registerSession() {
	sh := &SessionHandler{MaxWait: maxSessionWait}
	r.Mux.Handle("GET /v1/session",
		httpx.Chain(sh,
			httpx.RateLimitByClient(httpx.LenientLimit),
			r.clientRuntime,
		),
	)

	lh := &LandingHandler{Wait: r.LandingWait}
	r.Mux.Handle("GET /landing",
		httpx.Chain(lh,
			httpx.RateLimitByClient(httpx.LenientLimit),
			r.clientRuntime,
		),
	)
}

func (r *Router) registerPages() {
	r.Mux.Handle("GET /login",
		httpx.Chain(http.HandlerFunc(LoginPageHandler),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /{$}",
		httpx.Chain(http.HandlerFunc(HomePageHandler),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	h := &DashboardHandler{ProfilesService: r.ProfilesService}

	r.Mux.Handle("GET /owner/dashboard", r.guarded(http.HandlerFunc(h.HandleOwner), domain.RoleAdmin))
	r.Mux.Handle("GET /user", r.guarded(http.HandlerFunc(h.HandleUser), domain.RoleUser))
}

func (r *Router) registerAdmin() {
	dh := &DashboardHandler{ProfilesService: r.ProfilesService}
	ph := &ProfilesHandler{ProfilesService: r.ProfilesService}

	r.Mux.Handle("GET /admin/dashboard", r.guarded(http.HandlerFunc(dh.HandleAdmin), domain.RoleSuperAdmin))
	r.Mux.Handle("GET /admin/profiles", r.guarded(http.HandlerFunc(ph.HandleList), domain.RoleSuperAdmin))
	r.Mux.Handle("PUT /admin/profiles/{id}/role", r.guarded(http.HandlerFunc(ph.HandleAssignRole), domain.RoleSuperAdmin))
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - very strict rate limit by IP (one-time setup endpoint)
	h := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys, r.states),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

// guarded wraps h so it only renders for a signed-in client whose role is
// one of roles.
func (r *Router) guarded(h http.Handler, roles ...domain.Role) http.Handler {
	return httpx.Chain(h,
		httpx.RateLimitByClient(httpx.ModerateLimit),
		r.clientRuntime,
		RequireRoles(guard.Allow(roles...)),
	)
}
