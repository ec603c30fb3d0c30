package nurserysdk

import "time"

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the error body written by every endpoint.
// Client code should use APIError from errors.go instead.
type ErrorResponse struct {
	// Error is the machine readable code (e.g. "invalid_credentials")
	Error string `json:"error"`

	// ErrorDescription is a human readable description of the error
	ErrorDescription string `json:"error_description"`
}

// ValidationErrorResponse is returned when request validation fails.
type ValidationErrorResponse struct {
	// Code is the error code, always "validation_error"
	Code string `json:"code"`

	// Message is a human readable error message
	Message string `json:"message"`

	// Details maps field names to what is wrong with them
	Details map[string]string `json:"details,omitempty"`
}

// ============================================================================
// Identity and Session Types
// ============================================================================

// IdentityResponse describes a signed-in identity.
type IdentityResponse struct {
	IdentityID string `json:"identity_id"`
	Email      string `json:"email"`
}

// SessionResponse is the resolved authentication state of one client runtime.
// Role is empty while signed out. While Loading is true the role must not be
// acted upon.
type SessionResponse struct {
	ClientID     string            `json:"client_id"`
	Identity     *IdentityResponse `json:"identity,omitempty"`
	Role         string            `json:"role,omitempty"`
	Loading      bool              `json:"loading"`
	IsAdmin      bool              `json:"is_admin"`
	IsSuperAdmin bool              `json:"is_superadmin"`
}

// LoadingResponse is written instead of protected content while the session
// of the client is still being resolved. Retry after the Retry-After header.
type LoadingResponse struct {
	Status string `json:"status"`
}

// ============================================================================
// Profile Types
// ============================================================================

// ProfileResponse is a stored profile with its effective role.
type ProfileResponse struct {
	ID         string            `json:"id"`
	Email      string            `json:"email,omitempty"`
	Role       string            `json:"role"`
	Attributes map[string]string `json:"attributes,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// ProfileListResponse wraps the profile list.
type ProfileListResponse struct {
	Profiles []ProfileResponse `json:"profiles"`
}

// AssignRoleRequest changes the role of a profile.
type AssignRoleRequest struct {
	// Role is one of "user", "admin" or "superadmin"
	Role string `json:"role"`
}

// DashboardResponse is the body of the role dashboards.
type DashboardResponse struct {
	// View names the dashboard that was rendered
	View string `json:"view"`

	// Identity is the signed-in identity viewing the dashboard
	Identity IdentityResponse `json:"identity"`

	// Role is the effective role of the viewer
	Role string `json:"role"`

	// Counts holds profile counts by role (superadmin dashboard only)
	Counts map[string]int `json:"counts,omitempty"`

	// Profile is the viewer's own profile (shopper home only)
	Profile *ProfileResponse `json:"profile,omitempty"`
}

// PageResponse is the body of the public placeholder pages.
type PageResponse struct {
	View        string `json:"view"`
	RedirectURI string `json:"redirect_uri,omitempty"`
}

// ============================================================================
// Bootstrap Types
// ============================================================================

// BootstrapRequest seeds the first superadmin on an empty install.
type BootstrapRequest struct {
	// Email of the superadmin account
	Email string `json:"email"`

	// Password of the superadmin account (8-128 chars)
	Password string `json:"password"`

	// DisplayName is stored as a profile attribute (max 64 chars)
	DisplayName string `json:"display_name"`
}

// BootstrapResponse carries the identity created by bootstrap.
type BootstrapResponse struct {
	IdentityID string `json:"identity_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks is the status of each dependency checked by /readyz.
type HealthChecks struct {
	Database   string `json:"database"`
	Signer     string `json:"signer"`
	StateStore string `json:"state_store"`
}
