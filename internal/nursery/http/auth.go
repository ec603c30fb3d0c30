package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/nursery/internal/nursery/domain"
	"github.com/aussiebroadwan/nursery/internal/nursery/identity"
	"github.com/aussiebroadwan/nursery/internal/nursery/session"
	"github.com/aussiebroadwan/nursery/pkg/httpx"
	"github.com/aussiebroadwan/nursery/pkg/nurserysdk"
	"github.com/aussiebroadwan/nursery/pkg/slogx"
)

// identityHandoff bounds how long sign-in and sign-out wait for the session
// to pick the change up.
const identityHandoff = 2 * time.Second

// profileFields are the optional sign-up fields kept as profile attributes.
var profileFields = []string{"display_name", "phone", "nursery_name"}

type AuthHandler struct{}

// HandleRegister signs up a new shopper and signs the client in.
//
//	@Summary		Register
//	@Description	Creates an identity from email and password and signs the calling client in. Optional fields are stored on the profile. The new profile always starts with the user role.
//	@Tags			Auth
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			email			formData	string	true	"Email address"
//	@Param			password		formData	string	true	"Password (8-128 characters)"
//	@Param			display_name	formData	string	false	"Display name"
//	@Param			phone			formData	string	false	"Phone number"
//	@Param			nursery_name	formData	string	false	"Nursery name"
//	@Success		201				{object}	nurserysdk.IdentityResponse
//	@Failure		400				{object}	nurserysdk.ErrorResponse	"Weak password or invalid email"
//	@Failure		409				{object}	nurserysdk.ErrorResponse	"Email already in use"
//	@Failure		503				{object}	nurserysdk.ErrorResponse	"Identity backend unavailable"
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	rt, ok := RuntimeFromContext(r.Context())
	if !ok {
		nurserysdk.ErrServerError.WriteError(w)
		return
	}

	email, password, ok := readCredentials(w, r)
	if !ok {
		return
	}

	extra := make(map[string]string)
	for _, f := range profileFields {
		if v := strings.TrimSpace(r.PostForm.Get(f)); v != "" {
			extra[f] = v
		}
	}

	ident, err := rt.Session.Register(r.Context(), email, password, extra)
	if err != nil {
		writeIdentityError(w, r, err)
		return
	}
	awaitIdentity(r, rt.Session, ident.ID)

	httpx.WriteJSON(w, http.StatusCreated, identityResponse(ident))
}

// HandleLogin signs the client in.
//
//	@Summary		Log in
//	@Description	Verifies email and password and signs the calling client in. The role is resolved asynchronously; poll GET /v1/session?wait= or follow GET /landing.
//	@Tags			Auth
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			email		formData	string	true	"Email address"
//	@Param			password	formData	string	true	"Password"
//	@Success		200			{object}	nurserysdk.IdentityResponse
//	@Failure		400			{object}	nurserysdk.ValidationErrorResponse	"Missing fields"
//	@Failure		401			{object}	nurserysdk.ErrorResponse			"Invalid credentials or unknown user"
//	@Failure		429			{object}	nurserysdk.ErrorResponse			"Rate limit exceeded"
//	@Failure		503			{object}	nurserysdk.ErrorResponse			"Identity backend unavailable"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	rt, ok := RuntimeFromContext(r.Context())
	if !ok {
		nurserysdk.ErrServerError.WriteError(w)
		return
	}

	email, password, ok := readCredentials(w, r)
	if !ok {
		return
	}

	ident, err := rt.Session.Login(r.Context(), email, password)
	if err != nil {
		writeIdentityError(w, r, err)
		return
	}
	awaitIdentity(r, rt.Session, ident.ID)

	httpx.WriteJSON(w, http.StatusOK, identityResponse(ident))
}

// HandleLogout signs the client out.
//
//	@Summary	Log out
//	@Tags		Auth
//	@Success	204
//	@Failure	503	{object}	nurserysdk.ErrorResponse	"Identity backend unavailable"
//	@Router		/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	rt, ok := RuntimeFromContext(r.Context())
	if !ok {
		nurserysdk.ErrServerError.WriteError(w)
		return
	}

	if err := rt.Session.Logout(r.Context()); err != nil {
		writeIdentityError(w, r, err)
		return
	}
	awaitIdentity(r, rt.Session, "")

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

// awaitIdentity holds the response until the session has seen the sign-in
// change, so the client's next request never reads the previous identity.
func awaitIdentity(r *http.Request, sess *session.Service, identityID string) {
	ctx, cancel := context.WithTimeout(r.Context(), identityHandoff)
	defer cancel()
	if err := sess.AwaitIdentity(ctx, identityID); err != nil {
		slogx.FromContext(r.Context()).Warn("session did not observe identity change", "err", err)
	}
}

func readCredentials(w http.ResponseWriter, r *http.Request) (email, password string, ok bool) {
	if err := r.ParseForm(); err != nil {
		nurserysdk.ErrInvalidFormBody.WriteError(w)
		return "", "", false
	}

	email = strings.TrimSpace(r.PostForm.Get("email"))
	password = r.PostForm.Get("password")

	details := make(map[string]string)
	if email == "" {
		details["email"] = "required"
	}
	if password == "" {
		details["password"] = "required"
	}
	if len(details) > 0 {
		httpx.WriteJSON(w, http.StatusBadRequest, nurserysdk.ValidationErrorResponse{
			Code:    nurserysdk.ErrorCodeValidation,
			Message: "validation failed for some fields",
			Details: details,
		})
		return "", "", false
	}
	return email, password, true
}

// writeIdentityError maps identity failures onto API errors.
func writeIdentityError(w http.ResponseWriter, r *http.Request, err error) {
	l := slogx.FromContext(r.Context())

	switch identity.KindOf(err) {
	case identity.KindInvalidCredentials:
		nurserysdk.ErrInvalidCredentials.WriteError(w)
	case identity.KindUserNotFound:
		nurserysdk.ErrUserNotFound.WriteError(w)
	case identity.KindEmailInUse:
		nurserysdk.ErrEmailInUse.WriteError(w)
	case identity.KindWeakPassword:
		nurserysdk.ErrWeakPassword.WriteError(w)
	case identity.KindInvalidEmail:
		nurserysdk.ErrInvalidEmail.WriteError(w)
	case identity.KindNetwork:
		l.Warn("identity backend failure", "err", err)
		nurserysdk.ErrNetwork.WriteError(w)
	default:
		l.Error("unexpected identity error", "err", err)
		nurserysdk.ErrServerError.WriteError(w)
	}
}

func identityResponse(ident domain.Identity) nurserysdk.IdentityResponse {
	return nurserysdk.IdentityResponse{IdentityID: ident.ID, Email: ident.Email}
}
