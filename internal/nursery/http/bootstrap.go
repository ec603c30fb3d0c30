package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/nursery/internal/nursery/domain"
	"github.com/aussiebroadwan/nursery/internal/nursery/identity"
	"github.com/aussiebroadwan/nursery/internal/nursery/service"
	"github.com/aussiebroadwan/nursery/pkg/httpx"
	"github.com/aussiebroadwan/nursery/pkg/nurserysdk"
	"github.com/aussiebroadwan/nursery/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP creates the first superadmin.
//
//	@Summary		Bootstrap the marketplace
//	@Description	Creates the first superadmin identity and profile. Only available when a bootstrap token is configured and no account exists yet.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string								true	"Bootstrap token for authorization"
//	@Param			request				body		nurserysdk.BootstrapRequest			true	"Superadmin account"
//	@Success		201					{object}	nurserysdk.BootstrapResponse		"Superadmin created"
//	@Failure		400					{object}	nurserysdk.ValidationErrorResponse	"Invalid request body or validation failed"
//	@Failure		401					{object}	nurserysdk.ErrorResponse			"Missing or invalid bootstrap token, or already bootstrapped"
//	@Failure		404					{object}	nurserysdk.ErrorResponse			"Bootstrap not enabled (no token configured)"
//	@Failure		500					{object}	nurserysdk.ErrorResponse			"Failed to create superadmin"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())
	l.Info("Starting to bootstrap")

	if h.BootstrapService.Token == "" {
		httpx.WriteJSON(w, http.StatusNotFound, nurserysdk.ErrorResponse{
			Error:            nurserysdk.ErrorCodeNotFound,
			ErrorDescription: "Bootstrap endpoint is not enabled",
		})
		return
	}

	token := r.Header.Get("X-Bootstrap-Token")
	if token == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, nurserysdk.ErrorResponse{
			Error:            nurserysdk.ErrorCodeUnauthorized,
			ErrorDescription: "Bootstrap token is required in X-Bootstrap-Token header",
		})
		return
	}

	var req nurserysdk.BootstrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, nurserysdk.ErrorResponse{
			Error:            nurserysdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Request body must be valid JSON",
		})
		return
	}
	if errs := req.Validate(); errs != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, nurserysdk.ValidationErrorResponse{
			Code:    nurserysdk.ErrorCodeValidation,
			Message: "validation failed for some fields",
			Details: errs,
		})
		return
	}

	ident, err := h.BootstrapService.Bootstrap(r.Context(), token, domain.BootstrapData{
		Email:       strings.TrimSpace(req.Email),
		Password:    req.Password,
		DisplayName: strings.TrimSpace(req.DisplayName),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapAlready):
			httpx.WriteJSON(w, http.StatusUnauthorized, nurserysdk.ErrorResponse{
				Error:            nurserysdk.ErrorCodeUnauthorized,
				ErrorDescription: "System has already been bootstrapped",
			})
		case errors.Is(err, service.ErrBootstrapUnauthorized):
			httpx.WriteJSON(w, http.StatusUnauthorized, nurserysdk.ErrorResponse{
				Error:            nurserysdk.ErrorCodeUnauthorized,
				ErrorDescription: "Invalid bootstrap token",
			})
		case identity.KindOf(err) != "":
			writeIdentityError(w, r, err)
		case errors.Is(err, service.ErrBootstrapFailed):
			httpx.WriteJSON(w, http.StatusInternalServerError, nurserysdk.ErrorResponse{
				Error:            nurserysdk.ErrorCodeServerError,
				ErrorDescription: "Failed to create superadmin",
			})
		default:
			l.Error("bootstrap failed", "err", err)
			nurserysdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, nurserysdk.BootstrapResponse{
		IdentityID: ident.ID,
		Email:      ident.Email,
		Role:       domain.RoleSuperAdmin.String(),
	})
}
