package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/nursery/internal/nursery/domain"
	"github.com/aussiebroadwan/nursery/internal/nursery/service"
	"github.com/aussiebroadwan/nursery/internal/nursery/store"
	"github.com/aussiebroadwan/nursery/pkg/httpx"
	"github.com/aussiebroadwan/nursery/pkg/nurserysdk"
	"github.com/aussiebroadwan/nursery/pkg/slogx"
)

// LoginPageHandler is the sign-in page placeholder. It echoes the sanitised
// return location so the form can send the client back after signing in.
//
//	@Summary	Login page
//	@Tags		Pages
//	@Produce	json
//	@Param		redirect_uri	query		string	false	"Location to return to after sign-in"
//	@Success	200				{object}	nurserysdk.PageResponse
//	@Router		/login [get].
func LoginPageHandler(w http.ResponseWriter, r *http.Request) {
	resp := nurserysdk.PageResponse{View: "login"}
	if raw := r.URL.Query().Get("redirect_uri"); raw != "" {
		resp.RedirectURI = httpx.SafeRedirectPath(raw)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HomePageHandler is the public storefront placeholder.
//
//	@Summary	Storefront
//	@Tags		Pages
//	@Produce	json
//	@Success	200	{object}	nurserysdk.PageResponse
//	@Router		/ [get].
func HomePageHandler(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, nurserysdk.PageResponse{View: "storefront"})
}

type DashboardHandler struct {
	ProfilesService *service.ProfilesService
}

// HandleAdmin renders the superadmin dashboard.
//
//	@Summary		Superadmin dashboard
//	@Description	Profile counts by role.
//	@Tags			Dashboards
//	@Produce		json
//	@Security		ClientCookie
//	@Success		200	{object}	nurserysdk.DashboardResponse
//	@Success		202	{object}	nurserysdk.LoadingResponse	"Session still loading"
//	@Success		303	"Redirect to /login or /"
//	@Router			/admin/dashboard [get].
func (h *DashboardHandler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		nurserysdk.ErrServerError.WriteError(w)
		return
	}

	counts, err := h.ProfilesService.Counts(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to count profiles", "err", err)
		nurserysdk.ErrServerError.WriteError(w)
		return
	}

	resp := dashboardResponse("admin_dashboard", sess)
	resp.Counts = make(map[string]int, len(counts))
	for role, n := range counts {
		resp.Counts[role.String()] = n
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleOwner renders the nursery owner dashboard.
//
//	@Summary	Nursery owner dashboard
//	@Tags		Dashboards
//	@Produce	json
//	@Security	ClientCookie
//	@Success	200	{object}	nurserysdk.DashboardResponse
//	@Success	202	{object}	nurserysdk.LoadingResponse	"Session still loading"
//	@Success	303	"Redirect to /login or /"
//	@Router		/owner/dashboard [get].
func (h *DashboardHandler) HandleOwner(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		nurserysdk.ErrServerError.WriteError(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dashboardResponse("owner_dashboard", sess))
}

// HandleUser renders the shopper home with the shopper's own profile.
//
//	@Summary	Shopper home
//	@Tags		Dashboards
//	@Produce	json
//	@Security	ClientCookie
//	@Success	200	{object}	nurserysdk.DashboardResponse
//	@Success	202	{object}	nurserysdk.LoadingResponse	"Session still loading"
//	@Success	303	"Redirect to /login or /"
//	@Router		/user [get].
func (h *DashboardHandler) HandleUser(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		nurserysdk.ErrServerError.WriteError(w)
		return
	}

	resp := dashboardResponse("user_home", sess)
	p, err := h.ProfilesService.Get(r.Context(), sess.Identity.ID)
	switch {
	case err == nil:
		pr := profileResponse(p)
		resp.Profile = &pr
	case errors.Is(err, store.ErrNotFound):
	default:
		slogx.FromContext(r.Context()).Error("failed to load own profile", "err", err)
		nurserysdk.ErrServerError.WriteError(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

type ProfilesHandler struct {
	ProfilesService *service.ProfilesService
}

// HandleList lists all profiles with their effective roles.
//
//	@Summary	List profiles
//	@Tags		Admin
//	@Produce	json
//	@Security	ClientCookie
//	@Success	200	{object}	nurserysdk.ProfileListResponse
//	@Success	303	"Redirect to /login or /"
//	@Router		/admin/profiles [get].
func (h *ProfilesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.ProfilesService.List(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to list profiles", "err", err)
		nurserysdk.ErrServerError.WriteError(w)
		return
	}

	resp := nurserysdk.ProfileListResponse{Profiles: make([]nurserysdk.ProfileResponse, 0, len(list))}
	for _, p := range list {
		resp.Profiles = append(resp.Profiles, profileResponse(p))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleAssignRole changes the role of a profile.
//
//	@Summary		Assign role
//	@Description	Sets the role of the profile. The last superadmin cannot be demoted. A client signed in as that profile picks the new role up on its next resolution.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		ClientCookie
//	@Param			id		path		string						true	"Profile ID"
//	@Param			request	body		nurserysdk.AssignRoleRequest	true	"New role"
//	@Success		200		{object}	nurserysdk.ProfileResponse
//	@Failure		400		{object}	nurserysdk.ErrorResponse	"Unknown role"
//	@Failure		404		{object}	nurserysdk.ErrorResponse	"Profile not found"
//	@Failure		409		{object}	nurserysdk.ErrorResponse	"Last superadmin"
//	@Router			/admin/profiles/{id}/role [put].
func (h *ProfilesHandler) HandleAssignRole(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req nurserysdk.AssignRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		nurserysdk.NewAPIError(http.StatusBadRequest, nurserysdk.ErrorCodeInvalidRequest,
			"request body must be valid JSON").WriteError(w)
		return
	}

	if _, err := h.ProfilesService.AssignRole(r.Context(), id, req.Role); err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownRole):
			nurserysdk.ErrInvalidRole.WriteError(w)
		case errors.Is(err, store.ErrNotFound):
			nurserysdk.ErrProfileNotFound.WriteError(w)
		case errors.Is(err, service.ErrLastSuperAdmin):
			nurserysdk.ErrLastSuperAdmin.WriteError(w)
		default:
			slogx.FromContext(r.Context()).Error("failed to assign role", "err", err, "profile_id", id)
			nurserysdk.ErrServerError.WriteError(w)
		}
		return
	}

	p, err := h.ProfilesService.Get(r.Context(), id)
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to reload profile", "err", err, "profile_id", id)
		nurserysdk.ErrServerError.WriteError(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, profileResponse(p))
}

func dashboardResponse(view string, sess domain.Session) nurserysdk.DashboardResponse {
	resp := nurserysdk.DashboardResponse{View: view, Role: sess.Role.String()}
	if sess.Identity != nil {
		resp.Identity = identityResponse(*sess.Identity)
	}
	return resp
}

func profileResponse(p domain.Profile) nurserysdk.ProfileResponse {
	return nurserysdk.ProfileResponse{
		ID:         p.ID,
		Email:      p.Email,
		Role:       p.Role,
		Attributes: p.Attributes,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
