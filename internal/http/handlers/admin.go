package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/eventus-be/internal/access"
	"github.com/hongminglow/eventus-be/internal/domain/admin"
	"github.com/hongminglow/eventus-be/internal/http/respond"
	"github.com/hongminglow/eventus-be/internal/models"
	"github.com/hongminglow/eventus-be/internal/models/dto"
)

type AdminHandler struct {
	admin *admin.Service
	users *UserHandler
	errs  *ErrorResponder
}

func NewAdminHandler(svc *admin.Service, users *UserHandler, errs *ErrorResponder) *AdminHandler {
	return &AdminHandler{admin: svc, users: users, errs: errs}
}

// Routes mounts under /api/admin; every route requires the admin role.
func (h *AdminHandler) Routes(r chi.Router, authn *access.Authenticator) {
	r.Use(authn.Required, authn.RequireRole(models.RoleAdmin))
	r.Get("/metrics", h.metrics)
	r.Get("/users", h.users.list)
	r.Get("/users/organizers", h.users.listOrganizers)
	r.Get("/users/blocked", h.users.listBlocked)
	r.Post("/users/{id}/kyc-status", h.setKYCStatus)
	r.Post("/users/{id}/block-toggle", h.toggleBlock)
	r.Put("/users/{id}", h.updateUser)
	r.Delete("/users/{id}", h.users.delete)
}

func (h *AdminHandler) metrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.admin.Metrics(r.Context())
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, "", m)
}

func (h *AdminHandler) setKYCStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.KYCStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	user, err := h.admin.SetKYCStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, "KYC status updated to "+string(user.KYCStatus), user)
}

func (h *AdminHandler) toggleBlock(w http.ResponseWriter, r *http.Request) {
	user, err := h.admin.ToggleBlock(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, blockMessage(user), user)
}

func (h *AdminHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	var patch dto.UserPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	user, err := h.admin.UpdateUser(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, "User updated successfully", user)
}
