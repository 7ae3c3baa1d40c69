package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/eventus-be/internal/access"
	"github.com/hongminglow/eventus-be/internal/apperr"
	"github.com/hongminglow/eventus-be/internal/domain/accounts"
	"github.com/hongminglow/eventus-be/internal/domain/admin"
	"github.com/hongminglow/eventus-be/internal/http/respond"
	"github.com/hongminglow/eventus-be/internal/models"
	"github.com/hongminglow/eventus-be/internal/models/dto"
)

// UserHandler serves self-service profile routes and the admin user routes that
// share the /api/users prefix.
type UserHandler struct {
	accounts *accounts.Service
	admin    *admin.Service
	errs     *ErrorResponder
}

func NewUserHandler(accountsSvc *accounts.Service, adminSvc *admin.Service, errs *ErrorResponder) *UserHandler {
	return &UserHandler{accounts: accountsSvc, admin: adminSvc, errs: errs}
}

func (h *UserHandler) Routes(r chi.Router, authn *access.Authenticator) {
	r.Use(authn.Required)
	r.Post("/device-token", h.setDeviceToken)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)

	r.Group(func(r chi.Router) {
		r.Use(authn.RequireRole(models.RoleAdmin))
		r.Get("/", h.list)
		r.Get("/organizers", h.listOrganizers)
		r.Get("/blocked", h.listBlocked)
		r.Put("/{id}/block", h.block)
		r.Delete("/{id}", h.delete)
	})
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	q, err := userQuery(r)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	users, err := h.admin.ListUsers(r.Context(), q)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.List(w, r, users)
}

func (h *UserHandler) listOrganizers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListOrganizers(r.Context())
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.List(w, r, users)
}

func (h *UserHandler) listBlocked(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListBlocked(r.Context())
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.List(w, r, users)
}

func (h *UserHandler) get(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.GetUser(r.Context(), current(r), chi.URLParam(r, "id"))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, "", user)
}

func (h *UserHandler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := access.CanAccessUser(current(r), id); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	var patch dto.UserPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	user, err := h.accounts.UpdateProfile(r.Context(), current(r), id, patch)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, "Profile updated successfully", user)
}

func (h *UserHandler) block(w http.ResponseWriter, r *http.Request) {
	var req dto.BlockRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			h.errs.Write(w, r, err)
			return
		}
	}
	id := chi.URLParam(r, "id")
	var (
		user models.User
		err  error
	)
	if req.IsBlocked != nil {
		user, err = h.admin.SetBlocked(r.Context(), id, *req.IsBlocked)
	} else {
		user, err = h.admin.ToggleBlock(r.Context(), id)
	}
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, blockMessage(user), user)
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, "User deleted successfully", nil)
}

func (h *UserHandler) setDeviceToken(w http.ResponseWriter, r *http.Request) {
	var req dto.DeviceTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	if err := h.accounts.SetDeviceToken(r.Context(), current(r).ID, req); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, "Device token saved", nil)
}

func userQuery(r *http.Request) (dto.UserQuery, error) {
	q := dto.UserQuery{Role: r.URL.Query().Get("role")}
	if raw := r.URL.Query().Get("blocked"); raw != "" {
		blocked, err := strconv.ParseBool(raw)
		if err != nil {
			return dto.UserQuery{}, apperr.InvalidFields(map[string]string{"blocked": "must be true or false"})
		}
		q.Blocked = &blocked
	}
	return q, nil
}

func blockMessage(user models.User) string {
	if user.IsBlocked {
		return "User blocked"
	}
	return "User unblocked"
}
