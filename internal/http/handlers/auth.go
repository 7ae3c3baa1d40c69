package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/eventus-be/internal/access"
	"github.com/hongminglow/eventus-be/internal/domain/accounts"
	"github.com/hongminglow/eventus-be/internal/http/respond"
	"github.com/hongminglow/eventus-be/internal/models/dto"
)

// AuthHandler owns registration, login and the caller's own credentials.
type AuthHandler struct {
	accounts *accounts.Service
	errs     *ErrorResponder
}

func NewAuthHandler(svc *accounts.Service, errs *ErrorResponder) *AuthHandler {
	return &AuthHandler{accounts: svc, errs: errs}
}

// Routes mounts under /api/auth.
func (h *AuthHandler) Routes(r chi.Router, authn *access.Authenticator) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Group(func(r chi.Router) {
		r.Use(authn.Required)
		r.Get("/me", h.me)
		r.Post("/change-password", h.changePassword)
	})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	resp, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusCreated, "User registered successfully", resp)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	resp, err := h.accounts.Login(r.Context(), req)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, "Login successful", resp)
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.Me(r.Context(), current(r).ID)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, "", user)
}

func (h *AuthHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	if err := h.accounts.ChangePassword(r.Context(), current(r).ID, req); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, "Password updated successfully", nil)
}
