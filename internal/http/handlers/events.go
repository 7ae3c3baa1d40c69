package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/eventus-be/internal/access"
	"github.com/hongminglow/eventus-be/internal/domain/events"
	"github.com/hongminglow/eventus-be/internal/http/respond"
	"github.com/hongminglow/eventus-be/internal/models"
	"github.com/hongminglow/eventus-be/internal/models/dto"
)

type EventHandler struct {
	events *events.Service
	errs   *ErrorResponder
}

func NewEventHandler(svc *events.Service, errs *ErrorResponder) *EventHandler {
	return &EventHandler{events: svc, errs: errs}
}

// Routes mounts under /api/events. Reads accept an optional token so bookmarks
// can be annotated; writes require one.
func (h *EventHandler) Routes(r chi.Router, authn *access.Authenticator) {
	r.Group(func(r chi.Router) {
		r.Use(authn.Optional)
		r.Get("/", h.list)
		r.Get("/user/{userId}", h.listByOwner)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(authn.Required)
		r.With(authn.RequireRole(models.RoleOrganizer, models.RoleAdmin)).Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Post("/{id}/bookmark", h.toggleBookmark)
	})
}

func (h *EventHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bookmarked, _ := strconv.ParseBool(q.Get("bookmarked"))
	found, err := h.events.List(r.Context(), dto.EventQuery{
		Category:       q.Get("category"),
		Search:         q.Get("search"),
		OwnerID:        q.Get("userId"),
		BookmarkedOnly: bookmarked,
	}, access.ActorFrom(r.Context()))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.List(w, r, found)
}

func (h *EventHandler) listByOwner(w http.ResponseWriter, r *http.Request) {
	found, err := h.events.ListByOwner(r.Context(), chi.URLParam(r, "userId"), access.ActorFrom(r.Context()))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.List(w, r, found)
}

func (h *EventHandler) get(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.Get(r.Context(), chi.URLParam(r, "id"), access.ActorFrom(r.Context()))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, "", event)
}

func (h *EventHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	event, err := h.events.Create(r.Context(), req, current(r))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusCreated, "Event created successfully", event)
}

func (h *EventHandler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.events.AuthorizeChange(r.Context(), id, current(r), "update"); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	var patch dto.EventPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	event, err := h.events.Update(r.Context(), id, patch, current(r))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, "Event updated successfully", event)
}

func (h *EventHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.events.Delete(r.Context(), chi.URLParam(r, "id"), current(r)); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, "Event deleted successfully", nil)
}

func (h *EventHandler) toggleBookmark(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.ToggleBookmark(r.Context(), chi.URLParam(r, "id"), current(r))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	message := "Bookmark removed"
	if event.IsBookmarked {
		message = "Event bookmarked"
	}
	respond.JSON(w, r, http.StatusOK, message, event)
}

func current(r *http.Request) models.User {
	user, _ := access.UserFrom(r.Context())
	return user
}
