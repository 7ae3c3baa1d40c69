package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/eventus-be/internal/access"
	"github.com/hongminglow/eventus-be/internal/domain/tickets"
	"github.com/hongminglow/eventus-be/internal/http/respond"
	"github.com/hongminglow/eventus-be/internal/models/dto"
)

type TicketHandler struct {
	tickets *tickets.Service
	errs    *ErrorResponder
}

func NewTicketHandler(svc *tickets.Service, errs *ErrorResponder) *TicketHandler {
	return &TicketHandler{tickets: svc, errs: errs}
}

// Routes mounts under /api/tickets; every route requires a token.
func (h *TicketHandler) Routes(r chi.Router, authn *access.Authenticator) {
	r.Use(authn.Required)
	r.Get("/", h.listMine)
	r.Post("/", h.book)
	r.Get("/has/{eventId}", h.has)
}

func (h *TicketHandler) book(w http.ResponseWriter, r *http.Request) {
	var req dto.BookTicketRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	ticket, err := h.tickets.Book(r.Context(), req, current(r))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusCreated, "Ticket booked successfully", ticket)
}

func (h *TicketHandler) has(w http.ResponseWriter, r *http.Request) {
	ok, err := h.tickets.Has(r.Context(), chi.URLParam(r, "eventId"), current(r))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, "", dto.HasTicketResponse{HasTicket: ok})
}

func (h *TicketHandler) listMine(w http.ResponseWriter, r *http.Request) {
	mine, err := h.tickets.ListMine(r.Context(), current(r))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.List(w, r, mine)
}
