// Package events implements the event catalog: listing, publishing, editing and bookmarking.
package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hongminglow/eventus-be/internal/access"
	"github.com/hongminglow/eventus-be/internal/apperr"
	"github.com/hongminglow/eventus-be/internal/models"
	"github.com/hongminglow/eventus-be/internal/models/dto"
	"github.com/hongminglow/eventus-be/internal/notify"
	"github.com/hongminglow/eventus-be/internal/storage"
	"github.com/hongminglow/eventus-be/internal/validation"
)

const eventNotFound = "Event not found"

// DeviceTokens lists the push tokens announcements are sent to.
type DeviceTokens interface {
	ListDeviceTokens(ctx context.Context) ([]string, error)
}

type Service struct {
	events        storage.EventStore
	devices       DeviceTokens
	sender        notify.Sender
	notifyTimeout time.Duration
	logger        zerolog.Logger
}

func NewService(events storage.EventStore, devices DeviceTokens, sender notify.Sender, notifyTimeout time.Duration, logger zerolog.Logger) *Service {
	if notifyTimeout <= 0 {
		notifyTimeout = 10 * time.Second
	}
	return &Service{
		events:        events,
		devices:       devices,
		sender:        sender,
		notifyTimeout: notifyTimeout,
		logger:        logger.With().Str("component", "events").Logger(),
	}
}

// List returns events matching the query ordered by date. A nil actor sees every
// event with isBookmarked false; BookmarkedOnly is ignored for anonymous callers.
func (s *Service) List(ctx context.Context, q dto.EventQuery, actor *models.User) ([]models.Event, error) {
	filter := storage.EventFilter{
		Search:  strings.TrimSpace(q.Search),
		OwnerID: strings.TrimSpace(q.OwnerID),
	}
	if category := strings.TrimSpace(q.Category); category != "" && category != models.CategoryAll {
		filter.Category = models.Category(category)
	}

	found, err := s.events.ListEvents(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("list events", err)
	}

	viewer := viewerID(actor)
	out := make([]models.Event, 0, len(found))
	for _, e := range found {
		e.IsBookmarked = e.BookmarkedByUser(viewer)
		if q.BookmarkedOnly && viewer != "" && !e.IsBookmarked {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// ListByOwner returns the events a user created.
func (s *Service) ListByOwner(ctx context.Context, ownerID string, actor *models.User) ([]models.Event, error) {
	return s.List(ctx, dto.EventQuery{OwnerID: ownerID}, actor)
}

// Get returns one event annotated for actor, who may be nil.
func (s *Service) Get(ctx context.Context, id string, actor *models.User) (models.Event, error) {
	e, err := s.load(ctx, id)
	if err != nil {
		return models.Event{}, err
	}
	e.IsBookmarked = e.BookmarkedByUser(viewerID(actor))
	return e, nil
}

// Create publishes an event owned by actor and announces it to every registered device.
func (s *Service) Create(ctx context.Context, req dto.CreateEventRequest, actor models.User) (models.Event, error) {
	if err := access.CanPublishEvent(actor); err != nil {
		return models.Event{}, err
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Location = strings.TrimSpace(req.Location)
	req.Category = strings.TrimSpace(req.Category)
	if err := validation.Struct(req); err != nil {
		return models.Event{}, err
	}
	when, err := validation.ParseDateTime(req.DateTime)
	if err != nil {
		return models.Event{}, apperr.InvalidFields(map[string]string{"dateTime": "must be an ISO 8601 date"})
	}

	event := models.Event{
		Title:         req.Title,
		Category:      models.Category(req.Category),
		DateTime:      when,
		Location:      req.Location,
		Price:         firstNonEmpty(req.Price, models.DefaultPrice),
		ImageURL:      strings.TrimSpace(req.ImageURL),
		IconEmoji:     strings.TrimSpace(req.IconEmoji),
		Organizer:     firstNonEmpty(req.Organizer, actor.Name(), models.DefaultOrganizer),
		Description:   firstNonEmpty(req.Description, models.DefaultDescription),
		IsUserCreated: true,
		CreatedBy:     actor.ID,
	}
	if req.Attendees != nil {
		event.Attendees = *req.Attendees
	}

	created, err := s.events.CreateEvent(ctx, event)
	if err != nil {
		return models.Event{}, apperr.Internal("create event", err)
	}
	s.logger.Info().Str("event_id", created.ID).Str("user_id", actor.ID).Msg("event created")

	s.announce(ctx, created)
	return created, nil
}

// Update applies the provided fields after the ownership gate.
func (s *Service) Update(ctx context.Context, id string, patch dto.EventPatch, actor models.User) (models.Event, error) {
	event, err := s.loadForChange(ctx, id, actor, "update")
	if err != nil {
		return models.Event{}, err
	}
	if err := applyPatch(&event, patch); err != nil {
		return models.Event{}, err
	}

	updated, err := s.events.UpdateEvent(ctx, event)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Event{}, apperr.NotFound(eventNotFound)
		}
		return models.Event{}, apperr.Internal("update event", err)
	}
	updated.IsBookmarked = updated.BookmarkedByUser(actor.ID)
	return updated, nil
}

// Delete removes an event after the ownership gate.
func (s *Service) Delete(ctx context.Context, id string, actor models.User) error {
	if _, err := s.loadForChange(ctx, id, actor, "delete"); err != nil {
		return err
	}
	if err := s.events.DeleteEvent(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound(eventNotFound)
		}
		return apperr.Internal("delete event", err)
	}
	s.logger.Info().Str("event_id", id).Str("user_id", actor.ID).Msg("event deleted")
	return nil
}

// ToggleBookmark flips the actor's bookmark and returns the event in its new state.
func (s *Service) ToggleBookmark(ctx context.Context, id string, actor models.User) (models.Event, error) {
	if _, err := s.events.ToggleBookmark(ctx, id, actor.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Event{}, apperr.NotFound(eventNotFound)
		}
		return models.Event{}, apperr.Internal("toggle bookmark", err)
	}
	return s.Get(ctx, id, &actor)
}

// AuthorizeChange runs the not-found and ownership checks for action without
// touching the event, so callers can reject a request before reading its body.
func (s *Service) AuthorizeChange(ctx context.Context, id string, actor models.User, action string) error {
	_, err := s.loadForChange(ctx, id, actor, action)
	return err
}

func (s *Service) loadForChange(ctx context.Context, id string, actor models.User, action string) (models.Event, error) {
	event, err := s.load(ctx, id)
	if err != nil {
		return models.Event{}, err
	}
	if err := access.CanModifyEvent(actor, event, action); err != nil {
		return models.Event{}, err
	}
	return event, nil
}

func (s *Service) load(ctx context.Context, id string) (models.Event, error) {
	e, err := s.events.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Event{}, apperr.NotFound(eventNotFound)
		}
		return models.Event{}, apperr.Internal("load event", err)
	}
	return e, nil
}

// announce runs on a context detached from the request so a client disconnect
// does not cut the fan-out short. Failures are logged only.
func (s *Service) announce(ctx context.Context, e models.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	tokens, err := s.devices.ListDeviceTokens(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("event_id", e.ID).Msg("list device tokens")
		return
	}
	if len(tokens) == 0 {
		return
	}
	report := s.sender.Send(ctx, tokens, notify.Message{
		Title: "New Event: " + e.Title,
		Body:  fmt.Sprintf("%s published a new %s event", e.Organizer, e.Category),
	})
	if report.Failed > 0 {
		s.logger.Warn().Str("event_id", e.ID).Int("sent", report.Sent).Int("failed", report.Failed).Msg("event announcement partially failed")
	}
}

func applyPatch(e *models.Event, patch dto.EventPatch) error {
	fields := map[string]string{}

	if v, ok := patch.Title.Get(); ok {
		e.Title = strings.TrimSpace(v)
		validation.Field(fields, "title", e.Title, "required,max=200")
	}
	if v, ok := patch.Category.Get(); ok {
		v = strings.TrimSpace(v)
		validation.Field(fields, "category", v, "category")
		e.Category = models.Category(v)
	}
	if v, ok := patch.DateTime.Get(); ok {
		when, err := validation.ParseDateTime(v)
		if err != nil {
			fields["dateTime"] = "must be an ISO 8601 date"
		} else {
			e.DateTime = when
		}
	}
	if v, ok := patch.Location.Get(); ok {
		e.Location = strings.TrimSpace(v)
		validation.Field(fields, "location", e.Location, "required")
	}
	if v, ok := patch.Attendees.Get(); ok {
		validation.Field(fields, "attendees", v, "gte=0")
		e.Attendees = v
	}
	if v, ok := patch.Description.Get(); ok {
		validation.Field(fields, "description", v, "max=2000")
		e.Description = v
	}
	patch.Price.Apply(&e.Price)
	patch.ImageURL.Apply(&e.ImageURL)
	patch.IconEmoji.Apply(&e.IconEmoji)
	if v, ok := patch.Organizer.Get(); ok {
		e.Organizer = firstNonEmpty(v, e.Organizer)
	}

	return validation.Result(fields)
}

func viewerID(actor *models.User) string {
	if actor == nil {
		return ""
	}
	return actor.ID
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
