// Package admin implements user moderation and the dashboard metrics.
package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hongminglow/eventus-be/internal/apperr"
	"github.com/hongminglow/eventus-be/internal/domain/accounts"
	"github.com/hongminglow/eventus-be/internal/models"
	"github.com/hongminglow/eventus-be/internal/models/dto"
	"github.com/hongminglow/eventus-be/internal/storage"
)

// EventCounter reports the number of events for the dashboard.
type EventCounter interface {
	CountEvents(ctx context.Context) (int64, error)
}

type Service struct {
	users  storage.UserStore
	events EventCounter
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(users storage.UserStore, events EventCounter, logger zerolog.Logger) *Service {
	return &Service{
		users:  users,
		events: events,
		logger: logger.With().Str("component", "admin").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ListUsers returns users newest first, optionally filtered by role and blocked state.
func (s *Service) ListUsers(ctx context.Context, q dto.UserQuery) ([]models.User, error) {
	filter := storage.UserFilter{Blocked: q.Blocked}
	if role := strings.TrimSpace(q.Role); role != "" {
		filter.Role = models.Role(role)
		if !filter.Role.Valid() {
			return nil, apperr.InvalidFields(map[string]string{"role": "must be one of: user, organizer, admin"})
		}
	}
	users, err := s.users.ListUsers(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("list users", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// ListOrganizers returns every organizer account.
func (s *Service) ListOrganizers(ctx context.Context) ([]models.User, error) {
	return s.ListUsers(ctx, dto.UserQuery{Role: string(models.RoleOrganizer)})
}

// ListBlocked returns the accounts an admin has blocked.
func (s *Service) ListBlocked(ctx context.Context) ([]models.User, error) {
	blocked := true
	return s.ListUsers(ctx, dto.UserQuery{Blocked: &blocked})
}

// ToggleBlock flips the user's blocked flag.
func (s *Service) ToggleBlock(ctx context.Context, id string) (models.User, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	return s.setBlocked(ctx, user, !user.IsBlocked)
}

// SetBlocked sets the user's blocked flag explicitly.
func (s *Service) SetBlocked(ctx context.Context, id string, blocked bool) (models.User, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	return s.setBlocked(ctx, user, blocked)
}

// UpdateUser edits any profile field, including role, email and KYC state.
func (s *Service) UpdateUser(ctx context.Context, id string, patch dto.UserPatch) (models.User, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if err := accounts.ApplyPatch(&user, patch, true, s.now()); err != nil {
		return models.User{}, err
	}
	return accounts.Save(ctx, s.users, user)
}

// SetKYCStatus moves a user to pending, verified or rejected.
func (s *Service) SetKYCStatus(ctx context.Context, id string, status string) (models.User, error) {
	next := models.KYCStatus(strings.TrimSpace(status))
	switch next {
	case models.KYCPending, models.KYCVerified, models.KYCRejected:
	default:
		return models.User{}, apperr.Validation("Invalid status")
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	accounts.SetKYCStatus(&user, next, s.now())
	updated, err := accounts.Save(ctx, s.users, user)
	if err != nil {
		return models.User{}, err
	}
	s.logger.Info().Str("user_id", id).Str("kyc_status", string(next)).Msg("kyc status changed")
	return updated, nil
}

// DeleteUser removes the user; their tickets and bookmarks go with them.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal("delete user", err)
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// Metrics computes the dashboard counts concurrently.
func (s *Service) Metrics(ctx context.Context) (dto.Metrics, error) {
	var (
		m       dto.Metrics
		blocked = true
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		m.TotalUsers, err = s.users.CountUsers(ctx, storage.UserFilter{})
		return err
	})
	g.Go(func() (err error) {
		m.BlockedUsers, err = s.users.CountUsers(ctx, storage.UserFilter{Blocked: &blocked})
		return err
	})
	g.Go(func() (err error) {
		m.Organizers, err = s.users.CountUsers(ctx, storage.UserFilter{Role: models.RoleOrganizer})
		return err
	})
	g.Go(func() (err error) {
		m.TotalEvents, err = s.events.CountEvents(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return dto.Metrics{}, apperr.Internal("compute metrics", err)
	}
	return m, nil
}

func (s *Service) setBlocked(ctx context.Context, user models.User, blocked bool) (models.User, error) {
	user.IsBlocked = blocked
	updated, err := accounts.Save(ctx, s.users, user)
	if err != nil {
		return models.User{}, err
	}
	s.logger.Info().Str("user_id", user.ID).Bool("blocked", blocked).Msg("user block state changed")
	return updated, nil
}

func (s *Service) load(ctx context.Context, id string) (models.User, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, apperr.NotFound("User not found")
		}
		return models.User{}, apperr.Internal("load user", err)
	}
	return user, nil
}
