// Package accounts implements registration, login and profile management.
package accounts

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hongminglow/eventus-be/internal/access"
	"github.com/hongminglow/eventus-be/internal/apperr"
	"github.com/hongminglow/eventus-be/internal/models"
	"github.com/hongminglow/eventus-be/internal/models/dto"
	"github.com/hongminglow/eventus-be/internal/storage"
	"github.com/hongminglow/eventus-be/internal/validation"
)

// emailPattern decides whether a login identifier is an email or a phone number.
var emailPattern = regexp.MustCompile(`^[\w\-.]+@([\w-]+\.)+[\w-]{2,4}$`)

const invalidCredentials = "Invalid credentials"

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Generate(user models.User) (string, error)
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// Service owns the credential and profile operations.
type Service struct {
	users  storage.UserStore
	tokens TokenIssuer
	hasher PasswordHasher
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(users storage.UserStore, tokens TokenIssuer, hasher PasswordHasher, logger zerolog.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		logger: logger.With().Str("component", "accounts").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a user account and signs them in.
func (s *Service) Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error) {
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		return dto.AuthResponse{}, err
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return dto.AuthResponse{}, apperr.Conflict("User already exists with this email")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return dto.AuthResponse{}, apperr.Internal("check existing email", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return dto.AuthResponse{}, apperr.Internal("hash password", err)
	}

	role := models.RoleUser
	if req.Role != "" {
		role = models.Role(req.Role)
	}
	created, err := s.users.CreateUser(ctx, models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         role,
		KYCStatus:    models.KYCNone,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return dto.AuthResponse{}, apperr.Conflict("User already exists with this email")
		}
		return dto.AuthResponse{}, apperr.Internal("create user", err)
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return s.session(created)
}

// Login authenticates by email or phone. Unknown identifiers and wrong passwords
// produce the same error; a blocked account is reported only after the password matched.
func (s *Service) Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	identifier := req.LoginIdentifier()
	if identifier == "" || req.Password == "" {
		return dto.AuthResponse{}, apperr.Validation("identifier and password are required")
	}

	var (
		user models.User
		err  error
	)
	if emailPattern.MatchString(identifier) {
		user, err = s.users.FindByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = s.users.FindByPhone(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return dto.AuthResponse{}, apperr.Auth(invalidCredentials)
		}
		return dto.AuthResponse{}, apperr.Internal("find user", err)
	}

	if !s.hasher.Compare(user.PasswordHash, req.Password) {
		return dto.AuthResponse{}, apperr.Auth(invalidCredentials)
	}
	if user.IsBlocked {
		return dto.AuthResponse{}, apperr.Forbidden("Your account has been blocked. Please contact support.")
	}
	return s.session(user)
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, userID string, req dto.ChangePasswordRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal("load user", err)
	}
	if !s.hasher.Compare(user.PasswordHash, req.OldPassword) {
		return apperr.Auth("Old password is incorrect")
	}
	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return apperr.Internal("hash password", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return apperr.Internal("update password", err)
	}
	return nil
}

// Me returns the caller's current profile.
func (s *Service) Me(ctx context.Context, userID string) (models.User, error) {
	return s.load(ctx, userID)
}

// GetUser returns a profile the actor is allowed to see.
func (s *Service) GetUser(ctx context.Context, actor models.User, id string) (models.User, error) {
	if err := access.CanAccessUser(actor, id); err != nil {
		return models.User{}, err
	}
	return s.load(ctx, id)
}

// UpdateProfile applies a partial update to the target user on behalf of actor.
func (s *Service) UpdateProfile(ctx context.Context, actor models.User, id string, patch dto.UserPatch) (models.User, error) {
	if err := access.CanAccessUser(actor, id); err != nil {
		return models.User{}, err
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if err := ApplyPatch(&user, patch, access.IsAdmin(actor), s.now()); err != nil {
		return models.User{}, err
	}
	return Save(ctx, s.users, user)
}

// SetDeviceToken registers the caller's push notification token.
func (s *Service) SetDeviceToken(ctx context.Context, userID string, req dto.DeviceTokenRequest) error {
	req.DeviceToken = strings.TrimSpace(req.DeviceToken)
	if req.DeviceToken == "" {
		return apperr.Validation("deviceToken is required")
	}
	if err := s.users.SetDeviceToken(ctx, userID, req.DeviceToken); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal("set device token", err)
	}
	return nil
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

func (s *Service) session(user models.User) (dto.AuthResponse, error) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		return dto.AuthResponse{}, apperr.Internal("generate token", err)
	}
	return dto.AuthResponse{Token: token, User: user}, nil
}

// Save persists an updated profile, translating storage failures.
func Save(ctx context.Context, users storage.UserStore, user models.User) (models.User, error) {
	updated, err := users.UpdateUser(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			return models.User{}, apperr.Conflict("User already exists with this email")
		case errors.Is(err, storage.ErrNotFound):
			return models.User{}, apperr.NotFound("User not found")
		default:
			return models.User{}, apperr.Internal("update user", err)
		}
	}
	return updated, nil
}
