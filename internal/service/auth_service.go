package service

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/shop-service/internal/auth"
	"github.com/spec-kit/shop-service/internal/config"
	"github.com/spec-kit/shop-service/internal/domain"
	"github.com/spec-kit/shop-service/internal/events"
	"github.com/spec-kit/shop-service/internal/repository"
	apperrors "github.com/spec-kit/shop-service/pkg/util/errorutil"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]{3,50}$`)

// LoginResult is returned by a successful login.
type LoginResult struct {
	User    *domain.User
	Access  domain.Token
	Refresh domain.Token
}

// AuthService coordinates registration, login, logout and link flows.
type AuthService struct {
	users      repository.UserRepository
	issuer     *auth.Issuer
	verifier   *auth.Verifier
	hasher     *auth.PasswordHasher
	links      *auth.LinkSigner
	dispatcher events.Dispatcher
	logger     *zap.Logger
	linkMaxAge time.Duration
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Issuer     *auth.Issuer
	Verifier   *auth.Verifier
	Hasher     *auth.PasswordHasher
	Links      *auth.LinkSigner
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		issuer:     deps.Issuer,
		verifier:   deps.Verifier,
		hasher:     deps.Hasher,
		links:      deps.Links,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		linkMaxAge: cfg.LinkMaxAge(),
	}
}

// Register creates an unverified account and requests a verification mail.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if !usernamePattern.MatchString(username) {
		return nil, apperrors.NewValidationError("username must be 3-50 characters of letters, digits and . @ + - _", nil)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.NewValidationError("invalid email address", nil)
	}
	if err := auth.ValidatePassword(password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewForbidden("user with email already exists")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewConflict("username already taken", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Roles:        []domain.Role{domain.RoleUser},
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.links.Create(email, auth.LinkPurposeVerifyEmail, s.linkMaxAge)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.publish(ctx, events.Event{
		Type:    events.EventUserRegistered,
		UserID:  user.ID,
		Email:   email,
		Payload: events.UserRegisteredPayload{Username: username, VerificationToken: token},
	})
	return user, nil
}

// VerifyEmail marks the account behind a verification link as verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	payload, err := s.links.Decode(token, auth.LinkPurposeVerifyEmail, s.linkMaxAge)
	if err != nil {
		return nil, auth.ToDomainError(err)
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	if user.Verified {
		return user, nil
	}

	user.Verified = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{Type: events.EventUserVerified, UserID: user.ID, Email: user.Email})
	return user, nil
}

// Login checks credentials and issues an access/refresh pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	invalid := apperrors.NewUnauthorized("invalid username or password")

	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invalid
		}
		return nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, invalid
	}

	identity := auth.IdentityFromUser(user)
	access, err := s.issuer.IssueAccess(identity)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	refresh, err := s.issuer.IssueRefresh(identity)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	return &LoginResult{User: user, Access: access, Refresh: refresh}, nil
}

// Logout revokes the presenting access token and, when it belongs to the same user,
// the refresh token from the cookie.
func (s *AuthService) Logout(ctx context.Context, access *auth.Claims, refreshRaw string) error {
	if err := s.verifier.Revoke(ctx, access.ID); err != nil {
		return apperrors.NewInternalError(err)
	}

	if refreshRaw == "" {
		return nil
	}
	refresh, err := s.verifier.Inspect(ctx, refreshRaw, domain.TokenKindRefresh)
	if err != nil || refresh.UserID != access.UserID {
		return nil
	}
	if err := s.verifier.Revoke(ctx, refresh.ID); err != nil {
		s.logger.Warn("refresh token revocation failed", zap.String("user_id", access.UserID), zap.Error(err))
	}
	return nil
}

// Refresh mints a new access token from verified refresh claims.
func (s *AuthService) Refresh(_ context.Context, refresh *auth.Claims) (domain.Token, error) {
	token, err := s.issuer.IssueAccess(refresh.Identity())
	if err != nil {
		return domain.Token{}, apperrors.NewInternalError(err)
	}
	return token, nil
}

// RequestPasswordReset sends a reset link when the email belongs to an account. Unknown
// addresses succeed silently.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return apperrors.NewValidationError("invalid email address", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}

	token, err := s.links.Create(email, auth.LinkPurposeResetPassword, s.linkMaxAge)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	s.publish(ctx, events.Event{
		Type:    events.EventPasswordResetRequested,
		UserID:  user.ID,
		Email:   email,
		Payload: events.PasswordResetRequestedPayload{ResetToken: token},
	})
	return nil
}

// ConfirmPasswordReset validates the reset link and stores the new password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return apperrors.NewValidationError("passwords don't match", nil)
	}
	if err := auth.ValidatePassword(newPassword); err != nil {
		return err
	}

	payload, err := s.links.Decode(token, auth.LinkPurposeResetPassword, s.linkMaxAge)
	if err != nil {
		return auth.ToDomainError(err)
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.String("user_id", event.UserID),
			zap.Error(err))
	}
}
