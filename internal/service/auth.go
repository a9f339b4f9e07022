package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/resale_market/internal/models"
	"github.com/Skotchmaster/resale_market/internal/repo"
	"github.com/Skotchmaster/resale_market/internal/transport"
	pkg_hash "github.com/Skotchmaster/resale_market/pkg/hash"
	"github.com/Skotchmaster/resale_market/pkg/logging"
	"github.com/Skotchmaster/resale_market/pkg/tokens"
)

type AuthService struct {
	Users         UserRepo
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type LoginResult struct {
	tokens.Pair
	User *models.User
}

func (s *AuthService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return 15 * time.Minute
}

func (s *AuthService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return 7 * 24 * time.Hour
}

// Register creates a buyer or seller account. Admins are only created by
// promoting an existing account.
func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleBuyer
	}
	if role != models.RoleBuyer && role != models.RoleSeller {
		return nil, fmt.Errorf("%w: role must be buyer or seller", ErrValidation)
	}

	pwHash, err := pkg_hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	u := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Users.CreateUserIfNotExists(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("%w: user already exists", ErrConflict)
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}

	u, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return nil, err
	}
	if !pkg_hash.CheckPassword(u.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	pair, record, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	if err := s.Users.SaveRefreshToken(ctx, record); err != nil {
		return nil, err
	}
	return &LoginResult{Pair: *pair, User: u}, nil
}

func (s *AuthService) issue(u *models.User) (*tokens.Pair, *models.RefreshToken, error) {
	now := time.Now()
	accessExp := now.Add(s.accessTTL())
	refreshExp := now.Add(s.refreshTTL())

	access, err := tokens.SignAccess(u.ID.String(), string(u.Role), accessExp, s.AccessSecret)
	if err != nil {
		return nil, nil, err
	}
	refresh, jti, err := tokens.SignRefresh(u.ID.String(), string(u.Role), refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, nil, err
	}

	record := &models.RefreshToken{
		TokenHash: tokens.Hash(refresh),
		JTI:       jti,
		UserID:    u.ID,
		ExpiresAt: refreshExp.Unix(),
	}
	pair := &tokens.Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}
	return pair, record, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// revoked, so each refresh token works once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*tokens.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}

	u, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user", ErrUnauthorized)
		}
		return nil, err
	}

	pair, record, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	if err := s.Users.RotateRefreshToken(ctx, claims.ID, record); err != nil {
		if errors.Is(err, repo.ErrTokenRevoked) || errors.Is(err, repo.ErrNotFound) {
			l.Warn("refresh_rejected", "user_id", userID, "reason", "token expired or revoked")
			return nil, fmt.Errorf("%w: token expired or revoked", ErrUnauthorized)
		}
		return nil, err
	}
	return pair, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Users.RevokeRefreshToken(ctx, tokens.Hash(refreshToken))
}

func (s *AuthService) CountUsers(ctx context.Context) (int64, error) {
	return s.Users.CountUsers(ctx)
}

func (s *AuthService) PromoteAdmin(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("%w: email required", ErrValidation)
	}
	return storeErr(s.Users.SetUserRole(ctx, email, models.RoleAdmin), "user")
}
