// internal/service/auth/auth.go
package auth

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"quinto-service/internal/domain/auth"
	xerrors "quinto-service/internal/pkg/errors"
	"quinto-service/internal/pkg/jwt"
	"quinto-service/internal/pkg/session"
	"quinto-service/internal/repository/postgres"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	authRepo   *postgres.AuthRepository
	jwtManager *jwt.Manager
	sessions   *session.Manager
	logger     *zap.Logger
}

func NewAuthService(authRepo *postgres.AuthRepository, jwtManager *jwt.Manager, sessions *session.Manager, logger *zap.Logger) *AuthService {
	return &AuthService{
		authRepo:   authRepo,
		jwtManager: jwtManager,
		sessions:   sessions,
		logger:     logger,
	}
}

// Register creates an account. Brokers self-declare at signup and get the
// broker role on top of user.
func (s *AuthService) Register(ctx context.Context, req *auth.RegisterRequest) (*auth.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	roles := []string{auth.RoleUser}
	if req.Broker {
		roles = append(roles, auth.RoleBroker)
	}

	id := &auth.Identity{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Phone:        sql.NullString{String: req.Phone, Valid: req.Phone != ""},
		Roles:        roles,
		IsActive:     true,
	}

	if err := s.authRepo.CreateIdentity(ctx, id); err != nil {
		if xerrors.Is(err, xerrors.ErrConflict) {
			return nil, xerrors.Wrap(xerrors.ErrConflict, "email already registered")
		}
		s.logger.Error("failed to create identity", zap.Error(err))
		return nil, err
	}

	s.logger.Info("identity registered",
		zap.Int64("identity_id", id.ID),
		zap.Strings("roles", id.Roles),
	)

	return id, nil
}

// Login verifies credentials, issues a token and opens a Redis session keyed
// by the token's JTI.
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest, device, ip string) (*auth.LoginResponse, error) {
	id, err := s.authRepo.FindByEmail(ctx, req.Email)
	if xerrors.Is(err, xerrors.ErrNotFound) {
		return nil, xerrors.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !id.IsActive {
		return nil, xerrors.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(id.PasswordHash), []byte(req.Password)); err != nil {
		return nil, xerrors.ErrUnauthorized
	}

	token, jti, err := s.jwtManager.Generate(id.ID, id.Roles)
	if err != nil {
		s.logger.Error("failed to generate token", zap.Error(err))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now()
	err = s.sessions.CreateSession(ctx, &session.SessionData{
		IdentityID:     id.ID,
		JTI:            jti,
		Roles:          id.Roles,
		Device:         device,
		IP:             ip,
		CreatedAt:      now,
		LastActivityAt: now,
		ExpiresAt:      now.Add(s.jwtManager.TTL),
	})
	if err != nil {
		s.logger.Error("failed to create session", zap.Error(err))
		return nil, err
	}

	s.logger.Info("identity logged in",
		zap.Int64("identity_id", id.ID),
		zap.String("ip", ip),
	)

	return &auth.LoginResponse{Token: token, Identity: *id}, nil
}

// ValidateToken checks the token signature and that the session behind its
// JTI is still alive in Redis.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.jwtManager.Verify(token)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrUnauthorized, err.Error())
	}

	if _, err := s.sessions.GetSession(ctx, claims.IdentityID, claims.ID); err != nil {
		return nil, err
	}

	return claims, nil
}

// Logout revokes the current session.
func (s *AuthService) Logout(ctx context.Context, identityID int64, jti string) error {
	return s.sessions.RevokeSession(ctx, identityID, jti)
}

// LogoutAll revokes every session of the identity.
func (s *AuthService) LogoutAll(ctx context.Context, identityID int64) error {
	return s.sessions.RevokeAllSessions(ctx, identityID)
}

// Me returns the authenticated account.
func (s *AuthService) Me(ctx context.Context, identityID int64) (*auth.Identity, error) {
	return s.authRepo.FindByID(ctx, identityID)
}

// UpdateProfile patches mutable profile fields.
func (s *AuthService) UpdateProfile(ctx context.Context, identityID int64, req *auth.UpdateProfileRequest) (*auth.Identity, error) {
	if req.FullName == nil && req.Phone == nil {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "nothing to update")
	}

	if err := s.authRepo.UpdateProfile(ctx, identityID, req.FullName, req.Phone); err != nil {
		return nil, err
	}

	return s.authRepo.FindByID(ctx, identityID)
}
