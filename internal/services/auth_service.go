package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/poe-manager/backend/internal/auth"
	"github.com/poe-manager/backend/internal/config"
	"github.com/poe-manager/backend/internal/models"
	"github.com/poe-manager/backend/internal/repositories"
	"github.com/poe-manager/backend/internal/state"
	"go.uber.org/zap"
)

// ErrAuthFailed is deliberately generic: callers never learn whether the
// username was unknown, the password wrong or the account inactive.
var ErrAuthFailed = errors.New("credenciales inválidas")

var ErrInvalidRole = errors.New("rol inválido")

type AuthService struct {
	app       *state.App
	userRepo  *repositories.UserRepo
	auditRepo *repositories.AuditRepo
	cfg       *config.Config
	log       *zap.Logger
}

func NewAuthService(app *state.App, userRepo *repositories.UserRepo, auditRepo *repositories.AuditRepo, cfg *config.Config, log *zap.Logger) *AuthService {
	return &AuthService{app: app, userRepo: userRepo, auditRepo: auditRepo, cfg: cfg, log: log}
}

// Login authenticates against the registry and establishes the session. The
// returned token snapshots id, username and role at login time.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, ok := s.userRepo.GetByUsername(username)
	if !ok || !user.Active || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrAuthFailed
	}

	token, err := auth.GenerateJWT(s.cfg.JWTSecret, user.ID, user.Username, user.Role, s.cfg.JWTExpiration)
	if err != nil {
		return nil, "", err
	}

	// Establish the session first so a failed persist never leaves a login
	// audit entry with no session behind it.
	snapshot := user.Public()
	if err := s.app.SetCurrentUser(ctx, &snapshot); err != nil {
		return nil, "", err
	}

	if err := s.auditRepo.Append(ctx, user.Username, models.AuditActionLogin, "Usuario inició sesión en el sistema"); err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Logout audits and clears the session. Without an active session it is a
// no-op.
func (s *AuthService) Logout(ctx context.Context, username string) error {
	if username == "" || s.app.CurrentUser() == nil {
		return nil
	}
	if err := s.auditRepo.Append(ctx, username, models.AuditActionLogout, "Usuario cerró sesión en el sistema"); err != nil {
		return err
	}
	return s.app.SetCurrentUser(ctx, nil)
}

// Register creates an account. Duplicate username and email are rejected
// before insertion; the audit entry is attributed to the system actor.
func (s *AuthService) Register(ctx context.Context, username, email, password, role string) (*models.User, error) {
	if !models.IsValidRole(role) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return s.userRepo.Register(ctx, username, email, hash, role)
}

// SetCurrentEstablishment updates the session-adjacent scoping filter. Nil or
// empty means all establishments.
func (s *AuthService) SetCurrentEstablishment(ctx context.Context, establishment *string) error {
	return s.app.SetCurrentEstablishment(ctx, establishment)
}

func (s *AuthService) CurrentEstablishment() *string {
	return s.app.CurrentEstablishment()
}
