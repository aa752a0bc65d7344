package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poe-manager/backend/internal/auth"
	"github.com/poe-manager/backend/internal/config"
	"github.com/poe-manager/backend/internal/models"
	"github.com/poe-manager/backend/internal/repositories"
	"github.com/poe-manager/backend/internal/state"
	"github.com/poe-manager/backend/internal/store"
	"go.uber.org/zap"
)

func newAuthService(t *testing.T) (*AuthService, *state.App) {
	t.Helper()
	app := state.New(store.NewMemoryStore(), zap.NewNop())
	if err := app.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	audit := repositories.NewAuditRepo(app)
	users := repositories.NewUserRepo(app, audit)
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiration: time.Hour}
	return NewAuthService(app, users, audit, cfg, zap.NewNop()), app
}

func TestLoginSuccess(t *testing.T) {
	ctx := context.Background()
	svc, app := newAuthService(t)

	user, token, err := svc.Login(ctx, "admin", "admin123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Username != "admin" || user.Role != models.RoleAdmin {
		t.Errorf("unexpected user: %+v", user)
	}

	claims, err := auth.ParseJWT("test-secret", token)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != user.ID || claims.Username != "admin" || claims.Role != models.RoleAdmin {
		t.Errorf("claims do not snapshot the account: %+v", claims)
	}

	current := app.CurrentUser()
	if current == nil || current.Username != "admin" {
		t.Errorf("current user = %v, want admin", current)
	}
	if current.PasswordHash != "" {
		t.Error("session snapshot carries the password hash")
	}

	newest := app.AuditLog()[0]
	if newest.Action != models.AuditActionLogin || newest.User != "admin" {
		t.Errorf("unexpected audit entry: %+v", newest)
	}
}

func TestLoginFailuresAreGeneric(t *testing.T) {
	ctx := context.Background()
	svc, app := newAuthService(t)

	// Deactivate operador1 to cover the inactive branch.
	if err := app.UpdateUsers(ctx, func(users []models.User) ([]models.User, error) {
		for i := range users {
			if users[i].Username == "operador1" {
				users[i].Active = false
			}
		}
		return users, nil
	}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "nope"},
		{"unknown user", "fantasma", "admin123"},
		{"inactive account", "operador1", "operador123"},
		{"empty credentials", "", ""},
	}

	auditBefore := len(app.AuditLog())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(ctx, tt.username, tt.password)
			if !errors.Is(err, ErrAuthFailed) {
				t.Errorf("err = %v, want ErrAuthFailed", err)
			}
		})
	}
	if len(app.AuditLog()) != auditBefore {
		t.Error("failed logins wrote audit entries")
	}
	if app.CurrentUser() != nil {
		t.Error("failed login established a session")
	}
}

// keyFailStore rejects writes to one key and passes everything else through.
type keyFailStore struct {
	store.Store
	failKey string
}

var errSessionSave = errors.New("save rejected")

func (s keyFailStore) Save(ctx context.Context, key string, value []byte) error {
	if key == s.failKey {
		return errSessionSave
	}
	return s.Store.Save(ctx, key, value)
}

func TestLoginFailedSessionPersistLeavesNoAuditEntry(t *testing.T) {
	ctx := context.Background()
	st := keyFailStore{Store: store.NewMemoryStore(), failKey: store.KeyCurrentUser}
	app := state.New(st, zap.NewNop())
	if err := app.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	audit := repositories.NewAuditRepo(app)
	users := repositories.NewUserRepo(app, audit)
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiration: time.Hour}
	svc := NewAuthService(app, users, audit, cfg, zap.NewNop())

	auditBefore := len(app.AuditLog())
	if _, _, err := svc.Login(ctx, "admin", "admin123"); !errors.Is(err, errSessionSave) {
		t.Fatalf("err = %v, want the session persist failure", err)
	}
	if len(app.AuditLog()) != auditBefore {
		t.Error("failed login left a login audit entry behind")
	}
	if app.CurrentUser() != nil {
		t.Error("failed persist still established a session")
	}
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc, app := newAuthService(t)

	// Without a session, logout is a no-op.
	auditBefore := len(app.AuditLog())
	if err := svc.Logout(ctx, "admin"); err != nil {
		t.Fatalf("Logout without session: %v", err)
	}
	if len(app.AuditLog()) != auditBefore {
		t.Error("no-op logout wrote an audit entry")
	}

	if _, _, err := svc.Login(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Logout(ctx, "admin"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if app.CurrentUser() != nil {
		t.Error("session not cleared on logout")
	}
	newest := app.AuditLog()[0]
	if newest.Action != models.AuditActionLogout {
		t.Errorf("unexpected audit entry: %+v", newest)
	}
}

func TestRegisterValidatesRole(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	if _, err := svc.Register(ctx, "nuevo", "nuevo@empresa.com", "clave123", "superuser"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("err = %v, want ErrInvalidRole", err)
	}

	created, err := svc.Register(ctx, "nuevo", "nuevo@empresa.com", "clave123", models.RoleVerifier)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if created.Role != models.RoleVerifier || !created.Active {
		t.Errorf("unexpected account: %+v", created)
	}
	if !auth.CheckPassword(created.PasswordHash, "clave123") {
		t.Error("stored hash does not verify the password")
	}
}

func TestSetCurrentEstablishment(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	site := "Planta Principal"
	if err := svc.SetCurrentEstablishment(ctx, &site); err != nil {
		t.Fatalf("SetCurrentEstablishment: %v", err)
	}
	if got := svc.CurrentEstablishment(); got == nil || *got != site {
		t.Errorf("CurrentEstablishment = %v, want %q", got, site)
	}

	empty := ""
	if err := svc.SetCurrentEstablishment(ctx, &empty); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if svc.CurrentEstablishment() != nil {
		t.Error("empty establishment should clear the scope")
	}
}
