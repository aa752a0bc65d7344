package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/poe-manager/backend/internal/models"
	"github.com/poe-manager/backend/internal/state"
)

var (
	ErrDuplicateUsername = errors.New("el nombre de usuario ya existe")
	ErrDuplicateEmail    = errors.New("el email ya está registrado")
)

type UserRepo struct {
	app   *state.App
	audit *AuditRepo
}

func NewUserRepo(app *state.App, audit *AuditRepo) *UserRepo {
	return &UserRepo{app: app, audit: audit}
}

func (r *UserRepo) List() []models.User {
	return r.app.Users()
}

func (r *UserRepo) GetByUsername(username string) (*models.User, bool) {
	for _, u := range r.app.Users() {
		if u.Username == username {
			return &u, true
		}
	}
	return nil, false
}

func (r *UserRepo) GetByID(id int) (*models.User, bool) {
	for _, u := range r.app.Users() {
		if u.ID == id {
			return &u, true
		}
	}
	return nil, false
}

// Register inserts a new account. Username and email collisions are checked
// before insertion, exact and case-sensitive. The audit entry is attributed to
// the system actor since no session exists yet.
func (r *UserRepo) Register(ctx context.Context, username, email, passwordHash, role string) (*models.User, error) {
	var created models.User
	err := r.app.UpdateUsers(ctx, func(users []models.User) ([]models.User, error) {
		maxID := 0
		for _, u := range users {
			if u.Username == username {
				return nil, ErrDuplicateUsername
			}
			if u.Email == email {
				return nil, ErrDuplicateEmail
			}
			if u.ID > maxID {
				maxID = u.ID
			}
		}
		created = models.User{
			ID:           maxID + 1,
			Username:     username,
			Email:        email,
			PasswordHash: passwordHash,
			Role:         role,
			Registered:   time.Now(),
			Active:       true,
		}
		return append(users, created), nil
	})
	if err != nil {
		return nil, err
	}

	if err := r.audit.Append(ctx, models.SystemActor, models.AuditActionRegisterUser, fmt.Sprintf("Nuevo usuario registrado: %s", username)); err != nil {
		return nil, err
	}
	return &created, nil
}

// SetActive flips the active flag. A missing target is a silent no-op; the
// returned user is nil in that case and nothing is audited by the caller.
func (r *UserRepo) SetActive(ctx context.Context, id int, active bool) (*models.User, error) {
	var updated *models.User
	err := r.app.UpdateUsers(ctx, func(users []models.User) ([]models.User, error) {
		for i := range users {
			if users[i].ID == id {
				users[i].Active = active
				u := users[i]
				updated = &u
				break
			}
		}
		return users, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
