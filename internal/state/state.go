// Package state owns the in-memory collections behind the workflow. It is the
// explicit application-state struct the rest of the system receives by
// reference: loaded from the store at boot, flushed key-by-key on every
// mutation, never held in package-level globals.
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/poe-manager/backend/internal/models"
	"github.com/poe-manager/backend/internal/seed"
	"github.com/poe-manager/backend/internal/store"
	"go.uber.org/zap"
)

type App struct {
	store store.Store
	log   *zap.Logger

	mu                   sync.RWMutex
	users                []models.User
	poes                 []models.POE
	auditLog             []models.AuditLog
	currentUser          *models.User
	currentEstablishment *string
}

func New(st store.Store, log *zap.Logger) *App {
	return &App{store: st, log: log}
}

// Load reads every persisted key. An absent collection key falls back to the
// seed dataset; absent session keys fall back to null.
func (a *App) Load(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := loadKey(ctx, a.store, store.KeyUsers, &a.users, seed.Users); err != nil {
		return err
	}
	if err := loadKey(ctx, a.store, store.KeyPoes, &a.poes, seed.Poes); err != nil {
		return err
	}
	if err := loadKey(ctx, a.store, store.KeyAuditLog, &a.auditLog, seed.AuditLog); err != nil {
		return err
	}

	if err := loadOptional(ctx, a.store, store.KeyCurrentUser, &a.currentUser); err != nil {
		return err
	}
	if err := loadOptional(ctx, a.store, store.KeyCurrentEstablishment, &a.currentEstablishment); err != nil {
		return err
	}

	a.log.Info("state loaded",
		zap.Int("users", len(a.users)),
		zap.Int("poes", len(a.poes)),
		zap.Int("audit_entries", len(a.auditLog)),
	)
	return nil
}

func loadKey[T any](ctx context.Context, st store.Store, key string, dst *[]T, fallback func() []T) error {
	data, err := st.Load(ctx, key)
	if err == store.ErrNotFound {
		*dst = fallback()
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func loadOptional[T any](ctx context.Context, st store.Store, key string, dst **T) error {
	data, err := st.Load(ctx, key)
	if err == store.ErrNotFound {
		*dst = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	*dst = &v
	return nil
}

// --- snapshot reads ---

func (a *App) Users() []models.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]models.User(nil), a.users...)
}

func (a *App) Poes() []models.POE {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]models.POE, len(a.poes))
	for i := range a.poes {
		out[i] = *a.poes[i].Clone()
	}
	return out
}

func (a *App) AuditLog() []models.AuditLog {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]models.AuditLog(nil), a.auditLog...)
}

func (a *App) CurrentUser() *models.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.currentUser == nil {
		return nil
	}
	u := *a.currentUser
	return &u
}

func (a *App) CurrentEstablishment() *string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.currentEstablishment == nil {
		return nil
	}
	v := *a.currentEstablishment
	return &v
}

// --- mutations ---
//
// Each Update* applies fn to a copy of the collection, persists the result and
// only then swaps it in. A store failure leaves the in-memory state untouched,
// so a transition either fully applies or does not execute.

func (a *App) UpdateUsers(ctx context.Context, fn func([]models.User) ([]models.User, error)) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	next, err := fn(append([]models.User(nil), a.users...))
	if err != nil {
		return err
	}
	if err := a.flush(ctx, store.KeyUsers, next); err != nil {
		return err
	}
	a.users = next
	return nil
}

func (a *App) UpdatePoes(ctx context.Context, fn func([]models.POE) ([]models.POE, error)) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	next, err := fn(append([]models.POE(nil), a.poes...))
	if err != nil {
		return err
	}
	if err := a.flush(ctx, store.KeyPoes, next); err != nil {
		return err
	}
	a.poes = next
	return nil
}

func (a *App) UpdateAuditLog(ctx context.Context, fn func([]models.AuditLog) ([]models.AuditLog, error)) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	next, err := fn(append([]models.AuditLog(nil), a.auditLog...))
	if err != nil {
		return err
	}
	if err := a.flush(ctx, store.KeyAuditLog, next); err != nil {
		return err
	}
	a.auditLog = next
	return nil
}

func (a *App) SetCurrentUser(ctx context.Context, u *models.User) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if u == nil {
		if err := a.store.Delete(ctx, store.KeyCurrentUser); err != nil {
			return err
		}
		a.currentUser = nil
		return nil
	}
	if err := a.flush(ctx, store.KeyCurrentUser, u); err != nil {
		return err
	}
	snapshot := *u
	a.currentUser = &snapshot
	return nil
}

func (a *App) SetCurrentEstablishment(ctx context.Context, establishment *string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if establishment == nil || *establishment == "" {
		if err := a.store.Delete(ctx, store.KeyCurrentEstablishment); err != nil {
			return err
		}
		a.currentEstablishment = nil
		return nil
	}
	if err := a.flush(ctx, store.KeyCurrentEstablishment, establishment); err != nil {
		return err
	}
	v := *establishment
	a.currentEstablishment = &v
	return nil
}

func (a *App) flush(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := a.store.Save(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
