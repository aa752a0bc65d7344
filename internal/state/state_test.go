package state

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/poe-manager/backend/internal/models"
	"github.com/poe-manager/backend/internal/store"
	"go.uber.org/zap"
)

func newLoaded(t *testing.T, st store.Store) *App {
	t.Helper()
	app := New(st, zap.NewNop())
	if err := app.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return app
}

func TestLoadSeedsEmptyStore(t *testing.T) {
	app := newLoaded(t, store.NewMemoryStore())

	users := app.Users()
	if len(users) != 4 {
		t.Fatalf("expected 4 seed users, got %d", len(users))
	}
	if users[0].Username != "admin" {
		t.Errorf("first seed user = %q, want admin", users[0].Username)
	}

	poes := app.Poes()
	if len(poes) != 2 {
		t.Fatalf("expected 2 seed poes, got %d", len(poes))
	}
	if poes[0].Code != "POE-LMP-001" || poes[0].Status != models.PoeStatusApproved {
		t.Errorf("unexpected first seed poe: %s %s", poes[0].Code, poes[0].Status)
	}
	if poes[1].Status != models.PoeStatusPending {
		t.Errorf("second seed poe status = %q, want pending", poes[1].Status)
	}

	audit := app.AuditLog()
	if len(audit) != 4 {
		t.Fatalf("expected 4 seed audit entries, got %d", len(audit))
	}

	if app.CurrentUser() != nil {
		t.Error("expected no current user on fresh store")
	}
	if app.CurrentEstablishment() != nil {
		t.Error("expected no current establishment on fresh store")
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	first := newLoaded(t, st)
	err := first.UpdatePoes(ctx, func(poes []models.POE) ([]models.POE, error) {
		poes[1].Status = models.PoeStatusApproved
		return poes, nil
	})
	if err != nil {
		t.Fatalf("UpdatePoes: %v", err)
	}
	est := "Planta Principal"
	if err := first.SetCurrentEstablishment(ctx, &est); err != nil {
		t.Fatalf("SetCurrentEstablishment: %v", err)
	}

	// A second App on the same store must see an identical world.
	second := newLoaded(t, st)
	if !reflect.DeepEqual(first.Poes(), second.Poes()) {
		t.Error("poes do not round-trip through the store")
	}
	if got := second.CurrentEstablishment(); got == nil || *got != est {
		t.Errorf("current establishment = %v, want %q", got, est)
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	app := newLoaded(t, store.NewMemoryStore())

	snap := app.Poes()
	snap[0].Title = "mutated"
	snap[0].Steps[0].Name = "mutated"

	fresh := app.Poes()
	if fresh[0].Title == "mutated" || fresh[0].Steps[0].Name == "mutated" {
		t.Error("mutating a snapshot leaked into the state")
	}
}

// failingStore accepts loads but rejects writes.
type failingStore struct {
	store.Store
}

var errDiskFull = errors.New("disk full")

func (failingStore) Save(context.Context, string, []byte) error { return errDiskFull }

func TestUpdateLeavesMemoryUntouchedOnStoreFailure(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	app := newLoaded(t, mem)

	before := app.Poes()

	app.store = failingStore{Store: mem}
	err := app.UpdatePoes(ctx, func(poes []models.POE) ([]models.POE, error) {
		poes[0].Title = "mutated"
		return poes, nil
	})
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("expected store failure, got %v", err)
	}

	if !reflect.DeepEqual(before, app.Poes()) {
		t.Error("failed persist still mutated the in-memory collection")
	}
}

func TestSetCurrentUserClearsOnNil(t *testing.T) {
	ctx := context.Background()
	app := newLoaded(t, store.NewMemoryStore())

	u := models.User{ID: 1, Username: "admin", Role: models.RoleAdmin}
	if err := app.SetCurrentUser(ctx, &u); err != nil {
		t.Fatalf("SetCurrentUser: %v", err)
	}
	if got := app.CurrentUser(); got == nil || got.Username != "admin" {
		t.Fatalf("CurrentUser = %v, want admin", got)
	}

	if err := app.SetCurrentUser(ctx, nil); err != nil {
		t.Fatalf("SetCurrentUser(nil): %v", err)
	}
	if app.CurrentUser() != nil {
		t.Error("expected current user cleared")
	}
}
