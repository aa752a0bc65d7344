package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/poe-manager/backend/internal/models"
	"github.com/poe-manager/backend/internal/repositories"
	"github.com/poe-manager/backend/internal/state"
	"github.com/poe-manager/backend/internal/store"
	"go.uber.org/zap"
)

func newAuditApp(t *testing.T) *fiber.App {
	t.Helper()
	st := state.New(store.NewMemoryStore(), zap.NewNop())
	if err := st.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	handler := NewAuditHandler(repositories.NewAuditRepo(st), zap.NewNop())

	app := fiber.New()
	app.Get("/audit", handler.List)
	return app
}

func listAudit(t *testing.T, app *fiber.App, url string) (int, []models.AuditLog) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", url, nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		OK   bool              `json:"ok"`
		Data []models.AuditLog `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.StatusCode, body.Data
}

func TestAuditListQueryParams(t *testing.T) {
	app := newAuditApp(t)

	tests := []struct {
		name     string
		url      string
		expected int
	}{
		{"defaults", "/audit", 4},
		{"limit", "/audit?limit=2", 2},
		{"offset", "/audit?offset=3", 1},
		{"negative offset falls back to default", "/audit?offset=-1", 4},
		{"negative limit falls back to default", "/audit?limit=-5", 4},
		{"garbage values fall back to default", "/audit?limit=abc&offset=xyz", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, entries := listAudit(t, app, tt.url)
			if status != fiber.StatusOK {
				t.Fatalf("status = %d, want 200", status)
			}
			if len(entries) != tt.expected {
				t.Errorf("got %d entries, want %d", len(entries), tt.expected)
			}
		})
	}
}
