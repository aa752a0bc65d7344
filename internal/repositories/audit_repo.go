package repositories

import (
	"context"
	"time"

	"github.com/poe-manager/backend/internal/models"
	"github.com/poe-manager/backend/internal/state"
)

// AuditRepo appends to the process-wide audit trail. Entries are write-only
// from the perspective of every other component.
type AuditRepo struct {
	app *state.App
}

func NewAuditRepo(app *state.App) *AuditRepo {
	return &AuditRepo{app: app}
}

// Append records one entry with the next identifier and the current time.
// New entries are prepended so the stored order doubles as the display order
// (newest first) while identifiers keep increasing.
func (r *AuditRepo) Append(ctx context.Context, user, action, details string) error {
	return r.app.UpdateAuditLog(ctx, func(entries []models.AuditLog) ([]models.AuditLog, error) {
		entry := models.AuditLog{
			ID:        nextAuditID(entries),
			Timestamp: time.Now(),
			User:      user,
			Action:    action,
			Details:   details,
		}
		return append([]models.AuditLog{entry}, entries...), nil
	})
}

// List returns the trail newest first. A negative offset reads from the
// start; limit <= 0 means no cap.
func (r *AuditRepo) List(limit, offset int) []models.AuditLog {
	entries := r.app.AuditLog()
	if offset < 0 {
		offset = 0
	}
	if offset >= len(entries) {
		return nil
	}
	entries = entries[offset:]
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries
}

func nextAuditID(entries []models.AuditLog) int {
	max := 0
	for _, e := range entries {
		if e.ID > max {
			max = e.ID
		}
	}
	return max + 1
}
