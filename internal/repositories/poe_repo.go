package repositories

import (
	"context"
	"fmt"

	"github.com/poe-manager/backend/internal/models"
	"github.com/poe-manager/backend/internal/state"
)

// PoeRepo owns the document collection and delegates audit logging for the
// paths that log. Generic updates intentionally do not audit; the document's
// own history covers content changes.
type PoeRepo struct {
	app   *state.App
	audit *AuditRepo
}

func NewPoeRepo(app *state.App, audit *AuditRepo) *PoeRepo {
	return &PoeRepo{app: app, audit: audit}
}

func (r *PoeRepo) GetByID(id int) (*models.POE, bool) {
	for _, p := range r.app.Poes() {
		if p.ID == id {
			return &p, true
		}
	}
	return nil, false
}

// ListByEstablishment filters by site. A nil or empty establishment means all.
func (r *PoeRepo) ListByEstablishment(establishment *string) []models.POE {
	poes := r.app.Poes()
	if establishment == nil || *establishment == "" {
		return poes
	}
	var out []models.POE
	for _, p := range poes {
		if p.Establishment == *establishment {
			out = append(out, p)
		}
	}
	return out
}

// Create assigns the next identifier, inserts and audits the creation.
func (r *PoeRepo) Create(ctx context.Context, poe models.POE) (*models.POE, error) {
	err := r.app.UpdatePoes(ctx, func(poes []models.POE) ([]models.POE, error) {
		maxID := 0
		for _, p := range poes {
			if p.ID > maxID {
				maxID = p.ID
			}
		}
		poe.ID = maxID + 1
		return append(poes, poe), nil
	})
	if err != nil {
		return nil, err
	}

	if err := r.audit.Append(ctx, poe.CreatedBy, models.AuditActionCreatePoe, fmt.Sprintf("POE ID: %d - %s", poe.ID, poe.Title)); err != nil {
		return nil, err
	}
	return &poe, nil
}

// Update replaces the record matching the identifier. The caller is
// responsible for having run the lifecycle engine to produce the new state.
// A missing target is a silent no-op, and no audit entry is written.
func (r *PoeRepo) Update(ctx context.Context, poe models.POE) error {
	return r.app.UpdatePoes(ctx, func(poes []models.POE) ([]models.POE, error) {
		for i := range poes {
			if poes[i].ID == poe.ID {
				poes[i] = poe
				break
			}
		}
		return poes, nil
	})
}

// Delete removes the document permanently and audits the removal with the
// acting user. When the target does not exist nothing changes and nothing is
// logged.
func (r *PoeRepo) Delete(ctx context.Context, id int, actor string) (bool, error) {
	var removed *models.POE
	err := r.app.UpdatePoes(ctx, func(poes []models.POE) ([]models.POE, error) {
		for i := range poes {
			if poes[i].ID == id {
				p := poes[i]
				removed = &p
				return append(poes[:i], poes[i+1:]...), nil
			}
		}
		return poes, nil
	})
	if err != nil {
		return false, err
	}
	if removed == nil {
		return false, nil
	}

	if err := r.audit.Append(ctx, actor, models.AuditActionDeletePoe, fmt.Sprintf("POE ID: %d - %s", id, removed.Title)); err != nil {
		return true, err
	}
	return true, nil
}
