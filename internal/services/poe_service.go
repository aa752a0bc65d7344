package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/poe-manager/backend/internal/config"
	"github.com/poe-manager/backend/internal/events"
	"github.com/poe-manager/backend/internal/models"
	"github.com/poe-manager/backend/internal/repositories"
	"go.uber.org/zap"
)

var (
	ErrPoeNotFound       = errors.New("POE no encontrado")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrEmptyReason       = errors.New("debe indicar un motivo de rechazo")
)

// PoeInput carries the editable content fields of a document. Lifecycle
// fields (status, version, approval, history) are owned by the engine and
// never taken from callers.
type PoeInput struct {
	Establishment        string                  `json:"establishment"`
	Code                 string                  `json:"code"`
	Title                string                  `json:"title"`
	ApplicationArea      string                  `json:"applicationArea"`
	Responsibilities     []models.Responsibility `json:"responsibilities"`
	Frequency            []string                `json:"frequency"`
	Objective            string                  `json:"objective"`
	Scope                string                  `json:"scope"`
	ProductsAndMaterials string                  `json:"productsAndMaterials"`
	Description          string                  `json:"description"`
	SafetyInstructions   string                  `json:"safetyInstructions"`
	Verification         string                  `json:"verification"`
	CorrectiveActions    string                  `json:"correctiveActions"`
	Steps                []models.Step           `json:"steps"`
	Attachments          []models.Attachment     `json:"attachments"`
}

func (in PoeInput) apply(poe *models.POE) {
	poe.Establishment = in.Establishment
	poe.Code = in.Code
	poe.Title = in.Title
	poe.ApplicationArea = in.ApplicationArea
	poe.Responsibilities = append([]models.Responsibility(nil), in.Responsibilities...)
	poe.Frequency = append([]string(nil), in.Frequency...)
	poe.Objective = in.Objective
	poe.Scope = in.Scope
	poe.ProductsAndMaterials = in.ProductsAndMaterials
	poe.Description = in.Description
	poe.SafetyInstructions = in.SafetyInstructions
	poe.Verification = in.Verification
	poe.CorrectiveActions = in.CorrectiveActions
	poe.Steps = append([]models.Step(nil), in.Steps...)
	poe.Attachments = append([]models.Attachment(nil), in.Attachments...)
}

// PoeService is the document lifecycle and versioning engine. It computes
// the full successor record for every transition and hands it to the
// repository in one step. Role policy is enforced by the caller at the HTTP
// boundary; the engine is mechanism only.
type PoeService struct {
	poeRepo   *repositories.PoeRepo
	auditRepo *repositories.AuditRepo
	publisher events.Publisher
	cfg       *config.Config
	log       *zap.Logger
}

func NewPoeService(poeRepo *repositories.PoeRepo, auditRepo *repositories.AuditRepo, publisher events.Publisher, cfg *config.Config, log *zap.Logger) *PoeService {
	return &PoeService{
		poeRepo:   poeRepo,
		auditRepo: auditRepo,
		publisher: publisher,
		cfg:       cfg,
		log:       log,
	}
}

func (s *PoeService) Get(id int) (*models.POE, error) {
	poe, ok := s.poeRepo.GetByID(id)
	if !ok {
		return nil, ErrPoeNotFound
	}
	return poe, nil
}

func (s *PoeService) List(establishment *string) []models.POE {
	return s.poeRepo.ListByEstablishment(establishment)
}

// ListPending returns the approval queue for an establishment scope.
func (s *PoeService) ListPending(establishment *string) []models.POE {
	var out []models.POE
	for _, p := range s.poeRepo.ListByEstablishment(establishment) {
		if p.Status == models.PoeStatusPending {
			out = append(out, p)
		}
	}
	return out
}

// Create mints a new document at version 1. submit selects the target status:
// draft saves skip validation unless the draft-validation policy is enabled,
// submitting always validates.
func (s *PoeService) Create(ctx context.Context, input PoeInput, actor string, submit bool) (*models.POE, error) {
	if submit || s.cfg.ValidateDrafts {
		if errs := validateInput(input); errs != nil {
			return nil, errs
		}
	}

	status := models.PoeStatusDraft
	if submit {
		status = models.PoeStatusPending
	}

	now := time.Now()
	poe := models.POE{
		Status:    status,
		Version:   1,
		CreatedBy: actor,
		CreatedAt: now,
		History: []models.VersionRecord{
			{Version: 1, ChangedBy: actor, ChangeDate: now, Changes: models.ChangeInitialCreation},
		},
	}
	input.apply(&poe)

	created, err := s.poeRepo.Create(ctx, poe)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventPoeCreated, created.ID, "", created.Status)
	return created, nil
}

// Update commits an edit: the version increments once, a history record is
// appended and the document re-enters draft or pending. Approval metadata is
// left untouched; only a fresh approve/reject cycle sets or clears it.
func (s *PoeService) Update(ctx context.Context, id int, input PoeInput, actor string, submit bool) (*models.POE, error) {
	existing, ok := s.poeRepo.GetByID(id)
	if !ok {
		return nil, ErrPoeNotFound
	}

	if submit || s.cfg.ValidateDrafts {
		if errs := validateInput(input); errs != nil {
			return nil, errs
		}
	}

	newStatus := models.PoeStatusDraft
	if submit {
		newStatus = models.PoeStatusPending
	}
	if !models.IsValidTransition(existing.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, existing.Status, newStatus)
	}

	now := time.Now()
	updated := existing.Clone()
	input.apply(updated)
	oldStatus := updated.Status
	updated.Status = newStatus
	updated.Version++
	updated.History = append(updated.History, models.VersionRecord{
		Version:    updated.Version,
		ChangedBy:  actor,
		ChangeDate: now,
		Changes:    models.ChangeUpdate,
	})

	if err := s.poeRepo.Update(ctx, *updated); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventPoeStatusChanged, updated.ID, oldStatus, updated.Status)
	return updated, nil
}

// Approve stamps the approval pair and appends a history record at the
// version being approved. Approval never increments the version.
func (s *PoeService) Approve(ctx context.Context, id int, actor string) (*models.POE, error) {
	existing, ok := s.poeRepo.GetByID(id)
	if !ok {
		return nil, ErrPoeNotFound
	}
	if !models.IsValidTransition(existing.Status, models.PoeStatusApproved) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, existing.Status, models.PoeStatusApproved)
	}

	now := time.Now()
	updated := existing.Clone()
	oldStatus := updated.Status
	updated.Status = models.PoeStatusApproved
	updated.ApprovedBy = &actor
	updated.ApprovedAt = &now
	updated.History = append(updated.History, models.VersionRecord{
		Version:    updated.Version,
		ChangedBy:  actor,
		ChangeDate: now,
		Changes:    models.ChangeApproved,
	})

	if err := s.poeRepo.Update(ctx, *updated); err != nil {
		return nil, err
	}

	if err := s.auditRepo.Append(ctx, actor, models.AuditActionApprovePoe, fmt.Sprintf("POE ID: %d - %s", updated.ID, updated.Title)); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventPoeStatusChanged, updated.ID, oldStatus, updated.Status)
	return updated, nil
}

// Reject requires a non-empty reason, clears the approval pair and records
// the reason verbatim in the history entry.
func (s *PoeService) Reject(ctx context.Context, id int, actor, reason string) (*models.POE, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrEmptyReason
	}

	existing, ok := s.poeRepo.GetByID(id)
	if !ok {
		return nil, ErrPoeNotFound
	}
	if !models.IsValidTransition(existing.Status, models.PoeStatusRejected) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, existing.Status, models.PoeStatusRejected)
	}

	now := time.Now()
	updated := existing.Clone()
	oldStatus := updated.Status
	updated.Status = models.PoeStatusRejected
	updated.ApprovedBy = nil
	updated.ApprovedAt = nil
	updated.History = append(updated.History, models.VersionRecord{
		Version:    updated.Version,
		ChangedBy:  actor,
		ChangeDate: now,
		Changes:    models.ChangeRejectedPrefix + reason,
	})

	if err := s.poeRepo.Update(ctx, *updated); err != nil {
		return nil, err
	}

	if err := s.auditRepo.Append(ctx, actor, models.AuditActionRejectPoe, fmt.Sprintf("POE ID: %d - %s. Motivo: %s", updated.ID, updated.Title, reason)); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventPoeStatusChanged, updated.ID, oldStatus, updated.Status)
	return updated, nil
}

// Delete removes the document permanently. A missing target is a silent
// no-op: the collection is unchanged and nothing is audited or published.
func (s *PoeService) Delete(ctx context.Context, id int, actor string) (bool, error) {
	removed, err := s.poeRepo.Delete(ctx, id, actor)
	if err != nil {
		return false, err
	}
	if removed {
		s.publish(ctx, events.EventPoeDeleted, id, "", "")
	}
	return removed, nil
}

func (s *PoeService) publish(ctx context.Context, eventType string, poeID int, oldStatus, newStatus string) {
	payload := map[string]any{"poe_id": poeID}
	if newStatus != "" {
		payload["old_status"] = oldStatus
		payload["new_status"] = newStatus
	}
	if err := s.publisher.Publish(ctx, events.StreamPoe, events.Event{Type: eventType, Payload: payload}); err != nil {
		s.log.Warn("failed to publish poe event", zap.String("type", eventType), zap.Error(err))
	}
}

func validateInput(input PoeInput) error {
	probe := models.POE{}
	input.apply(&probe)
	if errs := probe.Validate(); errs != nil {
		return errs
	}
	return nil
}
