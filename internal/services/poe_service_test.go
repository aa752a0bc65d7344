package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poe-manager/backend/internal/config"
	"github.com/poe-manager/backend/internal/events"
	"github.com/poe-manager/backend/internal/models"
	"github.com/poe-manager/backend/internal/repositories"
	"github.com/poe-manager/backend/internal/state"
	"github.com/poe-manager/backend/internal/store"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, event events.Event) error {
	p.events = append(p.events, event)
	return nil
}

func newPoeService(t *testing.T, cfg *config.Config) (*PoeService, *state.App, *recordingPublisher) {
	t.Helper()
	app := state.New(store.NewMemoryStore(), zap.NewNop())
	if err := app.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	audit := repositories.NewAuditRepo(app)
	poes := repositories.NewPoeRepo(app, audit)
	pub := &recordingPublisher{}
	return NewPoeService(poes, audit, pub, cfg, zap.NewNop()), app, pub
}

func completeInput() PoeInput {
	return PoeInput{
		Establishment:        "Planta Principal",
		Code:                 "POE-TST-003",
		Title:                "POE de Prueba",
		ApplicationArea:      "Laboratorio",
		Responsibilities:     []models.Responsibility{{ID: 1, Cargo: "Analista", Responsabilidad: "Ejecutar el procedimiento"}},
		Frequency:            []string{"Diaria"},
		Objective:            "Objetivo de prueba",
		Scope:                "Alcance de prueba",
		ProductsAndMaterials: "Materiales de prueba",
		Description:          "Descripción de prueba",
		SafetyInstructions:   "Instrucciones de seguridad",
		Verification:         "Verificación de prueba",
		CorrectiveActions:    "Acciones correctivas",
		Steps:                []models.Step{{ID: 1, Name: "Paso", Text: "Hacer algo"}},
	}
}

func TestLifecycleDraftToApproved(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newPoeService(t, &config.Config{})

	// Incomplete draft save is accepted without validation.
	incomplete := PoeInput{Title: "Borrador a medias", Establishment: "Planta Principal"}
	created, err := svc.Create(ctx, incomplete, "operador1", false)
	if err != nil {
		t.Fatalf("Create draft: %v", err)
	}
	if created.Status != models.PoeStatusDraft || created.Version != 1 {
		t.Fatalf("draft: status=%s version=%d, want draft v1", created.Status, created.Version)
	}
	if len(created.History) != 1 || created.History[0].Changes != models.ChangeInitialCreation {
		t.Fatalf("draft history = %+v", created.History)
	}

	// Submitting commits an edit: version 2, pending, second history record.
	submitted, err := svc.Update(ctx, created.ID, completeInput(), "operador1", true)
	if err != nil {
		t.Fatalf("Update submit: %v", err)
	}
	if submitted.Status != models.PoeStatusPending || submitted.Version != 2 {
		t.Fatalf("submit: status=%s version=%d, want pending v2", submitted.Status, submitted.Version)
	}
	if len(submitted.History) != 2 || submitted.History[1].Changes != models.ChangeUpdate {
		t.Fatalf("submit history = %+v", submitted.History)
	}

	// Approval stamps the pair without touching the version.
	approved, err := svc.Approve(ctx, created.ID, "verificador1")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != models.PoeStatusApproved || approved.Version != 2 {
		t.Fatalf("approve: status=%s version=%d, want approved v2", approved.Status, approved.Version)
	}
	if approved.ApprovedBy == nil || *approved.ApprovedBy != "verificador1" || approved.ApprovedAt == nil {
		t.Fatalf("approval pair not stamped: %v %v", approved.ApprovedBy, approved.ApprovedAt)
	}
	last := approved.History[len(approved.History)-1]
	if last.Changes != models.ChangeApproved || last.Version != 2 {
		t.Fatalf("approve history entry = %+v", last)
	}
}

func TestRejectRecordsReasonAndClearsApproval(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newPoeService(t, &config.Config{})

	// Seed poe 2 is pending.
	rejected, err := svc.Reject(ctx, 2, "verificador1", "contaminación cruzada")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.Status != models.PoeStatusRejected {
		t.Fatalf("status = %s, want rejected", rejected.Status)
	}
	if rejected.ApprovedBy != nil || rejected.ApprovedAt != nil {
		t.Error("approval pair should be cleared on rejection")
	}
	if rejected.Version != 1 {
		t.Errorf("version = %d, rejection must not bump it", rejected.Version)
	}

	last := rejected.History[len(rejected.History)-1]
	if !strings.Contains(last.Changes, "contaminación cruzada") {
		t.Errorf("history entry %q does not carry the reason verbatim", last.Changes)
	}
	if !strings.HasPrefix(last.Changes, models.ChangeRejectedPrefix) {
		t.Errorf("history entry %q missing reject prefix", last.Changes)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newPoeService(t, &config.Config{})

	before, _ := svc.Get(2)
	for _, reason := range []string{"", "   ", "\n\t"} {
		if _, err := svc.Reject(ctx, 2, "verificador1", reason); !errors.Is(err, ErrEmptyReason) {
			t.Errorf("Reject(%q): err = %v, want ErrEmptyReason", reason, err)
		}
	}
	after, _ := svc.Get(2)
	if before.Status != after.Status || len(before.History) != len(after.History) {
		t.Error("failed rejection modified the document")
	}
}

func TestApproveRequiresPending(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newPoeService(t, &config.Config{})

	// Seed poe 1 is already approved.
	if _, err := svc.Approve(ctx, 1, "verificador1"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Approve non-pending: err = %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.Reject(ctx, 1, "verificador1", "motivo"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Reject non-pending: err = %v, want ErrInvalidTransition", err)
	}
}

func TestSubmitValidatesInput(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newPoeService(t, &config.Config{})

	input := completeInput()
	input.Objective = ""

	_, err := svc.Create(ctx, input, "operador1", true)
	var verrs models.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("err = %v, want ValidationErrors", err)
	}
	if _, ok := verrs["objective"]; !ok {
		t.Errorf("expected objective key, got %v", verrs)
	}

	// A pending document stays pending when a submit-edit fails validation.
	before, _ := svc.Get(2)
	if _, err := svc.Update(ctx, 2, input, "operador1", true); err == nil {
		t.Fatal("expected validation failure")
	}
	after, _ := svc.Get(2)
	if after.Status != before.Status || after.Version != before.Version {
		t.Error("failed submit modified the document")
	}
}

func TestDraftValidationPolicy(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newPoeService(t, &config.Config{ValidateDrafts: true})

	_, err := svc.Create(ctx, PoeInput{Title: "incompleto"}, "operador1", false)
	var verrs models.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("err = %v, want ValidationErrors with draft validation enabled", err)
	}
}

func TestApprovedByPresentOnlyWhenApproved(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newPoeService(t, &config.Config{})

	approved, err := svc.Approve(ctx, 2, "verificador1")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.ApprovedBy == nil {
		t.Fatal("approved document missing ApprovedBy")
	}

	// Editing an approved document keeps the stale approval metadata; only a
	// rejection clears it.
	edited, err := svc.Update(ctx, 2, completeInput(), "verificador1", false)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if edited.Status != models.PoeStatusDraft {
		t.Fatalf("status = %s, want draft", edited.Status)
	}
	if edited.ApprovedBy == nil {
		t.Error("edit cleared the approval metadata")
	}
}

func TestDeletePublishesOnlyWhenRemoved(t *testing.T) {
	ctx := context.Background()
	svc, _, pub := newPoeService(t, &config.Config{})

	removed, err := svc.Delete(ctx, 999, "admin")
	if err != nil || removed {
		t.Fatalf("Delete missing: removed=%v err=%v", removed, err)
	}
	if len(pub.events) != 0 {
		t.Errorf("no-op delete published %v", pub.events)
	}

	removed, err = svc.Delete(ctx, 2, "admin")
	if err != nil || !removed {
		t.Fatalf("Delete: removed=%v err=%v", removed, err)
	}
	if len(pub.events) != 1 || pub.events[0].Type != events.EventPoeDeleted {
		t.Errorf("events = %v, want one poe deleted event", pub.events)
	}
}

func TestListPending(t *testing.T) {
	svc, _, _ := newPoeService(t, &config.Config{})

	pending := svc.ListPending(nil)
	if len(pending) != 1 || pending[0].ID != 2 {
		t.Errorf("ListPending = %v, want seed poe 2", pending)
	}

	site := "Planta Principal"
	if got := svc.ListPending(&site); len(got) != 0 {
		t.Errorf("ListPending scoped = %v, want empty", got)
	}
}
