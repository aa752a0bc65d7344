package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/poe-manager/backend/internal/models"
	"go.uber.org/zap"
)

func reviewPoe() *models.POE {
	return &models.POE{
		Title:                "POE de Limpieza",
		Code:                 "POE-LMP-001",
		Objective:            "Limpiar superficies",
		Scope:                "Área de producción",
		Responsibilities:     []models.Responsibility{{Cargo: "Operario", Responsabilidad: "Ejecutar la limpieza"}},
		Frequency:            []string{"Diaria", "Semanal"},
		ProductsAndMaterials: "Desinfectante",
		SafetyInstructions:   "Usar guantes",
		Description:          "Procedimiento de limpieza",
		Steps:                []models.Step{{Name: "Preparación", Text: "Preparar la solución"}},
		Verification:         "Inspección visual",
		CorrectiveActions:    "Repetir la limpieza",
	}
}

func TestBuildReviewPrompt(t *testing.T) {
	prompt := buildReviewPrompt(reviewPoe())

	wants := []string{
		"auditor experto",
		"Título: POE de Limpieza",
		"Código: POE-LMP-001",
		"Frecuencia: Diaria, Semanal",
		"- Cargo: Operario",
		"1. Preparación: Preparar la solución",
		"formato Markdown",
	}
	for _, want := range wants {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGenerateSuggestions(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/generate" {
			t.Errorf("path = %s, want /v1/generate", r.URL.Path)
		}
		var req generateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotPrompt = req.Prompt
		_ = json.NewEncoder(w).Encode(generateResponse{Text: "## Informe\nTodo bien."})
	}))
	defer srv.Close()

	client := NewReviewClient(srv.URL, time.Second, zap.NewNop())
	text, err := client.GenerateSuggestions(context.Background(), reviewPoe())
	if err != nil {
		t.Fatalf("GenerateSuggestions: %v", err)
	}
	if text != "## Informe\nTodo bien." {
		t.Errorf("text = %q", text)
	}
	if !strings.Contains(gotPrompt, "POE-LMP-001") {
		t.Error("request prompt missing the document dump")
	}
}

func TestGenerateSuggestionsFailures(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		client := NewReviewClient("", time.Second, zap.NewNop())
		if client.Enabled() {
			t.Error("Enabled() with empty URL")
		}
		if _, err := client.GenerateSuggestions(context.Background(), reviewPoe()); !errors.Is(err, ErrReviewUnavailable) {
			t.Errorf("err = %v, want ErrReviewUnavailable", err)
		}
	})

	t.Run("upstream error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewReviewClient(srv.URL, time.Second, zap.NewNop())
		if _, err := client.GenerateSuggestions(context.Background(), reviewPoe()); !errors.Is(err, ErrReviewUnavailable) {
			t.Errorf("err = %v, want ErrReviewUnavailable", err)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		client := NewReviewClient("http://127.0.0.1:1", 100*time.Millisecond, zap.NewNop())
		if _, err := client.GenerateSuggestions(context.Background(), reviewPoe()); !errors.Is(err, ErrReviewUnavailable) {
			t.Errorf("err = %v, want ErrReviewUnavailable", err)
		}
	})
}
