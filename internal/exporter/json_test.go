package exporter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/poe-manager/backend/internal/models"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		code     string
		title    string
		expected string
	}{
		{"POE-LMP-001", "POE de Limpieza de Superficies", "POE-LMP-001_POE_de_Limpieza_de_Superficies.json"},
		{"POE-001", "Con/Barra", "POE-001_Con_Barra.json"},
		{"POE-002", `Con\Inversa`, "POE-002_Con_Inversa.json"},
		{"POE-003", "SinEspacios", "POE-003_SinEspacios.json"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			poe := &models.POE{Code: tt.code, Title: tt.title}
			if got := Filename(poe); got != tt.expected {
				t.Errorf("Filename = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestExportJSON(t *testing.T) {
	poe := &models.POE{ID: 7, Code: "POE-007", Title: "Título", Status: models.PoeStatusDraft, Version: 3}

	data, err := ExportJSON(poe)
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"id\": 7") {
		t.Error("output is not two-space indented")
	}

	var back models.POE
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.ID != 7 || back.Code != "POE-007" || back.Version != 3 {
		t.Errorf("round trip lost fields: %+v", back)
	}
}
