package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// POE statuses
const (
	PoeStatusDraft    = "draft"
	PoeStatusPending  = "pending"
	PoeStatusApproved = "approved"
	PoeStatusRejected = "rejected"
)

// Valid state transitions: from -> []to.
// There is no terminal status: approved and rejected documents accept a new
// edit, which re-enters draft or pending depending on the save action.
var ValidStatusTransitions = map[string][]string{
	PoeStatusDraft:    {PoeStatusDraft, PoeStatusPending},
	PoeStatusPending:  {PoeStatusDraft, PoeStatusPending, PoeStatusApproved, PoeStatusRejected},
	PoeStatusApproved: {PoeStatusDraft, PoeStatusPending},
	PoeStatusRejected: {PoeStatusDraft, PoeStatusPending},
}

func IsValidTransition(from, to string) bool {
	allowed, ok := ValidStatusTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// History change descriptions
const (
	ChangeInitialCreation = "Creación inicial"
	ChangeUpdate          = "Actualización"
	ChangeApproved        = "POE aprobado"
	ChangeRejectedPrefix  = "POE rechazado. Motivo: "
)

type Step struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Text  string  `json:"text"`
	Image *string `json:"image,omitempty"`
}

type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Responsibility struct {
	ID              int    `json:"id"`
	Cargo           string `json:"cargo"`
	Responsabilidad string `json:"responsabilidad"`
}

// VersionRecord is one immutable history entry attached to a POE capturing a
// single lifecycle or content change.
type VersionRecord struct {
	Version    int       `json:"version"`
	ChangedBy  string    `json:"changedBy"`
	ChangeDate time.Time `json:"changeDate"`
	Changes    string    `json:"changes"`
}

// POE is a Standard Operating Procedure document scoped to an establishment.
type POE struct {
	ID                   int              `json:"id"`
	Establishment        string           `json:"establishment"`
	Code                 string           `json:"code"`
	Title                string           `json:"title"`
	ApplicationArea      string           `json:"applicationArea"`
	Responsibilities     []Responsibility `json:"responsibilities"`
	Frequency            []string         `json:"frequency"`
	Objective            string           `json:"objective"`
	Scope                string           `json:"scope"`
	ProductsAndMaterials string           `json:"productsAndMaterials"`
	Description          string           `json:"description"`
	SafetyInstructions   string           `json:"safetyInstructions"`
	Verification         string           `json:"verification"`
	CorrectiveActions    string           `json:"correctiveActions"`
	Steps                []Step           `json:"steps"`
	Attachments          []Attachment     `json:"attachments"`
	Status               string           `json:"status"`
	Version              int              `json:"version"`
	CreatedBy            string           `json:"createdBy"`
	CreatedAt            time.Time        `json:"createdAt"`
	ApprovedBy           *string          `json:"approvedBy"`
	ApprovedAt           *time.Time       `json:"approvedAt"`
	History              []VersionRecord  `json:"history"`
}

// Clone returns a deep copy. Lifecycle transitions mutate a copy and swap the
// whole record in one step, so a failed transition never leaves a half-updated
// document behind.
func (p *POE) Clone() *POE {
	c := *p
	c.Responsibilities = append([]Responsibility(nil), p.Responsibilities...)
	c.Frequency = append([]string(nil), p.Frequency...)
	c.Steps = append([]Step(nil), p.Steps...)
	c.Attachments = append([]Attachment(nil), p.Attachments...)
	c.History = append([]VersionRecord(nil), p.History...)
	if p.ApprovedBy != nil {
		v := *p.ApprovedBy
		c.ApprovedBy = &v
	}
	if p.ApprovedAt != nil {
		v := *p.ApprovedAt
		c.ApprovedAt = &v
	}
	return &c
}

// ValidationErrors maps a field key to its user-facing message. Step and
// responsibility keys are indexed, e.g. "step_0_name".
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validación fallida: " + strings.Join(keys, ", ")
}

// Validate checks the mandatory fields required before a POE may enter
// pending. Drafts are allowed to be incomplete; callers decide when to run
// this.
func (p *POE) Validate() ValidationErrors {
	errs := ValidationErrors{}

	require := func(key, value, label string) {
		if strings.TrimSpace(value) == "" {
			errs[key] = fmt.Sprintf("El campo %q es obligatorio.", label)
		}
	}

	require("establishment", p.Establishment, "Nombre del Establecimiento")
	require("code", p.Code, "Código")
	require("title", p.Title, "Título/Nombre del POE")
	require("applicationArea", p.ApplicationArea, "Área de aplicación")
	require("objective", p.Objective, "Objetivo")
	require("scope", p.Scope, "Alcance")
	require("productsAndMaterials", p.ProductsAndMaterials, "Productos y materiales")
	require("description", p.Description, "Descripción")
	require("safetyInstructions", p.SafetyInstructions, "Instrucciones de seguridad y EPI")
	require("verification", p.Verification, "Verificación y registro")
	require("correctiveActions", p.CorrectiveActions, "Acciones correctivas")

	if len(p.Responsibilities) == 0 {
		errs["responsibilities"] = "Debe agregar al menos una responsabilidad."
	}
	for i, r := range p.Responsibilities {
		if strings.TrimSpace(r.Cargo) == "" {
			errs[fmt.Sprintf("responsibility_%d_cargo", i)] = "El cargo es obligatorio."
		}
		if strings.TrimSpace(r.Responsabilidad) == "" {
			errs[fmt.Sprintf("responsibility_%d_responsabilidad", i)] = "La responsabilidad es obligatoria."
		}
	}

	if len(p.Frequency) == 0 {
		errs["frequency"] = "Debe seleccionar al menos una \"Frecuencia\"."
	}

	for i, step := range p.Steps {
		if strings.TrimSpace(step.Name) == "" {
			errs[fmt.Sprintf("step_%d_name", i)] = "El nombre del paso es obligatorio."
		}
		if strings.TrimSpace(step.Text) == "" {
			errs[fmt.Sprintf("step_%d_text", i)] = "La descripción del paso es obligatoria."
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
