package models

import "time"

// Audit action labels. The display language follows the product.
const (
	AuditActionLogin          = "Inicio de sesión"
	AuditActionLogout         = "Cierre de sesión"
	AuditActionRegisterUser   = "Registro de usuario"
	AuditActionCreatePoe      = "Crear POE"
	AuditActionApprovePoe     = "Aprobar POE"
	AuditActionRejectPoe      = "Rechazar POE"
	AuditActionDeletePoe      = "Eliminar POE"
	AuditActionActivateUser   = "Activar usuario"
	AuditActionDeactivateUser = "Desactivar usuario"
)

// SystemActor attributes entries produced outside any session, e.g. a
// registration before the first login.
const SystemActor = "system"

// AuditLog is one append-only entry. Entries are never edited or deleted.
type AuditLog struct {
	ID        int       `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}
