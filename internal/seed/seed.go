// Package seed holds the fixed dataset loaded when a store key is absent,
// e.g. on first boot against an empty data directory.
package seed

import (
	"time"

	"github.com/poe-manager/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

func mustHash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}

func date(value string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", value)
	if err != nil {
		t, err = time.Parse("2006-01-02", value)
		if err != nil {
			panic(err)
		}
	}
	return t
}

func ptr[T any](v T) *T { return &v }

// Users returns the initial user registry. Secrets are hashed at seed time.
func Users() []models.User {
	return []models.User{
		{ID: 1, Username: "admin", Email: "admin@empresa.com", PasswordHash: mustHash("admin123"), Role: models.RoleAdmin, Registered: date("2023-01-01"), Active: true},
		{ID: 2, Username: "operador1", Email: "operador1@empresa.com", PasswordHash: mustHash("operador123"), Role: models.RoleOperator, Registered: date("2023-01-02"), Active: true},
		{ID: 3, Username: "verificador1", Email: "verificador1@empresa.com", PasswordHash: mustHash("verificador123"), Role: models.RoleVerifier, Registered: date("2023-01-03"), Active: true},
		{ID: 4, Username: "auditor1", Email: "auditor1@empresa.com", PasswordHash: mustHash("auditor123"), Role: models.RoleAuditor, Registered: date("2023-01-04"), Active: true},
	}
}

// Poes returns the initial document collection.
func Poes() []models.POE {
	return []models.POE{
		{
			ID:              1,
			Establishment:   "Planta Principal",
			Code:            "POE-LMP-001",
			Title:           "POE de Limpieza de Superficies",
			ApplicationArea: "Áreas de producción",
			Responsibilities: []models.Responsibility{
				{ID: 1, Cargo: "Personal de limpieza", Responsabilidad: "Ejecutar la limpieza y desinfección según el procedimiento."},
				{ID: 2, Cargo: "Supervisor de turno", Responsabilidad: "Verificar el cumplimiento y registrar los resultados."},
			},
			Frequency:            []string{"Diaria"},
			Objective:            "Establecer el procedimiento para la limpieza y desinfección de superficies en áreas de producción",
			Scope:                "Aplica a todo el personal de limpieza y operarios de las áreas de producción.",
			ProductsAndMaterials: "Desinfectante clorado, Agua, Recipientes medidores, Paños de microfibra limpios, Guantes de nitrilo, Gafas de seguridad",
			Description:          "Procedimiento detallado para la limpieza y desinfección de todas las superficies en contacto con alimentos y no contacto en las áreas de producción.",
			SafetyInstructions:   "Uso obligatorio de guantes y gafas de seguridad. Ventilar el área durante la aplicación de productos químicos.",
			Verification:         "El supervisor de turno verificará visualmente la limpieza y realizará pruebas de ATP semanalmente.",
			CorrectiveActions:    "En caso de no conformidad, repetir el procedimiento de limpieza y notificar al supervisor. Si persisten los problemas, re-capacitar al personal.",
			Steps: []models.Step{
				{ID: 1, Name: "Preparación", Text: "Preparar la solución desinfectante según las indicaciones del fabricante."},
				{ID: 2, Name: "Aplicación", Text: "Aplicar la solución en todas las superficies designadas utilizando un paño limpio."},
				{ID: 3, Name: "Tiempo de Contacto", Text: "Dejar que la solución actúe sobre las superficies durante el tiempo de contacto requerido (10 minutos)."},
				{ID: 4, Name: "Enjuague", Text: "Enjuagar las superficies con agua potable si es requerido por el tipo de desinfectante."},
			},
			Attachments: []models.Attachment{},
			Status:      models.PoeStatusApproved,
			Version:     1,
			CreatedBy:   "operador1",
			CreatedAt:   date("2023-06-01T10:30:00"),
			ApprovedBy:  ptr("verificador1"),
			ApprovedAt:  ptr(date("2023-06-02T14:20:00")),
			History: []models.VersionRecord{
				{Version: 1, ChangedBy: "operador1", ChangeDate: date("2023-06-01T10:30:00"), Changes: models.ChangeInitialCreation},
			},
		},
		{
			ID:              2,
			Establishment:   "Área de Procesamiento",
			Code:            "POE-SAN-002",
			Title:           "POE de Sanitización de Equipos",
			ApplicationArea: "Equipos de procesamiento de alimentos",
			Responsibilities: []models.Responsibility{
				{ID: 1, Cargo: "Operario de línea", Responsabilidad: "Desmontar, limpiar y sanitizar los equipos asignados."},
			},
			Frequency:            []string{"Semanal"},
			Objective:            "Definir el proceso de sanitización de equipos de procesamiento para garantizar la inocuidad de los productos",
			Scope:                "Aplica a todos los equipos de la línea de producción 2.",
			ProductsAndMaterials: "Detergente alcalino, Sanitizante a base de amonio cuaternario, Cepillos de nylon, Tiras reactivas, Agua potable, Herramientas para desmontaje, Equipo de protección personal completo (guantes, botas, delantal impermeable, gafas).",
			Description:          "Procedimiento para la sanitización de equipos de procesamiento, incluyendo desmontaje, limpieza, enjuague y aplicación de sanitizante.",
			SafetyInstructions:   "Desconectar equipos de la fuente de energía antes de iniciar. Utilizar equipo de protección personal completo (guantes, botas, delantal impermeable, gafas).",
			Verification:         "Inspección visual post-limpieza. Verificación de concentración de sanitizante con tiras reactivas.",
			CorrectiveActions:    "Si la concentración de sanitizante es incorrecta, ajustar la dilución. Si se observa suciedad residual, repetir el proceso de limpieza.",
			Steps: []models.Step{
				{ID: 1, Name: "Desmontaje", Text: "Desmontar las partes removibles de los equipos según el manual del fabricante."},
				{ID: 2, Name: "Limpieza Profunda", Text: "Lavar todas las partes con solución detergente y cepillos para remover residuos orgánicos."},
				{ID: 3, Name: "Enjuague Inicial", Text: "Enjuagar abundantemente con agua potable para eliminar todo el detergente."},
				{ID: 4, Name: "Sanitización", Text: "Aplicar la solución sanitizante en todas las superficies y verificar su concentración."},
				{ID: 5, Name: "Montaje", Text: "Dejar secar al aire y volver a montar los equipos."},
			},
			Attachments: []models.Attachment{},
			Status:      models.PoeStatusPending,
			Version:     1,
			CreatedBy:   "operador1",
			CreatedAt:   date("2023-06-10T09:15:00"),
			History: []models.VersionRecord{
				{Version: 1, ChangedBy: "operador1", ChangeDate: date("2023-06-10T09:15:00"), Changes: models.ChangeInitialCreation},
			},
		},
	}
}

// AuditLog returns the initial audit trail, newest first.
func AuditLog() []models.AuditLog {
	return []models.AuditLog{
		{ID: 1, Timestamp: date("2023-06-15T08:30:00"), User: "operador1", Action: models.AuditActionCreatePoe, Details: "POE ID: 2"},
		{ID: 2, Timestamp: date("2023-06-14T14:20:00"), User: "verificador1", Action: models.AuditActionApprovePoe, Details: "POE ID: 1"},
		{ID: 3, Timestamp: date("2023-06-13T11:45:00"), User: "operador1", Action: models.AuditActionCreatePoe, Details: "POE ID: 1"},
		{ID: 4, Timestamp: date("2023-06-12T16:10:00"), User: "admin", Action: models.AuditActionRegisterUser, Details: "Usuario: auditor1"},
	}
}
