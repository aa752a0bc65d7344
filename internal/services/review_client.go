package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/poe-manager/backend/internal/models"
	"go.uber.org/zap"
)

// ErrReviewUnavailable covers every transport or parse failure of the review
// collaborator. The failure is isolated to the suggestion surface and never
// touches document state.
var ErrReviewUnavailable = errors.New("el servicio de sugerencias no está disponible")

// ReviewUnavailableMessage is the user-facing text shown for any review
// failure, with its explicit retry invitation.
const ReviewUnavailableMessage = "No se pudieron generar las sugerencias. Por favor, intente de nuevo más tarde."

// ReviewClient talks to the external text-generation service that produces
// auditor-style improvement suggestions for a POE.
type ReviewClient struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func NewReviewClient(baseURL string, timeout time.Duration, log *zap.Logger) *ReviewClient {
	return &ReviewClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Enabled reports whether a service URL was configured.
func (c *ReviewClient) Enabled() bool { return c.baseURL != "" }

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// GenerateSuggestions sends the POE field dump interpolated into the fixed
// review-instruction template and returns the free-text markdown response.
func (c *ReviewClient) GenerateSuggestions(ctx context.Context, poe *models.POE) (string, error) {
	if !c.Enabled() {
		return "", ErrReviewUnavailable
	}

	body, err := json.Marshal(generateRequest{Prompt: buildReviewPrompt(poe)})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReviewUnavailable, err)
	}

	url := c.baseURL + "/v1/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReviewUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("review service request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrReviewUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		c.log.Warn("review service returned error", zap.Int("status", resp.StatusCode), zap.ByteString("body", b))
		return "", fmt.Errorf("%w: status %d", ErrReviewUnavailable, resp.StatusCode)
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: %v", ErrReviewUnavailable, err)
	}
	return result.Text, nil
}

func buildReviewPrompt(poe *models.POE) string {
	var responsibilities strings.Builder
	for _, r := range poe.Responsibilities {
		fmt.Fprintf(&responsibilities, "- Cargo: %s\n  Responsabilidad: %s\n", r.Cargo, r.Responsabilidad)
	}

	var steps strings.Builder
	for i, step := range poe.Steps {
		fmt.Fprintf(&steps, "%d. %s: %s\n", i+1, step.Name, step.Text)
	}

	return fmt.Sprintf(`Eres un auditor experto especializado en Procedimientos Operativos Estandarizados (POE) para entornos industriales y de procesamiento de alimentos. Tu tarea es analizar el siguiente POE y proporcionar comentarios constructivos para mejorar su calidad, seguridad y claridad.

Analiza el POE que se proporciona a continuación y genera un informe con sugerencias. Estructura tu informe con las siguientes secciones:

1.  **Claridad y Concisión:** Evalúa si el lenguaje es simple, directo y sin ambigüedades para un operador. Sugiere reformulaciones donde sea necesario.
2.  **Completitud:** Verifica si toda la información necesaria está presente. ¿Son lógicos los pasos? ¿Están bien definidos los materiales, el equipo de seguridad (EPI) y las frecuencias? ¿Son claros los métodos de verificación y las acciones correctivas?
3.  **Seguridad y EPI:** Evalúa la idoneidad de las instrucciones de seguridad. ¿Se identifican los peligros potenciales? ¿Son los equipos de protección personal (EPI) especificados apropiados para las tareas descritas?
4.  **Consistencia:** Verifica que la información sea coherente en todo el documento (por ejemplo, que los materiales mencionados se utilicen en los pasos).
5.  **Puntos de Mejora y Riesgos Potenciales:** Identifica cualquier paso o instrucción que pueda ser una fuente de error o riesgo, y sugiere mejoras específicas.
6.  **Resumen General:** Proporciona un breve resumen general de la calidad del POE y una recomendación final (por ejemplo, "Listo para aprobación con cambios menores", "Requiere una revisión significativa").

Aquí está el POE para analizar:
---
Título: %s
Código: %s
Objetivo: %s
Alcance: %s
Responsabilidades:
%s
Frecuencia: %s
Productos y Materiales: %s
Instrucciones de Seguridad y EPI: %s
Descripción: %s
Pasos:
%s
Verificación y Registro: %s
Acciones Correctivas: %s
---
Por favor, proporciona tu análisis en formato Markdown.`,
		poe.Title,
		poe.Code,
		poe.Objective,
		poe.Scope,
		responsibilities.String(),
		strings.Join(poe.Frequency, ", "),
		poe.ProductsAndMaterials,
		poe.SafetyInstructions,
		poe.Description,
		steps.String(),
		poe.Verification,
		poe.CorrectiveActions,
	)
}
