// Package exporter serializes documents for download.
package exporter

import (
	"encoding/json"
	"strings"

	"github.com/poe-manager/backend/internal/models"
)

// ExportJSON serializes the record verbatim with two-space indentation.
func ExportJSON(poe *models.POE) ([]byte, error) {
	return json.MarshalIndent(poe, "", "  ")
}

// Filename derives the download name: <code>_<title with separators replaced
// by underscore>.json.
func Filename(poe *models.POE) string {
	title := poe.Title
	for _, sep := range []string{" ", "/", "\\"} {
		title = strings.ReplaceAll(title, sep, "_")
	}
	return poe.Code + "_" + title + ".json"
}
