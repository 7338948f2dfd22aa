// Package outwriter has output and writer logic.
package outwriter

import (
	"github.com/huangsam/sloc/internal/contract"
	"github.com/huangsam/sloc/schema"
)

// Payload identity for serialized CodeMetrics. It only exists at the output layer.
const (
	MetricsPayloadName    = "CodeMetrics"
	MetricsPayloadType    = "lc"
	MetricsPayloadVersion = "0.1.0"
)

// MetricsEnvelope wraps CodeMetrics with the name, type and version of the payload.
type MetricsEnvelope struct {
	Name    string             `json:"name"`
	Type    string             `json:"type"`
	Version string             `json:"version"`
	Data    schema.CodeMetrics `json:"data"`
}

// NewMetricsEnvelope wraps m in the current payload identity.
func NewMetricsEnvelope(m schema.CodeMetrics) MetricsEnvelope {
	return MetricsEnvelope{
		Name:    MetricsPayloadName,
		Type:    MetricsPayloadType,
		Version: MetricsPayloadVersion,
		Data:    m,
	}
}

// ProjectReport is the report of one project in a batch run.
type ProjectReport struct {
	Path   string
	Report schema.LanguagesReport
}

// shareOf returns part as a percentage of whole. Zero when whole is zero.
func shareOf(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) * 100 / float64(whole)
}

// labelFor picks the colored or plain share label based on the color setting.
func labelFor(share float64, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(share)
	}
	return contract.GetPlainLabel(share)
}

// relevantTotal sums the totals of the relevant languages.
func relevantTotal(reports []schema.LanguageReport) (lines, files int) {
	for _, lr := range reports {
		lines += lr.Stats().Total
		files += len(lr.FileReports)
	}
	return lines, files
}
