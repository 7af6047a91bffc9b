package entity

import "time"

// Tipos de anomalía.
const (
	AnomalyTypeDuplicate     = "DUPLICATE"
	AnomalyTypeAbnormalTotal = "ABNORMAL_TOTAL"
	AnomalyTypePriceCreep    = "PRICE_CREEP" // reservado: ningún detector lo emite todavía
)

// Severidades.
const (
	SeverityLow    = "LOW"
	SeverityMedium = "MEDIUM"
	SeverityHigh   = "HIGH"
)

// Estados de revisión.
const (
	StatusUnreviewed = "UNREVIEWED" // estado inicial
	StatusValid      = "VALID"      // el revisor confirmó que la factura está bien
	StatusIssue      = "ISSUE"      // el revisor confirmó un problema real
)

// ValidStatus indica si s es un estado de revisión conocido.
func ValidStatus(s string) bool {
	return s == StatusUnreviewed || s == StatusValid || s == StatusIssue
}

// Anomaly representa un hallazgo del motor de detección sobre una factura.
// Solo Status, Note y UpdatedAt son mutables (vía revisión); el resto queda
// fijo desde la detección. Se borra únicamente en cascada con su Invoice.
type Anomaly struct {
	ID         string
	InvoiceID  string
	Type       string
	Severity   string
	Status     string
	ReasonText string
	Note       string // vacío = sin nota (NULL en DB)
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
