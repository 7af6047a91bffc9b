package dto

import "time"

// ReviewAnomalyRequest body para PATCH /api/anomalies/:id.
// Note es puntero a propósito: nil = no tocar la nota guardada; un valor
// presente (incluso "") la sobreescribe.
type ReviewAnomalyRequest struct {
	Status string  `json:"status"`
	Note   *string `json:"note,omitempty"`
}

// AnomalyResponse anomalía en respuestas.
type AnomalyResponse struct {
	ID         string    `json:"id"`
	InvoiceID  string    `json:"invoice_id"`
	Type       string    `json:"type"`
	Severity   string    `json:"severity"`
	Status     string    `json:"status"`
	ReasonText string    `json:"reason_text"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
