package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body (o parte "metadata" del multipart) para POST /api/invoices.
// VendorID tiene prioridad sobre VendorName. Los punteros distinguen campo
// ausente de campo presente: la fecha y el total pueden venir del extractor
// como fallback, pero lo que mande el caller siempre gana.
type CreateInvoiceRequest struct {
	VendorID    string           `json:"vendor_id,omitempty"`
	VendorName  string           `json:"vendor_name,omitempty"`
	InvoiceDate *string          `json:"invoice_date,omitempty"` // YYYY-MM-DD
	TotalAmount *decimal.Decimal `json:"total_amount,omitempty"`
	Currency    string           `json:"currency"`
}

// InvoiceResponse factura en respuestas; Anomalies se incluye al crear y al
// consultar por ID.
type InvoiceResponse struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id"`
	VendorID      string            `json:"vendor_id"`
	InvoiceDate   string            `json:"invoice_date"` // YYYY-MM-DD
	TotalAmount   decimal.Decimal   `json:"total_amount"`
	Currency      string            `json:"currency"`
	SourceFileURL string            `json:"source_file_url,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	Anomalies     []AnomalyResponse `json:"anomalies,omitempty"`
}

// VendorHistoryResponse historial de facturación de un vendor para display.
type VendorHistoryResponse struct {
	VendorID string            `json:"vendor_id"`
	Invoices []InvoiceResponse `json:"invoices"`
}
