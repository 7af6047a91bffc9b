// Package extraction implementa la extracción best-effort de metadatos de
// facturas subidas (proveedor, fecha, total). Es un productor de fallbacks:
// sus resultados solo rellenan campos que el caller no mandó, nunca los pisan.
package extraction

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Result metadatos extraídos; los punteros nil indican "no se pudo derivar".
type Result struct {
	VendorName  string
	InvoiceDate *time.Time
	TotalAmount *decimal.Decimal
}

// Extractor extrae metadatos de archivos JSON simples o de texto por líneas.
// Formatos desconocidos y errores de parseo degradan a Result vacío: la
// extracción nunca falla la ingesta.
type Extractor struct{}

// NewExtractor construye el extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract intenta derivar proveedor, fecha y total del archivo.
func (e *Extractor) Extract(path string) Result {
	if _, err := os.Stat(path); err != nil {
		return Result{}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return e.fromJSON(path)
	case ".txt", ".log":
		return e.fromText(path)
	}
	return Result{}
}

func (e *Extractor) fromJSON(path string) Result {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Result{}
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return Result{}
	}
	return Result{
		VendorName:  coalesce(data, "vendor_name", "vendor", "supplier"),
		InvoiceDate: parseDate(coalesce(data, "invoice_date", "date")),
		TotalAmount: parseAmount(coalesce(data, "total_amount", "amount", "total")),
	}
}

// fromText reconoce líneas "vendor:", "date:" y "total:" (case-insensitive).
func (e *Extractor) fromText(path string) Result {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Result{}
	}
	var res Result
	for _, line := range strings.Split(string(raw), "\n") {
		stripped := strings.TrimSpace(line)
		lower := strings.ToLower(stripped)
		switch {
		case strings.HasPrefix(lower, "vendor:"):
			res.VendorName = strings.TrimSpace(stripped[len("vendor:"):])
		case strings.HasPrefix(lower, "date:"):
			res.InvoiceDate = parseDate(strings.TrimSpace(stripped[len("date:"):]))
		case strings.HasPrefix(lower, "total:"):
			res.TotalAmount = parseAmount(strings.TrimSpace(stripped[len("total:"):]))
		}
	}
	return res
}

// coalesce retorna el primer valor no nulo entre las claves, como string.
func coalesce(data map[string]any, keys ...string) string {
	for _, key := range keys {
		value, ok := data[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			return strings.TrimSpace(v)
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(v)
		}
	}
	return ""
}

// parseDate acepta fechas ISO, tomando solo los primeros 10 caracteres
// (tolera timestamps completos tipo "2024-03-01T10:00:00").
func parseDate(raw string) *time.Time {
	if len(raw) < 10 {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw[:10])
	if err != nil {
		return nil
	}
	return &t
}

func parseAmount(raw string) *decimal.Decimal {
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}
