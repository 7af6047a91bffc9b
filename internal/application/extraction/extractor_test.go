package extraction_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/costguard-api/internal/application/extraction"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtract_JSONCompleto(t *testing.T) {
	path := writeFile(t, "factura.json", `{
		"vendor_name": "Amazon Web Services",
		"invoice_date": "2024-03-01",
		"total_amount": "120.50"
	}`)

	res := extraction.NewExtractor().Extract(path)

	assert.Equal(t, "Amazon Web Services", res.VendorName)
	require.NotNil(t, res.InvoiceDate)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *res.InvoiceDate)
	require.NotNil(t, res.TotalAmount)
	assert.True(t, res.TotalAmount.Equal(decimal.RequireFromString("120.50")))
}

// Claves alternativas: vendor/supplier, date, amount/total. El total numérico
// (no string) también se acepta.
func TestExtract_JSONClavesAlternativas(t *testing.T) {
	path := writeFile(t, "factura.json", `{
		"supplier": "gcp",
		"date": "2024-03-01T10:00:00",
		"total": 99.9
	}`)

	res := extraction.NewExtractor().Extract(path)

	assert.Equal(t, "gcp", res.VendorName)
	require.NotNil(t, res.InvoiceDate, "el timestamp completo se trunca a la fecha")
	assert.Equal(t, "2024-03-01", res.InvoiceDate.Format("2006-01-02"))
	require.NotNil(t, res.TotalAmount)
	assert.True(t, res.TotalAmount.Equal(decimal.RequireFromString("99.9")))
}

func TestExtract_TextoPorLineas(t *testing.T) {
	path := writeFile(t, "factura.txt", "Vendor: Microsoft Azure\nDate: 2024-05-10\nTotal: 45.00\nalgo irrelevante\n")

	res := extraction.NewExtractor().Extract(path)

	assert.Equal(t, "Microsoft Azure", res.VendorName)
	require.NotNil(t, res.InvoiceDate)
	assert.Equal(t, "2024-05-10", res.InvoiceDate.Format("2006-01-02"))
	require.NotNil(t, res.TotalAmount)
	assert.True(t, res.TotalAmount.Equal(decimal.RequireFromString("45.00")))
}

// La extracción nunca falla: degradar a Result vacío ante cualquier problema.
func TestExtract_DegradaAVacio(t *testing.T) {
	e := extraction.NewExtractor()

	t.Run("archivo inexistente", func(t *testing.T) {
		assert.Equal(t, extraction.Result{}, e.Extract(filepath.Join(t.TempDir(), "no-existe.json")))
	})

	t.Run("extensión desconocida", func(t *testing.T) {
		path := writeFile(t, "factura.pdf", "%PDF-1.4")
		assert.Equal(t, extraction.Result{}, e.Extract(path))
	})

	t.Run("JSON malformado", func(t *testing.T) {
		path := writeFile(t, "rota.json", `{"vendor_name": `)
		assert.Equal(t, extraction.Result{}, e.Extract(path))
	})

	t.Run("campos ilegibles quedan nil", func(t *testing.T) {
		path := writeFile(t, "parcial.json", `{"vendor_name": "aws", "invoice_date": "marzo", "total_amount": "mucho"}`)
		res := e.Extract(path)
		assert.Equal(t, "aws", res.VendorName)
		assert.Nil(t, res.InvoiceDate)
		assert.Nil(t, res.TotalAmount)
	})
}
