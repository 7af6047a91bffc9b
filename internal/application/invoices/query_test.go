package invoices_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/costguard-api/internal/application/extraction"
	"github.com/jhoicas/costguard-api/internal/application/invoices"
	"github.com/jhoicas/costguard-api/internal/domain"
	"github.com/jhoicas/costguard-api/internal/domain/entity"
)

func newQueryFixture(t *testing.T) (*memStore, *invoices.InvoiceQueryUseCase, *invoices.IngestInvoiceUseCase) {
	t.Helper()
	s, ingest := newIngestFixture()
	query := invoices.NewInvoiceQueryUseCase(&memInvoiceRepo{s}, &memAnomalyRepo{s}, &memVendorRepo{s})
	return s, query, ingest
}

// ──────────────────────────────────────────────────────────────────────────────
// GetInvoice
// ──────────────────────────────────────────────────────────────────────────────

func TestGetInvoice_IncluyeAnomalias(t *testing.T) {
	_, query, ingest := newQueryFixture(t)
	ctx := context.Background()

	_, err := ingest.Ingest(ctx, testUserID, validRequest(), extraction.Result{}, "")
	require.NoError(t, err)
	dup, err := ingest.Ingest(ctx, testUserID, validRequest(), extraction.Result{}, "")
	require.NoError(t, err)

	resp, err := query.GetInvoice(testUserID, dup.ID)

	require.NoError(t, err)
	assert.Equal(t, dup.ID, resp.ID)
	require.Len(t, resp.Anomalies, 1)
	assert.Equal(t, entity.AnomalyTypeDuplicate, resp.Anomalies[0].Type)
}

func TestGetInvoice_AjenaOInexistenteEsNotFound(t *testing.T) {
	_, query, ingest := newQueryFixture(t)

	created, err := ingest.Ingest(context.Background(), testUserID, validRequest(), extraction.Result{}, "")
	require.NoError(t, err)

	_, err = query.GetInvoice(otherUserID, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = query.GetInvoice(testUserID, "00000000-0000-0000-0000-00000000dead")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// VendorHistory
// ──────────────────────────────────────────────────────────────────────────────

func TestVendorHistory_OrdenYLimite(t *testing.T) {
	_, query, ingest := newQueryFixture(t)
	ctx := context.Background()

	// 30 facturas en días consecutivos de enero/febrero 2024.
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		in := validRequest()
		in.InvoiceDate = strPtr(base.AddDate(0, 0, i).Format("2006-01-02"))
		in.TotalAmount = decPtr(fmt.Sprintf("%d.00", 100+i))
		_, err := ingest.Ingest(ctx, testUserID, in, extraction.Result{}, "")
		require.NoError(t, err)
	}

	// Sin límite: default 25, más recientes primero.
	resp, err := query.VendorHistory(testUserID, testVendorID, 0)
	require.NoError(t, err)
	require.Len(t, resp.Invoices, 25)
	assert.Equal(t, "2024-01-30", resp.Invoices[0].InvoiceDate)
	assert.Equal(t, "2024-01-06", resp.Invoices[24].InvoiceDate)

	// Límite explícito chico.
	resp, err = query.VendorHistory(testUserID, testVendorID, 3)
	require.NoError(t, err)
	assert.Len(t, resp.Invoices, 3)

	// Por encima del máximo se ajusta a 50 (acá hay solo 30).
	resp, err = query.VendorHistory(testUserID, testVendorID, 500)
	require.NoError(t, err)
	assert.Len(t, resp.Invoices, 30)
}

func TestVendorHistory_VendorAjenoEsNotFound(t *testing.T) {
	_, query, _ := newQueryFixture(t)

	_, err := query.VendorHistory(otherUserID, testVendorID, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = query.VendorHistory(testUserID, "00000000-0000-0000-0000-00000000dead", 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
