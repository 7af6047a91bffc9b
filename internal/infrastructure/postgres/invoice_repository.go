package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/costguard-api/internal/domain/entity"
	"github.com/jhoicas/costguard-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la factura.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, user_id, vendor_id, invoice_date, total_amount, currency, source_file_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.UserID, invoice.VendorID, invoice.InvoiceDate,
		invoice.TotalAmount, invoice.Currency, nullIfEmpty(invoice.SourceFileURL), invoice.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID; nil si no existe.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `
		SELECT id, user_id, vendor_id, invoice_date, total_amount, currency,
		       COALESCE(source_file_url, ''), created_at
		FROM invoices WHERE id = $1`
	var inv entity.Invoice
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&inv.ID, &inv.UserID, &inv.VendorID, &inv.InvoiceDate,
		&inv.TotalAmount, &inv.Currency, &inv.SourceFileURL, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// ExistsDuplicate: ¿hay otra factura del vendor con exactamente la misma fecha
// y el mismo total? Match por igualdad exacta, sin tolerancia; la moneda no
// participa. Solo ve filas ya commiteadas: dos ingestas idénticas concurrentes
// pueden no verse entre sí (carrera aceptada, la detección es advisoria).
func (r *InvoiceRepo) ExistsDuplicate(vendorID string, invoiceDate time.Time, total decimal.Decimal, excludeID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM invoices
			WHERE vendor_id = $1 AND invoice_date = $2 AND total_amount = $3
			  AND ($4 = '' OR id <> $4::uuid)
		)`
	var exists bool
	err := r.q.QueryRow(context.Background(), query, vendorID, invoiceDate, total, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check duplicate invoice: %w", err)
	}
	return exists, nil
}

// RecentTotals retorna los totales de facturas previas del vendor, más
// recientes primero por invoice_date (desempate por created_at), acotado a limit.
func (r *InvoiceRepo) RecentTotals(vendorID string, excludeID string, limit int) ([]decimal.Decimal, error) {
	query := `
		SELECT total_amount FROM invoices
		WHERE vendor_id = $1 AND ($2 = '' OR id <> $2::uuid)
		ORDER BY invoice_date DESC, created_at DESC
		LIMIT $3`
	rows, err := r.q.Query(context.Background(), query, vendorID, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent totals: %w", err)
	}
	defer rows.Close()
	var totals []decimal.Decimal
	for rows.Next() {
		var t decimal.Decimal
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// ListByVendor retorna las facturas del vendor por fecha descendente.
func (r *InvoiceRepo) ListByVendor(vendorID string, limit int) ([]*entity.Invoice, error) {
	query := `
		SELECT id, user_id, vendor_id, invoice_date, total_amount, currency,
		       COALESCE(source_file_url, ''), created_at
		FROM invoices
		WHERE vendor_id = $1
		ORDER BY invoice_date DESC, created_at DESC
		LIMIT $2`
	rows, err := r.q.Query(context.Background(), query, vendorID, limit)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.UserID, &inv.VendorID, &inv.InvoiceDate,
			&inv.TotalAmount, &inv.Currency, &inv.SourceFileURL, &inv.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}
