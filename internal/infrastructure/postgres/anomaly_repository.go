package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/costguard-api/internal/domain/entity"
	"github.com/jhoicas/costguard-api/internal/domain/repository"
)

var _ repository.AnomalyRepository = (*AnomalyRepo)(nil)

// AnomalyRepo implementación de AnomalyRepository (usable con pool o tx).
type AnomalyRepo struct {
	q Querier
}

// NewAnomalyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAnomalyRepository(q Querier) *AnomalyRepo {
	return &AnomalyRepo{q: q}
}

// Create persiste la anomalía.
func (r *AnomalyRepo) Create(anomaly *entity.Anomaly) error {
	query := `
		INSERT INTO anomalies (id, invoice_id, type, severity, status, reason_text, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		anomaly.ID, anomaly.InvoiceID, anomaly.Type, anomaly.Severity, anomaly.Status,
		anomaly.ReasonText, nullIfEmpty(anomaly.Note), anomaly.CreatedAt, anomaly.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert anomaly: %w", err)
	}
	return nil
}

// GetWithOwner retorna la anomalía y el user_id dueño vía el join
// anomaly -> invoice -> user; nil si no existe. No hay columna de dueño en
// anomalies a propósito (se evita drift de desnormalización).
func (r *AnomalyRepo) GetWithOwner(id string) (*entity.Anomaly, string, error) {
	query := `
		SELECT a.id, a.invoice_id, a.type, a.severity, a.status, a.reason_text,
		       COALESCE(a.note, ''), a.created_at, a.updated_at, i.user_id
		FROM anomalies a
		JOIN invoices i ON i.id = a.invoice_id
		WHERE a.id = $1`
	var a entity.Anomaly
	var ownerID string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&a.ID, &a.InvoiceID, &a.Type, &a.Severity, &a.Status,
		&a.ReasonText, &a.Note, &a.CreatedAt, &a.UpdatedAt, &ownerID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("get anomaly with owner: %w", err)
	}
	return &a, ownerID, nil
}

// ListByInvoice lista las anomalías de una factura por fecha de creación.
func (r *AnomalyRepo) ListByInvoice(invoiceID string) ([]*entity.Anomaly, error) {
	query := `
		SELECT id, invoice_id, type, severity, status, reason_text,
		       COALESCE(note, ''), created_at, updated_at
		FROM anomalies WHERE invoice_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list anomalies by invoice: %w", err)
	}
	defer rows.Close()
	return scanAnomalies(rows)
}

// ListByUser lista las anomalías del usuario (join por invoice), filtro
// opcional por estado. Orden base: fecha de factura descendente, created_at
// descendente; con BySeverity se intercala el rango HIGH < MEDIUM < LOW.
func (r *AnomalyRepo) ListByUser(userID string, filter repository.AnomalyListFilter) ([]*entity.Anomaly, error) {
	orderBy := "i.invoice_date DESC, a.created_at DESC"
	if filter.BySeverity {
		orderBy = `i.invoice_date DESC,
			CASE a.severity WHEN 'HIGH' THEN 0 WHEN 'MEDIUM' THEN 1 ELSE 2 END,
			a.created_at DESC`
	}
	query := fmt.Sprintf(`
		SELECT a.id, a.invoice_id, a.type, a.severity, a.status, a.reason_text,
		       COALESCE(a.note, ''), a.created_at, a.updated_at
		FROM anomalies a
		JOIN invoices i ON i.id = a.invoice_id
		WHERE i.user_id = $1 AND ($2 = '' OR a.status = $2)
		ORDER BY %s`, orderBy)
	rows, err := r.q.Query(context.Background(), query, userID, filter.Status)
	if err != nil {
		return nil, fmt.Errorf("list anomalies by user: %w", err)
	}
	defer rows.Close()
	return scanAnomalies(rows)
}

// UpdateReview persiste los únicos campos mutables: status, note y updated_at.
func (r *AnomalyRepo) UpdateReview(anomaly *entity.Anomaly) error {
	query := `
		UPDATE anomalies
		SET status = $2, note = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		anomaly.ID, anomaly.Status, nullIfEmpty(anomaly.Note), anomaly.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update anomaly review: %w", err)
	}
	return nil
}

func scanAnomalies(rows pgx.Rows) ([]*entity.Anomaly, error) {
	var list []*entity.Anomaly
	for rows.Next() {
		var a entity.Anomaly
		if err := rows.Scan(
			&a.ID, &a.InvoiceID, &a.Type, &a.Severity, &a.Status,
			&a.ReasonText, &a.Note, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan anomaly: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
