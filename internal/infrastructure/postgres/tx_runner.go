package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/costguard-api/internal/application/anomalies"
	"github.com/jhoicas/costguard-api/internal/application/invoices"
	"github.com/jhoicas/costguard-api/internal/domain/repository"
)

// Ensure TxRunner implements invoices.TxRunner and anomalies.TxRunner.
var _ invoices.TxRunner = (*TxRunner)(nil)
var _ anomalies.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunIngestion inicia una transacción con los repos de factura y anomalía
// atados a la tx, ejecuta fn y hace Commit o Rollback. El chequeo de
// duplicados, la lectura de historia y las dos escrituras quedan secuenciadas
// dentro de la misma transacción.
func (r *TxRunner) RunIngestion(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	anomalyRepo repository.AnomalyRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewInvoiceRepository(tx), NewAnomalyRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunReview inicia una transacción con el repo de anomalías atado a la tx
// (lectura con dueño + update de revisión en una sola unidad).
func (r *TxRunner) RunReview(ctx context.Context, fn func(
	anomalyRepo repository.AnomalyRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewAnomalyRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
