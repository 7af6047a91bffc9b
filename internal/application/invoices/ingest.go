// Package invoices contiene los casos de uso de ingesta y consulta de facturas.
package invoices

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/costguard-api/internal/application/dto"
	"github.com/jhoicas/costguard-api/internal/application/extraction"
	"github.com/jhoicas/costguard-api/internal/domain"
	"github.com/jhoicas/costguard-api/internal/domain/anomaly"
	"github.com/jhoicas/costguard-api/internal/domain/entity"
	"github.com/jhoicas/costguard-api/internal/domain/repository"
)

// TxRunner ejecuta la unidad de trabajo de la ingesta: chequeo de duplicados,
// lectura de historia y escritura de factura + anomalías, todo en una sola
// transacción (todo visible o nada).
type TxRunner interface {
	RunIngestion(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		anomalyRepo repository.AnomalyRepository,
	) error) error
}

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// IngestInvoiceUseCase orquesta la ingesta: resolver vendor, validar, correr el
// motor de detección y persistir atómicamente.
type IngestInvoiceUseCase struct {
	txRunner   TxRunner
	userRepo   repository.UserRepository
	vendorRepo repository.VendorRepository
	resolver   *VendorResolver
}

// NewIngestInvoiceUseCase construye el caso de uso.
func NewIngestInvoiceUseCase(
	txRunner TxRunner,
	userRepo repository.UserRepository,
	vendorRepo repository.VendorRepository,
) *IngestInvoiceUseCase {
	return &IngestInvoiceUseCase{
		txRunner:   txRunner,
		userRepo:   userRepo,
		vendorRepo: vendorRepo,
		resolver:   NewVendorResolver(vendorRepo),
	}
}

// Ingest crea la factura y sus anomalías detectadas en una sola transacción.
// ext trae los fallbacks del extractor de metadatos; los campos del caller
// siempre ganan sobre la extracción. sourceFileURL es la ruta del archivo
// subido (vacío si la ingesta fue JSON puro).
func (uc *IngestInvoiceUseCase) Ingest(
	ctx context.Context,
	userID string,
	in dto.CreateInvoiceRequest,
	ext extraction.Result,
	sourceFileURL string,
) (*dto.InvoiceResponse, error) {
	// 1) Resolver vendor (ID explícito gana sobre el nombre; el nombre del
	// caller gana sobre el extraído).
	candidateName := in.VendorName
	if candidateName == "" {
		candidateName = ext.VendorName
	}
	vendor, err := uc.resolver.Resolve(userID, in.VendorID, candidateName)
	if err != nil {
		return nil, err
	}
	// Guardia cross-tenant: un vendor ajeno resuelto por ID no es "no existe",
	// es entrada inválida del caller.
	if vendor.UserID != userID {
		return nil, domain.ErrInvalidInput
	}

	// 2) El usuario solicitante debe existir.
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}

	// 3) Merge de fallbacks y validación de fecha, total y moneda.
	invoiceDate, err := mergeDate(in.InvoiceDate, ext.InvoiceDate)
	if err != nil {
		return nil, err
	}
	total, err := mergeTotal(in.TotalAmount, ext.TotalAmount)
	if err != nil {
		return nil, err
	}
	currency := normalizeCurrency(in.Currency)
	if !currencyPattern.MatchString(currency) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		UserID:        userID,
		VendorID:      vendor.ID,
		InvoiceDate:   invoiceDate,
		TotalAmount:   total,
		Currency:      currency,
		SourceFileURL: sourceFileURL,
		CreatedAt:     now,
	}

	// 4-8) Unidad de trabajo: duplicado + historia se leen dentro de la misma
	// transacción que escribe; si algo falla no queda estado parcial.
	var created []*entity.Anomaly
	err = uc.txRunner.RunIngestion(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		anomalyRepo repository.AnomalyRepository,
	) error {
		hasDuplicate, err := invoiceRepo.ExistsDuplicate(vendor.ID, inv.InvoiceDate, inv.TotalAmount, inv.ID)
		if err != nil {
			return err
		}
		history, err := invoiceRepo.RecentTotals(vendor.ID, inv.ID, anomaly.HistoryWindow)
		if err != nil {
			return err
		}

		drafts := anomaly.Detect(anomaly.Input{
			InvoiceDate:     inv.InvoiceDate,
			Total:           inv.TotalAmount,
			DuplicateExists: hasDuplicate,
			History:         history,
		})

		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		for _, draft := range drafts {
			a := &entity.Anomaly{
				ID:         uuid.New().String(),
				InvoiceID:  inv.ID,
				Type:       draft.Type,
				Severity:   draft.Severity,
				Status:     entity.StatusUnreviewed,
				ReasonText: draft.ReasonText,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := anomalyRepo.Create(a); err != nil {
				return err
			}
			created = append(created, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toInvoiceResponse(inv, created), nil
}

// normalizeCurrency replica la normalización del boundary: mayúsculas y sin espacios.
func normalizeCurrency(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}

// mergeDate aplica el fallback del extractor y parsea YYYY-MM-DD.
func mergeDate(callerDate *string, extracted *time.Time) (time.Time, error) {
	if callerDate != nil {
		t, err := time.Parse("2006-01-02", *callerDate)
		if err != nil {
			return time.Time{}, domain.ErrInvalidInput
		}
		return t, nil
	}
	if extracted != nil {
		return *extracted, nil
	}
	return time.Time{}, domain.ErrInvalidInput
}

// mergeTotal aplica el fallback del extractor y exige un total estrictamente positivo.
func mergeTotal(callerTotal, extracted *decimal.Decimal) (decimal.Decimal, error) {
	total := callerTotal
	if total == nil {
		total = extracted
	}
	if total == nil {
		return decimal.Decimal{}, domain.ErrInvalidInput
	}
	if !total.GreaterThan(decimal.Zero) {
		return decimal.Decimal{}, domain.ErrInvalidInput
	}
	return *total, nil
}

func toInvoiceResponse(inv *entity.Invoice, anomalies []*entity.Anomaly) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:            inv.ID,
		UserID:        inv.UserID,
		VendorID:      inv.VendorID,
		InvoiceDate:   inv.InvoiceDate.Format("2006-01-02"),
		TotalAmount:   inv.TotalAmount,
		Currency:      inv.Currency,
		SourceFileURL: inv.SourceFileURL,
		CreatedAt:     inv.CreatedAt,
	}
	for _, a := range anomalies {
		resp.Anomalies = append(resp.Anomalies, toAnomalyResponse(a))
	}
	return resp
}

func toAnomalyResponse(a *entity.Anomaly) dto.AnomalyResponse {
	return dto.AnomalyResponse{
		ID:         a.ID,
		InvoiceID:  a.InvoiceID,
		Type:       a.Type,
		Severity:   a.Severity,
		Status:     a.Status,
		ReasonText: a.ReasonText,
		Note:       a.Note,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
