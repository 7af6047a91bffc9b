package invoices

import (
	"github.com/jhoicas/costguard-api/internal/application/dto"
	"github.com/jhoicas/costguard-api/internal/domain"
	"github.com/jhoicas/costguard-api/internal/domain/repository"
)

// Límites del historial de vendor para display.
const (
	historyDefaultLimit = 25
	historyMaxLimit     = 50
)

// InvoiceQueryUseCase lecturas para display: factura con anomalías e historial
// de facturación de un vendor. Solo lectura, fuera de transacción.
type InvoiceQueryUseCase struct {
	invoiceRepo repository.InvoiceRepository
	anomalyRepo repository.AnomalyRepository
	vendorRepo  repository.VendorRepository
}

// NewInvoiceQueryUseCase construye el caso de uso de consulta.
func NewInvoiceQueryUseCase(
	invoiceRepo repository.InvoiceRepository,
	anomalyRepo repository.AnomalyRepository,
	vendorRepo repository.VendorRepository,
) *InvoiceQueryUseCase {
	return &InvoiceQueryUseCase{
		invoiceRepo: invoiceRepo,
		anomalyRepo: anomalyRepo,
		vendorRepo:  vendorRepo,
	}
}

// GetInvoice obtiene una factura del usuario con sus anomalías.
// Una factura ajena se reporta como ErrNotFound, no como prohibida: no se
// filtra la existencia de recursos de otros tenants.
func (uc *InvoiceQueryUseCase) GetInvoice(userID, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.UserID != userID {
		return nil, domain.ErrNotFound
	}
	anomalies, err := uc.anomalyRepo.ListByInvoice(inv.ID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, anomalies), nil
}

// VendorHistory lista las facturas recientes de un vendor del usuario,
// acotadas por el límite del caller (1-50; fuera de rango se ajusta).
func (uc *InvoiceQueryUseCase) VendorHistory(userID, vendorID string, limit int) (*dto.VendorHistoryResponse, error) {
	v, err := uc.vendorRepo.GetByID(vendorID)
	if err != nil {
		return nil, err
	}
	if v == nil || v.UserID != userID {
		return nil, domain.ErrNotFound
	}

	if limit <= 0 {
		limit = historyDefaultLimit
	}
	if limit > historyMaxLimit {
		limit = historyMaxLimit
	}

	list, err := uc.invoiceRepo.ListByVendor(vendorID, limit)
	if err != nil {
		return nil, err
	}
	resp := &dto.VendorHistoryResponse{VendorID: vendorID, Invoices: make([]dto.InvoiceResponse, 0, len(list))}
	for _, inv := range list {
		resp.Invoices = append(resp.Invoices, *toInvoiceResponse(inv, nil))
	}
	return resp, nil
}
