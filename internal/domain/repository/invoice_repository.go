package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costguard-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	// ExistsDuplicate indica si otra factura del vendor (excluyendo excludeID si
	// no está vacío) tiene exactamente la misma fecha y el mismo total.
	ExistsDuplicate(vendorID string, invoiceDate time.Time, total decimal.Decimal, excludeID string) (bool, error)
	// RecentTotals retorna los totales de las facturas previas del vendor,
	// más recientes primero por invoice_date, acotado a limit.
	RecentTotals(vendorID string, excludeID string, limit int) ([]decimal.Decimal, error)
	// ListByVendor retorna las facturas del vendor por fecha descendente (historial para display).
	ListByVendor(vendorID string, limit int) ([]*entity.Invoice, error)
}
