package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice representa una factura recibida por el usuario desde un proveedor.
// Inmutable después de crearse: no existe ruta de edición.
type Invoice struct {
	ID            string
	UserID        string
	VendorID      string
	InvoiceDate   time.Time // solo fecha (DATE), sin hora
	TotalAmount   decimal.Decimal
	Currency      string // ISO 4217, 3 letras mayúsculas
	SourceFileURL string // ruta del archivo subido, vacío si no hubo upload
	CreatedAt     time.Time
}
