package entity

import "time"

// Vendor representa un proveedor que factura a un User.
// NameNormalized es la clave de matching (única por usuario); DisplayName
// conserva la forma original tal como la escribió el usuario.
type Vendor struct {
	ID             string
	UserID         string
	NameNormalized string
	DisplayName    string
	CreatedAt      time.Time
}
