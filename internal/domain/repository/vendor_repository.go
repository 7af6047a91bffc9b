package repository

import "github.com/jhoicas/costguard-api/internal/domain/entity"

// VendorRepository define el puerto de persistencia para Vendor.
type VendorRepository interface {
	// Create persiste el vendor. Retorna domain.ErrConflict si ya existe otro
	// vendor del mismo usuario con el mismo nombre normalizado (índice único).
	Create(vendor *entity.Vendor) error
	GetByID(id string) (*entity.Vendor, error)
	// GetByNormalizedName busca el único vendor del usuario con esa clave de matching.
	GetByNormalizedName(userID, normalizedName string) (*entity.Vendor, error)
	ListByUser(userID string) ([]*entity.Vendor, error)
}
