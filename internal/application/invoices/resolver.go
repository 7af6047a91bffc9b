package invoices

import (
	"github.com/jhoicas/costguard-api/internal/domain"
	"github.com/jhoicas/costguard-api/internal/domain/entity"
	"github.com/jhoicas/costguard-api/internal/domain/repository"
	"github.com/jhoicas/costguard-api/internal/domain/vendor"
)

// VendorResolver resuelve a qué vendor pertenece una factura entrante: por ID
// explícito, o por nombre candidato contra la clave normalizada del usuario.
type VendorResolver struct {
	vendorRepo repository.VendorRepository
}

// NewVendorResolver construye el resolver.
func NewVendorResolver(vendorRepo repository.VendorRepository) *VendorResolver {
	return &VendorResolver{vendorRepo: vendorRepo}
}

// Resolve aplica la política de resolución:
//   - Con vendorID explícito se busca directo; si no existe es ErrNotFound,
//     sin fallback al matching por nombre.
//   - Sin ID, se normaliza el nombre candidato y se busca el único vendor del
//     usuario con esa clave. Un nombre sin match es ErrNotFound: nunca se
//     auto-crean vendors desde nombres extraídos (la extracción es ruidosa y
//     contaminaría la tabla de proveedores en silencio).
//   - Sin ID y sin nombre, ErrInvalidInput.
//
// La pertenencia del vendor al usuario la verifica el orquestador antes de
// persistir (guardia cross-tenant).
func (r *VendorResolver) Resolve(userID, vendorID, candidateName string) (*entity.Vendor, error) {
	if vendorID != "" {
		v, err := r.vendorRepo.GetByID(vendorID)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, domain.ErrNotFound
		}
		return v, nil
	}

	normalized := vendor.NormalizeName(candidateName)
	if normalized == "" {
		return nil, domain.ErrInvalidInput
	}
	v, err := r.vendorRepo.GetByNormalizedName(userID, normalized)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	return v, nil
}
