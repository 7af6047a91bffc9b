// Package vendors contiene los casos de uso de gestión de proveedores.
package vendors

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/costguard-api/internal/application/dto"
	"github.com/jhoicas/costguard-api/internal/domain"
	"github.com/jhoicas/costguard-api/internal/domain/entity"
	"github.com/jhoicas/costguard-api/internal/domain/repository"
	"github.com/jhoicas/costguard-api/internal/domain/vendor"
)

// VendorUseCase alta y consulta de vendors de un usuario.
type VendorUseCase struct {
	repo repository.VendorRepository
}

// NewVendorUseCase construye el caso de uso.
func NewVendorUseCase(repo repository.VendorRepository) *VendorUseCase {
	return &VendorUseCase{repo: repo}
}

// Create registra un vendor normalizando su nombre. La unicidad de
// (user, nombre normalizado) la impone el índice único de la DB, no un lock
// de aplicación: si dos requests concurrentes crean el mismo vendor, el
// perdedor relee y devuelve el que ya quedó commiteado.
func (uc *VendorUseCase) Create(userID string, in dto.CreateVendorRequest) (*dto.VendorResponse, error) {
	displayName := strings.TrimSpace(in.Name)
	normalized := vendor.NormalizeName(displayName)
	if normalized == "" {
		return nil, domain.ErrInvalidInput
	}

	v := &entity.Vendor{
		ID:             uuid.New().String(),
		UserID:         userID,
		NameNormalized: normalized,
		DisplayName:    displayName,
		CreatedAt:      time.Now(),
	}
	err := uc.repo.Create(v)
	if err == nil {
		return toResponse(v), nil
	}
	if !errors.Is(err, domain.ErrConflict) {
		return nil, err
	}

	// Carrera "el vendor ya existe": releer y devolver el ganador.
	existing, readErr := uc.repo.GetByNormalizedName(userID, normalized)
	if readErr != nil {
		return nil, readErr
	}
	if existing == nil {
		return nil, domain.ErrConflict
	}
	return toResponse(existing), nil
}

// GetByID obtiene un vendor del usuario; ajeno o inexistente es ErrNotFound.
func (uc *VendorUseCase) GetByID(userID, vendorID string) (*dto.VendorResponse, error) {
	v, err := uc.repo.GetByID(vendorID)
	if err != nil {
		return nil, err
	}
	if v == nil || v.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return toResponse(v), nil
}

// List lista los vendors del usuario.
func (uc *VendorUseCase) List(userID string) ([]dto.VendorResponse, error) {
	list, err := uc.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VendorResponse, 0, len(list))
	for _, v := range list {
		out = append(out, *toResponse(v))
	}
	return out, nil
}

func toResponse(v *entity.Vendor) *dto.VendorResponse {
	return &dto.VendorResponse{
		ID:             v.ID,
		UserID:         v.UserID,
		DisplayName:    v.DisplayName,
		NameNormalized: v.NameNormalized,
		CreatedAt:      v.CreatedAt,
	}
}
