package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/costguard-api/internal/domain"
	"github.com/jhoicas/costguard-api/internal/domain/entity"
	"github.com/jhoicas/costguard-api/internal/domain/repository"
)

var _ repository.VendorRepository = (*VendorRepo)(nil)

// VendorRepo implementación de VendorRepository (usable con pool o tx).
type VendorRepo struct {
	q Querier
}

// NewVendorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVendorRepository(q Querier) *VendorRepo {
	return &VendorRepo{q: q}
}

// Create persiste el vendor. La violación del índice único
// (user_id, name_normalized) se traduce a domain.ErrConflict para que el caso
// de uso resuelva la carrera releyendo.
func (r *VendorRepo) Create(vendor *entity.Vendor) error {
	query := `
		INSERT INTO vendors (id, user_id, name_normalized, display_name, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		vendor.ID, vendor.UserID, vendor.NameNormalized, vendor.DisplayName, vendor.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}

// GetByID obtiene un vendor por ID; nil si no existe.
func (r *VendorRepo) GetByID(id string) (*entity.Vendor, error) {
	return r.getOne(`SELECT id, user_id, name_normalized, display_name, created_at
		FROM vendors WHERE id = $1`, id)
}

// GetByNormalizedName busca el único vendor del usuario con esa clave de matching.
func (r *VendorRepo) GetByNormalizedName(userID, normalizedName string) (*entity.Vendor, error) {
	query := `SELECT id, user_id, name_normalized, display_name, created_at
		FROM vendors WHERE user_id = $1 AND name_normalized = $2`
	var v entity.Vendor
	err := r.q.QueryRow(context.Background(), query, userID, normalizedName).Scan(
		&v.ID, &v.UserID, &v.NameNormalized, &v.DisplayName, &v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor by normalized name: %w", err)
	}
	return &v, nil
}

// ListByUser lista los vendors del usuario por nombre normalizado.
func (r *VendorRepo) ListByUser(userID string) ([]*entity.Vendor, error) {
	query := `SELECT id, user_id, name_normalized, display_name, created_at
		FROM vendors WHERE user_id = $1 ORDER BY name_normalized`
	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()
	var list []*entity.Vendor
	for rows.Next() {
		var v entity.Vendor
		if err := rows.Scan(&v.ID, &v.UserID, &v.NameNormalized, &v.DisplayName, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

func (r *VendorRepo) getOne(query string, arg any) (*entity.Vendor, error) {
	var v entity.Vendor
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&v.ID, &v.UserID, &v.NameNormalized, &v.DisplayName, &v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return &v, nil
}
