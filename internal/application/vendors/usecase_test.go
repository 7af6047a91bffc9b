package vendors_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/costguard-api/internal/application/dto"
	"github.com/jhoicas/costguard-api/internal/application/vendors"
	"github.com/jhoicas/costguard-api/internal/domain"
	"github.com/jhoicas/costguard-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake en memoria del repositorio de vendors
// ──────────────────────────────────────────────────────────────────────────────

type fakeVendorRepo struct {
	vendors map[string]*entity.Vendor
	// forceConflict simula el perdedor de la carrera: el insert choca con el
	// índice único aunque el fake todavía no tenga el registro.
	forceConflict *entity.Vendor
}

func newFakeVendorRepo() *fakeVendorRepo {
	return &fakeVendorRepo{vendors: make(map[string]*entity.Vendor)}
}

func (r *fakeVendorRepo) Create(v *entity.Vendor) error {
	if r.forceConflict != nil {
		r.vendors[r.forceConflict.ID] = r.forceConflict
		return domain.ErrConflict
	}
	for _, existing := range r.vendors {
		if existing.UserID == v.UserID && existing.NameNormalized == v.NameNormalized {
			return domain.ErrConflict
		}
	}
	r.vendors[v.ID] = v
	return nil
}

func (r *fakeVendorRepo) GetByID(id string) (*entity.Vendor, error) {
	return r.vendors[id], nil
}

func (r *fakeVendorRepo) GetByNormalizedName(userID, normalized string) (*entity.Vendor, error) {
	for _, v := range r.vendors {
		if v.UserID == userID && v.NameNormalized == normalized {
			return v, nil
		}
	}
	return nil, nil
}

func (r *fakeVendorRepo) ListByUser(userID string) ([]*entity.Vendor, error) {
	var out []*entity.Vendor
	for _, v := range r.vendors {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

const userID = "00000000-0000-0000-0000-000000000001"

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_NormalizaYConservaDisplayName(t *testing.T) {
	repo := newFakeVendorRepo()
	uc := vendors.NewVendorUseCase(repo)

	resp, err := uc.Create(userID, dto.CreateVendorRequest{Name: "  A.W.S.  "})

	require.NoError(t, err)
	assert.Equal(t, "A.W.S.", resp.DisplayName, "el display name solo se recorta")
	assert.Equal(t, "amazon web services", resp.NameNormalized)
	assert.Equal(t, userID, resp.UserID)
}

func TestCreate_NombreVacioOImprimible(t *testing.T) {
	uc := vendors.NewVendorUseCase(newFakeVendorRepo())

	for _, name := range []string{"", "   ", "!!!"} {
		_, err := uc.Create(userID, dto.CreateVendorRequest{Name: name})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "nombre %q", name)
	}
}

func TestCreate_DuplicadoDevuelveConflict(t *testing.T) {
	repo := newFakeVendorRepo()
	uc := vendors.NewVendorUseCase(repo)

	_, err := uc.Create(userID, dto.CreateVendorRequest{Name: "Amazon Web Services"})
	require.NoError(t, err)

	// Mismo nombre normalizado: el segundo create choca y relee al ganador.
	resp, err := uc.Create(userID, dto.CreateVendorRequest{Name: "aws"})
	require.NoError(t, err)
	assert.Equal(t, "Amazon Web Services", resp.DisplayName)
	assert.Len(t, repo.vendors, 1)
}

// Perdedor de la carrera concurrente: el insert falla por el índice único pero
// el ganador ya está commiteado; se devuelve el ganador sin error.
func TestCreate_CarreraReleeAlGanador(t *testing.T) {
	repo := newFakeVendorRepo()
	ganador := &entity.Vendor{
		ID:             "00000000-0000-0000-0000-00000000000a",
		UserID:         userID,
		NameNormalized: "amazon web services",
		DisplayName:    "Amazon Web Services",
	}
	repo.forceConflict = ganador
	uc := vendors.NewVendorUseCase(repo)

	resp, err := uc.Create(userID, dto.CreateVendorRequest{Name: "AWS"})

	require.NoError(t, err)
	assert.Equal(t, ganador.ID, resp.ID)
}

// Usuarios distintos pueden registrar el mismo nombre normalizado.
func TestCreate_MismoNombreOtroUsuario(t *testing.T) {
	repo := newFakeVendorRepo()
	uc := vendors.NewVendorUseCase(repo)

	_, err := uc.Create(userID, dto.CreateVendorRequest{Name: "GCP"})
	require.NoError(t, err)
	_, err = uc.Create("00000000-0000-0000-0000-000000000002", dto.CreateVendorRequest{Name: "GCP"})
	require.NoError(t, err)

	assert.Len(t, repo.vendors, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// GetByID y List
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByID_AjenoEsNotFound(t *testing.T) {
	repo := newFakeVendorRepo()
	uc := vendors.NewVendorUseCase(repo)

	creado, err := uc.Create(userID, dto.CreateVendorRequest{Name: "Azure"})
	require.NoError(t, err)

	propio, err := uc.GetByID(userID, creado.ID)
	require.NoError(t, err)
	assert.Equal(t, "microsoft azure", propio.NameNormalized)

	_, err = uc.GetByID("00000000-0000-0000-0000-000000000002", creado.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.GetByID(userID, "00000000-0000-0000-0000-00000000dead")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_SoloDelUsuario(t *testing.T) {
	repo := newFakeVendorRepo()
	uc := vendors.NewVendorUseCase(repo)

	_, err := uc.Create(userID, dto.CreateVendorRequest{Name: "Datadog"})
	require.NoError(t, err)
	_, err = uc.Create("00000000-0000-0000-0000-000000000002", dto.CreateVendorRequest{Name: "Snowflake"})
	require.NoError(t, err)

	list, err := uc.List(userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Datadog", list[0].DisplayName)
}
