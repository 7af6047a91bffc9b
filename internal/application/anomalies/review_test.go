package anomalies_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/costguard-api/internal/application/anomalies"
	"github.com/jhoicas/costguard-api/internal/application/dto"
	"github.com/jhoicas/costguard-api/internal/domain"
	"github.com/jhoicas/costguard-api/internal/domain/entity"
	"github.com/jhoicas/costguard-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

// fakeAnomalyRepo guarda anomalías junto con el dueño de la factura asociada.
type fakeAnomalyRepo struct {
	anomalies map[string]*entity.Anomaly
	owners    map[string]string // anomalyID -> userID dueño de la factura
}

func newFakeAnomalyRepo() *fakeAnomalyRepo {
	return &fakeAnomalyRepo{
		anomalies: make(map[string]*entity.Anomaly),
		owners:    make(map[string]string),
	}
}

func (r *fakeAnomalyRepo) put(a *entity.Anomaly, ownerID string) {
	r.anomalies[a.ID] = a
	r.owners[a.ID] = ownerID
}

func (r *fakeAnomalyRepo) Create(a *entity.Anomaly) error {
	r.anomalies[a.ID] = a
	return nil
}

func (r *fakeAnomalyRepo) GetWithOwner(id string) (*entity.Anomaly, string, error) {
	a, ok := r.anomalies[id]
	if !ok {
		return nil, "", nil
	}
	copia := *a
	return &copia, r.owners[id], nil
}

func (r *fakeAnomalyRepo) ListByInvoice(invoiceID string) ([]*entity.Anomaly, error) {
	var out []*entity.Anomaly
	for _, a := range r.anomalies {
		if a.InvoiceID == invoiceID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAnomalyRepo) ListByUser(userID string, filter repository.AnomalyListFilter) ([]*entity.Anomaly, error) {
	var out []*entity.Anomaly
	for id, a := range r.anomalies {
		if r.owners[id] != userID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAnomalyRepo) UpdateReview(a *entity.Anomaly) error {
	copia := *a
	r.anomalies[a.ID] = &copia
	return nil
}

type fakeTxRunner struct{ repo *fakeAnomalyRepo }

func (r *fakeTxRunner) RunReview(_ context.Context, fn func(anomalyRepo repository.AnomalyRepository) error) error {
	return fn(r.repo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado
// ──────────────────────────────────────────────────────────────────────────────

const (
	ownerID    = "00000000-0000-0000-0000-000000000001"
	intrusoID  = "00000000-0000-0000-0000-000000000002"
	anomalyID  = "00000000-0000-0000-0000-0000000000aa"
	ausenteID  = "00000000-0000-0000-0000-0000000000bb"
	unInvoice  = "00000000-0000-0000-0000-0000000000cc"
)

func newReviewFixture(note string) (*fakeAnomalyRepo, *anomalies.ReviewUseCase) {
	repo := newFakeAnomalyRepo()
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.put(&entity.Anomaly{
		ID:         anomalyID,
		InvoiceID:  unInvoice,
		Type:       entity.AnomalyTypeDuplicate,
		Severity:   entity.SeverityMedium,
		Status:     entity.StatusUnreviewed,
		ReasonText: "Duplicate invoice: an existing invoice for this vendor has the same date 2024-03-01 and total 120.50",
		Note:       note,
		CreatedAt:  created,
		UpdatedAt:  created,
	}, ownerID)
	uc := anomalies.NewReviewUseCase(&fakeTxRunner{repo}, repo)
	return repo, uc
}

func notePtr(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Review
// ──────────────────────────────────────────────────────────────────────────────

func TestReview_DuenoMarcaValidConNota(t *testing.T) {
	repo, uc := newReviewFixture("")

	resp, err := uc.Review(context.Background(), ownerID, anomalyID, dto.ReviewAnomalyRequest{
		Status: entity.StatusValid,
		Note:   notePtr("renovación anual esperada"),
	})

	require.NoError(t, err)
	assert.Equal(t, entity.StatusValid, resp.Status)
	assert.Equal(t, "renovación anual esperada", resp.Note)
	assert.True(t, resp.UpdatedAt.After(resp.CreatedAt))

	stored := repo.anomalies[anomalyID]
	assert.Equal(t, entity.StatusValid, stored.Status)
	assert.Equal(t, "renovación anual esperada", stored.Note)
}

// Nota ausente en el request: la nota guardada queda intacta.
func TestReview_NotaAusenteNoPisaLaGuardada(t *testing.T) {
	repo, uc := newReviewFixture("nota original")

	resp, err := uc.Review(context.Background(), ownerID, anomalyID, dto.ReviewAnomalyRequest{
		Status: entity.StatusIssue,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.StatusIssue, resp.Status)
	assert.Equal(t, "nota original", resp.Note)
	assert.Equal(t, "nota original", repo.anomalies[anomalyID].Note)
}

// Nota explícita vacía: borra la guardada (presente != ausente).
func TestReview_NotaVaciaExplicitaBorra(t *testing.T) {
	repo, uc := newReviewFixture("nota original")

	_, err := uc.Review(context.Background(), ownerID, anomalyID, dto.ReviewAnomalyRequest{
		Status: entity.StatusValid,
		Note:   notePtr(""),
	})

	require.NoError(t, err)
	assert.Empty(t, repo.anomalies[anomalyID].Note)
}

// Sin restricción de transición: el último revisor gana.
func TestReview_ReasignacionGanaElUltimo(t *testing.T) {
	repo, uc := newReviewFixture("")
	ctx := context.Background()

	_, err := uc.Review(ctx, ownerID, anomalyID, dto.ReviewAnomalyRequest{Status: entity.StatusValid})
	require.NoError(t, err)
	_, err = uc.Review(ctx, ownerID, anomalyID, dto.ReviewAnomalyRequest{Status: entity.StatusIssue})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusIssue, repo.anomalies[anomalyID].Status)
}

func TestReview_Errores(t *testing.T) {
	cases := []struct {
		name      string
		userID    string
		anomalyID string
		status    string
		wantErr   error
	}{
		{"estado inválido", ownerID, anomalyID, "RESOLVED", domain.ErrInvalidInput},
		{"estado vacío", ownerID, anomalyID, "", domain.ErrInvalidInput},
		{"anomalía inexistente", ownerID, ausenteID, entity.StatusValid, domain.ErrNotFound},
		{"anomalía ajena es not found", intrusoID, anomalyID, entity.StatusValid, domain.ErrNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, uc := newReviewFixture("")

			_, err := uc.Review(context.Background(), tc.userID, tc.anomalyID, dto.ReviewAnomalyRequest{Status: tc.status})

			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, entity.StatusUnreviewed, repo.anomalies[anomalyID].Status, "el estado guardado no cambia")
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ListFlagged
// ──────────────────────────────────────────────────────────────────────────────

func TestListFlagged_FiltraPorEstadoYUsuario(t *testing.T) {
	repo, uc := newReviewFixture("")
	repo.put(&entity.Anomaly{
		ID:        "00000000-0000-0000-0000-0000000000dd",
		InvoiceID: unInvoice,
		Type:      entity.AnomalyTypeAbnormalTotal,
		Severity:  entity.SeverityHigh,
		Status:    entity.StatusValid,
	}, ownerID)
	repo.put(&entity.Anomaly{
		ID:        "00000000-0000-0000-0000-0000000000ee",
		InvoiceID: "otra-factura",
		Type:      entity.AnomalyTypeDuplicate,
		Severity:  entity.SeverityMedium,
		Status:    entity.StatusUnreviewed,
	}, intrusoID)

	todas, err := uc.ListFlagged(ownerID, "", false)
	require.NoError(t, err)
	assert.Len(t, todas, 2, "solo las anomalías del usuario")

	sinRevisar, err := uc.ListFlagged(ownerID, entity.StatusUnreviewed, false)
	require.NoError(t, err)
	require.Len(t, sinRevisar, 1)
	assert.Equal(t, anomalyID, sinRevisar[0].ID)
}

func TestListFlagged_EstadoInvalido(t *testing.T) {
	_, uc := newReviewFixture("")

	_, err := uc.ListFlagged(ownerID, "PENDING", false)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
