// Package anomalies contiene los casos de uso de revisión y listado de anomalías.
package anomalies

import (
	"context"
	"time"

	"github.com/jhoicas/costguard-api/internal/application/dto"
	"github.com/jhoicas/costguard-api/internal/domain"
	"github.com/jhoicas/costguard-api/internal/domain/entity"
	"github.com/jhoicas/costguard-api/internal/domain/repository"
)

// TxRunner ejecuta la transición de revisión dentro de una transacción.
type TxRunner interface {
	RunReview(ctx context.Context, fn func(anomalyRepo repository.AnomalyRepository) error) error
}

// ReviewUseCase aplica transiciones de estado sobre anomalías existentes y
// lista las anomalías marcadas del usuario.
type ReviewUseCase struct {
	txRunner    TxRunner
	anomalyRepo repository.AnomalyRepository
}

// NewReviewUseCase construye el caso de uso. anomalyRepo es la variante atada
// al pool (solo para listados); las escrituras pasan por el txRunner.
func NewReviewUseCase(txRunner TxRunner, anomalyRepo repository.AnomalyRepository) *ReviewUseCase {
	return &ReviewUseCase{txRunner: txRunner, anomalyRepo: anomalyRepo}
}

// Review aplica el nuevo estado a la anomalía. La pertenencia se resuelve con
// el join anomaly -> invoice -> user: una anomalía ajena es ErrNotFound. La
// nota solo se sobreescribe si vino explícita en el request (incluso vacía);
// ausente, la nota guardada queda intacta. No hay restricción de transición:
// un revisor puede reasignar VALID a ISSUE y viceversa, gana el último.
func (uc *ReviewUseCase) Review(ctx context.Context, userID, anomalyID string, in dto.ReviewAnomalyRequest) (*dto.AnomalyResponse, error) {
	if !entity.ValidStatus(in.Status) {
		return nil, domain.ErrInvalidInput
	}

	var reviewed *entity.Anomaly
	err := uc.txRunner.RunReview(ctx, func(anomalyRepo repository.AnomalyRepository) error {
		a, ownerID, err := anomalyRepo.GetWithOwner(anomalyID)
		if err != nil {
			return err
		}
		if a == nil || ownerID != userID {
			return domain.ErrNotFound
		}
		a.Status = in.Status
		if in.Note != nil {
			a.Note = *in.Note
		}
		a.UpdatedAt = time.Now()
		if err := anomalyRepo.UpdateReview(a); err != nil {
			return err
		}
		reviewed = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResponse(reviewed), nil
}

// ListFlagged lista las anomalías del usuario: filtro opcional por estado,
// orden por fecha de factura descendente y created_at descendente; con
// bySeverity, HIGH va antes que MEDIUM antes que LOW dentro de cada fecha.
func (uc *ReviewUseCase) ListFlagged(userID, status string, bySeverity bool) ([]dto.AnomalyResponse, error) {
	if status != "" && !entity.ValidStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.anomalyRepo.ListByUser(userID, repository.AnomalyListFilter{
		Status:     status,
		BySeverity: bySeverity,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.AnomalyResponse, 0, len(list))
	for _, a := range list {
		out = append(out, *toResponse(a))
	}
	return out, nil
}

func toResponse(a *entity.Anomaly) *dto.AnomalyResponse {
	return &dto.AnomalyResponse{
		ID:         a.ID,
		InvoiceID:  a.InvoiceID,
		Type:       a.Type,
		Severity:   a.Severity,
		Status:     a.Status,
		ReasonText: a.ReasonText,
		Note:       a.Note,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
