package repository

import "github.com/jhoicas/costguard-api/internal/domain/entity"

// AnomalyListFilter parámetros de listado para revisión de anomalías.
type AnomalyListFilter struct {
	Status     string // vacío = todos los estados
	BySeverity bool   // true: ordena HIGH antes que MEDIUM antes que LOW dentro de cada fecha
}

// AnomalyRepository define el puerto de persistencia para Anomaly.
type AnomalyRepository interface {
	Create(anomaly *entity.Anomaly) error
	// GetWithOwner retorna la anomalía y el user_id dueño resolviendo el join
	// anomaly -> invoice -> user (no hay columna de dueño en anomalies).
	GetWithOwner(id string) (*entity.Anomaly, string, error)
	ListByInvoice(invoiceID string) ([]*entity.Anomaly, error)
	// ListByUser lista las anomalías del usuario ordenadas por fecha de factura
	// descendente y created_at descendente, con filtro opcional de estado.
	ListByUser(userID string, filter AnomalyListFilter) ([]*entity.Anomaly, error)
	// UpdateReview persiste status, note y updated_at (únicos campos mutables).
	UpdateReview(anomaly *entity.Anomaly) error
}
