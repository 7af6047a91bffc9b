package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/costguard-api/internal/application/anomalies"
	"github.com/jhoicas/costguard-api/internal/application/dto"
	"github.com/jhoicas/costguard-api/internal/domain"
)

// AnomalyHandler maneja revisión y listado de anomalías (protegido).
type AnomalyHandler struct {
	uc *anomalies.ReviewUseCase
}

// NewAnomalyHandler construye el handler.
func NewAnomalyHandler(uc *anomalies.ReviewUseCase) *AnomalyHandler {
	return &AnomalyHandler{uc: uc}
}

// List lista las anomalías del usuario, con filtro opcional por estado y
// orden opcional por severidad.
// GET /api/anomalies?status=UNREVIEWED&by_severity=true
func (h *AnomalyHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	list, err := h.uc.ListFlagged(userID, c.Query("status"), c.QueryBool("by_severity"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status desconocido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// Review aplica una transición de estado de revisión a una anomalía.
// PATCH /api/anomalies/:id
func (h *AnomalyHandler) Review(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReviewAnomalyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	anomaly, err := h.uc.Review(c.Context(), userID, c.Params("id"), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status inválido"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "anomalía no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(anomaly)
}
