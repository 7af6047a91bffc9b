package http

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/costguard-api/internal/application/dto"
	"github.com/jhoicas/costguard-api/internal/application/extraction"
	"github.com/jhoicas/costguard-api/internal/application/invoices"
	"github.com/jhoicas/costguard-api/internal/domain"
	"github.com/jhoicas/costguard-api/internal/infrastructure/storage"
)

// InvoiceHandler maneja las peticiones HTTP de facturas (protegido).
type InvoiceHandler struct {
	ingestUC  *invoices.IngestInvoiceUseCase
	queryUC   *invoices.InvoiceQueryUseCase
	storage   *storage.InvoiceFileStorage
	extractor *extraction.Extractor
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(
	ingestUC *invoices.IngestInvoiceUseCase,
	queryUC *invoices.InvoiceQueryUseCase,
	fileStorage *storage.InvoiceFileStorage,
	extractor *extraction.Extractor,
) *InvoiceHandler {
	return &InvoiceHandler{ingestUC: ingestUC, queryUC: queryUC, storage: fileStorage, extractor: extractor}
}

// Create ingesta una factura y corre la detección de anomalías.
// Acepta JSON puro, o multipart con parte "metadata" (JSON) y parte "file"
// opcional; del archivo se extraen fallbacks de vendor/fecha/total.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}

	var in dto.CreateInvoiceRequest
	var ext extraction.Result
	var sourceFileURL string

	contentType := c.Get(fiber.HeaderContentType)
	switch {
	case strings.HasPrefix(contentType, fiber.MIMEApplicationJSON):
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	case strings.HasPrefix(contentType, fiber.MIMEMultipartForm):
		metadata := c.FormValue("metadata")
		if metadata == "" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parte metadata requerida"})
		}
		if err := json.Unmarshal([]byte(metadata), &in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "metadata inválida"})
		}
		fileHeader, err := c.FormFile("file")
		if err == nil && fileHeader != nil {
			f, err := fileHeader.Open()
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "archivo ilegible"})
			}
			content, err := io.ReadAll(f)
			_ = f.Close()
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "archivo ilegible"})
			}
			sourceFileURL, err = h.storage.Save(fileHeader.Filename, content)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
			}
			ext = h.extractor.Extract(sourceFileURL)
		}
	default:
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(dto.ErrorResponse{Code: "UNSUPPORTED_MEDIA", Message: "content type no soportado"})
	}

	invoice, err := h.ingestUC.Ingest(c.Context(), userID, in, ext, sourceFileURL)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos de factura inválidos o incompletos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "vendor o usuario no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// GetByID obtiene una factura con sus anomalías.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	invoice, err := h.queryUC.GetInvoice(userID, c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(invoice)
}

// VendorHistory lista las facturas recientes de un vendor (display).
// GET /api/vendors/:id/history?limit=N
func (h *InvoiceHandler) VendorHistory(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	history, err := h.queryUC.VendorHistory(userID, c.Params("id"), limit)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "vendor no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(history)
}
