// Package storage guarda los archivos de facturas subidos en disco local.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// InvoiceFileStorage persiste uploads bajo un directorio base con nombre
// <uuid><ext>; la ruta retornada es la que se guarda en la factura.
type InvoiceFileStorage struct {
	baseDir string
}

// NewInvoiceFileStorage crea el storage asegurando que el directorio exista.
func NewInvoiceFileStorage(baseDir string) (*InvoiceFileStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de storage: %w", err)
	}
	return &InvoiceFileStorage{baseDir: baseDir}, nil
}

// Save escribe el contenido con un nombre único preservando la extensión
// original y retorna la ruta relativa almacenable.
func (s *InvoiceFileStorage) Save(originalName string, content []byte) (string, error) {
	target := filepath.Join(s.baseDir, uuid.New().String()+filepath.Ext(originalName))
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return "", fmt.Errorf("guardar archivo: %w", err)
	}
	return filepath.ToSlash(target), nil
}
