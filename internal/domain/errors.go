package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	// ErrConflict se reserva para violaciones de unicidad a nivel de base de datos
	// (ej. dos vendors de un mismo usuario que normalizan al mismo nombre).
	ErrConflict = errors.New("conflicto con el estado actual")
)
