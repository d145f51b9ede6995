package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                 = errors.New("recurso no encontrado")
	ErrUserNotFound             = errors.New("usuario no encontrado")
	ErrUsernameAlreadyExists    = errors.New("el nombre de usuario ya está registrado")
	ErrInvalidInput             = errors.New("entrada inválida")
	ErrDuplicate                = errors.New("recurso duplicado")
	ErrUnauthorized             = errors.New("no autorizado")
	ErrForbidden                = errors.New("acceso denegado")
	ErrConflict                 = errors.New("conflicto con el estado actual")
	ErrComponentInactive        = errors.New("componente inactivo")
	ErrInsufficientStock        = errors.New("stock insuficiente")
	ErrInsufficientAvailable    = errors.New("stock disponible insuficiente")
	ErrInsufficientReserved     = errors.New("stock reservado insuficiente")
	ErrMovementAlreadyCancelled = errors.New("el movimiento ya fue cancelado")
	ErrReservationNotActive     = errors.New("la reserva no está activa")
)
