package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
	ErrExpired            = errors.New("el documento está vencido")
	ErrTrialExpired       = errors.New("el periodo de prueba terminó")
	ErrModuleDisabled     = errors.New("módulo no activo para la empresa")
	ErrFileTooLarge       = errors.New("archivo excede el tamaño permitido")
	ErrUnsupportedFile    = errors.New("tipo de archivo no permitido")
)
