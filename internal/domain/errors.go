package domain

import "errors"

// Errores de dominio (sin dependencias externas). Los cuatro errores de
// autenticación se responden al cliente con un "unauthorized" genérico, pero se
// mantienen distinguibles para el log interno.
var (
	// Autenticación
	ErrMissingCredential = errors.New("credencial ausente")
	ErrInvalidCredential = errors.New("credencial inválida o expirada")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrUserInactive      = errors.New("usuario inactivo o borrado")

	// Autorización
	ErrCrossTenantAccess   = errors.New("acceso a otra empresa no autorizado")
	ErrInsufficientRole    = errors.New("rol insuficiente para la operación")
	ErrSelfDeleteForbidden = errors.New("no puede borrar su propia cuenta")

	// Estado del tenant
	ErrCompanyNotFound       = errors.New("empresa no encontrada")
	ErrCompanyInactive       = errors.New("la cuenta de la empresa no está activa")
	ErrSubscriptionNotActive = errors.New("la suscripción de la empresa no está activa")

	// Conflictos de registro
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrCompanyNameTaken   = errors.New("ya existe una empresa con ese nombre")

	// Callback de pago
	ErrNoMatchingTenant = errors.New("ninguna empresa coincide con la referencia de pago")
	ErrInvalidCallback  = errors.New("payload de callback inválido")

	// Genéricos
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
)
