package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/venturee/biz-api/internal/application/dto"
	"github.com/venturee/biz-api/internal/domain"
)

// writeError mapea errores de dominio a respuestas HTTP. Los fallos de
// autenticación NO pasan por acá: el middleware los colapsa en un 401 genérico
// y la causa queda solo en el log.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrCrossTenantAccess):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "CROSS_TENANT", Message: "no puede operar sobre otra empresa"})
	case errors.Is(err, domain.ErrInsufficientRole):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol insuficiente para esta operación"})
	case errors.Is(err, domain.ErrSelfDeleteForbidden):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "SELF_DELETE", Message: "no puede eliminar su propia cuenta"})
	case errors.Is(err, domain.ErrCompanyNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "COMPANY_NOT_FOUND", Message: "empresa no encontrada"})
	case errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "usuario no encontrado"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
	case errors.Is(err, domain.ErrCompanyNameTaken):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "COMPANY_NAME_TAKEN", Message: "ya existe una empresa con ese nombre"})
	case errors.Is(err, domain.ErrCompanyInactive):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "COMPANY_INACTIVE", Message: "la empresa no está activa"})
	case errors.Is(err, domain.ErrSubscriptionNotActive):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SUBSCRIPTION_NOT_ACTIVE", Message: "la suscripción no está activa"})
	case errors.Is(err, domain.ErrNoMatchingTenant):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "UNKNOWN_REFERENCE", Message: "referencia de pago desconocida"})
	case errors.Is(err, domain.ErrInvalidCallback):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_CALLBACK", Message: "payload del callback inválido"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos de entrada inválidos"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}
