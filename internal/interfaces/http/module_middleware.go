package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/venturee/biz-api/internal/application/dto"
)

// moduleChecker es el contrato mínimo que necesita el middleware para verificar
// entitlements. Lo implementa *usecase.ModuleService; el uso de interfaz evita
// el import circular y permite fakes en tests.
type moduleChecker interface {
	HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error)
}

// RequireModule devuelve un middleware Fiber que verifica si la empresa del
// token tiene el módulo contratado, con suscripción activa y vigente. Debe
// usarse DESPUÉS de AuthMiddleware. La verificación lee el estado actual del
// tenant en cada request; una suspensión corta el acceso de inmediato.
//
// Comportamiento:
//   - 403 Forbidden → módulo no contratado, suscripción no activa o vencida.
//   - 503 Service Unavailable → fallo de infraestructura al consultar la DB.
//   - Sin company_id en el contexto → 401 (el AuthMiddleware debió ponerlo).
func RequireModule(moduleName string, checker moduleChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := GetCompanyID(c)
		if companyID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "no autorizado",
			})
		}

		active, err := checker.HasActiveModule(c.Context(), companyID, moduleName)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "MODULE_CHECK_FAILED",
				Message: "no se pudo verificar el módulo, intente más tarde",
			})
		}
		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "MODULE_DISABLED",
				Message: "el módulo '" + moduleName + "' no está activo para esta empresa",
			})
		}
		return c.Next()
	}
}
