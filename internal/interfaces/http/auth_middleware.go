package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/venturee/biz-api/internal/application/dto"
	"github.com/venturee/biz-api/internal/application/usecase"
	"github.com/venturee/biz-api/internal/domain/access"
	"github.com/venturee/biz-api/internal/domain/entity"
)

// Locals keys para la identidad resuelta en Fiber.
const (
	LocalUserID    = "user_id"
	LocalCompanyID = "company_id"
	LocalRole      = "role"
	LocalUser      = "user"
	LocalCompany   = "company"
)

// identityResolver contrato mínimo del middleware: token -> (usuario, empresa).
// Lo implementa *auth.AuthUseCase; la interfaz evita el import circular y
// permite fakes en tests.
type identityResolver interface {
	ResolveToken(ctx context.Context, token string) (*entity.User, *entity.Company, error)
}

// AuthMiddleware valida el Bearer Token y resuelve usuario y empresa a
// c.Locals. Cualquier fallo (token ausente, inválido, expirado, usuario
// borrado o inactivo, empresa suspendida) responde el MISMO 401 genérico:
// la causa concreta queda solo en el log, nunca en la respuesta.
func AuthMiddleware(resolver identityResolver, log zerolog.Logger) fiber.Handler {
	unauthorized := func(c *fiber.Ctx, cause error) error {
		log.Warn().
			Err(cause).
			Str("path", c.Path()).
			Str("ip", c.IP()).
			Msg("request no autenticado")
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Code:    "UNAUTHORIZED",
			Message: "no autorizado",
		})
	}

	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get("Authorization"))
		user, company, err := resolver.ResolveToken(c.Context(), token)
		if err != nil {
			return unauthorized(c, err)
		}
		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalCompanyID, user.CompanyID)
		c.Locals(LocalRole, user.Role)
		c.Locals(LocalUser, user)
		c.Locals(LocalCompany, company)
		return c.Next()
	}
}

// bearerToken extrae el token del header Authorization; "" si no viene o el
// esquema no es Bearer.
func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireRole middleware que exige uno de los roles indicados. Debe usarse
// DESPUÉS de AuthMiddleware.
func RequireRole(roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "MISSING_ROLE",
				Message: "no autorizado",
			})
		}
		if d := access.RequireRole(role, roles...); !d.Allowed {
			return writeError(c, d.Reason)
		}
		return c.Next()
	}
}

// RequireCompanyAccess middleware que limita el acceso al propio tenant cuando
// la request nombra una empresa objetivo (param :companyId o query companyId).
// El admin de plataforma pasa siempre.
func RequireCompanyAccess() fiber.Handler {
	return func(c *fiber.Ctx) error {
		target := c.Params("companyId")
		if target == "" {
			target = c.Query("companyId")
		}
		if d := access.TenantScope(GetRole(c), GetCompanyID(c), target); !d.Allowed {
			return writeError(c, d.Reason)
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetCompanyID devuelve el CompanyID del contexto (después del middleware de auth).
func GetCompanyID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalCompanyID).(string)
	return s
}

// GetRole devuelve el rol del contexto (después del middleware de auth).
func GetRole(c *fiber.Ctx) entity.Role {
	r, _ := c.Locals(LocalRole).(entity.Role)
	return r
}

// GetUser devuelve el usuario resuelto, o nil fuera de rutas autenticadas.
func GetUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}

// GetCompany devuelve la empresa resuelta, o nil fuera de rutas autenticadas.
func GetCompany(c *fiber.Ctx) *entity.Company {
	co, _ := c.Locals(LocalCompany).(*entity.Company)
	return co
}

// actor arma la identidad para los use cases a partir de los Locals.
func actor(c *fiber.Ctx) usecase.Actor {
	return usecase.Actor{
		UserID:    GetUserID(c),
		CompanyID: GetCompanyID(c),
		Role:      GetRole(c),
	}
}
