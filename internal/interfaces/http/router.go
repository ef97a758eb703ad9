package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/venturee/biz-api/internal/application/auth"
	"github.com/venturee/biz-api/internal/application/payment"
	"github.com/venturee/biz-api/internal/application/usecase"
	"github.com/venturee/biz-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC                *auth.AuthUseCase
	UserUC                *usecase.UserUseCase
	CompanyUC             *usecase.CompanyUseCase
	PaymentUC             *payment.UseCase
	Modules               *usecase.ModuleService
	PaymentCallbackSecret string
	Log                   zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register-company", authHandler.RegisterCompany)
	authGroup.Post("/login", authHandler.Login)

	// Callback del gateway (público: el gateway no manda Bearer Token)
	paymentHandler := NewPaymentHandler(deps.PaymentUC, deps.PaymentCallbackSecret, deps.Log)
	api.Post("/payment/duitnow/verify", paymentHandler.Verify)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.AuthUC, deps.Log))

	protected.Get("/auth/me", authHandler.Me)

	// Users (protegido, alcance de tenant dentro del use case)
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Perfil de la propia empresa (administrador del tenant)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	protected.Put("/company/profile",
		RequireRole(entity.RoleAdmin, entity.RoleCompanyAdmin), companyHandler.UpdateProfile)

	// Companies (solo admin de plataforma)
	companies := protected.Group("/companies", RequireRole(entity.RoleAdmin))
	companies.Get("/", companyHandler.List)
	companies.Get("/tenant/:tenantId", companyHandler.GetByTenant)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id/activate", companyHandler.Activate)
	companies.Put("/:id/deactivate", companyHandler.Deactivate)
	companies.Put("/:id/subscription", companyHandler.UpdateSubscription)
	companies.Delete("/:id", companyHandler.Delete)

	// Payment (protegido; generar cobro es del administrador del tenant)
	paymentGroup := protected.Group("/payment")
	paymentGroup.Post("/duitnow/generate",
		RequireRole(entity.RoleAdmin, entity.RoleCompanyAdmin), paymentHandler.Generate)
	paymentGroup.Get("/duitnow/sheet",
		RequireRole(entity.RoleAdmin, entity.RoleCompanyAdmin), paymentHandler.Sheet)
	paymentGroup.Get("/status", paymentHandler.Status)

	// Entitlements: consulta directa + ejemplo de grupo gateado por módulo.
	moduleHandler := NewModuleHandler(deps.Modules)
	protected.Get("/modules/:name/access", moduleHandler.Access)

	// Reports (gateado por el módulo "reports"; la verificación lee el estado
	// vigente del tenant en cada request)
	reports := protected.Group("/reports", RequireModule(entity.ModuleReports, deps.Modules))
	reports.Get("/subscription", paymentHandler.Status)
}
