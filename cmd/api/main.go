package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/venturee/biz-api/internal/application/auth"
	"github.com/venturee/biz-api/internal/application/payment"
	"github.com/venturee/biz-api/internal/application/usecase"
	infrapdf "github.com/venturee/biz-api/internal/infrastructure/pdf"
	"github.com/venturee/biz-api/internal/infrastructure/postgres"
	httpRouter "github.com/venturee/biz-api/internal/interfaces/http"
	"github.com/venturee/biz-api/pkg/config"
	"github.com/venturee/biz-api/pkg/duitnow"
	"github.com/venturee/biz-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, txRunner, auth.JWTConfig{
		Secret:  cfg.JWT.Secret,
		ExpDays: cfg.JWT.ExpDays,
		Issuer:  cfg.JWT.Issuer,
	}, cfg.Auth.BcryptCost)
	userUC := usecase.NewUserUseCase(userRepo, cfg.Auth.BcryptCost)
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	moduleSvc := usecase.NewModuleService(companyRepo)

	qrBuilder := duitnow.NewBuilder(cfg.Payment.MerchantName, cfg.Payment.MerchantCity)
	sheetGen := infrapdf.NewMarotoSheetGenerator(cfg.Payment.MerchantName)
	paymentUC := payment.NewUseCase(companyRepo, qrBuilder, sheetGen,
		cfg.Payment.Currency, cfg.Payment.QRExpiryHours)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:                authUC,
		UserUC:                userUC,
		CompanyUC:             companyUC,
		PaymentUC:             paymentUC,
		Modules:               moduleSvc,
		PaymentCallbackSecret: cfg.Payment.CallbackSecret,
		Log:                   log.Zerolog(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
