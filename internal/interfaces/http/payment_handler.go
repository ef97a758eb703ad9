package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/venturee/biz-api/internal/application/dto"
	"github.com/venturee/biz-api/internal/application/payment"
)

// PaymentHandler maneja la generación del QR de cobro, la hoja imprimible,
// el callback del gateway y la consulta de estado.
type PaymentHandler struct {
	uc *payment.UseCase
	// callbackSecret habilita la verificación HMAC del callback cuando el
	// gateway la soporta. Vacío = callback sin firma (comportamiento heredado).
	callbackSecret string
	log            zerolog.Logger
}

// NewPaymentHandler construye el handler de pagos.
func NewPaymentHandler(uc *payment.UseCase, callbackSecret string, log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{uc: uc, callbackSecret: callbackSecret, log: log}
}

// Generate godoc
// @Summary      Generar QR DuitNow para pagar la suscripción
// @Tags         payment
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.GenerateQRRequest  true  "Plan y módulos a cotizar (opcional, default: configuración actual)"
// @Success      200   {object}  dto.GenerateQRResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/payment/duitnow/generate [post]
func (h *PaymentHandler) Generate(c *fiber.Ctx) error {
	var in dto.GenerateQRRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.GenerateIntent(c.Context(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Sheet godoc
// @Summary      Hoja de pago imprimible (PDF con el QR)
// @Tags         payment
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payment/duitnow/sheet [get]
func (h *PaymentHandler) Sheet(c *fiber.Ctx) error {
	pdfBytes, err := h.uc.Sheet(c.Context(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="payment-sheet.pdf"`)
	return c.Send(pdfBytes)
}

// Verify godoc
// @Summary      Callback del gateway de pago (público)
// @Description  Notificación del resultado de la transacción. Idempotente:
// @Description  reintentar un pago ya aplicado no tiene efecto.
// @Tags         payment
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CallbackPayload  true  "Resultado de la transacción"
// @Success      200   {object}  dto.CallbackResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/payment/duitnow/verify [post]
func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	if h.callbackSecret != "" && !h.validSignature(c) {
		h.log.Warn().Str("ip", c.IP()).Msg("callback de pago con firma inválida")
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_SIGNATURE", Message: "firma inválida"})
	}

	var in dto.CallbackPayload
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_CALLBACK", Message: "payload del callback inválido"})
	}
	out, err := h.uc.HandleCallback(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	h.log.Info().
		Str("transaction_id", in.TransactionID).
		Str("status", in.Status).
		Bool("activated", out.Activated).
		Msg("callback de pago procesado")
	return c.JSON(out)
}

// validSignature compara X-Callback-Signature contra el HMAC-SHA256 del cuerpo.
func (h *PaymentHandler) validSignature(c *fiber.Ctx) bool {
	provided := c.Get("X-Callback-Signature")
	if provided == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.callbackSecret))
	mac.Write(c.Body())
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(provided), []byte(expected))
}

// Status godoc
// @Summary      Estado de suscripción y último pago de la propia empresa
// @Tags         payment
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.PaymentStatusResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payment/status [get]
func (h *PaymentHandler) Status(c *fiber.Ctx) error {
	out, err := h.uc.Status(c.Context(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
