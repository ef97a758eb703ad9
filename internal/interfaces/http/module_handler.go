package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/venturee/biz-api/internal/application/dto"
	"github.com/venturee/biz-api/internal/application/usecase"
)

// ModuleHandler expone la consulta de entitlements que usa el frontend para
// mostrar u ocultar secciones según los módulos contratados.
type ModuleHandler struct {
	svc *usecase.ModuleService
}

// NewModuleHandler construye el handler de módulos.
func NewModuleHandler(svc *usecase.ModuleService) *ModuleHandler {
	return &ModuleHandler{svc: svc}
}

// ModuleAccessResponse resultado de la consulta de un módulo.
type ModuleAccessResponse struct {
	Module string `json:"module"`
	Active bool   `json:"active"`
}

// Access godoc
// @Summary      Consultar si la empresa del token tiene un módulo activo
// @Tags         modules
// @Produce      json
// @Security     BearerAuth
// @Param        name  path  string  true  "Nombre del módulo (pos, inventory, ...)"
// @Success      200  {object}  ModuleAccessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/modules/{name}/access [get]
func (h *ModuleHandler) Access(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "nombre de módulo requerido"})
	}
	active, err := h.svc.HasActiveModule(c.Context(), GetCompanyID(c), name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(ModuleAccessResponse{Module: name, Active: active})
}
