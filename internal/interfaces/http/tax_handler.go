package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Fiscal-api/internal/application/dto"
	"github.com/jhoicas/Fiscal-api/internal/application/fiscal"
)

// TaxHandler maneja GET /api/tax-position.
type TaxHandler struct {
	taxPosition *fiscal.TaxPositionUseCase
}

// NewTaxHandler construye el handler.
func NewTaxHandler(taxPosition *fiscal.TaxPositionUseCase) *TaxHandler {
	return &TaxHandler{taxPosition: taxPosition}
}

// Get calcula la posición fiscal a la fecha de corte.
// GET /api/tax-position?date=YYYY-MM-DD — 200 con {date, taxPosition}.
func (h *TaxHandler) Get(c *fiber.Ctx) error {
	raw := c.Query("date")
	if raw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query param date requerido"})
	}
	// Fecha calendario estricta: cualquier otro formato se rechaza antes de
	// llegar al cálculo.
	cutoff, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD"})
	}

	position, err := h.taxPosition.Execute(c.Context(), cutoff)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(position)
}
