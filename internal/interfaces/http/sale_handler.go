package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Fiscal-api/internal/application/dto"
	"github.com/jhoicas/Fiscal-api/internal/application/fiscal"
	"github.com/jhoicas/Fiscal-api/internal/domain"
)

// SaleHandler maneja PATCH /api/sale: upsert idempotente de un snapshot de ítem.
type SaleHandler struct {
	patchSale *fiscal.PatchSaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(patchSale *fiscal.PatchSaleUseCase) *SaleHandler {
	return &SaleHandler{patchSale: patchSale}
}

// Patch crea o actualiza el snapshot (itemId, date) de una factura.
// PATCH /api/sale — 202 si fue aceptado. El conflicto de pertenencia se
// responde 400, igual que la validación.
func (h *SaleHandler) Patch(c *fiber.Ctx) error {
	var in dto.PatchSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	date, err := parseDate(in.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida"})
	}

	err = h.patchSale.Execute(c.Context(), fiscal.PatchSaleInput{
		InvoiceID: in.InvoiceID,
		ItemID:    in.ItemID,
		Cost:      in.Cost,
		TaxRate:   in.TaxRate,
		Date:      date,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if errors.Is(err, domain.ErrItemOwnership) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "ITEM_OWNERSHIP", Message: "el ítem ya pertenece a otra factura"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusAccepted)
}
