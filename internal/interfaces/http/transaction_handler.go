package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Fiscal-api/internal/application/dto"
	"github.com/jhoicas/Fiscal-api/internal/application/fiscal"
	"github.com/jhoicas/Fiscal-api/internal/domain"
)

// TransactionHandler maneja POST /api/transactions: un solo endpoint que
// despacha por eventType (venta o pago de impuestos).
type TransactionHandler struct {
	recordSale    *fiscal.RecordSaleUseCase
	recordPayment *fiscal.RecordPaymentUseCase
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(recordSale *fiscal.RecordSaleUseCase, recordPayment *fiscal.RecordPaymentUseCase) *TransactionHandler {
	return &TransactionHandler{recordSale: recordSale, recordPayment: recordPayment}
}

// Post registra una venta o un pago según eventType.
// POST /api/transactions — 202 si fue aceptado.
func (h *TransactionHandler) Post(c *fiber.Ctx) error {
	var in dto.TransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	date, err := parseDate(in.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida"})
	}

	switch in.EventType {
	case dto.EventTypeSales:
		err = h.recordSale.Execute(c.Context(), in.InvoiceID, date, in.Items)
	case dto.EventTypeTaxPayment:
		err = h.recordPayment.Execute(c.Context(), in.Amount, date)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "eventType desconocido: " + in.EventType})
	}

	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "la factura " + in.InvoiceID + " ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusAccepted)
}

// parseDate acepta RFC 3339 o fecha calendario YYYY-MM-DD.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
