package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Fiscal-api/internal/application/fiscal"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RecordSale    *fiscal.RecordSaleUseCase
	RecordPayment *fiscal.RecordPaymentUseCase
	PatchSale     *fiscal.PatchSaleUseCase
	TaxPosition   *fiscal.TaxPositionUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Transacciones: ventas y pagos de impuestos por eventType
	transactionHandler := NewTransactionHandler(deps.RecordSale, deps.RecordPayment)
	api.Post("/transactions", transactionHandler.Post)

	// Upsert de líneas de venta
	saleHandler := NewSaleHandler(deps.PatchSale)
	api.Patch("/sale", saleHandler.Patch)

	// Posición fiscal a una fecha de corte
	taxHandler := NewTaxHandler(deps.TaxPosition)
	api.Get("/tax-position", taxHandler.Get)
}
