package fiscal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fiscal-api/internal/domain"
	"github.com/jhoicas/Fiscal-api/internal/domain/entity"
	"github.com/jhoicas/Fiscal-api/internal/domain/repository"
)

// PatchSaleInput argumentos del upsert de snapshot.
type PatchSaleInput struct {
	InvoiceID string
	ItemID    string
	Cost      int64
	TaxRate   decimal.Decimal
	Date      time.Time
}

// PatchSaleUseCase crea o actualiza de forma idempotente un snapshot de ítem
// ligado a una factura. Si la factura no existe aún, se crea aquí mismo
// (creación perezosa): este flujo puede originar facturas que la venta
// nunca registró.
type PatchSaleUseCase struct {
	txRunner TxRunner
}

// NewPatchSaleUseCase construye el caso de uso.
func NewPatchSaleUseCase(txRunner TxRunner) *PatchSaleUseCase {
	return &PatchSaleUseCase{txRunner: txRunner}
}

// Execute corre los cinco pasos del patch en una sola transacción:
//  1. get-or-create de la factura (insert condicional atómico; dos llamadas
//     concurrentes con el mismo ID no pueden fallar por carrera),
//  2. lookup del snapshot por clave compuesta (itemId, date),
//  3. si existe y pertenece a otra factura, rechazo: el vínculo
//     snapshot → factura es inmutable,
//  4. si no existe, insert del snapshot,
//  5. si existe con el mismo dueño, update de cost y tax_rate únicamente.
//
// Repetir la llamada con argumentos idénticos es idempotente; repetirla con
// otro cost/taxRate sobre la misma (itemId, date) re-precia el snapshot.
func (uc *PatchSaleUseCase) Execute(ctx context.Context, in PatchSaleInput) error {
	if err := uc.validate(in); err != nil {
		return err
	}

	return uc.txRunner.Run(ctx, func(invoiceRepo repository.InvoiceRepository, itemRepo repository.ItemRepository) error {
		invoice, err := invoiceRepo.GetOrCreate(&entity.Invoice{ID: in.InvoiceID, Date: in.Date})
		if err != nil {
			return err
		}

		item, err := itemRepo.GetByIDAndDate(in.ItemID, in.Date)
		if err != nil {
			return err
		}
		if item != nil && item.InvoiceID != invoice.ID {
			return domain.ErrItemOwnership
		}

		if item == nil {
			return itemRepo.Create(&entity.Item{
				ID:        in.ItemID,
				InvoiceID: in.InvoiceID,
				Cost:      in.Cost,
				TaxRate:   in.TaxRate,
				Date:      in.Date,
			})
		}
		return itemRepo.UpdateCostAndRate(in.ItemID, in.Date, in.Cost, in.TaxRate)
	})
}

func (uc *PatchSaleUseCase) validate(in PatchSaleInput) error {
	if in.Date.IsZero() {
		return domain.ErrInvalidInput
	}
	if _, err := uuid.Parse(in.InvoiceID); err != nil {
		return domain.ErrInvalidInput
	}
	return validateItem(in.ItemID, in.Cost, in.TaxRate)
}
