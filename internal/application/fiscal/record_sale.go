package fiscal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fiscal-api/internal/application/dto"
	"github.com/jhoicas/Fiscal-api/internal/domain"
	"github.com/jhoicas/Fiscal-api/internal/domain/entity"
	"github.com/jhoicas/Fiscal-api/internal/domain/repository"
	"github.com/jhoicas/Fiscal-api/pkg/logger"
)

// RecordSaleUseCase registra una venta: una factura y sus líneas en una sola
// transacción. La verificación de factura duplicada ocurre antes de abrir la
// transacción, contra el repositorio de solo lectura.
type RecordSaleUseCase struct {
	invoiceRepo repository.InvoiceRepository
	txRunner    TxRunner
	publisher   EventPublisher
	log         *logger.Logger
}

// NewRecordSaleUseCase construye el caso de uso.
func NewRecordSaleUseCase(invoiceRepo repository.InvoiceRepository, txRunner TxRunner, publisher EventPublisher, log *logger.Logger) *RecordSaleUseCase {
	return &RecordSaleUseCase{invoiceRepo: invoiceRepo, txRunner: txRunner, publisher: publisher, log: log}
}

// Execute valida la venta, rechaza facturas duplicadas y persiste la cabecera
// junto con todas las líneas de forma atómica. Todas las filas comparten la
// misma fecha. Una lista de ítems vacía es válida: solo se crea la factura.
func (uc *RecordSaleUseCase) Execute(ctx context.Context, invoiceID string, date time.Time, items []dto.SaleItemRequest) error {
	if err := validateSale(invoiceID, date, items); err != nil {
		return err
	}

	existing, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrDuplicate
	}

	err = uc.txRunner.Run(ctx, func(invoiceRepo repository.InvoiceRepository, itemRepo repository.ItemRepository) error {
		if err := invoiceRepo.Create(&entity.Invoice{ID: invoiceID, Date: date}); err != nil {
			return err
		}
		for _, in := range items {
			item := &entity.Item{
				ID:        in.ItemID,
				InvoiceID: invoiceID,
				Cost:      in.Cost,
				TaxRate:   in.TaxRate,
				Date:      date,
			}
			if err := itemRepo.Create(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.publish(SaleRecorded{InvoiceID: invoiceID, ItemCount: len(items), Date: date})
	return nil
}

func (uc *RecordSaleUseCase) publish(event SaleRecorded) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(TopicTransactions, event); err != nil {
		// El evento es best effort: la venta ya quedó confirmada en BD.
		uc.log.Warn().Err(err).Str("invoice_id", event.InvoiceID).Msg("publicar evento de venta")
	}
}

func validateSale(invoiceID string, date time.Time, items []dto.SaleItemRequest) error {
	if _, err := uuid.Parse(invoiceID); err != nil {
		return domain.ErrInvalidInput
	}
	if date.IsZero() {
		return domain.ErrInvalidInput
	}
	for _, item := range items {
		if err := validateItem(item.ItemID, item.Cost, item.TaxRate); err != nil {
			return err
		}
	}
	return nil
}

// validateItem aplica las reglas comunes de línea: itemId UUID, costo no
// negativo en unidad menor y tasa como fracción en [0,1].
func validateItem(itemID string, cost int64, taxRate decimal.Decimal) error {
	if _, err := uuid.Parse(itemID); err != nil {
		return domain.ErrInvalidInput
	}
	if cost < 0 {
		return domain.ErrInvalidInput
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(1)) {
		return domain.ErrInvalidInput
	}
	return nil
}
