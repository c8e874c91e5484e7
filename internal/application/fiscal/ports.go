package fiscal

import (
	"context"

	"github.com/jhoicas/Fiscal-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad: o se persisten todas
// las filas del callback o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		itemRepo repository.ItemRepository,
	) error) error
}

// EventPublisher publica eventos de dominio (best effort). Un publisher nil
// se considera deshabilitado.
type EventPublisher interface {
	Publish(topic string, event any) error
}
