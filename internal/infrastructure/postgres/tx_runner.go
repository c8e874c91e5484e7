package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Fiscal-api/internal/application/fiscal"
	"github.com/jhoicas/Fiscal-api/internal/domain/repository"
)

// Ensure TxRunner implements fiscal.TxRunner.
var _ fiscal.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Si cualquier inserción del callback falla, ninguna fila
// queda visible: es la garantía todo-o-nada de la venta.
func (r *TxRunner) Run(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	itemRepo repository.ItemRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	invoiceRepo := NewInvoiceRepository(tx)
	itemRepo := NewItemRepository(tx)

	if err := fn(invoiceRepo, itemRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
