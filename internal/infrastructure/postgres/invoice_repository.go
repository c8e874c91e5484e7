package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Fiscal-api/internal/domain/entity"
	"github.com/jhoicas/Fiscal-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// GetByID obtiene la factura por ID; nil si no existe.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	const query = `SELECT id, date FROM invoices WHERE id = $1`
	var inv entity.Invoice
	err := r.q.QueryRow(context.Background(), query, id).Scan(&inv.ID, &inv.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	const query = `INSERT INTO invoices (id, date) VALUES ($1, $2)`
	_, err := r.q.Exec(context.Background(), query, invoice.ID, invoice.Date)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice already exists: %w", err)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetOrCreate inserta la factura solo si no existe y devuelve la fila vigente.
// ON CONFLICT DO NOTHING elimina la carrera leer-luego-insertar: la segunda
// llamada concurrente no falla, simplemente lee lo que insertó la primera.
func (r *InvoiceRepo) GetOrCreate(invoice *entity.Invoice) (*entity.Invoice, error) {
	const query = `
		INSERT INTO invoices (id, date) VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), query, invoice.ID, invoice.Date); err != nil {
		return nil, fmt.Errorf("get-or-create invoice: %w", err)
	}
	existing, err := r.GetByID(invoice.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("get-or-create invoice: fila no visible tras insert")
	}
	return existing, nil
}
