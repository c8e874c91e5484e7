package repository

import "github.com/jhoicas/Fiscal-api/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para Invoice.
type InvoiceRepository interface {
	// GetByID devuelve la factura o nil si no existe.
	GetByID(id string) (*entity.Invoice, error)
	Create(invoice *entity.Invoice) error
	// GetOrCreate inserta la factura solo si no existe (insert condicional
	// atómico) y devuelve la fila vigente. Dos llamadas concurrentes con el
	// mismo ID nunca fallan: una inserta y la otra lee.
	GetOrCreate(invoice *entity.Invoice) (*entity.Invoice, error)
}
