package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fiscal-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para snapshots de ítems.
// La clave es compuesta: (id, date).
type ItemRepository interface {
	// GetByIDAndDate devuelve el snapshot exacto o nil si no existe.
	GetByIDAndDate(id string, date time.Time) (*entity.Item, error)
	Create(item *entity.Item) error
	// UpdateCostAndRate actualiza solo cost y tax_rate del snapshot (id, date).
	// InvoiceID y Date quedan intactos.
	UpdateCostAndRate(id string, date time.Time, cost int64, taxRate decimal.Decimal) error
	// ListUpTo devuelve todos los snapshots con date <= cutoff, ordenados por
	// fecha descendente (el más reciente primero).
	ListUpTo(cutoff time.Time) ([]*entity.Item, error)
	// LatestUpTo devuelve solo el snapshot más reciente por id con
	// date <= cutoff (resolución en el motor de almacenamiento).
	LatestUpTo(cutoff time.Time) ([]*entity.Item, error)
}
