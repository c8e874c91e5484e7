package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fiscal-api/internal/domain/entity"
	"github.com/jhoicas/Fiscal-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
// La tabla items tiene clave primaria compuesta (id, date).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// GetByIDAndDate obtiene el snapshot exacto (id, date); nil si no existe.
func (r *ItemRepo) GetByIDAndDate(id string, date time.Time) (*entity.Item, error) {
	const query = `
		SELECT id, invoice_id, cost, tax_rate, date
		FROM items WHERE id = $1 AND date = $2`
	var it entity.Item
	var invoiceID *string
	err := r.q.QueryRow(context.Background(), query, id, date).Scan(
		&it.ID, &invoiceID, &it.Cost, &it.TaxRate, &it.Date,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	if invoiceID != nil {
		it.InvoiceID = *invoiceID
	}
	return &it, nil
}

// Create persiste un snapshot nuevo.
func (r *ItemRepo) Create(item *entity.Item) error {
	const query = `
		INSERT INTO items (id, invoice_id, cost, tax_rate, date)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.Cost, item.TaxRate, item.Date,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("item snapshot already exists: %w", err)
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// UpdateCostAndRate actualiza solo cost y tax_rate del snapshot (id, date).
func (r *ItemRepo) UpdateCostAndRate(id string, date time.Time, cost int64, taxRate decimal.Decimal) error {
	const query = `
		UPDATE items SET cost = $3, tax_rate = $4
		WHERE id = $1 AND date = $2`
	_, err := r.q.Exec(context.Background(), query, id, date, cost, taxRate)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// ListUpTo devuelve todos los snapshots con date <= cutoff, el más reciente
// primero. Es la entrada de la pasada "first seen wins" del cálculo fiscal.
func (r *ItemRepo) ListUpTo(cutoff time.Time) ([]*entity.Item, error) {
	const query = `
		SELECT id, invoice_id, cost, tax_rate, date
		FROM items WHERE date <= $1
		ORDER BY date DESC`
	return r.list(query, cutoff)
}

// LatestUpTo resuelve en SQL el snapshot más reciente por id con date <= cutoff.
// Es la variante agrupada de ListUpTo + deduplicación en memoria; ambas rutas
// deben producir el mismo resultado.
func (r *ItemRepo) LatestUpTo(cutoff time.Time) ([]*entity.Item, error) {
	const query = `
		SELECT DISTINCT ON (id) id, invoice_id, cost, tax_rate, date
		FROM items WHERE date <= $1
		ORDER BY id, date DESC`
	return r.list(query, cutoff)
}

func (r *ItemRepo) list(query string, cutoff time.Time) ([]*entity.Item, error) {
	rows, err := r.q.Query(context.Background(), query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		var it entity.Item
		var invoiceID *string
		if err := rows.Scan(&it.ID, &invoiceID, &it.Cost, &it.TaxRate, &it.Date); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if invoiceID != nil {
			it.InvoiceID = *invoiceID
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
