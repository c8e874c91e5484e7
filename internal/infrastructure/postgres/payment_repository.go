package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Fiscal-api/internal/domain/entity"
	"github.com/jhoicas/Fiscal-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository sobre PostgreSQL.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create persiste el pago.
func (r *PaymentRepo) Create(payment *entity.Payment) error {
	const query = `INSERT INTO payments (id, amount, date) VALUES ($1, $2, $3)`
	_, err := r.q.Exec(context.Background(), query, payment.ID, payment.Amount, payment.Date)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("payment already exists: %w", err)
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// ListUpTo devuelve todos los pagos con date <= cutoff.
func (r *PaymentRepo) ListUpTo(cutoff time.Time) ([]*entity.Payment, error) {
	const query = `SELECT id, amount, date FROM payments WHERE date <= $1`
	rows, err := r.q.Query(context.Background(), query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.Amount, &p.Date); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
