package repository

import (
	"time"

	"github.com/jhoicas/Fiscal-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para pagos de impuestos.
type PaymentRepository interface {
	Create(payment *entity.Payment) error
	// ListUpTo devuelve todos los pagos con date <= cutoff.
	ListUpTo(cutoff time.Time) ([]*entity.Payment, error)
}
