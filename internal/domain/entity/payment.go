package entity

import "time"

// Payment representa un pago de impuestos. Es append-only: nunca se
// actualiza ni se deduplica contra pagos anteriores.
type Payment struct {
	ID     string
	Amount int64 // unidad menor de moneda
	Date   time.Time
}
