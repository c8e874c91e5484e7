package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa el snapshot de una línea de venta en una fecha concreta.
// La identidad es compuesta: (ID, Date). Un mismo ID puede tener varios
// snapshots, uno por fecha, que representan re-precios históricos.
//
// Invariante: una vez que existe un snapshot (ID, Date) ligado a una factura,
// su InvoiceID no puede cambiar jamás.
type Item struct {
	ID        string
	InvoiceID string
	Cost      int64           // unidad menor de moneda (peniques/centavos)
	TaxRate   decimal.Decimal // fracción decimal en [0,1]
	Date      time.Time
}

// TaxLiability devuelve el impuesto de este snapshot (Cost × TaxRate),
// en unidad menor de moneda, como decimal exacto.
func (i *Item) TaxLiability() decimal.Decimal {
	return decimal.NewFromInt(i.Cost).Mul(i.TaxRate)
}
