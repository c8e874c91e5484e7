package entity

import "time"

// Invoice representa la cabecera de una venta.
// El ID lo aporta el llamador (UUID). Una vez creada es inmutable; el flujo
// de patch solo puede colgarle snapshots de ítems, nunca modificarla.
type Invoice struct {
	ID   string
	Date time.Time
}
