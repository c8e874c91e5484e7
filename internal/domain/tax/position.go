// Package tax implementa el cálculo puro de la posición fiscal: resolver el
// snapshot más reciente de cada ítem a una fecha de corte, acumular el
// impuesto y netear contra los pagos. No toca almacenamiento.
package tax

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fiscal-api/internal/domain/entity"
)

var centsPerUnit = decimal.NewFromInt(100)

// ResolveLatest recibe snapshots ordenados por fecha descendente y se queda
// con el primero que aparece de cada id ("first seen wins"): con el orden
// descendente eso equivale al snapshot más reciente por ítem.
func ResolveLatest(items []*entity.Item) []*entity.Item {
	seen := make(map[string]bool, len(items))
	latest := make([]*entity.Item, 0, len(items))
	for _, item := range items {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		latest = append(latest, item)
	}
	return latest
}

// GroupLatest resuelve el snapshot de fecha máxima por id sin depender del
// orden de entrada. Debe producir el mismo conjunto que ResolveLatest sobre
// una entrada ordenada descendente; los tests comparan ambas rutas.
func GroupLatest(items []*entity.Item) []*entity.Item {
	byID := make(map[string]*entity.Item, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		current, ok := byID[item.ID]
		if !ok {
			byID[item.ID] = item
			order = append(order, item.ID)
			continue
		}
		if item.Date.After(current.Date) {
			byID[item.ID] = item
		}
	}
	latest := make([]*entity.Item, 0, len(byID))
	for _, id := range order {
		latest = append(latest, byID[id])
	}
	return latest
}

// Liability acumula cost × taxRate de los snapshots dados, en unidad menor
// de moneda, con aritmética decimal exacta.
func Liability(items []*entity.Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TaxLiability())
	}
	return total
}

// SumPayments suma los montos pagados, en unidad menor de moneda.
func SumPayments(payments []*entity.Payment) int64 {
	var total int64
	for _, p := range payments {
		total += p.Amount
	}
	return total
}

// Position calcula la posición neta en unidad mayor de moneda:
// (impuesto acumulado − pagado) / 100. El redondeo a 2 decimales se hace al
// formatear (ver FormatPosition).
func Position(liability decimal.Decimal, paid int64) decimal.Decimal {
	return liability.Sub(decimal.NewFromInt(paid)).Div(centsPerUnit)
}

// FormatPosition representa la posición con exactamente 2 decimales.
// Regla de redondeo: mitad lejos de cero (StringFixed de shopspring/decimal),
// p. ej. 8.995 → "9.00" y −8.995 → "-9.00".
func FormatPosition(position decimal.Decimal) string {
	return position.StringFixed(2)
}

// PositionAt es la operación completa sobre datos ya filtrados al corte:
// resuelve el snapshot más reciente por ítem, acumula el impuesto, resta los
// pagos y devuelve la fecha de corte junto al neto.
func PositionAt(cutoff time.Time, items []*entity.Item, payments []*entity.Payment) (time.Time, decimal.Decimal) {
	liability := Liability(ResolveLatest(items))
	return cutoff, Position(liability, SumPayments(payments))
}
