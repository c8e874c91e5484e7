package fiscal

import (
	"context"
	"time"

	"github.com/jhoicas/Fiscal-api/internal/application/dto"
	"github.com/jhoicas/Fiscal-api/internal/domain/repository"
	"github.com/jhoicas/Fiscal-api/internal/domain/tax"
)

// TaxPositionUseCase calcula el impuesto neto adeudado a una fecha de corte.
// Solo lectura, sin efectos. Las dos consultas (ítems y pagos) van por
// separado; no se exige consistencia mutua entre ambas (ver DESIGN.md).
type TaxPositionUseCase struct {
	itemRepo    repository.ItemRepository
	paymentRepo repository.PaymentRepository
}

// NewTaxPositionUseCase construye el caso de uso.
func NewTaxPositionUseCase(itemRepo repository.ItemRepository, paymentRepo repository.PaymentRepository) *TaxPositionUseCase {
	return &TaxPositionUseCase{itemRepo: itemRepo, paymentRepo: paymentRepo}
}

// Execute trae los snapshots con date <= corte ordenados descendente, resuelve
// el más reciente por ítem, y netea contra los pagos hasta el corte. Filas
// posteriores al corte quedan fuera por construcción de las consultas.
func (uc *TaxPositionUseCase) Execute(ctx context.Context, cutoff time.Time) (*dto.TaxPositionResponse, error) {
	items, err := uc.itemRepo.ListUpTo(cutoff)
	if err != nil {
		return nil, err
	}
	payments, err := uc.paymentRepo.ListUpTo(cutoff)
	if err != nil {
		return nil, err
	}

	_, position := tax.PositionAt(cutoff, items, payments)
	return &dto.TaxPositionResponse{
		Date:        cutoff.UTC().Format(time.RFC3339),
		TaxPosition: tax.FormatPosition(position),
	}, nil
}
