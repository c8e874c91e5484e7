package fiscal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Fiscal-api/internal/domain"
	"github.com/jhoicas/Fiscal-api/internal/domain/entity"
	"github.com/jhoicas/Fiscal-api/internal/domain/repository"
	"github.com/jhoicas/Fiscal-api/pkg/logger"
)

// RecordPaymentUseCase registra un pago de impuestos. Los pagos son
// append-only: no se deduplican ni se comparan contra pagos anteriores.
type RecordPaymentUseCase struct {
	paymentRepo repository.PaymentRepository
	publisher   EventPublisher
	log         *logger.Logger
}

// NewRecordPaymentUseCase construye el caso de uso.
func NewRecordPaymentUseCase(paymentRepo repository.PaymentRepository, publisher EventPublisher, log *logger.Logger) *RecordPaymentUseCase {
	return &RecordPaymentUseCase{paymentRepo: paymentRepo, publisher: publisher, log: log}
}

// Execute genera un ID fresco e inserta el pago. Un solo insert: no necesita
// transacción más allá de la atomicidad del propio motor.
func (uc *RecordPaymentUseCase) Execute(ctx context.Context, amount int64, date time.Time) error {
	if amount <= 0 || date.IsZero() {
		return domain.ErrInvalidInput
	}

	payment := &entity.Payment{
		ID:     uuid.New().String(),
		Amount: amount,
		Date:   date,
	}
	if err := uc.paymentRepo.Create(payment); err != nil {
		return err
	}

	if uc.publisher != nil {
		event := PaymentRecorded{PaymentID: payment.ID, Amount: amount, Date: date}
		if err := uc.publisher.Publish(TopicTransactions, event); err != nil {
			uc.log.Warn().Err(err).Str("payment_id", payment.ID).Msg("publicar evento de pago")
		}
	}
	return nil
}
