package fiscal_test

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Fiscal-api/internal/application/dto"
	"github.com/jhoicas/Fiscal-api/internal/application/fiscal"
	"github.com/jhoicas/Fiscal-api/internal/domain"
	"github.com/jhoicas/Fiscal-api/internal/domain/entity"
	"github.com/jhoicas/Fiscal-api/internal/domain/repository"
	"github.com/jhoicas/Fiscal-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: imitan el contrato del almacenamiento, incluida la
// violación de unicidad y el rollback transaccional (la tx trabaja sobre una
// copia y solo se fusiona al confirmar).
// ──────────────────────────────────────────────────────────────────────────────

const (
	invoiceA = "fdc96c93-5544-4968-8e70-61f6e3a47610"
	invoiceB = "0f7a1e0a-9c3b-4f50-93a1-2b1f0a8f4e11"
	itemA    = "25fa03b4-3b6f-44c7-92eb-d48ce24e6ce3"
	itemB    = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
)

type memStore struct {
	invoices map[string]*entity.Invoice
	items    map[string]*entity.Item
	payments []*entity.Payment
}

func newMemStore() *memStore {
	return &memStore{
		invoices: map[string]*entity.Invoice{},
		items:    map[string]*entity.Item{},
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.invoices {
		inv := *v
		c.invoices[k] = &inv
	}
	for k, v := range s.items {
		it := *v
		c.items[k] = &it
	}
	c.payments = append(c.payments, s.payments...)
	return c
}

func itemKey(id string, date time.Time) string {
	return fmt.Sprintf("%s|%d", id, date.Unix())
}

type memInvoiceRepo struct{ s *memStore }

func (r *memInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	return r.s.invoices[id], nil
}

func (r *memInvoiceRepo) Create(invoice *entity.Invoice) error {
	if _, ok := r.s.invoices[invoice.ID]; ok {
		return fmt.Errorf("invoice already exists")
	}
	inv := *invoice
	r.s.invoices[invoice.ID] = &inv
	return nil
}

func (r *memInvoiceRepo) GetOrCreate(invoice *entity.Invoice) (*entity.Invoice, error) {
	if existing, ok := r.s.invoices[invoice.ID]; ok {
		return existing, nil
	}
	inv := *invoice
	r.s.invoices[invoice.ID] = &inv
	return &inv, nil
}

type memItemRepo struct {
	s *memStore
	// failOnItem simula una falla de escritura (p. ej. violación de
	// constraint) al insertar ese ID, para probar el rollback.
	failOnItem string
}

func (r *memItemRepo) GetByIDAndDate(id string, date time.Time) (*entity.Item, error) {
	return r.s.items[itemKey(id, date)], nil
}

func (r *memItemRepo) Create(item *entity.Item) error {
	if item.ID == r.failOnItem {
		return fmt.Errorf("insert item: falla simulada")
	}
	key := itemKey(item.ID, item.Date)
	if _, ok := r.s.items[key]; ok {
		return fmt.Errorf("item snapshot already exists")
	}
	it := *item
	r.s.items[key] = &it
	return nil
}

func (r *memItemRepo) UpdateCostAndRate(id string, date time.Time, cost int64, taxRate decimal.Decimal) error {
	item, ok := r.s.items[itemKey(id, date)]
	if !ok {
		return fmt.Errorf("update item: no existe")
	}
	item.Cost = cost
	item.TaxRate = taxRate
	return nil
}

func (r *memItemRepo) ListUpTo(cutoff time.Time) ([]*entity.Item, error) {
	var list []*entity.Item
	for _, it := range r.s.items {
		if !it.Date.After(cutoff) {
			list = append(list, it)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return list, nil
}

func (r *memItemRepo) LatestUpTo(cutoff time.Time) ([]*entity.Item, error) {
	all, _ := r.ListUpTo(cutoff)
	seen := map[string]bool{}
	var latest []*entity.Item
	for _, it := range all {
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		latest = append(latest, it)
	}
	return latest, nil
}

type memPaymentRepo struct{ s *memStore }

func (r *memPaymentRepo) Create(payment *entity.Payment) error {
	p := *payment
	r.s.payments = append(r.s.payments, &p)
	return nil
}

func (r *memPaymentRepo) ListUpTo(cutoff time.Time) ([]*entity.Payment, error) {
	var list []*entity.Payment
	for _, p := range r.s.payments {
		if !p.Date.After(cutoff) {
			list = append(list, p)
		}
	}
	return list, nil
}

// memTxRunner ejecuta el callback sobre una copia del store y fusiona solo si
// no hubo error: mismo contrato todo-o-nada que la transacción real.
type memTxRunner struct {
	s          *memStore
	failOnItem string
}

func (t *memTxRunner) Run(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	itemRepo repository.ItemRepository,
) error) error {
	staging := t.s.clone()
	err := fn(&memInvoiceRepo{s: staging}, &memItemRepo{s: staging, failOnItem: t.failOnItem})
	if err != nil {
		return err
	}
	*t.s = *staging
	return nil
}

type capturingPublisher struct {
	topics []string
	events []any
	err    error
}

func (p *capturingPublisher) Publish(topic string, event any) error {
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "development", Level: "error"})
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func rate(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// RecordSaleUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordSale_CreaFacturaYLineas(t *testing.T) {
	store := newMemStore()
	publisher := &capturingPublisher{}
	uc := fiscal.NewRecordSaleUseCase(&memInvoiceRepo{s: store}, &memTxRunner{s: store}, publisher, testLogger())

	items := []dto.SaleItemRequest{
		{ItemID: itemA, Cost: 4999, TaxRate: rate("0.2")},
		{ItemID: itemB, Cost: 1000, TaxRate: rate("0.1")},
	}
	err := uc.Execute(context.Background(), invoiceA, date("2022-01-01"), items)

	require.NoError(t, err)
	require.Len(t, store.invoices, 1, "debe existir exactamente una factura")
	require.Len(t, store.items, 2, "debe existir una fila por línea")
	for _, it := range store.items {
		assert.Equal(t, invoiceA, it.InvoiceID, "todas las líneas comparten la factura")
		assert.True(t, it.Date.Equal(date("2022-01-01")), "todas las líneas comparten la fecha")
	}
	require.Len(t, publisher.events, 1, "una venta registrada emite un evento")
	assert.Equal(t, fiscal.TopicTransactions, publisher.topics[0])
}

func TestRecordSale_SinItemsSoloCreaFactura(t *testing.T) {
	store := newMemStore()
	uc := fiscal.NewRecordSaleUseCase(&memInvoiceRepo{s: store}, &memTxRunner{s: store}, nil, testLogger())

	err := uc.Execute(context.Background(), invoiceA, date("2022-01-01"), nil)

	require.NoError(t, err)
	assert.Len(t, store.invoices, 1)
	assert.Empty(t, store.items)
}

func TestRecordSale_FacturaDuplicadaRechazada(t *testing.T) {
	store := newMemStore()
	uc := fiscal.NewRecordSaleUseCase(&memInvoiceRepo{s: store}, &memTxRunner{s: store}, nil, testLogger())

	require.NoError(t, uc.Execute(context.Background(), invoiceA, date("2022-01-01"), nil))
	err := uc.Execute(context.Background(), invoiceA, date("2022-02-01"), nil)

	assert.ErrorIs(t, err, domain.ErrDuplicate)
	inv := store.invoices[invoiceA]
	require.NotNil(t, inv)
	assert.True(t, inv.Date.Equal(date("2022-01-01")), "la segunda llamada no debe tocar el estado")
}

func TestRecordSale_RollbackSiUnaLineaFalla(t *testing.T) {
	store := newMemStore()
	// itemB fallará al insertar: ni la factura ni itemA deben persistir.
	uc := fiscal.NewRecordSaleUseCase(&memInvoiceRepo{s: store}, &memTxRunner{s: store, failOnItem: itemB}, nil, testLogger())

	items := []dto.SaleItemRequest{
		{ItemID: itemA, Cost: 4999, TaxRate: rate("0.2")},
		{ItemID: itemB, Cost: 1000, TaxRate: rate("0.1")},
	}
	err := uc.Execute(context.Background(), invoiceA, date("2022-01-01"), items)

	require.Error(t, err)
	assert.Empty(t, store.invoices, "rollback: cero facturas")
	assert.Empty(t, store.items, "rollback: cero líneas")
}

func TestRecordSale_Validacion(t *testing.T) {
	store := newMemStore()
	uc := fiscal.NewRecordSaleUseCase(&memInvoiceRepo{s: store}, &memTxRunner{s: store}, nil, testLogger())
	ctx := context.Background()

	assert.ErrorIs(t, uc.Execute(ctx, "no-es-uuid", date("2022-01-01"), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, uc.Execute(ctx, invoiceA, time.Time{}, nil), domain.ErrInvalidInput)

	badItems := []dto.SaleItemRequest{{ItemID: "x", Cost: 100, TaxRate: rate("0.2")}}
	assert.ErrorIs(t, uc.Execute(ctx, invoiceA, date("2022-01-01"), badItems), domain.ErrInvalidInput)

	negCost := []dto.SaleItemRequest{{ItemID: itemA, Cost: -1, TaxRate: rate("0.2")}}
	assert.ErrorIs(t, uc.Execute(ctx, invoiceA, date("2022-01-01"), negCost), domain.ErrInvalidInput)

	badRate := []dto.SaleItemRequest{{ItemID: itemA, Cost: 100, TaxRate: rate("1.5")}}
	assert.ErrorIs(t, uc.Execute(ctx, invoiceA, date("2022-01-01"), badRate), domain.ErrInvalidInput)

	assert.Empty(t, store.invoices, "ninguna validación fallida debe escribir")
}

func TestRecordSale_FallaDePublisherNoRompeLaVenta(t *testing.T) {
	store := newMemStore()
	publisher := &capturingPublisher{err: fmt.Errorf("broker caído")}
	uc := fiscal.NewRecordSaleUseCase(&memInvoiceRepo{s: store}, &memTxRunner{s: store}, publisher, testLogger())

	err := uc.Execute(context.Background(), invoiceA, date("2022-01-01"), nil)

	require.NoError(t, err, "el evento es best effort")
	assert.Len(t, store.invoices, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordPaymentUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordPayment_InsertaConIDFresco(t *testing.T) {
	store := newMemStore()
	repo := &memPaymentRepo{s: store}
	uc := fiscal.NewRecordPaymentUseCase(repo, nil, testLogger())

	require.NoError(t, uc.Execute(context.Background(), 2500, date("2022-01-01")))
	require.NoError(t, uc.Execute(context.Background(), 2500, date("2022-01-01")))

	require.Len(t, store.payments, 2, "los pagos nunca se deduplican")
	assert.NotEqual(t, store.payments[0].ID, store.payments[1].ID, "cada pago recibe su propio ID")
	assert.Equal(t, int64(2500), store.payments[0].Amount)
}

func TestRecordPayment_Validacion(t *testing.T) {
	uc := fiscal.NewRecordPaymentUseCase(&memPaymentRepo{s: newMemStore()}, nil, testLogger())

	assert.ErrorIs(t, uc.Execute(context.Background(), 0, date("2022-01-01")), domain.ErrInvalidInput)
	assert.ErrorIs(t, uc.Execute(context.Background(), -5, date("2022-01-01")), domain.ErrInvalidInput)
	assert.ErrorIs(t, uc.Execute(context.Background(), 100, time.Time{}), domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// PatchSaleUseCase
// ──────────────────────────────────────────────────────────────────────────────

func patchInput(invoiceID, itemID string, cost int64, taxRate, day string) fiscal.PatchSaleInput {
	return fiscal.PatchSaleInput{
		InvoiceID: invoiceID,
		ItemID:    itemID,
		Cost:      cost,
		TaxRate:   rate(taxRate),
		Date:      date(day),
	}
}

func TestPatchSale_CreaFacturaPerezosaYSnapshot(t *testing.T) {
	store := newMemStore()
	uc := fiscal.NewPatchSaleUseCase(&memTxRunner{s: store})

	err := uc.Execute(context.Background(), patchInput(invoiceA, itemA, 4999, "0.2", "2022-01-01"))

	require.NoError(t, err)
	require.NotNil(t, store.invoices[invoiceA], "el patch origina la factura si no existe")
	item := store.items[itemKey(itemA, date("2022-01-01"))]
	require.NotNil(t, item)
	assert.Equal(t, int64(4999), item.Cost)
}

func TestPatchSale_EsIdempotente(t *testing.T) {
	store := newMemStore()
	uc := fiscal.NewPatchSaleUseCase(&memTxRunner{s: store})
	in := patchInput(invoiceA, itemA, 4999, "0.2", "2022-01-01")

	require.NoError(t, uc.Execute(context.Background(), in))
	require.NoError(t, uc.Execute(context.Background(), in))

	require.Len(t, store.items, 1, "misma (itemId, date): una sola fila")
	item := store.items[itemKey(itemA, date("2022-01-01"))]
	assert.Equal(t, int64(4999), item.Cost)
	assert.True(t, rate("0.2").Equal(item.TaxRate))
}

func TestPatchSale_RepreciaElSnapshot(t *testing.T) {
	store := newMemStore()
	uc := fiscal.NewPatchSaleUseCase(&memTxRunner{s: store})

	require.NoError(t, uc.Execute(context.Background(), patchInput(invoiceA, itemA, 4999, "0.2", "2022-01-01")))
	require.NoError(t, uc.Execute(context.Background(), patchInput(invoiceA, itemA, 5999, "0.19", "2022-01-01")))

	require.Len(t, store.items, 1, "re-precio sobre la misma fecha sobreescribe, no agrega")
	item := store.items[itemKey(itemA, date("2022-01-01"))]
	assert.Equal(t, int64(5999), item.Cost)
	assert.True(t, rate("0.19").Equal(item.TaxRate))
	assert.Equal(t, invoiceA, item.InvoiceID, "la pertenencia no cambia en el update")
}

func TestPatchSale_OtraFechaCreaOtroSnapshot(t *testing.T) {
	store := newMemStore()
	uc := fiscal.NewPatchSaleUseCase(&memTxRunner{s: store})

	require.NoError(t, uc.Execute(context.Background(), patchInput(invoiceA, itemA, 4999, "0.2", "2022-01-01")))
	require.NoError(t, uc.Execute(context.Background(), patchInput(invoiceA, itemA, 5999, "0.2", "2022-06-01")))

	assert.Len(t, store.items, 2, "fechas distintas = snapshots distintos")
}

func TestPatchSale_RechazaCambioDePertenencia(t *testing.T) {
	store := newMemStore()
	uc := fiscal.NewPatchSaleUseCase(&memTxRunner{s: store})

	require.NoError(t, uc.Execute(context.Background(), patchInput(invoiceA, itemA, 4999, "0.2", "2022-01-01")))
	err := uc.Execute(context.Background(), patchInput(invoiceB, itemA, 100, "0.1", "2022-01-01"))

	assert.ErrorIs(t, err, domain.ErrItemOwnership)
	item := store.items[itemKey(itemA, date("2022-01-01"))]
	assert.Equal(t, int64(4999), item.Cost, "la fila subyacente queda intacta")
	assert.Equal(t, invoiceA, item.InvoiceID)
}

func TestPatchSale_Validacion(t *testing.T) {
	uc := fiscal.NewPatchSaleUseCase(&memTxRunner{s: newMemStore()})
	ctx := context.Background()

	assert.ErrorIs(t, uc.Execute(ctx, patchInput("x", itemA, 100, "0.2", "2022-01-01")), domain.ErrInvalidInput)
	assert.ErrorIs(t, uc.Execute(ctx, patchInput(invoiceA, "x", 100, "0.2", "2022-01-01")), domain.ErrInvalidInput)

	in := patchInput(invoiceA, itemA, 100, "0.2", "2022-01-01")
	in.Date = time.Time{}
	assert.ErrorIs(t, uc.Execute(ctx, in), domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// TaxPositionUseCase — escenario completo del dominio sobre los fakes
// ──────────────────────────────────────────────────────────────────────────────

func TestTaxPosition_EscenarioCompleto(t *testing.T) {
	store := newMemStore()
	itemRepo := &memItemRepo{s: store}
	paymentRepo := &memPaymentRepo{s: store}

	// i1: 4999 @ 20% en enero, re-precio 5999 @ 20% en junio; pago de 100 en marzo.
	require.NoError(t, itemRepo.Create(&entity.Item{ID: itemA, InvoiceID: invoiceA, Cost: 4999, TaxRate: rate("0.2"), Date: date("2022-01-01")}))
	require.NoError(t, itemRepo.Create(&entity.Item{ID: itemA, InvoiceID: invoiceA, Cost: 5999, TaxRate: rate("0.2"), Date: date("2022-06-01")}))
	require.NoError(t, paymentRepo.Create(&entity.Payment{ID: "p1", Amount: 100, Date: date("2022-03-01")}))

	uc := fiscal.NewTaxPositionUseCase(itemRepo, paymentRepo)

	// Al corte de febrero ni el re-precio ni el pago existen todavía:
	// 4999 × 0.2 = 999.8 → 9.998 → "10.00".
	feb, err := uc.Execute(context.Background(), date("2022-02-01"))
	require.NoError(t, err)
	assert.Equal(t, "10.00", feb.TaxPosition)

	// Al corte de diciembre gana el snapshot de junio y aplica el pago:
	// (1199.8 − 100) / 100 = 10.998 → "11.00".
	dic, err := uc.Execute(context.Background(), date("2022-12-31"))
	require.NoError(t, err)
	assert.Equal(t, "11.00", dic.TaxPosition)
}

func TestTaxPosition_IgnoraFilasPosterioresAlCorte(t *testing.T) {
	store := newMemStore()
	itemRepo := &memItemRepo{s: store}
	paymentRepo := &memPaymentRepo{s: store}

	require.NoError(t, itemRepo.Create(&entity.Item{ID: itemA, InvoiceID: invoiceA, Cost: 1000, TaxRate: rate("0.2"), Date: date("2023-01-01")}))
	require.NoError(t, paymentRepo.Create(&entity.Payment{ID: "p1", Amount: 9999, Date: date("2023-01-01")}))

	uc := fiscal.NewTaxPositionUseCase(itemRepo, paymentRepo)
	out, err := uc.Execute(context.Background(), date("2022-12-31"))

	require.NoError(t, err)
	assert.Equal(t, "0.00", out.TaxPosition, "nada anterior al corte: posición cero")
}

func TestTaxPosition_PagoInmediatoCuentaElMismoDia(t *testing.T) {
	store := newMemStore()
	paymentRepo := &memPaymentRepo{s: store}
	require.NoError(t, paymentRepo.Create(&entity.Payment{ID: "p1", Amount: 2500, Date: date("2022-01-01")}))

	uc := fiscal.NewTaxPositionUseCase(&memItemRepo{s: store}, paymentRepo)
	out, err := uc.Execute(context.Background(), date("2022-01-01"))

	require.NoError(t, err)
	assert.Equal(t, "-25.00", out.TaxPosition, "el pago del mismo día entra en la suma")
}
