package fiscal

import "time"

// TopicTransactions tópico al que se publican los eventos de transacción.
const TopicTransactions = "fiscal.transactions"

// SaleRecorded evento emitido tras registrar una venta.
type SaleRecorded struct {
	InvoiceID string    `json:"invoice_id"`
	ItemCount int       `json:"item_count"`
	Date      time.Time `json:"date"`
}

// PaymentRecorded evento emitido tras registrar un pago de impuestos.
type PaymentRecorded struct {
	PaymentID string    `json:"payment_id"`
	Amount    int64     `json:"amount"`
	Date      time.Time `json:"date"`
}
