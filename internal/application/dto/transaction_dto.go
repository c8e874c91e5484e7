package dto

import "github.com/shopspring/decimal"

// Tipos de evento aceptados por POST /api/transactions.
const (
	EventTypeSales      = "SALES"
	EventTypeTaxPayment = "TAX_PAYMENT"
)

// TransactionRequest body para POST /api/transactions. Según EventType aplican
// los campos de venta (InvoiceID, Items) o los de pago (Amount).
type TransactionRequest struct {
	EventType string            `json:"eventType"`
	InvoiceID string            `json:"invoiceId,omitempty"`
	Amount    int64             `json:"amount,omitempty"`
	Date      string            `json:"date"`
	Items     []SaleItemRequest `json:"items,omitempty"`
}

// SaleItemRequest línea de venta (ítem, costo en unidad menor, tasa en [0,1]).
type SaleItemRequest struct {
	ItemID  string          `json:"itemId"`
	Cost    int64           `json:"cost"`
	TaxRate decimal.Decimal `json:"taxRate"`
}

// PatchSaleRequest body para PATCH /api/sale: upsert de un snapshot de ítem.
type PatchSaleRequest struct {
	InvoiceID string          `json:"invoiceId"`
	ItemID    string          `json:"itemId"`
	Cost      int64           `json:"cost"`
	TaxRate   decimal.Decimal `json:"taxRate"`
	Date      string          `json:"date"`
}
