package dto

// TaxPositionResponse respuesta de GET /api/tax-position.
// TaxPosition va en unidad mayor de moneda con exactamente 2 decimales.
type TaxPositionResponse struct {
	Date        string `json:"date"`
	TaxPosition string `json:"taxPosition"`
}
