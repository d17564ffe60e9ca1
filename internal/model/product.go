package model

// ProductRow é a linha normalizada que vai para rag.products.
// Estoque fica nil quando o valor da API não é numérico.
type ProductRow struct {
	Sku          string
	Name         string
	Description  string
	CodigoBarras string
	Tipo         string
	Um           string
	QtdeCx       string
	Estoque      *float64
	Raw          string // payload original em JSON, sem campos de preço
}
