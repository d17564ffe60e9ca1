package ingest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"apiprodutos/internal/cubo"
	"apiprodutos/internal/model"
)

// MapItem converte um item cru da API na linha normalizada do banco.
// Retorna nil quando o codigo_produto, depois de remover os pontos,
// fica vazio: o item é filtrado, não é erro.
func MapItem(it cubo.Item) *model.ProductRow {
	sku := strings.TrimSpace(strings.ReplaceAll(NormStr(it["codigo_produto"]), ".", ""))
	if sku == "" {
		return nil
	}

	return &model.ProductRow{
		Sku:          sku,
		Name:         NormStr(it["descricao"]),
		Description:  NormStr(it["descricao_tecnica"]),
		CodigoBarras: NormStr(it["codigo_barras"]),
		Tipo:         NormStr(it["tipo"]),
		Um:           NormStr(it["um"]),
		QtdeCx:       NormStr(it["qtde_cx"]),
		Estoque:      ParseDecimalBR(it["estoque"]),
		Raw:          filterRawPayload(it),
	}
}

// NormStr converte qualquer valor para string sem espaços nas bordas.
func NormStr(v any) string {
	if v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprintf("%v", v)
	}
	return strings.TrimSpace(s)
}

// ParseDecimalBR interpreta números no formato brasileiro ("1.234,56").
// Entrada não numérica vira nil, nunca erro.
func ParseDecimalBR(v any) *float64 {
	if f, ok := v.(float64); ok {
		return &f
	}
	s := NormStr(v)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// filterRawPayload serializa o item original removendo qualquer chave de
// preço (contendo "preco" ou "price", sem distinguir maiúsculas). Valores
// que não serializam em JSON caem para a conversão em string.
func filterRawPayload(it cubo.Item) string {
	out := make(map[string]any, len(it))
	for k, v := range it {
		kl := strings.ToLower(k)
		if strings.Contains(kl, "preco") || strings.Contains(kl, "price") {
			continue
		}
		if _, err := json.Marshal(v); err != nil {
			out[k] = fmt.Sprintf("%v", v)
			continue
		}
		out[k] = v
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "{}"
	}
	return string(b)
}
