package ingest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apiprodutos/internal/cubo"
)

func TestMapItemRejeitaSkuInvalido(t *testing.T) {
	cases := map[string]cubo.Item{
		"ausente":    {"descricao": "sem código"},
		"nil":        {"codigo_produto": nil},
		"vazio":      {"codigo_produto": ""},
		"espacos":    {"codigo_produto": "   "},
		"so pontos":  {"codigo_produto": "..."},
		"ponto e ws": {"codigo_produto": " . . "},
	}
	for name, item := range cases {
		assert.Nil(t, MapItem(item), name)
	}
}

func TestMapItemRemovePontosDoSku(t *testing.T) {
	row := MapItem(cubo.Item{"codigo_produto": "12.345.6"})
	require.NotNil(t, row)
	assert.Equal(t, "123456", row.Sku)
}

func TestMapItemNormalizaCampos(t *testing.T) {
	row := MapItem(cubo.Item{
		"codigo_produto":    " 42 ",
		"descricao":         "  Parafuso Sextavado  ",
		"descricao_tecnica": "Aço zincado ",
		"codigo_barras":     " 7891234567890",
		"tipo":              "FER",
		"um":                "UN",
		"qtde_cx":           "12",
		"estoque":           "1.234,56",
	})
	require.NotNil(t, row)
	assert.Equal(t, "42", row.Sku)
	assert.Equal(t, "Parafuso Sextavado", row.Name)
	assert.Equal(t, "Aço zincado", row.Description)
	assert.Equal(t, "7891234567890", row.CodigoBarras)
	assert.Equal(t, "FER", row.Tipo)
	assert.Equal(t, "UN", row.Um)
	assert.Equal(t, "12", row.QtdeCx)
	require.NotNil(t, row.Estoque)
	assert.Equal(t, 1234.56, *row.Estoque)
}

func TestMapItemEstoqueNaoNumericoViraNil(t *testing.T) {
	row := MapItem(cubo.Item{"codigo_produto": "1", "estoque": "sob consulta"})
	require.NotNil(t, row)
	assert.Nil(t, row.Estoque)

	row = MapItem(cubo.Item{"codigo_produto": "1"})
	require.NotNil(t, row)
	assert.Nil(t, row.Estoque)
}

func TestMapItemRemoveCamposDePreco(t *testing.T) {
	row := MapItem(cubo.Item{
		"codigo_produto": "99",
		"preco_venda":    "10,00",
		"PRECO":          "9,50",
		"Price_List":     "8,00",
		"descricao":      "martelo",
	})
	require.NotNil(t, row)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(row.Raw), &raw))
	assert.NotContains(t, raw, "preco_venda")
	assert.NotContains(t, raw, "PRECO")
	assert.NotContains(t, raw, "Price_List")
	assert.Equal(t, "martelo", raw["descricao"])
	assert.Equal(t, "99", raw["codigo_produto"])
}

func TestMapItemDeterministico(t *testing.T) {
	item := cubo.Item{
		"codigo_produto": "7",
		"descricao":      "trena",
		"extra":          map[string]any{"b": 1.0, "a": 2.0},
	}
	a := MapItem(item)
	b := MapItem(item)
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Equal(t, a, b)
	assert.Equal(t, a.Raw, b.Raw)
}

func TestParseDecimalBR(t *testing.T) {
	cases := []struct {
		in   any
		want *float64
	}{
		{"1.234,56", f(1234.56)},
		{"10,5", f(10.5)},
		{"7", f(7)},
		{float64(42), f(42)},
		{"abc", nil},
		{"", nil},
		{nil, nil},
	}
	for _, c := range cases {
		got := ParseDecimalBR(c.in)
		if c.want == nil {
			assert.Nil(t, got, "%v", c.in)
			continue
		}
		require.NotNil(t, got, "%v", c.in)
		assert.Equal(t, *c.want, *got, "%v", c.in)
	}
}

func f(v float64) *float64 { return &v }
