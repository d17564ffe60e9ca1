package ingest

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"apiprodutos/internal/model"
)

const (
	DefaultChunkTokens  = 400
	DefaultChunkOverlap = 40
)

// BuildProductText monta o texto composto do produto que vai para o
// chunking: descrição, tipo, descrição técnica, código e código de barras.
func BuildProductText(r *model.ProductRow) string {
	var sb strings.Builder

	if r.Name != "" {
		sb.WriteString(r.Name + "\n")
	}
	if r.Tipo != "" {
		sb.WriteString("Tipo: " + r.Tipo + "\n")
	}
	if r.Description != "" {
		sb.WriteString("Descrição Técnica: " + FlattenHTML(r.Description) + "\n")
	}
	sb.WriteString("Código: " + r.Sku + "\n")
	if r.CodigoBarras != "" {
		sb.WriteString("Código de Barras: " + r.CodigoBarras + "\n")
	}

	return sb.String()
}

// FlattenHTML reduz descrições técnicas com HTML a texto puro.
func FlattenHTML(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// ChunkByTokens divide o texto em chunks de até maxTokens tokens
// (separados por espaço), com overlap entre chunks consecutivos.
func ChunkByTokens(text string, maxTokens, overlap int) []string {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil
	}
	if maxTokens <= 0 {
		maxTokens = DefaultChunkTokens
	}
	if overlap < 0 || overlap >= maxTokens {
		overlap = 0
	}

	var chunks []string
	step := maxTokens - overlap
	for start := 0; start < len(tokens); start += step {
		end := start + maxTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, strings.Join(tokens[start:end], " "))
		if end == len(tokens) {
			break
		}
	}
	return chunks
}
