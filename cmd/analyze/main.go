package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"apiprodutos/internal/config"
	"apiprodutos/internal/cubo"
	"apiprodutos/internal/db"
	"apiprodutos/internal/ingest"
)

// Relatório de SKUs rejeitados pela ingestão: percorre algumas páginas da
// API e classifica os itens sem codigo_produto aproveitável, comparando os
// válidos com o que já existe em rag.products.
//
// go run cmd/analyze/main.go -pages=5
func main() {
	pages := flag.Int("pages", 5, "número de páginas a analisar")
	termo := flag.String("termo", "*", "termo de busca na API do Cubo")
	flag.Parse()

	cfg := config.Load()
	client := cubo.NewClient(cfg)

	known := loadKnownSkus(cfg.DatabaseURL)

	var total, valid, empty, dotsOnly, missing int
	var samples []string

	it := client.Items(*termo, cubo.IterOptions{
		StartPage:  1,
		PageSize:   cfg.CuboPageLimit,
		LimitPages: *pages,
	})
	for it.Next() {
		item := it.Item()
		total++

		raw := ingest.NormStr(item["codigo_produto"])
		if raw == "" {
			empty++
			if len(samples) < 5 {
				samples = append(samples, fmt.Sprintf("vazio | desc: %.50s", ingest.NormStr(item["descricao"])))
			}
			continue
		}

		sku := strings.TrimSpace(strings.ReplaceAll(raw, ".", ""))
		if sku == "" {
			dotsOnly++
			if len(samples) < 5 {
				samples = append(samples, fmt.Sprintf("só pontos: %q | desc: %.50s", raw, ingest.NormStr(item["descricao"])))
			}
			continue
		}

		valid++
		if known != nil && !known[sku] {
			missing++
		}
	}
	if err := it.Err(); err != nil {
		log.Fatalf("Erro durante análise: %v", err)
	}

	fmt.Printf("Total de itens analisados: %d\n", total)
	fmt.Printf("SKUs válidos: %d\n", valid)
	fmt.Printf("SKUs rejeitados: %d\n", empty+dotsOnly)
	fmt.Printf("  - vazios/ausentes: %d\n", empty)
	fmt.Printf("  - só com pontos: %d\n", dotsOnly)
	if known != nil {
		fmt.Printf("SKUs válidos ainda fora do banco: %d\n", missing)
	}
	if total > 0 {
		fmt.Printf("Taxa de rejeição: %.1f%%\n", float64(empty+dotsOnly)/float64(total)*100)
	}
	for i, s := range samples {
		fmt.Printf("  amostra %d: %s\n", i+1, s)
	}
}

// loadKnownSkus lê os SKUs já ingeridos; sem banco o relatório segue só
// com a classificação da API.
func loadKnownSkus(databaseURL string) map[string]bool {
	conn, err := db.New(databaseURL)
	if err != nil {
		log.Printf("Aviso: sem acesso ao banco, pulando comparação: %v", err)
		return nil
	}
	defer conn.Close()

	rows, err := conn.Query("SELECT sku FROM rag.products")
	if err != nil {
		log.Printf("Aviso: não foi possível ler os SKUs existentes: %v", err)
		return nil
	}
	defer rows.Close()

	known := make(map[string]bool)
	for rows.Next() {
		var sku string
		if err := rows.Scan(&sku); err == nil {
			known[sku] = true
		}
	}
	return known
}
