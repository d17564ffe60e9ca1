package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"apiprodutos/internal/config"
	"apiprodutos/internal/cubo"
	"apiprodutos/internal/db"
	"apiprodutos/internal/ingest"
	"apiprodutos/internal/observability"
	"apiprodutos/internal/repository"
)

// go run cmd/ingest/main.go -termo="*" -limit-pages=5 -dry-run
func main() {
	termo := flag.String("termo", "*", "termo de busca na API do Cubo")
	pageSize := flag.Int("page-size", 0, "tamanho da página (0 = padrão do .env)")
	startPage := flag.Int("start-page", 1, "página inicial (1-based)")
	limitPages := flag.Int("limit-pages", 0, "limite de páginas a processar (0 = todas)")
	dryRun := flag.Bool("dry-run", false, "não grava no banco, apenas valida o fluxo")
	commitEvery := flag.Int("commit-every", 200, "commit a cada N produtos")
	flag.Parse()

	cfg := config.Load()

	observability.Start(cfg.MetricsPort)

	pool, err := db.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Erro ao conectar no Postgres (pgxpool): %v", err)
	}
	defer pool.Close()

	if *pageSize == 0 {
		*pageSize = cfg.CuboPageLimit
	}

	ing := &ingest.Ingestor{
		Client: cubo.NewClient(cfg),
		Store:  &repository.ProductRepository{DB: pool},
	}

	upserted, chunks, err := ing.Run(context.Background(), ingest.Options{
		Termo:       *termo,
		PageSize:    *pageSize,
		StartPage:   *startPage,
		LimitPages:  *limitPages,
		DryRun:      *dryRun,
		CommitEvery: *commitEvery,
	})
	if err != nil {
		log.Fatalf("Erro na ingestão: %v", err)
	}

	out, _ := json.Marshal(map[string]any{
		"ok":                true,
		"dry_run":           *dryRun,
		"upserted_products": upserted,
		"inserted_chunks":   chunks,
	})
	fmt.Println(string(out))
}
