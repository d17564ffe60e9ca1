package ingest

import (
	"context"
	"fmt"
	"log"
	"time"

	"apiprodutos/internal/cubo"
	"apiprodutos/internal/model"
	"apiprodutos/internal/observability"
)

// Store é o que a ingestão precisa do banco. A transação decide a
// visibilidade: nada gravado aparece antes do commit do lote.
type Store interface {
	Begin(ctx context.Context) (StoreTx, error)
	Analyze(ctx context.Context) error
}

type StoreTx interface {
	UpsertProduct(ctx context.Context, row *model.ProductRow) (string, error)
	InsertChunks(ctx context.Context, productID string, chunks []string) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Options struct {
	Termo       string
	PageSize    int
	StartPage   int
	LimitPages  int // 0 = todas
	DryRun      bool
	CommitEvery int
}

type Ingestor struct {
	Client *cubo.Client
	Store  Store
}

// Run drena a API paginada, mapeia cada item e grava produto + chunks,
// com commit a cada CommitEvery produtos gravados (padrão 200).
// Retorna (produtos upsertados, chunks inseridos).
func (g *Ingestor) Run(ctx context.Context, opts Options) (int, int, error) {
	if opts.Termo == "" {
		opts.Termo = "*"
	}
	if opts.StartPage < 1 {
		opts.StartPage = 1
	}
	if opts.CommitEvery < 1 {
		opts.CommitEvery = 200
	}

	start := time.Now()
	var upserted, chunksIns, batchCount int

	var tx StoreTx
	if !opts.DryRun {
		var err error
		tx, err = g.Store.Begin(ctx)
		if err != nil {
			return 0, 0, fmt.Errorf("falha ao abrir transação: %w", err)
		}
		defer func() {
			if tx != nil {
				_ = tx.Rollback(ctx)
			}
		}()
	}

	it := g.Client.Items(opts.Termo, cubo.IterOptions{
		StartPage:  opts.StartPage,
		PageSize:   opts.PageSize,
		LimitPages: opts.LimitPages,
	})

	for it.Next() {
		row := MapItem(it.Item())
		if row == nil {
			continue
		}

		text := BuildProductText(row)
		chunks := ChunkByTokens(text, DefaultChunkTokens, DefaultChunkOverlap)

		if opts.DryRun {
			// valida o chunking sem gravar
			upserted++
			continue
		}

		productID, err := tx.UpsertProduct(ctx, row)
		if err != nil {
			return upserted, chunksIns, fmt.Errorf("falha no upsert do sku %s: %w", row.Sku, err)
		}
		upserted++
		observability.ProdutosIngeridos.Inc()

		if err := tx.InsertChunks(ctx, productID, chunks); err != nil {
			return upserted, chunksIns, fmt.Errorf("falha ao inserir chunks do sku %s: %w", row.Sku, err)
		}
		chunksIns += len(chunks)
		observability.ChunksInseridos.Add(float64(len(chunks)))

		batchCount++
		if batchCount%opts.CommitEvery == 0 {
			if err := tx.Commit(ctx); err != nil {
				tx = nil
				return upserted, chunksIns, fmt.Errorf("falha no commit do lote: %w", err)
			}
			tx, err = g.Store.Begin(ctx)
			if err != nil {
				tx = nil
				return upserted, chunksIns, fmt.Errorf("falha ao reabrir transação: %w", err)
			}
			rate := float64(upserted) / time.Since(start).Seconds() * 60
			log.Printf("[Ingest] Commit #%d: %d produtos, %d chunks (%.1f prod/min)",
				batchCount/opts.CommitEvery, upserted, chunksIns, rate)
		}
	}
	if err := it.Err(); err != nil {
		return upserted, chunksIns, err
	}

	if !opts.DryRun {
		if err := tx.Commit(ctx); err != nil {
			tx = nil
			return upserted, chunksIns, fmt.Errorf("falha no commit final: %w", err)
		}
		tx = nil
		// otimiza planos ao final; falha aqui não invalida a carga
		if err := g.Store.Analyze(ctx); err != nil {
			log.Printf("[Ingest] Aviso: ANALYZE falhou: %v", err)
		}
	}

	log.Printf("[Ingest] Concluído em %s: %d produtos, %d chunks", time.Since(start).Round(time.Second), upserted, chunksIns)
	return upserted, chunksIns, nil
}
