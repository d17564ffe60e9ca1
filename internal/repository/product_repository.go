package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"apiprodutos/internal/ingest"
	"apiprodutos/internal/model"
)

type ProductRepository struct {
	DB *pgxpool.Pool
}

func (r *ProductRepository) Begin(ctx context.Context) (ingest.StoreTx, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &productTx{tx: tx}, nil
}

// Analyze atualiza as estatísticas do planner depois de uma carga grande.
func (r *ProductRepository) Analyze(ctx context.Context) error {
	if _, err := r.DB.Exec(ctx, "ANALYZE rag.products"); err != nil {
		return err
	}
	_, err := r.DB.Exec(ctx, "ANALYZE rag.product_chunks")
	return err
}

type productTx struct {
	tx pgx.Tx
}

// UpsertProduct insere ou atualiza pelo sku e retorna o id do produto.
func (t *productTx) UpsertProduct(ctx context.Context, row *model.ProductRow) (string, error) {
	var id string
	err := t.tx.QueryRow(ctx, `
		INSERT INTO rag.products
		(id, sku, name, description, codigo_barras, tipo, um, qtde_cx, estoque, raw, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		ON CONFLICT (sku) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			codigo_barras = EXCLUDED.codigo_barras,
			tipo = EXCLUDED.tipo,
			um = EXCLUDED.um,
			qtde_cx = EXCLUDED.qtde_cx,
			estoque = EXCLUDED.estoque,
			raw = EXCLUDED.raw,
			updated_at = now()
		RETURNING id
	`, uuid.New().String(), row.Sku, row.Name, row.Description, row.CodigoBarras,
		row.Tipo, row.Um, row.QtdeCx, row.Estoque, row.Raw).Scan(&id)
	return id, err
}

// InsertChunks substitui os chunks do produto; reingestões não duplicam.
func (t *productTx) InsertChunks(ctx context.Context, productID string, chunks []string) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM rag.product_chunks WHERE product_id = $1`, productID); err != nil {
		return err
	}
	for ord, chunk := range chunks {
		_, err := t.tx.Exec(ctx, `
			INSERT INTO rag.product_chunks (id, product_id, ord, content)
			VALUES ($1, $2, $3, $4)
		`, uuid.New().String(), productID, ord, chunk)
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *productTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *productTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }
