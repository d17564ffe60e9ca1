package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apiprodutos/internal/cubo"
	"apiprodutos/internal/model"
)

type fakeStore struct {
	products map[string]*model.ProductRow // por sku
	chunks   map[string][]string          // por product id
	begins   int
	commits  int
	rollback int
	analyzed bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: make(map[string]*model.ProductRow),
		chunks:   make(map[string][]string),
	}
}

func (s *fakeStore) Begin(ctx context.Context) (StoreTx, error) {
	s.begins++
	return &fakeTx{store: s}, nil
}

func (s *fakeStore) Analyze(ctx context.Context) error {
	s.analyzed = true
	return nil
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) UpsertProduct(ctx context.Context, row *model.ProductRow) (string, error) {
	t.store.products[row.Sku] = row
	return "id-" + row.Sku, nil
}

func (t *fakeTx) InsertChunks(ctx context.Context, productID string, chunks []string) error {
	t.store.chunks[productID] = chunks
	return nil
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.store.commits++
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.store.rollback++
	return nil
}

// catalogServer publica duas páginas com 5 itens válidos e 1 sem sku.
func catalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	pages := map[string]string{
		"1": `{"total": 6, "totalPages": 2, "produtos": [
			{"codigo_produto": "1.001", "descricao": "Martelo", "preco_venda": "10,00"},
			{"codigo_produto": "...", "descricao": "sem sku"},
			{"codigo_produto": "1002", "descricao": "Trena"}
		]}`,
		"2": `{"totalPages": 2, "produtos": [
			{"codigo_produto": "1003", "descricao": "Serrote"},
			{"codigo_produto": "1004", "descricao": "Alicate"},
			{"codigo_produto": "1005", "descricao": "Chave de Fenda"}
		]}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Query().Get("page")]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func ingestClient(srv *httptest.Server) *cubo.Client {
	return &cubo.Client{
		BaseURL: srv.URL,
		APIKey:  "chave-teste",
		HTTP:    srv.Client(),
		Backoff: time.Millisecond,
	}
}

func TestRunIngereECommitaPorLote(t *testing.T) {
	srv := catalogServer(t)
	store := newFakeStore()
	g := &Ingestor{Client: ingestClient(srv), Store: store}

	upserted, chunks, err := g.Run(context.Background(), Options{
		Termo:       "*",
		PageSize:    3,
		CommitEvery: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, upserted, "item sem sku é filtrado, não contado")
	assert.Equal(t, 5, chunks, "um chunk por produto nesses textos curtos")
	assert.Len(t, store.products, 5)
	assert.Contains(t, store.products, "1001", "sku entra sem os pontos")
	// lotes de 2: commits em 2 e 4, mais o commit final
	assert.Equal(t, 3, store.commits)
	assert.Equal(t, 3, store.begins)
	assert.True(t, store.analyzed)
}

func TestRunDryRunNaoTocaOBanco(t *testing.T) {
	srv := catalogServer(t)
	store := newFakeStore()
	g := &Ingestor{Client: ingestClient(srv), Store: store}

	upserted, chunks, err := g.Run(context.Background(), Options{DryRun: true, PageSize: 3})
	require.NoError(t, err)

	assert.Equal(t, 5, upserted)
	assert.Zero(t, chunks)
	assert.Zero(t, store.begins)
	assert.Zero(t, store.commits)
	assert.False(t, store.analyzed)
}

func TestRunEIdempotente(t *testing.T) {
	srv := catalogServer(t)
	store := newFakeStore()
	g := &Ingestor{Client: ingestClient(srv), Store: store}

	_, _, err := g.Run(context.Background(), Options{PageSize: 3})
	require.NoError(t, err)
	first := len(store.products)

	_, _, err = g.Run(context.Background(), Options{PageSize: 3})
	require.NoError(t, err)

	assert.Equal(t, first, len(store.products), "reingestão não duplica linhas")
	assert.Len(t, store.chunks, 5)
}

func TestRunPropagaFalhaDeFetch(t *testing.T) {
	pages := map[string]string{
		"1": `{"totalPages": 2, "produtos": [{"codigo_produto": "1001"}]}`,
		// página 2 -> 500 em todas as tentativas
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Query().Get("page")]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	store := newFakeStore()
	g := &Ingestor{Client: ingestClient(srv), Store: store}

	upserted, _, err := g.Run(context.Background(), Options{PageSize: 1})
	require.Error(t, err)
	assert.Equal(t, 1, upserted, "o que veio antes da falha foi processado")
	assert.Equal(t, 1, store.rollback, "transação pendente é desfeita")
	assert.Zero(t, store.commits)
}

func TestRunLimitePaginas(t *testing.T) {
	srv := catalogServer(t)
	store := newFakeStore()
	g := &Ingestor{Client: ingestClient(srv), Store: store}

	upserted, _, err := g.Run(context.Background(), Options{PageSize: 3, LimitPages: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, upserted, "apenas a primeira página entra")
}
