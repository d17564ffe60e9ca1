package imagecheck

import (
	"context"
	"log"
	"strings"

	"apiprodutos/internal/observability"
)

type Cache interface {
	Get(ctx context.Context, produtoID string) Lookup
	Set(ctx context.Context, produtoID string, base64 *string) error
}

type Source interface {
	FetchProductImages(ctx context.Context, produtoID string) ([]string, error)
}

type Picker interface {
	PickBestImage(ctx context.Context, images []string) (*ModelChoice, error)
}

// CheckResponse é contrato com o consumidor externo do workflow:
// os nomes e a capitalização dos campos não podem mudar.
type CheckResponse struct {
	ImageExists bool   `json:"imageExists"`
	IdProduto   string `json:"IdProduto"`
}

// Checker implementa o cache-aside: consulta o cache, busca as imagens e
// pergunta ao modelo apenas no miss, e grava o resultado de volta.
// Nunca propaga erro: toda falha vira imageExists=false.
type Checker struct {
	Cache  Cache
	Source Source
	Picker Picker
}

func (c *Checker) Check(ctx context.Context, produtoID string) CheckResponse {
	lookup := c.Cache.Get(ctx, produtoID)
	switch lookup.State {
	case CacheHit:
		observability.ImageChecks.WithLabelValues("cache_hit").Inc()
		return CheckResponse{
			ImageExists: lookup.Value != NullMarker && lookup.Value != "",
			IdProduto:   produtoID,
		}
	case CacheFault:
		// cache fora do ar equivale a miss
		log.Printf("[ImageCheck] Cache indisponível para %s: %v", produtoID, lookup.Err)
	}

	images, err := c.Source.FetchProductImages(ctx, produtoID)
	if err != nil {
		log.Printf("[ImageCheck] Erro ao buscar imagens de %s: %v", produtoID, err)
	}
	if err != nil || len(images) == 0 {
		return c.negative(ctx, produtoID, "no_images")
	}

	for i := range images {
		images[i] = normalizeBase64(images[i])
	}

	choice, err := c.Picker.PickBestImage(ctx, images)
	if err != nil {
		log.Printf("[ImageCheck] Erro na análise do modelo para %s: %v", produtoID, err)
		return c.negative(ctx, produtoID, "model_fail")
	}

	idx := choice.BestImageIndex
	if idx == nil || *idx == NoImageCode {
		return c.negative(ctx, produtoID, "no_choice")
	}
	if *idx < 0 || *idx >= len(images) {
		log.Printf("[ImageCheck] Índice inválido do modelo para %s: %d (%d imagens)", produtoID, *idx, len(images))
		return c.negative(ctx, produtoID, "invalid_index")
	}

	chosen := images[*idx]
	if err := c.Cache.Set(ctx, produtoID, &chosen); err != nil {
		// gravação é best-effort; o resultado já está decidido
		log.Printf("[ImageCheck] Falha ao gravar cache de %s: %v", produtoID, err)
	}
	observability.ImageChecks.WithLabelValues("chosen").Inc()
	return CheckResponse{ImageExists: true, IdProduto: produtoID}
}

func (c *Checker) negative(ctx context.Context, produtoID, outcome string) CheckResponse {
	if err := c.Cache.Set(ctx, produtoID, nil); err != nil {
		log.Printf("[ImageCheck] Falha ao gravar marcador negativo de %s: %v", produtoID, err)
	}
	observability.ImageChecks.WithLabelValues(outcome).Inc()
	return CheckResponse{ImageExists: false, IdProduto: produtoID}
}

// normalizeBase64 remove quebras de linha e garante o prefixo data-URI
// para o payload ser usável direto como image_url (assume JPEG).
func normalizeBase64(s string) string {
	s = strings.NewReplacer("\r", "", "\n", "").Replace(s)
	if !strings.HasPrefix(s, "data:") {
		s = "data:image/jpeg;base64," + s
	}
	return s
}
