package imagecheck

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"apiprodutos/internal/config"
)

const (
	cacheKeyPrefix = "best_image_for_"

	// NullMarker é o resultado negativo explícito: "já verificamos e não
	// há imagem adequada". Diferente de chave ausente, que é "nunca
	// verificado"; o TTL deixa a decisão negativa ser refeita depois.
	NullMarker = "null"
)

type CacheState int

const (
	CacheHit CacheState = iota
	CacheMiss
	CacheFault
)

// Lookup é o resultado explícito de uma leitura de cache. Quem chama trata
// CacheFault como miss, mas o motivo fica disponível para log.
type Lookup struct {
	Value string
	State CacheState
	Err   error
}

type ImageCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewImageCache(cfg *config.Config) *ImageCache {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost + ":" + cfg.RedisPort,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})
	return &ImageCache{
		Client: client,
		TTL:    time.Duration(cfg.ImageCacheTTL) * time.Second,
	}
}

func (c *ImageCache) Get(ctx context.Context, produtoID string) Lookup {
	val, err := c.Client.Get(ctx, cacheKeyPrefix+produtoID).Result()
	if err == redis.Nil {
		return Lookup{State: CacheMiss}
	}
	if err != nil {
		return Lookup{State: CacheFault, Err: err}
	}
	return Lookup{Value: val, State: CacheHit}
}

// Set grava o payload da imagem escolhida; nil marca o produto como sem
// imagem (NullMarker). Sempre usa o TTL configurado.
func (c *ImageCache) Set(ctx context.Context, produtoID string, base64 *string) error {
	value := NullMarker
	if base64 != nil {
		value = *base64
	}
	return c.Client.SetEx(ctx, cacheKeyPrefix+produtoID, value, c.TTL).Err()
}
