package imagecheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"apiprodutos/internal/config"
)

// SourceClient busca as imagens candidatas de um produto na API Copafer.
type SourceClient struct {
	BaseURL    string
	AuthHeader string
	AuthToken  string
	HTTP       *http.Client
}

func NewSourceClient(cfg *config.Config) *SourceClient {
	return &SourceClient{
		BaseURL:    cfg.CopaferBaseURL,
		AuthHeader: cfg.CopaferAuthHeader,
		AuthToken:  cfg.CopaferAuthToken,
		HTTP:       &http.Client{Timeout: 15 * time.Second},
	}
}

type imagesResponse struct {
	Images []struct {
		Base64 string `json:"base64"`
	} `json:"images"`
}

// FetchProductImages retorna os payloads base64 das imagens do produto.
// Entradas sem base64 são descartadas.
func (c *SourceClient) FetchProductImages(ctx context.Context, produtoID string) ([]string, error) {
	reqURL := c.BaseURL + "/cubo/produtos/imagem?id=" + url.QueryEscape(produtoID)

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(c.AuthHeader, c.AuthToken)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Copafer status %d", resp.StatusCode)
	}

	var data imagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("falha ao decodificar resposta: %w", err)
	}

	var images []string
	for _, img := range data.Images {
		if img.Base64 != "" {
			images = append(images, img.Base64)
		}
	}
	return images, nil
}
