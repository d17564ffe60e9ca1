package cubo

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"apiprodutos/internal/config"
)

const (
	maxRetries  = 3
	defaultWait = 1500 * time.Millisecond
)

// Client consulta a API paginada do Cubo.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
	Backoff time.Duration
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		BaseURL: cfg.CuboAPIURL,
		APIKey:  cfg.CuboAPIKey,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Backoff: defaultWait,
	}
}

// Page é uma página já decodificada da API.
type Page struct {
	Total      int
	TotalPages int
	Items      []Item
}

// Item é um produto cru da API, sem schema garantido.
type Item map[string]any

// HTTPError carrega o status e o corpo da última resposta após os retries.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("Cubo status %d: %.500s", e.Status, e.Body)
}

// FetchPage busca uma página. Em 5xx faz até 3 retries com backoff
// exponencial (1.5s, 3s, 6s); 4xx falha direto, sem retry.
func (c *Client) FetchPage(termo string, page, limit int) (*Page, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("defina X_COPAFER_KEY no .env")
	}

	resp, err := c.get(termo, page, limit)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 500 {
		for i := 0; i < maxRetries; i++ {
			resp.Body.Close()
			wait := c.Backoff * (1 << i)
			time.Sleep(wait)
			resp, err = c.get(termo, page, limit)
			if err != nil {
				return nil, err
			}
			if resp.StatusCode < 400 {
				break
			}
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler resposta da página %d: %w", page, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{Status: resp.StatusCode, Body: string(body)}
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("resposta não é JSON: %w; corpo: %.500s", err, string(body))
	}

	return &Page{
		Total:      intField(payload, "total"),
		TotalPages: intField(payload, "totalPages"),
		Items:      extractItems(payload),
	}, nil
}

func (c *Client) get(termo string, page, limit int) (*http.Response, error) {
	q := url.Values{}
	q.Set("termo", termo)
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequest("GET", c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-copafer-key", c.APIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "copafer-client/ingest_api/1.0")

	return c.HTTP.Do(req)
}

// extractItems localiza a lista de itens no payload. A API do Cubo usa
// 'produtos'; os demais campos são fallbacks conhecidos. Lista ausente
// vira página vazia, nunca erro.
func extractItems(payload map[string]any) []Item {
	if v, ok := payload["produtos"].([]any); ok {
		return toItems(v)
	}
	if v, ok := payload["items"].([]any); ok {
		return toItems(v)
	}
	for _, key := range []string{"data", "results", "content"} {
		switch v := payload[key].(type) {
		case []any:
			return toItems(v)
		case map[string]any:
			if inner, ok := v["items"].([]any); ok {
				return toItems(inner)
			}
		}
	}
	return nil
}

func toItems(list []any) []Item {
	items := make([]Item, 0, len(list))
	for _, e := range list {
		if m, ok := e.(map[string]any); ok {
			items = append(items, Item(m))
		}
	}
	return items
}

func intField(payload map[string]any, key string) int {
	if f, ok := payload[key].(float64); ok {
		return int(f)
	}
	return 0
}
