package imagecheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"apiprodutos/internal/config"
)

// NoImageCode é o sentinela que o modelo devolve em best_image_index
// quando nenhuma imagem serve como capa.
const NoImageCode = 932042349

const pickInstruction = "Qual dessas imagens lhe parece mais adequada para mostrar ao cliente " +
	"que deseja ver uma imagem do produto? Isto é, qual delas se encaixa melhor " +
	"como imagem de capa do produto? ATENÇÃO: Se caso nenhuma imagem for adequada, " +
	"pois não é uma imagem para o cliente que quer ver o produto em detalhes, " +
	"a foto não é profissional etc, retorne o número 932042349 em best_image_index"

var pickSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"justification": {
			"type": "string",
			"description": "Justificativa da escolha da imagem curta e objetiva"
		},
		"best_image_index": {
			"type": "number",
			"description": "Index (começando de 0) da imagem escolhida. Caso nenhuma seja escolhida, retorne 932042349"
		}
	},
	"required": ["justification", "best_image_index"],
	"additionalProperties": false
}`)

type ModelChoice struct {
	BestImageIndex *int
	Justification  string
}

// ImagePicker pede ao modelo (via OpenRouter) a melhor imagem de capa.
type ImagePicker struct {
	Client *openai.Client
	Model  string
}

func NewImagePicker(cfg *config.Config) *ImagePicker {
	clientCfg := openai.DefaultConfig(cfg.OpenRouterKey)
	clientCfg.BaseURL = cfg.OpenRouterBaseURL
	// a análise de várias imagens pode demorar
	clientCfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	return &ImagePicker{
		Client: openai.NewClientWithConfig(clientCfg),
		Model:  cfg.OpenRouterModel,
	}
}

// PickBestImage envia a instrução fixa mais todas as candidatas e exige a
// resposta no schema estrito {justification, best_image_index}.
func (p *ImagePicker) PickBestImage(ctx context.Context, images []string) (*ModelChoice, error) {
	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: pickInstruction},
	}
	for _, img := range images {
		parts = append(parts, openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: img},
		})
	}

	resp, err := p.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "response",
				Schema: pickSchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("nenhuma escolha retornada pela API")
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return nil, errors.New("conteúdo da mensagem vazio")
	}

	var parsed struct {
		Justification  string   `json:"justification"`
		BestImageIndex *float64 `json:"best_image_index"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("erro ao parsear JSON da resposta: %w", err)
	}

	choice := &ModelChoice{Justification: parsed.Justification}
	if parsed.BestImageIndex != nil {
		idx := int(*parsed.BestImageIndex)
		choice.BestImageIndex = &idx
	}
	return choice, nil
}
