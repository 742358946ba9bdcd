// Package imagegen adapts the OpenAI image API to the
// domain.ImageGenerator port.
package imagegen

import (
	"context"
	"fmt"

	"studygen/internal/domain"
	"studygen/internal/logger"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// DALLEGenerator implements domain.ImageGenerator using DALL-E.
type DALLEGenerator struct {
	client *openai.Client
	model  string
}

// NewDALLEGenerator creates a new DALLEGenerator. An empty model defaults
// to DALL-E 3.
func NewDALLEGenerator(apiKey, model string) (*DALLEGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key cannot be empty")
	}
	if model == "" {
		model = openai.CreateImageModelDallE3
	}

	cfg := openai.DefaultConfig(apiKey)
	return &DALLEGenerator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// Generate produces one 1024x1024 image for the prompt and returns its URL.
func (g *DALLEGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Model:   g.model,
		Prompt:  prompt,
		Size:    openai.CreateImageSize1024x1024,
		Quality: openai.CreateImageQualityStandard,
		N:       1,
	})
	if err != nil {
		logger.Get().Error("Image generation failed",
			zap.String("model", g.model),
			zap.Error(err),
		)
		return "", domain.NewUpstreamFailureError("image generation failed", err)
	}
	if len(resp.Data) == 0 {
		return "", domain.NewUpstreamFailureError("image generation returned no data", nil)
	}
	return resp.Data[0].URL, nil
}

var _ domain.ImageGenerator = (*DALLEGenerator)(nil)
