// Package llm adapts the langchaingo OpenAI client to the
// domain.TextGenerator port.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"studygen/internal/domain"
	"studygen/internal/logger"

	"github.com/tmc/langchaingo/llms"
	openaiLLM "github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

const requestTimeout = 60 * time.Second

// OpenAIGenerator implements domain.TextGenerator against the OpenAI API.
type OpenAIGenerator struct {
	llm   *openaiLLM.LLM
	model string
}

// NewOpenAIGenerator creates a new OpenAIGenerator.
func NewOpenAIGenerator(apiKey, model string) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("OpenAI model name cannot be empty")
	}

	httpClient := &http.Client{
		Timeout: requestTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     10 * time.Second,
		},
	}

	client, err := openaiLLM.New(
		openaiLLM.WithToken(apiKey),
		openaiLLM.WithModel(model),
		openaiLLM.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI LLM client: %w", err)
	}

	return &OpenAIGenerator{llm: client, model: model}, nil
}

// Generate sends the instructions plus user input as a single prompt and
// returns the trimmed completion. Transport and API failures come back as
// typed upstream errors; no sentinel strings are ever placed in the text.
func (g *OpenAIGenerator) Generate(ctx context.Context, instructions, input string, opts domain.GenerationOptions) (string, error) {
	prompt := instructions
	if input != "" {
		prompt = instructions + " " + input
	}

	callOpts := []llms.CallOption{llms.WithTemperature(opts.Temperature)}
	if opts.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxTokens))
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	response, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, callOpts...)
	if err != nil {
		logger.Get().Error("Text generation failed",
			zap.String("model", g.model),
			zap.Error(err),
		)
		return "", domain.NewUpstreamFailureError("text generation failed", err)
	}

	return strings.TrimSpace(response), nil
}

var _ domain.TextGenerator = (*OpenAIGenerator)(nil)
