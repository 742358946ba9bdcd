package domain

import (
	"context"
	"time"
)

// GenerationOptions tunes a single text-generation call.
type GenerationOptions struct {
	Temperature float64
	MaxTokens   int
}

// TextGenerator produces model text for an instruction/input pair.
// Implementations own transport concerns (timeouts, cancellation) and
// report failures as typed UpstreamFailure errors rather than sentinel
// strings in the returned text.
type TextGenerator interface {
	Generate(ctx context.Context, instructions, input string, opts GenerationOptions) (string, error)
}

// ImageGenerator produces an image for a prompt and returns its URL.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Cache defines the caching operations the services need.
type Cache interface {
	// Get retrieves a value. Returns ErrCacheMiss when the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value with an expiration. Zero means no expiration.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Ping checks connectivity to the underlying store.
	Ping(ctx context.Context) error
}
