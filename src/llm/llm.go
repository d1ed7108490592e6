// Package llm sends a prompt plus one screenshot to a hosted multimodal model
// and returns the model's text reply.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	imageMIMEType = "image/png"
)

var (
	ErrMissingAPIKey = errors.New("API key is required")
	ErrMissingModel  = errors.New("model is required")
	ErrEmptyResponse = errors.New("empty response from model")
)

type Config struct {
	Provider string
	APIKey   string
	Model    string
	// BaseURL overrides the provider endpoint (OpenAI-compatible servers, tests).
	BaseURL string
	// Timeout bounds a single HTTP exchange; zero relies on the caller's context.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client is one configured inference backend.
type Client interface {
	// Query sends prompt and a PNG image in a single request.
	Query(ctx context.Context, prompt string, png []byte) (string, error)
	// Ping checks credentials and model availability.
	Ping(ctx context.Context) error
}

// New validates cfg and builds the client for its provider.
func New(cfg Config) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, ErrMissingModel
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	switch strings.ToLower(cfg.Provider) {
	case "", ProviderGemini:
		return newGeminiClient(cfg, hc), nil
	case ProviderOpenAI:
		return newOpenAIClient(cfg, hc), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
