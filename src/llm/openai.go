package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// openaiClient talks to OpenAI or any OpenAI-compatible chat completions server.
type openaiClient struct {
	client *openai.Client
	model  string
}

func newOpenAIClient(cfg Config, hc *http.Client) *openaiClient {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = hc
	return &openaiClient{client: openai.NewClientWithConfig(oc), model: cfg.Model}
}

func (c *openaiClient) buildRequest(prompt string, png []byte) openai.ChatCompletionRequest {
	imageDataURL := fmt.Sprintf("data:%s;base64,%s", imageMIMEType, base64.StdEncoding.EncodeToString(png))
	return openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: prompt},
				{
					Type:     openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{URL: imageDataURL},
				},
			},
		}},
	}
}

func (c *openaiClient) Query(ctx context.Context, prompt string, png []byte) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, c.buildRequest(prompt, png))
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *openaiClient) Ping(ctx context.Context) error {
	if _, err := c.client.GetModel(ctx, c.model); err != nil {
		return fmt.Errorf("get model %s: %w", c.model, err)
	}
	return nil
}
