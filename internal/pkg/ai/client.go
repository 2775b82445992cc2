package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/edulink/mentorhub/internal/app/models"
	"github.com/edulink/mentorhub/internal/config"
)

// Enricher produces structured enrichment for knowledge base content
type Enricher interface {
	Enrich(ctx context.Context, title, sourceRef string) (*models.KnowledgeContent, error)
}

// Client wraps the Ollama API client for knowledge enrichment
type Client struct {
	api     *api.Client
	model   string
	timeout time.Duration
}

// NewClient creates a new enrichment client from config
func NewClient(cfg config.AIConfig) (*Client, error) {
	u, err := url.ParseRequestURI(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid AI base url: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	return &Client{
		api:     api.NewClient(u, httpClient),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

const enrichPrompt = `You are a study assistant for a student mentoring platform.
Summarize the material identified below and respond with a JSON object
containing exactly these fields:
  "summary": a concise summary in at most three sentences,
  "keyPoints": an array of 3 to 5 short key takeaways,
  "topics": an array of 1 to 5 lowercase topic tags.

Title: %s
Source: %s`

// Enrich asks the model for a summary, key points and topic tags. The request
// forces JSON output so the response parses into KnowledgeContent directly.
func (c *Client) Enrich(ctx context.Context, title, sourceRef string) (*models.KnowledgeContent, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	stream := false
	req := &api.GenerateRequest{
		Model:  c.model,
		Prompt: fmt.Sprintf(enrichPrompt, title, sourceRef),
		Format: json.RawMessage(`"json"`),
		Stream: &stream,
	}

	var response strings.Builder
	err := c.api.Generate(ctx, req, func(r api.GenerateResponse) error {
		response.WriteString(r.Response)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enrichment generation failed: %w", err)
	}

	var result models.KnowledgeContent
	if err := json.Unmarshal([]byte(response.String()), &result); err != nil {
		return nil, fmt.Errorf("enrichment response is not valid JSON: %w", err)
	}
	if result.Summary == "" {
		return nil, fmt.Errorf("enrichment response missing summary")
	}

	return &result, nil
}
