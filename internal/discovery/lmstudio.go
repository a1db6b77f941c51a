package discovery

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"git.home.luguber.info/inful/refreshd/internal/config"
	ferrors "git.home.luguber.info/inful/refreshd/internal/foundation/errors"
	"git.home.luguber.info/inful/refreshd/internal/retry"
)

// DefaultLMStudioBaseURL is used when the provider section has no base_url.
const DefaultLMStudioBaseURL = "http://127.0.0.1:1234/v1"

// LMStudioClient lists the models served by an LM Studio (OpenAI-compatible) endpoint.
type LMStudioClient struct {
	http   *http.Client
	policy retry.Policy
}

// NewLMStudioClient returns a client. A nil httpClient gets a 10s timeout client.
func NewLMStudioClient(httpClient *http.Client, policy retry.Policy) *LMStudioClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &LMStudioClient{http: httpClient, policy: policy}
}

type modelsResponse struct {
	Data []lmstudioModel `json:"data"`
}

type lmstudioModel struct {
	ID               string `json:"id"`
	Type             string `json:"type,omitempty"`
	MaxContextLength int    `json:"max_context_length,omitempty"`
}

// Discover fetches {BaseURL}/models, retrying transient failures per the policy.
// Embedding models are skipped; ids are trimmed and de-duplicated in order.
func (c *LMStudioClient) Discover(ctx context.Context, ep Endpoint) ([]config.ModelDefinition, error) {
	var models []config.ModelDefinition
	err := retry.Do(ctx, c.policy, func(ctx context.Context) error {
		var err error
		models, err = c.fetch(ctx, ep)
		return err
	})
	if err != nil {
		return nil, err
	}
	return models, nil
}

func (c *LMStudioClient) fetch(ctx context.Context, ep Endpoint) ([]config.ModelDefinition, error) {
	base := strings.TrimRight(ep.BaseURL, "/")
	if base == "" {
		base = DefaultLMStudioBaseURL
	}
	url := base + "/models"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid provider url").
			WithContext("url", url).
			Build()
	}
	req.Header.Set("Accept", "application/json")
	if ep.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+ep.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to fetch models").
			Retryable().
			WithContext("url", url).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		b := ferrors.ProviderError("provider returned unexpected status").
			WithContext("url", url).
			WithContext("status", resp.StatusCode)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			b = b.Retryable()
		}
		return nil, b.Build()
	}

	var body modelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryProvider, "failed to decode models response").
			Warning().
			NextTick().
			WithContext("url", url).
			Build()
	}
	return toDefinitions(body.Data), nil
}

func toDefinitions(in []lmstudioModel) []config.ModelDefinition {
	out := make([]config.ModelDefinition, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, m := range in {
		id := strings.TrimSpace(m.ID)
		if id == "" || strings.EqualFold(m.Type, "embeddings") {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		input := []string{"text"}
		if strings.EqualFold(m.Type, "vlm") {
			input = []string{"text", "image"}
		}
		out = append(out, config.ModelDefinition{
			ID:            id,
			Name:          id,
			Input:         input,
			ContextWindow: m.MaxContextLength,
		})
	}
	return out
}
