package embedding

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/DjordjeVuckovic/video-hunter/internal/apperr"
	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 60 * time.Second

// HTTPClient talks to an Ollama-compatible embedding server.
type HTTPClient struct {
	http *resty.Client
}

type HTTPOption func(*resty.Client)

func WithTimeout(d time.Duration) HTTPOption {
	return func(c *resty.Client) {
		if d > 0 {
			c.SetTimeout(d)
		}
	}
}

func WithRetries(n int) HTTPOption {
	return func(c *resty.Client) {
		c.SetRetryCount(n)
	}
}

func NewHTTPClient(baseURL string, opts ...HTTPOption) (*HTTPClient, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid embedding base url: %w", err)
	}

	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		SetHeader("Accept", "application/json")

	for _, opt := range opts {
		opt(c)
	}

	return &HTTPClient{http: c}, nil
}

func (hc *HTTPClient) Generate(ctx context.Context, req Request) (*Response, error) {
	if req.Prompt == "" {
		return nil, apperr.NewValidation("missing text to embed")
	}
	if req.Model == "" {
		return nil, apperr.NewValidation("missing model name")
	}

	var resp Response
	if err := hc.post(ctx, "/api/embeddings", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("embedding server returned an empty vector")
	}

	return &resp, nil
}

func (hc *HTTPClient) GenerateBatch(ctx context.Context, req BatchRequest) (*BatchResponse, error) {
	if len(req.Prompts) == 0 {
		return nil, apperr.NewValidation("missing prompts to embed")
	}
	if req.Model == "" {
		return nil, apperr.NewValidation("missing model name")
	}

	var resp BatchResponse
	if err := hc.post(ctx, "/api/embed", req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (hc *HTTPClient) post(ctx context.Context, path string, body, result any) error {
	resp, err := hc.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result).
		Post(path)
	if err != nil {
		return fmt.Errorf("embedding request %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
