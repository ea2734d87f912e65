package engine

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/DjordjeVuckovic/video-hunter/internal/eval/resultset"
	"github.com/DjordjeVuckovic/video-hunter/internal/search"
	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
)

// APIRetriever evaluates a running video API over HTTP.
type APIRetriever struct {
	name   string
	client *resty.Client
}

func NewAPIRetriever(name, baseURL string) *APIRetriever {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetHeader("Accept", "application/json")
	c.JSONUnmarshal = sonic.Unmarshal

	return &APIRetriever{name: name, client: c}
}

func (r *APIRetriever) Name() string { return r.name }

func (r *APIRetriever) Retrieve(ctx context.Context, query string, k int) ([]resultset.Candidate, error) {
	var body search.Response

	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("query", query).
		SetQueryParam("k", strconv.Itoa(k)).
		SetResult(&body).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("api request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("api status %d: %s", resp.StatusCode(), resp.String())
	}

	out := make([]resultset.Candidate, len(body.Results))
	for i, res := range body.Results {
		out[i] = resultset.Candidate{ID: res.VideoID, Score: float64(res.Score)}
	}
	return out, nil
}
