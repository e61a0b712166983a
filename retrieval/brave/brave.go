// Package brave provides a retrieval backend over the Brave Search API,
// for pipelines that retrieve from the live web instead of a local corpus.
package brave

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/smallnest/longformqa/retrieval"
)

// Retriever implements retrieval.Retriever using the Brave Search API.
// Result titles become passage titles; descriptions become passage text.
type Retriever struct {
	apiKey  string
	baseURL string
	country string
	lang    string
	client  *http.Client
}

var _ retrieval.Retriever = (*Retriever)(nil)

// Option configures a Retriever.
type Option func(*Retriever)

// WithBaseURL sets the base URL for the Brave Search API.
func WithBaseURL(baseURL string) Option {
	return func(r *Retriever) {
		r.baseURL = baseURL
	}
}

// WithCountry sets the country code for search results (e.g., "US").
func WithCountry(country string) Option {
	return func(r *Retriever) {
		r.country = country
	}
}

// WithLang sets the language code for search results (e.g., "en").
func WithLang(lang string) Option {
	return func(r *Retriever) {
		r.lang = lang
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Retriever) {
		r.client = client
	}
}

// New creates a Brave retriever. If apiKey is empty, the BRAVE_API_KEY
// environment variable is used.
func New(apiKey string, opts ...Option) (*Retriever, error) {
	if apiKey == "" {
		apiKey = os.Getenv("BRAVE_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("BRAVE_API_KEY not set")
	}

	r := &Retriever{
		apiKey:  apiKey,
		baseURL: "https://api.search.brave.com/res/v1/web/search",
		country: "US",
		lang:    "en",
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Retrieve searches the web and returns up to k passages.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]retrieval.Passage, error) {
	if k < 1 {
		k = 1
	}
	if k > 20 {
		k = 20
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", fmt.Sprintf("%d", k))
	if r.country != "" {
		params.Set("country", r.country)
	}
	if r.lang != "" {
		params.Set("search_lang", r.lang)
	}

	reqURL := fmt.Sprintf("%s?%s", r.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brave api returned status: %d", resp.StatusCode)
	}

	var result braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	passages := make([]retrieval.Passage, 0, len(result.Web.Results))
	for _, item := range result.Web.Results {
		if item.Description == "" {
			continue
		}
		passages = append(passages, retrieval.Passage{
			Title: item.Title,
			Text:  item.Description,
		})
		if len(passages) == k {
			break
		}
	}
	return passages, nil
}
