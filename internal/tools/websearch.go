package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// NoWebResult is returned when the search API runs but finds nothing, so the
// loop can tell "found nothing" from "tool is broken".
const NoWebResult = "Üniversite sitesinde ilgili sonuc bulunamadi"

const defaultCSEEndpoint = "https://www.googleapis.com/customsearch/v1"

// WebSearcher queries the Google Custom Search JSON API restricted to one
// site domain. API failures become descriptive output strings, never errors:
// the reasoning loop must be able to continue when the search API is down.
type WebSearcher struct {
	endpoint   string
	apiKey     string
	cseID      string
	siteDomain string
	maxResults int
	client     *http.Client
}

// WebSearcherOption configures a WebSearcher.
type WebSearcherOption func(*WebSearcher)

// WithEndpoint overrides the API endpoint (used in tests).
func WithEndpoint(endpoint string) WebSearcherOption {
	return func(w *WebSearcher) { w.endpoint = endpoint }
}

// NewWebSearcher creates a restricted site search client.
func NewWebSearcher(apiKey, cseID, siteDomain string, maxResults int, opts ...WebSearcherOption) *WebSearcher {
	if maxResults <= 0 {
		maxResults = 3
	}
	w := &WebSearcher{
		endpoint:   defaultCSEEndpoint,
		apiKey:     apiKey,
		cseID:      cseID,
		siteDomain: siteDomain,
		maxResults: maxResults,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type cseResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// Search runs the query and renders up to maxResults "title\nlink\nsnippet"
// blocks joined by blank lines.
func (w *WebSearcher) Search(ctx context.Context, query string) string {
	params := url.Values{}
	params.Set("key", w.apiKey)
	params.Set("cx", w.cseID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(w.maxResults))
	if w.siteDomain != "" {
		params.Set("siteSearch", w.siteDomain)
		params.Set("siteSearchFilter", "i")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Sprintf("Google Custom Search Error: %v", err)
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Sprintf("Google Custom Search Error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("Google Custom Search Error: http %d", resp.StatusCode)
	}

	var response cseResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Sprintf("Google Custom Search Error: %v", err)
	}
	if len(response.Items) == 0 {
		return NoWebResult
	}

	blocks := make([]string, 0, w.maxResults)
	for _, item := range response.Items {
		if len(blocks) >= w.maxResults {
			break
		}
		blocks = append(blocks, item.Title+"\n"+item.Link+"\n"+item.Snippet)
	}
	return strings.Join(blocks, "\n\n")
}

// NewWebSearchTool wraps the searcher as an agent tool.
func NewWebSearchTool(searcher *WebSearcher) *Tool {
	return &Tool{
		Name: NameWebSearch,
		Description: "Google Custom Search ile yalnızca " + searcher.siteDomain + " alan adındaki sayfalarda arama yapar. " +
			"Üniversite hakkında güncel bilgilere erişmek için bu aracı kullan.",
		Run: func(ctx context.Context, input string) (string, error) {
			return searcher.Search(ctx, input), nil
		},
	}
}
