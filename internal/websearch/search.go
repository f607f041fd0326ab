package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/vikas872/nyay-sathi-clean/internal/cache"
	"github.com/vikas872/nyay-sathi-clean/internal/model"
	"github.com/vikas872/nyay-sathi-clean/internal/sanitize"
	"github.com/vikas872/nyay-sathi-clean/internal/util"
	"github.com/vikas872/nyay-sathi-clean/internal/worker"
)

const searchEndpoint = "https://html.duckduckgo.com/html/"

// Result is a single whitelisted web search result
type Result struct {
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Snippet string  `json:"snippet"`
	Domain  string  `json:"domain"`
	Score   float64 `json:"score"` // Relevance from tool result order
}

// Tool searches trusted legal websites. Implementations must respect
// the configured whitelist and per-call timeout.
type Tool interface {
	Search(ctx context.Context, query string) ([]model.EvidenceItem, error)
}

// DuckDuckGo implements Tool over the DuckDuckGo HTML endpoint with
// strict whitelist filtering, result caching, per-domain rate limiting
// and robots.txt compliance.
type DuckDuckGo struct {
	cfg        model.WebConfig
	whitelist  *Whitelist
	httpClient *http.Client
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
	results    cache.Cache
	cacheTTL   time.Duration
}

// NewDuckDuckGo creates the web search tool
func NewDuckDuckGo(cfg model.WebConfig, cacheCfg model.CacheConfig) *DuckDuckGo {
	d := &DuckDuckGo{
		cfg:       cfg,
		whitelist: NewWhitelist(cfg.Whitelist, cfg.SuffixAllow),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: worker.NewLimiter(cfg.RatePerSec, cfg.RateBurst),
	}
	if cfg.RespectRobots {
		d.robots = util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout)
	}
	if cacheCfg.Enabled {
		d.results = cache.NewMemoryCache(cacheCfg.TTL, 2*cacheCfg.TTL)
		d.cacheTTL = cacheCfg.TTL
	}
	return d
}

// Search runs one restricted web search. All failures map onto the
// tool taxonomy: ErrToolTimeout, ErrToolBlocked, ErrNoResults.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]model.EvidenceItem, error) {
	results, err := d.search(ctx, query)
	if err != nil {
		return nil, err
	}

	items := make([]model.EvidenceItem, 0, len(results))
	for _, r := range results {
		items = append(items, Evidence(r))
	}
	return items, nil
}

func (d *DuckDuckGo) search(ctx context.Context, query string) ([]Result, error) {
	key := cache.QueryKey(query)
	if d.results != nil {
		if raw, ok := d.results.Get(key); ok {
			var cached []Result
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	// Hard per-call deadline: exceeding it cancels this call only
	ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	searchURL := searchEndpoint + "?q=" + url.QueryEscape(d.restrictedQuery(query))

	if d.robots != nil && !d.robots.IsAllowed(ctx, searchURL) {
		return nil, fmt.Errorf("%w: robots.txt disallows %s", model.ErrToolBlocked, searchEndpoint)
	}

	if err := d.limiter.Wait(ctx, searchURL); err != nil {
		return nil, classifyErr(err)
	}

	body, err := d.fetch(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	results, err := parseResults(body, d.whitelist, d.cfg.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("%w: parse results: %v", model.ErrToolBlocked, err)
	}
	if len(results) == 0 {
		return nil, model.ErrNoResults
	}

	if d.results != nil {
		if raw, err := json.Marshal(results); err == nil {
			_ = d.results.Set(key, raw, d.cacheTTL)
		}
	}

	return results, nil
}

// restrictedQuery biases the engine toward the whitelisted hosts;
// the whitelist filter remains the actual enforcement
func (d *DuckDuckGo) restrictedQuery(query string) string {
	sites := make([]string, 0, 3)
	for _, s := range d.cfg.SuffixAllow {
		sites = append(sites, "site:"+s)
	}
	for _, h := range d.cfg.Whitelist {
		if len(sites) >= 3 {
			break
		}
		sites = append(sites, "site:"+h)
	}
	if len(sites) == 0 {
		return query
	}
	return query + " " + strings.Join(sites, " OR ")
}

func (d *DuckDuckGo) fetch(ctx context.Context, searchURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-IN,en;q=0.9")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", classifyErr(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: status %d", model.ErrToolBlocked, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: unexpected status %d", model.ErrToolBlocked, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2_000_000))
	if err != nil {
		return "", classifyErr(err)
	}
	return string(body), nil
}

// classifyErr maps transport errors onto the tool failure taxonomy
func classifyErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", model.ErrToolTimeout, err)
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", model.ErrToolTimeout, err)
	}
	return fmt.Errorf("%w: %v", model.ErrToolBlocked, err)
}

// Evidence converts a web result into an evidence item
func Evidence(r Result) model.EvidenceItem {
	return model.EvidenceItem{
		Origin: model.OriginWeb,
		Ref:    r.URL,
		Score:  r.Score,
		Text:   r.Snippet,
		Title:  r.Title,
		Domain: r.Domain,
	}
}

// parseResults walks the DuckDuckGo HTML response and keeps the first
// maxResults whitelisted hits in engine order
func parseResults(htmlContent string, whitelist *Whitelist, maxResults int) ([]Result, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	var results []Result
	var walk func(*html.Node)

	walk = func(n *html.Node) {
		if len(results) >= maxResults {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, "result__a") {
			href := attr(n, "href")
			link := resolveResultURL(href)
			if link != "" && whitelist.Allows(link) {
				title := sanitize.WebContent(nodeText(n), 200)
				snippet := findSnippet(n)
				results = append(results, Result{
					URL:     link,
					Title:   title,
					Snippet: snippet,
					Domain:  Domain(link),
					Score:   1.0 - 0.1*float64(len(results)),
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return results, nil
}

// resolveResultURL unwraps DuckDuckGo's redirect links (/l/?uddg=...)
func resolveResultURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if strings.HasSuffix(parsed.Host, "duckduckgo.com") || parsed.Host == "" {
		if target := parsed.Query().Get("uddg"); target != "" {
			return target
		}
		return ""
	}
	return href
}

// findSnippet looks for the result snippet near the result link:
// DuckDuckGo renders it as a sibling element with class result__snippet
func findSnippet(link *html.Node) string {
	container := link.Parent
	for i := 0; i < 3 && container != nil; i++ {
		if snippet := findByClass(container, "result__snippet"); snippet != nil {
			return sanitize.WebContent(nodeText(snippet), 400)
		}
		container = container.Parent
	}
	return ""
}

func findByClass(n *html.Node, class string) *html.Node {
	if n.Type == html.ElementNode && hasClass(n, class) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, field := range strings.Fields(attr(n, "class")) {
		if field == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
