package keywords

import (
	"context"
	"encoding/xml"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"autoblog-go/pkg/logger"
)

// maxKeywords caps one collection round.
const maxKeywords = 15

// Collector gathers trending keywords from an RSS feed, falling back to a
// curated inventory when the feed is unreachable. It is operational
// plumbing around the core pipeline: keyword quality is best-effort.
type Collector struct {
	client  *fasthttp.Client
	feedURL string
	rng     *rand.Rand
	log     *logger.Logger
}

// NewCollector creates a collector. feedURL may be empty, in which case
// only the fallback inventory is used. rng drives inventory sampling.
func NewCollector(feedURL string, rng *rand.Rand) *Collector {
	return &Collector{
		client: &fasthttp.Client{
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		feedURL: feedURL,
		rng:     rng,
		log:     logger.GetLogger().WithComponent("keyword_collector"),
	}
}

// Collect returns up to 15 deduplicated keywords for this run. Feed
// failures are logged and absorbed by the fallback inventory; the result is
// never empty.
func (c *Collector) Collect(ctx context.Context) []string {
	var collected []string

	if c.feedURL != "" {
		trending, err := c.fetchTrending(ctx)
		if err != nil {
			c.log.WithError(err).Warn("Trend feed unavailable, using fallback inventory")
		} else {
			c.log.WithField("count", len(trending)).Info("Trend keywords collected")
			collected = trending
		}
	}

	if len(collected) == 0 {
		collected = FallbackKeywords(time.Now(), c.rng)
	}

	return dedupe(collected, maxKeywords)
}

func (c *Collector) fetchTrending(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.feedURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "application/rss+xml, application/xml;q=0.9, */*;q=0.8")
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.8,en-US;q=0.5")

	if err := c.client.DoTimeout(req, resp, 10*time.Second); err != nil {
		return nil, fmt.Errorf("trend feed request failed: %w", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("trend feed returned HTTP %d", resp.StatusCode())
	}

	titles, err := parseTrendFeed(resp.Body())
	if err != nil {
		return nil, err
	}

	// Keep only IT-adjacent topics; the blog has a fixed category.
	var keywords []string
	for _, title := range titles {
		if IsITRelated(title) {
			keywords = append(keywords, title)
		}
	}
	return keywords, nil
}

type rssFeed struct {
	Channel struct {
		Items []struct {
			Title string `xml:"title"`
		} `xml:"item"`
	} `xml:"channel"`
}

// parseTrendFeed extracts item titles from an RSS document.
func parseTrendFeed(body []byte) ([]string, error) {
	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("failed to parse trend feed: %w", err)
	}

	titles := make([]string, 0, len(feed.Channel.Items))
	for _, item := range feed.Channel.Items {
		if title := strings.TrimSpace(item.Title); title != "" {
			titles = append(titles, title)
		}
	}
	return titles, nil
}

// dedupe preserves first-seen order and caps the result.
func dedupe(keywords []string, limit int) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
		if len(out) == limit {
			break
		}
	}
	return out
}
