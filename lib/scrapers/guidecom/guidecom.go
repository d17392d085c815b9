// Package guidecom scrapes product listings from the guidecom.co.kr
// search endpoints. It owns one browser-shaped HTTP session per Client
// and exposes a single Search operation that survives both transport
// failures and markup drift by degrading to empty results.
package guidecom

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http/cookiejar"
	"net/url"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"github.com/mazen160/go-random"

	"shopguide-backend/lib/telemetry"
)

const (
	defaultBaseUrl = "https://www.guidecom.co.kr"
	searchPagePath = "/search/index.html"
	listPath       = "/search/list.php"
	prewarmPath    = "/search/"
)

// One of these is picked once per session. Re-rolling the User-Agent
// per request presents an inconsistent fingerprint, which is itself a
// bot signal.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:124.0) Gecko/20100101 Firefox/124.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_6_1) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.3 Safari/605.1.15",
}

var cacheControls = []string{"no-cache", "max-age=0"}

type Options struct {
	// BaseUrl overrides the live site, used by tests.
	BaseUrl string
	// MinRequestGap is the minimum spacing between two outbound
	// requests of this session. Defaults to 250ms.
	MinRequestGap time.Duration
	// Retries bounds the attempts of a retried fetch. Defaults to 3.
	Retries int
	Timeout time.Duration
	// SettleDelay is the pause between the pre-warm fetch and the list
	// request. Zero means a randomized 0.6-1.2s, like a human
	// would take between page load and interaction.
	SettleDelay time.Duration
}

// Client owns the scraping session: cookies, a fixed identifying
// header set and request pacing state. It is not safe for concurrent
// use; give each logical search its own Client.
type Client struct {
	baseUrl *url.URL
	http    *resty.Client

	minGap      time.Duration
	retries     int
	settleDelay time.Duration
	lastRequest time.Time
}

func NewClient(opts Options) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = defaultBaseUrl
	}
	if opts.MinRequestGap <= 0 {
		opts.MinRequestGap = 250 * time.Millisecond
	}
	if opts.Retries <= 0 {
		opts.Retries = 3
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeaders(map[string]string{
		"User-Agent":      userAgents[rand.Intn(len(userAgents))],
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7",
		"Connection":      "keep-alive",
	})
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(client, "scrapers/guidecom/http")

	return &Client{
		baseUrl:     baseUrl,
		http:        client,
		minGap:      opts.MinRequestGap,
		retries:     opts.Retries,
		settleDelay: opts.SettleDelay,
	}, nil
}

// settle pauses between the pre-warm fetch and the list request.
func (c *Client) settle() {
	if c.settleDelay > 0 {
		time.Sleep(c.settleDelay)
		return
	}
	sleepRange(600, 1200)
}

// pace blocks until the minimum inter-request gap has elapsed since
// the previous request of this session.
func (c *Client) pace() {
	delta := time.Since(c.lastRequest)
	if delta < c.minGap {
		time.Sleep(c.minGap - delta)
	}
	c.lastRequest = time.Now()
}

func sleepRange(minMs, maxMs int) {
	ms, err := random.IntRange(minMs, maxMs)
	if err != nil {
		ms = minMs
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// low-signal header that may vary per request, unlike the UA
func cacheControl() string {
	return cacheControls[rand.Intn(len(cacheControls))]
}

// get fetches a path with pacing, retries and backoff. A response only
// counts as usable when it carries status 200 and a decoded body
// longer than minLen; error-stub pages that still return 200 fail that
// floor and get retried.
func (c *Client) get(ctx context.Context, path string, query map[string]string, minLen int) (string, error) {
	var lastErr error
	for attempt := 0; attempt < c.retries; attempt++ {
		if attempt > 0 {
			// widening, jittered backoff between resubmissions
			sleepRange(1200+attempt*300, 2200+attempt*300)
		}
		c.pace()

		res, err := c.http.R().
			SetContext(ctx).
			SetHeader("Cache-Control", cacheControl()).
			SetQueryParams(query).
			Get(path)
		if err != nil {
			lastErr = err
			slog.DebugContext(ctx, "get failed", "path", path, "attempt", attempt, "err", err)
			continue
		}

		body := decodeBody(res.Body(), res.Header().Get("Content-Type"))
		slog.DebugContext(
			ctx, "get",
			"path", path,
			"status", res.StatusCode(),
			"len", len(body),
		)
		if res.StatusCode() == 200 && len(body) > minLen {
			return body, nil
		}

		lastErr = fmt.Errorf(
			"unusable response: status %d, %d bytes", res.StatusCode(), len(body),
		)
		slog.DebugContext(
			ctx, "unusable response",
			"path", path,
			"status", res.StatusCode(),
			"snippet", snippet(body, 500),
		)
	}
	return "", lastErr
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
