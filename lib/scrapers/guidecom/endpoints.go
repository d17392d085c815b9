package guidecom

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// floor for a plausible full search page
	minPageBytes = 300
	// fragments carry no page shell, so the floor is lower
	minFragmentBytes = 100
	// how many leading rows the drift check samples
	driftSampleSize = 5
)

// searchPage fetches the canonical search page and returns the full
// document.
func (c *Client) searchPage(ctx context.Context, keyword, order string) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "searchPage")
	defer span.End()

	query := map[string]string{"keyword": keyword}
	if order != "" {
		query["order"] = order
	}
	body, err := c.get(ctx, searchPagePath, query, minPageBytes)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch search page")
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(body))
}

// prewarm GETs the search page the way a browser would before its
// in-page list request fires, establishing session cookies and a
// referrer context. Failures are logged and ignored: the POST may
// still succeed, just with worse odds.
func (c *Client) prewarm(ctx context.Context, keyword, order string) string {
	preUrl := fmt.Sprintf(
		"%s%s?keyword=%s&order=%s",
		c.baseUrl, prewarmPath, url.QueryEscape(keyword), order,
	)

	c.pace()
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Cache-Control", cacheControl()).
		Get(preUrl)
	if err != nil {
		slog.DebugContext(ctx, "prewarm failed", "url", preUrl, "err", err)
	} else {
		slog.DebugContext(ctx, "prewarm", "url", preUrl, "status", res.StatusCode())
	}

	c.settle()
	return preUrl
}

// listFragment POSTs the list endpoint and returns the bare fragment
// of repeating record containers. The endpoint only cooperates after a
// pre-warm and with the in-page asynchronous request headers set.
func (c *Client) listFragment(ctx context.Context, keyword, order string, page, pageSize int) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "listFragment")
	defer span.End()

	referer := c.prewarm(ctx, keyword, order)
	c.pace()

	res, err := c.http.R().
		SetContext(ctx).
		SetHeaders(map[string]string{
			"Cache-Control":    cacheControl(),
			"Referer":          referer,
			"Origin":           strings.TrimSuffix(c.baseUrl.String(), "/"),
			"X-Requested-With": "XMLHttpRequest",
		}).
		SetFormData(map[string]string{
			"keyword": keyword,
			"order":   order,
			"lpp":     strconv.Itoa(pageSize),
			"page":    strconv.Itoa(page),
			"y":       "0",
		}).
		Post(listPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list request failed")
		return nil, err
	}

	body := decodeBody(res.Body(), res.Header().Get("Content-Type"))
	slog.DebugContext(
		ctx, "list fragment",
		"status", res.StatusCode(),
		"len", len(body),
	)
	if res.StatusCode() != 200 || len(body) <= minFragmentBytes {
		err := fmt.Errorf(
			"unusable fragment: status %d, %d bytes", res.StatusCode(), len(body),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "unusable fragment")
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(body))
}

// fetchRows retrieves the record containers for one keyword/ordering,
// trying the fragment endpoint first and falling back to the full page
// fetch. Fallback also triggers when the fragment has rows but a
// sample of its leading rows yields no extractable name, which means
// the markup drifted out from under the fragment selectors. Every
// failure degrades to an empty row set.
func (c *Client) fetchRows(ctx context.Context, keyword, order string, pageSize int) *goquery.Selection {
	ctx, span := tracer.Start(ctx, "fetchRows")
	defer span.End()

	doc, err := c.listFragment(ctx, keyword, order, 1, pageSize)
	if err == nil {
		rows := locateRecords(ctx, doc)
		if rows.Length() > 0 && !namesDrifted(rows) {
			span.SetAttributes(attribute.String("path", "fragment"))
			return rows
		}
		slog.DebugContext(
			ctx, "fragment unusable, falling back to page fetch",
			"rows", rows.Length(),
		)
	} else {
		slog.DebugContext(ctx, "fragment fetch failed", "err", err)
	}

	doc, err = c.searchPage(ctx, keyword, order)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "both retrieval paths failed")
		slog.DebugContext(ctx, "page fetch failed", "err", err)
		return emptySelection()
	}
	span.SetAttributes(attribute.String("path", "page"))
	return locateRecords(ctx, doc)
}

// namesDrifted samples the leading rows and reports whether none of
// them resolve a name through the selector cascade.
func namesDrifted(rows *goquery.Selection) bool {
	sample := rows.Slice(0, min(driftSampleSize, rows.Length()))
	found := false
	sample.EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if extractName(row) != "" {
			found = true
			return false
		}
		return true
	})
	return !found
}

func emptySelection() *goquery.Selection {
	doc, _ := goquery.NewDocumentFromReader(strings.NewReader(""))
	return doc.Find(recordSelector)
}
