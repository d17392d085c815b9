// Package products composes guidecom search results into the small,
// typed result sets the UI collaborators consume: a manufacturer facet
// list per keyword, a single-ordering search, and the fixed-quota
// composite pick.
package products

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"shopguide-backend/lib/brand"
	"shopguide-backend/lib/scrapers/guidecom"
	"shopguide-backend/lib/textutil"
)

var tracer = otel.Tracer("services/products")

var ErrMissingKeyword = fmt.Errorf("keyword must not be empty")

// Maker is one manufacturer facet: the display name as spelled in
// product listings and the normalized code callers pass back as a
// filter.
type Maker struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

const (
	// facet building scans at most this many candidate records; the
	// full result set is not worth the latency
	facetScanLimit = 100
	// at most this many distinct facets are surfaced
	maxFacets = 8
	// per-ordering candidate batch, generously above the quotas
	candidateBatch = 60
	// defensive ceiling of the composite result
	compositeLimit = 10
)

// quota per ordering of the composite pick, in table order
var quotas = []struct {
	order string
	want  int
}{
	{guidecom.OrderLowestPrice, 3},
	{guidecom.OrderPopular, 4},
	{guidecom.OrderPromotion, 3},
}

type Service struct {
	client  *guidecom.Client
	lexicon brand.Lexicon
}

func NewService(client *guidecom.Client, lexicon brand.Lexicon) Service {
	return Service{client: client, lexicon: lexicon}
}

// SearchOptions scans the leading candidate records of a keyword
// search and returns the distinct manufacturer facets, capped at
// maxFacets. Hangul-script names sort before Latin-script ones, then
// alphabetically by normalized form; the order is stable for a given
// input set.
func (s Service) SearchOptions(ctx context.Context, keyword string) ([]Maker, error) {
	if keyword == "" {
		return nil, ErrMissingKeyword
	}

	ctx, span := tracer.Start(ctx, "service:SearchOptions")
	defer span.End()
	span.SetAttributes(attribute.String("keyword", keyword))

	candidates := s.client.Search(ctx, keyword, guidecom.OrderPopular, facetScanLimit)

	var names []string
	seen := map[string]struct{}{}
	for _, p := range candidates {
		maker := s.lexicon.Extract(p.Name)
		if maker == "" {
			continue
		}
		norm := s.lexicon.Normalize(maker)
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		names = append(names, maker)
		if len(names) >= maxFacets {
			break
		}
	}

	slices.SortStableFunc(names, func(a, b string) int {
		aKor := textutil.HasHangul(a)
		bKor := textutil.HasHangul(b)
		if aKor != bKor {
			if aKor {
				return -1
			}
			return 1
		}
		an := s.lexicon.Normalize(a)
		bn := s.lexicon.Normalize(b)
		if an < bn {
			return -1
		}
		if an > bn {
			return 1
		}
		return 0
	})

	makers := make([]Maker, len(names))
	for i, name := range names {
		makers[i] = Maker{Name: name, Code: s.lexicon.Code(name)}
	}

	slog.DebugContext(ctx, "search options", "keyword", keyword, "facets", len(makers))
	return makers, nil
}

// SearchProducts returns up to limit records for one ordering,
// filtered by the caller's manufacturer selection. An empty selection
// filters nothing. Retrieval failures yield an empty slice, not an
// error.
func (s Service) SearchProducts(ctx context.Context, keyword, sortType string, makerCodes []string, limit int) ([]guidecom.Product, error) {
	if keyword == "" {
		return nil, ErrMissingKeyword
	}
	if limit <= 0 {
		limit = candidateBatch
	}

	ctx, span := tracer.Start(ctx, "service:SearchProducts")
	defer span.End()
	span.SetAttributes(
		attribute.String("keyword", keyword),
		attribute.String("sort_type", sortType),
		attribute.Int("limit", limit),
	)

	order := guidecom.ResolveOrder(sortType)
	candidates := s.client.Search(ctx, keyword, order, limit)

	out := []guidecom.Product{}
	for _, p := range candidates {
		if !s.lexicon.Matches(p.Name, makerCodes) {
			continue
		}
		out = append(out, p)
		if len(out) >= limit {
			break
		}
	}

	slog.DebugContext(
		ctx, "search products",
		"keyword", keyword,
		"order", order,
		"candidates", len(candidates),
		"returned", len(out),
	)
	return out, nil
}

// UniqueProducts composes the fixed-quota result set: 3 cheapest, 4
// most popular, 3 promotional, deduplicated by name across all three
// orderings. Quotas may be under-filled when too few distinct matching
// names exist; an ordering whose retrieval fails simply contributes
// nothing. The result never exceeds 10 records.
func (s Service) UniqueProducts(ctx context.Context, keyword string, makerCodes []string) ([]guidecom.Product, error) {
	if keyword == "" {
		return nil, ErrMissingKeyword
	}

	ctx, span := tracer.Start(ctx, "service:UniqueProducts")
	defer span.End()
	span.SetAttributes(attribute.String("keyword", keyword))

	results := []guidecom.Product{}
	seenNames := map[string]struct{}{}

	for _, bucket := range quotas {
		candidates, err := s.SearchProducts(ctx, keyword, bucket.order, makerCodes, candidateBatch)
		if err != nil {
			return nil, err
		}

		took := 0
		for _, p := range candidates {
			if _, ok := seenNames[p.Name]; ok {
				continue
			}
			results = append(results, p)
			seenNames[p.Name] = struct{}{}
			took++
			if took >= bucket.want {
				break
			}
		}
		slog.DebugContext(
			ctx, "bucket composed",
			"order", bucket.order,
			"want", bucket.want,
			"took", took,
		)
	}

	if len(results) > compositeLimit {
		results = results[:compositeLimit]
	}
	span.SetAttributes(attribute.Int("total", len(results)))
	return results, nil
}
