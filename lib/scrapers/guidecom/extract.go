package guidecom

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"shopguide-backend/lib/htmlutil"
)

const recordSelector = "div.goods-row"

// maximum length of a specification assembled from list items
const maxSpecLength = 200

// Sentinels for fields the markup did not yield. Records never carry
// blank fields.
const (
	NoSpecification = "사양 정보 없음"
	NoPrice         = "가격 정보 없음"
)

// Selector cascades per field, attempted in priority order, first
// non-empty match wins. Markup drift is handled by editing these
// tables, not the extraction code.
var (
	nameSelectors  = []string{".desc .goodsname1", ".desc h4.title a", "h4.title a"}
	specSelectors  = []string{".desc .spec", ".spec"}
	priceSelectors = []string{".prices .price-large span", ".price-large span"}
)

// container cascade: the full page wraps rows in #goods-list, some
// variants nest it in a placeholder, and fragments have no wrapper at
// all, so the document itself is the last tier.
func locateRecords(ctx context.Context, doc *goquery.Document) *goquery.Selection {
	container := doc.Find("#goods-list")
	tier := "#goods-list"
	if container.Length() == 0 {
		container = doc.Find("#goods-placeholder #goods-list")
		tier = "#goods-placeholder #goods-list"
	}
	if container.Length() == 0 {
		container = doc.Selection
		tier = "document"
	}

	rows := container.Find(recordSelector)
	trace.SpanFromContext(ctx).AddEvent("located records", trace.WithAttributes(
		attribute.String("tier", tier),
		attribute.Int("rows", rows.Length()),
	))
	slog.DebugContext(ctx, "located records", "tier", tier, "rows", rows.Length())
	return rows
}

func extractName(row *goquery.Selection) string {
	name, _ := htmlutil.FirstText(row, nameSelectors)
	return name
}

func extractSpec(row *goquery.Selection) string {
	spec, _ := htmlutil.FirstText(row, specSelectors)
	if spec != "" {
		return spec
	}

	var parts []string
	row.Find(".desc li").Each(func(_ int, li *goquery.Selection) {
		text := htmlutil.CleanText(li)
		if text != "" {
			parts = append(parts, text)
		}
	})
	spec = strings.Join(parts, " / ")
	if spec == "" {
		return NoSpecification
	}
	if runes := []rune(spec); len(runes) > maxSpecLength {
		spec = string(runes[:maxSpecLength])
	}
	return spec
}

var nonDigitRegex = regexp.MustCompile(`[^\d]`)

// FormatPrice strips everything but digits from a raw price text and
// re-renders it as a thousands-grouped amount with the currency
// suffix. Idempotent: formatting its own output reproduces it. Text
// with no digits at all yields the NoPrice sentinel.
func FormatPrice(text string) string {
	digits := nonDigitRegex.ReplaceAllString(text, "")
	if digits == "" {
		return NoPrice
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return NoPrice
	}
	return groupThousands(n) + "원"
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var out strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		out.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if out.Len() > 0 {
			out.WriteString(",")
		}
		out.WriteString(s[i : i+3])
	}
	return out.String()
}

// parseRow extracts one Product from a record container. A row with no
// resolvable name is discarded: it can be neither deduplicated nor
// displayed. Panics while walking a single row are contained to that
// row.
func parseRow(ctx context.Context, row *goquery.Selection) (product Product, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "parse panic, row discarded", "panic", r)
			ok = false
		}
	}()

	name := extractName(row)
	if name == "" {
		return Product{}, false
	}

	priceText, _ := htmlutil.FirstText(row, priceSelectors)
	return Product{
		Name:           name,
		Price:          FormatPrice(priceText),
		Specifications: extractSpec(row),
	}, true
}
