package guidecom

import (
	"context"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

// Search retrieves and extracts up to pageSize candidate records for
// one keyword/ordering. Transport failures and markup drift both
// degrade to an empty result; extraction never fails the whole batch
// over one bad row.
func (c *Client) Search(ctx context.Context, keyword, order string, pageSize int) []Product {
	ctx, span := tracer.Start(ctx, "client:Search")
	defer span.End()
	span.SetAttributes(
		attribute.String("keyword", keyword),
		attribute.String("order", order),
	)

	rows := c.fetchRows(ctx, keyword, order, pageSize)

	var products []Product
	rows.Each(func(_ int, row *goquery.Selection) {
		if len(products) >= pageSize {
			return
		}
		product, ok := parseRow(ctx, row)
		if !ok {
			return
		}
		products = append(products, product)
	})

	span.SetAttributes(attribute.Int("extracted", len(products)))
	slog.DebugContext(
		ctx, "search",
		"keyword", keyword,
		"order", order,
		"rows", rows.Length(),
		"extracted", len(products),
	)
	return products
}
