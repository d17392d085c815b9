package guidecom

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const fullPageFixture = `<html><head><title>검색</title></head><body>
<div id="goods-placeholder"><div id="goods-list">
	<div class="goods-row">
		<div class="desc">
			<span class="goodsname1">삼성전자 980 PRO 1TB</span>
			<div class="spec">M.2 NVMe / TLC / 읽기 7,000MB/s</div>
		</div>
		<div class="prices"><div class="price-large"><span>139,000원</span></div></div>
	</div>
	<div class="goods-row">
		<div class="desc">
			<h4 class="title"><a href="/goods/2">WD Blue SN580 1TB</a></h4>
			<ul><li>M.2 NVMe</li><li>읽기 4,150MB/s</li></ul>
		</div>
		<div class="prices"><div class="price-large"><span>가격문의</span></div></div>
	</div>
	<div class="goods-row">
		<div class="desc"><div class="spec">이름 없는 행</div></div>
	</div>
</div></div>
</body></html>`

const fragmentFixture = `
	<div class="goods-row">
		<div class="desc">
			<span class="goodsname1">솔리다임 P44 Pro 1TB</span>
			<div class="spec">M.2 NVMe</div>
		</div>
		<div class="prices"><div class="price-large"><span>98,500</span></div></div>
	</div>`

func mustDoc(t *testing.T, raw string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	require.NoError(t, err)
	return doc
}

func TestLocateRecordsFullPage(t *testing.T) {
	rows := locateRecords(context.Background(), mustDoc(t, fullPageFixture))
	require.Equal(t, 3, rows.Length())
}

func TestLocateRecordsFragment(t *testing.T) {
	// fragments have no wrapper, the document itself is the scope
	rows := locateRecords(context.Background(), mustDoc(t, fragmentFixture))
	require.Equal(t, 1, rows.Length())
}

func TestParseRow(t *testing.T) {
	ctx := context.Background()
	rows := locateRecords(ctx, mustDoc(t, fullPageFixture))

	var products []Product
	rows.Each(func(_ int, row *goquery.Selection) {
		if p, ok := parseRow(ctx, row); ok {
			products = append(products, p)
		}
	})

	// the nameless row is discarded entirely
	require.Len(t, products, 2)

	require.Equal(t, "삼성전자 980 PRO 1TB", products[0].Name)
	require.Equal(t, "139,000원", products[0].Price)
	require.Equal(t, "M.2 NVMe / TLC / 읽기 7,000MB/s", products[0].Specifications)

	// name falls through to the heading anchor, spec to the list
	// items, and a digitless price yields the sentinel
	require.Equal(t, "WD Blue SN580 1TB", products[1].Name)
	require.Equal(t, NoPrice, products[1].Price)
	require.Equal(t, "M.2 NVMe / 읽기 4,150MB/s", products[1].Specifications)
}

func TestParseRowSentinelSpec(t *testing.T) {
	ctx := context.Background()
	rows := locateRecords(ctx, mustDoc(t, `
		<div class="goods-row">
			<div class="desc"><span class="goodsname1">맨몸 상품</span></div>
		</div>`))

	p, ok := parseRow(ctx, rows.First())
	require.True(t, ok)
	require.Equal(t, NoSpecification, p.Specifications)
	require.Equal(t, NoPrice, p.Price)
}

func TestFormatPrice(t *testing.T) {
	testCases := []struct {
		raw      string
		expected string
	}{
		{"46,010원", "46,010원"},
		{"46010", "46,010원"},
		{"1,234,567원", "1,234,567원"},
		{"999", "999원"},
		{"가격문의", NoPrice},
		{"", NoPrice},
	}
	for _, test := range testCases {
		got := FormatPrice(test.raw)
		require.Equal(t, test.expected, got, "raw: %q", test.raw)
		// idempotent: re-running the formatter on its own output
		// yields the same output
		require.Equal(t, got, FormatPrice(got))
	}
}

func TestResolveOrder(t *testing.T) {
	require.Equal(t, OrderLowestPrice, ResolveOrder("price_0"))
	require.Equal(t, OrderLowestPrice, ResolveOrder("낮은가격"))
	require.Equal(t, OrderLowestPrice, ResolveOrder("PriceAsc"))
	require.Equal(t, OrderPopular, ResolveOrder("인기상품"))
	require.Equal(t, OrderPromotion, ResolveOrder("savedesc"))
	require.Equal(t, OrderPopular, ResolveOrder("nonsense"))
	require.Equal(t, OrderPopular, ResolveOrder(""))
}
