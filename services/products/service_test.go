package products

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"shopguide-backend/lib/brand"
	"shopguide-backend/lib/scrapers/guidecom"
	"shopguide-backend/lib/telemetry"
)

func row(name, spec, price string) string {
	return fmt.Sprintf(
		`<div class="goods-row">
			<div class="desc">
				<span class="goodsname1">%s</span>
				<div class="spec">%s</div>
			</div>
			<div class="prices"><div class="price-large"><span>%s</span></div></div>
		</div>`,
		name, spec, price,
	)
}

func rowsFor(names []string) string {
	var b strings.Builder
	for i, name := range names {
		b.WriteString(row(name, "테스트 사양", fmt.Sprintf("%d,000원", 10+i)))
	}
	return b.String()
}

// fakeSite serves the two retrieval endpoints, answering the list
// endpoint with a distinct row set per ordering.
func fakeSite(t *testing.T, rowsByOrder map[string][]string) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>" + strings.Repeat("prewarm ", 50) + "</body></html>"))
	})
	mux.HandleFunc("/search/list.php", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		names, ok := rowsByOrder[r.FormValue("order")]
		if !ok {
			t.Errorf("unexpected order %q", r.FormValue("order"))
		}
		w.Write([]byte(rowsFor(names) + strings.Repeat("<!-- pad -->", 20)))
	})
	return httptest.NewServer(mux)
}

func testService(t *testing.T, baseUrl string) Service {
	client, err := guidecom.NewClient(guidecom.Options{
		BaseUrl:       baseUrl,
		MinRequestGap: time.Millisecond,
		Retries:       1,
		Timeout:       5 * time.Second,
		SettleDelay:   time.Millisecond,
	})
	require.NoError(t, err)
	return NewService(client, brand.DefaultLexicon())
}

func TestSearchOptions(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:products")
	defer cleanup()

	// nine distinct makers so the facet cap bites
	popular := []string{
		"삼성전자 980 PRO 1TB",
		"마이크론 Crucial P3 1TB",
		"씨게이트 바라쿠다 Q5 1TB",
		"ASUS TUF Gaming B650",
		"MSI Spatium M480 1TB",
		"Kingston NV2 1TB",
		"ADATA Legend 900 1TB",
		"ZOTAC RTX 4070 트윈엣지",
		"Gigabyte AORUS 7000s 1TB",
		// repeat spellings collapse into one facet
		"삼성전자 990 PRO 2TB",
	}
	server := fakeSite(t, map[string][]string{"reco_goods": popular})
	defer server.Close()

	service := testService(t, server.URL)
	makers, err := service.SearchOptions(context.Background(), "1TB")
	require.NoError(t, err)

	names := make([]string, len(makers))
	for i, m := range makers {
		names[i] = m.Name
	}
	// capped at eight, Hangul script first, alphabetical by canonical
	// form within each script group
	require.Equal(t, []string{
		"마이크론", "씨게이트", "삼성전자",
		"ADATA", "ASUS", "Kingston", "MSI", "ZOTAC",
	}, names)

	require.Equal(t, "micron", makers[0].Code)
	require.Equal(t, "adata", makers[3].Code)
}

func TestSearchOptionsRequiresKeyword(t *testing.T) {
	service := testService(t, "https://example.invalid")

	_, err := service.SearchOptions(context.Background(), "")
	require.ErrorIs(t, err, ErrMissingKeyword)

	_, err = service.SearchProducts(context.Background(), "", "price_0", nil, 10)
	require.ErrorIs(t, err, ErrMissingKeyword)

	_, err = service.UniqueProducts(context.Background(), "", nil)
	require.ErrorIs(t, err, ErrMissingKeyword)
}

func TestSearchProductsFiltersByMaker(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:products")
	defer cleanup()

	server := fakeSite(t, map[string][]string{
		"price_0": {
			"WD Blue SN580 1TB",
			"삼성전자 980 PRO 1TB",
			"Western Digital Black SN850X 1TB",
			"Kingston NV2 1TB",
		},
	})
	defer server.Close()

	service := testService(t, server.URL)
	products, err := service.SearchProducts(
		context.Background(), "1TB", "price_0", []string{"western_digital"}, 10,
	)
	require.NoError(t, err)

	require.Len(t, products, 2)
	require.Equal(t, "WD Blue SN580 1TB", products[0].Name)
	require.Equal(t, "Western Digital Black SN850X 1TB", products[1].Name)
}

func TestUniqueProducts(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:products")
	defer cleanup()

	server := fakeSite(t, map[string][]string{
		"price_0":     {"부품 C1", "부품 C2", "부품 C3", "부품 C4", "부품 C5"},
		"reco_goods":  {"부품 C2", "부품 C3", "부품 D1", "부품 D2", "부품 D3", "부품 D4", "부품 D5"},
		"event_goods": {"부품 C1", "부품 D1", "부품 E1", "부품 E2", "부품 E3", "부품 E4"},
	})
	defer server.Close()

	service := testService(t, server.URL)
	products, err := service.UniqueProducts(context.Background(), "부품", nil)
	require.NoError(t, err)

	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.Name
	}
	// three cheapest, then four popular and three promotional records
	// that survive the cross-ordering name dedup
	diff := cmp.Diff([]string{
		"부품 C1", "부품 C2", "부품 C3",
		"부품 D1", "부품 D2", "부품 D3", "부품 D4",
		"부품 E1", "부품 E2", "부품 E3",
	}, names)
	require.Empty(t, diff)
}

func TestUniqueProductsUnderfilledBucket(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:products")
	defer cleanup()

	server := fakeSite(t, map[string][]string{
		"price_0":     {"부품 C1"},
		"reco_goods":  {"부품 C1", "부품 D1"},
		"event_goods": {},
	})
	defer server.Close()

	service := testService(t, server.URL)
	products, err := service.UniqueProducts(context.Background(), "부품", nil)
	require.NoError(t, err)

	require.Len(t, products, 2)
}

func TestUniqueProductsSiteDown(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:products")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	service := testService(t, server.URL)
	products, err := service.UniqueProducts(context.Background(), "부품", nil)

	// retrieval failure degrades to an empty result, not an error
	require.NoError(t, err)
	require.NotNil(t, products)
	require.Empty(t, products)
}
