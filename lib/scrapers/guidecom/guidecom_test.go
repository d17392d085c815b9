package guidecom

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"shopguide-backend/lib/telemetry"
)

func testClient(t *testing.T, baseUrl string) *Client {
	client, err := NewClient(Options{
		BaseUrl:       baseUrl,
		MinRequestGap: time.Millisecond,
		Retries:       1,
		Timeout:       5 * time.Second,
		SettleDelay:   time.Millisecond,
	})
	require.NoError(t, err)
	return client
}

// pad grows a fragment body past the plausibility floor without adding
// any record containers.
func pad(body string) string {
	return body + strings.Repeat("<!-- pad -->", 30)
}

func TestSearchUsesFragment(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:guidecom")
	defer cleanup()

	pageFetches := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/search/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pad("<html><body>prewarm</body></html>")))
	})
	mux.HandleFunc("/search/list.php", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "SSD", r.FormValue("keyword"))
		require.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		require.NotEmpty(t, r.Header.Get("Referer"))
		w.Write([]byte(pad(fragmentFixture)))
	})
	mux.HandleFunc("/search/index.html", func(w http.ResponseWriter, r *http.Request) {
		pageFetches++
		w.Write([]byte(fullPageFixture))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := testClient(t, server.URL)
	products := client.Search(context.Background(), "SSD", OrderPopular, 30)

	require.Len(t, products, 1)
	require.Equal(t, "솔리다임 P44 Pro 1TB", products[0].Name)
	require.Equal(t, "98,500원", products[0].Price)
	require.Equal(t, 0, pageFetches, "fragment path should not touch the page endpoint")
}

func TestSearchFallsBackToPage(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:guidecom")
	defer cleanup()

	mux := http.NewServeMux()
	mux.HandleFunc("/search/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pad("<html><body>prewarm</body></html>")))
	})
	mux.HandleFunc("/search/list.php", func(w http.ResponseWriter, r *http.Request) {
		// structurally present but empty of record containers
		w.Write([]byte(pad("<div class='empty'></div>")))
	})
	mux.HandleFunc("/search/index.html", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fullPageFixture))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := testClient(t, server.URL)
	products := client.Search(context.Background(), "SSD", OrderLowestPrice, 30)

	require.Len(t, products, 2)
	require.Equal(t, "삼성전자 980 PRO 1TB", products[0].Name)
}

func TestSearchFallsBackOnStructuralDrift(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:guidecom")
	defer cleanup()

	// rows exist but none of the name selectors resolve: the markup
	// drifted, so the fragment is a soft failure
	drifted := `
		<div class="goods-row"><div class="renamed">상품 A</div></div>
		<div class="goods-row"><div class="renamed">상품 B</div></div>`

	mux := http.NewServeMux()
	mux.HandleFunc("/search/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pad("<html><body>prewarm</body></html>")))
	})
	mux.HandleFunc("/search/list.php", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pad(drifted)))
	})
	mux.HandleFunc("/search/index.html", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fullPageFixture))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := testClient(t, server.URL)
	products := client.Search(context.Background(), "SSD", OrderPopular, 30)

	require.Len(t, products, 2)
}

func TestSearchDegradesToEmpty(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:guidecom")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	products := client.Search(context.Background(), "SSD", OrderPopular, 30)

	require.Empty(t, products)
}

func TestPacing(t *testing.T) {
	client := testClient(t, "https://example.invalid")
	client.minGap = 50 * time.Millisecond

	start := time.Now()
	client.pace()
	client.pace()
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestSessionHeadersAreFixed(t *testing.T) {
	client := testClient(t, "https://example.invalid")

	ua := client.http.Header.Get("User-Agent")
	require.Contains(t, userAgents, ua)
	require.Equal(t, "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7", client.http.Header.Get("Accept-Language"))
}

func TestDecodeBodySniffsEucKr(t *testing.T) {
	text := "<html><body>삼성전자 완전 한글 본문입니다</body></html>"
	encoded, _, err := transform.String(korean.EUCKR.NewEncoder(), text)
	require.NoError(t, err)

	// unlabeled response: no charset in the header, none in the markup
	decoded := decodeBody([]byte(encoded), "text/html")
	require.Contains(t, decoded, "삼성전자 완전 한글 본문입니다")
}

func TestDecodeBodyHonorsDeclaredCharset(t *testing.T) {
	text := "plain utf-8 본문"
	decoded := decodeBody([]byte(text), "text/html; charset=utf-8")
	require.Equal(t, text, decoded)
}
