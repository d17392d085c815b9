package guidecom

import (
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// decodeBody decodes a response body to UTF-8. A charset declared in
// the Content-Type header or a meta tag wins; otherwise the body is
// sniffed, and when sniffing is uncertain the site's native EUC-KR is
// assumed instead of the windows-1252 default the sniffer falls back
// to, which would mangle every Hangul byte pair.
func decodeBody(raw []byte, contentType string) string {
	enc, name, certain := charset.DetermineEncoding(raw, contentType)
	if !certain && name == "windows-1252" {
		enc = korean.EUCKR
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
