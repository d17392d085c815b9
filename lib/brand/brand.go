// Package brand derives a normalized manufacturer token from free-text
// product names and matches records against a caller-supplied
// manufacturer selection.
//
// The word lists in here are product-tuning data, not algorithmic
// contracts: callers can swap any of them out through the Lexicon.
package brand

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"

	"shopguide-backend/lib/textutil"
)

// Jaro-Winkler floor for the last-resort fuzzy tier of Matches.
const similarityFloor = 0.92

var tokenSplitRegex = regexp.MustCompile(`[ /\-|]`)
var monthTokenRegex = regexp.MustCompile(`^\d{1,2}월$`)

// Lexicon bundles the replaceable word lists the classifier runs on.
type Lexicon struct {
	// SkipWords are non-manufacturer qualifiers that may precede the
	// brand in a product name: promotional/condition words plus common
	// series and spec tokens. Keys are lowercase.
	SkipWords map[string]bool `json:"skip_words"`
	// Aliases maps separator-collapsed brand spellings (romanized and
	// native-script variants alike) to one canonical spelling.
	Aliases map[string]string `json:"aliases"`
	// TwoWordBrands lists brands whose names span two tokens, keyed by
	// their separator-collapsed form.
	TwoWordBrands map[string]bool `json:"two_word_brands"`
	// BrandPairs supplements Matches for brand/alias pairs that
	// normalization alone does not unify, e.g. an initialism vs. the
	// full brand name.
	BrandPairs map[string][]string `json:"brand_pairs"`
}

func DefaultLexicon() Lexicon {
	skip := map[string]bool{}
	for _, w := range []string{
		// condition / promotion qualifiers
		"공식인증", "공식수입", "병행수입", "정품", "정식발매", "중고",
		"리퍼", "신품", "무료배송", "당일출고", "특가", "할인", "사은품",
		"new", "bulk", "oem", "retail", "벌크",
		// series / spec tokens that commonly lead a name
		"pro", "ultra", "max", "mini", "lite", "plus", "gaming", "rog",
		"tuf", "strix", "evo", "neo", "rgb", "ddr", "nvme", "pcie",
		"m.2", "sata", "atx", "matx", "itx",
	} {
		skip[w] = true
	}

	return Lexicon{
		SkipWords: skip,
		Aliases: map[string]string{
			"wd":      "western digital",
			"웨스턴 디지털": "western digital",
			"웨스턴디지털":  "western digital",
			"에이수스":    "asus",
			"기가바이트":   "gigabyte",
			"조텍":      "zotac",
			"엔비디아":    "nvidia",
			"삼성":      "삼성전자",
			"samsung": "삼성전자",
			"지스킬":     "gskill",
			"g skill": "gskill",
			"씨게이트":    "seagate",
			"마이크론":    "micron",
			"커세어":     "corsair",
			"애즈락":     "asrock",
		},
		TwoWordBrands: map[string]bool{
			"western digital": true,
			"웨스턴 디지털":         true,
			"team group":      true,
			"g skill":         true,
			"cooler master":   true,
			"silicon power":   true,
		},
		BrandPairs: map[string][]string{
			"western digital": {"wd", "western", "digital"},
			"삼성전자":            {"samsung", "삼성"},
			"asus":            {"에이수스"},
			"gigabyte":        {"기가바이트"},
			"zotac":           {"조텍"},
			"nvidia":          {"엔비디아"},
			"tp link":         {"tp-link"},
		},
	}
}

// Normalize maps a brand spelling to its canonical lowercase form.
func (l Lexicon) Normalize(token string) string {
	t := textutil.CollapseSeparators(token)
	if canonical, ok := l.Aliases[t]; ok {
		return canonical
	}
	return t
}

func (l Lexicon) skippable(token string) bool {
	if utf8.RuneCountInString(token) < 2 {
		return true
	}
	if monthTokenRegex.MatchString(token) {
		return true
	}
	return l.SkipWords[strings.ToLower(token)]
}

// Extract returns the manufacturer candidate of a product name: the
// first token that is not a known qualifier, merged with the next
// token when the pair forms a known two-word brand. The token is
// returned as spelled in the name; run Normalize to get the canonical
// form. Returns "" when no candidate survives.
func (l Lexicon) Extract(name string) string {
	if name == "" {
		return ""
	}

	text := textutil.StripBrackets(name)
	text = textutil.CollapseWhitespace(text)

	var candidates []string
	for _, tok := range tokenSplitRegex.Split(text, -1) {
		tok = strings.TrimSpace(tok)
		if tok == "" || l.skippable(tok) {
			continue
		}
		candidates = append(candidates, tok)
	}
	if len(candidates) == 0 {
		return ""
	}

	best := candidates[0]
	if len(candidates) > 1 {
		pair := best + " " + candidates[1]
		if l.TwoWordBrands[textutil.CollapseSeparators(pair)] {
			return pair
		}
	}
	return best
}

// Code renders a display name as a caller-facing filter key: canonical
// form with spaces collapsed to underscores.
func (l Lexicon) Code(display string) string {
	return strings.ReplaceAll(l.Normalize(display), " ", "_")
}

func decodeCode(code string) string {
	return strings.ReplaceAll(code, "_", " ")
}

// Matches reports whether a product name passes the caller's
// manufacturer selection. An empty selection passes everything; a name
// with no extractable manufacturer passes nothing.
func (l Lexicon) Matches(name string, selectedCodes []string) bool {
	if len(selectedCodes) == 0 {
		return true
	}

	maker := l.Extract(name)
	if maker == "" {
		return false
	}
	manNorm := l.Normalize(maker)

	selNorms := make([]string, len(selectedCodes))
	for i, code := range selectedCodes {
		selNorms[i] = l.Normalize(decodeCode(code))
	}

	for _, sel := range selNorms {
		if manNorm == sel ||
			strings.Contains(sel, manNorm) ||
			strings.Contains(manNorm, sel) {
			return true
		}
	}

	if aliases, ok := l.BrandPairs[manNorm]; ok {
		for _, alias := range aliases {
			for _, sel := range selNorms {
				if sel == alias {
					return true
				}
			}
		}
	}

	// fuzzy tier for near-miss transliterations
	for _, sel := range selNorms {
		if matchr.JaroWinkler(manNorm, sel, false) >= similarityFloor {
			return true
		}
	}
	return false
}
