package guidecom

import "strings"

// Product is one extracted listing. Two records are the same product
// iff their names are string-equal; there is no other identity.
type Product struct {
	Name           string `json:"name"`
	Price          string `json:"price"`
	Specifications string `json:"specifications"`
}

// Canonical ordering parameters of the search endpoints.
const (
	OrderLowestPrice = "price_0"
	OrderPopular     = "reco_goods"
	OrderPromotion   = "event_goods"
)

var orderSynonyms = map[string]string{
	"price_0":     OrderLowestPrice,
	"낮은가격":        OrderLowestPrice,
	"priceasc":    OrderLowestPrice,
	"reco_goods":  OrderPopular,
	"인기상품":        OrderPopular,
	"opiniondesc": OrderPopular,
	"event_goods": OrderPromotion,
	"행사상품":        OrderPromotion,
	"savedesc":    OrderPromotion,
}

// ResolveOrder maps a caller-facing sort name (including the Korean
// synonyms the UI presents) to the endpoint's order parameter.
// Unrecognized input falls back to the popular ordering.
func ResolveOrder(sortType string) string {
	if order, ok := orderSynonyms[strings.ToLower(sortType)]; ok {
		return order
	}
	return OrderPopular
}
