package restriction

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"paysieve/internal/cart"
	"paysieve/internal/gateways"
)

// Suppress scans items in order and, at the first item whose product is in
// products, removes every id in methods from available. Later items are not
// examined. The input map is never modified: when something is removed a
// reduced copy is returned along with the removed ids, otherwise available
// itself is returned.
func Suppress(available gateways.Available, items []cart.LineItem, products []int64, methods []string) (gateways.Available, []string) {
	if len(products) == 0 || len(methods) == 0 {
		return available, nil
	}
	restricted := make(map[int64]struct{}, len(products))
	for _, id := range products {
		restricted[id] = struct{}{}
	}

	for _, it := range items {
		if _, hit := restricted[it.ProductID]; !hit {
			continue
		}
		var out gateways.Available
		var removed []string
		for _, m := range methods {
			if _, present := available[m]; !present {
				continue
			}
			if out == nil {
				out = available.Clone()
			}
			if _, still := out[m]; still {
				delete(out, m)
				removed = append(removed, m)
			}
		}
		if out == nil {
			return available, nil
		}
		return out, removed
	}
	return available, nil
}

// toID converts a decoded JSON id (number or numeric string) to a product id.
func toID(v any) (int64, bool) {
	switch x := v.(type) {
	case float64:
		if x <= 0 || x != math.Trunc(x) || x >= 1<<63 {
			return 0, false
		}
		return int64(x), true
	case json.Number:
		id, err := x.Int64()
		return id, err == nil && id > 0
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return id, err == nil && id > 0
	case int64:
		return x, x > 0
	case int:
		return int64(x), x > 0
	default:
		return 0, false
	}
}
