package utils

import (
	"strconv"
	"strings"
)

// CartLine is the canonical cart entry: a positive menu item id and a
// positive quantity. Everything else the front-end sends is discarded.
type CartLine struct {
	ID       uint `json:"id"`
	Quantity int  `json:"quantity"`
}

// Alternate key names accepted for the menu item id, in priority order.
var cartIDKeys = []string{"menu_item_id", "menu_item", "product", "id"}

// Alternate key names accepted for the quantity, in priority order.
var cartQtyKeys = []string{"quantity", "qty"}

// NormalizeCartItems reduces heterogeneous item payloads to canonical
// cart lines. Entries that fail to coerce to positive integers are
// silently dropped; duplicate ids are merged by summing quantities, so
// normalizing an already-normalized list is a no-op.
func NormalizeCartItems(raw []map[string]interface{}) []CartLine {
	var order []uint
	merged := map[uint]int{}

	for _, entry := range raw {
		if entry == nil {
			continue
		}
		id, ok := firstPositiveInt(entry, cartIDKeys)
		if !ok {
			continue
		}
		qty, ok := firstPositiveInt(entry, cartQtyKeys)
		if !ok {
			// quantity omitted entirely defaults to 1; present but
			// malformed or non-positive drops the entry
			if hasAnyKey(entry, cartQtyKeys) {
				continue
			}
			qty = 1
		}
		pid := uint(id)
		if _, seen := merged[pid]; !seen {
			order = append(order, pid)
		}
		merged[pid] += qty
	}

	lines := make([]CartLine, 0, len(order))
	for _, pid := range order {
		lines = append(lines, CartLine{ID: pid, Quantity: merged[pid]})
	}
	return lines
}

// CartLinesToMaps converts canonical lines back to the loose payload
// shape, used when re-normalizing session contents.
func CartLinesToMaps(lines []CartLine) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(lines))
	for _, l := range lines {
		out = append(out, map[string]interface{}{"id": int(l.ID), "quantity": l.Quantity})
	}
	return out
}

func hasAnyKey(entry map[string]interface{}, keys []string) bool {
	for _, k := range keys {
		if _, ok := entry[k]; ok {
			return true
		}
	}
	return false
}

func firstPositiveInt(entry map[string]interface{}, keys []string) (int, bool) {
	for _, k := range keys {
		v, ok := entry[k]
		if !ok || v == nil {
			continue
		}
		if n, ok := coerceInt(v); ok && n > 0 {
			return n, true
		}
		return 0, false
	}
	return 0, false
}

// coerceInt accepts the shapes JSON decoding produces (float64, string)
// plus native ints from internal callers. Fractional floats truncate;
// non-numeric strings fail.
func coerceInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
