package restriction

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"paysieve/internal/cart"
)

func TestSuppressScenarios(t *testing.T) {
	items := func(ids ...int64) []cart.LineItem {
		var out []cart.LineItem
		for _, id := range ids {
			out = append(out, cart.LineItem{ProductID: id})
		}
		return out
	}

	cases := []struct {
		name     string
		items    []cart.LineItem
		products []int64
		methods  []string
		want     []string
		removed  []string
	}{
		{"restricted product", items(101), []int64{101}, []string{"cod"}, []string{"bacs"}, []string{"cod"}},
		{"unrelated product", items(202), []int64{101}, []string{"cod"}, []string{"bacs", "cod"}, nil},
		{"empty products", items(101), nil, []string{"cod"}, []string{"bacs", "cod"}, nil},
		{"empty methods", items(101), []int64{101}, nil, []string{"bacs", "cod"}, nil},
		{"empty cart", nil, []int64{101}, []string{"cod"}, []string{"bacs", "cod"}, nil},
		{"method not offered", items(101), []int64{101}, []string{"paypal"}, []string{"bacs", "cod"}, nil},
		{"duplicate methods", items(101), []int64{101}, []string{"cod", "cod"}, []string{"bacs"}, []string{"cod"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, removed := Suppress(codAndBacs(), tc.items, tc.products, tc.methods)
			assert.ElementsMatch(t, tc.want, out.Keys())
			assert.Equal(t, tc.removed, removed)
		})
	}
}

func TestSuppressReturnsInputWhenNothingRemoved(t *testing.T) {
	in := codAndBacs()
	out, _ := Suppress(in, []cart.LineItem{{ProductID: 101}}, []int64{101}, []string{"paypal"})
	out["marker"] = in["cod"]
	assert.Contains(t, in, "marker", "unchanged input is passed through, not copied")
}

func TestToID(t *testing.T) {
	for _, tc := range []struct {
		in   any
		want int64
		ok   bool
	}{
		{float64(101), 101, true},
		{float64(1.5), 0, false},
		{float64(-3), 0, false},
		{float64(1 << 63), 0, false},
		{float64(1 << 62), 1 << 62, true},
		{json.Number("9007199254740993"), 9007199254740993, true},
		{"42", 42, true},
		{" 7 ", 7, true},
		{"abc", 0, false},
		{json.Number("9"), 9, true},
		{int64(3), 3, true},
		{5, 5, true},
		{nil, 0, false},
		{true, 0, false},
	} {
		got, ok := toID(tc.in)
		assert.Equal(t, tc.ok, ok, "%v", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got)
		}
	}
}
