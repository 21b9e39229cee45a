// Package gateways holds the payment methods a store can offer at checkout.
package gateways

import "sort"

type Gateway struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	Order       int    `json:"order" yaml:"order"`
}

// Available maps gateway id to gateway for one checkout computation.
type Available map[string]Gateway

func (a Available) Clone() Available {
	out := make(Available, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Keys returns ids ordered by Order, then id.
func (a Available) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		gi, gj := a[keys[i]], a[keys[j]]
		if gi.Order != gj.Order {
			return gi.Order < gj.Order
		}
		return keys[i] < keys[j]
	})
	return keys
}

// List returns gateways in Keys order.
func (a Available) List() []Gateway {
	keys := a.Keys()
	out := make([]Gateway, 0, len(keys))
	for _, k := range keys {
		out = append(out, a[k])
	}
	return out
}
