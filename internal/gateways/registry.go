package gateways

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registry is the ordered list of payment gateways registered with the store.
type Registry struct {
	gateways []Gateway
}

// Defaults mirrors the gateways a fresh store ships with.
func Defaults() []Gateway {
	return []Gateway{
		{ID: "bacs", Title: "Direct bank transfer", Enabled: true, Order: 0},
		{ID: "cheque", Title: "Check payments", Enabled: false, Order: 1},
		{ID: "cod", Title: "Cash on delivery", Enabled: true, Order: 2},
		{ID: "paypal", Title: "PayPal", Enabled: true, Order: 3},
	}
}

// NewRegistry keeps the given order; later duplicates of an id are dropped.
func NewRegistry(gws ...Gateway) *Registry {
	seen := map[string]bool{}
	out := make([]Gateway, 0, len(gws))
	for _, g := range gws {
		if g.ID == "" || seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		out = append(out, g)
	}
	return &Registry{gateways: out}
}

type fileSpec struct {
	Gateways []fileGateway `yaml:"gateways"`
}

// fileGateway distinguishes an omitted order from an explicit 0.
type fileGateway struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Enabled     bool   `yaml:"enabled"`
	Order       *int   `yaml:"order"`
}

// LoadFile reads a YAML registry:
//
//	gateways:
//	  - id: cod
//	    title: Cash on delivery
//	    enabled: true
//
// An empty path yields Defaults. Missing order values follow file position.
func LoadFile(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return NewRegistry(Defaults()...), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gateways: %w", err)
	}
	var spec fileSpec
	if err := yaml.Unmarshal(b, &spec); err != nil {
		return nil, fmt.Errorf("yaml parse: %w", err)
	}
	if len(spec.Gateways) == 0 {
		return nil, errors.New("gateways file declares no gateways")
	}
	gws := make([]Gateway, 0, len(spec.Gateways))
	for i, fg := range spec.Gateways {
		g := Gateway{ID: fg.ID, Title: fg.Title, Description: fg.Description, Enabled: fg.Enabled, Order: i}
		if fg.Order != nil {
			g.Order = *fg.Order
		}
		gws = append(gws, g)
	}
	return NewRegistry(gws...), nil
}

// PaymentGateways returns every registered gateway, enabled or not.
func (r *Registry) PaymentGateways() []Gateway {
	return append([]Gateway(nil), r.gateways...)
}

// Available builds a fresh mapping of the enabled gateways.
func (r *Registry) Available() Available {
	out := Available{}
	for _, g := range r.gateways {
		if g.Enabled {
			out[g.ID] = g
		}
	}
	return out
}
