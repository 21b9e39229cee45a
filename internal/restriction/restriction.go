// Package restriction hides selected payment methods at checkout while the
// cart holds any of a set of administrator-selected products.
package restriction

import (
	"context"

	jmes "github.com/jmespath/go-jmespath"
	"go.uber.org/zap"

	"paysieve/internal/cart"
	"paysieve/internal/gateways"
	"paysieve/internal/hooks"
	"paysieve/internal/settings"
	"paysieve/pkg/logger"
)

const (
	ContainerKey  = "DisProdMethods"
	ProductsField = "tnl_disable_payment_products"
	MethodsField  = "tnl_disable_payment_methods"
)

// Projections applied to the stored option documents.
var (
	productIDsPath = jmes.MustCompile("[*].id")
	methodIDsPath  = jmes.MustCompile("[?type(@) == 'string']")
)

// OptionReader resolves theme options for the current request.
type OptionReader interface {
	ThemeOption(ctx context.Context, name string) (any, error)
}

// CartProvider returns the cart loaded for the current request.
type CartProvider interface {
	Current(ctx context.Context) (*cart.Cart, bool)
}

// GatewayLister lists every registered payment gateway.
type GatewayLister interface {
	PaymentGateways() []gateways.Gateway
}

type Options struct {
	// CommerceActive reports whether the commerce platform is running.
	CommerceActive bool
	// Options is nil when the settings framework is not loaded.
	Options  OptionReader
	Carts    CartProvider
	Gateways GatewayLister
	Log      *zap.SugaredLogger
	Metrics  *Metrics
}

type Plugin struct {
	commerce bool
	options  OptionReader
	carts    CartProvider
	gateways GatewayLister
	log      *zap.SugaredLogger
	metrics  *Metrics
}

func New(o Options) *Plugin {
	return &Plugin{
		commerce: o.CommerceActive,
		options:  o.Options,
		carts:    o.Carts,
		gateways: o.Gateways,
		log:      logger.Named(o.Log, "restriction"),
		metrics:  o.Metrics,
	}
}

// Attach wires the plugin into the host's boot-time hooks.
func (p *Plugin) Attach(r *hooks.Registry) {
	hooks.AddAction(r, hooks.ActionFieldsRegister, hooks.DefaultPriority, func(_ context.Context, fields *settings.Registry) {
		p.RegisterFields(fields)
	})
	hooks.AddAction(r, hooks.ActionCartLoaded, hooks.DefaultPriority, func(_ context.Context, req *hooks.Registry) {
		p.Install(req)
	})
}

// RegisterFields declares the product and payment-method selections.
func (p *Plugin) RegisterFields(fields *settings.Registry) {
	fields.Register(settings.NewContainer(settings.ContainerThemeOptions, ContainerKey).AddFields(
		settings.Association(ProductsField, "For Selected Products").SetTypes(settings.PostType("product")),
		settings.Multiselect(MethodsField, "Disable Payment Methods").SetOptions(p.methodOptions()),
	))
}

// methodOptions is empty when the commerce platform is not running.
func (p *Plugin) methodOptions() []settings.Option {
	opts := []settings.Option{}
	if !p.commerce || p.gateways == nil {
		return opts
	}
	for _, g := range p.gateways.PaymentGateways() {
		opts = append(opts, settings.Option{Value: g.ID, Label: g.Title})
	}
	return opts
}

// Install attaches Filter to the available-gateways filter of r. It reports
// false and attaches nothing when the commerce platform is not running.
func (p *Plugin) Install(r *hooks.Registry) bool {
	if !p.commerce {
		return false
	}
	hooks.AddFilter(r, hooks.FilterAvailableGateways, hooks.DefaultPriority, p.Filter)
	return true
}

// Filter returns available without the configured methods when the current
// cart holds a configured product. An inactive commerce platform or any
// unavailable dependency leaves available untouched.
func (p *Plugin) Filter(ctx context.Context, available gateways.Available) gateways.Available {
	if !p.commerce {
		p.metrics.outcome(OutcomeCommerceInactive)
		return available
	}
	if p.options == nil {
		p.metrics.outcome(OutcomeOptionsUnavailable)
		return available
	}
	var c *cart.Cart
	ok := false
	if p.carts != nil {
		c, ok = p.carts.Current(ctx)
	}
	if !ok {
		p.metrics.outcome(OutcomeCartUnavailable)
		return available
	}

	products, err := p.productIDs(ctx)
	if err != nil {
		p.metrics.outcome(OutcomeOptionsError)
		return available
	}
	if len(products) == 0 {
		p.metrics.outcome(OutcomeNoProducts)
		return available
	}
	methods, err := p.methodIDs(ctx)
	if err != nil {
		p.metrics.outcome(OutcomeOptionsError)
		return available
	}
	if len(methods) == 0 {
		p.metrics.outcome(OutcomeNoMethods)
		return available
	}

	out, removed := Suppress(available, c.Items, products, methods)
	if len(removed) == 0 {
		p.metrics.outcome(OutcomeNoMatch)
		return out
	}
	p.metrics.outcome(OutcomeSuppressed)
	p.metrics.removed(removed)
	p.log.Debugw("payment methods suppressed", "cart", c.ID, "removed", removed)
	return out
}

func (p *Plugin) productIDs(ctx context.Context) ([]int64, error) {
	v, err := p.project(ctx, ProductsField, productIDsPath)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(v))
	for _, raw := range v {
		if id, ok := toID(raw); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (p *Plugin) methodIDs(ctx context.Context) ([]string, error) {
	v, err := p.project(ctx, MethodsField, methodIDsPath)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(v))
	for _, raw := range v {
		if s, ok := raw.(string); ok && s != "" {
			ids = append(ids, s)
		}
	}
	return ids, nil
}

// project reads an option and applies path; a missing or non-list option yields nil.
func (p *Plugin) project(ctx context.Context, name string, path *jmes.JMESPath) ([]any, error) {
	doc, err := p.options.ThemeOption(ctx, name)
	if err != nil || doc == nil {
		return nil, err
	}
	if _, isList := doc.([]any); !isList {
		return nil, nil
	}
	res, err := path.Search(doc)
	if err != nil {
		return nil, err
	}
	list, _ := res.([]any)
	return list, nil
}
