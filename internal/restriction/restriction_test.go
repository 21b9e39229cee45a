package restriction

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"paysieve/internal/cart"
	"paysieve/internal/gateways"
	"paysieve/internal/hooks"
	"paysieve/internal/settings"
	"paysieve/pkg/logger"
	"paysieve/pkg/stores"
)

type fakeOptions struct {
	vals map[string]any
	err  error
}

func (f *fakeOptions) ThemeOption(_ context.Context, name string) (any, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vals[name], nil
}

type fixedCart struct{ c *cart.Cart }

func (f fixedCart) Current(context.Context) (*cart.Cart, bool) { return f.c, f.c != nil }

func products(ids ...any) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, map[string]any{"value": "post:product", "type": "post", "subtype": "product", "id": id})
	}
	return out
}

func methods(ids ...string) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, id)
	}
	return out
}

func cartWith(ids ...int64) *cart.Cart {
	c := &cart.Cart{ID: "c1", StoreID: "s1"}
	for _, id := range ids {
		c.Items = append(c.Items, cart.LineItem{Key: "k", ProductID: id, Quantity: 1})
	}
	return c
}

func codAndBacs() gateways.Available {
	return gateways.Available{
		"cod":  {ID: "cod", Title: "Cash on delivery", Enabled: true},
		"bacs": {ID: "bacs", Title: "Direct bank transfer", Enabled: true},
	}
}

type FilterSuite struct {
	suite.Suite
	opts    *fakeOptions
	metrics *Metrics
}

func TestFilterSuite(t *testing.T) {
	suite.Run(t, new(FilterSuite))
}

func (s *FilterSuite) SetupTest() {
	s.opts = &fakeOptions{vals: map[string]any{}}
	s.metrics = NewMetrics(prometheus.NewRegistry())
}

func (s *FilterSuite) plugin(c *cart.Cart) *Plugin {
	return New(Options{CommerceActive: true, Options: s.opts, Carts: fixedCart{c}, Log: logger.Nop(), Metrics: s.metrics})
}

func (s *FilterSuite) configure(p []any, m []any) {
	s.opts.vals[ProductsField] = p
	s.opts.vals[MethodsField] = m
}

func (s *FilterSuite) outcomes(o string) float64 {
	return testutil.ToFloat64(s.metrics.Evaluations.WithLabelValues(o))
}

func (s *FilterSuite) TestRestrictedProductRemovesMethods() {
	s.configure(products(float64(101)), methods("cod"))
	in := codAndBacs()

	out := s.plugin(cartWith(101)).Filter(context.Background(), in)

	s.Equal([]string{"bacs"}, out.Keys())
	s.Len(in, 2, "input mapping is not modified")
	s.Equal(1.0, s.outcomes(OutcomeSuppressed))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Removed.WithLabelValues("cod")))
}

func (s *FilterSuite) TestUnrelatedCartLeavesGateways() {
	s.configure(products(float64(101)), methods("cod"))

	out := s.plugin(cartWith(202)).Filter(context.Background(), codAndBacs())

	s.Equal(codAndBacs(), out)
	s.Equal(1.0, s.outcomes(OutcomeNoMatch))
}

func (s *FilterSuite) TestEmptyConfigurationFailsOpen() {
	s.Run("no products", func() {
		s.configure(products(), methods("cod"))
		s.Equal(codAndBacs(), s.plugin(cartWith(101)).Filter(context.Background(), codAndBacs()))
	})
	s.Run("products never saved", func() {
		s.opts.vals = map[string]any{MethodsField: methods("cod")}
		s.Equal(codAndBacs(), s.plugin(cartWith(101)).Filter(context.Background(), codAndBacs()))
	})
	s.Run("no methods", func() {
		s.configure(products(float64(101)), methods())
		s.Equal(codAndBacs(), s.plugin(cartWith(101)).Filter(context.Background(), codAndBacs()))
	})
	s.Equal(2.0, s.outcomes(OutcomeNoProducts))
	s.Equal(1.0, s.outcomes(OutcomeNoMethods))
}

func (s *FilterSuite) TestMissingDependenciesFailOpen() {
	s.configure(products(float64(101)), methods("cod"))

	s.Run("options reader absent", func() {
		p := New(Options{CommerceActive: true, Carts: fixedCart{cartWith(101)}, Metrics: s.metrics})
		s.Equal(codAndBacs(), p.Filter(context.Background(), codAndBacs()))
	})
	s.Run("cart absent", func() {
		s.Equal(codAndBacs(), s.plugin(nil).Filter(context.Background(), codAndBacs()))
	})
	s.Run("cart provider absent", func() {
		p := New(Options{CommerceActive: true, Options: s.opts, Metrics: s.metrics})
		s.Equal(codAndBacs(), p.Filter(context.Background(), codAndBacs()))
	})
	s.Run("option read fails", func() {
		s.opts.err = errors.New("db down")
		s.Equal(codAndBacs(), s.plugin(cartWith(101)).Filter(context.Background(), codAndBacs()))
	})
	s.Equal(1.0, s.outcomes(OutcomeOptionsUnavailable))
	s.Equal(2.0, s.outcomes(OutcomeCartUnavailable))
	s.Equal(1.0, s.outcomes(OutcomeOptionsError))
}

func (s *FilterSuite) TestMalformedOptionsFailOpen() {
	s.configure(products("not-a-number", map[string]any{"id": nil}), methods("cod"))
	s.Equal(codAndBacs(), s.plugin(cartWith(101)).Filter(context.Background(), codAndBacs()))

	s.opts.vals[ProductsField] = map[string]any{"id": 101}
	s.Equal(codAndBacs(), s.plugin(cartWith(101)).Filter(context.Background(), codAndBacs()))

	s.opts.vals[ProductsField] = products(float64(101))
	s.opts.vals[MethodsField] = []any{float64(3), nil}
	s.Equal(codAndBacs(), s.plugin(cartWith(101)).Filter(context.Background(), codAndBacs()))
}

func (s *FilterSuite) TestStringProductIDsMatch() {
	s.configure(products("101"), methods("cod", "bacs"))
	out := s.plugin(cartWith(101)).Filter(context.Background(), codAndBacs())
	s.Empty(out)
}

func (s *FilterSuite) TestAbsentMethodsIgnored() {
	s.configure(products(float64(101)), methods("paypal", "cod", "stripe"))
	all := codAndBacs()
	all["paypal"] = gateways.Gateway{ID: "paypal"}

	out := s.plugin(cartWith(101)).Filter(context.Background(), all)

	s.Equal([]string{"bacs"}, out.Keys())
	s.Equal(0.0, testutil.ToFloat64(s.metrics.Removed.WithLabelValues("stripe")))
}

func (s *FilterSuite) TestManyQualifyingItemsSameEffect() {
	s.configure(products(float64(101), float64(102)), methods("cod"))
	one := s.plugin(cartWith(101)).Filter(context.Background(), codAndBacs())
	many := s.plugin(cartWith(5, 102, 101, 102)).Filter(context.Background(), codAndBacs())
	s.Equal(one, many)
}

func (s *FilterSuite) TestIdempotent() {
	s.configure(products(float64(101)), methods("cod"))
	p := s.plugin(cartWith(101))
	once := p.Filter(context.Background(), codAndBacs())
	twice := p.Filter(context.Background(), once)
	s.Equal(once, twice)
}

func (s *FilterSuite) TestOutputKeysAreSubsetOfInput() {
	s.configure(products(float64(1), float64(2)), methods("cod", "cheque", "bacs"))
	in := codAndBacs()
	in["paypal"] = gateways.Gateway{ID: "paypal", Title: "PayPal"}

	out := s.plugin(cartWith(2)).Filter(context.Background(), in)

	for k, g := range out {
		s.Contains(in, k)
		s.Equal(in[k], g)
	}
	s.Equal([]string{"paypal"}, out.Keys())
}

type InstallSuite struct {
	suite.Suite
}

func TestInstallSuite(t *testing.T) {
	suite.Run(t, new(InstallSuite))
}

func (s *InstallSuite) TestInactivePlatformNeverAttaches() {
	opts := &fakeOptions{vals: map[string]any{ProductsField: products(float64(101)), MethodsField: methods("cod")}}
	p := New(Options{CommerceActive: false, Options: opts, Carts: fixedCart{cartWith(101)}})
	r := hooks.New()

	s.False(p.Install(r))
	s.False(r.HasFilter(hooks.FilterAvailableGateways))
	s.Equal(codAndBacs(), hooks.ApplyFilters(context.Background(), r, hooks.FilterAvailableGateways, codAndBacs()))
}

func (s *InstallSuite) TestInactivePlatformFilterIsIdentity() {
	opts := &fakeOptions{vals: map[string]any{ProductsField: products(float64(101)), MethodsField: methods("cod")}}
	m := NewMetrics(prometheus.NewRegistry())
	p := New(Options{CommerceActive: false, Options: opts, Carts: fixedCart{cartWith(101)}, Metrics: m})

	s.Equal(codAndBacs(), p.Filter(context.Background(), codAndBacs()))
	s.Equal(1.0, testutil.ToFloat64(m.Evaluations.WithLabelValues(OutcomeCommerceInactive)))
	s.Equal(0.0, testutil.ToFloat64(m.Evaluations.WithLabelValues(OutcomeSuppressed)))
}

func (s *InstallSuite) TestAttachInstallsOnCartLoaded() {
	opts := &fakeOptions{vals: map[string]any{ProductsField: products(float64(101)), MethodsField: methods("cod")}}
	p := New(Options{CommerceActive: true, Options: opts, Carts: cart.ContextProvider{}})
	boot := hooks.New()
	p.Attach(boot)
	s.False(boot.HasFilter(hooks.FilterAvailableGateways))

	req := boot.Clone()
	hooks.DoAction(context.Background(), req, hooks.ActionCartLoaded, req)
	s.True(req.HasFilter(hooks.FilterAvailableGateways))
	s.False(boot.HasFilter(hooks.FilterAvailableGateways))

	ctx := cart.WithCurrent(context.Background(), cartWith(101))
	out := hooks.ApplyFilters(ctx, req, hooks.FilterAvailableGateways, codAndBacs())
	s.Equal([]string{"bacs"}, out.Keys())
}

func (s *InstallSuite) TestRegisterFields() {
	reg := gateways.NewRegistry(gateways.Defaults()...)

	s.Run("options follow the gateway registry", func() {
		fields := settings.NewRegistry()
		boot := hooks.New()
		New(Options{CommerceActive: true, Gateways: reg}).Attach(boot)
		hooks.DoAction(context.Background(), boot, hooks.ActionFieldsRegister, fields)

		c, ok := fields.Container(ContainerKey)
		s.Require().True(ok)
		s.Equal(settings.ContainerThemeOptions, c.Kind)
		s.Require().Len(c.Fields, 2)

		prod := c.Fields[0]
		s.Equal(ProductsField, prod.Name)
		s.Equal(settings.FieldAssociation, prod.Type)
		s.Equal([]settings.EntityType{{Type: "post", Subtype: "product"}}, prod.Types)

		meth := c.Fields[1]
		s.Equal(MethodsField, meth.Name)
		s.Equal(settings.FieldMultiselect, meth.Type)
		s.Equal([]settings.Option{
			{Value: "bacs", Label: "Direct bank transfer"},
			{Value: "cheque", Label: "Check payments"},
			{Value: "cod", Label: "Cash on delivery"},
			{Value: "paypal", Label: "PayPal"},
		}, meth.Options)
	})

	s.Run("inactive platform yields no options", func() {
		fields := settings.NewRegistry()
		New(Options{CommerceActive: false, Gateways: reg}).RegisterFields(fields)
		f, ok := fields.Field(MethodsField)
		s.Require().True(ok)
		s.Empty(f.Options)
		s.NotNil(f.Options)
	})
}

func (s *FilterSuite) TestLargeProductIDsFromStoredOptions() {
	st := settings.NewMemoryStore()
	ctx := stores.WithStore(context.Background(), stores.Store{ID: "s1"})
	s.Require().NoError(st.Put(ctx, "s1", ProductsField,
		[]byte(`[{"value":"post:product:9007199254740993","type":"post","subtype":"product","id":9007199254740993}]`)))
	s.Require().NoError(st.Put(ctx, "s1", MethodsField, []byte(`["cod"]`)))

	build := func(c *cart.Cart) *Plugin {
		return New(Options{CommerceActive: true, Options: settings.NewReader(st), Carts: fixedCart{c}, Metrics: s.metrics})
	}

	exact := build(cartWith(9007199254740993)).Filter(ctx, codAndBacs())
	s.Equal([]string{"bacs"}, exact.Keys())

	neighbour := build(cartWith(9007199254740992)).Filter(ctx, codAndBacs())
	s.Equal(codAndBacs(), neighbour)
}
