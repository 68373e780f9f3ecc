package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekorate/cli/internal/resource"
)

type appConfig struct {
	Name     string
	Version  string
	Replicas int
	Trace    []string
}

func withVersion(v string) Builder[appConfig] {
	return func(c *appConfig) { c.Version = v }
}

func withName(n string) Builder[appConfig] {
	return func(c *appConfig) { c.Name = n }
}

func trace(tag string) Adapter[appConfig] {
	return func(c *appConfig) { c.Trace = append(c.Trace, tag) }
}

type recordingHandler struct {
	name  string
	group string
	calls *int
	err   error
}

func (h *recordingHandler) Name() string { return h.name }

func (h *recordingHandler) Handle(s *Session) error {
	*h.calls++
	if h.err != nil {
		return h.err
	}
	cfg, _ := Resolve[appConfig](s)
	s.Resources().Add(h.group, resource.New(h.group, h.name, map[string]any{
		"apiVersion": "v1",
		"kind":       "Service",
		"metadata":   map[string]any{"name": cfg.Name},
	}))
	return nil
}

type recordingHook struct {
	name string
	log  *[]string
	err  error
}

func (h *recordingHook) Name() string { return h.name }

func (h *recordingHook) Run(context.Context) error {
	*h.log = append(*h.log, h.name)
	return h.err
}

func TestResolve_NothingRegistered(t *testing.T) {
	s := New()

	_, ok := Resolve[appConfig](s)
	assert.False(t, ok)
}

func TestResolve_PropertiesOverrideMarkers(t *testing.T) {
	marker := func() Configurator { return NewMarkerSupplier(withVersion("1.0")) }
	props := func() Configurator { return NewPropertySupplier(withVersion("2.0")) }

	orders := map[string][]func() Configurator{
		"marker first":     {marker, props},
		"properties first": {props, marker},
	}

	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			s := New()
			for _, c := range order {
				require.NoError(t, s.AddConfigurator(c()))
			}

			cfg, ok := Resolve[appConfig](s)
			require.True(t, ok)
			assert.Equal(t, "2.0", cfg.Version)
		})
	}
}

func TestResolve_UnsetPropertyFieldKeepsMarkerValue(t *testing.T) {
	s := New()
	require.NoError(t, s.AddConfigurator(NewPropertySupplier(withVersion("2.0"))))
	require.NoError(t, s.AddConfigurator(NewMarkerSupplier(withName("orders"))))

	cfg, ok := Resolve[appConfig](s)
	require.True(t, ok)
	assert.Equal(t, "orders", cfg.Name)
	assert.Equal(t, "2.0", cfg.Version)
}

func TestResolve_MergeOrderWithinOrigin(t *testing.T) {
	s := New()
	require.NoError(t, s.AddConfigurator(NewPropertySupplier[appConfig](nil).Accept(trace("p1"))))
	require.NoError(t, s.AddConfigurator(NewMarkerSupplier[appConfig](nil).Accept(trace("m1"))))
	require.NoError(t, s.AddConfigurator(NewPropertySupplier[appConfig](nil).Accept(trace("p2"))))
	require.NoError(t, s.AddConfigurator(NewMarkerSupplier[appConfig](nil).Accept(trace("m2"))))

	cfg, _ := Resolve[appConfig](s)
	assert.Equal(t, []string{"m1", "m2", "p1", "p2"}, cfg.Trace)
}

func TestResolve_AdaptersRunAfterBuilder(t *testing.T) {
	s := New()
	fill := func(c *appConfig) {
		if c.Name == "" {
			c.Name = "from-project"
		}
	}
	require.NoError(t, s.AddConfigurator(NewMarkerSupplier(withName("declared")).Accept(fill)))

	cfg, _ := Resolve[appConfig](s)
	assert.Equal(t, "declared", cfg.Name)
}

func TestResolve_Idempotent(t *testing.T) {
	s := New()
	require.NoError(t, s.AddConfigurator(NewMarkerSupplier(withName("orders")).Accept(trace("a"))))
	require.NoError(t, s.AddConfigurator(NewPropertySupplier(withVersion("2.0")).Accept(trace("b"))))

	first, _ := Resolve[appConfig](s)
	second, _ := Resolve[appConfig](s)
	assert.Equal(t, first, second)
}

func TestResolve_TypesAreIsolated(t *testing.T) {
	type otherConfig struct{ Version string }

	s := New()
	require.NoError(t, s.AddConfigurator(NewPropertySupplier(withVersion("2.0"))))

	_, ok := Resolve[otherConfig](s)
	assert.False(t, ok)
}

func TestSupplier_AcceptIsImmutable(t *testing.T) {
	base := NewMarkerSupplier(withName("orders"))
	extended := base.Accept(trace("x"))

	assert.Empty(t, base.Build().Trace)
	assert.Equal(t, []string{"x"}, extended.Build().Trace)
	assert.Equal(t, OriginMarker, extended.Origin())
}

func TestOrigin_String(t *testing.T) {
	assert.Equal(t, "marker", OriginMarker.String())
	assert.Equal(t, "properties", OriginProperties.String())
}

func TestGenerate_RunsHandlersOnceLazily(t *testing.T) {
	s := New()
	calls := 0
	require.NoError(t, s.AddConfigurator(NewMarkerSupplier(withName("orders"))))
	require.NoError(t, s.AddHandler(&recordingHandler{name: "openshift", group: "openshift", calls: &calls}))
	assert.Equal(t, 0, calls, "handlers must not run at registration")

	groups, err := s.Generate()
	require.NoError(t, err)
	_, err = s.Generate()
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	items := groups.Get("openshift")
	require.Len(t, items, 1)
	assert.Equal(t, "orders", items[0].GetName())
}

func TestAddHandler_SameNameIgnored(t *testing.T) {
	s := New()
	first, second := 0, 0
	require.NoError(t, s.AddHandler(&recordingHandler{name: "openshift", group: "openshift", calls: &first}))
	require.NoError(t, s.AddHandler(&recordingHandler{name: "openshift", group: "openshift", calls: &second}))

	_, err := s.Generate()
	require.NoError(t, err)
	assert.Equal(t, 1, first)
	assert.Equal(t, 0, second)
}

func TestGenerate_HandlerErrorIsSticky(t *testing.T) {
	s := New()
	calls := 0
	boom := errors.New("boom")
	require.NoError(t, s.AddHandler(&recordingHandler{name: "openshift", calls: &calls, err: boom}))

	_, err := s.Generate()
	require.ErrorIs(t, err, boom)
	_, err = s.Generate()
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestClose_ListenersInOrderExactlyOnce(t *testing.T) {
	s := New()
	var order []string
	require.NoError(t, s.AddListener(ListenerFunc(func(*Session) error { order = append(order, "a"); return nil })))
	require.NoError(t, s.AddListener(ListenerFunc(func(*Session) error { order = append(order, "b"); return nil })))

	require.NoError(t, s.Close())
	assert.Equal(t, []string{"a", "b"}, order)

	assert.ErrorIs(t, s.Close(), ErrClosed)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.True(t, s.Closed())
}

type pointerListener struct{ calls int }

func (l *pointerListener) OnClosed(*Session) error {
	l.calls++
	return nil
}

func TestAddListener_SameValueRegisteredOnce(t *testing.T) {
	s := New()
	l := &pointerListener{}
	other := &pointerListener{}
	require.NoError(t, s.AddListener(l))
	require.NoError(t, s.AddListener(l))
	require.NoError(t, s.AddListener(other))

	require.NoError(t, s.Close())
	assert.Equal(t, 1, l.calls)
	assert.Equal(t, 1, other.calls)
}

func TestAddListener_Nil(t *testing.T) {
	assert.Error(t, New().AddListener(nil))
}

func TestClose_ListenerFailureAbortsRemaining(t *testing.T) {
	s := New()
	boom := errors.New("boom")
	var order []string
	require.NoError(t, s.AddListener(ListenerFunc(func(*Session) error { order = append(order, "a"); return nil })))
	require.NoError(t, s.AddListener(ListenerFunc(func(*Session) error { order = append(order, "b"); return boom })))
	require.NoError(t, s.AddListener(ListenerFunc(func(*Session) error { order = append(order, "c"); return nil })))

	err := s.Close()
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.True(t, s.Closed())
}

func TestClose_ListenersSeeResolvedConfigAndResources(t *testing.T) {
	s := New()
	calls := 0
	require.NoError(t, s.AddConfigurator(NewMarkerSupplier(withName("orders"))))
	require.NoError(t, s.AddHandler(&recordingHandler{name: "openshift", group: "openshift", calls: &calls}))

	var seenName string
	var seenResources int
	require.NoError(t, s.AddListener(ListenerFunc(func(s *Session) error {
		cfg, _ := Resolve[appConfig](s)
		seenName = cfg.Name
		seenResources = len(s.Resources().Get("openshift"))
		return nil
	})))

	require.NoError(t, s.Close())
	assert.Equal(t, "orders", seenName)
	assert.Equal(t, 1, seenResources)
}

func TestMutationAfterClose(t *testing.T) {
	s := New()
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.AddConfigurator(NewMarkerSupplier(withName("x"))), ErrClosed)
	assert.ErrorIs(t, s.AddHandler(&recordingHandler{name: "h"}), ErrClosed)
	assert.ErrorIs(t, s.AddListener(&pointerListener{}), ErrClosed)
	assert.ErrorIs(t, s.RegisterHook(&recordingHook{name: "late"}), ErrClosed)
}

func TestHooks_RegisteredDuringCloseRunAfter(t *testing.T) {
	s := New()
	var ran []string
	require.NoError(t, s.AddListener(ListenerFunc(func(s *Session) error {
		return s.RegisterHook(&recordingHook{name: "image-build", log: &ran})
	})))
	require.NoError(t, s.AddListener(ListenerFunc(func(s *Session) error {
		return s.RegisterHook(&recordingHook{name: "apply", log: &ran})
	})))

	assert.Error(t, s.RunHooks(context.Background()), "hooks must not run before close")

	require.NoError(t, s.Close())
	assert.Empty(t, ran, "hooks are deferred, not run inline")
	require.Len(t, s.Hooks(), 2)

	require.NoError(t, s.RunHooks(context.Background()))
	require.NoError(t, s.RunHooks(context.Background()))
	assert.Equal(t, []string{"image-build", "apply"}, ran)
}

func TestRunHooks_StopsAtFirstFailure(t *testing.T) {
	s := New()
	boom := errors.New("boom")
	var ran []string
	require.NoError(t, s.AddListener(ListenerFunc(func(s *Session) error {
		_ = s.RegisterHook(&recordingHook{name: "first", log: &ran, err: boom})
		return s.RegisterHook(&recordingHook{name: "second", log: &ran})
	})))
	require.NoError(t, s.Close())

	err := s.RunHooks(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first"}, ran)
}
