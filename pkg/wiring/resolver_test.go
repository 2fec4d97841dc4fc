package wiring

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	listenerClass   = "example.com/app/listeners.RenderListener"
	subscriberClass = "example.com/app/listeners.RenderSubscriber"
	someEvent       = "example.com/app/events.SomeEvent"
)

func newTestContainer(t *testing.T, services ...ServiceDescriptor) *Container {
	t.Helper()

	container := NewContainer()
	container.DefineDispatcher(Helpers...)
	for _, service := range services {
		require.NoError(t, container.Register(service))
	}
	return container
}

func listenerTag(helper HelperCategory, event, method string, priority int) Tag {
	return Tag{Name: helper.ListenerTag(), Event: event, Method: method, Priority: priority}
}

func TestResolver_ExplicitListener(t *testing.T) {
	tests := []struct {
		name     string
		tag      Tag
		expected RegistrationEntry
	}{
		{
			name: "explicit event and method",
			tag:  listenerTag(HelperMap, "map.after_render", "onRender", 5),
			expected: RegistrationEntry{
				Helper: HelperMap, Event: "map.after_render", ServiceID: "app.listener",
				Method: "onRender", Priority: 5, Source: FromListener,
			},
		},
		{
			name: "priority defaults to zero",
			tag:  listenerTag(HelperMap, "map.before_render", "onBefore", 0),
			expected: RegistrationEntry{
				Helper: HelperMap, Event: "map.before_render", ServiceID: "app.listener",
				Method: "onBefore", Priority: 0, Source: FromListener,
			},
		},
		{
			name: "negative priority is forwarded unchanged",
			tag:  listenerTag(HelperMap, "map.after_render", "late", -20),
			expected: RegistrationEntry{
				Helper: HelperMap, Event: "map.after_render", ServiceID: "app.listener",
				Method: "late", Priority: -20, Source: FromListener,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container := newTestContainer(t, ServiceDescriptor{
				ID:   "app.listener",
				Tags: []Tag{tt.tag},
			})

			plan, err := NewResolver(NewClassTable(), Options{}).Resolve(container)
			require.NoError(t, err)

			if diff := cmp.Diff([]RegistrationEntry{tt.expected}, plan.For(HelperMap)); diff != "" {
				t.Errorf("entries mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolver_InfersEventFromInvokeMethod(t *testing.T) {
	types := NewClassTable(&Class{
		Name: listenerClass,
		Methods: map[string]Method{
			DefaultInvokeMethod: {Name: DefaultInvokeMethod, Params: []ParamType{{Name: someEvent}}},
		},
	})
	container := newTestContainer(t, ServiceDescriptor{
		ID:    "app.listener",
		Class: listenerClass,
		Tags:  []Tag{listenerTag(HelperAPI, "", "", 3)},
	})

	plan, err := NewResolver(types, Options{}).Resolve(container)
	require.NoError(t, err)

	expected := []RegistrationEntry{{
		Helper: HelperAPI, Event: someEvent, ServiceID: "app.listener",
		Method: DefaultInvokeMethod, Priority: 3, Source: FromListener,
	}}
	assert.Equal(t, expected, plan.For(HelperAPI))
}

func TestResolver_InfersEventFromNamedMethod(t *testing.T) {
	types := NewClassTable(&Class{
		Name: listenerClass,
		Methods: map[string]Method{
			"onSome": {Name: "onSome", Params: []ParamType{{Name: someEvent}}},
		},
	})
	container := newTestContainer(t, ServiceDescriptor{
		ID:    "app.listener",
		Class: listenerClass,
		Tags:  []Tag{listenerTag(HelperMap, "", "onSome", 0)},
	})

	plan, err := NewResolver(types, Options{}).Resolve(container)
	require.NoError(t, err)
	require.Len(t, plan.For(HelperMap), 1)
	assert.Equal(t, someEvent, plan.For(HelperMap)[0].Event)
	assert.Equal(t, "onSome", plan.For(HelperMap)[0].Method)
}

func TestResolver_EventInferenceFailures(t *testing.T) {
	tests := []struct {
		name    string
		class   string
		methods map[string]Method
	}{
		{
			name:  "service without class",
			class: "",
		},
		{
			name:  "unknown class",
			class: "example.com/app/listeners.Missing",
		},
		{
			name:    "missing invoke method",
			class:   listenerClass,
			methods: map[string]Method{"Other": {Name: "Other"}},
		},
		{
			name:    "method without parameters",
			class:   listenerClass,
			methods: map[string]Method{DefaultInvokeMethod: {Name: DefaultInvokeMethod}},
		},
		{
			name:  "parameter without type",
			class: listenerClass,
			methods: map[string]Method{
				DefaultInvokeMethod: {Name: DefaultInvokeMethod, Params: []ParamType{{}}},
			},
		},
		{
			name:  "builtin parameter type",
			class: listenerClass,
			methods: map[string]Method{
				DefaultInvokeMethod: {Name: DefaultInvokeMethod, Params: []ParamType{{Name: "string", Builtin: true}}},
			},
		},
		{
			name:  "generic base event",
			class: listenerClass,
			methods: map[string]Method{
				DefaultInvokeMethod: {Name: DefaultInvokeMethod, Params: []ParamType{{Name: DefaultBaseEvent}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			types := NewClassTable(&Class{Name: listenerClass, Methods: tt.methods})
			container := newTestContainer(t, ServiceDescriptor{
				ID:    "app.broken_listener",
				Class: tt.class,
				Tags:  []Tag{listenerTag(HelperMap, "", "", 0)},
			})

			plan, err := NewResolver(types, Options{}).Resolve(container)
			require.Error(t, err)
			assert.Nil(t, plan)

			var configErr *ConfigurationError
			require.True(t, errors.As(err, &configErr))
			assert.Equal(t, "app.broken_listener", configErr.ServiceID)
			assert.Equal(t, HelperMap, configErr.Helper)
			assert.Contains(t, err.Error(), `"app.broken_listener"`)
			assert.Contains(t, err.Error(), HelperMap.ListenerTag())
			assert.True(t, errors.Is(err, ErrConfiguration))
		})
	}
}

func TestResolver_SynthesizesMethodName(t *testing.T) {
	container := newTestContainer(t, ServiceDescriptor{
		ID:   "app.listener",
		Tags: []Tag{listenerTag(HelperMap, "map.after_render", "", 0)},
	})

	plan, err := NewResolver(NewClassTable(), Options{}).Resolve(container)
	require.NoError(t, err)
	require.Len(t, plan.For(HelperMap), 1)
	assert.Equal(t, "onMapAfterRender", plan.For(HelperMap)[0].Method)
}

func TestResolver_FallsBackToInvokeMethod(t *testing.T) {
	tests := []struct {
		name     string
		methods  map[string]Method
		expected string
	}{
		{
			name:     "only invoke method exists",
			methods:  map[string]Method{DefaultInvokeMethod: {Name: DefaultInvokeMethod}},
			expected: DefaultInvokeMethod,
		},
		{
			name: "conventional method wins over invoke method",
			methods: map[string]Method{
				DefaultInvokeMethod: {Name: DefaultInvokeMethod},
				"onMapAfterRender":  {Name: "onMapAfterRender"},
			},
			expected: "onMapAfterRender",
		},
		{
			name:     "neither exists keeps the conventional name",
			methods:  map[string]Method{},
			expected: "onMapAfterRender",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			types := NewClassTable(&Class{Name: listenerClass, Methods: tt.methods})
			container := newTestContainer(t, ServiceDescriptor{
				ID:    "app.listener",
				Class: listenerClass,
				Tags:  []Tag{listenerTag(HelperMap, "map.after_render", "", 0)},
			})

			plan, err := NewResolver(types, Options{}).Resolve(container)
			require.NoError(t, err)
			require.Len(t, plan.For(HelperMap), 1)
			assert.Equal(t, tt.expected, plan.For(HelperMap)[0].Method)
		})
	}
}

func TestResolver_SubscriberTagSuppressesEventlessListener(t *testing.T) {
	types := NewClassTable(&Class{
		Name: subscriberClass,
		Subscriber: SubscriberFunc(func(s *Subscriptions) {
			s.On("map.after_render", "onAfter")
		}),
	})
	container := newTestContainer(t, ServiceDescriptor{
		ID:    "app.subscriber",
		Class: subscriberClass,
		Tags: []Tag{
			listenerTag(HelperMap, "", "", 0),
			{Name: HelperMap.SubscriberTag()},
		},
	})

	plan, err := NewResolver(types, Options{}).Resolve(container)
	require.NoError(t, err)

	expected := []RegistrationEntry{{
		Helper: HelperMap, Event: "map.after_render", ServiceID: "app.subscriber",
		Method: "onAfter", Source: FromSubscriber,
	}}
	assert.Equal(t, expected, plan.For(HelperMap))
}

func TestResolver_SubscriberTagOfOtherHelperDoesNotSuppress(t *testing.T) {
	types := NewClassTable(&Class{
		Name: listenerClass,
		Methods: map[string]Method{
			DefaultInvokeMethod: {Name: DefaultInvokeMethod, Params: []ParamType{{Name: someEvent}}},
		},
		Subscriber: SubscriberFunc(func(s *Subscriptions) {}),
	})
	container := newTestContainer(t, ServiceDescriptor{
		ID:    "app.listener",
		Class: listenerClass,
		Tags: []Tag{
			listenerTag(HelperMap, "", "", 0),
			{Name: HelperAPI.SubscriberTag()},
		},
	})

	plan, err := NewResolver(types, Options{}).Resolve(container)
	require.NoError(t, err)
	require.Len(t, plan.For(HelperMap), 1)
	assert.Equal(t, someEvent, plan.For(HelperMap)[0].Event)
	assert.Empty(t, plan.For(HelperAPI))
}

func TestResolver_SubscriberMapping(t *testing.T) {
	types := NewClassTable(&Class{
		Name: subscriberClass,
		Subscriber: SubscriberFunc(func(s *Subscriptions) {
			s.On("foo.event", "onFoo")
			s.On("bar.event", "onBar", 5)
		}),
	})
	container := newTestContainer(t, ServiceDescriptor{
		ID:    "app.subscriber",
		Class: subscriberClass,
		Tags:  []Tag{{Name: HelperStaticMap.SubscriberTag()}},
	})

	plan, err := NewResolver(types, Options{}).Resolve(container)
	require.NoError(t, err)

	expected := []RegistrationEntry{
		{Helper: HelperStaticMap, Event: "foo.event", ServiceID: "app.subscriber", Method: "onFoo", Priority: 0, Source: FromSubscriber},
		{Helper: HelperStaticMap, Event: "bar.event", ServiceID: "app.subscriber", Method: "onBar", Priority: 5, Source: FromSubscriber},
	}
	if diff := cmp.Diff(expected, plan.For(HelperStaticMap)); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestResolver_SubscriberWithSeveralHandlers(t *testing.T) {
	types := NewClassTable(&Class{
		Name: subscriberClass,
		Subscriber: SubscriberFunc(func(s *Subscriptions) {
			s.OnEach("map.render", Handler{Method: "first", Priority: 10}, Handler{Method: "second"})
		}),
	})
	container := newTestContainer(t, ServiceDescriptor{
		ID:    "app.subscriber",
		Class: subscriberClass,
		Tags:  []Tag{{Name: HelperMap.SubscriberTag()}},
	})

	plan, err := NewResolver(types, Options{}).Resolve(container)
	require.NoError(t, err)

	entries := plan.For(HelperMap)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Method)
	assert.Equal(t, 10, entries[0].Priority)
	assert.Equal(t, "second", entries[1].Method)
	assert.Equal(t, 0, entries[1].Priority)
}

func TestResolver_SubscriberFailures(t *testing.T) {
	t.Run("class cannot be found", func(t *testing.T) {
		container := newTestContainer(t, ServiceDescriptor{
			ID:    "app.subscriber",
			Class: "example.com/app/listeners.Missing",
			Tags:  []Tag{{Name: HelperMap.SubscriberTag()}},
		})

		_, err := NewResolver(NewClassTable(), Options{}).Resolve(container)
		require.Error(t, err)

		var configErr *ConfigurationError
		require.True(t, errors.As(err, &configErr))
		assert.Equal(t, "app.subscriber", configErr.ServiceID)
		assert.True(t, errors.Is(err, ErrClassNotFound))
		assert.Contains(t, err.Error(), "cannot be found")
	})

	t.Run("class is not a subscriber", func(t *testing.T) {
		types := NewClassTable(&Class{Name: listenerClass})
		container := newTestContainer(t, ServiceDescriptor{
			ID:    "app.not_a_subscriber",
			Class: listenerClass,
			Tags:  []Tag{{Name: HelperMap.SubscriberTag()}},
		})

		_, err := NewResolver(types, Options{}).Resolve(container)
		require.Error(t, err)

		var configErr *ConfigurationError
		require.True(t, errors.As(err, &configErr))
		assert.Equal(t, "app.not_a_subscriber", configErr.ServiceID)
		assert.Contains(t, err.Error(), `"app.not_a_subscriber"`)
		assert.Contains(t, err.Error(), EventSubscriberInterface)
	})
}

type failingSubscriber struct{ err error }

func (f failingSubscriber) SubscribeEvents(*Subscriptions) {}
func (f failingSubscriber) ExtractionErr() error           { return f.err }

func TestResolver_SubscriberExtractionError(t *testing.T) {
	cause := errors.New("dynamic event name")
	types := NewClassTable(&Class{Name: subscriberClass, Subscriber: failingSubscriber{err: cause}})
	container := newTestContainer(t, ServiceDescriptor{
		ID:    "app.subscriber",
		Class: subscriberClass,
		Tags:  []Tag{{Name: HelperMap.SubscriberTag()}},
	})

	_, err := NewResolver(types, Options{}).Resolve(container)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestResolver_SubscriberWithSeveralPriorities(t *testing.T) {
	subscriber := SubscriberFunc(func(s *Subscriptions) {
		s.On("map.render", "onRender", 1, 2)
		s.On("map.after_render", "onAfterRender", 3)
	})
	types := NewClassTable(&Class{Name: subscriberClass, Subscriber: subscriber})
	container := newTestContainer(t, ServiceDescriptor{
		ID:    "app.subscriber",
		Class: subscriberClass,
		Tags:  []Tag{{Name: HelperMap.SubscriberTag()}},
	})

	_, err := NewResolver(types, Options{}).Resolve(container)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), `On("map.render", "onRender") takes at most one priority, got 2`)

	subs := NewSubscriptions(nil)
	subscriber.SubscribeEvents(subs)
	assert.Equal(t, []Subscription{{Event: "map.after_render", Method: "onAfterRender", Priority: 3}}, subs.All())
}

func TestResolver_ListenersBeforeSubscribers(t *testing.T) {
	types := NewClassTable(&Class{
		Name: subscriberClass,
		Subscriber: SubscriberFunc(func(s *Subscriptions) {
			s.On("map.render", "fromSubscriber", 100)
		}),
	})

	// the subscriber is registered first but its entries still come last
	container := newTestContainer(t,
		ServiceDescriptor{ID: "app.subscriber", Class: subscriberClass, Tags: []Tag{{Name: HelperMap.SubscriberTag()}}},
		ServiceDescriptor{ID: "app.first", Tags: []Tag{
			listenerTag(HelperMap, "map.render", "a", 0),
			listenerTag(HelperMap, "map.render", "b", 1),
		}},
		ServiceDescriptor{ID: "app.second", Tags: []Tag{listenerTag(HelperMap, "map.render", "c", -1)}},
	)

	plan, err := NewResolver(types, Options{}).Resolve(container)
	require.NoError(t, err)

	var got []string
	for _, entry := range plan.For(HelperMap) {
		got = append(got, entry.ServiceID+"."+entry.Method)
	}
	assert.Equal(t, []string{"app.first.a", "app.first.b", "app.second.c", "app.subscriber.fromSubscriber"}, got)
}

func TestResolver_Aliases(t *testing.T) {
	types := NewClassTable(&Class{
		Name: subscriberClass,
		Subscriber: SubscriberFunc(func(s *Subscriptions) {
			s.On("legacy.render", "onRender")
		}),
	})
	container := newTestContainer(t,
		ServiceDescriptor{ID: "app.listener", Tags: []Tag{listenerTag(HelperMap, "legacy.render", "", 0)}},
		ServiceDescriptor{ID: "app.subscriber", Class: subscriberClass, Tags: []Tag{{Name: HelperMap.SubscriberTag()}}},
	)

	resolver := NewResolver(types, Options{
		Aliases: map[HelperCategory]map[string]string{
			HelperMap: {"legacy.render": "map.render"},
		},
	})
	plan, err := resolver.Resolve(container)
	require.NoError(t, err)

	entries := plan.For(HelperMap)
	require.Len(t, entries, 2)
	assert.Equal(t, "map.render", entries[0].Event)
	assert.Equal(t, "onMapRender", entries[0].Method)
	assert.Equal(t, "map.render", entries[1].Event)
}

func TestResolver_MissingDispatcher(t *testing.T) {
	container := NewContainer()
	container.DefineDispatcher(HelperAPI, HelperStaticMap)
	require.NoError(t, container.Register(ServiceDescriptor{
		ID: "app.listener",
		Tags: []Tag{
			listenerTag(HelperAPI, "api.load", "onLoad", 0),
			listenerTag(HelperMap, "map.render", "onRender", 0),
			listenerTag(HelperStaticMap, "static.render", "onStatic", 0),
		},
	}))

	t.Run("skips only the helper without dispatcher", func(t *testing.T) {
		plan, err := NewResolver(NewClassTable(), Options{}).Resolve(container)
		require.NoError(t, err)

		assert.Len(t, plan.For(HelperAPI), 1)
		assert.Empty(t, plan.For(HelperMap))
		assert.Len(t, plan.For(HelperStaticMap), 1)
		assert.Equal(t, []HelperCategory{HelperAPI, HelperStaticMap}, plan.Helpers())
	})

	t.Run("stops at the first missing dispatcher", func(t *testing.T) {
		plan, err := NewResolver(NewClassTable(), Options{StopOnMissingDispatcher: true}).Resolve(container)
		require.NoError(t, err)

		assert.Len(t, plan.For(HelperAPI), 1)
		assert.Empty(t, plan.For(HelperMap))
		assert.Empty(t, plan.For(HelperStaticMap))
	})

	t.Run("resolving a single helper without dispatcher", func(t *testing.T) {
		entries, err := NewResolver(NewClassTable(), Options{}).ResolveHelper(container, HelperMap)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestResolver_InvalidListenerInSkippedHelperIsIgnored(t *testing.T) {
	container := NewContainer()
	require.NoError(t, container.Register(ServiceDescriptor{
		ID:   "app.listener",
		Tags: []Tag{listenerTag(HelperMap, "", "", 0)},
	}))

	plan, err := NewResolver(NewClassTable(), Options{}).Resolve(container)
	require.NoError(t, err)
	assert.Equal(t, 0, plan.Len())
}

func TestResolver_CustomInvokeMethod(t *testing.T) {
	types := NewClassTable(&Class{
		Name: listenerClass,
		Methods: map[string]Method{
			"Invoke": {Name: "Invoke", Params: []ParamType{{Name: someEvent}}},
		},
	})
	container := newTestContainer(t, ServiceDescriptor{
		ID:    "app.listener",
		Class: listenerClass,
		Tags:  []Tag{listenerTag(HelperMap, "", "", 0)},
	})

	plan, err := NewResolver(types, Options{InvokeMethod: "Invoke"}).Resolve(container)
	require.NoError(t, err)
	require.Len(t, plan.For(HelperMap), 1)
	assert.Equal(t, "Invoke", plan.For(HelperMap)[0].Method)
}

type recordedCall struct {
	event    string
	listener ServiceMethod
	priority int
}

type recordingDefinition struct {
	calls []recordedCall
}

func (r *recordingDefinition) AddListener(event string, listener ServiceMethod, priority int) {
	r.calls = append(r.calls, recordedCall{event: event, listener: listener, priority: priority})
}

func TestPlan_Apply(t *testing.T) {
	container := newTestContainer(t,
		ServiceDescriptor{ID: "app.a", Tags: []Tag{
			listenerTag(HelperMap, "map.render", "onRender", 2),
			listenerTag(HelperAPI, "api.load", "onLoad", 0),
		}},
	)

	plan, err := NewResolver(NewClassTable(), Options{}).Resolve(container)
	require.NoError(t, err)
	assert.Equal(t, 2, plan.Len())

	mapDefinition := &recordingDefinition{}
	plan.Apply(map[HelperCategory]DispatcherDefinition{HelperMap: mapDefinition})

	assert.Equal(t, []recordedCall{{
		event:    "map.render",
		listener: ServiceMethod{ServiceID: "app.a", Method: "onRender"},
		priority: 2,
	}}, mapDefinition.calls)
}
