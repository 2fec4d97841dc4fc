package app

import (
	"context"

	"github.com/gmapkit/gmapwire/pkg/eventdispatcher"
	"github.com/gmapkit/gmapwire/pkg/wiring"
)

const renderEvent = "map.render"

type RenderEvent struct {
	eventdispatcher.Event
	Zoom int
}

type LoadEvent struct{}

//gmap::listener -Helper=map
type RenderListener struct{}

func (l *RenderListener) Handle(event *RenderEvent) error { return nil }

//gmap::listener -Helper=map -Event=map.after_render
type ConventionListener struct{}

func (l *ConventionListener) onMapAfterRender(event *RenderEvent) {}

type GenericListener struct{}

func (l *GenericListener) Handle(event *eventdispatcher.Event) {}

type StringListener struct{}

func (l StringListener) Handle(name string) {}

type ContextListener struct{}

func (l *ContextListener) Handle(ctx context.Context, event LoadEvent) {}

type AnyListener struct{}

func (l *AnyListener) Handle(event any) {}

//gmap::subscriber -Helper=map
type MapSubscriber struct{}

func (s *MapSubscriber) SubscribeEvents(subs *wiring.Subscriptions) {
	subs.On(renderEvent, "onRender")
	subs.On("map.after_render", "onAfterRender", 5)
	subs.OnEach("map.before_render",
		wiring.Handler{Method: "first", Priority: 10},
		wiring.Handler{"second", -1},
	)
}

func (s *MapSubscriber) onRender(event *RenderEvent)      {}
func (s *MapSubscriber) onAfterRender(event *RenderEvent) {}
func (s *MapSubscriber) first()                           {}
func (s *MapSubscriber) second()                          {}

type EmbeddingSubscriber struct {
	MapSubscriber
}

type ValueSubscriber struct{}

func (ValueSubscriber) SubscribeEvents(*wiring.Subscriptions) {}
