package base

import "github.com/gmapkit/gmapwire/pkg/wiring"

type Subscriber struct{}

func (s *Subscriber) SubscribeEvents(subs *wiring.Subscriptions) {
	subs.On("map.render", "OnRender", 3)
}

func (s *Subscriber) OnRender(event any) {}
