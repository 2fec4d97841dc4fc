package broken

import (
	"fmt"

	"github.com/gmapkit/gmapwire/pkg/wiring"
)

var dynamicEvent = "map.render"

type DynamicSubscriber struct{}

func (s *DynamicSubscriber) SubscribeEvents(subs *wiring.Subscriptions) {
	subs.On(dynamicEvent, "onRender")
}

type LoopSubscriber struct{}

func (s *LoopSubscriber) SubscribeEvents(subs *wiring.Subscriptions) {
	for _, event := range []string{"a", "b"} {
		subs.On(event, "on")
	}
}

type PrintingSubscriber struct{}

func (s *PrintingSubscriber) SubscribeEvents(subs *wiring.Subscriptions) {
	fmt.Println("subscribing")
}

type SpreadSubscriber struct{}

var handlers = []wiring.Handler{{Method: "a"}}

func (s *SpreadSubscriber) SubscribeEvents(subs *wiring.Subscriptions) {
	subs.OnEach("map.render", handlers...)
}
