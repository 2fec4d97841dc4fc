package audit

import "github.com/gmapkit/gmapwire/pkg/wiring"

//gmap::subscriber -Helper=map
type Recorder struct{}

func (r *Recorder) SubscribeEvents(subs *wiring.Subscriptions) {
	subs.On("map.render", "onRender")
}

func (r *Recorder) onRender(event any) {}
