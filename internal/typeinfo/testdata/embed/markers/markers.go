package markers

import "github.com/gmapkit/gmapwire/internal/typeinfo/testdata/embed/base"

type MarkerSubscriber struct {
	base.Subscriber
}
