package wiring

import "strings"

// ListenerMethodName derives the conventional handler name of an event:
// "on" followed by the event name with separators removed, its first
// letter and every letter after a separator upper-cased.
//
//	map.after_render -> onMapAfterRender
func ListenerMethodName(event string) string {
	var b strings.Builder
	b.Grow(len(event) + 2)
	b.WriteString("on")

	upperNext := true
	for i := 0; i < len(event); i++ {
		c := event[i]
		switch {
		case isASCIILetter(c):
			if upperNext && c >= 'a' && c <= 'z' {
				c -= 'a' - 'A'
			}
			b.WriteByte(c)
			upperNext = false
		case c >= '0' && c <= '9':
			b.WriteByte(c)
			upperNext = false
		default:
			upperNext = true
		}
	}
	return b.String()
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
