package render

//gmap::listener -Helper=map -Event=map.render
type Tiles struct{}

func (t *Tiles) onMapRender(event any) {}
