package autoplace

// Areas holds a component's courtyard rectangles per side.
type Areas struct {
	rects [2][]Rect
}

// Side returns the rectangles on side s.
func (a *Areas) Side(s Side) []Rect {
	return a.rects[s]
}

func (a *Areas) add(r Rect, layers Layers) {
	for _, s := range []Side{Bottom, Top} {
		if layers.On(s) {
			a.rects[s] = append(a.rects[s], r)
		}
	}
}

// AreaBuilder computes courtyard areas for one component at a time.
type AreaBuilder struct {
	pitch int
	areas Areas
}

func NewAreaBuilder(pitch int) *AreaBuilder {
	return &AreaBuilder{pitch: pitch}
}

// BuildAreas replaces the previous result with the areas of c: the body box
// grown by half a pitch plus extraClearance on the component side, and each
// pad box grown by half a pitch plus its own clearance on every copper side
// the pad touches.
func (b *AreaBuilder) BuildAreas(c *Component, extraClearance int) Areas {
	b.areas = Areas{}
	half := b.pitch / 2

	b.areas.add(c.Bounds().Inflate(half+extraClearance), LayersOf(c.Side))
	for i, p := range c.Pads {
		b.areas.add(c.PadBounds(i).Inflate(half+p.Clearance), p.Layers)
	}
	return b.areas
}
