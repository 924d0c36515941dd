package autoplace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkListPresort(t *testing.T) {
	small := part("R1", Point{}, mm, 1, 2)
	big := part("U1", Point{}, 5*mm, 1, 2, 3)
	same := part("R2", Point{}, mm, 3, 4)

	w := newWorkList([]*Component{small, big, same})
	assert.Equal(t, []*Component{big, small, same}, w.items)
}

func TestPickPrefersConnected(t *testing.T) {
	big := part("U1", Point{}, 5*mm, 1)
	small := part("R1", Point{}, mm, 1)
	tiny := part("R2", Point{}, mm/2, 1)
	for _, c := range []*Component{big, small, tiny} {
		c.NeedsPlacement = true
	}
	w := newWorkList([]*Component{small, tiny, big})

	conn := &stubConn{edges: map[*Component]int{small: 1, tiny: 10}}
	assert.Same(t, tiny, w.pick(conn), "area times edges decides")
	assert.ElementsMatch(t, []*Component{big, small, tiny}, conn.updated)

	tiny.NeedsPlacement = false
	assert.Same(t, small, w.pick(conn), "connected before unconnected")

	small.NeedsPlacement = false
	assert.Same(t, big, w.pick(conn), "falls back to the first pending")

	big.NeedsPlacement = false
	assert.Nil(t, w.pick(conn))
	assert.Zero(t, w.pending())
}
