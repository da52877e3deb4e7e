// Copyright (C) 2022-2025, VigilantDoomer
//
// This file is part of VigilantBSP program.
//
// VigilantBSP is free software: you can redistribute it
// and/or modify it under the terms of GNU General Public License
// as published by the Free Software Foundation, either version 2 of
// the License, or (at your option) any later version.
//
// VigilantBSP is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with VigilantBSP.  If not, see <https://www.gnu.org/licenses/>.

// convexity
package glnodes

type ConvexState int

const (
	CONVEX_LOADED ConvexState = iota
	CONVEX_WORKING
	CONVEX_SUBSECTOR  // closed convex loop, can become a subsector
	CONVEX_SPLITTABLE // not convex, needs a splitter
	CONVEX_DEGENERATE // closed loop with no area, or too few segs
)

func (s ConvexState) Finished() bool {
	return s >= CONVEX_SUBSECTOR
}

func (s ConvexState) String() string {
	switch s {
	case CONVEX_LOADED:
		return "Loaded"
	case CONVEX_WORKING:
		return "Working"
	case CONVEX_SUBSECTOR:
		return "Convex"
	case CONVEX_SPLITTABLE:
		return "Splittable"
	}
	return "Degenerate"
}

// ConvexChecker decides whether a seg set is a single closed convex loop.
// A set where some vertex is used by three or more segs (a junction), or by
// only one (a loose end), can't be a single loop and is splittable right
// away. Otherwise the loop is walked one seg per Execute call, watching that
// every turn goes the same way
type ConvexChecker struct {
	segAlloc *SegmentAllocator
	epsilon  float64

	state      ConvexState
	segs       []SegmentID
	vertexSegs map[VertexID][]SegmentID
	startSeg   SegmentID
	curSeg     SegmentID
	from       VertexID // where curSeg was entered
	pivot      VertexID // where curSeg is left
	rotation   Side     // SIDE_ON until the first real turn
	visited    int
	loop       []Edge
}

func NewConvexChecker(segAlloc *SegmentAllocator, epsilon float64) *ConvexChecker {
	return &ConvexChecker{
		segAlloc: segAlloc,
		epsilon:  epsilon,
		state:    CONVEX_DEGENERATE,
	}
}

func (c *ConvexChecker) Load(segs []SegmentID) {
	c.segs = segs
	c.loop = nil
	c.rotation = SIDE_ON
	c.visited = 0
	if len(segs) < 3 {
		c.state = CONVEX_DEGENERATE
		return
	}
	c.vertexSegs = make(map[VertexID][]SegmentID, len(segs))
	for _, id := range segs {
		seg := c.segAlloc.Segment(id)
		for _, v := range [2]VertexID{seg.Start, seg.End} {
			c.vertexSegs[v] = append(c.vertexSegs[v], id)
			if len(c.vertexSegs[v]) > 2 {
				c.state = CONVEX_SPLITTABLE
				return
			}
		}
	}
	for _, used := range c.vertexSegs {
		if len(used) == 1 {
			c.state = CONVEX_SPLITTABLE
			return
		}
	}

	first := c.segAlloc.Segment(segs[0])
	c.startSeg = first.ID
	c.curSeg = first.ID
	c.from = first.Start
	c.pivot = first.End
	c.loop = append(c.loop, Edge{Segment: first.ID, Start: first.Start, End: first.End})
	c.visited = 1
	c.state = CONVEX_LOADED
}

func (c *ConvexChecker) Execute() {
	if c.state.Finished() {
		Log.Panic("ConvexChecker: Execute called when already finished\n")
	}
	c.state = CONVEX_WORKING

	pair := c.vertexSegs[c.pivot]
	next := pair[0]
	if next == c.curSeg {
		next = pair[1]
	}
	nextSeg := c.segAlloc.Segment(next)
	third := nextSeg.Opposite(c.pivot)

	verts := c.segAlloc.Vertices()
	rot := Rotation(verts.Pos(c.from), verts.Pos(c.pivot), verts.Pos(third), c.epsilon)
	if rot != SIDE_ON {
		if c.rotation == SIDE_ON {
			c.rotation = rot
		} else if rot != c.rotation {
			c.state = CONVEX_SPLITTABLE
			return
		}
	}

	if next == c.startSeg {
		switch {
		case c.visited != len(c.segs):
			// more than one loop
			c.state = CONVEX_SPLITTABLE
		case c.rotation == SIDE_ON:
			c.state = CONVEX_DEGENERATE
		default:
			c.finishLoop()
			c.state = CONVEX_SUBSECTOR
		}
		return
	}

	c.loop = append(c.loop, Edge{Segment: next, Start: c.pivot, End: third})
	c.visited++
	c.from = c.pivot
	c.pivot = third
	c.curSeg = next
}

func (c *ConvexChecker) Run() {
	for !c.state.Finished() {
		c.Execute()
	}
}

// finishLoop makes the loop go clockwise, so that its interior is on the
// right of every edge, same as the front of every wall facing it
func (c *ConvexChecker) finishLoop() {
	if c.rotation != SIDE_LEFT {
		return
	}
	n := len(c.loop)
	rev := make([]Edge, n)
	for i, e := range c.loop {
		rev[n-1-i] = Edge{Segment: e.Segment, Start: e.End, End: e.Start}
	}
	c.loop = rev
}

func (c *ConvexChecker) State() ConvexState {
	return c.state
}

// Loop returns the clockwise edge loop when the state is CONVEX_SUBSECTOR
func (c *ConvexChecker) Loop() []Edge {
	if c.state != CONVEX_SUBSECTOR {
		Log.Panic("ConvexChecker: Loop requested in state %s\n", c.state)
	}
	return c.loop
}
