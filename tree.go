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
package glnodes

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

type ChildKind uint8

const (
	CHILD_NODE ChildKind = iota
	CHILD_SUBSECTOR
)

// Child references either a node or a subsector of the same tree. Lumps use
// a high bit for this, in memory it's spelled out
type Child struct {
	Kind  ChildKind
	Index int
}

func NodeChild(idx int) Child {
	return Child{Kind: CHILD_NODE, Index: idx}
}

func SubsectorChild(idx int) Child {
	return Child{Kind: CHILD_SUBSECTOR, Index: idx}
}

func (c Child) IsSubsector() bool {
	return c.Kind == CHILD_SUBSECTOR
}

func (c Child) String() string {
	if c.IsSubsector() {
		return fmt.Sprintf("subsector %d", c.Index)
	}
	return fmt.Sprintf("node %d", c.Index)
}

// Node divides space along the line of its splitter seg, front (right) side
// going to Right
type Node struct {
	Splitter SegmentID
	RightBox BoundingBox
	LeftBox  BoundingBox
	Right    Child
	Left     Child
}

// Subsector is a convex area: a clockwise closed loop of edges, all of them
// facing inside
type Subsector struct {
	Edges  []Edge
	Sector int
}

// Tree is a finished build. Nodes are stored children first, so the root
// node is the last one. If the map needed no splitting at all, there are no
// nodes and Root is the only subsector
type Tree struct {
	Nodes      []Node
	Subsectors []Subsector
	Root       Child
	Vertices   *VertexAllocator
	Segments   *SegmentAllocator
}

// SplitterLine returns the partition line of a node
func (t *Tree) SplitterLine(n int) Line {
	return t.Segments.SegLine(t.Nodes[n].Splitter)
}

// FindSubsector walks the tree down to the subsector containing p. Points on
// a partition line go right
func (t *Tree) FindSubsector(p mgl64.Vec2) int {
	cur := t.Root
	for !cur.IsSubsector() {
		node := &t.Nodes[cur.Index]
		if t.SplitterLine(cur.Index).PerpDistance(p) > 0 {
			cur = node.Left
		} else {
			cur = node.Right
		}
	}
	return cur.Index
}

// Height is the number of nodes on the longest path from root to a subsector
func (t *Tree) Height() int {
	return t.heightOf(t.Root)
}

func (t *Tree) heightOf(c Child) int {
	if c.IsSubsector() {
		return 0
	}
	node := &t.Nodes[c.Index]
	lHeight := t.heightOf(node.Left)
	rHeight := t.heightOf(node.Right)
	if lHeight < rHeight {
		return rHeight + 1
	}
	return lHeight + 1
}

// MinisegCount counts distinct minisegs referenced by subsectors
func (t *Tree) MinisegCount() int {
	seen := make(map[SegmentID]bool)
	for _, ss := range t.Subsectors {
		for _, e := range ss.Edges {
			if t.Segments.Segment(e.Segment).IsMiniseg() {
				seen[e.Segment] = true
			}
		}
	}
	return len(seen)
}

// Polygon returns positions of subsector corners, clockwise
func (t *Tree) Polygon(ss int) []mgl64.Vec2 {
	edges := t.Subsectors[ss].Edges
	pts := make([]mgl64.Vec2, 0, len(edges))
	for _, e := range edges {
		pts = append(pts, t.Vertices.Pos(e.Start))
	}
	return pts
}

// Area of a subsector, positive for a clockwise loop
func (t *Tree) Area(ss int) float64 {
	pts := t.Polygon(ss)
	area := 0.0
	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		area += a[0]*b[1] - b[0]*a[1]
	}
	return -area / 2
}
