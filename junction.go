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
	"math"
	"sort"
)

const JUNCTION_ANGLE_EPSILON = 1e-9

// VoidClassifier tells whether a straight path between two vertices leaves
// the map. MinisegCreator only needs this much from JunctionClassifier
type VoidClassifier interface {
	CheckCrossingVoid(a, b VertexID) bool
}

// wallRay is a wall seen from one of its endpoints, pointing away from it
type wallRay struct {
	angle      float64 // [0, 2*Pi)
	rightSolid bool    // sector to the right of the ray
	leftSolid  bool    // sector to the left of the ray
	seg        SegmentID
}

func (r wallRay) hasSector() bool {
	return r.rightSolid || r.leftSolid
}

// JunctionClassifier knows which walls meet at each vertex, and so which
// angular wedges around that vertex are inside the map and which are void.
// Walls are registered up front, and split walls have their halves registered
// as they appear. Minisegs are never registered
type JunctionClassifier struct {
	segAlloc *SegmentAllocator
	walls    map[VertexID][]SegmentID
	interior map[VertexID]bool // made by cutting minisegs, no walls there
}

func NewJunctionClassifier(segAlloc *SegmentAllocator) *JunctionClassifier {
	return &JunctionClassifier{
		segAlloc: segAlloc,
		walls:    make(map[VertexID][]SegmentID),
		interior: make(map[VertexID]bool),
	}
}

func (c *JunctionClassifier) AddWall(id SegmentID) {
	seg := c.segAlloc.Segment(id)
	if seg.IsMiniseg() {
		return
	}
	c.addAt(seg.Start, id)
	c.addAt(seg.End, id)
}

func (c *JunctionClassifier) addAt(v VertexID, id SegmentID) {
	for _, known := range c.walls[v] {
		if known == id {
			return
		}
	}
	c.walls[v] = append(c.walls[v], id)
}

// AddSplit registers the halves of a split wall. The original keeps its
// registration at its endpoints, where it coincides with the halves anyway.
// A cut miniseg leaves a vertex in the middle of open space instead
func (c *JunctionClassifier) AddSplit(original, first, second SegmentID) {
	if c.segAlloc.Segment(original).IsMiniseg() {
		a, b := c.segAlloc.Segment(first), c.segAlloc.Segment(second)
		mid := a.End
		if mid != b.Start && mid != b.End {
			mid = a.Start
		}
		c.AddInteriorSplit(mid)
		return
	}
	c.AddWall(first)
	c.AddWall(second)
}

// AddInteriorSplit marks v as lying inside the map with nothing around it, so
// that every direction from it is open. Walls registered at v later take
// precedence
func (c *JunctionClassifier) AddInteriorSplit(v VertexID) {
	c.interior[v] = true
}

// WallsAt returns walls known to meet at vertex v
func (c *JunctionClassifier) WallsAt(v VertexID) []SegmentID {
	return c.walls[v]
}

// CheckCrossingVoid reports whether going from a to b in a straight line
// leaves the map at either end
func (c *JunctionClassifier) CheckCrossingVoid(a, b VertexID) bool {
	if a == b {
		Log.Panic("CheckCrossingVoid: both ends are vertex %d\n", a)
	}
	return c.voidToward(a, b) || c.voidToward(b, a)
}

func (c *JunctionClassifier) voidToward(v, target VertexID) bool {
	rays := c.rays(v)
	if len(rays) == 0 {
		// nothing known here, so nothing encloses it
		return !c.interior[v]
	}
	verts := c.segAlloc.Vertices()
	theta := angleOf(verts.Pos(target).Sub(verts.Pos(v)))

	// Going along a wall is not crossing anything
	for _, r := range rays {
		if angleDiff(theta, r.angle) <= JUNCTION_ANGLE_EPSILON && r.hasSector() {
			return false
		}
	}

	// prev is the last ray clockwise-before theta, its left side faces the
	// wedge theta is in; next is the first ray after, its right side faces
	// the same wedge
	prev := len(rays) - 1
	for i, r := range rays {
		if r.angle < theta {
			prev = i
		} else {
			break
		}
	}
	next := (prev + 1) % len(rays)
	return !(rays[prev].leftSolid && rays[next].rightSolid)
}

// rays returns walls at v sorted counter-clockwise, sectored rays first when
// angles are equal
func (c *JunctionClassifier) rays(v VertexID) []wallRay {
	verts := c.segAlloc.Vertices()
	origin := verts.Pos(v)
	ids := c.walls[v]
	rays := make([]wallRay, 0, len(ids))
	for _, id := range ids {
		seg := c.segAlloc.Segment(id)
		r := wallRay{
			angle: angleOf(verts.Pos(seg.Opposite(v)).Sub(origin)),
			seg:   id,
		}
		if seg.Start == v {
			r.rightSolid = seg.Front != NO_SECTOR
			r.leftSolid = seg.Back != NO_SECTOR
		} else {
			// looking from the end, sides swap
			r.rightSolid = seg.Back != NO_SECTOR
			r.leftSolid = seg.Front != NO_SECTOR
		}
		rays = append(rays, r)
	}
	sort.SliceStable(rays, func(i, j int) bool {
		if rays[i].angle != rays[j].angle {
			return rays[i].angle < rays[j].angle
		}
		return rays[i].hasSector() && !rays[j].hasSector()
	})
	return rays
}

func angleOf(d [2]float64) float64 {
	a := math.Atan2(d[1], d[0])
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

func angleDiff(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}
