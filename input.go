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
	"github.com/go-gl/mathgl/mgl64"
)

// Wall is what the builder is fed with: a linedef as far as nodes are
// concerned. Front sector is on the right of Start->End, Back is NO_SECTOR for
// one-sided walls
type Wall struct {
	Start mgl64.Vec2
	End   mgl64.Vec2
	Front int
	Back  int
}

// loadWalls turns walls into segs. Wall i becomes seg with Line = i. Walls
// that collapse into a point after welding, or that duplicate a previous
// wall, are rejected
func loadWalls(walls []Wall, segAlloc *SegmentAllocator) ([]SegmentID, error) {
	verts := segAlloc.Vertices()
	segs := make([]SegmentID, 0, len(walls))
	for i, wall := range walls {
		if wall.Front < 0 {
			return nil, degenerateWalls("wall has no front sector", i)
		}
		back := wall.Back
		if back < 0 {
			back = NO_SECTOR
		}
		start := verts.GetOrCreateVertex(wall.Start)
		end := verts.GetOrCreateVertex(wall.End)
		if start == end {
			return nil, degenerateWalls("wall has zero length", i)
		}
		if existing, ok := segAlloc.Lookup(start, end); ok {
			return nil, degenerateWalls("duplicate wall",
				segAlloc.Segment(existing).Line, i)
		}
		e := segAlloc.GetOrCreateSegment(start, end, SegmentMeta{
			Line:  i,
			Front: wall.Front,
			Back:  back,
		})
		segs = append(segs, e.Segment)
	}
	return segs, nil
}

// Rect returns four one-sided walls of an axis-aligned room facing inside,
// clockwise from the bottom left corner
func Rect(x1, y1, x2, y2 float64, sector int) []Wall {
	a := mgl64.Vec2{x1, y1}
	b := mgl64.Vec2{x1, y2}
	c := mgl64.Vec2{x2, y2}
	d := mgl64.Vec2{x2, y1}
	return Polygon([]mgl64.Vec2{a, b, c, d}, sector)
}

// Polygon returns one-sided walls going through points in order, closing the
// loop. For the walls to face inside, points must go clockwise; to face
// outside (a pillar), counter-clockwise
func Polygon(points []mgl64.Vec2, sector int) []Wall {
	walls := make([]Wall, 0, len(points))
	for i := range points {
		walls = append(walls, Wall{
			Start: points[i],
			End:   points[(i+1)%len(points)],
			Front: sector,
			Back:  NO_SECTOR,
		})
	}
	return walls
}
