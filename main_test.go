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
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

var pillarGridWalls []Wall

func TestMain(m *testing.M) {
	Log = CreateLogger(VERBOSE_NONE, "")
	pillarGridWalls = setupPillarGrid(6)
	m.Run()
}

// setupPillarGrid makes a square room with n*n square pillars in it
func setupPillarGrid(n int) []Wall {
	size := float64(8 * n)
	walls := Rect(0, 0, size, size, 0)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x := float64(8*i + 3)
			y := float64(8*j + 3)
			walls = append(walls, pillar(x, y, x+2, y+2, 0)...)
		}
	}
	return walls
}

func v2(x, y float64) mgl64.Vec2 {
	return mgl64.Vec2{x, y}
}

// pillar returns walls of a square column facing outside, into sector
func pillar(x1, y1, x2, y2 float64, sector int) []Wall {
	return Polygon([]mgl64.Vec2{v2(x1, y1), v2(x2, y1), v2(x2, y2), v2(x1, y2)}, sector)
}

// rotatedPillar is a square column of side 2*half centered at (cx, cy),
// turned by angle radians, with walls facing outside
func rotatedPillar(cx, cy, half, angle float64, sector int) []Wall {
	pts := make([]mgl64.Vec2, 4)
	for i := range pts {
		a := angle + math.Pi/4 + float64(i)*math.Pi/2
		r := half * math.Sqrt2
		pts[i] = v2(cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
	return Polygon(pts, sector)
}

// rotatedPillarGrid makes a 40x40 room with n*n pillars of side 6, pillar k
// turned by (seed+k)*0.37 radians
func rotatedPillarGrid(n, seed int) []Wall {
	walls := Rect(0, 0, 40, 40, 0)
	step := 40 / float64(n)
	k := 0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			cx := step * (float64(i) + 0.5)
			cy := step * (float64(j) + 0.5)
			walls = append(walls, rotatedPillar(cx, cy, 3, float64(seed+k)*0.37, 0)...)
			k++
		}
	}
	return walls
}

// starPoints is a five-pointed star around (cx, cy), clockwise
func starPoints(cx, cy, outer, inner float64) []mgl64.Vec2 {
	pts := make([]mgl64.Vec2, 10)
	for i := range pts {
		a := math.Pi/2 - float64(i)*math.Pi/5
		r := outer
		if i%2 == 1 {
			r = inner
		}
		pts[i] = v2(cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
	return pts
}

// polygonArea is the area enclosed by a clockwise polygon
func polygonArea(pts []mgl64.Vec2) float64 {
	area := 0.0
	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		area += a[0]*b[1] - b[0]*a[1]
	}
	return -area / 2
}

// lRoomWalls: 2x2 square with the top right quarter cut out
func lRoomWalls() []Wall {
	return Polygon([]mgl64.Vec2{
		v2(0, 0), v2(0, 2), v2(1, 2), v2(1, 1), v2(2, 1), v2(2, 0),
	}, 0)
}

// uRoomWalls: 3x3 square with a 1x2 notch cut into the top middle
func uRoomWalls() []Wall {
	return Polygon([]mgl64.Vec2{
		v2(0, 0), v2(0, 3), v2(1, 3), v2(1, 1),
		v2(2, 1), v2(2, 3), v2(3, 3), v2(3, 0),
	}, 0)
}

// twoSectorWalls: 4x2 room split in the middle by a two-sided wall, sector 0
// to the west of it and sector 1 to the east
func twoSectorWalls() []Wall {
	walls := []Wall{
		{Start: v2(0, 0), End: v2(0, 2), Front: 0, Back: NO_SECTOR},
		{Start: v2(0, 2), End: v2(2, 2), Front: 0, Back: NO_SECTOR},
		{Start: v2(2, 0), End: v2(0, 0), Front: 0, Back: NO_SECTOR},
		{Start: v2(2, 2), End: v2(4, 2), Front: 1, Back: NO_SECTOR},
		{Start: v2(4, 2), End: v2(4, 0), Front: 1, Back: NO_SECTOR},
		{Start: v2(4, 0), End: v2(2, 0), Front: 1, Back: NO_SECTOR},
		{Start: v2(2, 2), End: v2(2, 0), Front: 0, Back: 1},
	}
	return walls
}

func mustBuild(t *testing.T, walls []Wall) *Tree {
	t.Helper()
	tree, err := BuildNodes(walls, nil)
	if err != nil {
		t.Fatalf("Build failed: %s\n", err.Error())
	}
	return tree
}

// checkSubsectorLoops verifies every subsector is a closed clockwise convex
// loop whose walls face inside
func checkSubsectorLoops(t *testing.T, tree *Tree) {
	t.Helper()
	eps := tree.Vertices.Epsilon()
	for i, ss := range tree.Subsectors {
		n := len(ss.Edges)
		if n < 3 {
			t.Errorf("Subsector %d has only %d edges\n", i, n)
			continue
		}
		for j, e := range ss.Edges {
			next := ss.Edges[(j+1)%n]
			if e.End != next.Start {
				t.Errorf("Subsector %d is not closed: edge %d ends at %d, edge %d starts at %d\n",
					i, j, e.End, (j+1)%n, next.Start)
			}
			seg := tree.Segments.Segment(e.Segment)
			if !(seg.Start == e.Start && seg.End == e.End) &&
				!(seg.Start == e.End && seg.End == e.Start) {
				t.Errorf("Subsector %d edge %d doesn't match seg %d\n", i, j, e.Segment)
			}
			if seg.OneSided() && seg.Start != e.Start {
				t.Errorf("Subsector %d: one-sided wall %d faces outside\n", i, seg.Line)
			}
			rot := Rotation(tree.Vertices.Pos(e.Start), tree.Vertices.Pos(e.End),
				tree.Vertices.Pos(next.End), eps)
			if rot == SIDE_LEFT {
				t.Errorf("Subsector %d is not convex (or not clockwise) at vertex %d\n",
					i, e.End)
			}
		}
		if tree.Area(i) <= 0 {
			t.Errorf("Subsector %d has non-positive area %v\n", i, tree.Area(i))
		}
	}
}

func checkCoverage(t *testing.T, tree *Tree, want float64) {
	t.Helper()
	got := 0.0
	for i := range tree.Subsectors {
		got += tree.Area(i)
	}
	if math.Abs(got-want) > 1e-6*math.Max(1, want) {
		t.Errorf("Subsectors cover area %v, want %v\n", got, want)
	}
}

// checkWallsCovered verifies every wall contributes to some subsector, and
// nothing else but walls and minisegs does
func checkWallsCovered(t *testing.T, tree *Tree, numWalls int) {
	t.Helper()
	seen := make(map[int]bool)
	for _, ss := range tree.Subsectors {
		for _, e := range ss.Edges {
			seg := tree.Segments.Segment(e.Segment)
			if seg.IsMiniseg() {
				continue
			}
			if seg.Line < 0 || seg.Line >= numWalls {
				t.Errorf("Edge references unknown wall %d\n", seg.Line)
			}
			seen[seg.Line] = true
		}
	}
	for i := 0; i < numWalls; i++ {
		if !seen[i] {
			t.Errorf("Wall %d is not part of any subsector\n", i)
		}
	}
}

func BenchmarkBuildNodesPillarGrid(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := BuildNodes(pillarGridWalls, nil); err != nil {
			b.Fatalf("Build failed: %s\n", err.Error())
		}
	}
}
