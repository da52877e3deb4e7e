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

	"github.com/go-gl/mathgl/mgl64"
)

// Side of a directed line a point (or seg) is on. Doom puts the front of a
// linedef on the right, so does everything here
type Side int

const (
	SIDE_ON Side = iota
	SIDE_RIGHT
	SIDE_LEFT
)

func (s Side) String() string {
	switch s {
	case SIDE_RIGHT:
		return "right"
	case SIDE_LEFT:
		return "left"
	}
	return "on"
}

// Line is a directed line through Start in direction Delta (not normalized)
type Line struct {
	Start mgl64.Vec2
	Delta mgl64.Vec2
}

func LineFromPoints(a, b mgl64.Vec2) Line {
	return Line{Start: a, Delta: b.Sub(a)}
}

func (l Line) End() mgl64.Vec2 {
	return l.Start.Add(l.Delta)
}

// PerpDistance is the signed distance from p to the line. Negative means
// right side, positive means left
func (l Line) PerpDistance(p mgl64.Vec2) float64 {
	cross := l.Delta[0]*(p[1]-l.Start[1]) - l.Delta[1]*(p[0]-l.Start[0])
	return cross / l.Delta.Len()
}

func (l Line) SideOf(p mgl64.Vec2, epsilon float64) Side {
	return sideFromDistance(l.PerpDistance(p), epsilon)
}

func sideFromDistance(d, epsilon float64) Side {
	if math.Abs(d) <= epsilon {
		return SIDE_ON
	}
	if d < 0 {
		return SIDE_RIGHT
	}
	return SIDE_LEFT
}

// Time is the parametric position of p projected onto the line: 0 at Start,
// 1 at End
func (l Line) Time(p mgl64.Vec2) float64 {
	return p.Sub(l.Start).Dot(l.Delta) / l.Delta.Dot(l.Delta)
}

func (l Line) FromTime(t float64) mgl64.Vec2 {
	return l.Start.Add(l.Delta.Mul(t))
}

// AxisAligned reports whether the line is horizontal or vertical
func (l Line) AxisAligned() bool {
	return l.Delta[0] == 0 || l.Delta[1] == 0
}

// SameDirection reports whether the two lines point the same way (assuming
// they are collinear)
func (l Line) SameDirection(o Line) bool {
	return l.Delta.Dot(o.Delta) > 0
}

// Rotation of the turn a -> b -> c, as in: standing at b having arrived from
// a, is c to the right, to the left or straight ahead (or behind)
func Rotation(a, b, c mgl64.Vec2, epsilon float64) Side {
	return LineFromPoints(a, b).SideOf(c, epsilon)
}

// BoundingBox is a float box. Empty box has Min > Max
type BoundingBox struct {
	Min mgl64.Vec2
	Max mgl64.Vec2
}

func EmptyBox() BoundingBox {
	return BoundingBox{
		Min: mgl64.Vec2{math.Inf(1), math.Inf(1)},
		Max: mgl64.Vec2{math.Inf(-1), math.Inf(-1)},
	}
}

func (b *BoundingBox) AddPoint(p mgl64.Vec2) {
	b.Min[0] = math.Min(b.Min[0], p[0])
	b.Min[1] = math.Min(b.Min[1], p[1])
	b.Max[0] = math.Max(b.Max[0], p[0])
	b.Max[1] = math.Max(b.Max[1], p[1])
}

func (b BoundingBox) Contains(p mgl64.Vec2) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1]
}

func (b BoundingBox) Empty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1]
}
