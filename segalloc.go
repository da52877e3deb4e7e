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

const (
	NO_SECTOR    = -1
	MINISEG_LINE = -1
)

type SegmentID int

// Segment is a seg as the builder sees it: an edge between two welded
// vertices, with the wall it came from (if any) and sectors on its sides.
// Front sector is to the right of Start->End
type Segment struct {
	ID    SegmentID
	Start VertexID
	End   VertexID
	Line  int // index of input wall, MINISEG_LINE for minisegs
	Front int
	Back  int
}

func (s Segment) IsMiniseg() bool {
	return s.Line == MINISEG_LINE
}

func (s Segment) OneSided() bool {
	return !s.IsMiniseg() && s.Back == NO_SECTOR
}

func (s Segment) TwoSided() bool {
	return !s.IsMiniseg() && s.Back != NO_SECTOR
}

// Opposite returns the endpoint that is not v. v must be an endpoint
func (s Segment) Opposite(v VertexID) VertexID {
	if s.Start == v {
		return s.End
	}
	return s.Start
}

// SegmentMeta is what a seg inherits from the wall it was made from
type SegmentMeta struct {
	Line  int
	Front int
	Back  int
}

var minisegMeta = SegmentMeta{Line: MINISEG_LINE, Front: NO_SECTOR, Back: NO_SECTOR}

func (s Segment) Meta() SegmentMeta {
	return SegmentMeta{Line: s.Line, Front: s.Front, Back: s.Back}
}

// Edge is a seg traversed in a particular direction, which may be opposite
// to the direction the seg was created with
type Edge struct {
	Segment SegmentID
	Start   VertexID
	End     VertexID
}

// Reversed tells whether the edge runs against its seg
func (e Edge) Reversed(segAlloc *SegmentAllocator) bool {
	return segAlloc.Segment(e.Segment).Start != e.Start
}

type segKey struct {
	lo, hi VertexID
}

func makeSegKey(a, b VertexID) segKey {
	if a > b {
		a, b = b, a
	}
	return segKey{lo: a, hi: b}
}

// SegmentAllocator owns every seg of a build. There is at most one seg per
// unordered pair of vertices
type SegmentAllocator struct {
	vertices *VertexAllocator
	segs     []Segment
	table    map[segKey]SegmentID
}

func NewSegmentAllocator(vertices *VertexAllocator) *SegmentAllocator {
	return &SegmentAllocator{
		vertices: vertices,
		table:    make(map[segKey]SegmentID),
	}
}

// GetOrCreateSegment returns the seg between start and end, creating it with
// the given metadata if it doesn't exist yet. The returned edge always runs
// start->end, even if an existing seg runs the other way
func (a *SegmentAllocator) GetOrCreateSegment(start, end VertexID, meta SegmentMeta) Edge {
	if start == end {
		Log.Panic("GetOrCreateSegment: seg would have zero length (vertex %d)\n", start)
	}
	key := makeSegKey(start, end)
	if id, ok := a.table[key]; ok {
		return Edge{Segment: id, Start: start, End: end}
	}
	id := SegmentID(len(a.segs))
	a.segs = append(a.segs, Segment{
		ID:    id,
		Start: start,
		End:   end,
		Line:  meta.Line,
		Front: meta.Front,
		Back:  meta.Back,
	})
	a.table[key] = id
	return Edge{Segment: id, Start: start, End: end}
}

func (a *SegmentAllocator) GetOrCreateMiniseg(start, end VertexID) Edge {
	return a.GetOrCreateSegment(start, end, minisegMeta)
}

// ContainsSegment does not care about the order of vertices
func (a *SegmentAllocator) ContainsSegment(v1, v2 VertexID) bool {
	_, ok := a.table[makeSegKey(v1, v2)]
	return ok
}

func (a *SegmentAllocator) Lookup(v1, v2 VertexID) (SegmentID, bool) {
	id, ok := a.table[makeSegKey(v1, v2)]
	return id, ok
}

// Split cuts the seg at parametric time t, 0 < t < 1 exclusive. Both halves
// inherit the metadata and the direction of the original, which stays in the
// allocator untouched
func (a *SegmentAllocator) Split(id SegmentID, t float64) (first, second SegmentID, middle VertexID) {
	if t <= 0 || t >= 1 {
		Log.Panic("Split: time %v is not strictly inside seg %d\n", t, id)
	}
	seg := a.Segment(id)
	middle = a.vertices.GetOrCreateVertex(a.SegLine(id).FromTime(t))
	if middle == seg.Start || middle == seg.End {
		Log.Panic("Split: seg %d split at %v welded onto its own endpoint\n", id, t)
	}
	first = a.GetOrCreateSegment(seg.Start, middle, seg.Meta()).Segment
	second = a.GetOrCreateSegment(middle, seg.End, seg.Meta()).Segment
	return first, second, middle
}

func (a *SegmentAllocator) Segment(id SegmentID) Segment {
	if id < 0 || int(id) >= len(a.segs) {
		Log.Panic("SegmentAllocator: no such seg %d (have %d)\n", id, len(a.segs))
	}
	return a.segs[id]
}

// SegLine is the directed line along the seg, Start -> End
func (a *SegmentAllocator) SegLine(id SegmentID) Line {
	seg := a.Segment(id)
	return LineFromPoints(a.vertices.Pos(seg.Start), a.vertices.Pos(seg.End))
}

func (a *SegmentAllocator) Len() int {
	return len(a.segs)
}

func (a *SegmentAllocator) Vertices() *VertexAllocator {
	return a.vertices
}
