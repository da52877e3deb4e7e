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
	"sort"
)

type MinisegState int

const (
	MINISEG_LOADED MinisegState = iota
	MINISEG_WORKING
	MINISEG_FINISHED
)

func (s MinisegState) String() string {
	switch s {
	case MINISEG_LOADED:
		return "Loaded"
	case MINISEG_WORKING:
		return "Working"
	}
	return "Finished"
}

// VertexSplitterTime is a vertex on the splitter's line, with its position
// along it
type VertexSplitterTime struct {
	Vertex VertexID
	Time   float64
}

// MinisegCreator walks the vertices that lie on the splitter line in order,
// and connects each pair of neighbours that is neither connected by a seg
// already nor separated by void. One pair per Execute call
type MinisegCreator struct {
	segAlloc   *SegmentAllocator
	classifier VoidClassifier

	state    MinisegState
	vertices []VertexSplitterTime
	cursor   int  // index of the first vertex of the next pair
	inVoid   bool // whether the last processed pair crossed void
	minisegs []SegmentID
}

func NewMinisegCreator(segAlloc *SegmentAllocator, classifier VoidClassifier) *MinisegCreator {
	return &MinisegCreator{
		segAlloc:   segAlloc,
		classifier: classifier,
		state:      MINISEG_FINISHED,
	}
}

// Load prepares the creator for a new splitter. Duplicate vertex ids are
// dropped, the rest are sorted by their time along the splitter (stable, so
// equal times keep the order they came in)
func (m *MinisegCreator) Load(splitter SegmentID, collinear []VertexID) {
	line := m.segAlloc.SegLine(splitter)
	verts := m.segAlloc.Vertices()
	seen := make(map[VertexID]bool, len(collinear))
	m.vertices = m.vertices[:0]
	for _, v := range collinear {
		if seen[v] {
			continue
		}
		seen[v] = true
		m.vertices = append(m.vertices, VertexSplitterTime{
			Vertex: v,
			Time:   line.Time(verts.Pos(v)),
		})
	}
	if len(m.vertices) < 2 {
		Log.Panic("MinisegCreator: splitter %d has %d distinct collinear vertices, need at least 2\n",
			splitter, len(m.vertices))
	}
	sort.SliceStable(m.vertices, func(i, j int) bool {
		return m.vertices[i].Time < m.vertices[j].Time
	})
	m.cursor = 0
	m.inVoid = false
	m.minisegs = nil
	m.state = MINISEG_LOADED
}

// Execute examines the next pair of adjacent vertices
func (m *MinisegCreator) Execute() {
	if m.state == MINISEG_FINISHED {
		Log.Panic("MinisegCreator: Execute called when already finished\n")
	}
	m.state = MINISEG_WORKING
	a := m.vertices[m.cursor].Vertex
	b := m.vertices[m.cursor+1].Vertex
	m.cursor++
	m.inVoid = false

	switch {
	case m.segAlloc.ContainsSegment(a, b):
		// some seg (a wall, or a miniseg made by a sibling) covers this
	case m.classifier.CheckCrossingVoid(a, b):
		m.inVoid = true
	default:
		m.minisegs = append(m.minisegs, m.segAlloc.GetOrCreateMiniseg(a, b).Segment)
	}

	if m.cursor >= len(m.vertices)-1 {
		m.state = MINISEG_FINISHED
	}
}

// Run executes until finished
func (m *MinisegCreator) Run() {
	for m.state != MINISEG_FINISHED {
		m.Execute()
	}
}

func (m *MinisegCreator) State() MinisegState {
	return m.state
}

// InVoid tells whether the pair processed by the last Execute was found to
// cross void
func (m *MinisegCreator) InVoid() bool {
	return m.inVoid
}

func (m *MinisegCreator) Minisegs() []SegmentID {
	return m.minisegs
}

// Vertices returns the sorted, deduplicated collinear vertices
func (m *MinisegCreator) Vertices() []VertexSplitterTime {
	return m.vertices
}
