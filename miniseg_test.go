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

// miniseg_test.go
package glnodes

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// voidStub declares void whatever pairs it was told to
type voidStub struct {
	void map[segKey]bool
}

func (s *voidStub) CheckCrossingVoid(a, b VertexID) bool {
	return s.void[makeSegKey(a, b)]
}

// setupCollinear makes vertices at x = 0..n-1 on the x axis
func setupCollinear(n int) (*SegmentAllocator, []VertexID) {
	vm := NewVertexAllocator(VERTEX_WELDING_EPSILON)
	sa := NewSegmentAllocator(vm)
	ids := make([]VertexID, n)
	for i := range ids {
		ids[i] = vm.GetOrCreateVertex(v2(float64(i), 0))
	}
	return sa, ids
}

func TestMinisegCreatorPairs(t *testing.T) {
	sa, v := setupCollinear(5)
	wall := SegmentMeta{Line: 0, Front: 0, Back: NO_SECTOR}
	splitter := sa.GetOrCreateSegment(v[0], v[1], wall).Segment
	sa.GetOrCreateSegment(v[3], v[4], SegmentMeta{Line: 1, Front: 0, Back: NO_SECTOR})
	stub := &voidStub{void: map[segKey]bool{makeSegKey(v[2], v[3]): true}}

	mc := NewMinisegCreator(sa, stub)
	if mc.State() != MINISEG_FINISHED {
		t.Fatalf("New creator must start finished, got %s\n", mc.State())
	}
	mc.Load(splitter, []VertexID{v[3], v[0], v[4], v[1], v[3], v[2], v[0]})
	if mc.State() != MINISEG_LOADED {
		t.Fatalf("Expected Loaded, got %s\n", mc.State())
	}
	want := []VertexSplitterTime{
		{v[0], 0}, {v[1], 1}, {v[2], 2}, {v[3], 3}, {v[4], 4},
	}
	if diff := cmp.Diff(want, mc.Vertices()); diff != "" {
		t.Errorf("Collinear vertices not deduplicated and sorted (-want +got):\n%s", diff)
	}

	type step struct {
		state    MinisegState
		inVoid   bool
		minisegs int
	}
	wantSteps := []step{
		{MINISEG_WORKING, false, 0},  // v0-v1 is a wall
		{MINISEG_WORKING, false, 1},  // v1-v2 is free
		{MINISEG_WORKING, true, 1},   // v2-v3 is void
		{MINISEG_FINISHED, false, 1}, // v3-v4 is a wall
	}
	for i, w := range wantSteps {
		mc.Execute()
		got := step{mc.State(), mc.InVoid(), len(mc.Minisegs())}
		if got != w {
			t.Errorf("Step %d: got %+v, want %+v\n", i, got, w)
		}
	}

	mini := sa.Segment(mc.Minisegs()[0])
	if !mini.IsMiniseg() || makeSegKey(mini.Start, mini.End) != makeSegKey(v[1], v[2]) {
		t.Errorf("Expected a miniseg between v1 and v2, got %+v\n", mini)
	}
	if sa.Len() != 3 {
		t.Errorf("Expected 2 walls and 1 miniseg, have %d segs\n", sa.Len())
	}
}

func TestMinisegCreatorTwoVertices(t *testing.T) {
	sa, v := setupCollinear(2)
	splitter := sa.GetOrCreateMiniseg(v[0], v[1]).Segment
	mc := NewMinisegCreator(sa, &voidStub{})
	mc.Load(splitter, []VertexID{v[1], v[0]})
	mc.Execute()
	if mc.State() != MINISEG_FINISHED {
		t.Errorf("One pair must take one step, state is %s\n", mc.State())
	}
	if len(mc.Minisegs()) != 0 {
		t.Errorf("Existing seg was duplicated\n")
	}
}

func TestMinisegCreatorReverseSplitter(t *testing.T) {
	sa, v := setupCollinear(3)
	// Splitter runs towards -x, so times grow with decreasing x
	splitter := sa.GetOrCreateSegment(v[2], v[1],
		SegmentMeta{Line: 0, Front: 0, Back: NO_SECTOR}).Segment
	mc := NewMinisegCreator(sa, &voidStub{})
	mc.Load(splitter, []VertexID{v[0], v[1], v[2]})
	got := []VertexID{}
	for _, vt := range mc.Vertices() {
		got = append(got, vt.Vertex)
	}
	if diff := cmp.Diff([]VertexID{v[2], v[1], v[0]}, got); diff != "" {
		t.Errorf("Wrong order along splitter (-want +got):\n%s", diff)
	}
	mc.Run()
	if len(mc.Minisegs()) != 1 {
		t.Errorf("Expected 1 miniseg, got %d\n", len(mc.Minisegs()))
	}
}

func TestMinisegCreatorMisusePanics(t *testing.T) {
	sa, v := setupCollinear(3)
	splitter := sa.GetOrCreateMiniseg(v[0], v[2]).Segment
	tests := []struct {
		name string
		fn   func(mc *MinisegCreator)
	}{
		{"execute when finished", func(mc *MinisegCreator) {
			mc.Load(splitter, []VertexID{v[0], v[1]})
			mc.Run()
			mc.Execute()
		}},
		{"execute without load", func(mc *MinisegCreator) {
			mc.Execute()
		}},
		{"single distinct vertex", func(mc *MinisegCreator) {
			mc.Load(splitter, []VertexID{v[0], v[0]})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Expected panic\n")
				}
			}()
			tt.fn(NewMinisegCreator(sa, &voidStub{}))
		})
	}
}
