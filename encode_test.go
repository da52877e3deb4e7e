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

// encode_test.go
package glnodes

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/encoding/protowire"
)

func allSegments(sa *SegmentAllocator) []Segment {
	segs := make([]Segment, sa.Len())
	for i := range segs {
		segs[i] = sa.Segment(SegmentID(i))
	}
	return segs
}

func TestMarshalRoundTrip(t *testing.T) {
	walls := append(Rect(0, 0, 4, 4, 0), pillar(1, 1, 3, 3, 0)...)
	for _, tree := range []*Tree{mustBuild(t, walls), mustBuild(t, Rect(0, 0, 2, 2, 5))} {
		got, err := UnmarshalTree(tree.Marshal())
		if err != nil {
			t.Fatalf("UnmarshalTree failed: %s\n", err.Error())
		}
		if diff := cmp.Diff(tree.Nodes, got.Nodes); diff != "" {
			t.Errorf("Nodes mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(tree.Subsectors, got.Subsectors); diff != "" {
			t.Errorf("Subsectors mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(tree.Root, got.Root); diff != "" {
			t.Errorf("Root mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(tree.Vertices.Vertices(), got.Vertices.Vertices()); diff != "" {
			t.Errorf("Vertices mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(allSegments(tree.Segments), allSegments(got.Segments)); diff != "" {
			t.Errorf("Segments mismatch (-want +got):\n%s", diff)
		}
		if got.Vertices.Epsilon() != tree.Vertices.Epsilon() {
			t.Errorf("Epsilon %v, want %v\n", got.Vertices.Epsilon(), tree.Vertices.Epsilon())
		}
		// Decoded tree is as usable as the original
		checkSubsectorLoops(t, got)
		if want, ss := tree.FindSubsector(v2(0.5, 0.5)), got.FindSubsector(v2(0.5, 0.5)); ss != want {
			t.Errorf("Decoded tree locates (0.5, 0.5) in subsector %d, original in %d\n", ss, want)
		}
	}
}

func TestPackChild(t *testing.T) {
	if v := packChild(SubsectorChild(3)); v != uint64(SSECTOR_GL_MASK|3) {
		t.Errorf("Subsector 3 packed as %x\n", v)
	}
	if v := packChild(NodeChild(3)); v != 3 {
		t.Errorf("Node 3 packed as %x\n", v)
	}
	for _, c := range []Child{SubsectorChild(0), NodeChild(0), SubsectorChild(12345)} {
		if got := unpackChild(packChild(c)); got != c {
			t.Errorf("%s came back as %s\n", c, got)
		}
	}
}

func TestUnmarshalTreeRejectsBadData(t *testing.T) {
	walls := append(Rect(0, 0, 4, 4, 0), pillar(1, 1, 3, 3, 0)...)
	good := mustBuild(t, walls).Marshal()

	badRoot := mustBuild(t, walls)
	badRoot.Root = NodeChild(99)

	selfRef := mustBuild(t, walls)
	selfRef.Nodes[0].Left = NodeChild(0)

	badEdge := mustBuild(t, walls)
	badEdge.Subsectors[0].Edges[0].Segment = SegmentID(badEdge.Segments.Len())

	var badEpsilon []byte
	badEpsilon = protowire.AppendTag(badEpsilon, 6, protowire.Fixed64Type)
	badEpsilon = protowire.AppendFixed64(badEpsilon, math.Float64bits(-1))

	tests := []struct {
		name string
		data []byte
	}{
		{"truncated", good[:len(good)-3]},
		{"bad tag", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
		{"root out of range", badRoot.Marshal()},
		{"node refers to itself", selfRef.Marshal()},
		{"edge refers to missing seg", badEdge.Marshal()},
		{"negative epsilon", badEpsilon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := UnmarshalTree(tt.data)
			if err == nil {
				t.Fatalf("Expected an error, got a tree with %d nodes\n", len(tree.Nodes))
			}
			if !errors.Is(err, ErrBadTreeData) {
				t.Errorf("Expected ErrBadTreeData, got %s\n", err.Error())
			}
		})
	}
}

func TestUnmarshalTreeSkipsUnknownFields(t *testing.T) {
	tree := mustBuild(t, Rect(0, 0, 2, 2, 0))
	data := protowire.AppendTag(nil, 100, protowire.BytesType)
	data = protowire.AppendBytes(data, []byte("future"))
	data = append(data, tree.Marshal()...)
	got, err := UnmarshalTree(data)
	if err != nil {
		t.Fatalf("Unknown field broke decoding: %s\n", err.Error())
	}
	if len(got.Subsectors) != 1 {
		t.Errorf("Expected 1 subsector, got %d\n", len(got.Subsectors))
	}
}
