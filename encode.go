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
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"google.golang.org/protobuf/encoding/protowire"
)

// Trees are serialized as protobuf messages, written and read field by field.
// This is an extra for callers wanting to store or ship a tree; building
// does not depend on it.
// The layout, in .proto terms:
//
//	message Tree {
//	  repeated Vertex vertices = 1;   // x = 1, y = 2 (double)
//	  repeated Segment segments = 2;  // start = 1, end = 2 (uint32),
//	                                  // line = 3, front = 4, back = 5 (sint32)
//	  repeated Node nodes = 3;        // splitter = 1, rbox = 2, lbox = 3,
//	                                  // rchild = 4, lchild = 5 (uint32)
//	  repeated Subsector subsectors = 4; // edges = 1, sector = 2 (sint32)
//	  uint32 root = 5;
//	  double epsilon = 6;
//	}
//	message Box { double minx = 1; double miny = 2; double maxx = 3; double maxy = 4; }
//	message Edge { uint32 seg = 1; uint32 start = 2; uint32 end = 3; }
//
// Children are packed GL-nodes style: subsector indices have the high bit set

const SSECTOR_GL_MASK = uint32(0x80000000)

var ErrBadTreeData = errors.New("malformed tree data")

func packChild(c Child) uint64 {
	if c.IsSubsector() {
		return uint64(uint32(c.Index) | SSECTOR_GL_MASK)
	}
	return uint64(uint32(c.Index))
}

func unpackChild(v uint64) Child {
	u := uint32(v)
	if u&SSECTOR_GL_MASK != 0 {
		return SubsectorChild(int(u &^ SSECTOR_GL_MASK))
	}
	return NodeChild(int(u))
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendUint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendSint(b []byte, num protowire.Number, v int) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeZigZag(int64(v)))
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func appendBox(b []byte, num protowire.Number, box BoundingBox) []byte {
	var msg []byte
	msg = appendDouble(msg, 1, box.Min[0])
	msg = appendDouble(msg, 2, box.Min[1])
	msg = appendDouble(msg, 3, box.Max[0])
	msg = appendDouble(msg, 4, box.Max[1])
	return appendMessage(b, num, msg)
}

// Marshal serializes the tree together with the vertices and segs it refers
// to
func (t *Tree) Marshal() []byte {
	var b []byte
	var msg []byte
	for _, v := range t.Vertices.Vertices() {
		msg = msg[:0]
		msg = appendDouble(msg, 1, v.Pos[0])
		msg = appendDouble(msg, 2, v.Pos[1])
		b = appendMessage(b, 1, msg)
	}
	for i := 0; i < t.Segments.Len(); i++ {
		seg := t.Segments.Segment(SegmentID(i))
		msg = msg[:0]
		msg = appendUint(msg, 1, uint64(seg.Start))
		msg = appendUint(msg, 2, uint64(seg.End))
		msg = appendSint(msg, 3, seg.Line)
		msg = appendSint(msg, 4, seg.Front)
		msg = appendSint(msg, 5, seg.Back)
		b = appendMessage(b, 2, msg)
	}
	for _, node := range t.Nodes {
		msg = msg[:0]
		msg = appendUint(msg, 1, uint64(node.Splitter))
		msg = appendBox(msg, 2, node.RightBox)
		msg = appendBox(msg, 3, node.LeftBox)
		msg = appendUint(msg, 4, packChild(node.Right))
		msg = appendUint(msg, 5, packChild(node.Left))
		b = appendMessage(b, 3, msg)
	}
	for _, ss := range t.Subsectors {
		msg = msg[:0]
		for _, e := range ss.Edges {
			var em []byte
			em = appendUint(em, 1, uint64(e.Segment))
			em = appendUint(em, 2, uint64(e.Start))
			em = appendUint(em, 3, uint64(e.End))
			msg = appendMessage(msg, 1, em)
		}
		msg = appendSint(msg, 2, ss.Sector)
		b = appendMessage(b, 4, msg)
	}
	b = appendUint(b, 5, packChild(t.Root))
	b = appendDouble(b, 6, t.Vertices.Epsilon())
	return b
}

// fieldFunc receives one field of a message. It returns the number of bytes
// consumed from b, negative for a protowire error
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) int

func walkMessage(b []byte, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrBadTreeData, protowire.ParseError(n))
		}
		b = b[n:]
		m := fn(num, typ, b)
		if m == 0 {
			m = protowire.ConsumeFieldValue(num, typ, b)
		}
		if m < 0 {
			return fmt.Errorf("%w: field %d: %v", ErrBadTreeData, num, protowire.ParseError(m))
		}
		b = b[m:]
	}
	return nil
}

// Field helpers return 0 when the wire type doesn't match, letting
// walkMessage skip the field
func consumeDouble(typ protowire.Type, b []byte, dst *float64) int {
	if typ != protowire.Fixed64Type {
		return 0
	}
	v, n := protowire.ConsumeFixed64(b)
	if n >= 0 {
		*dst = math.Float64frombits(v)
	}
	return n
}

func consumeUint(typ protowire.Type, b []byte, dst *uint64) int {
	if typ != protowire.VarintType {
		return 0
	}
	v, n := protowire.ConsumeVarint(b)
	if n >= 0 {
		*dst = v
	}
	return n
}

func consumeSint(typ protowire.Type, b []byte, dst *int) int {
	var v uint64
	n := consumeUint(typ, b, &v)
	if n > 0 {
		*dst = int(protowire.DecodeZigZag(v))
	}
	return n
}

// consumeMessage hands the embedded message to fn, and remembers fn's error
func consumeMessage(typ protowire.Type, b []byte, errp *error, fn fieldFunc) int {
	if typ != protowire.BytesType {
		return 0
	}
	msg, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return n
	}
	if err := walkMessage(msg, fn); err != nil && *errp == nil {
		*errp = err
	}
	return n
}

func boxReader(box *BoundingBox) fieldFunc {
	return func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeDouble(typ, b, &box.Min[0])
		case 2:
			return consumeDouble(typ, b, &box.Min[1])
		case 3:
			return consumeDouble(typ, b, &box.Max[0])
		case 4:
			return consumeDouble(typ, b, &box.Max[1])
		}
		return 0
	}
}

// UnmarshalTree reads what Marshal wrote. References between vertices, segs,
// nodes and subsectors are checked to be in range
func UnmarshalTree(data []byte) (*Tree, error) {
	var positions []mgl64.Vec2
	var segs []Segment
	var nodes []Node
	var subsectors []Subsector
	var root uint64
	epsilon := VERTEX_WELDING_EPSILON
	var nested error

	err := walkMessage(data, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			var pos mgl64.Vec2
			n := consumeMessage(typ, b, &nested, func(num protowire.Number, typ protowire.Type, b []byte) int {
				if num == 1 || num == 2 {
					return consumeDouble(typ, b, &pos[num-1])
				}
				return 0
			})
			positions = append(positions, pos)
			return n
		case 2:
			seg := Segment{ID: SegmentID(len(segs))}
			var start, end uint64
			n := consumeMessage(typ, b, &nested, func(num protowire.Number, typ protowire.Type, b []byte) int {
				switch num {
				case 1:
					return consumeUint(typ, b, &start)
				case 2:
					return consumeUint(typ, b, &end)
				case 3:
					return consumeSint(typ, b, &seg.Line)
				case 4:
					return consumeSint(typ, b, &seg.Front)
				case 5:
					return consumeSint(typ, b, &seg.Back)
				}
				return 0
			})
			seg.Start, seg.End = VertexID(start), VertexID(end)
			segs = append(segs, seg)
			return n
		case 3:
			var node Node
			var splitter, rchild, lchild uint64
			n := consumeMessage(typ, b, &nested, func(num protowire.Number, typ protowire.Type, b []byte) int {
				switch num {
				case 1:
					return consumeUint(typ, b, &splitter)
				case 2:
					return consumeMessage(typ, b, &nested, boxReader(&node.RightBox))
				case 3:
					return consumeMessage(typ, b, &nested, boxReader(&node.LeftBox))
				case 4:
					return consumeUint(typ, b, &rchild)
				case 5:
					return consumeUint(typ, b, &lchild)
				}
				return 0
			})
			node.Splitter = SegmentID(splitter)
			node.Right = unpackChild(rchild)
			node.Left = unpackChild(lchild)
			nodes = append(nodes, node)
			return n
		case 4:
			var ss Subsector
			n := consumeMessage(typ, b, &nested, func(num protowire.Number, typ protowire.Type, b []byte) int {
				switch num {
				case 1:
					var seg, start, end uint64
					m := consumeMessage(typ, b, &nested, func(num protowire.Number, typ protowire.Type, b []byte) int {
						switch num {
						case 1:
							return consumeUint(typ, b, &seg)
						case 2:
							return consumeUint(typ, b, &start)
						case 3:
							return consumeUint(typ, b, &end)
						}
						return 0
					})
					ss.Edges = append(ss.Edges, Edge{
						Segment: SegmentID(seg),
						Start:   VertexID(start),
						End:     VertexID(end),
					})
					return m
				case 2:
					return consumeSint(typ, b, &ss.Sector)
				}
				return 0
			})
			subsectors = append(subsectors, ss)
			return n
		case 5:
			return consumeUint(typ, b, &root)
		case 6:
			return consumeDouble(typ, b, &epsilon)
		}
		return 0
	})
	if err == nil {
		err = nested
	}
	if err != nil {
		return nil, err
	}
	if !(epsilon > 0 && epsilon < VMAP_BLOCK_SIZE/2) {
		return nil, fmt.Errorf("%w: welding epsilon %v", ErrBadTreeData, epsilon)
	}

	t := &Tree{
		Nodes:      nodes,
		Subsectors: subsectors,
		Root:       unpackChild(root),
		Vertices:   NewVertexAllocator(epsilon),
	}
	for _, pos := range positions {
		// Stored vertices are already welded, don't weld them again
		t.Vertices.insertVertex(pos)
	}
	t.Segments = NewSegmentAllocator(t.Vertices)
	for _, seg := range segs {
		if !t.vertexInRange(seg.Start) || !t.vertexInRange(seg.End) || seg.Start == seg.End {
			return nil, fmt.Errorf("%w: seg %d has bad vertices", ErrBadTreeData, seg.ID)
		}
		t.Segments.segs = append(t.Segments.segs, seg)
		t.Segments.table[makeSegKey(seg.Start, seg.End)] = seg.ID
	}
	if err := t.checkReferences(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) vertexInRange(v VertexID) bool {
	return v >= 0 && int(v) < t.Vertices.Len()
}

func (t *Tree) childInRange(c Child) bool {
	if c.IsSubsector() {
		return c.Index >= 0 && c.Index < len(t.Subsectors)
	}
	return c.Index >= 0 && c.Index < len(t.Nodes)
}

func (t *Tree) checkReferences() error {
	if !t.childInRange(t.Root) {
		return fmt.Errorf("%w: root %s out of range", ErrBadTreeData, t.Root)
	}
	for i, node := range t.Nodes {
		if int(node.Splitter) < 0 || int(node.Splitter) >= t.Segments.Len() {
			return fmt.Errorf("%w: node %d splitter out of range", ErrBadTreeData, i)
		}
		// children first, so a child always has a smaller index
		for _, c := range [2]Child{node.Right, node.Left} {
			if !t.childInRange(c) || (!c.IsSubsector() && c.Index >= i) {
				return fmt.Errorf("%w: node %d has bad child %s", ErrBadTreeData, i, c)
			}
		}
	}
	for i, ss := range t.Subsectors {
		for _, e := range ss.Edges {
			if int(e.Segment) < 0 || int(e.Segment) >= t.Segments.Len() ||
				!t.vertexInRange(e.Start) || !t.vertexInRange(e.End) {
				return fmt.Errorf("%w: subsector %d has bad edge", ErrBadTreeData, i)
			}
		}
	}
	return nil
}
