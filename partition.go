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

type PartitionState int

const (
	PARTITION_LOADED PartitionState = iota
	PARTITION_WORKING
	PARTITION_FINISHED
)

// Partitioner divides a seg set into the right and the left side of a
// splitter, one seg per Execute call, cutting segs that straddle the splitter
// line. Along the way it collects every vertex that ends up lying on the
// splitter line, which is where minisegs may be needed
type Partitioner struct {
	segAlloc  *SegmentAllocator
	junctions *JunctionClassifier
	epsilon   float64

	state     PartitionState
	splitter  SegmentID
	splitLine Line
	segs      []SegmentID
	cursor    int
	right     []SegmentID
	left      []SegmentID
	collinear []VertexID
	splits    int
}

func NewPartitioner(segAlloc *SegmentAllocator, junctions *JunctionClassifier, epsilon float64) *Partitioner {
	return &Partitioner{
		segAlloc:  segAlloc,
		junctions: junctions,
		epsilon:   epsilon,
		state:     PARTITION_FINISHED,
	}
}

func (p *Partitioner) Load(splitter SegmentID, segs []SegmentID) {
	if p.segAlloc.Segment(splitter).IsMiniseg() {
		Log.Panic("Partitioner: miniseg %d can't be a splitter\n", splitter)
	}
	p.splitter = splitter
	p.splitLine = p.segAlloc.SegLine(splitter)
	p.segs = segs
	p.cursor = 0
	p.right = nil
	p.left = nil
	p.collinear = nil
	p.splits = 0
	p.state = PARTITION_LOADED
	if len(segs) == 0 {
		p.state = PARTITION_FINISHED
	}
}

func (p *Partitioner) Execute() {
	if p.state == PARTITION_FINISHED {
		Log.Panic("Partitioner: Execute called when already finished\n")
	}
	p.state = PARTITION_WORKING
	p.categoriseAndMaybeDivideSeg(p.segs[p.cursor])
	p.cursor++
	if p.cursor >= len(p.segs) {
		p.state = PARTITION_FINISHED
	}
}

func (p *Partitioner) Run() {
	for p.state != PARTITION_FINISHED {
		p.Execute()
	}
}

func (p *Partitioner) categoriseAndMaybeDivideSeg(id SegmentID) {
	seg := p.segAlloc.Segment(id)
	if id == p.splitter {
		p.collinear = append(p.collinear, seg.Start, seg.End)
		p.right = append(p.right, id)
		if seg.TwoSided() {
			p.left = append(p.left, id)
		}
		return
	}

	verts := p.segAlloc.Vertices()
	dS := p.splitLine.PerpDistance(verts.Pos(seg.Start))
	dE := p.splitLine.PerpDistance(verts.Pos(seg.End))
	sS := sideFromDistance(dS, p.epsilon)
	sE := sideFromDistance(dE, p.epsilon)

	switch {
	case sS == SIDE_ON && sE == SIDE_ON:
		p.collinear = append(p.collinear, seg.Start, seg.End)
		if seg.OneSided() {
			// Facing the same way as the splitter, the void behind is on
			// the left, otherwise it's on the right
			if p.segAlloc.SegLine(id).SameDirection(p.splitLine) {
				p.right = append(p.right, id)
			} else {
				p.left = append(p.left, id)
			}
		} else {
			p.right = append(p.right, id)
			p.left = append(p.left, id)
		}
	case sS == SIDE_ON:
		p.collinear = append(p.collinear, seg.Start)
		p.addToSide(sE, id)
	case sE == SIDE_ON:
		p.collinear = append(p.collinear, seg.End)
		p.addToSide(sS, id)
	case sS == sE:
		p.addToSide(sS, id)
	default:
		// Line is split; both ends off the line and on opposite sides, so
		// the cut is farther than epsilon from both of them
		t := dS / (dS - dE)
		first, second, middle := p.segAlloc.Split(id, t)
		p.splits++
		p.collinear = append(p.collinear, middle)
		if p.junctions != nil {
			p.junctions.AddSplit(id, first, second)
		}
		p.addToSide(sS, first)
		p.addToSide(sE, second)
	}
}

func (p *Partitioner) addToSide(side Side, id SegmentID) {
	if side == SIDE_RIGHT {
		p.right = append(p.right, id)
	} else {
		p.left = append(p.left, id)
	}
}

func (p *Partitioner) State() PartitionState {
	return p.state
}

func (p *Partitioner) Right() []SegmentID {
	return p.right
}

func (p *Partitioner) Left() []SegmentID {
	return p.left
}

// Collinear returns vertices found on the splitter line. Can contain
// duplicates
func (p *Partitioner) Collinear() []VertexID {
	return p.collinear
}

func (p *Partitioner) Splits() int {
	return p.splits
}
