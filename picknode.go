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

// picknode
package glnodes

import (
	"math"
)

const INITIAL_BIG_COST = math.MaxInt

type SplitCalcState int

const (
	SPLITCALC_LOADED SplitCalcState = iota
	SPLITCALC_WORKING
	SPLITCALC_FINISHED
)

// SplitCalculator is the traditional BSP v5.2 way of picking partitions:
// every seg is tried as a splitter, the one with the lowest cost wins. Cost
// is dominated by how many segs get split, and then by how uneven the two
// sides are. One candidate is scored per Execute call.
// Minisegs are never candidates, and only one seg out of every group of
// collinear segs gets scored - the rest would produce the exact same
// nodeline
type SplitCalculator struct {
	segAlloc *SegmentAllocator
	cfg      *Config

	state  SplitCalcState
	segs   []SegmentID
	cursor int
	// Collinear segs share an alias (> 0), handed out while scoring: a seg
	// found collinear to the candidate inherits the candidate's alias and is
	// skipped when its own turn comes
	segAlias  map[SegmentID]int
	lastAlias int
	best      SegmentID
	bestCost  int
	evaluated int // how many candidates were actually scored
}

func NewSplitCalculator(segAlloc *SegmentAllocator, cfg *Config) *SplitCalculator {
	calc := &SplitCalculator{
		segAlloc: segAlloc,
		cfg:      cfg,
		state:    SPLITCALC_FINISHED,
		best:     -1,
	}
	return calc
}

func (c *SplitCalculator) Load(segs []SegmentID) {
	if len(segs) == 0 {
		Log.Panic("SplitCalculator: nothing to pick from\n")
	}
	c.segs = segs
	c.cursor = 0
	c.best = -1
	c.bestCost = INITIAL_BIG_COST
	c.evaluated = 0
	c.segAlias = make(map[SegmentID]int)
	c.lastAlias = 0
	c.state = SPLITCALC_LOADED
}

func (c *SplitCalculator) Execute() {
	if c.state == SPLITCALC_FINISHED {
		Log.Panic("SplitCalculator: Execute called when already finished\n")
	}
	c.state = SPLITCALC_WORKING
	part := c.segs[c.cursor]
	c.cursor++
	if c.cursor >= len(c.segs) {
		c.state = SPLITCALC_FINISHED
	}

	if c.segAlloc.Segment(part).IsMiniseg() {
		return
	}
	if c.segAlias[part] != 0 {
		// collinear to a candidate already scored
		return
	}
	c.lastAlias++
	alias := c.lastAlias
	c.segAlias[part] = alias
	c.evaluated++
	cost := c.scoreSplitter(part, alias)
	if cost < c.bestCost {
		// We have a new better choice
		c.bestCost = cost
		c.best = part
	}
}

func (c *SplitCalculator) Run() {
	for c.state != SPLITCALC_FINISHED {
		c.Execute()
	}
}

// scoreSplitter returns the cost of part as a splitter. Returns
// INITIAL_BIG_COST if part would leave one side empty without splitting
// anything, or something above bestCost if it was pruned early
func (c *SplitCalculator) scoreSplitter(part SegmentID, alias int) int {
	w := c.cfg.SplitWeights
	eps := c.cfg.VertexWeldingEpsilon
	verts := c.segAlloc.Vertices()
	line := c.segAlloc.SegLine(part)

	cost := 0
	if !line.AxisAligned() {
		cost += w.NotAxisAlignedScore
	}
	left, right, splits := 0, 0, 0
	for _, check := range c.segs {
		if check == part {
			continue
		}
		seg := c.segAlloc.Segment(check)
		dS := line.PerpDistance(verts.Pos(seg.Start))
		dE := line.PerpDistance(verts.Pos(seg.End))
		sS := sideFromDistance(dS, eps)
		sE := sideFromDistance(dE, eps)
		var side Side
		switch {
		case sS == SIDE_ON && sE == SIDE_ON:
			// co-linear, must share alias
			c.segAlias[check] = alias
			continue
		case sS == SIDE_ON:
			side = sE
		case sE == SIDE_ON, sS == sE:
			side = sS
		default:
			splits++
			cost += w.SplitScoreFactor
			t := dS / (dS - dE)
			segLen := c.segAlloc.SegLine(check).Delta.Len()
			if math.Min(t, 1-t)*segLen < c.cfg.PunishableEndpointDistance {
				cost += w.NearEndpointSplitScore
			}
			if cost > c.bestCost {
				// This is the heart of Killough's pruning idea, it catches
				// bad segs early on
				return cost
			}
			continue
		}
		if side == SIDE_RIGHT {
			right++
		} else {
			left++
		}
	}
	if splits == 0 && (left == 0 || right == 0) {
		// Everything on one side is no partition at all
		return INITIAL_BIG_COST
	}
	diff := left - right
	if diff < 0 {
		diff = -diff
	}
	return cost + diff*w.LeftRightImbalanceScore
}

func (c *SplitCalculator) State() SplitCalcState {
	return c.state
}

// Best returns the chosen splitter, and false if no seg could serve as one
func (c *SplitCalculator) Best() (SegmentID, bool) {
	return c.best, c.best >= 0
}

func (c *SplitCalculator) BestCost() int {
	return c.bestCost
}

func (c *SplitCalculator) Evaluated() int {
	return c.evaluated
}
