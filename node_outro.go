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

// node_outro
package glnodes

// What happens to the tree once everything has been built

// NodesTotals are build statistics
type NodesTotals struct {
	numNodes      int
	numSSectors   int
	numSplits     int
	numMinisegs   int
	maxEdgeCount  int // largest number of edges in one subsector
	segsAtStart   int
	prunedAtStart int
}

func HeightOfNodes(node *NodeInProcess) int {
	lHeight := 1
	rHeight := 1
	if node.nextL != nil {
		lHeight = HeightOfNodes(node.nextL) + 1
	}
	if node.nextR != nil {
		rHeight = HeightOfNodes(node.nextR) + 1
	}
	if lHeight < rHeight {
		return rHeight
	}
	return lHeight
}

// reverseNodes puts nodes into the array children first, so that the root
// comes last the way Doom expects it
func (b *Builder) reverseNodes(node *NodeInProcess) int {
	if node.nextR != nil {
		node.RChild = NodeChild(b.reverseNodes(node.nextR))
	}
	if node.nextL != nil {
		node.LChild = NodeChild(b.reverseNodes(node.nextL))
	}

	b.nodes = append(b.nodes, Node{
		Splitter: node.Splitter,
		RightBox: node.Rbox,
		LeftBox:  node.Lbox,
		Right:    node.RChild,
		Left:     node.LChild,
	})
	return len(b.nodes) - 1
}

func (b *Builder) finishTree() {
	if b.rootNode != nil {
		b.nodes = make([]Node, 0, b.totals.numNodes)
		b.root = NodeChild(b.reverseNodes(b.rootNode))
		b.log.Verbose(VERBOSE_TOTALS, "Tree height is %d\n", HeightOfNodes(b.rootNode))
	}
	b.tree = &Tree{
		Nodes:      b.nodes,
		Subsectors: b.subsectors,
		Root:       b.root,
		Vertices:   b.vertices,
		Segments:   b.segments,
	}
	b.log.Verbose(VERBOSE_TOTALS, "Created %d subsectors, %d nodes. Got %d segs (%d pruned) and %d minisegs. Split segs %d times.\n",
		b.totals.numSSectors, b.totals.numNodes, b.totals.segsAtStart,
		b.totals.prunedAtStart, b.totals.numMinisegs, b.totals.numSplits)
	b.log.Verbose(VERBOSE_TOTALS, "Most edges in a single subsector: %d\n", b.totals.maxEdgeCount)
}
