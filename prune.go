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

// PruneDanglingChains removes walls that hang off the map: a wall with an end
// that no other wall touches can't bound any region, and once it's gone the
// wall it was attached to may be dangling too. The order of the survivors is
// preserved
func PruneDanglingChains(segAlloc *SegmentAllocator, segs []SegmentID) (kept []SegmentID, pruned []SegmentID) {
	degree := make(map[VertexID]int)
	incident := make(map[VertexID][]int) // indices into segs
	for i, id := range segs {
		seg := segAlloc.Segment(id)
		degree[seg.Start]++
		degree[seg.End]++
		incident[seg.Start] = append(incident[seg.Start], i)
		incident[seg.End] = append(incident[seg.End], i)
	}

	// Each vertex is enqueued once initially and at most once more, when
	// its degree drops to one
	queue := CreateRing[VertexID](uint32(2*len(degree) + 1))
	for _, id := range segs {
		seg := segAlloc.Segment(id)
		for _, v := range [2]VertexID{seg.Start, seg.End} {
			if degree[v] == 1 {
				queue.Enqueue(v)
			}
		}
	}

	removed := make([]bool, len(segs))
	for !queue.Empty() {
		v := queue.Dequeue()
		if degree[v] != 1 {
			continue
		}
		for _, i := range incident[v] {
			if removed[i] {
				continue
			}
			removed[i] = true
			seg := segAlloc.Segment(segs[i])
			other := seg.Opposite(v)
			degree[v]--
			degree[other]--
			if degree[other] == 1 {
				queue.Enqueue(other)
			}
			break
		}
	}

	for i, id := range segs {
		if removed[i] {
			pruned = append(pruned, id)
		} else {
			kept = append(kept, id)
		}
	}
	return kept, pruned
}
