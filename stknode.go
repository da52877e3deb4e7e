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

// This unit holds what makes building the tree steppable instead of
// recursive: seg sets waiting to be turned into nodes or subsectors are kept
// on an explicit stack, together with where in the tree the result is to be
// attached. Stk stands for "stUck", as in being stuck to give a name to it

// NodeInProcess is a node whose children may not be known yet. Children that
// are nodes are linked through nextR/nextL, subsectors go to RChild/LChild
type NodeInProcess struct {
	Splitter SegmentID
	Rbox     BoundingBox
	Lbox     BoundingBox
	RChild   Child
	LChild   Child
	nextR    *NodeInProcess
	nextL    *NodeInProcess
}

func (n *NodeInProcess) setNodeChild(isRightChild bool, child *NodeInProcess) {
	if isRightChild {
		n.nextR = child
	} else {
		n.nextL = child
	}
}

func (n *NodeInProcess) setSubsectorChild(isRightChild bool, ssector int) {
	if isRightChild {
		n.nextR = nil
		n.RChild = SubsectorChild(ssector)
	} else {
		n.nextL = nil
		n.LChild = SubsectorChild(ssector)
	}
}

type StkQueueTask struct {
	parent       *NodeInProcess // nil for root
	isRightChild bool           // whether it's parent left or right subnode
	depth        int            // depth in tree relative to root (root is at 0)
	segs         []SegmentID    // seg set to process
}

// StkQueue is a LIFO despite the name: the last enqueued task is dequeued
// first, giving a depth-first build
type StkQueue struct {
	tasks []StkQueueTask
}

func (q *StkQueue) Enqueue(task StkQueueTask) {
	q.tasks = append(q.tasks, task)
}

func (q *StkQueue) Dequeue() StkQueueTask {
	if len(q.tasks) == 0 {
		Log.Panic("StkQueue: dequeue from empty queue\n")
	}
	task := q.tasks[len(q.tasks)-1]
	q.tasks[len(q.tasks)-1] = StkQueueTask{}
	q.tasks = q.tasks[:len(q.tasks)-1]
	return task
}

func (q *StkQueue) Empty() bool {
	return len(q.tasks) == 0
}

func (q *StkQueue) Len() int {
	return len(q.tasks)
}
